package ports

import (
	"context"
	"time"

	"github.com/audittrail/audittrail/pkg/domain"
)

// ChatRequest carries one completion request to an LLM backend.
type ChatRequest struct {
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int

	// ForceJSON asks the backend for a JSON-only response where the API
	// supports it (response_format / responseMimeType). Backends without
	// such a switch rely on the prompt alone.
	ForceJSON bool
}

// LLMClient is a single hosted model backend.
type LLMClient interface {
	// Name identifies the provider (e.g. "openai", "anthropic").
	Name() string

	// Model returns the model identifier used for completions.
	Model() string

	// Complete sends one chat completion request and returns the raw
	// response text.
	Complete(ctx context.Context, req ChatRequest) (string, error)
}

// Event is a lifecycle notification published during an audit.
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	AuditID   string                 `json:"audit_id"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// EventType identifies the kind of audit event.
type EventType string

const (
	EventTypeAuditSubmitted    EventType = "audit.submitted"
	EventTypeAuditCompleted    EventType = "audit.completed"
	EventTypeAuditFailed       EventType = "audit.failed"
	EventTypeProviderCompleted EventType = "provider.completed"
	EventTypeProviderFailed    EventType = "provider.failed"
)

// EventHandler processes a single event.
type EventHandler func(ctx context.Context, event Event) error

// EventBus publishes and delivers audit events.
type EventBus interface {
	Publish(ctx context.Context, topic string, event Event) error
	Subscribe(ctx context.Context, topic string, handler EventHandler) error
	Unsubscribe(ctx context.Context, topic string) error
	Close() error
}

// ReportStore persists completed reports for later retrieval.
type ReportStore interface {
	SaveReport(ctx context.Context, report *domain.Report) error

	// GetReport returns domain.ErrReportNotFound for unknown or expired IDs.
	GetReport(ctx context.Context, id string) (*domain.Report, error)
	DeleteReport(ctx context.Context, id string) error
	ListReports(ctx context.Context) ([]string, error)
}

// MetricsCollector records operational metrics for the audit pipeline.
type MetricsCollector interface {
	RecordAudit(status string, duration time.Duration)
	RecordProviderCall(provider, status string, duration time.Duration)
	RecordConsensus(average, spread float64, tier string)
	SetActiveAudits(count int)
}
