package audit

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/audittrail/audittrail/internal/application/classify"
	"github.com/audittrail/audittrail/internal/application/consensus"
	"github.com/audittrail/audittrail/internal/application/report"
	"github.com/audittrail/audittrail/pkg/domain"
	"github.com/audittrail/audittrail/pkg/ports"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventTopic is the event bus topic all audit events are published on.
const EventTopic = "audit.events"

// Manager coordinates the audit pipeline: validation, classification,
// provider fan-out, consensus reduction, rendering and report storage.
type Manager struct {
	validator   *Validator
	classifier  *classify.Classifier
	coordinator *Coordinator
	eventBus    ports.EventBus
	store       ports.ReportStore
	metrics     ports.MetricsCollector
	logger      *zap.Logger

	activeAudits atomic.Int64
}

// NewManager creates a new audit manager
func NewManager(
	validator *Validator,
	classifier *classify.Classifier,
	coordinator *Coordinator,
	eventBus ports.EventBus,
	store ports.ReportStore,
	metrics ports.MetricsCollector,
	logger *zap.Logger,
) *Manager {
	return &Manager{
		validator:   validator,
		classifier:  classifier,
		coordinator: coordinator,
		eventBus:    eventBus,
		store:       store,
		metrics:     metrics,
		logger:      logger,
	}
}

// Providers returns the names of the providers the manager fans out to
func (m *Manager) Providers() []string {
	return m.coordinator.Providers()
}

// Audit runs the full pipeline for one question and returns the report.
// Request-level failures are domain.ErrInputTooShort,
// domain.ErrNoProvidersConfigured and domain.ErrAllProvidersFailed;
// individual provider failures are recorded on the report instead.
func (m *Manager) Audit(ctx context.Context, question string) (*domain.Report, error) {
	start := time.Now()

	question, err := m.validator.Validate(question)
	if err != nil {
		m.metrics.RecordAudit("rejected", time.Since(start))
		return nil, err
	}

	auditID := uuid.New().String()
	tag := m.classifier.Classify(question)

	m.metrics.SetActiveAudits(int(m.activeAudits.Add(1)))
	defer func() {
		m.metrics.SetActiveAudits(int(m.activeAudits.Add(-1)))
	}()

	m.logger.Info("audit submitted",
		zap.String("audit_id", auditID),
		zap.String("domain", string(tag.Domain)),
		zap.Int("question_len", len(question)))

	m.publishEvent(ctx, auditID, ports.EventTypeAuditSubmitted, map[string]interface{}{
		"domain": string(tag.Domain),
		"risk":   string(tag.Risk),
	})

	results, err := m.coordinator.Run(ctx, question, func(result domain.ProviderResult) {
		m.observeProvider(ctx, auditID, result)
	})
	if err != nil {
		m.metrics.RecordAudit("failed", time.Since(start))
		m.publishEvent(ctx, auditID, ports.EventTypeAuditFailed, map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	summary, err := consensus.Reduce(results)
	if err != nil {
		m.metrics.RecordAudit("failed", time.Since(start))
		m.publishEvent(ctx, auditID, ports.EventTypeAuditFailed, map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("%w: %s", err, summarizeFailures(results))
	}

	m.metrics.RecordConsensus(summary.Average, summary.Spread, string(summary.Tier))

	rep := &domain.Report{
		ID:        auditID,
		Question:  question,
		Tag:       tag,
		Results:   results,
		Summary:   summary,
		CreatedAt: time.Now(),
	}
	rep.Text = report.Render(rep)

	if err := m.store.SaveReport(ctx, rep); err != nil {
		// Storage is best effort; the caller still gets the report.
		m.logger.Error("failed to save report",
			zap.String("audit_id", auditID),
			zap.Error(err))
	}

	duration := time.Since(start)
	m.metrics.RecordAudit("completed", duration)
	m.publishEvent(ctx, auditID, ports.EventTypeAuditCompleted, map[string]interface{}{
		"average": summary.Average,
		"spread":  summary.Spread,
		"tier":    string(summary.Tier),
	})

	m.logger.Info("audit completed",
		zap.String("audit_id", auditID),
		zap.Float64("average_confidence", summary.Average),
		zap.String("tier", string(summary.Tier)),
		zap.Duration("duration", duration))

	return rep, nil
}

// GetReport retrieves a previously stored report by audit ID
func (m *Manager) GetReport(ctx context.Context, id string) (*domain.Report, error) {
	return m.store.GetReport(ctx, id)
}

func (m *Manager) observeProvider(ctx context.Context, auditID string, result domain.ProviderResult) {
	m.metrics.RecordProviderCall(result.Provider, providerStatus(result), result.Latency)

	eventType := ports.EventTypeProviderCompleted
	data := map[string]interface{}{
		"provider": result.Provider,
		"model":    result.Model,
	}
	if result.Success {
		data["confidence"] = result.Verdict.Confidence
	} else {
		eventType = ports.EventTypeProviderFailed
		data["error_kind"] = string(result.ErrorKind)
		data["error"] = result.Error
	}

	m.publishEvent(ctx, auditID, eventType, data)
}

func (m *Manager) publishEvent(ctx context.Context, auditID string, eventType ports.EventType, data map[string]interface{}) {
	event := ports.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		AuditID:   auditID,
		Timestamp: time.Now(),
		Data:      data,
	}

	if err := m.eventBus.Publish(ctx, EventTopic, event); err != nil {
		m.logger.Error("failed to publish event",
			zap.String("audit_id", auditID),
			zap.String("event_type", string(eventType)),
			zap.Error(err))
	}
}

func providerStatus(result domain.ProviderResult) string {
	if result.Success {
		return "success"
	}
	return string(result.ErrorKind)
}

// summarizeFailures lists per-provider failure reasons for the
// request-level error message.
func summarizeFailures(results []domain.ProviderResult) string {
	msg := ""
	for _, r := range results {
		if r.Success {
			continue
		}
		if msg != "" {
			msg += "; "
		}
		msg += fmt.Sprintf("%s: %s", r.Provider, r.Error)
	}
	return msg
}
