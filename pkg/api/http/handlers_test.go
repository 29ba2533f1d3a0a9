package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/audittrail/audittrail/internal/application/audit"
	"github.com/audittrail/audittrail/internal/application/classify"
	eventsmemory "github.com/audittrail/audittrail/pkg/adapters/events/memory"
	storagememory "github.com/audittrail/audittrail/pkg/adapters/storage/memory"
	"github.com/audittrail/audittrail/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubClient is a canned ports.LLMClient. ForceJSON distinguishes the
// audit call from the answer call.
type stubClient struct {
	name       string
	answer     string
	auditReply string
	err        error
}

func (s *stubClient) Name() string  { return s.name }
func (s *stubClient) Model() string { return s.name + "-model" }

func (s *stubClient) Complete(ctx context.Context, req ports.ChatRequest) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if req.ForceJSON {
		return s.auditReply, nil
	}
	return s.answer, nil
}

func healthyStub(name string, confidence float64) *stubClient {
	return &stubClient{
		name:   name,
		answer: "stub answer",
		auditReply: fmt.Sprintf(
			`{"confidence_percentage": %g, "what_might_be_wrong": "little", "uncertainty_areas": "few", "risk_if_incorrect": "low", "alternative_interpretation": "none"}`,
			confidence),
	}
}

type noopMetrics struct{}

func (noopMetrics) RecordAudit(status string, duration time.Duration)                  {}
func (noopMetrics) RecordProviderCall(provider, status string, duration time.Duration) {}
func (noopMetrics) RecordConsensus(average, spread float64, tier string)               {}
func (noopMetrics) SetActiveAudits(count int)                                          {}

func newTestServer(t *testing.T, clients ...ports.LLMClient) *Server {
	t.Helper()

	logger := zap.NewNop()
	adapters := make([]*audit.ProviderAdapter, len(clients))
	for i, client := range clients {
		adapters[i] = audit.NewProviderAdapter(client, 0.3, 1024, 5*time.Second, logger)
	}

	manager := audit.NewManager(
		audit.NewValidator(5),
		classify.NewClassifier(),
		audit.NewCoordinator(adapters, logger),
		eventsmemory.NewInMemoryEventBus(),
		storagememory.NewInMemoryReportStore(),
		noopMetrics{},
		logger,
	)

	return NewServer(&Config{
		Port:    0,
		Manager: manager,
		Logger:  logger,
		Version: "test",
	})
}

func TestAuditPlainText(t *testing.T) {
	s := newTestServer(t, healthyStub("openai", 95), healthyStub("anthropic", 90))

	req := httptest.NewRequest(http.MethodPost, "/audit", strings.NewReader("What is 2+2?"))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()

	s.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "AUDITTRAIL TRANSPARENCY REPORT")
	assert.Contains(t, body, "95%")
	assert.Contains(t, body, "Agreement: HIGH")
}

func TestAuditJSON(t *testing.T) {
	s := newTestServer(t, healthyStub("openai", 95))

	req := httptest.NewRequest(http.MethodPost, "/audit",
		strings.NewReader(`{"question": "What is 2+2?"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	s.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp AuditResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.AuditID)
	assert.Contains(t, resp.Report, "95%")
}

func TestAuditShortQuestion(t *testing.T) {
	s := newTestServer(t, healthyStub("openai", 95))

	t.Run("json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/audit",
			strings.NewReader(`{"question": "hi"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		s.Router().ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "INPUT_TOO_SHORT", resp.Error.Code)
	})

	t.Run("text", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/audit", strings.NewReader("hi"))
		req.Header.Set("Content-Type", "text/plain")
		w := httptest.NewRecorder()

		s.Router().ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.True(t, strings.HasPrefix(w.Body.String(), "Error: "))
	})
}

func TestAuditInvalidJSONBody(t *testing.T) {
	s := newTestServer(t, healthyStub("openai", 95))

	req := httptest.NewRequest(http.MethodPost, "/audit", strings.NewReader(`{"q": }`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	s.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_REQUEST", resp.Error.Code)
}

func TestAuditAllProvidersFailed(t *testing.T) {
	s := newTestServer(t, &stubClient{name: "down", err: errors.New("unreachable")})

	req := httptest.NewRequest(http.MethodPost, "/audit",
		strings.NewReader(`{"question": "What is 2+2?"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	s.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusBadGateway, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ALL_PROVIDERS_FAILED", resp.Error.Code)
}

func TestAuditNoProviders(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/audit",
		strings.NewReader(`{"question": "What is 2+2?"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	s.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestGetReport(t *testing.T) {
	s := newTestServer(t, healthyStub("openai", 88))

	req := httptest.NewRequest(http.MethodPost, "/audit",
		strings.NewReader(`{"question": "What is 2+2?"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var created AuditResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	t.Run("found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/audits/"+created.AuditID, nil)
		w := httptest.NewRecorder()
		s.Router().ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), created.AuditID)
	})

	t.Run("not found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/audits/missing", nil)
		w := httptest.NewRecorder()
		s.Router().ServeHTTP(w, req)

		require.Equal(t, http.StatusNotFound, w.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "NOT_FOUND", resp.Error.Code)
	})
}

func TestHealth(t *testing.T) {
	t.Run("with providers", func(t *testing.T) {
		s := newTestServer(t, healthyStub("openai", 90))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()
		s.Router().ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "healthy")
	})

	t.Run("degraded when storage is unreachable", func(t *testing.T) {
		s := newTestServer(t, healthyStub("openai", 90))
		s.checkStorage = func(ctx context.Context) error {
			return errors.New("connection refused")
		}

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()
		s.Router().ServeHTTP(w, req)

		require.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "unreachable")
	})

	t.Run("degraded without providers", func(t *testing.T) {
		s := newTestServer(t)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()
		s.Router().ServeHTTP(w, req)

		require.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "degraded")
	})
}

func TestRoot(t *testing.T) {
	s := newTestServer(t, healthyStub("openai", 90), healthyStub("google", 85))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Service   string   `json:"service"`
		Providers []string `json:"providers"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "audittrail", body.Service)
	assert.Equal(t, []string{"openai", "google"}, body.Providers)
}
