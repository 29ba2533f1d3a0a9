package audit

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/audittrail/audittrail/pkg/ports"
)

// fakeClient implements ports.LLMClient for tests. The audit call is
// distinguished from the answer call by ForceJSON.
type fakeClient struct {
	name       string
	answer     string
	auditReply string
	answerErr  error
	auditErr   error
	delay      time.Duration

	calls    atomic.Int64
	inFlight atomic.Int64
	maxSeen  atomic.Int64
}

func newFakeClient(name string, confidence float64) *fakeClient {
	return &fakeClient{
		name:   name,
		answer: "fake answer from " + name,
		auditReply: fmt.Sprintf(
			`{"confidence_percentage": %g, "what_might_be_wrong": "nothing major", "uncertainty_areas": "few", "risk_if_incorrect": "low", "alternative_interpretation": "none"}`,
			confidence),
	}
}

func (f *fakeClient) Name() string  { return f.name }
func (f *fakeClient) Model() string { return f.name + "-model" }

func (f *fakeClient) Complete(ctx context.Context, req ports.ChatRequest) (string, error) {
	f.calls.Add(1)

	cur := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		max := f.maxSeen.Load()
		if cur <= max || f.maxSeen.CompareAndSwap(max, cur) {
			break
		}
	}

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if req.ForceJSON {
		if f.auditErr != nil {
			return "", f.auditErr
		}
		return f.auditReply, nil
	}

	if f.answerErr != nil {
		return "", f.answerErr
	}
	return f.answer, nil
}

// fakeMetrics implements ports.MetricsCollector and records invocations.
type fakeMetrics struct {
	mu            sync.Mutex
	audits        map[string]int
	providerCalls map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{
		audits:        make(map[string]int),
		providerCalls: make(map[string]int),
	}
}

func (m *fakeMetrics) RecordAudit(status string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.audits[status]++
}

func (m *fakeMetrics) RecordProviderCall(provider, status string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.providerCalls[provider+"/"+status]++
}

func (m *fakeMetrics) RecordConsensus(average, spread float64, tier string) {}
func (m *fakeMetrics) SetActiveAudits(count int)                           {}

func (m *fakeMetrics) auditCount(status string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.audits[status]
}
