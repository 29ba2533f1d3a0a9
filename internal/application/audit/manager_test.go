package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/audittrail/audittrail/internal/application/classify"
	eventsmemory "github.com/audittrail/audittrail/pkg/adapters/events/memory"
	storagememory "github.com/audittrail/audittrail/pkg/adapters/storage/memory"
	"github.com/audittrail/audittrail/pkg/domain"
	"github.com/audittrail/audittrail/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type managerFixture struct {
	manager *Manager
	store   *storagememory.InMemoryReportStore
	bus     *eventsmemory.InMemoryEventBus
	metrics *fakeMetrics
}

func newManagerFixture(clients ...*fakeClient) *managerFixture {
	adapters := make([]*ProviderAdapter, len(clients))
	for i, client := range clients {
		adapters[i] = newTestAdapter(client)
	}

	store := storagememory.NewInMemoryReportStore()
	bus := eventsmemory.NewInMemoryEventBus()
	metrics := newFakeMetrics()

	manager := NewManager(
		NewValidator(5),
		classify.NewClassifier(),
		NewCoordinator(adapters, zap.NewNop()),
		bus,
		store,
		metrics,
		zap.NewNop(),
	)

	return &managerFixture{manager: manager, store: store, bus: bus, metrics: metrics}
}

func TestManagerRejectsShortQuestion(t *testing.T) {
	client := newFakeClient("a", 90)
	f := newManagerFixture(client)

	_, err := f.manager.Audit(context.Background(), "hi")
	require.ErrorIs(t, err, domain.ErrInputTooShort)

	// Validation happens before any provider is contacted.
	assert.Equal(t, int64(0), client.calls.Load())
	assert.Equal(t, 1, f.metrics.auditCount("rejected"))
}

func TestManagerHappyPath(t *testing.T) {
	f := newManagerFixture(
		newFakeClient("openai", 95),
		newFakeClient("anthropic", 90),
	)

	rep, err := f.manager.Audit(context.Background(), "What is 2+2?")
	require.NoError(t, err)

	assert.NotEmpty(t, rep.ID)
	assert.Equal(t, "What is 2+2?", rep.Question)
	assert.Equal(t, domain.DomainMath, rep.Tag.Domain)

	require.NotNil(t, rep.Summary)
	assert.Equal(t, 92.5, rep.Summary.Average)
	assert.Equal(t, 5.0, rep.Summary.Spread)
	assert.Equal(t, domain.AgreementHigh, rep.Summary.Tier)
	assert.Equal(t, 0, rep.Summary.BestIndex)

	assert.Contains(t, rep.Text, "95%")
	assert.Contains(t, rep.Text, "MATH")
	assert.Contains(t, rep.Text, "HIGH")

	assert.Equal(t, 1, f.metrics.auditCount("completed"))
}

func TestManagerPartialFailureStillSucceeds(t *testing.T) {
	bad := newFakeClient("bad", 0)
	bad.answerErr = errors.New("503 service unavailable")

	f := newManagerFixture(newFakeClient("good", 80), bad)

	rep, err := f.manager.Audit(context.Background(), "What is 2+2?")
	require.NoError(t, err)

	require.NotNil(t, rep.Summary)
	assert.Equal(t, 80.0, rep.Summary.Average)
	assert.Contains(t, rep.Text, "FAILED")
}

func TestManagerAllProvidersFailed(t *testing.T) {
	a := newFakeClient("a", 0)
	a.answerErr = errors.New("down")
	b := newFakeClient("b", 0)
	b.auditErr = errors.New("rate limited")

	f := newManagerFixture(a, b)

	_, err := f.manager.Audit(context.Background(), "What is 2+2?")
	require.ErrorIs(t, err, domain.ErrAllProvidersFailed)
	assert.Contains(t, err.Error(), "a: ")
	assert.Contains(t, err.Error(), "rate limited")
	assert.Equal(t, 1, f.metrics.auditCount("failed"))
}

func TestManagerNoProviders(t *testing.T) {
	f := newManagerFixture()

	_, err := f.manager.Audit(context.Background(), "What is 2+2?")
	require.ErrorIs(t, err, domain.ErrNoProvidersConfigured)
}

func TestManagerStoresReport(t *testing.T) {
	f := newManagerFixture(newFakeClient("a", 88))

	rep, err := f.manager.Audit(context.Background(), "What is 2+2?")
	require.NoError(t, err)

	stored, err := f.manager.GetReport(context.Background(), rep.ID)
	require.NoError(t, err)
	assert.Equal(t, rep.ID, stored.ID)
	assert.Equal(t, rep.Text, stored.Text)

	_, err = f.manager.GetReport(context.Background(), "no-such-id")
	require.ErrorIs(t, err, domain.ErrReportNotFound)
}

func TestManagerPublishesEvents(t *testing.T) {
	f := newManagerFixture(newFakeClient("a", 88))

	events := make(chan ports.Event, 16)
	err := f.bus.Subscribe(context.Background(), EventTopic, func(ctx context.Context, event ports.Event) error {
		events <- event
		return nil
	})
	require.NoError(t, err)

	rep, err := f.manager.Audit(context.Background(), "What is 2+2?")
	require.NoError(t, err)

	// submitted, one provider.completed, completed
	seen := map[ports.EventType]int{}
	for i := 0; i < 3; i++ {
		select {
		case event := <-events:
			assert.Equal(t, rep.ID, event.AuditID)
			seen[event.Type]++
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for event %d, saw %v", i, seen)
		}
	}

	assert.Equal(t, 1, seen[ports.EventTypeAuditSubmitted])
	assert.Equal(t, 1, seen[ports.EventTypeProviderCompleted])
	assert.Equal(t, 1, seen[ports.EventTypeAuditCompleted])
}
