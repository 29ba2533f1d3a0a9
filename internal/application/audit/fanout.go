package audit

import (
	"context"

	"github.com/audittrail/audittrail/pkg/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ResultObserver is notified as each provider finishes, before the join
// completes. Used by the manager to publish per-provider events.
type ResultObserver func(result domain.ProviderResult)

// Coordinator fans a question out to every configured provider adapter
// concurrently and joins all results.
type Coordinator struct {
	adapters []*ProviderAdapter
	logger   *zap.Logger
}

// NewCoordinator creates a fan-out coordinator over the given adapters
func NewCoordinator(adapters []*ProviderAdapter, logger *zap.Logger) *Coordinator {
	return &Coordinator{
		adapters: adapters,
		logger:   logger,
	}
}

// Providers returns the names of the configured adapters in fan-out order
func (c *Coordinator) Providers() []string {
	names := make([]string, len(c.adapters))
	for i, a := range c.adapters {
		names[i] = a.Name()
	}
	return names
}

// Run evaluates the question on all adapters concurrently. Results come
// back in adapter input order regardless of completion order, and the
// join always waits for every adapter: one provider failing or finishing
// early never cancels the others. Adapter failures are data, not errors;
// the only error here is an empty adapter list.
func (c *Coordinator) Run(ctx context.Context, question string, observe ResultObserver) ([]domain.ProviderResult, error) {
	if len(c.adapters) == 0 {
		return nil, domain.ErrNoProvidersConfigured
	}

	results := make([]domain.ProviderResult, len(c.adapters))

	g, gctx := errgroup.WithContext(ctx)
	for i, adapter := range c.adapters {
		i, adapter := i, adapter
		g.Go(func() error {
			result := adapter.Evaluate(gctx, question)
			results[i] = result
			if observe != nil {
				observe(result)
			}
			return nil // best effort: adapters report failure in-band
		})
	}

	// No adapter returns an error, so Wait only propagates ctx problems.
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c.logger.Debug("fan-out complete",
		zap.Int("providers", len(results)),
		zap.Int("successes", countSuccesses(results)))

	return results, nil
}

func countSuccesses(results []domain.ProviderResult) int {
	n := 0
	for _, r := range results {
		if r.Success {
			n++
		}
	}
	return n
}
