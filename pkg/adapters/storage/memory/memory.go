package memory

import (
	"context"
	"sync"

	"github.com/audittrail/audittrail/pkg/domain"
)

// InMemoryReportStore implements ReportStore using an in-memory map.
// Used when Redis is not configured, and in tests. Reports are never
// expired; restarting the process clears them.
type InMemoryReportStore struct {
	reports map[string]*domain.Report
	mu      sync.RWMutex
}

// NewInMemoryReportStore creates a new in-memory report store
func NewInMemoryReportStore() *InMemoryReportStore {
	return &InMemoryReportStore{
		reports: make(map[string]*domain.Report),
	}
}

// SaveReport stores a report by its audit ID
func (s *InMemoryReportStore) SaveReport(ctx context.Context, report *domain.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Shallow copy guards against caller mutation of top-level fields.
	cp := *report
	s.reports[report.ID] = &cp
	return nil
}

// GetReport retrieves a report by audit ID
func (s *InMemoryReportStore) GetReport(ctx context.Context, id string) (*domain.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report, ok := s.reports[id]
	if !ok {
		return nil, domain.ErrReportNotFound
	}

	cp := *report
	return &cp, nil
}

// DeleteReport removes a report by audit ID
func (s *InMemoryReportStore) DeleteReport(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.reports, id)
	return nil
}

// ListReports returns all stored audit IDs
func (s *InMemoryReportStore) ListReports(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.reports))
	for id := range s.reports {
		ids = append(ids, id)
	}
	return ids, nil
}
