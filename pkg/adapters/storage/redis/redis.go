package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/audittrail/audittrail/pkg/domain"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ReportStore implements ReportStore using Redis with a TTL per report
type ReportStore struct {
	client *redis.Client
	logger *zap.Logger
	ttl    time.Duration
}

// NewReportStore creates a new Redis report store
func NewReportStore(client *redis.Client, ttl time.Duration, logger *zap.Logger) *ReportStore {
	return &ReportStore{
		client: client,
		logger: logger,
		ttl:    ttl,
	}
}

// SaveReport stores a report by its audit ID with the configured TTL
func (s *ReportStore) SaveReport(ctx context.Context, report *domain.Report) error {
	key := getReportKey(report.ID)

	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	s.logger.Debug("report saved",
		zap.String("audit_id", report.ID),
		zap.Duration("ttl", s.ttl))

	return nil
}

// GetReport retrieves a report by audit ID
func (s *ReportStore) GetReport(ctx context.Context, id string) (*domain.Report, error) {
	key := getReportKey(id)

	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	var report domain.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}

	return &report, nil
}

// DeleteReport removes a report by audit ID
func (s *ReportStore) DeleteReport(ctx context.Context, id string) error {
	key := getReportKey(id)

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}

	s.logger.Debug("report deleted", zap.String("audit_id", id))
	return nil
}

// ListReports returns all stored audit IDs
func (s *ReportStore) ListReports(ctx context.Context) ([]string, error) {
	pattern := "audittrail:report:*"

	var cursor uint64
	var keys []string

	for {
		var batch []string
		var err error

		batch, cursor, err = s.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan keys: %w", err)
		}

		keys = append(keys, batch...)

		if cursor == 0 {
			break
		}
	}

	ids := make([]string, 0, len(keys))
	prefix := "audittrail:report:"
	for _, key := range keys {
		if len(key) > len(prefix) {
			ids = append(ids, key[len(prefix):])
		}
	}

	return ids, nil
}

// getReportKey returns the Redis key for a stored report
func getReportKey(id string) string {
	return fmt.Sprintf("audittrail:report:%s", id)
}
