package audit

import (
	"context"

	"go.uber.org/zap"

	"github.com/storeops/backend/internal/domain/audit"
)

// Service exposes the audit trail for querying
type Service struct {
	entries audit.Repository
	logger  *zap.Logger
}

// NewService creates the service
func NewService(entries audit.Repository, logger *zap.Logger) *Service {
	return &Service{
		entries: entries,
		logger:  logger,
	}
}

// List returns audit entries matching the filter, newest first
func (s *Service) List(ctx context.Context, filter audit.Filter) ([]*audit.AuditEntry, int64, error) {
	return s.entries.List(ctx, filter)
}

// Record appends one entry to the trail
func (s *Service) Record(ctx context.Context, entry *audit.AuditEntry) error {
	return s.entries.Create(ctx, entry)
}
