package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/storeops/backend/internal/domain/audit"
)

// GormAuditRepository implements audit.Repository. The trail is
// append-only.
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates the repository
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// Create appends one audit entry
func (r *GormAuditRepository) Create(ctx context.Context, entry *audit.AuditEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// List returns audit entries matching the filter, newest first
func (r *GormAuditRepository) List(ctx context.Context, filter audit.Filter) ([]*audit.AuditEntry, int64, error) {
	query := r.db.WithContext(ctx).Model(&audit.AuditEntry{})

	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.ResourceType != "" {
		query = query.Where("resource_type = ?", filter.ResourceType)
	}
	if filter.ActorID != nil {
		query = query.Where("actor_id = ?", *filter.ActorID)
	}
	if filter.From != nil {
		query = query.Where("occurred_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("occurred_at <= ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("occurred_at DESC")
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	var rows []*audit.AuditEntry
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

var _ audit.Repository = (*GormAuditRepository)(nil)
