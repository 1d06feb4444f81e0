package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/storeops/backend/internal/domain/shared"
)

// AuditEntry records who did what to which resource
type AuditEntry struct {
	shared.BaseEntity
	Action       string     `gorm:"type:varchar(100);not null;index"`
	ResourceType string     `gorm:"type:varchar(100);not null;index"`
	ResourceID   string     `gorm:"type:varchar(100);index"`
	ActorID      *uuid.UUID `gorm:"type:uuid;index"`
	Detail       string     `gorm:"type:text"`
	OccurredAt   time.Time  `gorm:"not null;index"`
}

// TableName specifies the database table name
func (AuditEntry) TableName() string {
	return "audit_entries"
}

// NewAuditEntry creates an audit entry timestamped now
func NewAuditEntry(action, resourceType, resourceID string, actorID *uuid.UUID, detail string) *AuditEntry {
	return &AuditEntry{
		BaseEntity:   shared.NewBaseEntity(),
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		ActorID:      actorID,
		Detail:       detail,
		OccurredAt:   time.Now(),
	}
}

// Filter narrows audit queries
type Filter struct {
	shared.Filter
	Action       string
	ResourceType string
	ActorID      *uuid.UUID
	From         *time.Time
	To           *time.Time
}

// Repository manages the append-only audit trail
type Repository interface {
	Create(ctx context.Context, entry *AuditEntry) error
	List(ctx context.Context, filter Filter) ([]*AuditEntry, int64, error)
}
