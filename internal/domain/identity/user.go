package identity

import (
	"context"

	"github.com/google/uuid"

	"github.com/storeops/backend/internal/domain/shared"
)

// Role controls what a user may do
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
)

// IsValid reports whether the role is a known value
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleManager || r == RoleStaff
}

// User is an operator of the system. Requests authenticate with the
// user's API key. APIKey is a pointer so revoked keys store as NULL,
// which the unique index ignores.
type User struct {
	shared.BaseEntity
	Username     string  `gorm:"type:varchar(100);uniqueIndex;not null"`
	Email        string  `gorm:"type:varchar(200);uniqueIndex;not null"`
	PasswordHash string  `gorm:"type:varchar(200);not null"`
	APIKey       *string `gorm:"type:varchar(100);uniqueIndex"`
	Role         Role    `gorm:"type:varchar(20);not null;default:'staff'"`
	IsActive     bool    `gorm:"not null;default:true"`
}

// TableName specifies the database table name
func (User) TableName() string {
	return "users"
}

// Deactivate disables the user and revokes the API key
func (u *User) Deactivate() {
	u.IsActive = false
	u.APIKey = nil
}

// Repository manages user persistence
type Repository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByAPIKey(ctx context.Context, apiKey string) (*User, error)
	List(ctx context.Context, filter shared.Filter) ([]*User, int64, error)
	Update(ctx context.Context, user *User) error
}
