package identity

import (
	"context"
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/storeops/backend/internal/domain/identity"
	"github.com/storeops/backend/internal/domain/shared"
)

// Service manages users and API key authentication
type Service struct {
	users  identity.Repository
	logger *zap.Logger
}

// NewService creates the service
func NewService(users identity.Repository, logger *zap.Logger) *Service {
	return &Service{
		users:  users,
		logger: logger,
	}
}

// CreateUserCommand carries a new user definition
type CreateUserCommand struct {
	Username string
	Email    string
	Password string
	Role     identity.Role
}

// CreateUser registers a new user with a hashed password and a fresh
// API key
func (s *Service) CreateUser(ctx context.Context, cmd CreateUserCommand) (*identity.User, error) {
	if !cmd.Role.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown role: "+string(cmd.Role))
	}
	if _, err := s.users.FindByUsername(ctx, cmd.Username); err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Username already in use")
	} else if err != shared.ErrNotFound {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	key := generateAPIKey()
	user := &identity.User{
		BaseEntity:   shared.NewBaseEntity(),
		Username:     cmd.Username,
		Email:        cmd.Email,
		PasswordHash: string(hash),
		APIKey:       &key,
		Role:         cmd.Role,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("user created",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)))
	return user, nil
}

// Authenticate returns the active user owning the API key
func (s *Service) Authenticate(ctx context.Context, apiKey string) (*identity.User, error) {
	if apiKey == "" {
		return nil, shared.ErrUnauthorized
	}
	user, err := s.users.FindByAPIKey(ctx, apiKey)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.ErrUnauthorized
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, shared.ErrUnauthorized
	}
	return user, nil
}

// VerifyPassword checks a username/password pair
func (s *Service) VerifyPassword(ctx context.Context, username, password string) (*identity.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.ErrUnauthorized
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, shared.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrUnauthorized
	}
	return user, nil
}

// RotateAPIKey replaces a user's API key and returns the new value
func (s *Service) RotateAPIKey(ctx context.Context, userID uuid.UUID) (string, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	key := generateAPIKey()
	user.APIKey = &key
	if err := s.users.Update(ctx, user); err != nil {
		return "", err
	}
	s.logger.Info("api key rotated", zap.String("user_id", userID.String()))
	return key, nil
}

// GetUser returns a user by ID
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	return s.users.FindByID(ctx, id)
}

// ListUsers returns users with paging
func (s *Service) ListUsers(ctx context.Context, filter shared.Filter) ([]*identity.User, int64, error) {
	return s.users.List(ctx, filter)
}

// DeactivateUser disables a user and revokes the API key
func (s *Service) DeactivateUser(ctx context.Context, id uuid.UUID) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	user.Deactivate()
	return s.users.Update(ctx, user)
}

func generateAPIKey() string {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return "sk_" + hex.EncodeToString(b)
}
