package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mr-deepansh/endlessChat-client-sub002/internal/domain"
)

// UserRepository defines the interface for author profile access
type UserRepository interface {
	EnsureUser(ctx context.Context, id uuid.UUID, username string) (*domain.UserRecord, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.UserRecord, error)
}

type userRepositoryImpl struct {
	db *gorm.DB
}

// NewUserRepository creates a new instance of UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepositoryImpl{db: db}
}

// EnsureUser returns the user with id, creating a profile on first sight
func (r *userRepositoryImpl) EnsureUser(ctx context.Context, id uuid.UUID, username string) (*domain.UserRecord, error) {
	if username == "" {
		username = "user-" + id.String()[:8]
	}
	user := domain.UserRecord{ID: id, Username: username}
	if err := r.db.WithContext(ctx).
		Where(domain.UserRecord{ID: id}).
		FirstOrCreate(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID finds a user by its ID
func (r *userRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.UserRecord, error) {
	var user domain.UserRecord
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
