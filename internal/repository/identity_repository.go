package repository

import (
	"context"

	"github.com/sjperalta/backoffice-api/internal/models"
	"gorm.io/gorm"
)

// IdentityRepository is the lookup surface the session protocol needs from an identity store
type IdentityRepository interface {
	FindByID(ctx context.Context, id uint) (models.Account, error)
	FindByUsername(ctx context.Context, username string) (models.Account, error)
	UpdateSessionVersion(ctx context.Context, id uint, version int) error
}

// account constrains the gorm models that back an identity store
type account[T any] interface {
	*T
	models.Account
}

type identityRepository[T any, PT account[T]] struct {
	db *gorm.DB
}

// NewAdminIdentityRepository creates the identity store backed by the admin table
func NewAdminIdentityRepository(db *gorm.DB) IdentityRepository {
	return &identityRepository[models.Admin, *models.Admin]{db: db}
}

// NewUserIdentityRepository creates the identity store backed by the users table
func NewUserIdentityRepository(db *gorm.DB) IdentityRepository {
	return &identityRepository[models.User, *models.User]{db: db}
}

func (r *identityRepository[T, PT]) FindByID(ctx context.Context, id uint) (models.Account, error) {
	var record T
	if err := r.db.WithContext(ctx).First(&record, id).Error; err != nil {
		return nil, err
	}
	return PT(&record), nil
}

func (r *identityRepository[T, PT]) FindByUsername(ctx context.Context, username string) (models.Account, error) {
	var record T
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&record).Error; err != nil {
		return nil, err
	}
	return PT(&record), nil
}

func (r *identityRepository[T, PT]) UpdateSessionVersion(ctx context.Context, id uint, version int) error {
	var record T
	result := r.db.WithContext(ctx).
		Model(PT(&record)).
		Where("id = ?", id).
		Update("token_version", version)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
