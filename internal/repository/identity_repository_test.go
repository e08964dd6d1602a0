package repository

import (
	"context"
	"testing"

	"github.com/sjperalta/backoffice-api/internal/database"
	"github.com/sjperalta/backoffice-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestIdentityRepository_AdminAndUserShareShape(t *testing.T) {
	db := database.OpenTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Admin{Username: "root", Password: "pw", Name: "Root"}).Error)
	require.NoError(t, db.Create(&models.User{Username: "clerk", Password: "pw", Name: "Clerk", Phone: "555"}).Error)

	stores := map[string]IdentityRepository{
		"root":  NewAdminIdentityRepository(db),
		"clerk": NewUserIdentityRepository(db),
	}

	for username, store := range stores {
		t.Run(username, func(t *testing.T) {
			acc, err := store.FindByUsername(ctx, username)
			require.NoError(t, err)
			assert.Equal(t, username, acc.AccountUsername())
			assert.Nil(t, acc.StoredSessionVersion())
			assert.Equal(t, 0, models.CurrentVersion(acc))

			require.NoError(t, store.UpdateSessionVersion(ctx, acc.AccountID(), 1))

			reloaded, err := store.FindByID(ctx, acc.AccountID())
			require.NoError(t, err)
			assert.Equal(t, 1, models.CurrentVersion(reloaded))
		})
	}

	admin, err := stores["root"].FindByUsername(ctx, "root")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.AccountRole())
	user, err := stores["clerk"].FindByUsername(ctx, "clerk")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.AccountRole())
}

func TestIdentityRepository_Missing(t *testing.T) {
	db := database.OpenTestDB(t)
	store := NewAdminIdentityRepository(db)
	ctx := context.Background()

	_, err := store.FindByID(ctx, 99)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = store.FindByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.ErrorIs(t, store.UpdateSessionVersion(ctx, 99, 1), gorm.ErrRecordNotFound)
}
