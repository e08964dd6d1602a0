package services

import (
	"context"
	"testing"

	"github.com/sjperalta/backoffice-api/internal/audit"
	"github.com/sjperalta/backoffice-api/internal/database"
	"github.com/sjperalta/backoffice-api/internal/models"
	"github.com/sjperalta/backoffice-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserFixture(t *testing.T) (*UserService, *auditTrail) {
	t.Helper()
	db := database.OpenTestDB(t)
	registry := audit.NewRegistry()
	recorder, trail := newTestRecorder(registry)
	svc := NewUserService(repository.NewUserRepository(db), recorder)
	registry.Register(audit.EntityUser, audit.Lookup(svc.Get))
	return svc, trail
}

func TestUserService_CreateHashesAndRedacts(t *testing.T) {
	svc, trail := newUserFixture(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, UserInput{Username: " clerk ", Password: "p@ss", Name: "Clerk"})
	require.NoError(t, err)
	assert.Equal(t, "clerk", user.Username)
	assert.NotEqual(t, "p@ss", user.Password)
	assert.True(t, PasswordMatches(user.Password, "p@ss"))

	entry := trail.last(t)
	assert.NotContains(t, entry.RequestParams, "p@ss")
	assert.Contains(t, entry.RequestParams, "******")
	assert.NotContains(t, entry.ResponseData, user.Password)

	_, err = svc.Create(ctx, UserInput{Username: "clerk", Password: "x"})
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = svc.Create(ctx, UserInput{Username: "nopass"})
	var be *BusinessError
	require.ErrorAs(t, err, &be)
}

func TestUserService_UpdatePassword(t *testing.T) {
	svc, _ := newUserFixture(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, UserInput{Username: "u1", Password: "first", Name: "One"})
	require.NoError(t, err)
	original := user.Password

	same, err := svc.Update(ctx, user.ID, UserInput{Name: "One Renamed"})
	require.NoError(t, err)
	assert.Equal(t, original, same.Password)
	assert.Equal(t, "u1", same.Username)
	assert.Equal(t, "One Renamed", same.Name)

	changed, err := svc.Update(ctx, user.ID, UserInput{Name: "One", Password: "second"})
	require.NoError(t, err)
	assert.True(t, PasswordMatches(changed.Password, "second"))

	id, err := svc.Delete(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
	_, err = svc.Get(ctx, user.ID)
	var be *BusinessError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, 404, be.Code)
}

func TestUserService_SessionVersionUntouchedByProfileUpdate(t *testing.T) {
	db := database.OpenTestDB(t)
	svc := NewUserService(repository.NewUserRepository(db), nil)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.User{Username: "v", Password: "x", TokenVersion: intPtr(5)}).Error)
	var u models.User
	require.NoError(t, db.Where("username = ?", "v").First(&u).Error)

	_, err := svc.Update(ctx, u.ID, UserInput{Name: "V"})
	require.NoError(t, err)

	require.NoError(t, db.First(&u, u.ID).Error)
	require.NotNil(t, u.TokenVersion)
	assert.Equal(t, 5, *u.TokenVersion)
}
