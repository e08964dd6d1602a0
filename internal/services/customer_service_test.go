package services

import (
	"context"
	"errors"
	"testing"

	"github.com/sjperalta/backoffice-api/internal/audit"
	"github.com/sjperalta/backoffice-api/internal/database"
	"github.com/sjperalta/backoffice-api/internal/models"
	"github.com/sjperalta/backoffice-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCustomerFixture(t *testing.T) (*CustomerService, *gorm.DB, *auditTrail) {
	t.Helper()
	db := database.OpenTestDB(t)
	registry := audit.NewRegistry()
	recorder, trail := newTestRecorder(registry)
	svc := NewCustomerService(repository.NewCustomerRepository(db), recorder, 2)
	registry.Register(audit.EntityCustomer, audit.Lookup(svc.Get))
	return svc, db, trail
}

func TestCustomerService_DeleteReassignsSamples(t *testing.T) {
	svc, db, trail := newCustomerFixture(t)
	ctx := audit.WithActor(context.Background(), 1, "Root", models.RoleAdmin)

	walkIn, err := svc.Create(ctx, &models.Customer{CompanyName: "Walk-in"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &models.Customer{CompanyName: "Default"})
	require.NoError(t, err)
	target, err := svc.Create(ctx, &models.Customer{CompanyName: "Acme"})
	require.NoError(t, err)
	require.Equal(t, uint(1), walkIn.ID)

	for i := 0; i < 3; i++ {
		require.NoError(t, db.Create(&models.Sample{CustomerID: uintPtr(target.ID), Model: "S"}).Error)
	}

	result, err := svc.Delete(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, target.ID, result.DeletedID)
	assert.Equal(t, int64(3), result.AffectedCount)
	assert.Equal(t, "deleted customer Acme, reassigned 3 associated samples to the default customer", result.Description)

	var moved int64
	require.NoError(t, db.Model(&models.Sample{}).Where("customer_id = ?", 2).Count(&moved).Error)
	assert.Equal(t, int64(3), moved)

	entry := trail.last(t)
	assert.Equal(t, models.ActionDelete, entry.Action)
	assert.Equal(t, "Customer Management", entry.Module)
	assert.Equal(t, "Root", entry.OperatorName)
	assert.Contains(t, entry.OldData, `"companyName":"Acme"`)
	assert.True(t, entry.Succeeded())
}

func TestCustomerService_DeleteGuards(t *testing.T) {
	svc, _, trail := newCustomerFixture(t)
	ctx := context.Background()

	_, err := svc.Delete(ctx, 2)
	var be *BusinessError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, 400, be.Code)

	_, err = svc.Delete(ctx, 99)
	require.True(t, errors.As(err, &be))
	assert.Equal(t, 404, be.Code)
	assert.Equal(t, "customer does not exist", be.Message)

	entry := trail.last(t)
	assert.False(t, entry.Succeeded())
	assert.Equal(t, "customer does not exist", entry.ErrorMsg)
	assert.Contains(t, entry.OldData, "[lookup failed:")
	assert.Nil(t, entry.UserID, "no request context means no actor")
}

func TestCustomerService_UpdateCapturesBeforeAndAfter(t *testing.T) {
	svc, _, trail := newCustomerFixture(t)
	ctx := context.Background()

	c, err := svc.Create(ctx, &models.Customer{
		CompanyName: "Old Name",
		Contacts:    []models.CustomerContact{{ContactName: "Ann", Phone: "1"}},
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, c.ID, &models.Customer{
		CompanyName: "New Name",
		Contacts:    []models.CustomerContact{{ContactName: "Ben", Phone: "2"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.CompanyName)
	require.Len(t, updated.Contacts, 1)
	assert.Equal(t, "Ben", updated.Contacts[0].ContactName)

	entry := trail.last(t)
	assert.Equal(t, models.ActionUpdate, entry.Action)
	assert.Contains(t, entry.OldData, "Old Name")
	assert.Contains(t, entry.NewData, "New Name")
	assert.Contains(t, entry.ResponseData, "New Name")

	_, err = svc.Update(ctx, 404, &models.Customer{CompanyName: "x"})
	var be *BusinessError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, 404, be.Code)
}

func TestCustomerService_Stats(t *testing.T) {
	svc, db, _ := newCustomerFixture(t)
	ctx := context.Background()

	c, err := svc.Create(ctx, &models.Customer{CompanyName: "Acme"})
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.Sample{CustomerID: uintPtr(c.ID)}).Error)
	require.NoError(t, db.Create(&models.Order{OrderNumber: "1", CompanyName: "Acme", Status: models.OrderStatusPending}).Error)

	stats, err := svc.Stats(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.SampleCount)
	assert.Equal(t, int64(1), stats.OrderCount)
}
