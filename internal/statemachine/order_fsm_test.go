package statemachine

import (
	"context"
	"testing"

	"github.com/sjperalta/backoffice-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderFSM_HappyPath(t *testing.T) {
	order := &models.Order{Status: models.OrderStatusPending}
	m := NewOrderFSM(order)
	ctx := context.Background()

	require.NoError(t, m.Fire(ctx, EventStartProduction))
	assert.Equal(t, models.OrderStatusInProduction, order.Status)
	require.NoError(t, m.Fire(ctx, EventShip))
	require.NoError(t, m.Fire(ctx, EventComplete))
	assert.Equal(t, models.OrderStatusCompleted, order.Status)
	assert.Empty(t, m.AvailableEvents())
}

func TestOrderFSM_CancelAndReopen(t *testing.T) {
	order := &models.Order{Status: models.OrderStatusInProduction}
	m := NewOrderFSM(order)
	ctx := context.Background()

	require.NoError(t, m.Fire(ctx, EventCancel))
	assert.Equal(t, models.OrderStatusCancelled, order.Status)
	require.NoError(t, m.Fire(ctx, EventReopen))
	assert.Equal(t, models.OrderStatusPending, order.Status)
}

func TestOrderFSM_InvalidTransitions(t *testing.T) {
	tests := []struct {
		status string
		event  string
	}{
		{models.OrderStatusPending, EventShip},
		{models.OrderStatusShipped, EventCancel},
		{models.OrderStatusCompleted, EventReopen},
		{models.OrderStatusPending, "teleport"},
	}

	for _, tt := range tests {
		t.Run(tt.status+"/"+tt.event, func(t *testing.T) {
			order := &models.Order{Status: tt.status}
			err := NewOrderFSM(order).Fire(context.Background(), tt.event)
			assert.ErrorIs(t, err, ErrInvalidTransition)
			assert.Equal(t, tt.status, order.Status)
		})
	}
}

func TestOrderFSM_EmptyStatusStartsPending(t *testing.T) {
	m := NewOrderFSM(&models.Order{})
	assert.Equal(t, models.OrderStatusPending, m.Current())
	assert.True(t, m.Can(EventStartProduction))
}
