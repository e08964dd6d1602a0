package statemachine

import (
	"context"
	"errors"
	"fmt"

	"github.com/looplab/fsm"
	"github.com/sjperalta/backoffice-api/internal/models"
)

// Order lifecycle events
const (
	EventStartProduction = "start_production"
	EventShip            = "ship"
	EventComplete        = "complete"
	EventCancel          = "cancel"
	EventReopen          = "reopen"
)

// ErrInvalidTransition is returned when an event does not apply to the order's status
var ErrInvalidTransition = errors.New("invalid order status transition")

// OrderFSM wraps an order with its state machine
type OrderFSM struct {
	order *models.Order
	fsm   *fsm.FSM
}

// NewOrderFSM creates a new order state machine starting at the order's status
func NewOrderFSM(order *models.Order) *OrderFSM {
	ofsm := &OrderFSM{
		order: order,
	}

	status := order.Status
	if status == "" {
		status = models.OrderStatusPending
	}

	ofsm.fsm = fsm.NewFSM(
		status,
		fsm.Events{
			// pending → in production
			{Name: EventStartProduction, Src: []string{models.OrderStatusPending}, Dst: models.OrderStatusInProduction},

			// in production → shipped
			{Name: EventShip, Src: []string{models.OrderStatusInProduction}, Dst: models.OrderStatusShipped},

			// shipped → completed
			{Name: EventComplete, Src: []string{models.OrderStatusShipped}, Dst: models.OrderStatusCompleted},

			// anything not yet shipped can be cancelled
			{Name: EventCancel, Src: []string{models.OrderStatusPending, models.OrderStatusInProduction}, Dst: models.OrderStatusCancelled},

			// cancelled → pending
			{Name: EventReopen, Src: []string{models.OrderStatusCancelled}, Dst: models.OrderStatusPending},
		},
		fsm.Callbacks{},
	)

	return ofsm
}

// Fire applies the event and copies the resulting status onto the order
func (o *OrderFSM) Fire(ctx context.Context, event string) error {
	if !o.fsm.Can(event) {
		return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, event, o.fsm.Current())
	}

	if err := o.fsm.Event(ctx, event); err != nil {
		return fmt.Errorf("failed to apply %s: %w", event, err)
	}

	o.order.Status = o.fsm.Current()
	return nil
}

// Current returns the current state
func (o *OrderFSM) Current() string {
	return o.fsm.Current()
}

// Can checks if a transition is possible
func (o *OrderFSM) Can(event string) bool {
	return o.fsm.Can(event)
}

// AvailableEvents lists the events that apply to the current status
func (o *OrderFSM) AvailableEvents() []string {
	return o.fsm.AvailableTransitions()
}
