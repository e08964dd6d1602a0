package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sjperalta/backoffice-api/internal/audit"
	"github.com/sjperalta/backoffice-api/internal/models"
	"github.com/sjperalta/backoffice-api/internal/repository"
	"github.com/sjperalta/backoffice-api/internal/statemachine"
	"gorm.io/gorm"
)

const (
	moduleOrder    = "Order Management"
	eventOrderSync = "order_sync"
)

var (
	opCreateOrder = audit.Operation{
		Name:        "OrderService.Create",
		Module:      moduleOrder,
		Action:      models.ActionCreate,
		Description: "create order",
	}
	opUpdateOrder = audit.Operation{
		Name:         "OrderService.Update",
		Module:       moduleOrder,
		Action:       models.ActionUpdate,
		Description:  "update order",
		EntityType:   audit.EntityOrder,
		IDParamIndex: 0,
	}
	opTransitionOrder = audit.Operation{
		Name:         "OrderService.Transition",
		Module:       moduleOrder,
		Action:       models.ActionUpdate,
		Description:  "change order status",
		EntityType:   audit.EntityOrder,
		IDParamIndex: 0,
	}
	opDeleteOrder = audit.Operation{
		Name:         "OrderService.Delete",
		Module:       moduleOrder,
		Action:       models.ActionDelete,
		Description:  "delete order",
		EntityType:   audit.EntityOrder,
		IDParamIndex: 0,
	}
)

// OrderTransition names the lifecycle event to apply
type OrderTransition struct {
	Event string `json:"event" binding:"required"`
}

// OrderService handles production orders
type OrderService struct {
	repo     repository.OrderRepository
	recorder *audit.Recorder
	events   Broadcaster
}

func NewOrderService(repo repository.OrderRepository, recorder *audit.Recorder, events Broadcaster) *OrderService {
	return &OrderService{
		repo:     repo,
		recorder: recorder,
		events:   events,
	}
}

func (s *OrderService) Get(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "order does not exist")
	}
	return order, nil
}

func (s *OrderService) List(ctx context.Context, query *repository.ListQuery) ([]models.Order, int64, error) {
	return s.repo.List(ctx, query)
}

// Create stores a new order in PENDING status
func (s *OrderService) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	return audit.Do(ctx, s.recorder, opCreateOrder, []any{order}, func(ctx context.Context) (*models.Order, error) {
		if err := s.checkOrderNumber(ctx, order.OrderNumber, 0); err != nil {
			return nil, err
		}
		order.ID = 0
		order.Status = models.OrderStatusPending
		if err := s.repo.Create(ctx, order); err != nil {
			return nil, duplicateAs(err, "order number "+order.OrderNumber)
		}
		return order, nil
	})
}

// Update writes the editable fields. Status is left to Transition.
func (s *OrderService) Update(ctx context.Context, id uint, order *models.Order) (*models.Order, error) {
	return audit.Do(ctx, s.recorder, opUpdateOrder, []any{id, order}, func(ctx context.Context) (*models.Order, error) {
		current, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := s.checkOrderNumber(ctx, order.OrderNumber, id); err != nil {
			return nil, err
		}

		order.ID = id
		order.Status = current.Status
		if err := s.repo.Update(ctx, order); err != nil {
			return nil, duplicateAs(notFoundAs(err, "order does not exist"), "order number "+order.OrderNumber)
		}
		s.notify("update", order, current.Status)
		return s.Get(ctx, id)
	})
}

// Transition applies a lifecycle event to the order's status
func (s *OrderService) Transition(ctx context.Context, id uint, t *OrderTransition) (*models.Order, error) {
	return audit.Do(ctx, s.recorder, opTransitionOrder, []any{id, t}, func(ctx context.Context) (*models.Order, error) {
		order, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		from := order.Status

		if err := statemachine.NewOrderFSM(order).Fire(ctx, t.Event); err != nil {
			if errors.Is(err, statemachine.ErrInvalidTransition) {
				return nil, fmt.Errorf("%w: %s cannot %s", ErrInvalidState, from, t.Event)
			}
			return nil, err
		}

		if err := s.repo.UpdateStatus(ctx, id, from, order.Status); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: order %d changed concurrently", ErrInvalidState, id)
			}
			return nil, err
		}
		s.notify("status", order, from)
		return order, nil
	})
}

func (s *OrderService) Delete(ctx context.Context, id uint) (uint, error) {
	return audit.Do(ctx, s.recorder, opDeleteOrder, []any{id}, func(ctx context.Context) (uint, error) {
		if err := s.repo.Delete(ctx, id); err != nil {
			return 0, notFoundAs(err, "order does not exist")
		}
		return id, nil
	})
}

func (s *OrderService) checkOrderNumber(ctx context.Context, number string, excludeID uint) error {
	if number == "" {
		return NewBusinessError(400, "order number is required")
	}
	exists, err := s.repo.ExistsByOrderNumber(ctx, number, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("order number %s: %w", number, ErrDuplicate)
	}
	return nil
}

func (s *OrderService) notify(action string, order *models.Order, oldStatus string) {
	if s.events == nil {
		return
	}
	s.events.Broadcast(eventOrderSync, map[string]any{
		"action":    action,
		"orderId":   order.ID,
		"status":    order.Status,
		"oldStatus": oldStatus,
	})
}
