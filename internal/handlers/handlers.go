package handlers

import (
	"github.com/sjperalta/backoffice-api/internal/events"
	"github.com/sjperalta/backoffice-api/internal/services"
)

// Version is reported by the health check
const Version = "1.0.0"

// Handlers holds all handler instances
type Handlers struct {
	Health       *HealthHandler
	Auth         *AuthHandler
	Customer     *CustomerHandler
	Sample       *SampleHandler
	Order        *OrderHandler
	Employee     *EmployeeHandler
	User         *UserHandler
	Log          *LogHandler
	Notification *NotificationHandler
	System       *SystemHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services, hub *events.Hub) *Handlers {
	return &Handlers{
		Health:       NewHealthHandler(Version),
		Auth:         NewAuthHandler(svcs.Auth),
		Customer:     NewCustomerHandler(svcs.Customer),
		Sample:       NewSampleHandler(svcs.Sample),
		Order:        NewOrderHandler(svcs.Order),
		Employee:     NewEmployeeHandler(svcs.Employee),
		User:         NewUserHandler(svcs.User),
		Log:          NewLogHandler(svcs.OperationLog, svcs.Export),
		Notification: NewNotificationHandler(hub),
		System:       NewSystemHandler(svcs.Job, svcs.DDNS),
	}
}
