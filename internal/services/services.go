package services

import (
	"github.com/sjperalta/backoffice-api/internal/audit"
	"github.com/sjperalta/backoffice-api/internal/config"
	"github.com/sjperalta/backoffice-api/internal/events"
	"github.com/sjperalta/backoffice-api/internal/jobs"
	"github.com/sjperalta/backoffice-api/internal/repository"
	"github.com/sjperalta/backoffice-api/internal/storage"
	"github.com/sjperalta/backoffice-api/internal/token"
)

// Services holds all service instances
type Services struct {
	Auth         *AuthService
	OperationLog *OperationLogService
	Export       *ExportService
	Customer     *CustomerService
	Sample       *SampleService
	Order        *OrderService
	Employee     *EmployeeService
	User         *UserService
	DDNS         *DDNSService
	Job          *JobService
	Recorder     *audit.Recorder
}

// NewServices creates all service instances and registers the audit entity lookups
func NewServices(repos *repository.Repositories, worker *jobs.Worker, store *storage.LocalStorage, hub *events.Hub, cfg *config.Config) *Services {
	registry := audit.NewRegistry()
	logSvc := NewOperationLogService(repos.OperationLog)
	recorder := audit.NewRecorder(logSvc, worker, registry)
	tokens := token.New(cfg.JWTSecret, cfg.TokenTTL())

	customerSvc := NewCustomerService(repos.Customer, recorder, cfg.DefaultCustomerID)
	sampleSvc := NewSampleService(repos.Sample, store, recorder, hub)
	orderSvc := NewOrderService(repos.Order, recorder, hub)
	employeeSvc := NewEmployeeService(repos.Employee, recorder)
	userSvc := NewUserService(repos.User, recorder)

	registry.Register(audit.EntityCustomer, audit.Lookup(customerSvc.Get))
	registry.Register(audit.EntitySample, audit.Lookup(sampleSvc.Get))
	registry.Register(audit.EntityOrder, audit.Lookup(orderSvc.Get))
	registry.Register(audit.EntityEmployee, audit.Lookup(employeeSvc.Get))
	registry.Register(audit.EntityUser, audit.Lookup(userSvc.Get))

	return &Services{
		Auth:         NewAuthService(repos.AdminIdentity, repos.UserIdentity, tokens, recorder),
		OperationLog: logSvc,
		Export:       NewExportService(logSvc),
		Customer:     customerSvc,
		Sample:       sampleSvc,
		Order:        orderSvc,
		Employee:     employeeSvc,
		User:         userSvc,
		DDNS:         NewDDNSService(cfg.DDNSUpdateURL, nil, logSvc),
		Job:          NewJobService(worker),
		Recorder:     recorder,
	}
}
