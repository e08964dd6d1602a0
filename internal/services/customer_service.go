package services

import (
	"context"
	"fmt"

	"github.com/sjperalta/backoffice-api/internal/audit"
	"github.com/sjperalta/backoffice-api/internal/models"
	"github.com/sjperalta/backoffice-api/internal/repository"
)

const moduleCustomer = "Customer Management"

var (
	opCreateCustomer = audit.Operation{
		Name:        "CustomerService.Create",
		Module:      moduleCustomer,
		Action:      models.ActionCreate,
		Description: "create customer",
	}
	opUpdateCustomer = audit.Operation{
		Name:         "CustomerService.Update",
		Module:       moduleCustomer,
		Action:       models.ActionUpdate,
		Description:  "update customer",
		EntityType:   audit.EntityCustomer,
		IDParamIndex: 0,
	}
	opDeleteCustomer = audit.Operation{
		Name:         "CustomerService.Delete",
		Module:       moduleCustomer,
		Action:       models.ActionDelete,
		Description:  "delete customer",
		EntityType:   audit.EntityCustomer,
		IDParamIndex: 0,
	}
)

// CustomerService handles customer records
type CustomerService struct {
	repo              repository.CustomerRepository
	recorder          *audit.Recorder
	defaultCustomerID uint
}

func NewCustomerService(repo repository.CustomerRepository, recorder *audit.Recorder, defaultCustomerID uint) *CustomerService {
	return &CustomerService{
		repo:              repo,
		recorder:          recorder,
		defaultCustomerID: defaultCustomerID,
	}
}

func (s *CustomerService) Get(ctx context.Context, id uint) (*models.Customer, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "customer does not exist")
	}
	return c, nil
}

func (s *CustomerService) List(ctx context.Context, companyName string) ([]models.Customer, error) {
	return s.repo.List(ctx, companyName)
}

func (s *CustomerService) Create(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	return audit.Do(ctx, s.recorder, opCreateCustomer, []any{customer}, func(ctx context.Context) (*models.Customer, error) {
		if customer.CompanyName == "" {
			return nil, NewBusinessError(400, "company name is required")
		}
		customer.ID = 0
		if err := s.repo.Create(ctx, customer); err != nil {
			return nil, err
		}
		return customer, nil
	})
}

// Update replaces the customer's fields and its addresses and contacts
func (s *CustomerService) Update(ctx context.Context, id uint, customer *models.Customer) (*models.Customer, error) {
	return audit.Do(ctx, s.recorder, opUpdateCustomer, []any{id, customer}, func(ctx context.Context) (*models.Customer, error) {
		if _, err := s.Get(ctx, id); err != nil {
			return nil, err
		}
		customer.ID = id
		if err := s.repo.Update(ctx, customer); err != nil {
			return nil, err
		}
		return s.Get(ctx, id)
	})
}

// Delete removes the customer after moving its samples to the default customer
func (s *CustomerService) Delete(ctx context.Context, id uint) (*models.DeleteResult, error) {
	return audit.Do(ctx, s.recorder, opDeleteCustomer, []any{id}, func(ctx context.Context) (*models.DeleteResult, error) {
		if id == s.defaultCustomerID {
			return nil, NewBusinessError(400, "the default customer cannot be deleted")
		}
		customer, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}

		moved, err := s.repo.DeleteAndReassign(ctx, id, s.defaultCustomerID)
		if err != nil {
			return nil, notFoundAs(err, "customer does not exist")
		}

		desc := fmt.Sprintf("deleted customer %s, reassigned %d associated samples to the default customer",
			customer.CompanyName, moved)
		return &models.DeleteResult{DeletedID: id, AffectedCount: moved, Description: desc}, nil
	})
}

// Stats counts the samples owned by the customer and the orders placed under its name
func (s *CustomerService) Stats(ctx context.Context, id uint) (*models.CustomerStats, error) {
	customer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	samples, err := s.repo.CountSamples(ctx, id)
	if err != nil {
		return nil, err
	}
	orders, err := s.repo.CountOrders(ctx, customer.CompanyName)
	if err != nil {
		return nil, err
	}
	return &models.CustomerStats{CustomerID: id, SampleCount: samples, OrderCount: orders}, nil
}
