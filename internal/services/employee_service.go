package services

import (
	"context"

	"github.com/sjperalta/backoffice-api/internal/audit"
	"github.com/sjperalta/backoffice-api/internal/models"
	"github.com/sjperalta/backoffice-api/internal/repository"
)

const moduleEmployee = "Employee Management"

var (
	opCreateEmployee = audit.Operation{Name: "EmployeeService.Create", Module: moduleEmployee, Action: models.ActionCreate, Description: "create employee"}
	opUpdateEmployee = audit.Operation{Name: "EmployeeService.Update", Module: moduleEmployee, Action: models.ActionUpdate, Description: "update employee", EntityType: audit.EntityEmployee}
	opDeleteEmployee = audit.Operation{Name: "EmployeeService.Delete", Module: moduleEmployee, Action: models.ActionDelete, Description: "delete employee", EntityType: audit.EntityEmployee}
)

type EmployeeService struct {
	repo     repository.EmployeeRepository
	recorder *audit.Recorder
}

func NewEmployeeService(repo repository.EmployeeRepository, recorder *audit.Recorder) *EmployeeService {
	return &EmployeeService{repo: repo, recorder: recorder}
}

func (s *EmployeeService) Get(ctx context.Context, id uint) (*models.Employee, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "employee does not exist")
	}
	return e, nil
}

func (s *EmployeeService) List(ctx context.Context, query *repository.ListQuery) ([]models.Employee, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *EmployeeService) Create(ctx context.Context, employee *models.Employee) (*models.Employee, error) {
	return audit.Do(ctx, s.recorder, opCreateEmployee, []any{employee}, func(ctx context.Context) (*models.Employee, error) {
		if employee.Name == "" {
			return nil, NewBusinessError(400, "name is required")
		}
		employee.ID = 0
		if err := s.repo.Create(ctx, employee); err != nil {
			return nil, err
		}
		return employee, nil
	})
}

func (s *EmployeeService) Update(ctx context.Context, id uint, employee *models.Employee) (*models.Employee, error) {
	return audit.Do(ctx, s.recorder, opUpdateEmployee, []any{id, employee}, func(ctx context.Context) (*models.Employee, error) {
		employee.ID = id
		if err := s.repo.Update(ctx, employee); err != nil {
			return nil, notFoundAs(err, "employee does not exist")
		}
		return s.Get(ctx, id)
	})
}

func (s *EmployeeService) Delete(ctx context.Context, id uint) (uint, error) {
	return audit.Do(ctx, s.recorder, opDeleteEmployee, []any{id}, func(ctx context.Context) (uint, error) {
		if err := s.repo.Delete(ctx, id); err != nil {
			return 0, notFoundAs(err, "employee does not exist")
		}
		return id, nil
	})
}
