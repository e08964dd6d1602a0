package repository

import (
	"context"

	"github.com/sjperalta/backoffice-api/internal/models"
	"gorm.io/gorm"
)

// EmployeeRepository defines the interface for employee data access
type EmployeeRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Employee, error)
	List(ctx context.Context, query *ListQuery) ([]models.Employee, int64, error)
	Create(ctx context.Context, employee *models.Employee) error
	Update(ctx context.Context, employee *models.Employee) error
	Delete(ctx context.Context, id uint) error
}

type employeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) FindByID(ctx context.Context, id uint) (*models.Employee, error) {
	var employee models.Employee
	if err := r.db.WithContext(ctx).First(&employee, id).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

var employeeSortColumns = map[string]string{
	"id":       "id",
	"name":     "name",
	"hireDate": "hire_date",
}

func (r *employeeRepository) List(ctx context.Context, query *ListQuery) ([]models.Employee, int64, error) {
	var employees []models.Employee
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Employee{})
	if query.Search != "" {
		search := likePattern(query.Search)
		db = db.Where("name LIKE ? OR phone LIKE ? OR email LIKE ?", search, search, search)
	}
	if v := query.Filters["gender"]; v != "" {
		db = db.Where("gender = ?", v)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	db = query.order(db, employeeSortColumns, "id DESC")
	err := query.paginate(db).Find(&employees).Error
	return employees, total, err
}

func (r *employeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	return r.db.WithContext(ctx).Create(employee).Error
}

func (r *employeeRepository) Update(ctx context.Context, employee *models.Employee) error {
	result := r.db.WithContext(ctx).
		Model(employee).
		Select("name", "gender", "phone", "email", "id_card", "hire_date").
		Updates(employee)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *employeeRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Employee{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
