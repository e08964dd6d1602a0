package repository

import (
	"context"

	"github.com/sjperalta/backoffice-api/internal/models"
	"gorm.io/gorm"
)

// CustomerRepository defines the interface for customer data access
type CustomerRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Customer, error)
	List(ctx context.Context, companyName string) ([]models.Customer, error)
	Create(ctx context.Context, customer *models.Customer) error
	Update(ctx context.Context, customer *models.Customer) error
	DeleteAndReassign(ctx context.Context, id, fallbackCustomerID uint) (int64, error)
	CountSamples(ctx context.Context, id uint) (int64, error)
	CountOrders(ctx context.Context, companyName string) (int64, error)
}

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) FindByID(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).
		Preload("Addresses").
		Preload("Contacts").
		First(&customer, id).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) List(ctx context.Context, companyName string) ([]models.Customer, error) {
	var customers []models.Customer
	db := r.db.WithContext(ctx).
		Preload("Addresses").
		Preload("Contacts")
	if companyName != "" {
		db = db.Where("company_name LIKE ?", likePattern(companyName))
	}
	err := db.Order("id DESC").Find(&customers).Error
	return customers, err
}

func (r *customerRepository) Create(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

// Update saves the customer row and replaces its addresses and contacts wholesale
func (r *customerRepository) Update(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(customer).Select("company_name").Updates(customer).Error; err != nil {
			return err
		}
		if err := tx.Where("customer_id = ?", customer.ID).Delete(&models.CustomerAddress{}).Error; err != nil {
			return err
		}
		if err := tx.Where("customer_id = ?", customer.ID).Delete(&models.CustomerContact{}).Error; err != nil {
			return err
		}
		for i := range customer.Addresses {
			customer.Addresses[i].ID = 0
			customer.Addresses[i].CustomerID = customer.ID
		}
		for i := range customer.Contacts {
			customer.Contacts[i].ID = 0
			customer.Contacts[i].CustomerID = customer.ID
		}
		if len(customer.Addresses) > 0 {
			if err := tx.Create(&customer.Addresses).Error; err != nil {
				return err
			}
		}
		if len(customer.Contacts) > 0 {
			if err := tx.Create(&customer.Contacts).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteAndReassign moves the customer's samples to fallbackCustomerID, then deletes
// the customer with its addresses and contacts. It returns the number of samples moved.
func (r *customerRepository) DeleteAndReassign(ctx context.Context, id, fallbackCustomerID uint) (int64, error) {
	var moved int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Sample{}).
			Where("customer_id = ?", id).
			Update("customer_id", fallbackCustomerID)
		if result.Error != nil {
			return result.Error
		}
		moved = result.RowsAffected

		if err := tx.Where("customer_id = ?", id).Delete(&models.CustomerAddress{}).Error; err != nil {
			return err
		}
		if err := tx.Where("customer_id = ?", id).Delete(&models.CustomerContact{}).Error; err != nil {
			return err
		}
		deleted := tx.Delete(&models.Customer{}, id)
		if deleted.Error != nil {
			return deleted.Error
		}
		if deleted.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return moved, err
}

func (r *customerRepository) CountSamples(ctx context.Context, id uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Sample{}).Where("customer_id = ?", id).Count(&n).Error
	return n, err
}

func (r *customerRepository) CountOrders(ctx context.Context, companyName string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Where("company_name = ?", companyName).Count(&n).Error
	return n, err
}
