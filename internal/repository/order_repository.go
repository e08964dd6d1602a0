package repository

import (
	"context"

	"github.com/sjperalta/backoffice-api/internal/models"
	"gorm.io/gorm"
)

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Order, error)
	ExistsByOrderNumber(ctx context.Context, orderNumber string, excludeID uint) (bool, error)
	List(ctx context.Context, query *ListQuery) ([]models.Order, int64, error)
	Create(ctx context.Context, order *models.Order) error
	Update(ctx context.Context, order *models.Order) error
	UpdateStatus(ctx context.Context, id uint, from, to string) error
	Delete(ctx context.Context, id uint) error
}

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) FindByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) ExistsByOrderNumber(ctx context.Context, orderNumber string, excludeID uint) (bool, error) {
	var n int64
	db := r.db.WithContext(ctx).Model(&models.Order{}).Where("order_number = ?", orderNumber)
	if excludeID != 0 {
		db = db.Where("id <> ?", excludeID)
	}
	err := db.Count(&n).Error
	return n > 0, err
}

var orderSortColumns = map[string]string{
	"id":           "id",
	"orderNumber":  "order_number",
	"createDate":   "create_date",
	"deliveryDate": "delivery_date",
	"totalAmount":  "total_amount",
}

// List supports the filters "status", "company_name" and "sample_id", and Search over order number and model
func (r *orderRepository) List(ctx context.Context, query *ListQuery) ([]models.Order, int64, error) {
	var orders []models.Order
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Order{})

	if v := query.Filters["status"]; v != "" {
		db = db.Where("status = ?", v)
	}
	if v := query.Filters["company_name"]; v != "" {
		db = db.Where("company_name = ?", v)
	}
	if v := query.Filters["sample_id"]; v != "" {
		db = db.Where("sample_id = ?", v)
	}
	if query.Search != "" {
		search := likePattern(query.Search)
		db = db.Where("order_number LIKE ? OR model LIKE ?", search, search)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	db = query.order(db, orderSortColumns, "id DESC")
	err := query.paginate(db).Find(&orders).Error
	return orders, total, err
}

func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// Update writes the editable columns. Status changes go through UpdateStatus.
func (r *orderRepository) Update(ctx context.Context, order *models.Order) error {
	result := r.db.WithContext(ctx).
		Model(order).
		Select("order_number", "sample_id", "model", "color_code", "company_name", "image",
			"total_quantity", "total_amount", "create_date", "delivery_date").
		Updates(order)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateStatus moves the order from one status to another. It fails with
// gorm.ErrRecordNotFound if the order is gone or no longer in the from status.
func (r *orderRepository) UpdateStatus(ctx context.Context, id uint, from, to string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *orderRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Order{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
