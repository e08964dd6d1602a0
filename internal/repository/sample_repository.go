package repository

import (
	"context"
	"strconv"

	"github.com/sjperalta/backoffice-api/internal/models"
	"gorm.io/gorm"
)

// SampleRepository defines the interface for sample data access
type SampleRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Sample, error)
	List(ctx context.Context, query *ListQuery) ([]models.Sample, int64, error)
	Create(ctx context.Context, sample *models.Sample) error
	Update(ctx context.Context, sample *models.Sample) error
	SetImage(ctx context.Context, id uint, image string) error
	DeleteWithOrders(ctx context.Context, id uint) (int64, error)
	CountOrders(ctx context.Context, id uint) (int64, error)
	AssignMissingCustomer(ctx context.Context, customerID uint) (int64, error)
}

type sampleRepository struct {
	db *gorm.DB
}

// NewSampleRepository creates a new sample repository
func NewSampleRepository(db *gorm.DB) SampleRepository {
	return &sampleRepository{db: db}
}

func (r *sampleRepository) FindByID(ctx context.Context, id uint) (*models.Sample, error) {
	var sample models.Sample
	if err := r.db.WithContext(ctx).First(&sample, id).Error; err != nil {
		return nil, err
	}
	return &sample, nil
}

var sampleSortColumns = map[string]string{
	"id":         "id",
	"model":      "model",
	"stock":      "stock",
	"unitPrice":  "unit_price",
	"createTime": "created_at",
}

// List supports the filters "customer_id" and "model" (substring), and Search over model, alias and company
func (r *sampleRepository) List(ctx context.Context, query *ListQuery) ([]models.Sample, int64, error) {
	var samples []models.Sample
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Sample{})

	if v := query.Filters["customer_id"]; v != "" {
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			db = db.Where("customer_id = ?", id)
		}
	}
	if v := query.Filters["model"]; v != "" {
		db = db.Where("model LIKE ?", likePattern(v))
	}
	if query.Search != "" {
		search := likePattern(query.Search)
		db = db.Where("model LIKE ? OR alias LIKE ? OR company_name LIKE ?", search, search, search)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	db = query.order(db, sampleSortColumns, "id DESC")
	err := query.paginate(db).Find(&samples).Error
	return samples, total, err
}

func (r *sampleRepository) Create(ctx context.Context, sample *models.Sample) error {
	return r.db.WithContext(ctx).Create(sample).Error
}

// Update writes every editable column, including zero values such as an emptied image
func (r *sampleRepository) Update(ctx context.Context, sample *models.Sample) error {
	result := r.db.WithContext(ctx).
		Model(sample).
		Select("customer_id", "company_name", "alias", "model", "color_code", "image", "stock", "unit_price").
		Updates(sample)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *sampleRepository) SetImage(ctx context.Context, id uint, image string) error {
	return r.db.WithContext(ctx).
		Model(&models.Sample{}).
		Where("id = ?", id).
		Update("image", image).Error
}

// DeleteWithOrders removes the sample and every order placed against it, returning the number of orders removed
func (r *sampleRepository) DeleteWithOrders(ctx context.Context, id uint) (int64, error) {
	var removed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orders := tx.Where("sample_id = ?", id).Delete(&models.Order{})
		if orders.Error != nil {
			return orders.Error
		}
		removed = orders.RowsAffected

		deleted := tx.Delete(&models.Sample{}, id)
		if deleted.Error != nil {
			return deleted.Error
		}
		if deleted.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return removed, err
}

func (r *sampleRepository) CountOrders(ctx context.Context, id uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Where("sample_id = ?", id).Count(&n).Error
	return n, err
}

// AssignMissingCustomer sets customerID on samples that have none
func (r *sampleRepository) AssignMissingCustomer(ctx context.Context, customerID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Sample{}).
		Where("customer_id IS NULL").
		Update("customer_id", customerID)
	return result.RowsAffected, result.Error
}
