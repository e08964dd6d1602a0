package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sjperalta/backoffice-api/internal/models"
	"gorm.io/gorm"
)

// OperationLogFilter narrows an operation log query. Empty fields do not filter.
type OperationLogFilter struct {
	OperatorName string // case-insensitive substring
	Module       string
	Action       string
	StartTime    *time.Time // inclusive
	EndTime      *time.Time // inclusive
}

// OperationLogRepository defines the interface for operation log data access
type OperationLogRepository interface {
	Create(ctx context.Context, entry *models.OperationLog) error
	FindByID(ctx context.Context, id uint) (*models.OperationLog, error)
	List(ctx context.Context, filter OperationLogFilter, offset, limit int) ([]models.OperationLog, int64, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteByAction(ctx context.Context, action string) (int64, error)
	UpsertByOperatorAndModule(ctx context.Context, entry *models.OperationLog) (bool, error)
}

type operationLogRepository struct {
	db *gorm.DB
}

// NewOperationLogRepository creates a new operation log repository
func NewOperationLogRepository(db *gorm.DB) OperationLogRepository {
	return &operationLogRepository{db: db}
}

func (r *operationLogRepository) Create(ctx context.Context, entry *models.OperationLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *operationLogRepository) FindByID(ctx context.Context, id uint) (*models.OperationLog, error) {
	var entry models.OperationLog
	if err := r.db.WithContext(ctx).First(&entry, id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// List returns entries newest first. A non-positive limit returns every match.
func (r *operationLogRepository) List(ctx context.Context, filter OperationLogFilter, offset, limit int) ([]models.OperationLog, int64, error) {
	var entries []models.OperationLog
	var total int64

	db := r.db.WithContext(ctx).Model(&models.OperationLog{})
	if filter.OperatorName != "" {
		db = db.Where("LOWER(operator_name) LIKE LOWER(?)", likePattern(filter.OperatorName))
	}
	if filter.Module != "" {
		db = db.Where("module = ?", filter.Module)
	}
	if filter.Action != "" {
		db = db.Where("action = ?", filter.Action)
	}
	if filter.StartTime != nil {
		db = db.Where("created_at >= ?", *filter.StartTime)
	}
	if filter.EndTime != nil {
		db = db.Where("created_at <= ?", *filter.EndTime)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	db = db.Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		db = db.Offset(offset).Limit(limit)
	}
	err := db.Find(&entries).Error
	return entries, total, err
}

func (r *operationLogRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&models.OperationLog{})
	return result.RowsAffected, result.Error
}

func (r *operationLogRepository) DeleteByAction(ctx context.Context, action string) (int64, error) {
	result := r.db.WithContext(ctx).Where("action = ?", action).Delete(&models.OperationLog{})
	return result.RowsAffected, result.Error
}

// UpsertByOperatorAndModule updates the newest row with the entry's operator name and
// module in place, or inserts the entry when none exists. It reports whether a row was inserted.
func (r *operationLogRepository) UpsertByOperatorAndModule(ctx context.Context, entry *models.OperationLog) (bool, error) {
	inserted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.OperationLog
		err := tx.Where("operator_name = ? AND module = ?", entry.OperatorName, entry.Module).
			Order("id DESC").
			First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			inserted = true
			return tx.Create(entry).Error
		}
		if err != nil {
			return err
		}

		entry.ID = existing.ID
		if entry.CreatedAt.IsZero() {
			entry.CreatedAt = time.Now()
		}
		return tx.Model(&existing).
			Select("action", "description", "status", "error_msg", "response_data",
				"request_url", "request_method", "duration", "created_at").
			Updates(entry).Error
	})
	return inserted, err
}
