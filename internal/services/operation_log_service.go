package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sjperalta/backoffice-api/internal/models"
	"github.com/sjperalta/backoffice-api/internal/repository"
	"github.com/sjperalta/backoffice-api/pkg/logger"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 500
	exportLimit     = 10000
)

// LogSearch holds the optional filters of an operation log query
type LogSearch struct {
	Username  string
	Module    string
	Action    string
	StartTime *time.Time
	EndTime   *time.Time
	PageNum   int
	PageSize  int
}

func (q LogSearch) filter() repository.OperationLogFilter {
	return repository.OperationLogFilter{
		OperatorName: q.Username,
		Module:       q.Module,
		Action:       q.Action,
		StartTime:    q.StartTime,
		EndTime:      q.EndTime,
	}
}

func normalizePage(pageNum, pageSize int) (int, int) {
	if pageNum < 1 {
		pageNum = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return pageNum, pageSize
}

// OperationLogService stores and queries the operation audit trail
type OperationLogService struct {
	repo     repository.OperationLogRepository
	now      func() time.Time
	upsertMu sync.Mutex
}

// NewOperationLogService creates a new operation log service
func NewOperationLogService(repo repository.OperationLogRepository) *OperationLogService {
	return &OperationLogService{repo: repo, now: time.Now}
}

// Append inserts an entry. It satisfies audit.Store.
func (s *OperationLogService) Append(ctx context.Context, entry *models.OperationLog) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now()
	}
	return s.repo.Create(ctx, entry)
}

// Page returns the newest entries first
func (s *OperationLogService) Page(ctx context.Context, pageNum, pageSize int) (models.Page[models.OperationLogResponse], error) {
	return s.Search(ctx, LogSearch{PageNum: pageNum, PageSize: pageSize})
}

// Search filters by operator name substring (case-insensitive), exact module and action, and an inclusive time range
func (s *OperationLogService) Search(ctx context.Context, q LogSearch) (models.Page[models.OperationLogResponse], error) {
	pageNum, pageSize := normalizePage(q.PageNum, q.PageSize)
	entries, total, err := s.repo.List(ctx, q.filter(), (pageNum-1)*pageSize, pageSize)
	if err != nil {
		return models.Page[models.OperationLogResponse]{}, fmt.Errorf("list operation logs: %w", err)
	}
	return models.NewPage(toLogResponses(entries), total, pageNum, pageSize), nil
}

func toLogResponses(entries []models.OperationLog) []models.OperationLogResponse {
	out := make([]models.OperationLogResponse, len(entries))
	for i := range entries {
		out[i] = entries[i].ToResponse()
	}
	return out
}

// FindByID returns one entry or ErrNotFound
func (s *OperationLogService) FindByID(ctx context.Context, id uint) (*models.OperationLogResponse, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	resp := entry.ToResponse()
	return &resp, nil
}

// PurgeOlderThan deletes entries created more than days ago
func (s *OperationLogService) PurgeOlderThan(ctx context.Context, days int) (int64, error) {
	if days < 0 {
		return 0, NewBusinessError(400, "days must not be negative")
	}
	cutoff := s.now().AddDate(0, 0, -days)
	n, err := s.repo.DeleteBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge operation logs before %s: %w", cutoff.Format(time.DateTime), err)
	}
	logger.Info("Purged operation logs", "older_than_days", days, "deleted", n)
	return n, nil
}

// PurgeByAction deletes every entry with the given action label
func (s *OperationLogService) PurgeByAction(ctx context.Context, action string) (int64, error) {
	if action == "" {
		return 0, NewBusinessError(400, "action is required")
	}
	n, err := s.repo.DeleteByAction(ctx, action)
	if err != nil {
		return 0, fmt.Errorf("purge %s operation logs: %w", action, err)
	}
	logger.Info("Purged operation logs", "action", action, "deleted", n)
	return n, nil
}

// UpsertSystemEntry keeps one row per (operator name, module) for recurring
// jobs. Overlapping calls are serialized; the last write wins.
func (s *OperationLogService) UpsertSystemEntry(ctx context.Context, entry *models.OperationLog) error {
	s.upsertMu.Lock()
	defer s.upsertMu.Unlock()

	entry.CreatedAt = s.now()
	inserted, err := s.repo.UpsertByOperatorAndModule(ctx, entry)
	if err != nil {
		return fmt.Errorf("upsert %s/%s entry: %w", entry.OperatorName, entry.Module, err)
	}
	logger.Debug("System log entry saved", "module", entry.Module, "inserted", inserted)
	return nil
}

// exportRows returns every entry matching q up to the export cap
func (s *OperationLogService) exportRows(ctx context.Context, q LogSearch) ([]models.OperationLog, error) {
	entries, _, err := s.repo.List(ctx, q.filter(), 0, exportLimit)
	if err != nil {
		return nil, fmt.Errorf("list operation logs for export: %w", err)
	}
	return entries, nil
}
