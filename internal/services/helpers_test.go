package services

import (
	"context"
	"sync"
	"testing"

	"github.com/sjperalta/backoffice-api/internal/audit"
	"github.com/sjperalta/backoffice-api/internal/jobs"
	"github.com/sjperalta/backoffice-api/internal/models"
	"github.com/stretchr/testify/require"
)

// auditTrail collects entries written through a Recorder
type auditTrail struct {
	mu      sync.Mutex
	entries []*models.OperationLog
}

func (a *auditTrail) Append(ctx context.Context, entry *models.OperationLog) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, entry)
	return nil
}

func (a *auditTrail) all() []*models.OperationLog {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]*models.OperationLog(nil), a.entries...)
}

func (a *auditTrail) last(t *testing.T) *models.OperationLog {
	t.Helper()
	entries := a.all()
	require.NotEmpty(t, entries)
	return entries[len(entries)-1]
}

type inlineDispatcher struct{}

func (inlineDispatcher) EnqueueAsync(job jobs.Job) { _ = job(context.Background()) }

func newTestRecorder(registry *audit.Registry) (*audit.Recorder, *auditTrail) {
	trail := &auditTrail{}
	if registry == nil {
		registry = audit.NewRegistry()
	}
	return audit.NewRecorder(trail, inlineDispatcher{}, registry), trail
}

func intPtr(v int) *int    { return &v }
func uintPtr(v uint) *uint { return &v }
