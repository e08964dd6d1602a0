package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/sjperalta/backoffice-api/internal/jobs"
	"github.com/sjperalta/backoffice-api/internal/metrics"
	"github.com/sjperalta/backoffice-api/internal/models"
	"github.com/sjperalta/backoffice-api/pkg/logger"
)

const defaultWriteTimeout = 5 * time.Second

// Store persists completed entries
type Store interface {
	Append(ctx context.Context, entry *models.OperationLog) error
}

// Dispatcher runs jobs off the caller's goroutine
type Dispatcher interface {
	EnqueueAsync(job jobs.Job)
}

// Recorder builds operation log entries and hands them to the dispatcher for persistence
type Recorder struct {
	store        Store
	dispatcher   Dispatcher
	registry     *Registry
	now          func() time.Time
	writeTimeout time.Duration
}

// RecorderOption configures a Recorder
type RecorderOption func(*Recorder)

// WithRecorderClock replaces the clock used for durations
func WithRecorderClock(now func() time.Time) RecorderOption {
	return func(r *Recorder) { r.now = now }
}

// WithWriteTimeout bounds each background write
func WithWriteTimeout(d time.Duration) RecorderOption {
	return func(r *Recorder) { r.writeTimeout = d }
}

func NewRecorder(store Store, dispatcher Dispatcher, registry *Registry, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		store:        store,
		dispatcher:   dispatcher,
		registry:     registry,
		now:          time.Now,
		writeTimeout: defaultWriteTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Do runs fn and records an entry for it. The result and error of fn are
// returned unchanged and a panic in fn is re-raised after recording.
// A nil Recorder runs fn without recording.
func Do[T any](ctx context.Context, r *Recorder, op Operation, args []any, fn func(ctx context.Context) (T, error)) (result T, err error) {
	if r == nil {
		return fn(ctx)
	}

	start := r.now()
	entry := r.begin(ctx, op, args)

	defer func() {
		if p := recover(); p != nil {
			entry.Status = models.AuditStatusFailure
			entry.ErrorMsg = fmt.Sprint(p)
			r.finish(entry, start)
			panic(p)
		}
		if err != nil {
			entry.Status = models.AuditStatusFailure
			entry.ErrorMsg = err.Error()
		} else {
			entry.Status = models.AuditStatusSuccess
			entry.ResponseData = capture(op, "response", func() string { return serializeResponse(result) })
		}
		r.finish(entry, start)
	}()

	return fn(ctx)
}

// Record persists a hand-built entry, such as a login. Request fields left
// empty are filled from the ambient request data.
func (r *Recorder) Record(ctx context.Context, entry *models.OperationLog) {
	if r == nil || entry == nil {
		return
	}
	if info, ok := RequestInfoFrom(ctx); ok {
		if entry.UserID == nil && entry.OperatorName == "" {
			entry.UserID = info.ActorID
			entry.OperatorName = info.ActorName
			entry.Role = info.Role
		}
		if entry.RequestURL == "" {
			entry.RequestURL = info.Path
			entry.RequestMethod = info.Method
		}
		if entry.IPAddress == "" {
			entry.IPAddress = info.ClientIP
		}
		if entry.UserAgent == "" {
			entry.UserAgent = info.UserAgent
		}
	}
	r.submit(entry)
}

func (r *Recorder) begin(ctx context.Context, op Operation, args []any) *models.OperationLog {
	entry := &models.OperationLog{
		Module:      op.Module,
		Action:      op.Action,
		Description: op.Description,
		Method:      op.Name,
	}

	// Outside an HTTP request the actor fields stay empty.
	if info, ok := RequestInfoFrom(ctx); ok {
		entry.UserID = info.ActorID
		entry.OperatorName = info.ActorName
		entry.Role = info.Role
		entry.RequestURL = info.Path
		entry.RequestMethod = info.Method
		entry.IPAddress = info.ClientIP
		entry.UserAgent = info.UserAgent
	}

	entry.RequestParams = capture(op, "params", func() string { return serializeArgs(args) })

	if op.capturesOldData() {
		entry.OldData = capture(op, "old data", func() string { return r.oldData(ctx, op, args) })
	}
	if op.capturesNewData() {
		entry.NewData = capture(op, "new data", func() string { return newData(args) })
	}
	return entry
}

func (r *Recorder) oldData(ctx context.Context, op Operation, args []any) string {
	if op.IDParamIndex < 0 || op.IDParamIndex >= len(args) {
		return lookupFailed(fmt.Errorf("id argument %d out of range (%d arguments)", op.IDParamIndex, len(args)))
	}
	id, err := CoerceID(args[op.IDParamIndex])
	if err != nil {
		return lookupFailed(err)
	}
	lookup, ok := r.registry.Lookup(op.EntityType)
	if !ok {
		return lookupFailed(fmt.Errorf("no lookup registered for entity type %q", op.EntityType))
	}
	entity, err := lookup.GetByID(ctx, id)
	if err != nil {
		return lookupFailed(err)
	}
	return serializeData(entity)
}

func newData(args []any) string {
	obj, ok := firstObject(args)
	if !ok {
		return ""
	}
	return serializeData(obj)
}

// capture runs one capture step and turns a panic into a marker
func capture(op Operation, field string, fn func() string) (s string) {
	defer func() {
		if p := recover(); p != nil {
			logger.Warn("Audit capture failed", "operation", op.Name, "field", field, "panic", p)
			s = fmt.Sprintf("[capture failed: %v]", p)
		}
	}()
	return fn()
}

func (r *Recorder) finish(entry *models.OperationLog, start time.Time) {
	entry.Duration = r.now().Sub(start).Milliseconds()
	r.submit(entry)
}

// submit hands the entry to the dispatcher. Nothing here may reach the audited caller.
func (r *Recorder) submit(entry *models.OperationLog) {
	defer func() {
		if p := recover(); p != nil {
			logger.Error("Audit dispatch failed", "module", entry.Module, "action", entry.Action, "panic", p)
			metrics.IncAuditFailed()
		}
	}()

	r.dispatcher.EnqueueAsync(func(ctx context.Context) error {
		writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.writeTimeout)
		defer cancel()

		if err := r.store.Append(writeCtx, entry); err != nil {
			metrics.IncAuditFailed()
			return fmt.Errorf("append operation log (%s/%s): %w", entry.Module, entry.Action, err)
		}
		metrics.IncAuditWritten()
		return nil
	})
}
