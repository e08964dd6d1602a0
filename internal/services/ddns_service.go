package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/sjperalta/backoffice-api/internal/audit"
	"github.com/sjperalta/backoffice-api/internal/models"
	"github.com/sjperalta/backoffice-api/pkg/logger"
)

const (
	moduleDDNS = "DDNS Update"

	ddnsActionUnchanged = "IP unchanged"
	ddnsActionUpdated   = "IP updated"
	ddnsActionFailed    = "update failed"

	ddnsResponseLimit = 2000
)

// SystemLogWriter persists the single collapsed entry of a recurring job
type SystemLogWriter interface {
	UpsertSystemEntry(ctx context.Context, entry *models.OperationLog) error
}

// DDNSStatus reports the sync counters since process start
type DDNSStatus struct {
	Enabled    bool       `json:"enabled"`
	Runs       int64      `json:"runs"`
	IPChanges  int64      `json:"ipChanges"`
	LastAction string     `json:"lastAction"`
	LastError  string     `json:"lastError,omitempty"`
	LastRun    *time.Time `json:"lastRun"`
}

// DDNSService calls a dynamic DNS update URL and keeps one log row for all runs
type DDNSService struct {
	updateURL string
	client    *http.Client
	logs      SystemLogWriter
	attempts  uint
	delay     time.Duration
	now       func() time.Time

	runMu  sync.Mutex
	mu     sync.Mutex
	status DDNSStatus
}

func NewDDNSService(updateURL string, client *http.Client, logs SystemLogWriter) *DDNSService {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &DDNSService{
		updateURL: updateURL,
		client:    client,
		logs:      logs,
		attempts:  3,
		delay:     2 * time.Second,
		now:       time.Now,
		status:    DDNSStatus{Enabled: updateURL != ""},
	}
}

// Enabled reports whether an update URL is configured
func (s *DDNSService) Enabled() bool {
	return s.updateURL != ""
}

// Status returns a snapshot of the counters
func (s *DDNSService) Status() DDNSStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Run performs one update. Runs are serialized. The error is also recorded
// in the collapsed log row.
func (s *DDNSService) Run(ctx context.Context) (DDNSStatus, error) {
	if !s.Enabled() {
		return s.Status(), NewBusinessError(400, "DDNS update URL is not configured")
	}

	s.runMu.Lock()
	defer s.runMu.Unlock()

	start := s.now()
	body, err := s.fetch(ctx)

	entry := &models.OperationLog{
		OperatorName:  models.RoleSystem,
		Role:          models.RoleSystem,
		Module:        moduleDDNS,
		Method:        "DDNSService.Run",
		RequestURL:    redactQuery(s.updateURL),
		RequestMethod: http.MethodGet,
	}

	status, outcome := s.record(start, body, err)
	entry.Status = models.AuditStatusSuccess
	if err != nil {
		entry.Status = models.AuditStatusFailure
		entry.ErrorMsg = err.Error()
	}
	entry.Action = status.LastAction
	entry.Description = fmt.Sprintf("DDNS updated %d times, IP changed %d times, this run: %s",
		status.Runs, status.IPChanges, outcome)
	entry.ResponseData = audit.Truncate(strings.TrimSpace(body), ddnsResponseLimit)
	entry.Duration = s.now().Sub(start).Milliseconds()

	if logErr := s.logs.UpsertSystemEntry(ctx, entry); logErr != nil {
		logger.Error("Failed to save DDNS log entry", "error", logErr)
	}

	if err != nil {
		logger.Warn("DDNS update failed", "runs", status.Runs, "error", err)
		return status, err
	}
	logger.Info("DDNS update finished", "action", status.LastAction, "runs", status.Runs, "ip_changes", status.IPChanges)
	return status, nil
}

// record folds one fetch result into the counters and returns a snapshot
func (s *DDNSService) record(start time.Time, body string, err error) (DDNSStatus, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status.Runs++
	s.status.LastRun = &start
	s.status.LastError = ""

	var outcome string
	switch {
	case err != nil:
		s.status.LastAction = ddnsActionFailed
		s.status.LastError = err.Error()
		outcome = "failed: " + err.Error()
	case strings.Contains(strings.ToLower(body), "unchanged"):
		s.status.LastAction = ddnsActionUnchanged
		outcome = ddnsActionUnchanged
	default:
		s.status.IPChanges++
		s.status.LastAction = ddnsActionUpdated
		outcome = ddnsActionUpdated
	}
	return s.status, outcome
}

func (s *DDNSService) fetch(ctx context.Context) (string, error) {
	var body string
	err := retry.Do(
		func() error {
			var err error
			body, err = s.get(ctx)
			return err
		},
		retry.Attempts(s.attempts),
		retry.LastErrorOnly(true),
		retry.Delay(s.delay),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			logger.Debug("Retrying DDNS update", "attempt", n+1, "error", err)
		}),
	)
	return body, err
}

func (s *DDNSService) get(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.updateURL, nil)
	if err != nil {
		return "", retry.Unrecoverable(err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return string(data), fmt.Errorf("unexpected status code from DDNS provider: %d", resp.StatusCode)
	}
	return string(data), nil
}

// redactQuery drops credentials carried in the query string or userinfo
func redactQuery(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	u.RawQuery = ""
	u.User = nil
	return u.String()
}
