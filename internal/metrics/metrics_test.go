package metrics

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_ExposesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NotPanics(t, func() { Register(reg) })

	before := testutil.ToFloat64(auditEntriesWritten)
	IncAuditWritten()
	assert.Equal(t, before+1, testutil.ToFloat64(auditEntriesWritten))

	ObserveRequest(http.MethodGet, "/api/logs", http.StatusOK, 20*time.Millisecond)
	assert.Equal(t, float64(1), testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/logs", "200")))

	SetSSEConnections(3)
	assert.Equal(t, float64(3), testutil.ToFloat64(sseConnections))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "backoffice_audit_entries_written_total")
	assert.Contains(t, names, "backoffice_http_requests_total")
}
