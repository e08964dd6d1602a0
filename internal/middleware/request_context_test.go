package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/backoffice-api/internal/audit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"remote address", nil, "192.0.2.1"},
		{"forwarded list takes first", map[string]string{"X-Forwarded-For": "10.0.0.1, 10.0.0.2"}, "10.0.0.1"},
		{"unknown is skipped", map[string]string{"X-Forwarded-For": "unknown", "Proxy-Client-IP": "10.0.0.3"}, "10.0.0.3"},
		{"weblogic header", map[string]string{"WL-Proxy-Client-IP": "10.0.0.4"}, "10.0.0.4"},
		{"real ip last", map[string]string{"X-Real-IP": "10.0.0.5"}, "10.0.0.5"},
		{"order wins", map[string]string{"X-Real-IP": "10.0.0.5", "Proxy-Client-IP": "10.0.0.6"}, "10.0.0.6"},
	}
	gin.SetMode(gin.TestMode)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Request.RemoteAddr = "192.0.2.1:4321"
			for k, v := range tt.headers {
				c.Request.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, ClientIP(c))
		})
	}
}

func TestRequestContext_StoresRequestInfo(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	var info audit.RequestInfo
	var ok bool
	r.Use(RequestID(), RequestContext())
	r.PUT("/api/samples/:id", func(c *gin.Context) {
		info, ok = audit.RequestInfoFrom(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodPut, "/api/samples/3", nil)
	req.Header.Set("X-Real-IP", "10.1.1.1")
	req.Header.Set("User-Agent", "curl/8.0")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.True(t, ok)
	assert.Equal(t, "PUT", info.Method)
	assert.Equal(t, "/api/samples/3", info.Path)
	assert.Equal(t, "10.1.1.1", info.ClientIP)
	assert.Equal(t, "curl/8.0", info.UserAgent)
	assert.Nil(t, info.ActorID)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestRequestID_ReusesCallerID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}
