package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sjperalta/backoffice-api/internal/audit"
)

// RequestIDHeader carries the per-request correlation id
const RequestIDHeader = "X-Request-ID"

var clientIPHeaders = []string{"X-Forwarded-For", "Proxy-Client-IP", "WL-Proxy-Client-IP", "X-Real-IP"}

// RequestID assigns a request id, reusing the caller's when present
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("requestID", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestContext copies request data into the request context so audited
// service calls can read it without a gin dependency.
func RequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		info := audit.RequestInfo{
			Method:    c.Request.Method,
			Path:      c.Request.URL.Path,
			ClientIP:  ClientIP(c),
			UserAgent: c.Request.UserAgent(),
		}
		c.Request = c.Request.WithContext(audit.WithRequestInfo(c.Request.Context(), info))
		c.Next()
	}
}

// ClientIP returns the originating client address for audit display, honouring
// proxy headers. It trusts the caller and must not key access decisions.
func ClientIP(c *gin.Context) string {
	for _, header := range clientIPHeaders {
		if ip := firstAddress(c.GetHeader(header)); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(c.Request.RemoteAddr))
	if err != nil {
		return c.Request.RemoteAddr
	}
	return host
}

func firstAddress(value string) string {
	if value == "" {
		return ""
	}
	first := strings.TrimSpace(strings.Split(value, ",")[0])
	if first == "" || strings.EqualFold(first, "unknown") {
		return ""
	}
	return first
}
