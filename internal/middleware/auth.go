package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/backoffice-api/internal/audit"
	"github.com/sjperalta/backoffice-api/internal/models"
	"github.com/sjperalta/backoffice-api/internal/response"
	"github.com/sjperalta/backoffice-api/internal/services"
	"github.com/sjperalta/backoffice-api/internal/token"
	"github.com/sjperalta/backoffice-api/pkg/logger"
)

// ErrTokenMissing is returned when a protected request carries no bearer token
var ErrTokenMissing = errors.New("no token provided")

// DefaultExemptPrefixes are the paths reachable without a token
var DefaultExemptPrefixes = []string{
	"/api/admin/login",
	"/api/user/login",
	"/api/auth/verify",
	"/api/notifications/subscribe",
	"/sampleImage/",
}

// Authenticator resolves a bearer token to the account behind it
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*services.Principal, error)
}

// Auth returns a middleware that authenticates every request outside the exempt prefixes
func Auth(auth Authenticator, exempt []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || isExempt(c.Request.URL.Path, exempt) {
			c.Next()
			return
		}

		tokenString, err := BearerToken(c)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, err.Error())
			return
		}

		p, err := auth.Authenticate(c.Request.Context(), tokenString)
		if err != nil {
			code, msg := AuthFailure(err)
			if code == http.StatusInternalServerError {
				logger.Error("Authentication lookup failed", "path", c.Request.URL.Path, "error", err)
			}
			response.Abort(c, code, msg)
			return
		}

		SetPrincipal(c, p)
		c.Next()
	}
}

// BearerToken extracts the token from "Authorization: Bearer <token>"
func BearerToken(c *gin.Context) (string, error) {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", ErrTokenMissing
	}
	return strings.TrimSpace(parts[1]), nil
}

// AuthFailure maps an authentication error to its envelope code and message
func AuthFailure(err error) (int, string) {
	switch {
	case errors.Is(err, token.ErrTokenExpired):
		return http.StatusUnauthorized, "token has expired"
	case errors.Is(err, token.ErrTokenInvalid):
		return http.StatusUnauthorized, "invalid token"
	case errors.Is(err, ErrTokenMissing):
		return http.StatusUnauthorized, ErrTokenMissing.Error()
	case errors.Is(err, services.ErrSessionSuperseded):
		return response.CodeSessionSuperseded, "your account has signed in elsewhere, please sign in again"
	case errors.Is(err, services.ErrIdentityNotFound):
		return response.CodeIdentityNotFound, "account does not exist"
	}
	return http.StatusInternalServerError, "system busy, please try again later"
}

// SetPrincipal stores the authenticated account in the gin context and the request context
func SetPrincipal(c *gin.Context, p *services.Principal) {
	c.Set("userID", p.ID)
	c.Set("userName", p.Name)
	c.Set("userRole", p.Role)
	c.Request = c.Request.WithContext(audit.WithActor(c.Request.Context(), p.ID, p.Name, p.Role))
}

func isExempt(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) uint {
	userID, exists := c.Get("userID")
	if !exists {
		return 0
	}
	return userID.(uint)
}

// GetUserRole extracts the user role from the Gin context
func GetUserRole(c *gin.Context) string {
	role, exists := c.Get("userRole")
	if !exists {
		return ""
	}
	return role.(string)
}

// IsAdmin checks if the current account is an admin
func IsAdmin(c *gin.Context) bool {
	return GetUserRole(c) == models.RoleAdmin
}

// RequireAdmin returns a middleware that requires admin role
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(models.RoleAdmin)
}

// RequireRole returns a middleware that requires specific roles
func RequireRole(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := GetUserRole(c)
		for _, role := range allowedRoles {
			if userRole == role {
				c.Next()
				return
			}
		}
		response.Abort(c, http.StatusForbidden, "you do not have access to this section")
	}
}
