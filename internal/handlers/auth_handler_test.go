package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/backoffice-api/internal/models"
	"github.com/sjperalta/backoffice-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin_SecondLoginSupersedesFirstToken(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin(t, "root", "secret")

	first := env.login(t, "admin", "root", "secret")
	w := env.do(http.MethodGet, "/api/customers", first, nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	second := env.login(t, "admin", "root", "secret")

	w = env.do(http.MethodGet, "/api/customers", first, nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 4011, decodeData(t, w, nil).Code)

	w = env.do(http.MethodGet, "/api/customers", second, nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	var admin models.Admin
	require.NoError(t, env.db.First(&admin, "username = ?", "root").Error)
	require.NotNil(t, admin.TokenVersion)
	assert.Equal(t, 2, *admin.TokenVersion)
}

func TestLogin_UserIncludesPhoneAndRecordsAudit(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "ana", "pw-123")

	w := env.doJSON(http.MethodPost, "/api/user/login", "", gin.H{"username": "ana", "password": "pw-123"})
	require.Equal(t, http.StatusOK, w.Code)
	var result services.LoginResult
	decodeData(t, w, &result)
	assert.Equal(t, "user", result.Role)
	assert.Equal(t, "555-0100", result.Phone)

	var entries []models.OperationLog
	require.NoError(t, env.db.Where("action = ?", models.ActionLogin).Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, "System Login", entries[0].Module)
	assert.Equal(t, "/api/user/login", entries[0].RequestURL)
}

func TestLogin_Failures(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin(t, "root", "secret")

	w := env.doJSON(http.MethodPost, "/api/admin/login", "", gin.H{"username": "root", "password": "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "wrong password", decodeData(t, w, nil).Message)

	w = env.doJSON(http.MethodPost, "/api/admin/login", "", gin.H{"username": "ghost", "password": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "username does not exist", decodeData(t, w, nil).Message)

	w = env.doJSON(http.MethodPost, "/api/admin/login", "", gin.H{"username": "root"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// an admin account cannot sign in through the user endpoint
	w = env.doJSON(http.MethodPost, "/api/user/login", "", gin.H{"username": "root", "password": "secret"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVerify(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedAdmin(t, "root", "secret")
	tok := env.login(t, "admin", "root", "secret")

	w := env.do(http.MethodGet, "/api/auth/verify", tok, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var result services.VerifyResult
	decodeData(t, w, &result)
	assert.Equal(t, admin.ID, result.UserID)
	assert.Equal(t, "Admin root", result.Name)
	assert.NotEmpty(t, result.NewToken)

	w = env.do(http.MethodGet, "/api/auth/verify", "", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(http.MethodGet, "/api/auth/verify", "garbage", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	require.NoError(t, env.db.Delete(&models.Admin{}, admin.ID).Error)
	w = env.do(http.MethodGet, "/api/auth/verify", tok, nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 4012, decodeData(t, w, nil).Code)
}

func TestAdminOnlyRoutes(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "ana", "pw")
	env.seedAdmin(t, "root", "secret")

	userToken := env.login(t, "user", "ana", "pw")
	w := env.do(http.MethodGet, "/api/users", userToken, nil, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	adminToken := env.login(t, "admin", "root", "secret")
	w = env.doJSON(http.MethodPost, "/api/users", adminToken, gin.H{"username": "bob", "password": "pw2", "name": "Bob"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotContains(t, w.Body.String(), "pw2")

	w = env.doJSON(http.MethodPost, "/api/users", adminToken, gin.H{"username": "bob", "password": "pw3"})
	assert.Equal(t, http.StatusConflict, w.Code)
}
