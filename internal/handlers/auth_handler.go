package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/backoffice-api/internal/middleware"
	"github.com/sjperalta/backoffice-api/internal/models"
	"github.com/sjperalta/backoffice-api/internal/response"
	"github.com/sjperalta/backoffice-api/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// @Summary Admin login
// @Description Signs in an administrator. Any token issued by an earlier login stops working.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login Credentials"
// @Success 200 {object} response.Envelope{data=services.LoginResult}
// @Failure 400 {object} response.Envelope
// @Router /admin/login [post]
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	h.login(c, models.RoleAdmin)
}

// @Summary User login
// @Description Signs in a user. Any token issued by an earlier login stops working.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login Credentials"
// @Success 200 {object} response.Envelope{data=services.LoginResult}
// @Failure 400 {object} response.Envelope
// @Router /user/login [post]
func (h *AuthHandler) UserLogin(c *gin.Context) {
	h.login(c, models.RoleUser)
}

func (h *AuthHandler) login(c *gin.Context, kind string) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "username and password are required")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), kind, req.Username, req.Password)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OKMessage(c, "login successful", result)
}

// @Summary Verify token
// @Description Checks the bearer token against the current session and returns a refreshed one
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=services.VerifyResult}
// @Failure 401 {object} response.Envelope
// @Router /auth/verify [get]
func (h *AuthHandler) Verify(c *gin.Context) {
	tokenString, err := middleware.BearerToken(c)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, err.Error())
		return
	}

	result, err := h.authService.Verify(c.Request.Context(), tokenString)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, result)
}
