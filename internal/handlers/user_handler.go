package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/backoffice-api/internal/models"
	"github.com/sjperalta/backoffice-api/internal/response"
	"github.com/sjperalta/backoffice-api/internal/services"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// @Summary List users
// @Tags Users
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search_term query string false "Username, name or phone contains"
// @Success 200 {object} response.Envelope{data=models.Page[models.User]}
// @Security BearerAuth
// @Router /users [get]
func (h *UserHandler) Index(c *gin.Context) {
	query := listQuery(c)
	users, total, err := h.userService.List(c.Request.Context(), query)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, models.NewPage(users, total, query.Page, query.PerPage))
}

// @Summary Get user
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} response.Envelope{data=models.User}
// @Security BearerAuth
// @Router /users/{id} [get]
func (h *UserHandler) Show(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	user, err := h.userService.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, user)
}

// @Summary Create user
// @Tags Users
// @Accept json
// @Produce json
// @Param request body services.UserInput true "User"
// @Success 200 {object} response.Envelope{data=models.User}
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var input services.UserInput
	if err := BindNestedOrFlat(c, "user", &input); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid user payload")
		return
	}
	user, err := h.userService.Create(c.Request.Context(), input)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OKMessage(c, "user created", user)
}

// @Summary Update user
// @Description An empty password keeps the current one
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body services.UserInput true "User"
// @Success 200 {object} response.Envelope{data=models.User}
// @Security BearerAuth
// @Router /users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input services.UserInput
	if err := BindNestedOrFlat(c, "user", &input); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid user payload")
		return
	}
	user, err := h.userService.Update(c.Request.Context(), id, input)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OKMessage(c, "user updated", user)
}

// @Summary Delete user
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	deleted, err := h.userService.Delete(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OKMessage(c, "user deleted", gin.H{"deletedId": deleted})
}
