package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/backoffice-api/internal/models"
	"github.com/sjperalta/backoffice-api/internal/response"
	"github.com/sjperalta/backoffice-api/internal/services"
)

type EmployeeHandler struct {
	employeeService *services.EmployeeService
}

func NewEmployeeHandler(employeeService *services.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

// @Summary List employees
// @Tags Employees
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search_term query string false "Name, phone or email contains"
// @Param gender query string false "Gender"
// @Success 200 {object} response.Envelope{data=models.Page[models.Employee]}
// @Security BearerAuth
// @Router /employees [get]
func (h *EmployeeHandler) Index(c *gin.Context) {
	query := listQuery(c)
	query.Filters["gender"] = c.Query("gender")

	employees, total, err := h.employeeService.List(c.Request.Context(), query)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, models.NewPage(employees, total, query.Page, query.PerPage))
}

// @Router /employees/{id} [get]
func (h *EmployeeHandler) Show(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	employee, err := h.employeeService.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, employee)
}

// @Router /employees [post]
func (h *EmployeeHandler) Create(c *gin.Context) {
	var employee models.Employee
	if err := BindNestedOrFlat(c, "employee", &employee); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid employee payload")
		return
	}
	created, err := h.employeeService.Create(c.Request.Context(), &employee)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OKMessage(c, "employee created", created)
}

// @Router /employees/{id} [put]
func (h *EmployeeHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var employee models.Employee
	if err := BindNestedOrFlat(c, "employee", &employee); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid employee payload")
		return
	}
	updated, err := h.employeeService.Update(c.Request.Context(), id, &employee)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OKMessage(c, "employee updated", updated)
}

// @Router /employees/{id} [delete]
func (h *EmployeeHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	deleted, err := h.employeeService.Delete(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OKMessage(c, "employee deleted", gin.H{"deletedId": deleted})
}
