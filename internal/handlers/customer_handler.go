package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/backoffice-api/internal/models"
	"github.com/sjperalta/backoffice-api/internal/response"
	"github.com/sjperalta/backoffice-api/internal/services"
)

type CustomerHandler struct {
	customerService *services.CustomerService
}

func NewCustomerHandler(customerService *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// @Summary List customers
// @Tags Customers
// @Produce json
// @Param companyName query string false "Company name contains"
// @Success 200 {object} response.Envelope{data=[]models.Customer}
// @Security BearerAuth
// @Router /customers [get]
func (h *CustomerHandler) Index(c *gin.Context) {
	customers, err := h.customerService.List(c.Request.Context(), c.Query("companyName"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, customers)
}

// @Summary Get customer
// @Description Get a customer with its addresses and contacts
// @Tags Customers
// @Produce json
// @Param id path int true "Customer ID"
// @Success 200 {object} response.Envelope{data=models.Customer}
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /customers/{id} [get]
func (h *CustomerHandler) Show(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	customer, err := h.customerService.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, customer)
}

// @Summary Create customer
// @Tags Customers
// @Accept json
// @Produce json
// @Param request body models.Customer true "Customer"
// @Success 200 {object} response.Envelope{data=models.Customer}
// @Security BearerAuth
// @Router /customers [post]
func (h *CustomerHandler) Create(c *gin.Context) {
	var customer models.Customer
	if err := BindNestedOrFlat(c, "customer", &customer); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid customer payload")
		return
	}
	created, err := h.customerService.Create(c.Request.Context(), &customer)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OKMessage(c, "customer created", created)
}

// @Summary Update customer
// @Description Replaces the customer's fields, addresses and contacts
// @Tags Customers
// @Accept json
// @Produce json
// @Param id path int true "Customer ID"
// @Param request body models.Customer true "Customer"
// @Success 200 {object} response.Envelope{data=models.Customer}
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /customers/{id} [put]
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var customer models.Customer
	if err := BindNestedOrFlat(c, "customer", &customer); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid customer payload")
		return
	}
	updated, err := h.customerService.Update(c.Request.Context(), id, &customer)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OKMessage(c, "customer updated", updated)
}

// @Summary Delete customer
// @Description Deletes the customer and moves its samples to the default customer
// @Tags Customers
// @Produce json
// @Param id path int true "Customer ID"
// @Success 200 {object} response.Envelope{data=models.DeleteResult}
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /customers/{id} [delete]
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	result, err := h.customerService.Delete(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OKMessage(c, result.Description, result)
}

// @Summary Customer statistics
// @Tags Customers
// @Produce json
// @Param id path int true "Customer ID"
// @Success 200 {object} response.Envelope{data=models.CustomerStats}
// @Security BearerAuth
// @Router /customers/{id}/stats [get]
func (h *CustomerHandler) Stats(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	stats, err := h.customerService.Stats(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, stats)
}
