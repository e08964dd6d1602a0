package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/backoffice-api/internal/models"
	"github.com/sjperalta/backoffice-api/internal/response"
	"github.com/sjperalta/backoffice-api/internal/services"
)

type OrderHandler struct {
	orderService *services.OrderService
}

func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// @Summary List orders
// @Tags Orders
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search_term query string false "Order number or model contains"
// @Param status query string false "Status"
// @Param companyName query string false "Company name"
// @Param sampleId query int false "Sample ID"
// @Success 200 {object} response.Envelope{data=models.Page[models.Order]}
// @Security BearerAuth
// @Router /orders [get]
func (h *OrderHandler) Index(c *gin.Context) {
	query := listQuery(c)
	query.Filters["status"] = c.Query("status")
	query.Filters["company_name"] = c.Query("companyName")
	query.Filters["sample_id"] = c.Query("sampleId")

	orders, total, err := h.orderService.List(c.Request.Context(), query)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, models.NewPage(orders, total, query.Page, query.PerPage))
}

// @Summary Get order
// @Tags Orders
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} response.Envelope{data=models.Order}
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /orders/{id} [get]
func (h *OrderHandler) Show(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	order, err := h.orderService.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, order)
}

// @Summary Create order
// @Description New orders always start as PENDING
// @Tags Orders
// @Accept json
// @Produce json
// @Param request body models.Order true "Order"
// @Success 200 {object} response.Envelope{data=models.Order}
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var order models.Order
	if err := BindNestedOrFlat(c, "order", &order); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid order payload")
		return
	}
	created, err := h.orderService.Create(c.Request.Context(), &order)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OKMessage(c, "order created", created)
}

// @Summary Update order
// @Description Updates order fields; the status only changes through transitions
// @Tags Orders
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Param request body models.Order true "Order"
// @Success 200 {object} response.Envelope{data=models.Order}
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /orders/{id} [put]
func (h *OrderHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var order models.Order
	if err := BindNestedOrFlat(c, "order", &order); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid order payload")
		return
	}
	updated, err := h.orderService.Update(c.Request.Context(), id, &order)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OKMessage(c, "order updated", updated)
}

// @Summary Transition order status
// @Description Applies start_production, ship, complete, cancel or reopen
// @Tags Orders
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Param request body services.OrderTransition true "Event"
// @Success 200 {object} response.Envelope{data=models.Order}
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /orders/{id}/transition [post]
func (h *OrderHandler) Transition(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.OrderTransition
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "event is required")
		return
	}
	order, err := h.orderService.Transition(c.Request.Context(), id, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OKMessage(c, "order status changed", order)
}

// @Summary Delete order
// @Tags Orders
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /orders/{id} [delete]
func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	deleted, err := h.orderService.Delete(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OKMessage(c, "order deleted", gin.H{"deletedId": deleted})
}
