package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
	"github.com/polkiloo/orderdesk/internal/domain/model"
	"github.com/polkiloo/orderdesk/internal/server/http/dto"
)

// AdminHandler serves the operator board.
type AdminHandler struct {
	orders OrderFacade
	admin  AdminFacade
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(orders OrderFacade, admin AdminFacade) *AdminHandler {
	return &AdminHandler{orders: orders, admin: admin}
}

// Create handles POST /api/admin/orders. Orders entered here carry the operator prefix.
func (h *AdminHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, err)
		return
	}

	order, err := h.orders.PlaceOrder(c.Request.Context(), CurrentIdentity(c), toCreateInput(req, model.SourceOperator))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrder(*order))
}

// List handles GET /api/admin/orders.
func (h *AdminHandler) List(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(c, fieldError("limit", "must be a positive integer"))
			return
		}
		limit = n
	}

	orders, err := h.admin.ActiveOrders(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, toOrder(o))
	}
	c.JSON(http.StatusOK, resp)
}

// Get handles GET /api/admin/orders/:id.
func (h *AdminHandler) Get(c *gin.Context) {
	order, err := h.admin.Order(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrder(*order))
}

// ChangeStatus handles PATCH /api/admin/orders/:id/status.
func (h *AdminHandler) ChangeStatus(c *gin.Context) {
	caller := CurrentIdentity(c)
	if caller == nil {
		writeError(c, domainErrors.ErrInvalidCredentials)
		return
	}

	var req dto.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, err)
		return
	}
	if req.Status == "" {
		writeError(c, fieldError("status", "is required"))
		return
	}

	order, err := h.admin.ChangeStatus(c.Request.Context(), *caller, c.Param("id"), model.OrderStatus(req.Status), req.Comment)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrder(*order))
}

// Delete handles DELETE /api/admin/orders/:id.
func (h *AdminHandler) Delete(c *gin.Context) {
	if err := h.admin.DeleteOrder(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
