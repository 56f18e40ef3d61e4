package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
	"github.com/polkiloo/orderdesk/internal/domain/model"
	"github.com/polkiloo/orderdesk/internal/server/http/dto"
)

// OrderHandler serves customer-facing order endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, err)
		return
	}

	order, err := h.facade.PlaceOrder(c.Request.Context(), CurrentIdentity(c), toCreateInput(req, model.SourceWeb))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCreated(order))
}

// Track handles GET /api/orders/track.
func (h *OrderHandler) Track(c *gin.Context) {
	number := strings.TrimSpace(c.Query("number"))
	phone := strings.TrimSpace(c.Query("phone"))
	if number == "" || phone == "" {
		verr := &domainErrors.ValidationError{}
		if number == "" {
			verr.Add("number", "is required")
		}
		if phone == "" {
			verr.Add("phone", "is required")
		}
		writeError(c, verr)
		return
	}

	order, err := h.facade.TrackOrder(c.Request.Context(), number, phone)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSummary(*order))
}

// Quote handles GET /api/delivery/quote.
func (h *OrderHandler) Quote(c *gin.Context) {
	address := strings.TrimSpace(c.Query("address"))
	if address == "" {
		writeError(c, fieldError("address", "is required"))
		return
	}

	quote, err := h.facade.QuoteDelivery(c.Request.Context(), address)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.QuoteResponse{DistanceKm: quote.DistanceKm, Cost: quote.Cost})
}

// List handles GET /api/user/orders.
func (h *OrderHandler) List(c *gin.Context) {
	caller := CurrentIdentity(c)
	if caller == nil {
		writeError(c, domainErrors.ErrInvalidCredentials)
		return
	}

	orders, err := h.facade.CustomerOrders(c.Request.Context(), caller.AccountID)
	if err != nil {
		writeError(c, err)
		return
	}
	if len(orders) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	resp := make([]dto.OrderSummaryResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, toSummary(o))
	}
	c.JSON(http.StatusOK, resp)
}
