package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/orderdesk/internal/domain/model"
	"github.com/polkiloo/orderdesk/internal/server/http/dto"
	"github.com/polkiloo/orderdesk/internal/server/http/middleware"
	"github.com/polkiloo/orderdesk/internal/usecase"
)

// CurrentIdentity returns the authenticated caller or nil for anonymous requests.
func CurrentIdentity(c *gin.Context) *model.Identity {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		return nil
	}
	return &identity
}

func toCreateInput(req dto.CreateOrderRequest, source model.OrderSource) usecase.CreateOrderInput {
	items := make([]usecase.ItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, usecase.ItemInput{ProductID: it.ProductID, Quantity: it.Quantity, Price: it.Price})
	}
	return usecase.CreateOrderInput{
		Customer: usecase.CustomerInput{Name: req.Customer.Name, Phone: req.Customer.Phone},
		Items:    items,
		Fulfillment: usecase.FulfillmentInput{
			Type:           model.FulfillmentType(req.Fulfillment.Type),
			Address:        req.Fulfillment.Address,
			PickupLocation: req.Fulfillment.PickupLocation,
		},
		Payment:      usecase.PaymentInput{Method: model.PaymentMethod(req.Payment.Method)},
		CutleryCount: req.CutleryCount,
		Comment:      req.Comment,
		Source:       source,
	}
}

func toPricing(p model.Pricing) dto.PricingResponse {
	promos := p.AppliedPromos
	if promos == nil {
		promos = []string{}
	}
	return dto.PricingResponse{
		ProductsTotal:  p.ProductsTotal,
		DeliveryCost:   p.DeliveryCost,
		PickupDiscount: p.PickupDiscount,
		FinalTotal:     p.FinalTotal,
		AppliedPromos:  promos,
	}
}

func toItems(items []model.LineItem) []dto.ItemResponse {
	resp := make([]dto.ItemResponse, 0, len(items))
	for _, it := range items {
		resp = append(resp, dto.ItemResponse{
			ProductID: it.ProductID,
			Title:     it.Title,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
			Weight:    it.Weight,
			ImageURL:  it.ImageURL,
		})
	}
	return resp
}

func toCreated(o *model.Order) dto.CreatedOrderResponse {
	return dto.CreatedOrderResponse{
		OrderID:     o.ID,
		OrderNumber: o.Number,
		Status:      string(o.Status),
		Pricing:     toPricing(o.Pricing),
		CreatedAt:   o.CreatedAt,
	}
}

func toSummary(o model.Order) dto.OrderSummaryResponse {
	return dto.OrderSummaryResponse{
		OrderNumber:   o.Number,
		Status:        string(o.Status),
		Fulfillment:   string(o.Fulfillment.Type),
		PaymentStatus: string(o.Payment.Status),
		Items:         toItems(o.Items),
		Pricing:       toPricing(o.Pricing),
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func toOrder(o model.Order) dto.OrderResponse {
	resp := dto.OrderResponse{
		ID:          o.ID,
		OrderNumber: o.Number,
		Source:      string(o.Source),
		Status:      string(o.Status),
		Customer: dto.CustomerResponse{
			Name:      o.Customer.Name,
			Phone:     o.Customer.Phone,
			AccountID: o.Customer.AccountID,
		},
		Items: toItems(o.Items),
		Fulfillment: dto.FulfillmentResponse{
			Type:           string(o.Fulfillment.Type),
			Address:        o.Fulfillment.Address,
			DistanceKm:     o.Fulfillment.DistanceKm,
			PickupLocation: o.Fulfillment.PickupLocation,
		},
		Payment: dto.PaymentResponse{
			Method: string(o.Payment.Method),
			Status: string(o.Payment.Status),
			PaidAt: o.Payment.PaidAt,
		},
		Pricing:       toPricing(o.Pricing),
		CutleryCount:  o.CutleryCount,
		Comment:       o.Comment,
		StatusHistory: make([]dto.StatusEntryResponse, 0, len(o.StatusHistory)),
		ConfirmedAt:   o.ConfirmedAt,
		CompletedAt:   o.CompletedAt,
		CancelledAt:   o.CancelledAt,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
	if c := o.Fulfillment.Coordinates; c != nil {
		lat, lon := c.Lat, c.Lon
		resp.Fulfillment.Lat, resp.Fulfillment.Lon = &lat, &lon
	}
	if op := o.Operator; op != nil {
		resp.Operator = &dto.OperatorResponse{ID: op.ID, Name: op.Name, ConfirmedAt: op.ConfirmedAt}
	}
	for _, e := range o.StatusHistory {
		entry := dto.StatusEntryResponse{Status: string(e.Status), At: e.At, Comment: e.Comment}
		if a := e.Actor; a != nil {
			id := a.ID
			entry.ActorID, entry.ActorName, entry.ActorRole = &id, a.Name, string(a.Role)
		}
		resp.StatusHistory = append(resp.StatusHistory, entry)
	}
	return resp
}
