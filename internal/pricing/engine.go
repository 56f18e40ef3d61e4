package pricing

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/orderdesk/internal/delivery"
	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
	"github.com/polkiloo/orderdesk/internal/domain/model"
)

// Quoter prices delivery to an address.
type Quoter interface {
	Quote(ctx context.Context, address string) (*delivery.Quote, error)
}

// Engine computes order totals for both fulfillment branches.
type Engine struct {
	quoter       Quoter
	discountRate decimal.Decimal
	promotions   []Promotion
}

// NewEngine constructs an engine. discountRate is the pickup discount share, e.g. 0.10.
func NewEngine(quoter Quoter, discountRate float64, promotions ...Promotion) *Engine {
	return &Engine{
		quoter:       quoter,
		discountRate: decimal.NewFromFloat(discountRate),
		promotions:   promotions,
	}
}

// Compute prices items for the given fulfillment. The delivery quote is nil for pickup.
func (e *Engine) Compute(ctx context.Context, items []model.LineItem, fulfillment model.Fulfillment) (model.Pricing, *delivery.Quote, error) {
	total, err := ProductsTotal(items)
	if err != nil {
		return model.Pricing{}, nil, err
	}

	pricing := model.Pricing{ProductsTotal: total}
	var quote *delivery.Quote

	switch fulfillment.Type {
	case model.FulfillmentDelivery:
		quote, err = e.quoter.Quote(ctx, fulfillment.Address)
		if err != nil {
			return model.Pricing{}, nil, err
		}
		pricing.DeliveryCost = quote.Cost
	case model.FulfillmentPickup:
		pricing.PickupDiscount = e.PickupDiscount(total)
	default:
		return model.Pricing{}, nil, fmt.Errorf("%w: unknown fulfillment type %q", domainErrors.ErrInvalidPricingInput, fulfillment.Type)
	}

	pricing.AppliedPromos = e.Promotions(total)
	pricing.FinalTotal = pricing.ProductsTotal + pricing.DeliveryCost - pricing.PickupDiscount

	if !pricing.Balanced() {
		return model.Pricing{}, nil, fmt.Errorf("%w: final total %d is negative", domainErrors.ErrInvalidPricingInput, pricing.FinalTotal)
	}

	return pricing, quote, nil
}

// PickupDiscount rounds total*rate half away from zero.
func (e *Engine) PickupDiscount(total int64) int64 {
	return decimal.NewFromInt(total).Mul(e.discountRate).Round(0).IntPart()
}

// Promotions returns the codes of every promotion that applies to total.
func (e *Engine) Promotions(total int64) []string {
	codes := make([]string, 0, len(e.promotions))
	for _, p := range e.promotions {
		if p.Applies(total) {
			codes = append(codes, p.Code())
		}
	}
	return codes
}

// ProductsTotal sums line subtotals and rejects non-positive quantities and negative prices.
func ProductsTotal(items []model.LineItem) (int64, error) {
	if len(items) == 0 {
		return 0, fmt.Errorf("%w: no items", domainErrors.ErrInvalidPricingInput)
	}

	var total int64
	for i, item := range items {
		if item.Quantity <= 0 {
			return 0, fmt.Errorf("%w: item %d has quantity %d", domainErrors.ErrInvalidPricingInput, i, item.Quantity)
		}
		if item.UnitPrice < 0 {
			return 0, fmt.Errorf("%w: item %d has negative price", domainErrors.ErrInvalidPricingInput, i)
		}
		total += item.Subtotal()
	}
	return total, nil
}
