package pricing

// Promotion is a predicate over the products total that yields a promo code.
type Promotion interface {
	Code() string
	Applies(productsTotal int64) bool
}

// ThresholdPromotion applies once the products total reaches Threshold.
type ThresholdPromotion struct {
	PromoCode string
	Threshold int64
}

func (p ThresholdPromotion) Code() string {
	return p.PromoCode
}

func (p ThresholdPromotion) Applies(productsTotal int64) bool {
	return p.Threshold > 0 && productsTotal >= p.Threshold
}
