package delivery

import "github.com/shopspring/decimal"

// Policy holds the constants of the delivery cost formula.
type Policy struct {
	FreeRadiusKm float64
	BaseCost     float64
	PerKmRate    float64
	// MaxCost caps the result; zero disables the cap.
	MaxCost float64
}

// DefaultPolicy returns the stock tariff: free within 2 km, 100 + 25 per km, capped at 500.
func DefaultPolicy() Policy {
	return Policy{FreeRadiusKm: 2, BaseCost: 100, PerKmRate: 25, MaxCost: 500}
}

// Cost returns the delivery cost for distanceKm rounded half away from zero.
func (p Policy) Cost(distanceKm float64) int64 {
	if distanceKm <= p.FreeRadiusKm {
		return 0
	}

	cost := decimal.NewFromFloat(p.BaseCost).
		Add(decimal.NewFromFloat(distanceKm).Mul(decimal.NewFromFloat(p.PerKmRate))).
		Round(0)

	if p.MaxCost > 0 {
		limit := decimal.NewFromFloat(p.MaxCost).Round(0)
		if cost.GreaterThan(limit) {
			cost = limit
		}
	}

	return cost.IntPart()
}
