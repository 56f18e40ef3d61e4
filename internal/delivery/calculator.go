package delivery

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
	"github.com/polkiloo/orderdesk/internal/domain/model"
)

// Geocoder resolves free-form addresses into coordinates.
type Geocoder interface {
	ResolveAddress(ctx context.Context, address string) (model.Coordinates, error)
}

// Quote is the priced result of a delivery address lookup.
type Quote struct {
	Coordinates model.Coordinates
	DistanceKm  float64
	Cost        int64
}

// Calculator prices delivery from the restaurant origin.
type Calculator struct {
	geocoder Geocoder
	origin   model.Coordinates
	policy   Policy
}

// NewCalculator constructs a calculator.
func NewCalculator(geocoder Geocoder, origin model.Coordinates, policy Policy) *Calculator {
	return &Calculator{geocoder: geocoder, origin: origin, policy: policy}
}

// Policy returns the active tariff.
func (c *Calculator) Policy() Policy {
	return c.policy
}

// Quote resolves address and prices delivery to it.
func (c *Calculator) Quote(ctx context.Context, address string) (*Quote, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, domainErrors.ErrAddressNotFound
	}

	coords, err := c.geocoder.ResolveAddress(ctx, address)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrNotFound):
			return nil, domainErrors.ErrAddressNotFound
		case errors.Is(err, domainErrors.ErrDependency):
			return nil, err
		default:
			return nil, fmt.Errorf("%w: geocoder: %v", domainErrors.ErrDependencyUnavailable, err)
		}
	}

	return c.QuoteCoordinates(coords), nil
}

// QuoteCoordinates prices delivery to already resolved coordinates.
func (c *Calculator) QuoteCoordinates(coords model.Coordinates) *Quote {
	distance := DistanceKm(c.origin, coords)
	return &Quote{
		Coordinates: coords,
		DistanceKm:  distance,
		Cost:        c.policy.Cost(distance),
	}
}
