package geocoder

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/polkiloo/orderdesk/internal/adapter/httpapi"
	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
	"github.com/polkiloo/orderdesk/internal/domain/model"
)

type point struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

// HTTPClient resolves addresses through the geocoding service.
type HTTPClient struct {
	api *httpapi.Client
}

// NewHTTPClient creates geocoder client rooted at baseURL.
func NewHTTPClient(baseURL string, timeout time.Duration, logger *slog.Logger) (*HTTPClient, error) {
	api, err := httpapi.New("geocoder", baseURL, timeout, logger)
	if err != nil {
		return nil, err
	}
	return &HTTPClient{api: api}, nil
}

// ResolveAddress returns coordinates of address or ErrNotFound.
func (c *HTTPClient) ResolveAddress(ctx context.Context, address string) (model.Coordinates, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return model.Coordinates{}, domainErrors.ErrNotFound
	}

	var data point
	if err := c.api.GetJSON(ctx, url.Values{"q": {address}}, &data, "api", "geocode"); err != nil {
		return model.Coordinates{}, err
	}
	if data.Lat == nil || data.Lon == nil {
		return model.Coordinates{}, domainErrors.ErrNotFound
	}
	if *data.Lat < -90 || *data.Lat > 90 || *data.Lon < -180 || *data.Lon > 180 {
		return model.Coordinates{}, fmt.Errorf("%w: geocoder: coordinates out of range", domainErrors.ErrDependencyUnavailable)
	}
	return model.Coordinates{Lat: *data.Lat, Lon: *data.Lon}, nil
}
