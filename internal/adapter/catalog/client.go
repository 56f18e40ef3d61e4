package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/polkiloo/orderdesk/internal/adapter/httpapi"
	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
	"github.com/polkiloo/orderdesk/internal/domain/model"
)

// product mirrors the catalog JSON payload.
type product struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Price       int64  `json:"price"`
	IsAvailable bool   `json:"is_available"`
	ImageURL    string `json:"image_url,omitempty"`
	Weight      string `json:"weight,omitempty"`
}

// HTTPClient reads products from the catalog service.
type HTTPClient struct {
	api *httpapi.Client
}

// NewHTTPClient creates catalog client rooted at baseURL.
func NewHTTPClient(baseURL string, timeout time.Duration, logger *slog.Logger) (*HTTPClient, error) {
	api, err := httpapi.New("catalog", baseURL, timeout, logger)
	if err != nil {
		return nil, err
	}
	return &HTTPClient{api: api}, nil
}

// GetProduct fetches product id. Unknown products yield ErrNotFound.
func (c *HTTPClient) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" || strings.Contains(id, "/") {
		return nil, domainErrors.ErrNotFound
	}

	var data product
	if err := c.api.GetJSON(ctx, nil, &data, "api", "products", id); err != nil {
		return nil, err
	}
	if data.Price < 0 {
		return nil, fmt.Errorf("%w: catalog: negative price for %s", domainErrors.ErrDependencyUnavailable, id)
	}
	if data.ID == "" {
		data.ID = id
	}

	return &model.Product{
		ID:          data.ID,
		Title:       data.Title,
		Price:       data.Price,
		IsAvailable: data.IsAvailable,
		ImageURL:    data.ImageURL,
		WeightLabel: data.Weight,
	}, nil
}
