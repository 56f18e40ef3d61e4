package catalog

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/orderdesk/internal/config"
	"github.com/polkiloo/orderdesk/internal/usecase"
)

// Module exposes the catalog client to fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (usecase.Catalog, error) {
	return NewHTTPClient(p.Config.CatalogAddress, p.Config.DependencyTimeout, p.Logger)
}
