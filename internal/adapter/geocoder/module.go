package geocoder

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/orderdesk/internal/config"
	"github.com/polkiloo/orderdesk/internal/delivery"
)

// Module exposes the geocoder client to fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (delivery.Geocoder, error) {
	return NewHTTPClient(p.Config.GeocoderAddress, p.Config.DependencyTimeout, p.Logger)
}
