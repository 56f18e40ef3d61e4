package router

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/orderdesk/internal/metrics"
	"github.com/polkiloo/orderdesk/internal/server/http/handlers"
)

// Module registers HTTP router construction for fx runtime.
var Module = fx.Provide(newRouter)

type routerParams struct {
	fx.In

	Facade  handlers.OrderDeskFacade
	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

func newRouter(p routerParams) *gin.Engine {
	return Setup(p.Facade, p.Logger, p.Metrics)
}
