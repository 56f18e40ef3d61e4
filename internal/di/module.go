package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/orderdesk/internal/adapter/catalog"
	"github.com/polkiloo/orderdesk/internal/adapter/geocoder"
	"github.com/polkiloo/orderdesk/internal/adapter/notify"
	"github.com/polkiloo/orderdesk/internal/app"
	"github.com/polkiloo/orderdesk/internal/config"
	"github.com/polkiloo/orderdesk/internal/logger"
	"github.com/polkiloo/orderdesk/internal/metrics"
	"github.com/polkiloo/orderdesk/internal/pkg/auth"
	"github.com/polkiloo/orderdesk/internal/server/http/router"
	"github.com/polkiloo/orderdesk/internal/storage/postgres"
	"github.com/polkiloo/orderdesk/internal/usecase"
)

// Module assembles the application graph. The notification module precedes app so
// the sink closes only after the dispatcher has drained.
func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		catalog.Module,
		geocoder.Module,
		notify.Module,
		metrics.Module,
		usecase.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
