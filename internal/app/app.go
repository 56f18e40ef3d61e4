package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/orderdesk/internal/config"
	"github.com/polkiloo/orderdesk/internal/server/http/handlers"
	"github.com/polkiloo/orderdesk/internal/storage/postgres"
	"github.com/polkiloo/orderdesk/internal/usecase"
	"github.com/polkiloo/orderdesk/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		newOrderDesk,
		func(f *OrderDesk) handlers.OrderDeskFacade { return f },
		newHTTPServer,
		newDispatcher,
		func(d *worker.Dispatcher) usecase.Notifier { return d },
	),
	fx.Invoke(registerAdminBootstrap, registerLifecycle),
)

type facadeParams struct {
	fx.In

	Auth    *usecase.AuthUseCase
	Orders  *usecase.OrderUseCase
	Status  *usecase.StatusUseCase
	Storage *postgres.Storage
}

func newOrderDesk(p facadeParams) *OrderDesk {
	return NewOrderDesk(p.Auth, p.Orders, p.Status, p.Storage)
}

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type dispatcherParams struct {
	fx.In

	Sink   worker.Sink
	Config *config.Config
	Logger *slog.Logger
}

func newDispatcher(p dispatcherParams) *worker.Dispatcher {
	return worker.NewDispatcher(
		p.Sink,
		p.Config.NotifyWorkers,
		p.Config.NotifyQueueSize,
		p.Config.DependencyTimeout,
		p.Logger,
	)
}

type bootstrapParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Auth      *usecase.AuthUseCase
	Logger    *slog.Logger
}

// registerAdminBootstrap creates the configured admin account before the server accepts requests.
func registerAdminBootstrap(p bootstrapParams) {
	if p.Config.AdminLogin == "" {
		return
	}
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			created, err := p.Auth.EnsureAdmin(ctx, p.Config.AdminLogin, p.Config.AdminPassword)
			if err != nil {
				return fmt.Errorf("bootstrap admin account: %w", err)
			}
			if created {
				p.Logger.Info("admin account created", slog.String("login", p.Config.AdminLogin))
			}
			return nil
		},
	})
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Dispatcher *worker.Dispatcher
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting orderdesk", slog.String("addr", p.Server.Addr))
			p.Dispatcher.Start()
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			err := p.Server.Shutdown(shutdownCtx)
			// Drain requests before the queue so accepted orders still get notified.
			p.Dispatcher.Stop()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("orderdesk stopped", slog.Int64("dropped_notifications", p.Dispatcher.Dropped()))
			return nil
		},
	})
}
