package di

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/orderdesk/internal/adapter/notify"
	"github.com/polkiloo/orderdesk/internal/config"
	"github.com/polkiloo/orderdesk/internal/domain/model"
	"github.com/polkiloo/orderdesk/internal/domain/repository"
	"github.com/polkiloo/orderdesk/internal/server/http/handlers"
	"github.com/polkiloo/orderdesk/internal/storage/postgres"
	"github.com/polkiloo/orderdesk/internal/test"
	"github.com/polkiloo/orderdesk/internal/usecase"
)

func testConfig() *config.Config {
	return &config.Config{
		RunAddress:         ":0",
		DatabaseURI:        "postgres://stub",
		CatalogAddress:     "http://catalog.local",
		GeocoderAddress:    "http://geocoder.local",
		JWTSecret:          "secret",
		LogLevel:           "info",
		NotifyWorkers:      1,
		NotifyQueueSize:    4,
		DependencyTimeout:  time.Second,
		ShutdownTimeout:    time.Millisecond,
		RestaurantLat:      47.2260,
		RestaurantLon:      39.6861,
		PickupDiscountRate: 0.1,
		StrictTransitions:  true,
		AllocationRetries:  3,
		CatalogConcurrency: 2,
		Prefixes:           config.Prefixes{Delivery: "D", Pickup: "P", Operator: "O"},
	}
}

func TestModuleComposesGraphWithReplacements(t *testing.T) {
	cfg := testConfig()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	var (
		facade handlers.OrderDeskFacade
		engine *gin.Engine
		sink   notify.Sink
		orders *usecase.OrderUseCase
	)
	fxApp := fx.New(
		fx.NopLogger,
		fx.Supply(context.Background()),
		Module(
			fx.Replace(cfg),
			fx.Replace(logger),
			fx.Replace(&postgres.Storage{}),
			fx.Replace(repository.AccountRepository(test.NewAccountRepositoryStub())),
			fx.Replace(repository.OrderRepository(test.NewOrderRepositoryStub())),
			fx.Replace(repository.SequenceRepository(test.NewSequenceRepositoryStub())),
			fx.Replace(repository.UnitOfWork(&test.UnitOfWorkStub{})),
		),
		fx.Populate(&facade, &engine, &sink, &orders),
	)

	if err := fxApp.Err(); err != nil {
		t.Fatalf("fx app returned error: %v", err)
	}
	if facade == nil || engine == nil || orders == nil {
		t.Fatal("expected facade, router and order use case")
	}
	if _, ok := sink.(*notify.LogSink); !ok {
		t.Fatalf("expected log sink without brokers, got %T", sink)
	}
}

func TestModuleBootstrapsAdminOnStart(t *testing.T) {
	cfg := testConfig()
	cfg.RunAddress = "127.0.0.1:0"
	cfg.AdminLogin = "root"
	cfg.AdminPassword = "toor"
	accounts := test.NewAccountRepositoryStub()

	fxApp := fx.New(
		fx.NopLogger,
		fx.Supply(context.Background()),
		Module(
			fx.Replace(cfg),
			fx.Replace(slog.New(slog.NewJSONHandler(io.Discard, nil))),
			fx.Replace(&postgres.Storage{}),
			fx.Replace(repository.AccountRepository(accounts)),
			fx.Replace(repository.OrderRepository(test.NewOrderRepositoryStub())),
			fx.Replace(repository.SequenceRepository(test.NewSequenceRepositoryStub())),
			fx.Replace(repository.UnitOfWork(&test.UnitOfWorkStub{})),
		),
	)
	if err := fxApp.Err(); err != nil {
		t.Fatalf("fx app returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := fxApp.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	account, err := accounts.GetByLogin(ctx, "root")
	if stopErr := fxApp.Stop(ctx); stopErr != nil {
		t.Fatalf("stop: %v", stopErr)
	}
	if err != nil {
		t.Fatalf("admin account was not created: %v", err)
	}
	if account.Role != model.RoleAdmin {
		t.Fatalf("unexpected role %q", account.Role)
	}
}
