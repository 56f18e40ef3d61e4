package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/orderdesk/internal/config"
	"github.com/polkiloo/orderdesk/internal/delivery"
	"github.com/polkiloo/orderdesk/internal/domain/model"
	"github.com/polkiloo/orderdesk/internal/domain/repository"
	"github.com/polkiloo/orderdesk/internal/lifecycle"
	"github.com/polkiloo/orderdesk/internal/pricing"
)

// Module provides core business use cases to the fx container.
var Module = fx.Options(
	fx.Provide(
		newCalculator,
		newEngine,
		newMachine,
		NewSequenceAllocator,
		NewAuthUseCase,
		newOrderUseCase,
		NewStatusUseCase,
	),
)

type calculatorParams struct {
	fx.In

	Config   *config.Config
	Geocoder delivery.Geocoder
}

func newCalculator(p calculatorParams) *delivery.Calculator {
	origin := model.Coordinates{Lat: p.Config.RestaurantLat, Lon: p.Config.RestaurantLon}
	policy := delivery.Policy{
		FreeRadiusKm: p.Config.Delivery.FreeRadiusKm,
		BaseCost:     p.Config.Delivery.BaseCost,
		PerKmRate:    p.Config.Delivery.PerKmRate,
		MaxCost:      p.Config.Delivery.MaxCost,
	}
	return delivery.NewCalculator(p.Geocoder, origin, policy)
}

func newEngine(cfg *config.Config, calculator *delivery.Calculator) *pricing.Engine {
	var promos []pricing.Promotion
	if cfg.PromoCode != "" && cfg.PromoThreshold > 0 {
		promos = append(promos, pricing.ThresholdPromotion{PromoCode: cfg.PromoCode, Threshold: cfg.PromoThreshold})
	}
	return pricing.NewEngine(calculator, cfg.PickupDiscountRate, promos...)
}

func newMachine(cfg *config.Config) *lifecycle.Machine {
	return lifecycle.NewMachine(cfg.StrictTransitions)
}

type orderParams struct {
	fx.In

	Config     *config.Config
	Logger     *slog.Logger
	Orders     repository.OrderRepository
	Accounts   repository.AccountRepository
	UnitOfWork repository.UnitOfWork
	Allocator  *SequenceAllocator
	Catalog    Catalog
	Engine     *pricing.Engine
	Calculator *delivery.Calculator
	Machine    *lifecycle.Machine
	Notifier   Notifier
	Observer   Observer
}

func newOrderUseCase(p orderParams) *OrderUseCase {
	return NewOrderUseCase(OrderDeps{
		Orders:     p.Orders,
		Accounts:   p.Accounts,
		UnitOfWork: p.UnitOfWork,
		Allocator:  p.Allocator,
		Catalog:    p.Catalog,
		Engine:     p.Engine,
		Calculator: p.Calculator,
		Machine:    p.Machine,
		Notifier:   p.Notifier,
		Observer:   p.Observer,
		Logger:     p.Logger,
		Settings: OrderSettings{
			Prefixes: Prefixes{
				Delivery: p.Config.Prefixes.Delivery,
				Pickup:   p.Config.Prefixes.Pickup,
				Operator: p.Config.Prefixes.Operator,
			},
			AllocationRetries:  p.Config.AllocationRetries,
			CatalogConcurrency: p.Config.CatalogConcurrency,
			PickupLocation:     p.Config.PickupLocation,
		},
	})
}
