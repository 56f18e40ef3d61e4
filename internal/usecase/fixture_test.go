package usecase

import (
	"io"
	"log/slog"
	"time"

	"github.com/polkiloo/orderdesk/internal/delivery"
	"github.com/polkiloo/orderdesk/internal/domain/model"
	"github.com/polkiloo/orderdesk/internal/lifecycle"
	"github.com/polkiloo/orderdesk/internal/pricing"
	testhelpers "github.com/polkiloo/orderdesk/internal/test"
)

var (
	restaurant = model.Coordinates{Lat: 47.2260, Lon: 39.6861}
	fixedNow   = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
)

const (
	nearAddress = "Bolshaya Sadovaya 1"
	farAddress  = "Pushkinskaya 200"
)

type fixture struct {
	orders    *testhelpers.OrderRepositoryStub
	accounts  *testhelpers.AccountRepositoryStub
	sequences *testhelpers.SequenceRepositoryStub
	uow       *testhelpers.UnitOfWorkStub
	catalog   *testhelpers.CatalogStub
	notifier  *testhelpers.NotifierStub
	observer  *testhelpers.ObserverStub
	machine   *lifecycle.Machine
	uc        *OrderUseCase
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newFixture() *fixture {
	f := &fixture{
		orders:    testhelpers.NewOrderRepositoryStub(),
		accounts:  testhelpers.NewAccountRepositoryStub(),
		sequences: testhelpers.NewSequenceRepositoryStub(),
		uow:       &testhelpers.UnitOfWorkStub{},
		catalog: &testhelpers.CatalogStub{Products: map[string]model.Product{
			"pizza":  {ID: "pizza", Title: "Margherita", Price: 600, IsAvailable: true, WeightLabel: "450 g"},
			"soup":   {ID: "soup", Title: "Borscht", Price: 400, IsAvailable: true},
			"cake":   {ID: "cake", Title: "Napoleon", Price: 300, IsAvailable: false},
			"combo":  {ID: "combo", Title: "Family combo", Price: 2000, IsAvailable: true},
			"coffee": {ID: "coffee", Title: "Latte", Price: 150, IsAvailable: true},
		}},
		notifier: &testhelpers.NotifierStub{},
		observer: &testhelpers.ObserverStub{},
		machine:  lifecycle.NewMachine(true),
	}

	geocoder := testhelpers.GeocoderStub{Points: map[string]model.Coordinates{
		nearAddress: {Lat: 47.2300, Lon: 39.6861},
		farAddress:  {Lat: 47.2566, Lon: 39.6861},
	}}
	calculator := delivery.NewCalculator(geocoder, restaurant, delivery.DefaultPolicy())
	engine := pricing.NewEngine(calculator, 0.10, pricing.ThresholdPromotion{PromoCode: "FREE_DESSERT", Threshold: 3000})

	f.uc = NewOrderUseCase(OrderDeps{
		Orders:     f.orders,
		Accounts:   f.accounts,
		UnitOfWork: f.uow,
		Allocator:  NewSequenceAllocator(f.sequences),
		Catalog:    f.catalog,
		Engine:     engine,
		Calculator: calculator,
		Machine:    f.machine,
		Notifier:   f.notifier,
		Observer:   f.observer,
		Logger:     discardLogger(),
		Settings: OrderSettings{
			Prefixes:           Prefixes{Delivery: "D", Pickup: "P", Operator: "O"},
			AllocationRetries:  3,
			CatalogConcurrency: 4,
			PickupLocation:     "main hall",
		},
	})
	f.uc.now = func() time.Time { return fixedNow }
	return f
}

func pickupInput(items ...ItemInput) CreateOrderInput {
	return CreateOrderInput{
		Customer:    CustomerInput{Name: "Anna", Phone: "8 (900) 123-45-67"},
		Items:       items,
		Fulfillment: FulfillmentInput{Type: model.FulfillmentPickup},
		Payment:     PaymentInput{Method: model.PaymentCash},
	}
}

func deliveryInput(address string, items ...ItemInput) CreateOrderInput {
	in := pickupInput(items...)
	in.Fulfillment = FulfillmentInput{Type: model.FulfillmentDelivery, Address: address}
	return in
}

func item(id string, qty int) ItemInput {
	return ItemInput{ProductID: id, Quantity: qty}
}
