package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/polkiloo/orderdesk/internal/delivery"
	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
	"github.com/polkiloo/orderdesk/internal/domain/model"
	"github.com/polkiloo/orderdesk/internal/domain/repository"
	"github.com/polkiloo/orderdesk/internal/lifecycle"
	"github.com/polkiloo/orderdesk/internal/pricing"
)

const defaultActiveLimit = 100

// Catalog answers product lookups by id.
type Catalog interface {
	GetProduct(ctx context.Context, id string) (*model.Product, error)
}

// Notifier hands a created order to operators. It must not block.
type Notifier interface {
	Notify(order model.Order)
}

// Observer receives order events for instrumentation.
type Observer interface {
	OrderCreated(order model.Order)
	StatusChanged(from, to model.OrderStatus)
	AllocationConflict(prefix string)
}

// Prefixes maps order origins to number prefixes.
type Prefixes struct {
	Delivery string
	Pickup   string
	Operator string
}

// OrderSettings tunes the intake flow.
type OrderSettings struct {
	Prefixes           Prefixes
	AllocationRetries  int
	CatalogConcurrency int
	PickupLocation     string
}

// CustomerInput identifies who places the order.
type CustomerInput struct {
	Name  string
	Phone string
}

// ItemInput references a catalog product. Price is optional and only checked against the catalog.
type ItemInput struct {
	ProductID string
	Quantity  int
	Price     *int64
}

// FulfillmentInput selects delivery or pickup.
type FulfillmentInput struct {
	Type           model.FulfillmentType
	Address        string
	PickupLocation string
}

// PaymentInput selects the payment method.
type PaymentInput struct {
	Method model.PaymentMethod
}

// CreateOrderInput is the validated request to place an order.
type CreateOrderInput struct {
	Customer     CustomerInput
	Items        []ItemInput
	Fulfillment  FulfillmentInput
	Payment      PaymentInput
	CutleryCount int
	Comment      string
	Source       model.OrderSource
}

// OrderUseCase orchestrates order intake and read access.
type OrderUseCase struct {
	orders     repository.OrderRepository
	accounts   repository.AccountRepository
	uow        repository.UnitOfWork
	allocator  *SequenceAllocator
	catalog    Catalog
	engine     *pricing.Engine
	calculator *delivery.Calculator
	machine    *lifecycle.Machine
	notifier   Notifier
	observer   Observer
	logger     *slog.Logger
	settings   OrderSettings
	now        func() time.Time
}

// OrderDeps groups OrderUseCase collaborators.
type OrderDeps struct {
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
	Logger     *slog.Logger
	Settings   OrderSettings
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(d OrderDeps) *OrderUseCase {
	settings := d.Settings
	if settings.AllocationRetries <= 0 {
		settings.AllocationRetries = 1
	}
	if settings.CatalogConcurrency <= 0 {
		settings.CatalogConcurrency = 1
	}

	observer := d.Observer
	if observer == nil {
		observer = noopObserver{}
	}

	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &OrderUseCase{
		orders:     d.Orders,
		accounts:   d.Accounts,
		uow:        d.UnitOfWork,
		allocator:  d.Allocator,
		catalog:    d.Catalog,
		engine:     d.Engine,
		calculator: d.Calculator,
		machine:    d.Machine,
		notifier:   d.Notifier,
		observer:   observer,
		logger:     logger,
		settings:   settings,
		now:        time.Now,
	}
}

// Create validates, prices, numbers and persists a new order.
func (u *OrderUseCase) Create(ctx context.Context, in CreateOrderInput, actor *model.Actor) (*model.Order, error) {
	if in.Source == "" {
		in.Source = model.SourceWeb
	}
	if err := validateCreateInput(in); err != nil {
		return nil, err
	}

	items, err := u.resolveItems(ctx, in.Items)
	if err != nil {
		return nil, err
	}

	fulfillment := model.Fulfillment{Type: in.Fulfillment.Type}
	switch in.Fulfillment.Type {
	case model.FulfillmentDelivery:
		fulfillment.Address = strings.TrimSpace(in.Fulfillment.Address)
	case model.FulfillmentPickup:
		fulfillment.PickupLocation = strings.TrimSpace(in.Fulfillment.PickupLocation)
		if fulfillment.PickupLocation == "" {
			fulfillment.PickupLocation = u.settings.PickupLocation
		}
	}

	totals, quote, err := u.engine.Compute(ctx, items, fulfillment)
	if err != nil {
		return nil, err
	}
	if quote != nil {
		coords := quote.Coordinates
		fulfillment.Coordinates = &coords
		fulfillment.DistanceKm = quote.DistanceKm
	}

	phone, _ := NormalizePhone(in.Customer.Phone)
	order := &model.Order{
		ID:           uuid.NewString(),
		Prefix:       u.prefixFor(in.Source, in.Fulfillment.Type),
		Source:       in.Source,
		Customer:     model.Customer{Name: strings.TrimSpace(in.Customer.Name), Phone: phone},
		Items:        items,
		Fulfillment:  fulfillment,
		Payment:      model.Payment{Method: in.Payment.Method},
		Pricing:      totals,
		CutleryCount: in.CutleryCount,
		Comment:      strings.TrimSpace(in.Comment),
	}
	if actor != nil && actor.Role == model.RoleCustomer {
		id := actor.ID
		order.Customer.AccountID = &id
	}

	u.machine.Start(order, actor, u.now().UTC())

	if err := u.persist(ctx, order); err != nil {
		return nil, err
	}

	u.logger.Info("order created",
		slog.String("order_id", order.ID),
		slog.String("number", order.Number),
		slog.String("status", string(order.Status)),
		slog.Int64("final_total", order.Pricing.FinalTotal),
	)
	u.observer.OrderCreated(*order)

	if id := order.Customer.AccountID; id != nil {
		if err := u.accounts.AddOrderStats(ctx, *id, order.Pricing.FinalTotal); err != nil {
			u.logger.Warn("update account stats", slog.Int64("account_id", *id), slog.String("order_id", order.ID), slog.Any("error", err))
		}
	}

	if u.notifier != nil {
		u.notifier.Notify(*order)
	}

	return order, nil
}

func (u *OrderUseCase) persist(ctx context.Context, order *model.Order) error {
	var err error
	for attempt := 1; attempt <= u.settings.AllocationRetries; attempt++ {
		err = u.uow.RunInTx(ctx, func(ctx context.Context) error {
			number, seq, err := u.allocator.Allocate(ctx, order.Prefix)
			if err != nil {
				return err
			}
			order.Number, order.Sequence = number, seq
			return u.orders.Create(ctx, order)
		})
		if err == nil {
			return nil
		}
		if !errors.Is(err, domainErrors.ErrOrderNumberConflict) {
			return err
		}
		u.observer.AllocationConflict(order.Prefix)
		u.logger.Warn("order number conflict, retrying",
			slog.String("prefix", order.Prefix),
			slog.String("number", order.Number),
			slog.Int("attempt", attempt),
		)
	}
	order.Number, order.Sequence = "", 0
	return fmt.Errorf("allocate order number after %d attempts: %w", u.settings.AllocationRetries, err)
}

func (u *OrderUseCase) resolveItems(ctx context.Context, inputs []ItemInput) ([]model.LineItem, error) {
	items := make([]model.LineItem, len(inputs))
	errs := make([]error, len(inputs))

	// lowest index of a failed lookup; items after it are not looked up
	var failed atomic.Int64
	failed.Store(int64(len(inputs)))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.settings.CatalogConcurrency)
	for i, in := range inputs {
		g.Go(func() error {
			if failed.Load() < int64(i) {
				return nil
			}
			item, err := u.resolveItem(gctx, in)
			if err != nil {
				errs[i] = err
				for {
					cur := failed.Load()
					if int64(i) >= cur || failed.CompareAndSwap(cur, int64(i)) {
						break
					}
				}
				return err
			}
			items[i] = item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, firstItemError(errs, err)
	}
	return items, nil
}

// firstItemError picks the error of the earliest item, preferring real failures
// over lookups cut short by another item's failure.
func firstItemError(errs []error, fallback error) error {
	var cancelled error
	for _, err := range errs {
		switch {
		case err == nil:
		case errors.Is(err, context.Canceled):
			if cancelled == nil {
				cancelled = err
			}
		default:
			return err
		}
	}
	if cancelled != nil {
		return cancelled
	}
	return fallback
}

func (u *OrderUseCase) resolveItem(ctx context.Context, in ItemInput) (model.LineItem, error) {
	id := strings.TrimSpace(in.ProductID)
	product, err := u.catalog.GetProduct(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrNotFound):
			return model.LineItem{}, fmt.Errorf("%w: %s", domainErrors.ErrProductNotFound, id)
		case errors.Is(err, domainErrors.ErrDependency):
			return model.LineItem{}, err
		default:
			return model.LineItem{}, fmt.Errorf("%w: catalog: %w", domainErrors.ErrDependencyUnavailable, err)
		}
	}
	if !product.IsAvailable {
		return model.LineItem{}, fmt.Errorf("%w: %s", domainErrors.ErrProductUnavailable, id)
	}
	if in.Price != nil && *in.Price != product.Price {
		return model.LineItem{}, fmt.Errorf("%w: price of %s changed to %d", domainErrors.ErrInvalidPricingInput, id, product.Price)
	}

	return model.LineItem{
		ProductID: id,
		Title:     product.Title,
		UnitPrice: product.Price,
		Quantity:  in.Quantity,
		Weight:    product.WeightLabel,
		ImageURL:  product.ImageURL,
	}, nil
}

func (u *OrderUseCase) prefixFor(source model.OrderSource, ft model.FulfillmentType) string {
	switch {
	case source == model.SourceOperator:
		return u.settings.Prefixes.Operator
	case ft == model.FulfillmentPickup:
		return u.settings.Prefixes.Pickup
	default:
		return u.settings.Prefixes.Delivery
	}
}

// Get returns an order by id.
func (u *OrderUseCase) Get(ctx context.Context, id string) (*model.Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domainErrors.ErrOrderNotFound
	}
	return u.orders.GetByID(ctx, id)
}

// Track returns the order with number when phone matches the customer phone.
func (u *OrderUseCase) Track(ctx context.Context, number, phone string) (*model.Order, error) {
	number = strings.ToUpper(strings.TrimSpace(number))
	if number == "" {
		return nil, domainErrors.ErrOrderNotFound
	}

	order, err := u.orders.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if !SamePhone(order.Customer.Phone, phone) {
		return nil, domainErrors.ErrOrderNotFound
	}
	return order, nil
}

// ListByAccount returns orders placed by a customer account, newest first.
func (u *OrderUseCase) ListByAccount(ctx context.Context, accountID int64) ([]model.Order, error) {
	return u.orders.ListByAccount(ctx, accountID)
}

// ListActive returns non-terminal orders for the operator board.
func (u *OrderUseCase) ListActive(ctx context.Context, limit int) ([]model.Order, error) {
	if limit <= 0 {
		limit = defaultActiveLimit
	}
	return u.orders.ListActive(ctx, limit)
}

// Quote previews the delivery cost for address.
func (u *OrderUseCase) Quote(ctx context.Context, address string) (*delivery.Quote, error) {
	return u.calculator.Quote(ctx, address)
}

type noopObserver struct{}

func (noopObserver) OrderCreated(model.Order)                           {}
func (noopObserver) StatusChanged(model.OrderStatus, model.OrderStatus) {}
func (noopObserver) AllocationConflict(string)                          {}
