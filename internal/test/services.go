package test

import (
	"context"
	"sync"

	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
	"github.com/polkiloo/orderdesk/internal/domain/model"
)

// CatalogStub serves products from a map.
type CatalogStub struct {
	Products map[string]model.Product
	GetFn    func(context.Context, string) (*model.Product, error)

	mu    sync.Mutex
	calls []string
}

// GetProduct returns the configured product or not found.
func (s *CatalogStub) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	s.mu.Lock()
	s.calls = append(s.calls, id)
	s.mu.Unlock()
	if s.GetFn != nil {
		return s.GetFn(ctx, id)
	}
	product, ok := s.Products[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &product, nil
}

// Calls returns requested product ids.
func (s *CatalogStub) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// GeocoderStub resolves addresses from a map.
type GeocoderStub struct {
	Points    map[string]model.Coordinates
	ResolveFn func(context.Context, string) (model.Coordinates, error)
}

// ResolveAddress returns configured coordinates or not found.
func (s GeocoderStub) ResolveAddress(ctx context.Context, address string) (model.Coordinates, error) {
	if s.ResolveFn != nil {
		return s.ResolveFn(ctx, address)
	}
	point, ok := s.Points[address]
	if !ok {
		return model.Coordinates{}, domainErrors.ErrNotFound
	}
	return point, nil
}

// NotifierStub records notified orders.
type NotifierStub struct {
	mu     sync.Mutex
	orders []model.Order
}

// Notify stores order.
func (s *NotifierStub) Notify(order model.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = append(s.orders, order)
}

// Orders returns recorded orders.
func (s *NotifierStub) Orders() []model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Order(nil), s.orders...)
}

// ObserverStub counts order events.
type ObserverStub struct {
	mu        sync.Mutex
	Created   int
	Changes   [][2]model.OrderStatus
	Conflicts map[string]int
}

// OrderCreated counts created orders.
func (s *ObserverStub) OrderCreated(model.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Created++
}

// StatusChanged records a transition.
func (s *ObserverStub) StatusChanged(from, to model.OrderStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Changes = append(s.Changes, [2]model.OrderStatus{from, to})
}

// AllocationConflict counts conflicts per prefix.
func (s *ObserverStub) AllocationConflict(prefix string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Conflicts == nil {
		s.Conflicts = make(map[string]int)
	}
	s.Conflicts[prefix]++
}
