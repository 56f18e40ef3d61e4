package test

import (
	"context"
	"sort"
	"sync"

	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
	"github.com/polkiloo/orderdesk/internal/domain/model"
)

// AccountRepositoryStub stores accounts in-memory for tests.
type AccountRepositoryStub struct {
	Accounts map[string]*model.Account
	ByID     map[int64]*model.Account
	Next     int64
	Err      error
	StatsErr error

	mu sync.Mutex
}

// NewAccountRepositoryStub constructs stub repository with initialized maps.
func NewAccountRepositoryStub() *AccountRepositoryStub {
	return &AccountRepositoryStub{
		Accounts: make(map[string]*model.Account),
		ByID:     make(map[int64]*model.Account),
		Next:     1,
	}
}

// Create registers account unless login is taken or stub has explicit error.
func (s *AccountRepositoryStub) Create(ctx context.Context, account model.Account) (*model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	s.init()
	if _, exists := s.Accounts[account.Login]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	account.ID = s.Next
	s.Next++
	stored := account
	s.Accounts[account.Login] = &stored
	s.ByID[account.ID] = &stored
	return &account, nil
}

// Seed stores account as is and returns it.
func (s *AccountRepositoryStub) Seed(account model.Account) *model.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.init()
	if account.ID == 0 {
		account.ID = s.Next
	}
	if account.ID >= s.Next {
		s.Next = account.ID + 1
	}
	stored := account
	s.Accounts[account.Login] = &stored
	s.ByID[account.ID] = &stored
	return &stored
}

// GetByLogin fetches account by login or returns not found.
func (s *AccountRepositoryStub) GetByLogin(ctx context.Context, login string) (*model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if account, ok := s.Accounts[login]; ok {
		copied := *account
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches account by identifier or returns not found.
func (s *AccountRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if account, ok := s.ByID[id]; ok {
		copied := *account
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

// AddOrderStats bumps counters of a stored account.
func (s *AccountRepositoryStub) AddOrderStats(ctx context.Context, id int64, spent int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.StatsErr != nil {
		return s.StatsErr
	}
	account, ok := s.ByID[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	account.OrdersCount++
	account.TotalSpent += spent
	return nil
}

func (s *AccountRepositoryStub) init() {
	if s.Accounts == nil {
		s.Accounts = make(map[string]*model.Account)
	}
	if s.ByID == nil {
		s.ByID = make(map[int64]*model.Account)
	}
	if s.Next == 0 {
		s.Next = 1
	}
}

// OrderRepositoryStub keeps orders in memory and enforces number uniqueness.
type OrderRepositoryStub struct {
	CreateFn         func(context.Context, *model.Order) error
	SaveTransitionFn func(context.Context, *model.Order, model.StatusEntry) error
	Err              error

	Orders      map[string]model.Order
	Transitions []model.StatusEntry
	Deleted     []string

	mu sync.Mutex
}

// NewOrderRepositoryStub constructs an empty stub.
func NewOrderRepositoryStub() *OrderRepositoryStub {
	return &OrderRepositoryStub{Orders: make(map[string]model.Order)}
}

// Create stores order unless its number is already used.
func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order) error {
	if s.CreateFn != nil {
		if err := s.CreateFn(ctx, order); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if s.Orders == nil {
		s.Orders = make(map[string]model.Order)
	}
	for _, existing := range s.Orders {
		if existing.Number == order.Number {
			return domainErrors.ErrOrderNumberConflict
		}
	}
	s.Orders[order.ID] = cloneOrder(*order)
	return nil
}

// Put stores order without checks.
func (s *OrderRepositoryStub) Put(order model.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Orders == nil {
		s.Orders = make(map[string]model.Order)
	}
	s.Orders[order.ID] = cloneOrder(order)
}

// GetByID returns a copy of the stored order.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, id string) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	order, ok := s.Orders[id]
	if !ok {
		return nil, domainErrors.ErrOrderNotFound
	}
	copied := cloneOrder(order)
	return &copied, nil
}

// GetForUpdate behaves like GetByID.
func (s *OrderRepositoryStub) GetForUpdate(ctx context.Context, id string) (*model.Order, error) {
	return s.GetByID(ctx, id)
}

// GetByNumber returns the order with number.
func (s *OrderRepositoryStub) GetByNumber(ctx context.Context, number string) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, order := range s.Orders {
		if order.Number == number {
			copied := cloneOrder(order)
			return &copied, nil
		}
	}
	return nil, domainErrors.ErrOrderNotFound
}

// ListByAccount returns orders of an account, newest first.
func (s *OrderRepositoryStub) ListByAccount(ctx context.Context, accountID int64) ([]model.Order, error) {
	return s.filter(func(o model.Order) bool {
		return o.Customer.AccountID != nil && *o.Customer.AccountID == accountID
	}, true, 0)
}

// ListActive returns non-terminal orders, oldest first.
func (s *OrderRepositoryStub) ListActive(ctx context.Context, limit int) ([]model.Order, error) {
	return s.filter(func(o model.Order) bool { return !o.Status.Terminal() }, false, limit)
}

func (s *OrderRepositoryStub) filter(keep func(model.Order) bool, newestFirst bool, limit int) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var result []model.Order
	for _, order := range s.Orders {
		if keep(order) {
			result = append(result, cloneOrder(order))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if newestFirst {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// SaveTransition replaces the stored order and records entry.
func (s *OrderRepositoryStub) SaveTransition(ctx context.Context, order *model.Order, entry model.StatusEntry) error {
	if s.SaveTransitionFn != nil {
		return s.SaveTransitionFn(ctx, order, entry)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.Orders[order.ID]; !ok {
		return domainErrors.ErrOrderNotFound
	}
	s.Orders[order.ID] = cloneOrder(*order)
	s.Transitions = append(s.Transitions, entry)
	return nil
}

// Delete removes the order.
func (s *OrderRepositoryStub) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.Orders[id]; !ok {
		return domainErrors.ErrOrderNotFound
	}
	delete(s.Orders, id)
	s.Deleted = append(s.Deleted, id)
	return nil
}

// Len reports how many orders are stored.
func (s *OrderRepositoryStub) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Orders)
}

func cloneOrder(o model.Order) model.Order {
	o.Items = append([]model.LineItem(nil), o.Items...)
	o.StatusHistory = append([]model.StatusEntry(nil), o.StatusHistory...)
	o.Pricing.AppliedPromos = append([]string(nil), o.Pricing.AppliedPromos...)
	return o
}

// SequenceRepositoryStub hands out per-prefix counters atomically.
type SequenceRepositoryStub struct {
	NextFn func(context.Context, string) (int64, error)
	Values map[string]int64

	mu sync.Mutex
}

// NewSequenceRepositoryStub constructs stub with empty counters.
func NewSequenceRepositoryStub() *SequenceRepositoryStub {
	return &SequenceRepositoryStub{Values: make(map[string]int64)}
}

// Next increments and returns the counter of prefix.
func (s *SequenceRepositoryStub) Next(ctx context.Context, prefix string) (int64, error) {
	if s.NextFn != nil {
		return s.NextFn(ctx, prefix)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Values == nil {
		s.Values = make(map[string]int64)
	}
	s.Values[prefix]++
	return s.Values[prefix], nil
}

// UnitOfWorkStub runs callbacks directly and counts them.
type UnitOfWorkStub struct {
	RunFn func(context.Context, func(context.Context) error) error

	mu    sync.Mutex
	calls int
}

// RunInTx invokes fn with ctx unless overridden.
func (s *UnitOfWorkStub) RunInTx(ctx context.Context, fn func(context.Context) error) error {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.RunFn != nil {
		return s.RunFn(ctx, fn)
	}
	return fn(ctx)
}

// Calls reports how many transactions were started.
func (s *UnitOfWorkStub) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
