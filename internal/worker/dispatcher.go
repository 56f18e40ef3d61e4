package worker

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/polkiloo/orderdesk/internal/domain/model"
)

// Sink delivers one order notification.
type Sink interface {
	Send(ctx context.Context, order model.Order) error
}

// Dispatcher hands orders to a sink from a bounded pool of workers.
// Notify never blocks: when the queue is full the order is dropped and logged.
type Dispatcher struct {
	sink    Sink
	workers int
	timeout time.Duration
	logger  *slog.Logger

	jobs    chan model.Order
	wg      sync.WaitGroup
	cancel  context.CancelFunc
	mu      sync.RWMutex
	started bool
	closed  bool
	dropped atomic.Int64
}

// NewDispatcher constructs notification worker pool.
func NewDispatcher(sink Sink, workers, queueSize int, timeout time.Duration, logger *slog.Logger) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 1
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Dispatcher{
		sink:    sink,
		workers: workers,
		timeout: timeout,
		logger:  logger,
		jobs:    make(chan model.Order, queueSize),
	}
}

// Start launches background workers.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.closed {
		return
	}
	d.started = true

	runCtx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(runCtx)
	}
}

// Stop rejects new orders, drains the queue and waits for workers to finish.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.jobs)
	cancel := d.cancel
	d.mu.Unlock()

	d.wg.Wait()
	if cancel != nil {
		cancel()
	}
}

// Notify enqueues order for delivery.
func (d *Dispatcher) Notify(order model.Order) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.drop(order, "dispatcher stopped")
		return
	}

	select {
	case d.jobs <- order:
	default:
		d.drop(order, "queue full")
	}
}

// Dropped reports how many notifications were discarded.
func (d *Dispatcher) Dropped() int64 {
	return d.dropped.Load()
}

func (d *Dispatcher) drop(order model.Order, reason string) {
	d.dropped.Add(1)
	d.logger.Warn("order notification dropped",
		slog.String("order_id", order.ID),
		slog.String("number", order.Number),
		slog.String("reason", reason),
	)
}

func (d *Dispatcher) worker(ctx context.Context) {
	defer d.wg.Done()
	for order := range d.jobs {
		d.deliver(ctx, order)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, order model.Order) {
	sendCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	if err := d.sink.Send(sendCtx, order); err != nil {
		d.logger.Warn("order notification failed",
			slog.String("order_id", order.ID),
			slog.String("number", order.Number),
			slog.String("error", err.Error()),
		)
	}
}
