// Package fulfilment runs the background status transition that simulates
// completing an order some time after its stock was reserved.
package fulfilment

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/itccompliance/order-inventory/internal/domain"
	"github.com/itccompliance/order-inventory/internal/messaging"
)

// OrderStore is what the worker needs from the persistence layer.
type OrderStore interface {
	MarkFulfilled(ctx context.Context, id int64) (bool, error)
}

type Worker struct {
	store    OrderStore
	producer *messaging.Producer
	logger   *slog.Logger

	jobs      chan int64
	workers   int
	minDelay  time.Duration
	maxDelay  time.Duration
	wg        sync.WaitGroup
	closeOnce sync.Once

	ordersFulfilled metric.Int64Counter
}

type Option func(*Worker)

// WithDelayRange overrides the simulated fulfilment delay, [min, max).
func WithDelayRange(min, max time.Duration) Option {
	return func(w *Worker) {
		w.minDelay = min
		w.maxDelay = max
	}
}

func WithWorkerCount(n int) Option {
	return func(w *Worker) { w.workers = n }
}

func WithQueueSize(n int) Option {
	return func(w *Worker) { w.jobs = make(chan int64, n) }
}

func New(store OrderStore, producer *messaging.Producer, logger *slog.Logger, opts ...Option) (*Worker, error) {
	ordersFulfilled, err := otel.Meter("fulfilment").Int64Counter("orders.fulfilled",
		metric.WithDescription("Number of orders transitioned to FULFILLED"),
	)
	if err != nil {
		return nil, err
	}

	w := &Worker{
		store:           store,
		producer:        producer,
		logger:          logger,
		jobs:            make(chan int64, 1024),
		workers:         4,
		minDelay:        100 * time.Millisecond,
		maxDelay:        300 * time.Millisecond,
		ordersFulfilled: ordersFulfilled,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// Start launches the worker pool. The context stops workers between jobs;
// a job already picked up always runs to completion.
func (w *Worker) Start(ctx context.Context) {
	for i := 0; i < w.workers; i++ {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case orderID, ok := <-w.jobs:
					if !ok {
						return
					}
					w.process(orderID)
				}
			}
		}()
	}
}

// Schedule enqueues an order for fulfilment. The request goroutine never
// blocks: when the queue is full the job is dropped and logged, and the
// order stays RESERVED.
func (w *Worker) Schedule(orderID int64) {
	select {
	case w.jobs <- orderID:
	default:
		w.logger.Error("fulfilment queue full, dropping order", "order_id", orderID)
	}
}

// Close stops accepting work and waits for the workers to exit. With a live
// Start context the queue drains fully; jobs still queued after the context
// was cancelled are logged and dropped.
func (w *Worker) Close() {
	w.closeOnce.Do(func() { close(w.jobs) })
	w.wg.Wait()
	for orderID := range w.jobs {
		w.logger.Warn("fulfilment abandoned on shutdown", "order_id", orderID)
	}
}

func (w *Worker) process(orderID int64) {
	time.Sleep(w.delay())

	// Not tied to any request; the order outlives the caller.
	ctx := context.Background()

	fulfilled, err := w.store.MarkFulfilled(ctx, orderID)
	var notFound domain.OrderNotFoundError
	switch {
	case errors.As(err, &notFound):
		// The order was persisted before scheduling, so this is a
		// programming error. Nobody waits on fulfilment; log and drop.
		w.logger.Error("order vanished before fulfilment", "order_id", orderID)
		return
	case err != nil:
		w.logger.Error("failed to fulfil order", "error", err, "order_id", orderID)
		return
	case !fulfilled:
		w.logger.Warn("order already fulfilled", "order_id", orderID)
		return
	}

	w.ordersFulfilled.Add(ctx, 1)
	w.logger.Info("order fulfilled", "order_id", orderID)

	if w.producer != nil {
		event := domain.OrderFulfilledEvent{
			EventID:   uuid.NewString(),
			OrderID:   orderID,
			Timestamp: time.Now().UTC(),
		}
		if err := w.producer.Publish(ctx, strconv.FormatInt(orderID, 10), event); err != nil {
			w.logger.Error("failed to publish order fulfilled event", "error", err, "order_id", orderID)
		}
	}
}

func (w *Worker) delay() time.Duration {
	if w.maxDelay <= w.minDelay {
		return w.minDelay
	}
	return w.minDelay + rand.N(w.maxDelay-w.minDelay)
}
