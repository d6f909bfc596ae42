package orders

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/itccompliance/order-inventory/internal/domain"
)

// memStore mirrors the repository's transactional contract: either every
// decrement applies, or none do.
type memStore struct {
	mu     sync.Mutex
	stock  map[string]int
	orders map[int64]*domain.Order
	nextID int64
}

func newMemStore(stock map[string]int) *memStore {
	return &memStore{
		stock:  stock,
		orders: make(map[int64]*domain.Order),
	}
}

func (s *memStore) CreateReserved(_ context.Context, customerEmail string, items []domain.ItemRequest) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	trial := make(map[string]int, len(s.stock))
	for sku, qty := range s.stock {
		trial[sku] = qty
	}

	for _, item := range items {
		available, ok := trial[item.SKU]
		if !ok {
			return nil, domain.ProductNotFoundError{SKU: item.SKU}
		}
		if available < item.Quantity {
			return nil, domain.InsufficientStockError{SKU: item.SKU}
		}
		trial[item.SKU] = available - item.Quantity
	}
	s.stock = trial

	s.nextID++
	order := &domain.Order{
		ID:            s.nextID,
		CustomerEmail: customerEmail,
		Status:        domain.OrderStatusReserved,
		CreatedAt:     time.Now().UTC(),
	}
	for i, item := range items {
		order.Items = append(order.Items, domain.OrderItem{
			ID:       int64(i + 1),
			SKU:      item.SKU,
			Quantity: item.Quantity,
		})
	}
	s.orders[order.ID] = order

	copied := *order
	return &copied, nil
}

func (s *memStore) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[id]
	if !ok {
		return nil, nil
	}
	copied := *order
	return &copied, nil
}

func (s *memStore) List(_ context.Context) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]domain.Order, 0, len(s.orders))
	for id := int64(1); id <= s.nextID; id++ {
		if order, ok := s.orders[id]; ok {
			result = append(result, *order)
		}
	}
	return result, nil
}

func (s *memStore) ListByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]domain.Order, 0, len(all))
	for _, order := range all {
		if order.Status == status {
			result = append(result, order)
		}
	}
	return result, nil
}

func (s *memStore) stockOf(sku string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stock[sku]
}

type fakeScheduler struct {
	mu  sync.Mutex
	ids []int64
}

func (f *fakeScheduler) Schedule(orderID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ids = append(f.ids, orderID)
}

func (f *fakeScheduler) scheduled() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.ids...)
}

func newTestService(t *testing.T, store Store, scheduler FulfilmentScheduler) *Service {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service, err := NewService(store, scheduler, nil, logger)
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return service
}

func TestService_CreateOrder(t *testing.T) {
	t.Run("reserves stock and schedules fulfilment", func(t *testing.T) {
		store := newMemStore(map[string]int{"SKU001": 10, "SKU002": 5})
		scheduler := &fakeScheduler{}
		service := newTestService(t, store, scheduler)

		order, err := service.CreateOrder(context.Background(), "test@example.com", []domain.ItemRequest{
			{SKU: "SKU001", Quantity: 3},
			{SKU: "SKU002", Quantity: 2},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if order.Status != domain.OrderStatusReserved {
			t.Fatalf("expected status RESERVED, got %s", order.Status)
		}
		if len(order.Items) != 2 {
			t.Fatalf("expected 2 items, got %d", len(order.Items))
		}
		if got := store.stockOf("SKU001"); got != 7 {
			t.Fatalf("expected SKU001 stock 7, got %d", got)
		}
		if got := store.stockOf("SKU002"); got != 3 {
			t.Fatalf("expected SKU002 stock 3, got %d", got)
		}

		scheduled := scheduler.scheduled()
		if len(scheduled) != 1 || scheduled[0] != order.ID {
			t.Fatalf("expected fulfilment scheduled for order %d, got %v", order.ID, scheduled)
		}
	})

	t.Run("insufficient stock aborts without any mutation", func(t *testing.T) {
		store := newMemStore(map[string]int{"SKU001": 5})
		scheduler := &fakeScheduler{}
		service := newTestService(t, store, scheduler)

		_, err := service.CreateOrder(context.Background(), "test@example.com", []domain.ItemRequest{
			{SKU: "SKU001", Quantity: 100},
		})
		var insufficient domain.InsufficientStockError
		if !errors.As(err, &insufficient) {
			t.Fatalf("expected InsufficientStockError, got %v", err)
		}
		if insufficient.SKU != "SKU001" {
			t.Fatalf("expected SKU001 in error, got %s", insufficient.SKU)
		}

		if got := store.stockOf("SKU001"); got != 5 {
			t.Fatalf("stock changed on aborted order: %d", got)
		}
		if len(scheduler.scheduled()) != 0 {
			t.Fatal("fulfilment scheduled for a failed order")
		}
		if all, _ := store.List(context.Background()); len(all) != 0 {
			t.Fatalf("order persisted on failure: %+v", all)
		}
	})

	t.Run("two lines of one SKU count against the same stock", func(t *testing.T) {
		store := newMemStore(map[string]int{"SKU001": 2})
		service := newTestService(t, store, &fakeScheduler{})

		// Each line fits individually; together they do not.
		_, err := service.CreateOrder(context.Background(), "test@example.com", []domain.ItemRequest{
			{SKU: "SKU001", Quantity: 2},
			{SKU: "SKU001", Quantity: 1},
		})
		var insufficient domain.InsufficientStockError
		if !errors.As(err, &insufficient) {
			t.Fatalf("expected InsufficientStockError, got %v", err)
		}
		if got := store.stockOf("SKU001"); got != 2 {
			t.Fatalf("stock changed on aborted order: %d", got)
		}
	})

	t.Run("unknown SKU fails before any stock mutation", func(t *testing.T) {
		store := newMemStore(map[string]int{"SKU001": 10})
		scheduler := &fakeScheduler{}
		service := newTestService(t, store, scheduler)

		_, err := service.CreateOrder(context.Background(), "test@example.com", []domain.ItemRequest{
			{SKU: "NONEXISTENT", Quantity: 1},
			{SKU: "SKU001", Quantity: 1},
		})
		var notFound domain.ProductNotFoundError
		if !errors.As(err, &notFound) {
			t.Fatalf("expected ProductNotFoundError, got %v", err)
		}
		if got := store.stockOf("SKU001"); got != 10 {
			t.Fatalf("stock changed on aborted order: %d", got)
		}
		if len(scheduler.scheduled()) != 0 {
			t.Fatal("fulfilment scheduled for a failed order")
		}
	})
}

func TestService_GetOrder(t *testing.T) {
	t.Run("returns the order", func(t *testing.T) {
		store := newMemStore(map[string]int{"SKU001": 10})
		service := newTestService(t, store, &fakeScheduler{})

		created, err := service.CreateOrder(context.Background(), "test@example.com", []domain.ItemRequest{
			{SKU: "SKU001", Quantity: 1},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		order, err := service.GetOrder(context.Background(), created.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if order.ID != created.ID || order.CustomerEmail != "test@example.com" {
			t.Fatalf("unexpected order: %+v", order)
		}
	})

	t.Run("unknown ID fails with OrderNotFoundError", func(t *testing.T) {
		service := newTestService(t, newMemStore(nil), &fakeScheduler{})

		_, err := service.GetOrder(context.Background(), 42)
		var notFound domain.OrderNotFoundError
		if !errors.As(err, &notFound) {
			t.Fatalf("expected OrderNotFoundError, got %v", err)
		}
		if notFound.ID != 42 {
			t.Fatalf("expected ID 42 in error, got %d", notFound.ID)
		}
	})
}
