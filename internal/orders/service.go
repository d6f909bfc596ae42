package orders

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/itccompliance/order-inventory/internal/domain"
	"github.com/itccompliance/order-inventory/internal/messaging"
)

// Store is what the order workflow needs from the persistence layer. The
// reservation transaction lives behind it so that stock decrement and order
// insert commit or roll back together.
type Store interface {
	CreateReserved(ctx context.Context, customerEmail string, items []domain.ItemRequest) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	ListByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error)
}

// FulfilmentScheduler accepts an order for background fulfilment without
// blocking the caller.
type FulfilmentScheduler interface {
	Schedule(orderID int64)
}

type Service struct {
	store         Store
	scheduler     FulfilmentScheduler
	producer      *messaging.Producer
	logger        *slog.Logger
	ordersCreated metric.Int64Counter
}

func NewService(store Store, scheduler FulfilmentScheduler, producer *messaging.Producer, logger *slog.Logger) (*Service, error) {
	ordersCreated, err := otel.Meter("orders").Int64Counter("orders.created",
		metric.WithDescription("Number of orders created with stock reserved"),
	)
	if err != nil {
		return nil, err
	}

	return &Service{
		store:         store,
		scheduler:     scheduler,
		producer:      producer,
		logger:        logger,
		ordersCreated: ordersCreated,
	}, nil
}

// CreateOrder reserves stock for every requested item and persists the order
// in RESERVED state, then hands the order ID to the fulfilment scheduler.
// Items are processed in request order; the first missing product or stock
// shortage aborts the whole creation with nothing reserved.
func (s *Service) CreateOrder(ctx context.Context, customerEmail string, items []domain.ItemRequest) (*domain.Order, error) {
	order, err := s.store.CreateReserved(ctx, customerEmail, items)
	if err != nil {
		return nil, err
	}

	s.scheduler.Schedule(order.ID)
	s.ordersCreated.Add(ctx, 1)

	if s.producer != nil {
		event := domain.OrderCreatedEvent{
			EventID:       uuid.NewString(),
			OrderID:       order.ID,
			CustomerEmail: order.CustomerEmail,
			Items:         items,
			Timestamp:     order.CreatedAt,
		}
		if err := s.producer.Publish(ctx, strconv.FormatInt(order.ID, 10), event); err != nil {
			s.logger.Error("failed to publish order created event", "error", err, "order_id", order.ID)
		}
	}

	s.logger.Info("order created", "order_id", order.ID, "status", order.Status, "items", len(order.Items))
	return order, nil
}

func (s *Service) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	order, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.OrderNotFoundError{ID: id}
	}

	return order, nil
}

func (s *Service) OrdersByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	return s.store.ListByStatus(ctx, status)
}

func (s *Service) AllOrders(ctx context.Context) ([]domain.Order, error) {
	return s.store.List(ctx)
}
