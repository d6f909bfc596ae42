package orders

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/itccompliance/order-inventory/internal/domain"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateReserved runs the whole reservation in one transaction: for each
// requested item, in caller order, the product's stock is decremented with a
// compare-and-decrement UPDATE, then the order and its items are inserted
// with status RESERVED. Any failure rolls back every decrement, so an
// aborted order never mutates stock.
func (r *Repository) CreateReserved(ctx context.Context, customerEmail string, items []domain.ItemRequest) (*domain.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	for _, item := range items {
		var available int
		err := tx.QueryRowContext(ctx, `
			SELECT available_quantity FROM products WHERE sku = $1
		`, item.SKU).Scan(&available)
		if err == sql.ErrNoRows {
			return nil, domain.ProductNotFoundError{SKU: item.SKU}
		}
		if err != nil {
			return nil, err
		}

		// Conditional decrement: concurrent reservations against the
		// same SKU serialize on the row, and the guard keeps
		// available_quantity from going negative.
		result, err := tx.ExecContext(ctx, `
			UPDATE products
			SET available_quantity = available_quantity - $2
			WHERE sku = $1 AND available_quantity >= $2
		`, item.SKU, item.Quantity)
		if err != nil {
			return nil, err
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return nil, err
		}
		if rowsAffected == 0 {
			return nil, domain.InsufficientStockError{SKU: item.SKU}
		}
	}

	order := &domain.Order{
		CustomerEmail: customerEmail,
		Status:        domain.OrderStatusReserved,
		CreatedAt:     time.Now().UTC(),
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (customer_email, status, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`, order.CustomerEmail, order.Status, order.CreatedAt).Scan(&order.ID)
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		orderItem := domain.OrderItem{SKU: item.SKU, Quantity: item.Quantity}
		err := tx.QueryRowContext(ctx, `
			INSERT INTO order_items (order_id, sku, quantity)
			VALUES ($1, $2, $3)
			RETURNING id
		`, order.ID, item.SKU, item.Quantity).Scan(&orderItem.ID)
		if err != nil {
			return nil, err
		}
		order.Items = append(order.Items, orderItem)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return order, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	order := &domain.Order{}

	err := r.db.QueryRowContext(ctx, `
		SELECT id, customer_email, status, created_at
		FROM orders
		WHERE id = $1
	`, id).Scan(&order.ID, &order.CustomerEmail, &order.Status, &order.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, sku, quantity
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`, id)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.SKU, &item.Quantity); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return order, nil
}

func (r *Repository) List(ctx context.Context) ([]domain.Order, error) {
	return r.list(ctx, `
		SELECT id, customer_email, status, created_at
		FROM orders
		ORDER BY id
	`)
}

func (r *Repository) ListByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	return r.list(ctx, `
		SELECT id, customer_email, status, created_at
		FROM orders
		WHERE status = $1
		ORDER BY id
	`, status)
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	orderMap := make(map[int64]*domain.Order)
	var orderIDs []int64

	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(&order.ID, &order.CustomerEmail, &order.Status, &order.CreatedAt); err != nil {
			return nil, err
		}
		order.Items = []domain.OrderItem{}
		orderMap[order.ID] = &order
		orderIDs = append(orderIDs, order.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(orderIDs) == 0 {
		return []domain.Order{}, nil
	}

	itemRows, err := r.db.QueryContext(ctx, `
		SELECT order_id, id, sku, quantity
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id
	`, pq.Array(orderIDs))
	if err != nil {
		return nil, err
	}
	defer func() { _ = itemRows.Close() }()

	for itemRows.Next() {
		var orderID int64
		var item domain.OrderItem
		if err := itemRows.Scan(&orderID, &item.ID, &item.SKU, &item.Quantity); err != nil {
			return nil, err
		}
		order := orderMap[orderID]
		order.Items = append(order.Items, item)
	}

	if err := itemRows.Err(); err != nil {
		return nil, err
	}

	result := make([]domain.Order, 0, len(orderIDs))
	for _, id := range orderIDs {
		result = append(result, *orderMap[id])
	}

	return result, nil
}

// MarkFulfilled transitions a RESERVED order to FULFILLED. It reports false
// when the order exists but was already fulfilled, and OrderNotFoundError
// when no such order exists.
func (r *Repository) MarkFulfilled(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE orders SET status = $2
		WHERE id = $1 AND status = $3
	`, id, domain.OrderStatusFulfilled, domain.OrderStatusReserved)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if rowsAffected == 1 {
		return true, nil
	}

	var exists bool
	err = r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)
	`, id).Scan(&exists)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, domain.OrderNotFoundError{ID: id}
	}

	return false, nil
}
