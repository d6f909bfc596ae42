package products

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/itccompliance/order-inventory/internal/domain"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) FindBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	product := &domain.Product{}

	err := r.db.QueryRowContext(ctx, `
		SELECT id, sku, name, price, available_quantity
		FROM products
		WHERE sku = $1
	`, sku).Scan(&product.ID, &product.SKU, &product.Name, &product.Price, &product.AvailableQuantity)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return product, nil
}

func (r *Repository) Insert(ctx context.Context, product *domain.Product) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO products (sku, name, price, available_quantity)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, product.SKU, product.Name, product.Price, product.AvailableQuantity).Scan(&product.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return domain.DuplicateSKUError{SKU: product.SKU}
		}
		return err
	}

	return nil
}

func (r *Repository) Update(ctx context.Context, product *domain.Product) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET name = $2, price = $3, available_quantity = $4
		WHERE sku = $1
	`, product.SKU, product.Name, product.Price, product.AvailableQuantity)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return domain.ProductNotFoundError{SKU: product.SKU}
	}

	return nil
}

func (r *Repository) FindBelowOrEqual(ctx context.Context, threshold int) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, sku, name, price, available_quantity
		FROM products
		WHERE available_quantity <= $1
		ORDER BY sku
	`, threshold)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var result []domain.Product
	for rows.Next() {
		var product domain.Product
		if err := rows.Scan(&product.ID, &product.SKU, &product.Name, &product.Price, &product.AvailableQuantity); err != nil {
			return nil, err
		}
		result = append(result, product)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
