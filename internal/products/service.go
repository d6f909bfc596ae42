package products

import (
	"context"

	"github.com/itccompliance/order-inventory/internal/domain"
)

// Store is what the product service needs from the persistence layer.
type Store interface {
	FindBySKU(ctx context.Context, sku string) (*domain.Product, error)
	Insert(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	FindBelowOrEqual(ctx context.Context, threshold int) ([]domain.Product, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	existing, err := s.store.FindBySKU(ctx, product.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.DuplicateSKUError{SKU: product.SKU}
	}

	// The unique constraint backs this up; the store maps a violation to
	// the same DuplicateSKUError when two creates race.
	if err := s.store.Insert(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

func (s *Service) GetBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	product, err := s.store.FindBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ProductNotFoundError{SKU: sku}
	}

	return product, nil
}

// Update applies a partial update. Only non-nil fields of upd replace the
// stored values.
func (s *Service) Update(ctx context.Context, sku string, upd domain.ProductUpdate) (*domain.Product, error) {
	product, err := s.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		product.Name = *upd.Name
	}
	if upd.Price != nil {
		product.Price = *upd.Price
	}
	if upd.AvailableQuantity != nil {
		product.AvailableQuantity = *upd.AvailableQuantity
	}

	if err := s.store.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

func (s *Service) BelowOrEqual(ctx context.Context, threshold int) ([]domain.Product, error) {
	return s.store.FindBelowOrEqual(ctx, threshold)
}
