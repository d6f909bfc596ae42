package products

import (
	"strings"

	"github.com/itccompliance/order-inventory/internal/domain"
)

func validateCreateProduct(req createProductRequest) error {
	var fields []domain.FieldError

	if strings.TrimSpace(req.SKU) == "" {
		fields = append(fields, domain.FieldError{Field: "sku", Message: "must not be blank"})
	}
	if strings.TrimSpace(req.Name) == "" {
		fields = append(fields, domain.FieldError{Field: "name", Message: "must not be blank"})
	}
	if req.Price == nil {
		fields = append(fields, domain.FieldError{Field: "price", Message: "must not be null"})
	} else if req.Price.LessThan(domain.MinPrice) {
		fields = append(fields, domain.FieldError{Field: "price", Message: "must be greater than or equal to 0.01"})
	}
	if req.AvailableQuantity < 0 {
		fields = append(fields, domain.FieldError{Field: "availableQuantity", Message: "must be greater than or equal to 0"})
	}

	if len(fields) > 0 {
		return domain.ValidationError{Fields: fields}
	}
	return nil
}

func validateProductUpdate(upd domain.ProductUpdate) error {
	var fields []domain.FieldError

	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		fields = append(fields, domain.FieldError{Field: "name", Message: "must not be blank"})
	}
	if upd.Price != nil && upd.Price.LessThan(domain.MinPrice) {
		fields = append(fields, domain.FieldError{Field: "price", Message: "must be greater than or equal to 0.01"})
	}
	if upd.AvailableQuantity != nil && *upd.AvailableQuantity < 0 {
		fields = append(fields, domain.FieldError{Field: "availableQuantity", Message: "must be greater than or equal to 0"})
	}

	if len(fields) > 0 {
		return domain.ValidationError{Fields: fields}
	}
	return nil
}
