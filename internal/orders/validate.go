package orders

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/itccompliance/order-inventory/internal/domain"
)

func validateCreateOrder(req createOrderRequest) error {
	var fields []domain.FieldError

	if !validEmail(req.CustomerEmail) {
		fields = append(fields, domain.FieldError{Field: "customerEmail", Message: "must be a well-formed email address"})
	}
	if len(req.Items) == 0 {
		fields = append(fields, domain.FieldError{Field: "items", Message: "must not be empty"})
	}
	for i, item := range req.Items {
		if strings.TrimSpace(item.SKU) == "" {
			fields = append(fields, domain.FieldError{
				Field:   fmt.Sprintf("items[%d].sku", i),
				Message: "must not be blank",
			})
		}
		if item.Quantity < 1 {
			fields = append(fields, domain.FieldError{
				Field:   fmt.Sprintf("items[%d].quantity", i),
				Message: "must be greater than or equal to 1",
			})
		}
	}

	if len(fields) > 0 {
		return domain.ValidationError{Fields: fields}
	}
	return nil
}

// validEmail accepts a bare RFC 5322 address, without a display name.
func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}
