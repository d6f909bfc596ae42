package domain

import (
	"fmt"
	"strings"
)

type ProductNotFoundError struct {
	SKU string
}

func (e ProductNotFoundError) Error() string {
	return "product not found with SKU: " + e.SKU
}

type OrderNotFoundError struct {
	ID int64
}

func (e OrderNotFoundError) Error() string {
	return fmt.Sprintf("order not found with ID: %d", e.ID)
}

type InsufficientStockError struct {
	SKU string
}

func (e InsufficientStockError) Error() string {
	return "insufficient stock for: " + e.SKU
}

type DuplicateSKUError struct {
	SKU string
}

func (e DuplicateSKUError) Error() string {
	return fmt.Sprintf("product with SKU '%s' already exists", e.SKU)
}

type FieldError struct {
	Field   string
	Message string
}

// ValidationError aggregates every offending field of a request body.
type ValidationError struct {
	Fields []FieldError
}

func (e ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return strings.Join(parts, ", ")
}
