package domain

import "github.com/shopspring/decimal"

// MinPrice is the lowest price a product can be listed at.
var MinPrice = decimal.New(1, -2)

type Product struct {
	ID                int64           `json:"id"`
	SKU               string          `json:"sku"`
	Name              string          `json:"name"`
	Price             decimal.Decimal `json:"price"`
	AvailableQuantity int             `json:"availableQuantity"`
}

// ProductUpdate carries a partial update. A nil field means "leave the
// current value untouched".
type ProductUpdate struct {
	Name              *string          `json:"name"`
	Price             *decimal.Decimal `json:"price"`
	AvailableQuantity *int             `json:"availableQuantity"`
}
