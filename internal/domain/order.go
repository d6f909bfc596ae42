package domain

import (
	"fmt"
	"time"
)

type OrderStatus string

const (
	OrderStatusReserved  OrderStatus = "RESERVED"
	OrderStatusFulfilled OrderStatus = "FULFILLED"
)

var validNext = map[OrderStatus]map[OrderStatus]bool{
	OrderStatusReserved:  {OrderStatusFulfilled: true},
	OrderStatusFulfilled: {},
}

// CanTransition reports whether an order may move from one status to
// another. Fulfilment is terminal.
func CanTransition(from, to OrderStatus) bool {
	return validNext[from][to]
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case OrderStatusReserved, OrderStatusFulfilled:
		return OrderStatus(s), nil
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

type Order struct {
	ID            int64       `json:"id"`
	CustomerEmail string      `json:"customerEmail"`
	Status        OrderStatus `json:"status"`
	Items         []OrderItem `json:"items"`
	CreatedAt     time.Time   `json:"createdAt"`
}

type OrderItem struct {
	ID       int64  `json:"id"`
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

// ItemRequest is a single (sku, quantity) line of an order-creation
// request, in caller-supplied order.
type ItemRequest struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}
