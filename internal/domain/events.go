package domain

import "time"

type OrderCreatedEvent struct {
	EventID       string        `json:"event_id"`
	OrderID       int64         `json:"order_id"`
	CustomerEmail string        `json:"customer_email"`
	Items         []ItemRequest `json:"items"`
	Timestamp     time.Time     `json:"timestamp"`
}

type OrderFulfilledEvent struct {
	EventID   string    `json:"event_id"`
	OrderID   int64     `json:"order_id"`
	Timestamp time.Time `json:"timestamp"`
}
