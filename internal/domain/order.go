package domain

import "time"

// OrderSide indicates whether an order buys or sells the instrument.
type OrderSide string

const (
	OrderSideBuy  OrderSide = "buy"
	OrderSideSell OrderSide = "sell"
)

// Valid reports whether s is a known order side.
func (s OrderSide) Valid() bool {
	return s == OrderSideBuy || s == OrderSideSell
}

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCanceled  OrderStatus = "canceled"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCanceled:
		return true
	}
	return false
}

// Order is an acknowledged buy or sell instruction. Crypto holds the
// instrument's display name.
type Order struct {
	ID        string
	Type      OrderSide
	Crypto    string
	Price     float64
	Amount    float64
	Total     float64
	Status    OrderStatus
	Timestamp time.Time
}

// OrderRequest is what the order form hands to the submission backend.
// The backend assigns ID, Status and Timestamp.
type OrderRequest struct {
	Type   OrderSide
	Crypto string
	Price  float64
	Amount float64
	Total  float64
}

// OrderFilter selects a page of order history. Status nil means any status.
// Page is 1-based.
type OrderFilter struct {
	Status *OrderStatus
	Page   int
	Limit  int
}
