package domain

import "time"

// TransferKind distinguishes deposits from withdrawals.
type TransferKind string

const (
	TransferDeposit  TransferKind = "deposit"
	TransferWithdraw TransferKind = "withdraw"
)

// Payment rails a transfer can use. Cards only fund deposits.
const (
	MethodBank   = "bank"
	MethodCard   = "card"
	MethodPayPal = "paypal"
)

// Transfer is an acknowledged funds movement request.
type Transfer struct {
	ID        string
	Kind      TransferKind
	Method    string
	Amount    float64
	Status    OrderStatus
	UserID    string
	CreatedAt time.Time
}
