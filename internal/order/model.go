package order

import (
	"time"

	"moonstore-be/internal/payment"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// CanTransitionTo reports whether s may move to next. Cancellation branches
// off pending/processing only; forward moves may skip intermediate steps.
func (s Status) CanTransitionTo(next Status) bool {
	if next == StatusCancelled {
		return s.Cancellable()
	}
	// admins may skip intermediate steps forward
	order := []Status{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCompleted}
	si, ni := -1, -1
	for i, st := range order {
		if st == s {
			si = i
		}
		if st == next {
			ni = i
		}
	}
	return si >= 0 && ni >= 0 && ni > si
}

// Cancellable reports whether an order in this status may still be cancelled.
func (s Status) Cancellable() bool {
	return s == StatusPending || s == StatusProcessing
}

// Terminal reports whether no further transitions are allowed.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type ShippingInfo struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
}

type Order struct {
	ID            uint            `json:"id"`
	UserID        uint            `json:"user_id"`
	OrderNumber   string          `json:"order_number"`
	Status        Status          `json:"status"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal `json:"tax"`
	ShippingFee   decimal.Decimal `json:"shipping_fee"`
	Discount      decimal.Decimal `json:"discount"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod payment.Method  `json:"payment_method"`
	Shipping      ShippingInfo    `json:"shipping"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	Items   []OrderItem      `json:"items,omitempty"`
	Payment *payment.Payment `json:"payment,omitempty"`
}

// OrderItem freezes the unit price at purchase time.
type OrderItem struct {
	ID          uint            `json:"id"`
	OrderID     uint            `json:"order_id"`
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type CheckoutInput struct {
	UserID         uint
	PaymentMethod  payment.Method
	Shipping       ShippingInfo
	ProofReference *string
}

type ListOptions struct {
	UserID *uint
	Status *Status
	Limit  *int32
	Page   *int32
}
