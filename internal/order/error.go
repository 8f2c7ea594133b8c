package order

import "errors"

var (
	// -- Resource State --
	ErrOrderNotFound     = errors.New("order not found")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInsufficientStock = errors.New("insufficient stock")

	// -- State Machine --
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrPaymentNotPending = errors.New("payment already verified")

	// -- Authorization --
	ErrUnauthorized = errors.New("order does not belong to user")

	// -- Validation & Input --
	ErrInvalidPaymentMethod = errors.New("invalid payment method")

	// -- Database & Operation Failures --
	ErrPersistence = errors.New("order could not be persisted")
)
