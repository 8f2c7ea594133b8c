package cart

import "errors"

var (
	// -- Validation & Input --
	ErrInvalidQuantity = errors.New("invalid cart quantity")

	// -- Resource State --
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrCartItemNotFound  = errors.New("cart item not found")
	ErrCartEmpty         = errors.New("cart is empty")

	// -- Authorization --
	ErrUnauthorized = errors.New("cart item does not belong to user")
)
