package catalog

import "errors"

var (
	// -- Resource State --
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")

	// -- Validation & Input --
	ErrInvalidPrice = errors.New("product price must not be negative")
	ErrInvalidStock = errors.New("product stock must not be negative")

	// -- Database & Operation Failures --
	ErrFailedCreateProduct = errors.New("failed to create product")
	ErrFailedUpdateProduct = errors.New("failed to update product")
	ErrFailedDeleteProduct = errors.New("failed to delete product")
)
