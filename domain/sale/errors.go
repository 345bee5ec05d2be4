package sale

import (
	"errors"
	"fmt"

	"sales-service/domain/shared"
)

// Domain sentinel errors. Callers classify with errors.Is; the API layer
// maps them to transport codes.
var (
	ErrSaleNotFound           = errors.New("sale not found")
	ErrItemNotFound           = errors.New("sale item not found")
	ErrSaleAlreadyCancelled   = errors.New("sale is already cancelled")
	ErrSaleCancelled          = errors.New("sale is cancelled and cannot be modified")
	ErrSaleNotActive          = errors.New("sale is not active")
	ErrItemAlreadyCancelled   = errors.New("sale item is already cancelled")
	ErrItemCancelled          = errors.New("sale item is cancelled and cannot be modified")
	ErrDuplicateItem          = errors.New("sale item already belongs to the sale")
	ErrDuplicateSaleNumber    = errors.New("sale number is already in use")
	ErrItemSaleMismatch       = errors.New("sale item belongs to another sale")
	ErrInvalidQuantity        = fmt.Errorf("item quantity must be between %d and %d", MinItemQuantity, MaxItemQuantity)
	ErrInvalidUnitPrice       = errors.New("item unit price must be positive")
	ErrNoItems                = errors.New("sale must contain at least one item")
	ErrConcurrentModification = errors.New("sale was modified concurrently")
)

// NewSaleNotFoundError wraps ErrSaleNotFound with the identifier that missed.
func NewSaleNotFoundError(saleID string) error {
	return &shared.DomainError{
		Err:     ErrSaleNotFound,
		Entity:  "Sale",
		Message: fmt.Sprintf("sale %s not found", saleID),
	}
}

// NewItemNotFoundError wraps ErrItemNotFound with both identifiers.
func NewItemNotFoundError(saleID, itemID string) error {
	return &shared.DomainError{
		Err:     ErrItemNotFound,
		Entity:  "SaleItem",
		Message: fmt.Sprintf("item %s not found in sale %s", itemID, saleID),
	}
}

// NewDuplicateSaleNumberError wraps ErrDuplicateSaleNumber with the number
// that collided.
func NewDuplicateSaleNumberError(saleNumber string) error {
	return &shared.DomainError{
		Err:     ErrDuplicateSaleNumber,
		Entity:  "Sale",
		Field:   "saleNumber",
		Message: fmt.Sprintf("sale number %s is already in use", saleNumber),
	}
}

// NewConcurrentModificationError signals an optimistic lock failure on save.
func NewConcurrentModificationError(saleID string, expectedVersion int) error {
	return &shared.DomainError{
		Err:     ErrConcurrentModification,
		Entity:  "Sale",
		Message: fmt.Sprintf("sale %s version %d is stale", saleID, expectedVersion),
	}
}
