package sale

import (
	"fmt"

	"sales-service/domain/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Quantity bounds for a single sale item entry.
const (
	MinItemQuantity = 1
	MaxItemQuantity = 20
)

// Discount tiers by quantity. 10-20 identical items earn 20%, 4-9 earn 10%,
// fewer than 4 earn no discount.
var (
	discountTwentyPercent = decimal.New(20, -2)
	discountTenPercent    = decimal.New(10, -2)
)

// Item is a sale line item. It lives inside the Sale aggregate: it can only
// be added, cancelled or updated through the owning Sale, and it raises no
// events of its own.
type Item struct {
	id          string
	saleID      string
	productID   string
	productName string
	quantity    int
	unitPrice   shared.Money

	// Derived on every quantity/price change and on cancellation.
	discountPercentage decimal.Decimal
	discountAmount     shared.Money
	totalAmount        shared.Money

	cancelled bool
}

// NewItem creates a line item and computes its discount immediately.
// Quantity must be within [MinItemQuantity, MaxItemQuantity] and the unit
// price strictly positive; the same policy applies on later updates.
func NewItem(productID, productName string, quantity int, unitPrice shared.Money) (*Item, error) {
	if quantity < MinItemQuantity || quantity > MaxItemQuantity {
		return nil, ErrInvalidQuantity
	}
	if !unitPrice.IsPositive() {
		return nil, ErrInvalidUnitPrice
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate sale item ID: %w", err)
	}

	item := &Item{
		id:          id.String(),
		productID:   productID,
		productName: productName,
		quantity:    quantity,
		unitPrice:   unitPrice,
	}
	item.ApplyDiscount()

	return item, nil
}

// SetSaleID binds the item to its owning sale. Re-binding to the same sale
// is a no-op; re-binding to a different sale is rejected.
func (i *Item) SetSaleID(saleID string) error {
	if i.saleID != "" && i.saleID != saleID {
		return ErrItemSaleMismatch
	}
	i.saleID = saleID
	return nil
}

// ApplyDiscount recomputes the discount and the derived amounts from the
// current quantity, unit price and cancellation state. It is idempotent.
// A cancelled item contributes nothing: all derived amounts are zero.
func (i *Item) ApplyDiscount() {
	if i.cancelled {
		i.discountPercentage = decimal.Zero
		i.discountAmount = shared.ZeroMoney()
		i.totalAmount = shared.ZeroMoney()
		return
	}

	i.discountPercentage = decimal.Zero
	switch {
	case i.quantity >= 10:
		i.discountPercentage = discountTwentyPercent
	case i.quantity >= 4:
		i.discountPercentage = discountTenPercent
	}

	gross := i.unitPrice.MulInt(i.quantity)
	i.discountAmount = gross.Mul(i.discountPercentage)
	i.totalAmount = gross.Sub(i.discountAmount)
}

// Cancel marks the item as cancelled and zeroes its derived amounts.
func (i *Item) Cancel() error {
	if i.cancelled {
		return ErrItemAlreadyCancelled
	}
	i.cancelled = true
	i.ApplyDiscount()
	return nil
}

// UpdateQuantity changes the quantity and recomputes the discount.
func (i *Item) UpdateQuantity(quantity int) error {
	if i.cancelled {
		return ErrItemCancelled
	}
	if quantity < MinItemQuantity || quantity > MaxItemQuantity {
		return ErrInvalidQuantity
	}
	i.quantity = quantity
	i.ApplyDiscount()
	return nil
}

// UpdateUnitPrice changes the unit price and recomputes the discount.
func (i *Item) UpdateUnitPrice(unitPrice shared.Money) error {
	if i.cancelled {
		return ErrItemCancelled
	}
	if !unitPrice.IsPositive() {
		return ErrInvalidUnitPrice
	}
	i.unitPrice = unitPrice
	i.ApplyDiscount()
	return nil
}

func (i *Item) ID() string                          { return i.id }
func (i *Item) SaleID() string                      { return i.saleID }
func (i *Item) ProductID() string                   { return i.productID }
func (i *Item) ProductName() string                 { return i.productName }
func (i *Item) Quantity() int                       { return i.quantity }
func (i *Item) UnitPrice() shared.Money             { return i.unitPrice }
func (i *Item) DiscountPercentage() decimal.Decimal { return i.discountPercentage }
func (i *Item) DiscountAmount() shared.Money        { return i.discountAmount }
func (i *Item) TotalAmount() shared.Money           { return i.totalAmount }
func (i *Item) IsCancelled() bool                   { return i.cancelled }

// ItemReconstructionDTO rebuilds an Item from storage.
// Only for repository use; fields bypass validation on purpose because they
// were validated when the item was first created.
type ItemReconstructionDTO struct {
	ID                 string
	SaleID             string
	ProductID          string
	ProductName        string
	Quantity           int
	UnitPrice          shared.Money
	DiscountPercentage decimal.Decimal
	DiscountAmount     shared.Money
	TotalAmount        shared.Money
	IsCancelled        bool
}

// RebuildItemFromDTO reconstructs an Item from persisted state.
func RebuildItemFromDTO(dto ItemReconstructionDTO) *Item {
	return &Item{
		id:                 dto.ID,
		saleID:             dto.SaleID,
		productID:          dto.ProductID,
		productName:        dto.ProductName,
		quantity:           dto.Quantity,
		unitPrice:          dto.UnitPrice,
		discountPercentage: dto.DiscountPercentage,
		discountAmount:     dto.DiscountAmount,
		totalAmount:        dto.TotalAmount,
		cancelled:          dto.IsCancelled,
	}
}
