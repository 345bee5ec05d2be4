package sale

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSaleRequest creates a sale with its initial items. A blank sale
// number lets the domain generate one.
type CreateSaleRequest struct {
	SaleDate     time.Time         `json:"sale_date"`
	SaleNumber   string            `json:"sale_number"`
	CustomerID   string            `json:"customer_id" binding:"required"`
	CustomerName string            `json:"customer_name"`
	BranchID     string            `json:"branch_id" binding:"required"`
	BranchName   string            `json:"branch_name"`
	Items        []SaleItemRequest `json:"items" binding:"required,min=1"`
}

// SaleItemRequest is one requested line item. The unit price is an exact
// decimal, not a float.
type SaleItemRequest struct {
	ProductID   string          `json:"product_id" binding:"required"`
	ProductName string          `json:"product_name" binding:"required"`
	Quantity    int             `json:"quantity" binding:"required,min=1,max=20"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
}

// UpdateSaleRequest changes the customer and branch references. Blank
// fields keep their current value.
type UpdateSaleRequest struct {
	CustomerID   string `json:"customer_id"`
	CustomerName string `json:"customer_name"`
	BranchID     string `json:"branch_id"`
	BranchName   string `json:"branch_name"`
}

// UpdateItemQuantityRequest changes a line item's quantity.
type UpdateItemQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1,max=20"`
}

// ListSalesQuery is the raw listing input: 1-based page, page size, sort
// tokens and a field-to-values filter mapping.
type ListSalesQuery struct {
	Page   int
	Size   int
	Sort   []string
	Filter map[string][]string
}

// SaleResponse is the flat sale projection. The listing engine filters and
// sorts over these fields.
type SaleResponse struct {
	ID            string             `json:"id"`
	SaleNumber    string             `json:"sale_number"`
	SaleDate      time.Time          `json:"sale_date"`
	CustomerID    string             `json:"customer_id"`
	CustomerName  string             `json:"customer_name"`
	BranchID      string             `json:"branch_id"`
	BranchName    string             `json:"branch_name"`
	TotalAmount   decimal.Decimal    `json:"total_amount"`
	Status        string             `json:"status"`
	NumberOfItems int                `json:"number_of_items"`
	Items         []SaleItemResponse `json:"items"`
}

// SaleItemResponse is one line item projection.
type SaleItemResponse struct {
	ID                 string          `json:"id"`
	ProductID          string          `json:"product_id"`
	ProductName        string          `json:"product_name"`
	Quantity           int             `json:"quantity"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	DiscountAmount     decimal.Decimal `json:"discount_amount"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
	Cancelled          bool            `json:"cancelled"`
}
