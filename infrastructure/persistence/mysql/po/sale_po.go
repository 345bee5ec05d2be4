package po

import (
	"time"

	"sales-service/domain/sale"
	"sales-service/domain/shared"

	"github.com/shopspring/decimal"
)

// SalePO is the sale persistence object. Mapping only, no business logic.
// GORM associations are deliberately not used so the aggregate boundary
// stays in the domain layer.
type SalePO struct {
	ID           string          `gorm:"primaryKey;size:64"`
	SaleNumber   string          `gorm:"size:64;uniqueIndex;not null"`
	SaleDate     time.Time       `gorm:"index;not null"`
	CustomerID   string          `gorm:"size:64;index;not null"`
	CustomerName string          `gorm:"size:255"`
	BranchID     string          `gorm:"size:64;index;not null"`
	BranchName   string          `gorm:"size:255"`
	TotalAmount  decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Status       string          `gorm:"size:20;not null"`
	Version      int             `gorm:"default:0"`
	CreatedAt    time.Time       `gorm:"autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime"`
}

func (SalePO) TableName() string {
	return "sales"
}

// SaleItemPO is the sale line item persistence object.
type SaleItemPO struct {
	ID                 string          `gorm:"primaryKey;size:64"`
	SaleID             string          `gorm:"size:64;index;not null"`
	ProductID          string          `gorm:"size:64;not null"`
	ProductName        string          `gorm:"size:255;not null"`
	Quantity           int             `gorm:"not null"`
	UnitPrice          decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	DiscountPercentage decimal.Decimal `gorm:"type:decimal(5,4);not null"`
	DiscountAmount     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TotalAmount        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Cancelled          bool            `gorm:"not null;default:false"`
}

func (SaleItemPO) TableName() string {
	return "sale_items"
}

// FromSaleDomain converts the aggregate into persistence objects.
func FromSaleDomain(s *sale.Sale) (*SalePO, []SaleItemPO) {
	salePO := &SalePO{
		ID:           s.ID(),
		SaleNumber:   s.SaleNumber(),
		SaleDate:     s.SaleDate(),
		CustomerID:   s.CustomerID(),
		CustomerName: s.CustomerName(),
		BranchID:     s.BranchID(),
		BranchName:   s.BranchName(),
		TotalAmount:  s.TotalAmount().Amount(),
		Status:       string(s.Status()),
		Version:      s.Version(),
	}

	items := s.Items()
	itemPOs := make([]SaleItemPO, len(items))
	for i, item := range items {
		itemPOs[i] = SaleItemPO{
			ID:                 item.ID(),
			SaleID:             s.ID(),
			ProductID:          item.ProductID(),
			ProductName:        item.ProductName(),
			Quantity:           item.Quantity(),
			UnitPrice:          item.UnitPrice().Amount(),
			DiscountPercentage: item.DiscountPercentage(),
			DiscountAmount:     item.DiscountAmount().Amount(),
			TotalAmount:        item.TotalAmount().Amount(),
			Cancelled:          item.IsCancelled(),
		}
	}

	return salePO, itemPOs
}

// ToDomain rebuilds the aggregate from persistence objects.
func (po *SalePO) ToDomain(itemPOs []SaleItemPO) *sale.Sale {
	items := make([]sale.ItemReconstructionDTO, len(itemPOs))
	for i, itemPO := range itemPOs {
		items[i] = sale.ItemReconstructionDTO{
			ID:                 itemPO.ID,
			SaleID:             itemPO.SaleID,
			ProductID:          itemPO.ProductID,
			ProductName:        itemPO.ProductName,
			Quantity:           itemPO.Quantity,
			UnitPrice:          shared.NewMoney(itemPO.UnitPrice),
			DiscountPercentage: itemPO.DiscountPercentage,
			DiscountAmount:     shared.NewMoney(itemPO.DiscountAmount),
			TotalAmount:        shared.NewMoney(itemPO.TotalAmount),
			IsCancelled:        itemPO.Cancelled,
		}
	}

	return sale.RebuildFromDTO(sale.ReconstructionDTO{
		ID:           po.ID,
		SaleNumber:   po.SaleNumber,
		SaleDate:     po.SaleDate,
		CustomerID:   po.CustomerID,
		CustomerName: po.CustomerName,
		BranchID:     po.BranchID,
		BranchName:   po.BranchName,
		TotalAmount:  shared.NewMoney(po.TotalAmount),
		Status:       sale.Status(po.Status),
		Items:        items,
		Version:      po.Version,
	})
}
