package sale

import (
	"sales-service/domain/sale"
	"sales-service/domain/shared"
)

func toDomainItems(items []SaleItemRequest) ([]*sale.Item, error) {
	domainItems := make([]*sale.Item, len(items))
	for i, item := range items {
		domainItem, err := sale.NewItem(
			item.ProductID,
			item.ProductName,
			item.Quantity,
			shared.NewMoney(item.UnitPrice),
		)
		if err != nil {
			return nil, err
		}
		domainItems[i] = domainItem
	}
	return domainItems, nil
}

func toSaleResponse(s *sale.Sale) *SaleResponse {
	domainItems := s.Items()
	items := make([]SaleItemResponse, len(domainItems))
	activeItems := 0
	for i, item := range domainItems {
		items[i] = SaleItemResponse{
			ID:                 item.ID(),
			ProductID:          item.ProductID(),
			ProductName:        item.ProductName(),
			Quantity:           item.Quantity(),
			UnitPrice:          item.UnitPrice().Amount(),
			DiscountPercentage: item.DiscountPercentage(),
			DiscountAmount:     item.DiscountAmount().Amount(),
			TotalAmount:        item.TotalAmount().Amount(),
			Cancelled:          item.IsCancelled(),
		}
		if !item.IsCancelled() {
			activeItems++
		}
	}

	return &SaleResponse{
		ID:            s.ID(),
		SaleNumber:    s.SaleNumber(),
		SaleDate:      s.SaleDate(),
		CustomerID:    s.CustomerID(),
		CustomerName:  s.CustomerName(),
		BranchID:      s.BranchID(),
		BranchName:    s.BranchName(),
		TotalAmount:   s.TotalAmount().Amount(),
		Status:        string(s.Status()),
		NumberOfItems: activeItems,
		Items:         items,
	}
}
