/*
Package sale orchestrates the sale business processes.

The application layer loads or constructs one Sale aggregate per use case,
mutates it through its public operations and saves it inside a unit of
work. The unit of work drains the aggregate's domain events into the
transactional outbox before commit; application services never publish
events themselves.
*/
package sale

import (
	"context"

	"sales-service/domain/sale"
	"sales-service/domain/shared"
	"sales-service/pkg/query"
)

// Listing page bounds.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ApplicationService coordinates sale use cases.
type ApplicationService struct {
	saleRepo   sale.Repository
	uowFactory shared.UnitOfWorkFactory
}

func NewApplicationService(saleRepo sale.Repository, uowFactory shared.UnitOfWorkFactory) *ApplicationService {
	return &ApplicationService{
		saleRepo:   saleRepo,
		uowFactory: uowFactory,
	}
}

// CreateSale creates a sale with its initial items.
func (s *ApplicationService) CreateSale(ctx context.Context, req CreateSaleRequest) (*SaleResponse, error) {
	var created *sale.Sale

	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		items, err := toDomainItems(req.Items)
		if err != nil {
			return err
		}

		created, err = sale.NewSale(
			req.SaleDate, req.SaleNumber,
			req.CustomerID, req.CustomerName,
			req.BranchID, req.BranchName,
			items,
		)
		if err != nil {
			return err
		}

		if err := s.saleRepo.Save(ctx, created); err != nil {
			return err
		}
		uow.RegisterNew(created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(created), nil
}

// GetSale returns one sale by ID.
func (s *ApplicationService) GetSale(ctx context.Context, saleID string) (*SaleResponse, error) {
	found, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	return toSaleResponse(found), nil
}

// UpdateSale changes the customer and branch references on a sale. Blank
// request fields leave the current value in place.
func (s *ApplicationService) UpdateSale(ctx context.Context, saleID string, req UpdateSaleRequest) (*SaleResponse, error) {
	var updated *sale.Sale

	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		found, err := s.saleRepo.FindByID(ctx, saleID)
		if err != nil {
			return err
		}

		if req.CustomerID != "" {
			if err := found.UpdateCustomerDetails(req.CustomerID, req.CustomerName); err != nil {
				return err
			}
		}
		if req.BranchID != "" {
			if err := found.UpdateBranchDetails(req.BranchID, req.BranchName); err != nil {
				return err
			}
		}

		if err := s.saleRepo.Save(ctx, found); err != nil {
			return err
		}
		uow.RegisterDirty(found)
		updated = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(updated), nil
}

// AddItem adds a line item to an existing sale.
func (s *ApplicationService) AddItem(ctx context.Context, saleID string, req SaleItemRequest) (*SaleResponse, error) {
	var updated *sale.Sale

	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		found, err := s.saleRepo.FindByID(ctx, saleID)
		if err != nil {
			return err
		}

		item, err := sale.NewItem(req.ProductID, req.ProductName, req.Quantity, shared.NewMoney(req.UnitPrice))
		if err != nil {
			return err
		}
		if err := found.AddItem(item); err != nil {
			return err
		}

		if err := s.saleRepo.Save(ctx, found); err != nil {
			return err
		}
		uow.RegisterDirty(found)
		updated = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(updated), nil
}

// CancelItem cancels a single line item. The sale total is recomputed; the
// item row stays, cancelled, with zeroed amounts.
func (s *ApplicationService) CancelItem(ctx context.Context, saleID, itemID string) (*SaleResponse, error) {
	var updated *sale.Sale

	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		found, err := s.saleRepo.FindByID(ctx, saleID)
		if err != nil {
			return err
		}
		if err := found.CancelItem(itemID); err != nil {
			return err
		}

		if err := s.saleRepo.Save(ctx, found); err != nil {
			return err
		}
		uow.RegisterDirty(found)
		updated = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(updated), nil
}

// UpdateItemQuantity changes a line item's quantity and reprices the sale.
func (s *ApplicationService) UpdateItemQuantity(ctx context.Context, saleID, itemID string, req UpdateItemQuantityRequest) (*SaleResponse, error) {
	var updated *sale.Sale

	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		found, err := s.saleRepo.FindByID(ctx, saleID)
		if err != nil {
			return err
		}
		if err := found.UpdateItemQuantity(itemID, req.Quantity); err != nil {
			return err
		}

		if err := s.saleRepo.Save(ctx, found); err != nil {
			return err
		}
		uow.RegisterDirty(found)
		updated = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(updated), nil
}

// CancelSale cancels the whole sale, cascading to its items.
func (s *ApplicationService) CancelSale(ctx context.Context, saleID string) (*SaleResponse, error) {
	var updated *sale.Sale

	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		found, err := s.saleRepo.FindByID(ctx, saleID)
		if err != nil {
			return err
		}
		if err := found.Cancel(); err != nil {
			return err
		}

		if err := s.saleRepo.Save(ctx, found); err != nil {
			return err
		}
		uow.RegisterDirty(found)
		updated = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(updated), nil
}

// CompleteSale completes an active sale.
func (s *ApplicationService) CompleteSale(ctx context.Context, saleID string) (*SaleResponse, error) {
	var updated *sale.Sale

	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		found, err := s.saleRepo.FindByID(ctx, saleID)
		if err != nil {
			return err
		}
		if err := found.Complete(); err != nil {
			return err
		}

		if err := s.saleRepo.Save(ctx, found); err != nil {
			return err
		}
		uow.RegisterDirty(found)
		updated = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(updated), nil
}

// ListSales loads the sales, projects them and runs the query engine over
// the projections: parse filters and sort, compile against the registered
// field set, filter, order and paginate. Malformed query input fails before
// any row is inspected.
func (s *ApplicationService) ListSales(ctx context.Context, q ListSalesQuery) (*query.Page[SaleResponse], error) {
	filters, err := query.ParseFilters(q.Filter)
	if err != nil {
		return nil, err
	}
	sorts, err := query.ParseSort(q.Sort)
	if err != nil {
		return nil, err
	}

	page := q.Page
	if page < DefaultPage {
		page = DefaultPage
	}
	size := q.Size
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	sales, err := s.saleRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]SaleResponse, len(sales))
	for i, found := range sales {
		responses[i] = *toSaleResponse(found)
	}

	result, err := saleFields.Select(responses, filters, sorts, page, size)
	if err != nil {
		return nil, err
	}
	return &result, nil
}
