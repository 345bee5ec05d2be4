package mocks

import (
	"context"
	"sync"
	"time"

	"sales-service/domain/sale"
	"sales-service/domain/shared"
)

// MockSaleRepository is an in-memory sale repository. It backs the "mock"
// database type for local development and the application layer tests.
type MockSaleRepository struct {
	sales map[string]*sale.Sale
	mu    sync.RWMutex
}

func NewMockSaleRepository() *MockSaleRepository {
	repo := &MockSaleRepository{
		sales: make(map[string]*sale.Sale),
	}
	repo.initializeTestData()
	return repo
}

// Empty returns a repository without seed data, for tests that need full
// control over the stored sales.
func Empty() *MockSaleRepository {
	return &MockSaleRepository{sales: make(map[string]*sale.Sale)}
}

func (r *MockSaleRepository) initializeTestData() {
	seed := func(customerID, customerName, branchID, branchName string, daysAgo int, build func() []*sale.Item) {
		items := build()
		if items == nil {
			return
		}
		s, err := sale.NewSale(
			time.Now().AddDate(0, 0, -daysAgo), "",
			customerID, customerName, branchID, branchName, items,
		)
		if err != nil {
			return
		}
		// Seed data carries no pending events.
		s.PullEvents()
		s.IncrementVersionForSave()
		r.sales[s.ID()] = s
	}

	seed("cust-1", "Alice Carter", "branch-1", "Downtown", 2, func() []*sale.Item {
		item1, err := sale.NewItem("prod-1", "Espresso Beans 1kg", 5, mustMoney("20.00"))
		if err != nil {
			return nil
		}
		item2, err := sale.NewItem("prod-2", "Ceramic Mug", 2, mustMoney("8.50"))
		if err != nil {
			return nil
		}
		return []*sale.Item{item1, item2}
	})

	seed("cust-2", "Bruno Silva", "branch-2", "Harbor", 1, func() []*sale.Item {
		item, err := sale.NewItem("prod-3", "French Press", 12, mustMoney("35.00"))
		if err != nil {
			return nil
		}
		return []*sale.Item{item}
	})
}

func mustMoney(s string) shared.Money {
	m, err := shared.MoneyFromString(s)
	if err != nil {
		return shared.ZeroMoney()
	}
	return m
}

// Save stores the sale, mirroring the version check and the unique sale
// number constraint the MySQL repository enforces.
func (r *MockSaleRepository) Save(ctx context.Context, s *sale.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.sales[s.ID()]; ok && existing != s && existing.Version() != s.Version() {
		return sale.NewConcurrentModificationError(s.ID(), s.Version())
	}
	for _, other := range r.sales {
		if other.ID() != s.ID() && other.SaleNumber() == s.SaleNumber() {
			return sale.NewDuplicateSaleNumberError(s.SaleNumber())
		}
	}

	s.IncrementVersionForSave()
	r.sales[s.ID()] = s
	return nil
}

func (r *MockSaleRepository) FindByID(ctx context.Context, id string) (*sale.Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sales[id]
	if !ok {
		return nil, sale.NewSaleNotFoundError(id)
	}
	return s, nil
}

func (r *MockSaleRepository) FindBySaleNumber(ctx context.Context, saleNumber string) (*sale.Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.sales {
		if s.SaleNumber() == saleNumber {
			return s, nil
		}
	}
	return nil, sale.NewSaleNotFoundError(saleNumber)
}

func (r *MockSaleRepository) FindAll(ctx context.Context) ([]*sale.Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sales := make([]*sale.Sale, 0, len(r.sales))
	for _, s := range r.sales {
		sales = append(sales, s)
	}
	return sales, nil
}

// Remove cancels the sale, matching the MySQL repository's soft delete.
func (r *MockSaleRepository) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sales[id]
	if !ok {
		return sale.NewSaleNotFoundError(id)
	}
	return s.Cancel()
}

var _ sale.Repository = (*MockSaleRepository)(nil)
