package sale

import (
	"context"
	"errors"
	"testing"
	"time"

	"sales-service/domain/sale"
	"sales-service/infrastructure/persistence/mocks"
	"sales-service/pkg/query"

	"github.com/shopspring/decimal"
)

func newTestService() (*ApplicationService, *mocks.MockSaleRepository, *mocks.MockUnitOfWorkFactory) {
	repo := mocks.Empty()
	factory := mocks.NewMockUnitOfWorkFactory()
	return NewApplicationService(repo, factory), repo, factory
}

func createSaleRequest() CreateSaleRequest {
	return CreateSaleRequest{
		SaleDate:     time.Date(2026, time.March, 10, 14, 0, 0, 0, time.UTC),
		CustomerID:   "cust-1",
		CustomerName: "Ann Carter",
		BranchID:     "branch-1",
		BranchName:   "Downtown",
		Items: []SaleItemRequest{
			{ProductID: "prod-1", ProductName: "Espresso Beans", Quantity: 5, UnitPrice: decimal.NewFromInt(20)},
			{ProductID: "prod-2", ProductName: "Ceramic Mug", Quantity: 12, UnitPrice: decimal.NewFromInt(10)},
		},
	}
}

func drainedEventNames(factory *mocks.MockUnitOfWorkFactory) []string {
	names := make([]string, len(factory.UoW.DrainedEvents))
	for i, e := range factory.UoW.DrainedEvents {
		names[i] = e.EventName()
	}
	return names
}

func TestCreateSale(t *testing.T) {
	svc, repo, factory := newTestService()

	resp, err := svc.CreateSale(context.Background(), createSaleRequest())
	if err != nil {
		t.Fatalf("CreateSale failed: %v", err)
	}

	// 5 x 20.00 at 10% is 90; 12 x 10.00 at 20% is 96.
	if !resp.TotalAmount.Equal(decimal.NewFromInt(186)) {
		t.Errorf("total = %s, want 186", resp.TotalAmount)
	}
	if resp.Status != string(sale.StatusActive) {
		t.Errorf("status = %s, want %s", resp.Status, sale.StatusActive)
	}
	if resp.NumberOfItems != 2 || len(resp.Items) != 2 {
		t.Errorf("items = %d/%d, want 2/2", resp.NumberOfItems, len(resp.Items))
	}

	stored, err := repo.FindByID(context.Background(), resp.ID)
	if err != nil {
		t.Fatalf("created sale not stored: %v", err)
	}
	if stored.Version() != 1 {
		t.Errorf("stored version = %d, want 1", stored.Version())
	}

	names := drainedEventNames(factory)
	if len(names) != 1 || names[0] != sale.EventSaleCreated {
		t.Errorf("drained events = %v, want [%s]", names, sale.EventSaleCreated)
	}

	t.Log("✓ create sale tests passed")
}

func TestCreateSaleWithProvidedNumber(t *testing.T) {
	svc, repo, _ := newTestService()

	req := createSaleRequest()
	req.SaleNumber = "SALE-EXT-0001"
	resp, err := svc.CreateSale(context.Background(), req)
	if err != nil {
		t.Fatalf("CreateSale failed: %v", err)
	}
	if resp.SaleNumber != "SALE-EXT-0001" {
		t.Errorf("sale number = %q, want the provided one", resp.SaleNumber)
	}
	if _, err := repo.FindBySaleNumber(context.Background(), "SALE-EXT-0001"); err != nil {
		t.Errorf("lookup by provided number failed: %v", err)
	}

	// The number is unique across sales.
	dup := createSaleRequest()
	dup.SaleNumber = "SALE-EXT-0001"
	if _, err := svc.CreateSale(context.Background(), dup); !errors.Is(err, sale.ErrDuplicateSaleNumber) {
		t.Errorf("duplicate number: got %v, want ErrDuplicateSaleNumber", err)
	}
}

func TestCreateSaleWithoutItems(t *testing.T) {
	svc, _, _ := newTestService()

	req := createSaleRequest()
	req.Items = nil
	if _, err := svc.CreateSale(context.Background(), req); !errors.Is(err, sale.ErrNoItems) {
		t.Errorf("got %v, want ErrNoItems", err)
	}
}

func TestCreateSaleInvalidItem(t *testing.T) {
	svc, _, _ := newTestService()

	req := createSaleRequest()
	req.Items[0].Quantity = 21
	if _, err := svc.CreateSale(context.Background(), req); !errors.Is(err, sale.ErrInvalidQuantity) {
		t.Errorf("got %v, want ErrInvalidQuantity", err)
	}
}

func TestGetSaleNotFound(t *testing.T) {
	svc, _, _ := newTestService()

	if _, err := svc.GetSale(context.Background(), "no-such-sale"); !errors.Is(err, sale.ErrSaleNotFound) {
		t.Errorf("got %v, want ErrSaleNotFound", err)
	}
}

func TestAddItem(t *testing.T) {
	svc, _, factory := newTestService()

	created, err := svc.CreateSale(context.Background(), createSaleRequest())
	if err != nil {
		t.Fatalf("CreateSale failed: %v", err)
	}

	resp, err := svc.AddItem(context.Background(), created.ID, SaleItemRequest{
		ProductID:   "prod-3",
		ProductName: "French Press",
		Quantity:    1,
		UnitPrice:   decimal.NewFromInt(35),
	})
	if err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	if resp.NumberOfItems != 3 {
		t.Errorf("items = %d, want 3", resp.NumberOfItems)
	}
	if !resp.TotalAmount.Equal(decimal.NewFromInt(221)) {
		t.Errorf("total = %s, want 221", resp.TotalAmount)
	}

	names := drainedEventNames(factory)
	if len(names) != 2 || names[1] != sale.EventSaleItemAdded {
		t.Errorf("drained events = %v, want item_added last", names)
	}
}

func TestCancelItem(t *testing.T) {
	svc, _, factory := newTestService()

	created, err := svc.CreateSale(context.Background(), createSaleRequest())
	if err != nil {
		t.Fatalf("CreateSale failed: %v", err)
	}

	resp, err := svc.CancelItem(context.Background(), created.ID, created.Items[0].ID)
	if err != nil {
		t.Fatalf("CancelItem failed: %v", err)
	}

	// The cancelled row stays with zeroed amounts; the count drops.
	if len(resp.Items) != 2 {
		t.Errorf("item rows = %d, want 2", len(resp.Items))
	}
	if resp.NumberOfItems != 1 {
		t.Errorf("active items = %d, want 1", resp.NumberOfItems)
	}
	if !resp.TotalAmount.Equal(decimal.NewFromInt(96)) {
		t.Errorf("total = %s, want 96", resp.TotalAmount)
	}
	for _, item := range resp.Items {
		if item.ID == created.Items[0].ID {
			if !item.Cancelled || !item.TotalAmount.IsZero() {
				t.Errorf("cancelled item = %+v", item)
			}
		}
	}

	names := drainedEventNames(factory)
	if names[len(names)-1] != sale.EventSaleItemCancelled {
		t.Errorf("drained events = %v, want item_cancelled last", names)
	}

	if _, err := svc.CancelItem(context.Background(), created.ID, "no-such-item"); !errors.Is(err, sale.ErrItemNotFound) {
		t.Errorf("unknown item: got %v, want ErrItemNotFound", err)
	}

	t.Log("✓ cancel item tests passed")
}

func TestUpdateItemQuantity(t *testing.T) {
	svc, _, _ := newTestService()

	created, err := svc.CreateSale(context.Background(), createSaleRequest())
	if err != nil {
		t.Fatalf("CreateSale failed: %v", err)
	}

	// First item to quantity 2: no discount, 2 x 20 = 40; total 40 + 96.
	resp, err := svc.UpdateItemQuantity(context.Background(), created.ID, created.Items[0].ID,
		UpdateItemQuantityRequest{Quantity: 2})
	if err != nil {
		t.Fatalf("UpdateItemQuantity failed: %v", err)
	}
	if !resp.TotalAmount.Equal(decimal.NewFromInt(136)) {
		t.Errorf("total = %s, want 136", resp.TotalAmount)
	}
}

func TestCompleteAndCancelSale(t *testing.T) {
	svc, _, factory := newTestService()

	created, err := svc.CreateSale(context.Background(), createSaleRequest())
	if err != nil {
		t.Fatalf("CreateSale failed: %v", err)
	}

	completed, err := svc.CompleteSale(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("CompleteSale failed: %v", err)
	}
	if completed.Status != string(sale.StatusCompleted) {
		t.Errorf("status = %s, want %s", completed.Status, sale.StatusCompleted)
	}

	// Completion does not freeze the sale; items can still change until it
	// is cancelled.
	afterAdd, err := svc.AddItem(context.Background(), created.ID, SaleItemRequest{
		ProductID: "prod-9", ProductName: "Filter", Quantity: 1, UnitPrice: decimal.NewFromInt(5),
	})
	if err != nil {
		t.Fatalf("add to completed failed: %v", err)
	}
	if !afterAdd.TotalAmount.Equal(decimal.NewFromInt(191)) {
		t.Errorf("total after add = %s, want 191", afterAdd.TotalAmount)
	}

	// Completed sales can still be cancelled.
	cancelled, err := svc.CancelSale(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("CancelSale failed: %v", err)
	}
	if cancelled.Status != string(sale.StatusCancelled) {
		t.Errorf("status = %s, want %s", cancelled.Status, sale.StatusCancelled)
	}
	if !cancelled.TotalAmount.IsZero() {
		t.Errorf("total = %s, want 0", cancelled.TotalAmount)
	}

	if _, err := svc.CancelSale(context.Background(), created.ID); !errors.Is(err, sale.ErrSaleAlreadyCancelled) {
		t.Errorf("double cancel: got %v, want ErrSaleAlreadyCancelled", err)
	}

	names := drainedEventNames(factory)
	want := []string{sale.EventSaleCreated, sale.EventSaleCompleted, sale.EventSaleItemAdded, sale.EventSaleCancelled}
	if len(names) != len(want) {
		t.Fatalf("drained events = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("drained events = %v, want %v", names, want)
		}
	}

	t.Log("✓ sale lifecycle tests passed")
}

func TestUpdateSale(t *testing.T) {
	svc, _, _ := newTestService()

	created, err := svc.CreateSale(context.Background(), createSaleRequest())
	if err != nil {
		t.Fatalf("CreateSale failed: %v", err)
	}

	// Blank branch fields keep the current branch.
	resp, err := svc.UpdateSale(context.Background(), created.ID, UpdateSaleRequest{
		CustomerID:   "cust-2",
		CustomerName: "Bob Ellis",
	})
	if err != nil {
		t.Fatalf("UpdateSale failed: %v", err)
	}
	if resp.CustomerID != "cust-2" || resp.CustomerName != "Bob Ellis" {
		t.Errorf("customer = %s/%s", resp.CustomerID, resp.CustomerName)
	}
	if resp.BranchID != "branch-1" {
		t.Errorf("branch = %s, want branch-1 unchanged", resp.BranchID)
	}
}

func seedListing(t *testing.T, svc *ApplicationService) {
	t.Helper()
	seeds := []struct {
		customer string
		branch   string
		quantity int
		price    int64
		daysAgo  int
	}{
		{"Ann Carter", "Downtown", 2, 10, 3},
		{"Ann Carter", "Harbor", 10, 10, 2},
		{"Bob Ellis", "Downtown", 5, 40, 1},
	}
	for i, s := range seeds {
		req := CreateSaleRequest{
			SaleDate:     time.Date(2026, time.March, 20-s.daysAgo, 9, 0, 0, 0, time.UTC),
			CustomerID:   s.customer,
			CustomerName: s.customer,
			BranchID:     s.branch,
			BranchName:   s.branch,
			Items: []SaleItemRequest{
				{ProductID: "prod-1", ProductName: "Product", Quantity: s.quantity, UnitPrice: decimal.NewFromInt(s.price)},
			},
		}
		if _, err := svc.CreateSale(context.Background(), req); err != nil {
			t.Fatalf("seed %d failed: %v", i, err)
		}
	}
}

func TestListSales(t *testing.T) {
	svc, _, _ := newTestService()
	seedListing(t, svc)
	// Totals: 20 (Ann/Downtown), 80 (Ann/Harbor), 180 (Bob/Downtown).

	page, err := svc.ListSales(context.Background(), ListSalesQuery{})
	if err != nil {
		t.Fatalf("ListSales failed: %v", err)
	}
	if page.TotalItems != 3 || len(page.Items) != 3 {
		t.Fatalf("unfiltered list = %d/%d, want 3", page.TotalItems, len(page.Items))
	}
	// Default sort is newest first.
	if !page.Items[0].TotalAmount.Equal(decimal.NewFromInt(180)) {
		t.Errorf("first item total = %s, want 180", page.Items[0].TotalAmount)
	}

	filtered, err := svc.ListSales(context.Background(), ListSalesQuery{
		Filter: map[string][]string{"customerName": {"ann*"}},
	})
	if err != nil {
		t.Fatalf("filtered list failed: %v", err)
	}
	if filtered.TotalItems != 2 {
		t.Errorf("customer filter matched %d, want 2", filtered.TotalItems)
	}

	ranged, err := svc.ListSales(context.Background(), ListSalesQuery{
		Filter: map[string][]string{"_minTotalAmount": {"80"}},
		Sort:   []string{"TotalAmount asc"},
	})
	if err != nil {
		t.Fatalf("ranged list failed: %v", err)
	}
	if ranged.TotalItems != 2 {
		t.Fatalf("range filter matched %d, want 2", ranged.TotalItems)
	}
	if !ranged.Items[0].TotalAmount.Equal(decimal.NewFromInt(80)) {
		t.Errorf("first total = %s, want 80", ranged.Items[0].TotalAmount)
	}

	t.Log("✓ list sales tests passed")
}

func TestListSalesPagination(t *testing.T) {
	svc, _, _ := newTestService()
	seedListing(t, svc)

	page, err := svc.ListSales(context.Background(), ListSalesQuery{Page: 2, Size: 2})
	if err != nil {
		t.Fatalf("ListSales failed: %v", err)
	}
	if page.Page != 2 || page.PageSize != 2 {
		t.Errorf("page meta = %d/%d, want 2/2", page.Page, page.PageSize)
	}
	if page.TotalItems != 3 || page.TotalPages != 2 || len(page.Items) != 1 {
		t.Errorf("pagination = total %d pages %d len %d, want 3/2/1",
			page.TotalItems, page.TotalPages, len(page.Items))
	}

	// Out-of-range inputs fall back to defaults and the size cap.
	clamped, err := svc.ListSales(context.Background(), ListSalesQuery{Page: -1, Size: 1000})
	if err != nil {
		t.Fatalf("ListSales failed: %v", err)
	}
	if clamped.Page != DefaultPage || clamped.PageSize != MaxPageSize {
		t.Errorf("clamped meta = %d/%d, want %d/%d", clamped.Page, clamped.PageSize, DefaultPage, MaxPageSize)
	}
}

func TestListSalesBadQuery(t *testing.T) {
	svc, _, _ := newTestService()

	if _, err := svc.ListSales(context.Background(), ListSalesQuery{
		Filter: map[string][]string{"noSuchField": {"x"}},
	}); !errors.Is(err, query.ErrUnknownField) {
		t.Errorf("unknown filter field: got %v, want ErrUnknownField", err)
	}

	if _, err := svc.ListSales(context.Background(), ListSalesQuery{
		Sort: []string{"SaleDate sideways"},
	}); !errors.Is(err, query.ErrInvalidSortDirection) {
		t.Errorf("bad sort: got %v, want ErrInvalidSortDirection", err)
	}

	if _, err := svc.ListSales(context.Background(), ListSalesQuery{
		Filter: map[string][]string{"totalAmount": {"lots"}},
	}); !errors.Is(err, query.ErrInvalidValue) {
		t.Errorf("bad value: got %v, want ErrInvalidValue", err)
	}
}
