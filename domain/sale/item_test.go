package sale

import (
	"errors"
	"testing"

	"sales-service/domain/shared"

	"github.com/shopspring/decimal"
)

func money(t *testing.T, s string) shared.Money {
	t.Helper()
	m, err := shared.MoneyFromString(s)
	if err != nil {
		t.Fatalf("bad money literal %q: %v", s, err)
	}
	return m
}

func TestNewItemDiscountTiers(t *testing.T) {
	cases := []struct {
		name         string
		quantity     int
		unitPrice    string
		wantPercent  string
		wantDiscount string
		wantTotal    string
	}{
		{"single item no discount", 1, "100.00", "0", "0", "100"},
		{"three items no discount", 3, "100.00", "0", "0", "300"},
		{"four items ten percent", 4, "100.00", "0.1", "40", "360"},
		{"nine items ten percent", 9, "100.00", "0.1", "90", "810"},
		{"ten items twenty percent", 10, "100.00", "0.2", "200", "800"},
		{"twenty items twenty percent", 20, "100.00", "0.2", "400", "1600"},
		{"five items fractional price", 5, "19.99", "0.1", "9.995", "89.955"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			item, err := NewItem("prod-1", "Test Product", tc.quantity, money(t, tc.unitPrice))
			if err != nil {
				t.Fatalf("NewItem failed: %v", err)
			}

			wantPercent, _ := decimal.NewFromString(tc.wantPercent)
			if !item.DiscountPercentage().Equal(wantPercent) {
				t.Errorf("discount percentage = %s, want %s", item.DiscountPercentage(), wantPercent)
			}
			wantDiscount, _ := decimal.NewFromString(tc.wantDiscount)
			if !item.DiscountAmount().Amount().Equal(wantDiscount) {
				t.Errorf("discount amount = %s, want %s", item.DiscountAmount(), wantDiscount)
			}
			wantTotal, _ := decimal.NewFromString(tc.wantTotal)
			if !item.TotalAmount().Amount().Equal(wantTotal) {
				t.Errorf("total amount = %s, want %s", item.TotalAmount(), wantTotal)
			}
		})
	}
}

func TestNewItemRejectsInvalidQuantity(t *testing.T) {
	for _, quantity := range []int{0, -1, 21, 100} {
		if _, err := NewItem("prod-1", "Test Product", quantity, money(t, "10.00")); !errors.Is(err, ErrInvalidQuantity) {
			t.Errorf("quantity %d: got %v, want ErrInvalidQuantity", quantity, err)
		}
	}
}

func TestNewItemRejectsNonPositivePrice(t *testing.T) {
	for _, price := range []string{"0", "-0.01", "-10"} {
		if _, err := NewItem("prod-1", "Test Product", 1, money(t, price)); !errors.Is(err, ErrInvalidUnitPrice) {
			t.Errorf("price %s: got %v, want ErrInvalidUnitPrice", price, err)
		}
	}
}

func TestItemCancelZeroesAmounts(t *testing.T) {
	item, err := NewItem("prod-1", "Test Product", 10, money(t, "50.00"))
	if err != nil {
		t.Fatalf("NewItem failed: %v", err)
	}

	if err := item.Cancel(); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if !item.IsCancelled() {
		t.Error("item not marked cancelled")
	}
	if !item.DiscountPercentage().IsZero() {
		t.Errorf("cancelled item discount percentage = %s, want 0", item.DiscountPercentage())
	}
	if !item.DiscountAmount().IsZero() {
		t.Errorf("cancelled item discount amount = %s, want 0", item.DiscountAmount())
	}
	if !item.TotalAmount().IsZero() {
		t.Errorf("cancelled item total = %s, want 0", item.TotalAmount())
	}

	if err := item.Cancel(); !errors.Is(err, ErrItemAlreadyCancelled) {
		t.Errorf("second cancel: got %v, want ErrItemAlreadyCancelled", err)
	}
}

func TestCancelledItemRejectsUpdates(t *testing.T) {
	item, err := NewItem("prod-1", "Test Product", 2, money(t, "10.00"))
	if err != nil {
		t.Fatalf("NewItem failed: %v", err)
	}
	if err := item.Cancel(); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}

	if err := item.UpdateQuantity(5); !errors.Is(err, ErrItemCancelled) {
		t.Errorf("UpdateQuantity: got %v, want ErrItemCancelled", err)
	}
	if err := item.UpdateUnitPrice(money(t, "20.00")); !errors.Is(err, ErrItemCancelled) {
		t.Errorf("UpdateUnitPrice: got %v, want ErrItemCancelled", err)
	}
}

func TestUpdateQuantityRecomputesDiscount(t *testing.T) {
	item, err := NewItem("prod-1", "Test Product", 2, money(t, "10.00"))
	if err != nil {
		t.Fatalf("NewItem failed: %v", err)
	}
	if !item.DiscountPercentage().IsZero() {
		t.Fatalf("initial discount = %s, want 0", item.DiscountPercentage())
	}

	// Crossing a tier boundary moves the discount with it.
	if err := item.UpdateQuantity(10); err != nil {
		t.Fatalf("UpdateQuantity failed: %v", err)
	}
	if !item.DiscountPercentage().Equal(decimal.New(20, -2)) {
		t.Errorf("discount after update = %s, want 0.2", item.DiscountPercentage())
	}
	if !item.TotalAmount().Amount().Equal(decimal.NewFromInt(80)) {
		t.Errorf("total after update = %s, want 80", item.TotalAmount())
	}

	if err := item.UpdateQuantity(21); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("out of range update: got %v, want ErrInvalidQuantity", err)
	}
}

func TestUpdateUnitPriceRecomputesTotals(t *testing.T) {
	item, err := NewItem("prod-1", "Test Product", 4, money(t, "10.00"))
	if err != nil {
		t.Fatalf("NewItem failed: %v", err)
	}

	if err := item.UpdateUnitPrice(money(t, "25.00")); err != nil {
		t.Fatalf("UpdateUnitPrice failed: %v", err)
	}
	if !item.TotalAmount().Amount().Equal(decimal.NewFromInt(90)) {
		t.Errorf("total = %s, want 90", item.TotalAmount())
	}

	if err := item.UpdateUnitPrice(money(t, "-1.00")); !errors.Is(err, ErrInvalidUnitPrice) {
		t.Errorf("negative price: got %v, want ErrInvalidUnitPrice", err)
	}
}

func TestSetSaleIDBinding(t *testing.T) {
	item, err := NewItem("prod-1", "Test Product", 1, money(t, "10.00"))
	if err != nil {
		t.Fatalf("NewItem failed: %v", err)
	}

	if err := item.SetSaleID("sale-1"); err != nil {
		t.Fatalf("first bind failed: %v", err)
	}
	if err := item.SetSaleID("sale-1"); err != nil {
		t.Errorf("rebind to same sale failed: %v", err)
	}
	if err := item.SetSaleID("sale-2"); !errors.Is(err, ErrItemSaleMismatch) {
		t.Errorf("rebind to other sale: got %v, want ErrItemSaleMismatch", err)
	}
}
