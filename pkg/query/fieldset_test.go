package query

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

type order struct {
	Number   string
	Customer string
	Total    decimal.Decimal
	Quantity int64
	PlacedAt time.Time
	Paid     bool
}

func orderFields() *FieldSet[order] {
	return NewFieldSet[order]().
		String("Number", func(o order) string { return o.Number }).
		String("Customer", func(o order) string { return o.Customer }).
		Decimal("Total", func(o order) decimal.Decimal { return o.Total }).
		Int("Quantity", func(o order) int64 { return o.Quantity }).
		Time("PlacedAt", func(o order) time.Time { return o.PlacedAt }).
		Bool("Paid", func(o order) bool { return o.Paid }).
		DefaultSort(SortClause{Field: "PlacedAt", Direction: Descending})
}

func day(d int) time.Time {
	return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC)
}

func testOrders() []order {
	return []order{
		{Number: "ORD-1", Customer: "Ann Carter", Total: decimal.NewFromInt(50), Quantity: 2, PlacedAt: day(1), Paid: true},
		{Number: "ORD-2", Customer: "Joanna Reed", Total: decimal.NewFromInt(120), Quantity: 8, PlacedAt: day(2), Paid: false},
		{Number: "ORD-3", Customer: "Bob Ellis", Total: decimal.NewFromInt(200), Quantity: 12, PlacedAt: day(3), Paid: true},
	}
}

func matchedNumbers(t *testing.T, clauses []FilterClause) []string {
	t.Helper()
	pred, err := orderFields().CompileFilters(clauses)
	if err != nil {
		t.Fatalf("CompileFilters failed: %v", err)
	}
	var numbers []string
	for _, o := range testOrders() {
		if pred(o) {
			numbers = append(numbers, o.Number)
		}
	}
	return numbers
}

func assertNumbers(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("matched %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("matched %v, want %v", got, want)
		}
	}
}

func TestCompileFiltersStringOps(t *testing.T) {
	cases := []struct {
		name   string
		clause FilterClause
		want   []string
	}{
		{"contains", FilterClause{Field: "Customer", Op: OpContains, Value: "ann"}, []string{"ORD-1", "ORD-2"}},
		{"starts with", FilterClause{Field: "Customer", Op: OpStartsWith, Value: "bob"}, []string{"ORD-3"}},
		{"ends with", FilterClause{Field: "Customer", Op: OpEndsWith, Value: "reed"}, []string{"ORD-2"}},
		{"equals case-insensitive", FilterClause{Field: "customer", Op: OpEquals, Value: "ANN CARTER"}, []string{"ORD-1"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assertNumbers(t, matchedNumbers(t, []FilterClause{tc.clause}), tc.want)
		})
	}

	t.Log("✓ string predicate tests passed")
}

func TestCompileFiltersCaseSensitive(t *testing.T) {
	clause := FilterClause{Field: "Customer", Op: OpContains, Value: "Ann", CaseSensitive: true}
	assertNumbers(t, matchedNumbers(t, []FilterClause{clause}), []string{"ORD-1"})
}

func TestCompileFiltersOrderedKinds(t *testing.T) {
	cases := []struct {
		name   string
		clause FilterClause
		want   []string
	}{
		{"decimal gte", FilterClause{Field: "Total", Op: OpGreaterOrEqual, Value: "120"}, []string{"ORD-2", "ORD-3"}},
		{"decimal lte", FilterClause{Field: "Total", Op: OpLessOrEqual, Value: "120.00"}, []string{"ORD-1", "ORD-2"}},
		{"decimal equals", FilterClause{Field: "Total", Op: OpEquals, Value: "200"}, []string{"ORD-3"}},
		{"int greater than", FilterClause{Field: "Quantity", Op: OpGreaterThan, Value: "2"}, []string{"ORD-2", "ORD-3"}},
		{"time lower bound", FilterClause{Field: "PlacedAt", Op: OpGreaterOrEqual, Value: "2026-03-02"}, []string{"ORD-2", "ORD-3"}},
		{"time rfc3339", FilterClause{Field: "PlacedAt", Op: OpLessThan, Value: "2026-03-02T00:00:00Z"}, []string{"ORD-1"}},
		{"bool equals", FilterClause{Field: "Paid", Op: OpEquals, Value: "true"}, []string{"ORD-1", "ORD-3"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assertNumbers(t, matchedNumbers(t, []FilterClause{tc.clause}), tc.want)
		})
	}

	t.Log("✓ typed predicate tests passed")
}

func TestCompileFiltersCombination(t *testing.T) {
	// Same field ORs, different fields AND.
	clauses := []FilterClause{
		{Field: "Customer", Op: OpContains, Value: "ann"},
		{Field: "Customer", Op: OpContains, Value: "bob"},
		{Field: "Total", Op: OpGreaterOrEqual, Value: "100"},
	}
	assertNumbers(t, matchedNumbers(t, clauses), []string{"ORD-2", "ORD-3"})
}

func TestCompileFiltersNilMatchesAll(t *testing.T) {
	assertNumbers(t, matchedNumbers(t, nil), []string{"ORD-1", "ORD-2", "ORD-3"})
}

func TestCompileFiltersUnknownField(t *testing.T) {
	_, err := orderFields().CompileFilters([]FilterClause{{Field: "Foo", Op: OpEquals, Value: "x"}})
	if !errors.Is(err, ErrUnknownField) {
		t.Fatalf("got %v, want ErrUnknownField", err)
	}
	if !strings.Contains(err.Error(), "Foo") {
		t.Errorf("error %q does not name the field", err)
	}
}

func TestCompileFiltersCoercionFailure(t *testing.T) {
	cases := []FilterClause{
		{Field: "Total", Op: OpEquals, Value: "abc"},
		{Field: "Quantity", Op: OpEquals, Value: "1.5"},
		{Field: "PlacedAt", Op: OpEquals, Value: "yesterday"},
		{Field: "Paid", Op: OpEquals, Value: "maybe"},
	}
	for _, clause := range cases {
		_, err := orderFields().CompileFilters([]FilterClause{clause})
		if !errors.Is(err, ErrInvalidValue) {
			t.Errorf("field %s value %q: got %v, want ErrInvalidValue", clause.Field, clause.Value, err)
			continue
		}
		if !strings.Contains(err.Error(), clause.Field) || !strings.Contains(err.Error(), clause.Value) {
			t.Errorf("error %q does not name field and value", err)
		}
	}
}

func TestCompileFiltersUnsupportedOperation(t *testing.T) {
	cases := []FilterClause{
		{Field: "Total", Op: OpContains, Value: "1"},
		{Field: "Quantity", Op: OpStartsWith, Value: "1"},
		{Field: "Paid", Op: OpGreaterThan, Value: "true"},
	}
	for _, clause := range cases {
		if _, err := orderFields().CompileFilters([]FilterClause{clause}); !errors.Is(err, ErrUnsupportedOperation) {
			t.Errorf("%s on %s: got %v, want ErrUnsupportedOperation", clause.Op, clause.Field, err)
		}
	}
}

func sortedNumbers(t *testing.T, clauses []SortClause) []string {
	t.Helper()
	page, err := orderFields().Select(testOrders(), nil, clauses, 1, 10)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	numbers := make([]string, len(page.Items))
	for i, o := range page.Items {
		numbers[i] = o.Number
	}
	return numbers
}

func TestCompileSort(t *testing.T) {
	got := sortedNumbers(t, []SortClause{{Field: "Total", Direction: Descending}})
	assertNumbers(t, got, []string{"ORD-3", "ORD-2", "ORD-1"})

	got = sortedNumbers(t, []SortClause{{Field: "customer"}})
	assertNumbers(t, got, []string{"ORD-1", "ORD-3", "ORD-2"})

	t.Log("✓ sort comparator tests passed")
}

func TestCompileSortDefault(t *testing.T) {
	// Default orders newest first.
	assertNumbers(t, sortedNumbers(t, nil), []string{"ORD-3", "ORD-2", "ORD-1"})
}

func TestCompileSortSecondaryKey(t *testing.T) {
	orders := []order{
		{Number: "A", Customer: "Same", Total: decimal.NewFromInt(10)},
		{Number: "B", Customer: "Same", Total: decimal.NewFromInt(30)},
		{Number: "C", Customer: "Other", Total: decimal.NewFromInt(20)},
	}
	cmp, err := orderFields().CompileSort([]SortClause{
		{Field: "Customer"},
		{Field: "Total", Direction: Descending},
	})
	if err != nil {
		t.Fatalf("CompileSort failed: %v", err)
	}
	if !(cmp(orders[2], orders[0]) < 0) {
		t.Error("primary key not applied")
	}
	if !(cmp(orders[1], orders[0]) < 0) {
		t.Error("secondary key not applied within equal primary")
	}
}

func TestCompileSortUnknownField(t *testing.T) {
	if _, err := orderFields().CompileSort([]SortClause{{Field: "Nope"}}); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("got %v, want ErrUnknownField", err)
	}
}
