package sale

import (
	"time"

	"sales-service/pkg/query"

	"github.com/shopspring/decimal"
)

// saleFields is the queryable surface of SaleResponse. Listing filters and
// sorts resolve against this registry; a field missing here is a client
// error, not a silent no-op. Without an explicit sort the newest sales come
// first.
var saleFields = query.NewFieldSet[SaleResponse]().
	String("Id", func(s SaleResponse) string { return s.ID }).
	String("SaleNumber", func(s SaleResponse) string { return s.SaleNumber }).
	Time("SaleDate", func(s SaleResponse) time.Time { return s.SaleDate }).
	String("CustomerId", func(s SaleResponse) string { return s.CustomerID }).
	String("CustomerName", func(s SaleResponse) string { return s.CustomerName }).
	String("BranchId", func(s SaleResponse) string { return s.BranchID }).
	String("BranchName", func(s SaleResponse) string { return s.BranchName }).
	Decimal("TotalAmount", func(s SaleResponse) decimal.Decimal { return s.TotalAmount }).
	String("Status", func(s SaleResponse) string { return s.Status }).
	Int("NumberOfItems", func(s SaleResponse) int64 { return int64(s.NumberOfItems) }).
	DefaultSort(query.SortClause{Field: "SaleDate", Direction: query.Descending})
