package sale

import (
	"time"

	"sales-service/domain/shared"

	"github.com/shopspring/decimal"
)

// Event names published through the outbox.
const (
	EventSaleCreated       = "sale.created"
	EventSaleModified      = "sale.modified"
	EventSaleCompleted     = "sale.completed"
	EventSaleCancelled     = "sale.cancelled"
	EventSaleItemAdded     = "sale.item_added"
	EventSaleItemCancelled = "sale.item_cancelled"
)

type baseEvent struct {
	saleID     string
	occurredOn time.Time
}

func (e baseEvent) GetAggregateID() string { return e.saleID }
func (e baseEvent) OccurredOn() time.Time  { return e.occurredOn }

func newBaseEvent(saleID string) baseEvent {
	return baseEvent{saleID: saleID, occurredOn: time.Now()}
}

// SaleCreatedEvent is raised once, when the sale aggregate is constructed.
type SaleCreatedEvent struct {
	baseEvent
	SaleNumber  string
	SaleDate    time.Time
	CustomerID  string
	BranchID    string
	TotalAmount decimal.Decimal
}

func (e SaleCreatedEvent) EventName() string { return EventSaleCreated }

// SaleModifiedEvent is raised when customer or branch details change.
type SaleModifiedEvent struct {
	baseEvent
	SaleNumber string
	CustomerID string
	BranchID   string
}

func (e SaleModifiedEvent) EventName() string { return EventSaleModified }

// SaleCompletedEvent is raised when an active sale is completed.
type SaleCompletedEvent struct {
	baseEvent
	SaleNumber  string
	TotalAmount decimal.Decimal
}

func (e SaleCompletedEvent) EventName() string { return EventSaleCompleted }

// SaleCancelledEvent is raised when the whole sale is cancelled.
type SaleCancelledEvent struct {
	baseEvent
	SaleNumber string
}

func (e SaleCancelledEvent) EventName() string { return EventSaleCancelled }

// SaleItemAddedEvent is raised for each item added to the sale.
type SaleItemAddedEvent struct {
	baseEvent
	SaleNumber  string
	ItemID      string
	ProductID   string
	Quantity    int
	ItemTotal   decimal.Decimal
	TotalAmount decimal.Decimal
}

func (e SaleItemAddedEvent) EventName() string { return EventSaleItemAdded }

// SaleItemCancelledEvent is raised when a single item is cancelled.
type SaleItemCancelledEvent struct {
	baseEvent
	SaleNumber  string
	ItemID      string
	ProductID   string
	TotalAmount decimal.Decimal
}

func (e SaleItemCancelledEvent) EventName() string { return EventSaleItemCancelled }

var (
	_ shared.DomainEvent = SaleCreatedEvent{}
	_ shared.DomainEvent = SaleModifiedEvent{}
	_ shared.DomainEvent = SaleCompletedEvent{}
	_ shared.DomainEvent = SaleCancelledEvent{}
	_ shared.DomainEvent = SaleItemAddedEvent{}
	_ shared.DomainEvent = SaleItemCancelledEvent{}
)
