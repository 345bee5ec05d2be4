package sale

import (
	"fmt"
	"strings"
	"time"

	"sales-service/domain/shared"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a sale.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// Sale is the aggregate root for a retail sale transaction. All state is
// private; mutations go through methods that enforce the lifecycle rules and
// keep the total amount consistent with the items. A mutation either fully
// applies or leaves the aggregate untouched.
type Sale struct {
	id         string
	saleNumber string
	saleDate   time.Time

	customerID   string
	customerName string
	branchID     string
	branchName   string

	totalAmount shared.Money
	status      Status
	items       []*Item

	version int
	events  []shared.DomainEvent
}

// NewSale creates an active sale with a generated identity. A blank
// saleNumber is replaced with a generated one; a caller-supplied number is
// kept, with uniqueness enforced by storage. At least one item is required;
// items are bound to the sale and the total is computed before the creation
// event is raised.
func NewSale(saleDate time.Time, saleNumber, customerID, customerName, branchID, branchName string, items []*Item) (*Sale, error) {
	if customerID == "" {
		return nil, &shared.DomainError{
			Err:     shared.ErrInvalidInput,
			Entity:  "Sale",
			Field:   "customerID",
			Message: "customer ID is required",
		}
	}
	if branchID == "" {
		return nil, &shared.DomainError{
			Err:     shared.ErrInvalidInput,
			Entity:  "Sale",
			Field:   "branchID",
			Message: "branch ID is required",
		}
	}
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	if saleDate.IsZero() {
		saleDate = time.Now()
	}
	if saleNumber == "" {
		saleNumber = generateSaleNumber(saleDate)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate sale ID: %w", err)
	}

	s := &Sale{
		id:           id.String(),
		saleNumber:   saleNumber,
		saleDate:     saleDate,
		customerID:   customerID,
		customerName: customerName,
		branchID:     branchID,
		branchName:   branchName,
		totalAmount:  shared.ZeroMoney(),
		status:       StatusActive,
	}

	for _, item := range items {
		if err := s.attachItem(item); err != nil {
			return nil, err
		}
	}
	s.recalculateTotal()

	s.recordEvent(SaleCreatedEvent{
		baseEvent:   newBaseEvent(s.id),
		SaleNumber:  s.saleNumber,
		SaleDate:    s.saleDate,
		CustomerID:  s.customerID,
		BranchID:    s.branchID,
		TotalAmount: s.totalAmount.Amount(),
	})

	return s, nil
}

// generateSaleNumber builds a human-readable sale number. The format is
// cosmetic; uniqueness comes from the random suffix plus a unique constraint
// in storage.
func generateSaleNumber(saleDate time.Time) string {
	suffix := strings.ToUpper(uuid.NewString()[:4])
	return fmt.Sprintf("SALE-%s-%s", saleDate.Format("20060102150405"), suffix)
}

// attachItem binds an item to this sale, rejecting duplicates.
func (s *Sale) attachItem(item *Item) error {
	for _, existing := range s.items {
		if existing.ID() == item.ID() {
			return ErrDuplicateItem
		}
	}
	if err := item.SetSaleID(s.id); err != nil {
		return err
	}
	s.items = append(s.items, item)
	return nil
}

// AddItem adds a line item to a non-cancelled sale and raises an item_added
// event.
func (s *Sale) AddItem(item *Item) error {
	if err := s.ensureModifiable(); err != nil {
		return err
	}
	if err := s.attachItem(item); err != nil {
		return err
	}
	s.recalculateTotal()

	s.recordEvent(SaleItemAddedEvent{
		baseEvent:   newBaseEvent(s.id),
		SaleNumber:  s.saleNumber,
		ItemID:      item.ID(),
		ProductID:   item.ProductID(),
		Quantity:    item.Quantity(),
		ItemTotal:   item.TotalAmount().Amount(),
		TotalAmount: s.totalAmount.Amount(),
	})
	return nil
}

// CancelItem cancels a single line item and recomputes the sale total.
func (s *Sale) CancelItem(itemID string) error {
	if err := s.ensureModifiable(); err != nil {
		return err
	}
	item := s.findItem(itemID)
	if item == nil {
		return NewItemNotFoundError(s.id, itemID)
	}
	if err := item.Cancel(); err != nil {
		return err
	}
	s.recalculateTotal()

	s.recordEvent(SaleItemCancelledEvent{
		baseEvent:   newBaseEvent(s.id),
		SaleNumber:  s.saleNumber,
		ItemID:      item.ID(),
		ProductID:   item.ProductID(),
		TotalAmount: s.totalAmount.Amount(),
	})
	return nil
}

// UpdateItemQuantity changes the quantity of a line item.
func (s *Sale) UpdateItemQuantity(itemID string, quantity int) error {
	if err := s.ensureModifiable(); err != nil {
		return err
	}
	item := s.findItem(itemID)
	if item == nil {
		return NewItemNotFoundError(s.id, itemID)
	}
	if err := item.UpdateQuantity(quantity); err != nil {
		return err
	}
	s.recalculateTotal()
	return nil
}

// Cancel cancels the sale and cascades to every non-cancelled item.
// The sale total drops to zero.
func (s *Sale) Cancel() error {
	if s.status == StatusCancelled {
		return ErrSaleAlreadyCancelled
	}
	s.status = StatusCancelled
	for _, item := range s.items {
		if !item.IsCancelled() {
			// The only error Cancel can return is already-cancelled,
			// which the guard above excludes.
			_ = item.Cancel()
		}
	}
	s.recalculateTotal()

	s.recordEvent(SaleCancelledEvent{
		baseEvent:  newBaseEvent(s.id),
		SaleNumber: s.saleNumber,
	})
	return nil
}

// Complete finishes an active sale.
func (s *Sale) Complete() error {
	if s.status != StatusActive {
		return ErrSaleNotActive
	}
	s.status = StatusCompleted

	s.recordEvent(SaleCompletedEvent{
		baseEvent:   newBaseEvent(s.id),
		SaleNumber:  s.saleNumber,
		TotalAmount: s.totalAmount.Amount(),
	})
	return nil
}

// UpdateCustomerDetails changes the customer reference on a non-cancelled
// sale.
func (s *Sale) UpdateCustomerDetails(customerID, customerName string) error {
	if err := s.ensureModifiable(); err != nil {
		return err
	}
	if customerID == "" {
		return &shared.DomainError{
			Err:     shared.ErrInvalidInput,
			Entity:  "Sale",
			Field:   "customerID",
			Message: "customer ID is required",
		}
	}
	s.customerID = customerID
	s.customerName = customerName
	s.recordModified()
	return nil
}

// UpdateBranchDetails changes the branch reference on a non-cancelled sale.
func (s *Sale) UpdateBranchDetails(branchID, branchName string) error {
	if err := s.ensureModifiable(); err != nil {
		return err
	}
	if branchID == "" {
		return &shared.DomainError{
			Err:     shared.ErrInvalidInput,
			Entity:  "Sale",
			Field:   "branchID",
			Message: "branch ID is required",
		}
	}
	s.branchID = branchID
	s.branchName = branchName
	s.recordModified()
	return nil
}

func (s *Sale) recordModified() {
	s.recordEvent(SaleModifiedEvent{
		baseEvent:  newBaseEvent(s.id),
		SaleNumber: s.saleNumber,
		CustomerID: s.customerID,
		BranchID:   s.branchID,
	})
}

// Cancellation is the only state that freezes the sale. A completed sale can
// still take item changes until it is cancelled, and cancelling remains open
// to it.
func (s *Sale) ensureModifiable() error {
	if s.status == StatusCancelled {
		return ErrSaleCancelled
	}
	return nil
}

// recalculateTotal sums the item totals. Cancelled items carry zero totals,
// so they contribute nothing.
func (s *Sale) recalculateTotal() {
	total := shared.ZeroMoney()
	for _, item := range s.items {
		total = total.Add(item.TotalAmount())
	}
	s.totalAmount = total
}

func (s *Sale) findItem(itemID string) *Item {
	for _, item := range s.items {
		if item.ID() == itemID {
			return item
		}
	}
	return nil
}

func (s *Sale) recordEvent(event shared.DomainEvent) {
	s.events = append(s.events, event)
}

// PullEvents returns the buffered domain events and clears the buffer.
// The unit of work drains events exactly once per transaction.
func (s *Sale) PullEvents() []shared.DomainEvent {
	events := s.events
	s.events = nil
	return events
}

func (s *Sale) ID() string                { return s.id }
func (s *Sale) SaleNumber() string        { return s.saleNumber }
func (s *Sale) SaleDate() time.Time       { return s.saleDate }
func (s *Sale) CustomerID() string        { return s.customerID }
func (s *Sale) CustomerName() string      { return s.customerName }
func (s *Sale) BranchID() string          { return s.branchID }
func (s *Sale) BranchName() string        { return s.branchName }
func (s *Sale) TotalAmount() shared.Money { return s.totalAmount }
func (s *Sale) Status() Status            { return s.status }
func (s *Sale) Version() int              { return s.version }

// Items returns a copy of the item slice. The items themselves are shared,
// so callers must not mutate them outside the aggregate.
func (s *Sale) Items() []*Item {
	items := make([]*Item, len(s.items))
	copy(items, s.items)
	return items
}

// Item returns a single line item by ID, or nil.
func (s *Sale) Item(itemID string) *Item {
	return s.findItem(itemID)
}

// IncrementVersionForSave bumps the optimistic lock version. Only the
// repository calls this, after a successful conditional update.
func (s *Sale) IncrementVersionForSave() {
	s.version++
}

var _ shared.AggregateRoot = (*Sale)(nil)

// ReconstructionDTO rebuilds a Sale from storage without running creation
// side effects. No events are raised during reconstruction.
type ReconstructionDTO struct {
	ID           string
	SaleNumber   string
	SaleDate     time.Time
	CustomerID   string
	CustomerName string
	BranchID     string
	BranchName   string
	TotalAmount  shared.Money
	Status       Status
	Items        []ItemReconstructionDTO
	Version      int
}

// RebuildFromDTO reconstructs a Sale from persisted state.
func RebuildFromDTO(dto ReconstructionDTO) *Sale {
	items := make([]*Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		items = append(items, RebuildItemFromDTO(itemDTO))
	}
	return &Sale{
		id:           dto.ID,
		saleNumber:   dto.SaleNumber,
		saleDate:     dto.SaleDate,
		customerID:   dto.CustomerID,
		customerName: dto.CustomerName,
		branchID:     dto.BranchID,
		branchName:   dto.BranchName,
		totalAmount:  dto.TotalAmount,
		status:       dto.Status,
		items:        items,
		version:      dto.Version,
	}
}
