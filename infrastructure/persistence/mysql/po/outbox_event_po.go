package po

import (
	"encoding/json"
	"time"

	"sales-service/domain/sale"
	"sales-service/domain/shared"

	"github.com/google/uuid"
)

// OutboxEventPO stores a domain event for the transactional outbox. Events
// are written in the same transaction as the aggregate and relayed by the
// outbox worker.
type OutboxEventPO struct {
	ID          string    `gorm:"primaryKey;size:64"`
	AggregateID string    `gorm:"size:64;index;not null"`
	EventType   string    `gorm:"size:100;index;not null"`
	Payload     string    `gorm:"type:json;not null"`
	Status      string    `gorm:"size:20;default:PENDING;not null"`
	RetryCount  int       `gorm:"default:0;not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (OutboxEventPO) TableName() string {
	return "outbox_events"
}

// EventStatus is the outbox delivery state.
type EventStatus string

const (
	EventStatusPending    EventStatus = "PENDING"
	EventStatusProcessing EventStatus = "PROCESSING"
	EventStatusPublished  EventStatus = "PUBLISHED"
	EventStatusFailed     EventStatus = "FAILED"
)

// FromDomainEvent converts a domain event into an outbox row. The payload
// is a flat JSON document; consumers must not need the domain types to
// decode it.
func FromDomainEvent(event shared.DomainEvent) (*OutboxEventPO, error) {
	payload, err := serializeEventPayload(event)
	if err != nil {
		return nil, err
	}

	return &OutboxEventPO{
		ID:          uuid.New().String(),
		AggregateID: event.GetAggregateID(),
		EventType:   event.EventName(),
		Payload:     payload,
		Status:      string(EventStatusPending),
		RetryCount:  0,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}, nil
}

func serializeEventPayload(event shared.DomainEvent) (string, error) {
	payload := map[string]interface{}{
		"event_name":  event.EventName(),
		"sale_id":     event.GetAggregateID(),
		"occurred_on": event.OccurredOn(),
	}

	switch e := event.(type) {
	case sale.SaleCreatedEvent:
		payload["sale_number"] = e.SaleNumber
		payload["sale_date"] = e.SaleDate
		payload["customer_id"] = e.CustomerID
		payload["branch_id"] = e.BranchID
		payload["total_amount"] = e.TotalAmount
	case sale.SaleModifiedEvent:
		payload["sale_number"] = e.SaleNumber
		payload["customer_id"] = e.CustomerID
		payload["branch_id"] = e.BranchID
	case sale.SaleCompletedEvent:
		payload["sale_number"] = e.SaleNumber
		payload["total_amount"] = e.TotalAmount
	case sale.SaleCancelledEvent:
		payload["sale_number"] = e.SaleNumber
	case sale.SaleItemAddedEvent:
		payload["sale_number"] = e.SaleNumber
		payload["item_id"] = e.ItemID
		payload["product_id"] = e.ProductID
		payload["quantity"] = e.Quantity
		payload["item_total"] = e.ItemTotal
		payload["total_amount"] = e.TotalAmount
	case sale.SaleItemCancelledEvent:
		payload["sale_number"] = e.SaleNumber
		payload["item_id"] = e.ItemID
		payload["product_id"] = e.ProductID
		payload["total_amount"] = e.TotalAmount
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ToEventData decodes the payload, mainly for tests and debugging.
func (po *OutboxEventPO) ToEventData() (map[string]interface{}, error) {
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(po.Payload), &data); err != nil {
		return nil, err
	}
	return data, nil
}
