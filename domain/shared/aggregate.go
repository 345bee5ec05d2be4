package shared

// AggregateRoot is the entry point of an aggregate. It owns the consistency
// boundary: every modification of entities inside the aggregate goes through
// the root, and the root records the domain events those modifications raise.
type AggregateRoot interface {
	// ID returns the globally unique identity of the aggregate root.
	ID() string

	// Version returns the optimistic-lock version used for concurrency control.
	Version() int

	// PullEvents returns the buffered domain events and clears the buffer.
	// The unit of work calls this exactly once per successful commit; the
	// events are then persisted to the outbox inside the same transaction.
	PullEvents() []DomainEvent
}

// Entity has a unique identity; equality is by ID, not by attributes.
type Entity interface {
	ID() string
}

// ValueObject is immutable and compared by attribute values.
type ValueObject interface {
	Equals(other interface{}) bool
}
