package shared

import "context"

// UnitOfWork manages the transaction boundary and collects domain events
// from the aggregates registered during one logical unit of work. After the
// business function succeeds, registered aggregates are drained exactly once
// and their events persisted to the outbox inside the same transaction.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
	RegisterNew(aggregate AggregateRoot)
	RegisterDirty(aggregate AggregateRoot)
	RegisterRemoved(aggregate AggregateRoot)
}

type UnitOfWorkFactory interface {
	New() UnitOfWork
}

// OutboxRepository persists domain events for later asynchronous publishing.
type OutboxRepository interface {
	SaveEvent(ctx context.Context, event DomainEvent) error
}
