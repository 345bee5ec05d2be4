package mocks

import (
	"context"

	"sales-service/domain/shared"
)

// MockUnitOfWork executes the use case without a real transaction. Drained
// events are recorded so tests can assert on what would have reached the
// outbox.
type MockUnitOfWork struct {
	aggregates    []shared.AggregateRoot
	DrainedEvents []shared.DomainEvent
}

func NewMockUnitOfWork() *MockUnitOfWork {
	return &MockUnitOfWork{
		aggregates: make([]shared.AggregateRoot, 0),
	}
}

func (u *MockUnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	u.aggregates = make([]shared.AggregateRoot, 0)

	if err := fn(ctx); err != nil {
		return err
	}

	for _, agg := range u.aggregates {
		u.DrainedEvents = append(u.DrainedEvents, agg.PullEvents()...)
	}
	return nil
}

func (u *MockUnitOfWork) RegisterNew(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

func (u *MockUnitOfWork) RegisterDirty(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

func (u *MockUnitOfWork) RegisterRemoved(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

var _ shared.UnitOfWork = (*MockUnitOfWork)(nil)

// MockUnitOfWorkFactory hands out a shared mock unit of work so tests can
// inspect drained events after the use case returns.
type MockUnitOfWorkFactory struct {
	UoW *MockUnitOfWork
}

func NewMockUnitOfWorkFactory() *MockUnitOfWorkFactory {
	return &MockUnitOfWorkFactory{UoW: NewMockUnitOfWork()}
}

func (f *MockUnitOfWorkFactory) New() shared.UnitOfWork {
	return f.UoW
}

var _ shared.UnitOfWorkFactory = (*MockUnitOfWorkFactory)(nil)
