package mysql

import (
	"sales-service/domain/shared"
	"sales-service/infrastructure/persistence/retry"

	"gorm.io/gorm"
)

// UnitOfWorkFactory builds a fresh unit of work per request. Units of work
// hold per-transaction state and must not be shared across requests.
type UnitOfWorkFactory struct {
	db          *gorm.DB
	retryConfig retry.Config
}

func NewUnitOfWorkFactory(db *gorm.DB, retryConfig retry.Config) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{db: db, retryConfig: retryConfig}
}

func (f *UnitOfWorkFactory) New() shared.UnitOfWork {
	uow := NewUnitOfWork(f.db)
	uow.SetRetryConfig(f.retryConfig)
	return uow
}

var _ shared.UnitOfWorkFactory = (*UnitOfWorkFactory)(nil)
