package sale

import "context"

// Repository is the persistence port for the Sale aggregate.
//
// Save persists the full aggregate, items included, using the sale version
// as an optimistic lock; it returns ErrConcurrentModification when the
// stored version no longer matches. Implementations run inside the ambient
// transaction when one is present on the context.
type Repository interface {
	Save(ctx context.Context, s *Sale) error
	FindByID(ctx context.Context, id string) (*Sale, error)
	FindBySaleNumber(ctx context.Context, saleNumber string) (*Sale, error)
	FindAll(ctx context.Context) ([]*Sale, error)
	Remove(ctx context.Context, id string) error
}
