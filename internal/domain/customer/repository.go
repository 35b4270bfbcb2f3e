package customer

import (
	"context"
	"customer-service/internal/pkg/apperrors"
	"fmt"
)

var (
	ErrNotFound = fmt.Errorf("customer %w", apperrors.ErrNotFound)

	ErrAlreadyExists = fmt.Errorf("customer %w", apperrors.ErrAlreadyExists)
)

// CustomerRepository is the storage port for customers. FindByID and
// FindByIDForUpdate return (nil, nil) when no row matches.
type CustomerRepository interface {
	FindAll(ctx context.Context) ([]*Customer, error)

	FindByID(ctx context.Context, id string) (*Customer, error)

	FindByIDForUpdate(ctx context.Context, id string) (*Customer, error)

	Insert(ctx context.Context, customer *Customer) error

	Update(ctx context.Context, customer *Customer) error

	Delete(ctx context.Context, id string) error

	Count(ctx context.Context) (int64, error)
}

// Transactor runs fn in a single database transaction. Repository calls made
// with the context passed to fn join that transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
