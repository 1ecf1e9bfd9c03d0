package ports

import (
	"context"
)

// UnitOfWorkFactory creates a UnitOfWork per command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a transaction boundary.
// Rollback after Commit changes nothing; handlers defer it and ignore its error.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	// DeliveryRepository is bound to the transaction opened by Begin.
	DeliveryRepository() DeliveryRepository
}
