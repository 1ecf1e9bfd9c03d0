// Package commands contains the operations that change deliveries.
// Every handler validates its command, runs inside a unit of work and
// raises alerts only after the transaction committed.
package commands

import (
	"context"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/ports"
)

type (
	// TxManager handles the transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// DeliveryRepoFactory provides the delivery repository bound to the transaction.
	DeliveryRepoFactory interface {
		DeliveryRepository() ports.DeliveryRepository
	}

	// DeliveryUoW is the unit of work used by every delivery command.
	//
	//	uow := factory.Create()
	//	if err := uow.Begin(ctx); err != nil {
	//	    return err
	//	}
	//	defer uow.Rollback(ctx)
	//	// ... load, mutate, save through uow.DeliveryRepository()
	//	return uow.Commit(ctx)
	DeliveryUoW interface {
		TxManager
		DeliveryRepoFactory
	}

	// DeliveryUoWFactory creates a fresh unit of work per attempt.
	DeliveryUoWFactory interface {
		Create() DeliveryUoW
	}

	// StatsInvalidator drops cached rollups of an owner after a write.
	StatsInvalidator interface {
		Invalidate(ctx context.Context, ownerID kernel.UUID) error
	}
)

type noopStats struct{}

func (noopStats) Invalidate(context.Context, kernel.UUID) error { return nil }

func orNoopStats(s StatsInvalidator) StatsInvalidator {
	if s == nil {
		return noopStats{}
	}
	return s
}
