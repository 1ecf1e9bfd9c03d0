package commands

import (
	"context"
	"errors"

	"parceltrack/internal/core/domain/model/alert"
	"parceltrack/internal/core/domain/model/delivery"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/ports"
	"parceltrack/internal/pkg/errs"

	"go.uber.org/zap"
)

// MaxWriteAttempts bounds the read-modify-write retries on a version conflict.
const MaxWriteAttempts = 3

// mutateDelivery loads the owned delivery, applies change and saves it in one transaction.
// The whole cycle is repeated when another writer got there first.
func mutateDelivery(
	ctx context.Context,
	factory DeliveryUoWFactory,
	ownerID kernel.UUID,
	id kernel.DeliveryID,
	change func(d *delivery.Delivery) error,
) (*delivery.Delivery, error) {
	var err error
	for range MaxWriteAttempts {
		var d *delivery.Delivery
		d, err = mutateOnce(ctx, factory, ownerID, id, change)
		if err == nil {
			return d, nil
		}
		if !errors.Is(err, errs.ErrVersionIsInvalid) || ctx.Err() != nil {
			return nil, err
		}
	}
	return nil, err
}

func mutateOnce(
	ctx context.Context,
	factory DeliveryUoWFactory,
	ownerID kernel.UUID,
	id kernel.DeliveryID,
	change func(d *delivery.Delivery) error,
) (*delivery.Delivery, error) {
	uow := factory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.DeliveryRepository()
	d, err := repo.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if err = change(d); err != nil {
		return nil, err
	}

	if err = repo.Update(ctx, d); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return d, nil
}

// afterCommit hands alerts to the emitter and drops cached stats.
// Neither step can fail the already committed operation; failures are logged.
func afterCommit(
	ctx context.Context,
	logger *zap.Logger,
	emitter ports.AlertEmitter,
	stats StatsInvalidator,
	ownerID kernel.UUID,
	alerts []alert.Alert,
	alertsErr error,
) {
	ctx = context.WithoutCancel(ctx)
	if err := stats.Invalidate(ctx, ownerID); err != nil {
		logger.Warn("Stats invalidation failed", zap.String("owner_id", ownerID.String()), zap.Error(err))
	}
	if alertsErr != nil {
		logger.Error("Alerts could not be built", zap.String("owner_id", ownerID.String()), zap.Error(alertsErr))
	}
	if len(alerts) > 0 {
		emitter.Emit(ctx, alerts...)
	}
}

func orNopLogger(logger *zap.Logger, component string) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger.With(zap.String("component", component))
}
