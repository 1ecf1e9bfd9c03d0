package commands

import (
	"context"

	"parceltrack/internal/core/domain/model/delivery"
	"parceltrack/internal/pkg/clock"
)

// ArchiveDeliveryCommandHandler hides a delivery from every later read and write.
// Archiving an already archived delivery reports errs.ErrObjectNotFound.
type ArchiveDeliveryCommandHandler struct {
	uowFactory DeliveryUoWFactory
	clock      clock.Clock
	stats      StatsInvalidator
}

// NewArchiveDeliveryCommandHandler creates a handler for soft deletes. stats may be nil.
func NewArchiveDeliveryCommandHandler(
	uowFactory DeliveryUoWFactory,
	clk clock.Clock,
	stats StatsInvalidator,
) ArchiveDeliveryCommandHandler {
	return ArchiveDeliveryCommandHandler{uowFactory: uowFactory, clock: clk, stats: orNoopStats(stats)}
}

// Handle archives the delivery and drops the owner's cached rollups.
func (h ArchiveDeliveryCommandHandler) Handle(ctx context.Context, cmd ArchiveDeliveryCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	_, err := mutateDelivery(ctx, h.uowFactory, cmd.OwnerID(), cmd.DeliveryID(), func(d *delivery.Delivery) error {
		return d.Archive(h.clock.Now())
	})
	if err != nil {
		return err
	}

	_ = h.stats.Invalidate(context.WithoutCancel(ctx), cmd.OwnerID())
	return nil
}
