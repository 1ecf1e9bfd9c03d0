package commands

import (
	"context"

	"parceltrack/internal/core/domain/model/delivery"
	"parceltrack/internal/pkg/clock"
)

// UpdateTrackingCommandHandler writes live tracking data. It raises no alerts.
type UpdateTrackingCommandHandler struct {
	uowFactory DeliveryUoWFactory
	clock      clock.Clock
}

// NewUpdateTrackingCommandHandler creates a handler for live tracking updates.
func NewUpdateTrackingCommandHandler(uowFactory DeliveryUoWFactory, clk clock.Clock) UpdateTrackingCommandHandler {
	return UpdateTrackingCommandHandler{uowFactory: uowFactory, clock: clk}
}

// Handle replaces the current location and ETA of the delivery. Status is left alone.
func (h UpdateTrackingCommandHandler) Handle(ctx context.Context, cmd UpdateTrackingCommand) (*delivery.Delivery, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return mutateDelivery(ctx, h.uowFactory, cmd.OwnerID(), cmd.DeliveryID(), func(d *delivery.Delivery) error {
		return d.UpdateTracking(cmd.Location(), cmd.EstimatedArrival(), h.clock.Now())
	})
}
