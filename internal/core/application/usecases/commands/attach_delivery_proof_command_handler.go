package commands

import (
	"context"

	"parceltrack/internal/core/domain/model/delivery"
	"parceltrack/internal/pkg/clock"
)

// AttachDeliveryProofCommandHandler fails with errs.ErrInvalidState unless the delivery is Delivered.
type AttachDeliveryProofCommandHandler struct {
	uowFactory DeliveryUoWFactory
	clock      clock.Clock
}

// NewAttachDeliveryProofCommandHandler creates a handler for proof-of-delivery uploads.
func NewAttachDeliveryProofCommandHandler(uowFactory DeliveryUoWFactory, clk clock.Clock) AttachDeliveryProofCommandHandler {
	return AttachDeliveryProofCommandHandler{uowFactory: uowFactory, clock: clk}
}

// Handle stores the proof. It fails with errs.ErrInvalidState unless the delivery is Delivered.
func (h AttachDeliveryProofCommandHandler) Handle(
	ctx context.Context,
	cmd AttachDeliveryProofCommand,
) (*delivery.Delivery, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return mutateDelivery(ctx, h.uowFactory, cmd.OwnerID(), cmd.DeliveryID(), func(d *delivery.Delivery) error {
		return d.AttachProof(cmd.Proof(), h.clock.Now())
	})
}
