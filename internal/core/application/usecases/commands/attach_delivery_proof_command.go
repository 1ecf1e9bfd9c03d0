package commands

import (
	"errors"

	"parceltrack/internal/core/domain/model/delivery"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/guard"
)

var ErrAttachDeliveryProofCommandIsNotConstructed = errors.New(
	"AttachDeliveryProofCommand must be created via NewAttachDeliveryProofCommand constructor",
)

// AttachDeliveryProofCommand stores signature, photo and notes for a delivered parcel.
type AttachDeliveryProofCommand struct { //nolint:recvcheck //using for validation
	ownedDelivery
	proof delivery.Proof

	guard guard.ConstructorGuard
}

// NewAttachDeliveryProofCommand creates a proof-of-delivery request. Every evidence field is optional.
func NewAttachDeliveryProofCommand(
	ownerID kernel.UUID,
	deliveryID kernel.DeliveryID,
	signature, photo, notes string,
) (AttachDeliveryProofCommand, error) {
	owned, err := newOwnedDelivery(ownerID, deliveryID)
	if err != nil {
		return AttachDeliveryProofCommand{}, err
	}

	return AttachDeliveryProofCommand{
		ownedDelivery: owned,
		proof:         delivery.NewProof(signature, photo, notes),
		guard:         guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c AttachDeliveryProofCommand) Validate() error {
	return c.guard.Validate(ErrAttachDeliveryProofCommandIsNotConstructed)
}

func (c AttachDeliveryProofCommand) Proof() delivery.Proof { return c.proof }
