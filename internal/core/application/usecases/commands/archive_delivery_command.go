package commands

import (
	"errors"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/guard"
)

var ErrArchiveDeliveryCommandIsNotConstructed = errors.New(
	"ArchiveDeliveryCommand must be created via NewArchiveDeliveryCommand constructor",
)

// ArchiveDeliveryCommand soft-deletes a delivery.
type ArchiveDeliveryCommand struct { //nolint:recvcheck //using for validation
	ownedDelivery

	guard guard.ConstructorGuard
}

// NewArchiveDeliveryCommand creates a command hiding deliveryID of ownerID.
func NewArchiveDeliveryCommand(ownerID kernel.UUID, deliveryID kernel.DeliveryID) (ArchiveDeliveryCommand, error) {
	owned, err := newOwnedDelivery(ownerID, deliveryID)
	if err != nil {
		return ArchiveDeliveryCommand{}, err
	}
	return ArchiveDeliveryCommand{ownedDelivery: owned, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
func (c ArchiveDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrArchiveDeliveryCommandIsNotConstructed)
}
