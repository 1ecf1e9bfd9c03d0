package commands

import (
	"errors"

	"parceltrack/internal/core/domain/model/kernel"
)

// ownedDelivery addresses one delivery of one owner. Every mutating command embeds it.
type ownedDelivery struct {
	ownerID    kernel.UUID
	deliveryID kernel.DeliveryID
}

func newOwnedDelivery(ownerID kernel.UUID, deliveryID kernel.DeliveryID) (ownedDelivery, error) {
	if err := errors.Join(ownerID.Validate(), deliveryID.Validate()); err != nil {
		return ownedDelivery{}, err
	}
	return ownedDelivery{ownerID: ownerID, deliveryID: deliveryID}, nil
}

func (o ownedDelivery) OwnerID() kernel.UUID          { return o.ownerID }
func (o ownedDelivery) DeliveryID() kernel.DeliveryID { return o.deliveryID }
