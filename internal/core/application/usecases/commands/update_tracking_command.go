package commands

import (
	"errors"
	"time"

	"parceltrack/internal/core/domain/model/delivery"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/errs"
	"parceltrack/internal/pkg/guard"
)

var ErrUpdateTrackingCommandIsNotConstructed = errors.New(
	"UpdateTrackingCommand must be created via NewUpdateTrackingCommand constructor",
)

// UpdateTrackingCommand replaces the live location and/or the ETA of a delivery.
type UpdateTrackingCommand struct { //nolint:recvcheck //using for validation
	ownedDelivery
	location         *delivery.CurrentLocation
	estimatedArrival *time.Time

	guard guard.ConstructorGuard
}

// NewUpdateTrackingCommand requires location or estimatedArrival.
func NewUpdateTrackingCommand(
	ownerID kernel.UUID,
	deliveryID kernel.DeliveryID,
	location *delivery.CurrentLocation,
	estimatedArrival *time.Time,
) (UpdateTrackingCommand, error) {
	owned, errOwned := newOwnedDelivery(ownerID, deliveryID)

	var errTracking error
	switch {
	case location == nil && estimatedArrival == nil:
		errTracking = errs.NewValueIsRequiredError("tracking")
	case location != nil:
		errTracking = location.Validate()
	}

	if err := errors.Join(errOwned, errTracking); err != nil {
		return UpdateTrackingCommand{}, err
	}

	cmd := UpdateTrackingCommand{ownedDelivery: owned, guard: guard.NewConstructorGuard()}
	if location != nil {
		loc := *location
		cmd.location = &loc
	}
	if estimatedArrival != nil {
		eta := *estimatedArrival
		cmd.estimatedArrival = &eta
	}
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateTrackingCommand) Validate() error {
	return c.guard.Validate(ErrUpdateTrackingCommandIsNotConstructed)
}

func (c UpdateTrackingCommand) Location() *delivery.CurrentLocation { return c.location }
func (c UpdateTrackingCommand) EstimatedArrival() *time.Time        { return c.estimatedArrival }
