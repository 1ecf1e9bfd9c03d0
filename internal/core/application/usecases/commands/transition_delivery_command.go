package commands

import (
	"errors"
	"strings"

	"parceltrack/internal/core/domain/model/delivery"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/guard"
)

var ErrTransitionDeliveryCommandIsNotConstructed = errors.New(
	"TransitionDeliveryCommand must be created via NewTransitionDeliveryCommand constructor",
)

// TransitionDeliveryCommand moves a delivery to a new status.
//
// The target is not checked here: an unknown target is reported as an invalid
// transition by the aggregate, after ownership has been established.
type TransitionDeliveryCommand struct { //nolint:recvcheck //using for validation
	ownedDelivery
	target   delivery.Status
	location string
	notes    string
	actorID  string

	guard guard.ConstructorGuard
}

// NewTransitionDeliveryCommand creates a status change request. location, notes and actorID are optional.
func NewTransitionDeliveryCommand(
	ownerID kernel.UUID,
	deliveryID kernel.DeliveryID,
	target delivery.Status,
	location, notes, actorID string,
) (TransitionDeliveryCommand, error) {
	owned, err := newOwnedDelivery(ownerID, deliveryID)
	if err != nil {
		return TransitionDeliveryCommand{}, err
	}

	return TransitionDeliveryCommand{
		ownedDelivery: owned,
		target:        target,
		location:      strings.TrimSpace(location),
		notes:         strings.TrimSpace(notes),
		actorID:       strings.TrimSpace(actorID),
		guard:         guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c TransitionDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrTransitionDeliveryCommandIsNotConstructed)
}

func (c TransitionDeliveryCommand) Target() delivery.Status { return c.target }
func (c TransitionDeliveryCommand) Location() string        { return c.location }
func (c TransitionDeliveryCommand) Notes() string           { return c.notes }
func (c TransitionDeliveryCommand) ActorID() string         { return c.actorID }
