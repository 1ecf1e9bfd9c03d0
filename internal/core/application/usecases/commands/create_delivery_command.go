package commands

import (
	"errors"
	"strings"

	"parceltrack/internal/core/domain/model/delivery"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/services"
	"parceltrack/internal/pkg/guard"
)

var ErrCreateDeliveryCommandIsNotConstructed = errors.New(
	"CreateDeliveryCommand must be created via NewCreateDeliveryCommand constructor",
)

// CreateDeliveryCommand opens a delivery for an owner.
// Value objects arrive already validated; the constructor checks they were built properly.
type CreateDeliveryCommand struct { //nolint:recvcheck //using for validation
	ownerID     kernel.UUID
	actorID     string
	customer    delivery.Customer
	pickup      delivery.Address
	destination delivery.Address
	parcel      delivery.Parcel
	schedule    delivery.Schedule
	route       *delivery.RouteInfo
	provided    *services.ProvidedPricing

	guard guard.ConstructorGuard
}

// CreateDeliveryParams groups the inputs of NewCreateDeliveryCommand.
// Route and ProvidedPricing are optional.
type CreateDeliveryParams struct {
	OwnerID         kernel.UUID
	ActorID         string
	Customer        delivery.Customer
	Pickup          delivery.Address
	Destination     delivery.Address
	Parcel          delivery.Parcel
	Schedule        delivery.Schedule
	Route           *delivery.RouteInfo
	ProvidedPricing *services.ProvidedPricing
}

// NewCreateDeliveryCommand checks that every required part of the new delivery is present.
func NewCreateDeliveryCommand(p CreateDeliveryParams) (CreateDeliveryCommand, error) {
	var errRoute error
	if p.Route != nil {
		errRoute = p.Route.Validate()
	}

	if err := errors.Join(
		p.OwnerID.Validate(),
		p.Customer.Validate(),
		p.Pickup.Validate(),
		p.Destination.Validate(),
		p.Parcel.Validate(),
		p.Schedule.Validate(),
		errRoute,
	); err != nil {
		return CreateDeliveryCommand{}, err
	}

	cmd := CreateDeliveryCommand{
		ownerID:     p.OwnerID,
		actorID:     strings.TrimSpace(p.ActorID),
		customer:    p.Customer,
		pickup:      p.Pickup,
		destination: p.Destination,
		parcel:      p.Parcel,
		schedule:    p.Schedule,
		guard:       guard.NewConstructorGuard(),
	}
	if p.Route != nil {
		r := *p.Route
		cmd.route = &r
	}
	if p.ProvidedPricing != nil {
		pp := *p.ProvidedPricing
		cmd.provided = &pp
	}
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCreateDeliveryCommandIsNotConstructed)
}

func (c CreateDeliveryCommand) OwnerID() kernel.UUID                       { return c.ownerID }
func (c CreateDeliveryCommand) ActorID() string                            { return c.actorID }
func (c CreateDeliveryCommand) Customer() delivery.Customer                { return c.customer }
func (c CreateDeliveryCommand) Pickup() delivery.Address                   { return c.pickup }
func (c CreateDeliveryCommand) Destination() delivery.Address              { return c.destination }
func (c CreateDeliveryCommand) Parcel() delivery.Parcel                    { return c.parcel }
func (c CreateDeliveryCommand) Schedule() delivery.Schedule                { return c.schedule }
func (c CreateDeliveryCommand) Route() *delivery.RouteInfo                 { return c.route }
func (c CreateDeliveryCommand) ProvidedPricing() *services.ProvidedPricing { return c.provided }
