package delivery

import (
	"errors"
	"time"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/errs"
)

// Snapshot is the full persisted state of a Delivery.
// Stores keep snapshots and rebuild aggregates with RestoreDelivery.
type Snapshot struct {
	ID          kernel.UUID
	DeliveryID  kernel.DeliveryID
	OwnerID     kernel.UUID
	Customer    Customer
	Pickup      Address
	Destination Address
	Parcel      Parcel
	Schedule    Schedule
	Route       *RouteInfo
	Pricing     Pricing
	Status      Status
	History     []StatusEntry
	Tracking    Tracking
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Version     int
}

// Snapshot copies the current state. The history slice is not shared.
func (d *Delivery) Snapshot() Snapshot {
	return Snapshot{
		ID:          d.id,
		DeliveryID:  d.deliveryID,
		OwnerID:     d.ownerID,
		Customer:    d.customer,
		Pickup:      d.pickup,
		Destination: d.destination,
		Parcel:      d.parcel,
		Schedule:    d.schedule,
		Route:       copyPtr(d.route),
		Pricing:     d.pricing,
		Status:      d.status,
		History:     d.History(),
		Tracking:    d.tracking,
		IsActive:    d.isActive,
		CreatedAt:   d.createdAt,
		UpdatedAt:   d.updatedAt,
		Version:     d.version,
	}
}

// RestoreDelivery rebuilds an aggregate from storage and re-checks its invariants.
func RestoreDelivery(s Snapshot) (*Delivery, error) {
	var errHistory error
	switch {
	case len(s.History) == 0:
		errHistory = errs.NewValueIsRequiredError("history")
	case s.History[len(s.History)-1].Status() != s.Status:
		errHistory = errs.NewValueIsInvalidErrorWithCause("history",
			errors.New("last history entry does not match current status"))
	}

	var errVersion error
	if s.Version < 0 {
		errVersion = errs.NewValueIsOutOfRangeError("version", s.Version, 0, "+Inf")
	}

	if err := errors.Join(
		s.ID.Validate(),
		s.DeliveryID.Validate(),
		s.OwnerID.Validate(),
		s.Customer.Validate(),
		s.Pickup.Validate(),
		s.Destination.Validate(),
		s.Parcel.Validate(),
		s.Schedule.Validate(),
		validateRoute(s.Route),
		s.Pricing.Validate(),
		s.Status.Validate(),
		errHistory,
		errVersion,
	); err != nil {
		return nil, err
	}

	history := make([]StatusEntry, len(s.History))
	copy(history, s.History)

	return &Delivery{
		id:            s.ID,
		deliveryID:    s.DeliveryID,
		ownerID:       s.OwnerID,
		customer:      s.Customer,
		pickup:        s.Pickup,
		destination:   s.Destination,
		parcel:        s.Parcel,
		schedule:      s.Schedule,
		route:         copyPtr(s.Route),
		pricing:       s.Pricing,
		status:        s.Status,
		history:       history,
		tracking:      s.Tracking,
		isActive:      s.IsActive,
		createdAt:     s.CreatedAt.UTC(),
		updatedAt:     s.UpdatedAt.UTC(),
		version:       s.Version,
		isConstructed: true,
	}, nil
}
