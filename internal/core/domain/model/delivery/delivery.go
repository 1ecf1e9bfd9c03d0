package delivery

import (
	"errors"
	"fmt"
	"time"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/errs"
)

// ErrDeliveryIsNotConstructed is returned when a Delivery was not built by NewDelivery or RestoreDelivery.
var ErrDeliveryIsNotConstructed = errors.New("delivery must be created via NewDelivery or RestoreDelivery")

// Delivery is the aggregate root of a tracked shipment.
//
// Invariants kept by every method:
//   - history is never empty and its last entry matches the current status
//   - history is append-only
//   - pricing never changes after creation
//   - status only changes through Transition
type Delivery struct {
	id          kernel.UUID
	deliveryID  kernel.DeliveryID
	ownerID     kernel.UUID
	customer    Customer
	pickup      Address
	destination Address
	parcel      Parcel
	schedule    Schedule
	route       *RouteInfo
	pricing     Pricing

	status   Status
	history  []StatusEntry
	tracking Tracking

	isActive  bool
	createdAt time.Time
	updatedAt time.Time
	version   int

	isConstructed bool
}

// Draft carries everything needed to open a new delivery.
type Draft struct {
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
	ActorID     string
	CreatedAt   time.Time
}

// NewDelivery opens a delivery in Scheduled with a single history entry.
//
//	d, err := delivery.NewDelivery(delivery.Draft{
//	    ID: kernel.NewUUID(), DeliveryID: id, OwnerID: owner,
//	    Customer: c, Pickup: from, Destination: to,
//	    Parcel: p, Schedule: s, Pricing: price, CreatedAt: now,
//	})
func NewDelivery(draft Draft) (*Delivery, error) {
	var errCreated error
	if draft.CreatedAt.IsZero() {
		errCreated = errs.NewValueIsRequiredError("createdAt")
	}

	if err := errors.Join(
		draft.ID.Validate(),
		draft.DeliveryID.Validate(),
		draft.OwnerID.Validate(),
		draft.Customer.Validate(),
		draft.Pickup.Validate(),
		draft.Destination.Validate(),
		draft.Parcel.Validate(),
		draft.Schedule.Validate(),
		validateRoute(draft.Route),
		draft.Pricing.Validate(),
		errCreated,
	); err != nil {
		return nil, err
	}

	now := draft.CreatedAt.UTC()
	first, err := NewStatusEntry(Scheduled, now, draft.Pickup.String(), "Delivery scheduled", draft.ActorID)
	if err != nil {
		return nil, err
	}

	return &Delivery{
		id:            draft.ID,
		deliveryID:    draft.DeliveryID,
		ownerID:       draft.OwnerID,
		customer:      draft.Customer,
		pickup:        draft.Pickup,
		destination:   draft.Destination,
		parcel:        draft.Parcel,
		schedule:      draft.Schedule,
		route:         copyPtr(draft.Route),
		pricing:       draft.Pricing,
		status:        Scheduled,
		history:       []StatusEntry{first},
		isActive:      true,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}, nil
}

// Validate ensures the delivery was created through NewDelivery or RestoreDelivery.
func (d *Delivery) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDeliveryIsNotConstructed
	}
	return nil
}

func (d *Delivery) ID() kernel.UUID               { return d.id }
func (d *Delivery) DeliveryID() kernel.DeliveryID { return d.deliveryID }
func (d *Delivery) OwnerID() kernel.UUID          { return d.ownerID }
func (d *Delivery) Customer() Customer            { return d.customer }
func (d *Delivery) Pickup() Address               { return d.pickup }
func (d *Delivery) Destination() Address          { return d.destination }
func (d *Delivery) Parcel() Parcel                { return d.parcel }
func (d *Delivery) Schedule() Schedule            { return d.schedule }
func (d *Delivery) Route() *RouteInfo             { return copyPtr(d.route) }
func (d *Delivery) Pricing() Pricing              { return d.pricing }
func (d *Delivery) Status() Status                { return d.status }
func (d *Delivery) Tracking() Tracking            { return d.tracking }
func (d *Delivery) IsActive() bool                { return d.isActive }
func (d *Delivery) CreatedAt() time.Time          { return d.createdAt }
func (d *Delivery) UpdatedAt() time.Time          { return d.updatedAt }

// Version is the storage version the aggregate was loaded at.
func (d *Delivery) Version() int { return d.version }

// History returns a copy of the status history, oldest first.
func (d *Delivery) History() []StatusEntry {
	out := make([]StatusEntry, len(d.history))
	copy(out, d.history)
	return out
}

// IsCompleted reports whether the parcel was delivered.
func (d *Delivery) IsCompleted() bool { return d.status == Delivered }

func (d *Delivery) IsInProgress() bool { return d.status.IsInProgress() }

// Age is the time elapsed since creation.
func (d *Delivery) Age(now time.Time) time.Duration { return now.Sub(d.createdAt) }

// Priority derives from the schedule urgency.
func (d *Delivery) Priority() Priority { return d.schedule.Priority() }

// IsOverdue reports an open delivery whose planned delivery date has passed.
func (d *Delivery) IsOverdue(now time.Time) bool {
	return d.isActive && !d.status.IsTerminal() && now.After(d.schedule.DeliveryDate())
}

// Transition moves the delivery to target and appends a history entry.
// Entering Picked Up or Delivered sets the matching tracking timestamp once.
func (d *Delivery) Transition(target Status, location, notes, actorID string, now time.Time) error {
	if err := d.Validate(); err != nil {
		return err
	}

	next, err := d.status.TransitionTo(target)
	if err != nil {
		return err
	}

	entry, err := NewStatusEntry(next, now, location, notes, actorID)
	if err != nil {
		return err
	}

	d.history = append(d.history, entry)
	d.status = next

	stamp := entry.Timestamp()
	switch next {
	case PickedUp:
		if d.tracking.actualPickupTime == nil {
			d.tracking.actualPickupTime = &stamp
		}
	case Delivered:
		if d.tracking.actualDeliveredTime == nil {
			d.tracking.actualDeliveredTime = &stamp
		}
	}

	d.updatedAt = stamp
	return nil
}

// UpdateTracking replaces the current location and/or the ETA.
// At least one must be given; nothing is written when validation fails.
func (d *Delivery) UpdateTracking(location *CurrentLocation, estimatedArrival *time.Time, now time.Time) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if location == nil && estimatedArrival == nil {
		return errs.NewValueIsRequiredError("tracking")
	}
	if location != nil {
		if err := location.Validate(); err != nil {
			return err
		}
	}

	now = now.UTC()
	if location != nil {
		loc := *location
		loc.timestamp = now
		d.tracking.currentLocation = &loc
	}
	if estimatedArrival != nil {
		d.tracking.estimatedArrival = utcPtr(estimatedArrival)
	}

	d.updatedAt = now
	return nil
}

// AttachProof stores completion evidence. Only allowed once Delivered.
func (d *Delivery) AttachProof(proof Proof, now time.Time) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if err := proof.Validate(); err != nil {
		return err
	}
	if d.status != Delivered {
		return errs.NewInvalidStateError("attach delivery proof", d.status.String(), Delivered.String())
	}

	now = now.UTC()
	proof.timestamp = now
	d.tracking.proof = &proof
	d.updatedAt = now
	return nil
}

// Archive hides the delivery from standard queries. Status and history are untouched.
func (d *Delivery) Archive(now time.Time) error {
	if err := d.Validate(); err != nil {
		return err
	}
	d.isActive = false
	d.updatedAt = now.UTC()
	return nil
}

func (d *Delivery) String() string {
	return fmt.Sprintf("Delivery(%s, %s)", d.deliveryID, d.status)
}

func validateRoute(r *RouteInfo) error {
	if r == nil {
		return nil
	}
	return r.Validate()
}
