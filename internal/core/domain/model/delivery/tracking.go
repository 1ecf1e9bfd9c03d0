package delivery

import (
	"strings"
	"time"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/errs"
	"parceltrack/internal/pkg/guard"
)

var (
	ErrCurrentLocationIsNotConstructed = errs.NewValueIsRequiredError("current location must be created via NewCurrentLocation")
	ErrProofIsNotConstructed           = errs.NewValueIsRequiredError("proof must be created via NewProof")
)

// CurrentLocation is the last reported position of the parcel.
// The timestamp is set by the aggregate when the location is applied.
type CurrentLocation struct {
	coordinates *kernel.Location
	address     string
	timestamp   time.Time
	guard       guard.ConstructorGuard
}

// NewCurrentLocation requires coordinates or an address.
func NewCurrentLocation(coordinates *kernel.Location, address string) (CurrentLocation, error) {
	address = strings.TrimSpace(address)
	if coordinates == nil && address == "" {
		return CurrentLocation{}, errs.NewValueIsRequiredError("tracking.currentLocation")
	}

	c := CurrentLocation{address: address, guard: guard.NewConstructorGuard()}
	if coordinates != nil {
		if err := coordinates.Validate(); err != nil {
			return CurrentLocation{}, err
		}
		loc := *coordinates
		c.coordinates = &loc
	}
	return c, nil
}

// RestoreCurrentLocation rebuilds a stored location with its original timestamp.
func RestoreCurrentLocation(coordinates *kernel.Location, address string, timestamp time.Time) (CurrentLocation, error) {
	c, err := NewCurrentLocation(coordinates, address)
	if err != nil {
		return CurrentLocation{}, err
	}
	c.timestamp = timestamp.UTC()
	return c, nil
}

func (c CurrentLocation) Validate() error {
	return c.guard.Validate(ErrCurrentLocationIsNotConstructed)
}

func (c CurrentLocation) Address() string      { return c.address }
func (c CurrentLocation) Timestamp() time.Time { return c.timestamp }

func (c CurrentLocation) Coordinates() *kernel.Location {
	if c.coordinates == nil {
		return nil
	}
	loc := *c.coordinates
	return &loc
}

// Proof is the completion evidence. All fields are optional.
type Proof struct {
	signature string
	photo     string
	notes     string
	timestamp time.Time
	guard     guard.ConstructorGuard
}

// NewProof builds delivery evidence. The timestamp is stamped when it is attached.
func NewProof(signature, photo, notes string) Proof {
	return Proof{
		signature: strings.TrimSpace(signature),
		photo:     strings.TrimSpace(photo),
		notes:     strings.TrimSpace(notes),
		guard:     guard.NewConstructorGuard(),
	}
}

// RestoreProof rebuilds stored evidence with its original timestamp.
func RestoreProof(signature, photo, notes string, timestamp time.Time) Proof {
	p := NewProof(signature, photo, notes)
	p.timestamp = timestamp.UTC()
	return p
}

func (p Proof) Validate() error {
	return p.guard.Validate(ErrProofIsNotConstructed)
}

func (p Proof) Signature() string    { return p.signature }
func (p Proof) Photo() string        { return p.photo }
func (p Proof) Notes() string        { return p.notes }
func (p Proof) Timestamp() time.Time { return p.timestamp }

// Tracking groups the live sub-records of a delivery.
// Each part is replaced wholesale; none is merged field by field.
// The zero value is an empty tracking record.
type Tracking struct {
	currentLocation     *CurrentLocation
	estimatedArrival    *time.Time
	actualPickupTime    *time.Time
	actualDeliveredTime *time.Time
	proof               *Proof
}

// RestoreTracking rebuilds stored tracking data as is.
func RestoreTracking(
	currentLocation *CurrentLocation,
	estimatedArrival, actualPickupTime, actualDeliveredTime *time.Time,
	proof *Proof,
) Tracking {
	return Tracking{
		currentLocation:     copyPtr(currentLocation),
		estimatedArrival:    utcPtr(estimatedArrival),
		actualPickupTime:    utcPtr(actualPickupTime),
		actualDeliveredTime: utcPtr(actualDeliveredTime),
		proof:               copyPtr(proof),
	}
}

func (t Tracking) CurrentLocation() *CurrentLocation { return copyPtr(t.currentLocation) }
func (t Tracking) EstimatedArrival() *time.Time      { return copyPtr(t.estimatedArrival) }
func (t Tracking) ActualPickupTime() *time.Time      { return copyPtr(t.actualPickupTime) }
func (t Tracking) ActualDeliveredTime() *time.Time   { return copyPtr(t.actualDeliveredTime) }
func (t Tracking) Proof() *Proof                     { return copyPtr(t.proof) }

// DeliveryDuration is the time between pickup and delivery.
// ok is false unless both timestamps are set.
func (t Tracking) DeliveryDuration() (d time.Duration, ok bool) {
	if t.actualPickupTime == nil || t.actualDeliveredTime == nil {
		return 0, false
	}
	return t.actualDeliveredTime.Sub(*t.actualPickupTime), true
}

func copyPtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
