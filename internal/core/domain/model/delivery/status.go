package delivery

import (
	"fmt"

	"parceltrack/internal/pkg/errs"
)

// Status is the lifecycle state of a delivery.
//
//	Scheduled ──> Picked Up ──> In Transit ──> Out for Delivery ──┬──> Delivered
//	    │                                                         ├──> Failed
//	    └───────────── any non-terminal state may jump ──────────┴──> Cancelled
//
// Steps may be skipped or repeated; only Delivered, Failed and Cancelled are closed.
type Status int

const (
	// Unknown is the zero value and any unrecognized name.
	Unknown Status = iota
	Scheduled
	PickedUp
	InTransit
	OutForDelivery
	Delivered
	Failed
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "Unknown",
		Scheduled:      "Scheduled",
		PickedUp:       "Picked Up",
		InTransit:      "In Transit",
		OutForDelivery: "Out for Delivery",
		Delivered:      "Delivered",
		Failed:         "Failed",
		Cancelled:      "Cancelled",
	}
}

// AllStatuses lists the recognized states in lifecycle order.
func AllStatuses() []Status {
	return []Status{Scheduled, PickedUp, InTransit, OutForDelivery, Delivered, Failed, Cancelled}
}

// StatusFromString maps a display name to its Status, or Unknown.
func StatusFromString(s string) Status {
	for status, name := range getStatusStrings() {
		if status != Unknown && name == s {
			return status
		}
	}
	return Unknown
}

// ParseStatus is StatusFromString that fails for unrecognized names.
func ParseStatus(s string) (Status, error) {
	status := StatusFromString(s)
	if err := status.Validate(); err != nil {
		return Unknown, err
	}
	return status, nil
}

// Validate fails for Unknown and out-of-range values.
func (s Status) Validate() error {
	if s <= Unknown || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether no further transition is allowed.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Failed || s == Cancelled
}

// IsInProgress reports whether the parcel has left the sender but not arrived.
func (s Status) IsInProgress() bool {
	return s == PickedUp || s == InTransit || s == OutForDelivery
}

// TransitionTo returns target when the move is allowed.
// A terminal current state or an unrecognized target yields an InvalidTransition error.
func (s Status) TransitionTo(target Status) (Status, error) {
	if s.IsTerminal() || target.Validate() != nil {
		return Unknown, errs.NewInvalidTransitionError(s.String(), target.String())
	}
	return target, nil
}
