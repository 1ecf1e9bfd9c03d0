package delivery

import (
	"errors"
	"fmt"
	"math"
	"time"

	"parceltrack/internal/pkg/errs"
	"parceltrack/internal/pkg/guard"
)

var (
	ErrScheduleIsNotConstructed  = errs.NewValueIsRequiredError("schedule must be created via NewSchedule")
	ErrRouteInfoIsNotConstructed = errs.NewValueIsRequiredError("route info must be created via NewRouteInfo")
)

// TimeSlot is the preferred delivery window within the delivery date.
type TimeSlot string

const (
	SlotMorning   TimeSlot = "morning"
	SlotAfternoon TimeSlot = "afternoon"
	SlotEvening   TimeSlot = "evening"
	SlotAnytime   TimeSlot = "anytime"
)

func (s TimeSlot) Validate() error {
	switch s {
	case SlotMorning, SlotAfternoon, SlotEvening, SlotAnytime:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("schedule.timeSlot", fmt.Errorf("unknown time slot %q", string(s)))
	}
}

// Priority is derived from the urgency flag of the schedule.
type Priority string

const (
	PriorityStandard Priority = "standard"
	PriorityUrgent   Priority = "urgent"
)

// Priorities lists every priority in display order.
func Priorities() []Priority {
	return []Priority{PriorityUrgent, PriorityStandard}
}

// Schedule holds the planned pickup and delivery dates.
type Schedule struct {
	pickupDate   time.Time
	deliveryDate time.Time
	timeSlot     TimeSlot
	urgent       bool
	guard        guard.ConstructorGuard
}

// NewSchedule requires both dates, with delivery not before pickup.
// An empty slot defaults to SlotAnytime.
func NewSchedule(pickupDate, deliveryDate time.Time, timeSlot TimeSlot, urgent bool) (Schedule, error) {
	if timeSlot == "" {
		timeSlot = SlotAnytime
	}

	var errPickup, errDelivery error
	if pickupDate.IsZero() {
		errPickup = errs.NewValueIsRequiredError("schedule.pickupDate")
	}
	if deliveryDate.IsZero() {
		errDelivery = errs.NewValueIsRequiredError("schedule.deliveryDate")
	} else if errPickup == nil && deliveryDate.Before(pickupDate) {
		errDelivery = errs.NewValueIsInvalidErrorWithCause("schedule.deliveryDate",
			errors.New("delivery date is before pickup date"))
	}

	if err := errors.Join(errPickup, errDelivery, timeSlot.Validate()); err != nil {
		return Schedule{}, err
	}

	return Schedule{
		pickupDate:   pickupDate.UTC(),
		deliveryDate: deliveryDate.UTC(),
		timeSlot:     timeSlot,
		urgent:       urgent,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (s Schedule) Validate() error {
	return s.guard.Validate(ErrScheduleIsNotConstructed)
}

func (s Schedule) PickupDate() time.Time   { return s.pickupDate }
func (s Schedule) DeliveryDate() time.Time { return s.deliveryDate }
func (s Schedule) TimeSlot() TimeSlot      { return s.timeSlot }
func (s Schedule) Urgent() bool            { return s.urgent }

func (s Schedule) Priority() Priority {
	if s.urgent {
		return PriorityUrgent
	}
	return PriorityStandard
}

// RouteInfo is caller-supplied trip data. DistanceKm is nil when unknown.
type RouteInfo struct {
	distanceKm        *float64
	estimatedDuration time.Duration
	optimized         bool
	guard             guard.ConstructorGuard
}

// NewRouteInfo describes the planned route. A nil distance means it is unknown.
func NewRouteInfo(distanceKm *float64, estimatedDuration time.Duration, optimized bool) (RouteInfo, error) {
	r := RouteInfo{
		optimized: optimized,
		guard:     guard.NewConstructorGuard(),
	}

	var errDistance, errDuration error
	if distanceKm != nil {
		d := *distanceKm
		if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
			errDistance = errs.NewValueIsOutOfRangeError("routeInfo.distanceKm", d, 0, "+Inf")
		}
		r.distanceKm = &d
	}
	if estimatedDuration < 0 {
		errDuration = errs.NewValueIsOutOfRangeError("routeInfo.estimatedDuration", estimatedDuration, 0, "+Inf")
	}
	r.estimatedDuration = estimatedDuration

	if err := errors.Join(errDistance, errDuration); err != nil {
		return RouteInfo{}, err
	}
	return r, nil
}

func (r RouteInfo) Validate() error {
	return r.guard.Validate(ErrRouteInfoIsNotConstructed)
}

// DistanceKm returns a copy of the declared distance, or nil.
func (r RouteInfo) DistanceKm() *float64 {
	if r.distanceKm == nil {
		return nil
	}
	d := *r.distanceKm
	return &d
}

func (r RouteInfo) EstimatedDuration() time.Duration { return r.estimatedDuration }
func (r RouteInfo) Optimized() bool                  { return r.optimized }
