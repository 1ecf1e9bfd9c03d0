package http

import (
	"errors"
	"time"

	"parceltrack/internal/core/application/usecases/commands"
	"parceltrack/internal/core/application/usecases/queries"
	"parceltrack/internal/core/domain/model/delivery"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/services"

	"github.com/shopspring/decimal"
)

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (c *Coordinates) location() (*kernel.Location, error) {
	if c == nil {
		return nil, nil //nolint:nilnil // coordinates are optional
	}
	loc, err := kernel.NewLocation(c.Lat, c.Lng)
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

func coordinatesOf(loc *kernel.Location) *Coordinates {
	if loc == nil {
		return nil
	}
	return &Coordinates{Lat: loc.Latitude(), Lng: loc.Longitude()}
}

type Customer struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   string `json:"phone,omitempty"`
	Company string `json:"company,omitempty"`
}

type Address struct {
	Street      string       `json:"street" validate:"required"`
	City        string       `json:"city" validate:"required"`
	State       string       `json:"state,omitempty"`
	PostalCode  string       `json:"postalCode,omitempty"`
	Country     string       `json:"country,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

func (a Address) toDomain() (delivery.Address, error) {
	loc, err := a.Coordinates.location()
	if err != nil {
		return delivery.Address{}, err
	}
	return delivery.NewAddress(a.Street, a.City, a.State, a.PostalCode, a.Country, loc)
}

func addressOf(a delivery.Address) Address {
	return Address{
		Street:      a.Street(),
		City:        a.City(),
		State:       a.State(),
		PostalCode:  a.PostalCode(),
		Country:     a.Country(),
		Coordinates: coordinatesOf(a.Coordinates()),
	}
}

type Dimensions struct {
	Length float64 `json:"length" validate:"gt=0"`
	Width  float64 `json:"width" validate:"gt=0"`
	Height float64 `json:"height" validate:"gt=0"`
}

type Package struct {
	Type        string      `json:"type" validate:"required"`
	Weight      float64     `json:"weight" validate:"gt=0"`
	Dimensions  *Dimensions `json:"dimensions,omitempty"`
	Fragile     bool        `json:"fragile"`
	Description string      `json:"description,omitempty"`
}

func (p Package) toDomain() (delivery.Parcel, error) {
	var dims *delivery.Dimensions
	if p.Dimensions != nil {
		d, err := delivery.NewDimensions(p.Dimensions.Length, p.Dimensions.Width, p.Dimensions.Height)
		if err != nil {
			return delivery.Parcel{}, err
		}
		dims = &d
	}
	return delivery.NewParcel(delivery.PackageType(p.Type), p.Weight, dims, p.Fragile, p.Description)
}

type Schedule struct {
	PickupDate   time.Time `json:"pickupDate" validate:"required"`
	DeliveryDate time.Time `json:"deliveryDate" validate:"required"`
	TimeSlot     string    `json:"timeSlot,omitempty"`
	Priority     string    `json:"priority,omitempty" validate:"omitempty,oneof=standard urgent"`
}

func (s Schedule) toDomain() (delivery.Schedule, error) {
	urgent := delivery.Priority(s.Priority) == delivery.PriorityUrgent
	return delivery.NewSchedule(s.PickupDate, s.DeliveryDate, delivery.TimeSlot(s.TimeSlot), urgent)
}

type RouteInfo struct {
	DistanceKm               *float64 `json:"distanceKm,omitempty"`
	EstimatedDurationMinutes int      `json:"estimatedDurationMinutes,omitempty" validate:"gte=0"`
	Optimized                bool     `json:"optimized"`
}

func (r *RouteInfo) toDomain() (*delivery.RouteInfo, error) {
	if r == nil {
		return nil, nil //nolint:nilnil // route is optional
	}
	route, err := delivery.NewRouteInfo(r.DistanceKm, time.Duration(r.EstimatedDurationMinutes)*time.Minute, r.Optimized)
	if err != nil {
		return nil, err
	}
	return &route, nil
}

type ProvidedPricing struct {
	BaseCost            *float64 `json:"baseCost,omitempty"`
	DistanceCost        *float64 `json:"distanceCost,omitempty"`
	WeightCost          *float64 `json:"weightCost,omitempty"`
	SpecialHandlingCost *float64 `json:"specialHandlingCost,omitempty"`
	TotalCost           *float64 `json:"totalCost,omitempty"`
}

// CreateDeliveryRequest is the body of POST /api/v1/deliveries.
type CreateDeliveryRequest struct {
	Customer        Customer         `json:"customer" validate:"required"`
	PickupAddress   Address          `json:"pickupAddress" validate:"required"`
	DeliveryAddress Address          `json:"deliveryAddress" validate:"required"`
	Package         Package          `json:"package" validate:"required"`
	Schedule        Schedule         `json:"schedule" validate:"required"`
	RouteInfo       *RouteInfo       `json:"routeInfo,omitempty"`
	Pricing         *ProvidedPricing `json:"pricing,omitempty"`
}

func (r CreateDeliveryRequest) toCommand(p principalIDs) (commands.CreateDeliveryCommand, error) {
	customer, errCustomer := delivery.NewCustomer(r.Customer.Name, r.Customer.Email, r.Customer.Phone, r.Customer.Company)
	pickup, errPickup := r.PickupAddress.toDomain()
	destination, errDestination := r.DeliveryAddress.toDomain()
	parcel, errParcel := r.Package.toDomain()
	schedule, errSchedule := r.Schedule.toDomain()
	route, errRoute := r.RouteInfo.toDomain()

	if err := errors.Join(errCustomer, errPickup, errDestination, errParcel, errSchedule, errRoute); err != nil {
		return commands.CreateDeliveryCommand{}, err
	}

	params := commands.CreateDeliveryParams{
		OwnerID:     p.ownerID,
		ActorID:     p.actorID,
		Customer:    customer,
		Pickup:      pickup,
		Destination: destination,
		Parcel:      parcel,
		Schedule:    schedule,
		Route:       route,
	}
	if r.Pricing != nil {
		params.ProvidedPricing = &services.ProvidedPricing{
			BaseCost:            r.Pricing.BaseCost,
			DistanceCost:        r.Pricing.DistanceCost,
			WeightCost:          r.Pricing.WeightCost,
			SpecialHandlingCost: r.Pricing.SpecialHandlingCost,
			TotalCost:           r.Pricing.TotalCost,
		}
	}
	return commands.NewCreateDeliveryCommand(params)
}

type principalIDs struct {
	ownerID kernel.UUID
	actorID string
}

// TransitionRequest is the body of POST /api/v1/deliveries/{deliveryId}/transitions.
type TransitionRequest struct {
	Status   string `json:"status" validate:"required"`
	Location string `json:"location,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

type TrackedLocation struct {
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	Address     string       `json:"address,omitempty"`
}

// TrackingRequest is the body of PUT /api/v1/deliveries/{deliveryId}/tracking.
type TrackingRequest struct {
	CurrentLocation  *TrackedLocation `json:"currentLocation,omitempty"`
	EstimatedArrival *time.Time       `json:"estimatedArrival,omitempty"`
}

func (r TrackingRequest) location() (*delivery.CurrentLocation, error) {
	if r.CurrentLocation == nil {
		return nil, nil //nolint:nilnil // location is optional
	}
	coords, err := r.CurrentLocation.Coordinates.location()
	if err != nil {
		return nil, err
	}
	loc, err := delivery.NewCurrentLocation(coords, r.CurrentLocation.Address)
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

// ProofRequest is the body of POST /api/v1/deliveries/{deliveryId}/proof.
type ProofRequest struct {
	Signature string `json:"signature,omitempty"`
	Photo     string `json:"photo,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

type PackageView struct {
	Type        string      `json:"type"`
	Weight      float64     `json:"weight"`
	Dimensions  *Dimensions `json:"dimensions,omitempty"`
	Fragile     bool        `json:"fragile"`
	Description string      `json:"description,omitempty"`
}

type ScheduleView struct {
	PickupDate   time.Time `json:"pickupDate"`
	DeliveryDate time.Time `json:"deliveryDate"`
	TimeSlot     string    `json:"timeSlot"`
	Priority     string    `json:"priority"`
}

type PricingView struct {
	BaseCost            decimal.Decimal `json:"baseCost"`
	DistanceCost        decimal.Decimal `json:"distanceCost"`
	WeightCost          decimal.Decimal `json:"weightCost"`
	SpecialHandlingCost decimal.Decimal `json:"specialHandlingCost"`
	TotalCost           decimal.Decimal `json:"totalCost"`
}

type StatusEntryView struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Location  string    `json:"location,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	UpdatedBy string    `json:"updatedBy,omitempty"`
}

type TrackedLocationView struct {
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	Address     string       `json:"address,omitempty"`
	Timestamp   time.Time    `json:"timestamp"`
}

type ProofView struct {
	Signature string    `json:"signature,omitempty"`
	Photo     string    `json:"photo,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type TrackingView struct {
	CurrentLocation     *TrackedLocationView `json:"currentLocation,omitempty"`
	EstimatedArrival    *time.Time           `json:"estimatedArrival,omitempty"`
	ActualPickupTime    *time.Time           `json:"actualPickupTime,omitempty"`
	ActualDeliveredTime *time.Time           `json:"actualDeliveredTime,omitempty"`
	Proof               *ProofView           `json:"proofOfDelivery,omitempty"`
}

// DeliveryView is the representation of a delivery in every response.
// IsCompleted, IsInProgress and AgeHours are computed at read time.
type DeliveryView struct {
	ID              string            `json:"id"`
	DeliveryID      string            `json:"deliveryId"`
	Customer        Customer          `json:"customer"`
	PickupAddress   Address           `json:"pickupAddress"`
	DeliveryAddress Address           `json:"deliveryAddress"`
	Package         PackageView       `json:"package"`
	Schedule        ScheduleView      `json:"schedule"`
	RouteInfo       *RouteInfo        `json:"routeInfo,omitempty"`
	Pricing         PricingView       `json:"pricing"`
	Status          string            `json:"status"`
	StatusHistory   []StatusEntryView `json:"statusHistory"`
	Tracking        TrackingView      `json:"tracking"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
	IsCompleted     bool              `json:"isCompleted"`
	IsInProgress    bool              `json:"isInProgress"`
	AgeHours        float64           `json:"ageHours"`
}

func deliveryView(d *delivery.Delivery, now time.Time) DeliveryView {
	c := d.Customer()
	p := d.Parcel()
	s := d.Schedule()
	pr := d.Pricing()

	v := DeliveryView{
		ID:              d.ID().String(),
		DeliveryID:      d.DeliveryID().String(),
		Customer:        Customer{Name: c.Name(), Email: c.Email(), Phone: c.Phone(), Company: c.Company()},
		PickupAddress:   addressOf(d.Pickup()),
		DeliveryAddress: addressOf(d.Destination()),
		Package: PackageView{
			Type:        p.Type().String(),
			Weight:      p.WeightKg(),
			Fragile:     p.Fragile(),
			Description: p.Description(),
		},
		Schedule: ScheduleView{
			PickupDate:   s.PickupDate(),
			DeliveryDate: s.DeliveryDate(),
			TimeSlot:     string(s.TimeSlot()),
			Priority:     string(s.Priority()),
		},
		Pricing: PricingView{
			BaseCost:            pr.BaseCost(),
			DistanceCost:        pr.DistanceCost(),
			WeightCost:          pr.WeightCost(),
			SpecialHandlingCost: pr.SpecialHandlingCost(),
			TotalCost:           pr.TotalCost(),
		},
		Status:       d.Status().String(),
		Tracking:     trackingView(d.Tracking()),
		CreatedAt:    d.CreatedAt(),
		UpdatedAt:    d.UpdatedAt(),
		IsCompleted:  d.IsCompleted(),
		IsInProgress: d.IsInProgress(),
		AgeHours:     d.Age(now).Hours(),
	}

	if dims := p.Dimensions(); dims != nil {
		v.Package.Dimensions = &Dimensions{Length: dims.LengthCm(), Width: dims.WidthCm(), Height: dims.HeightCm()}
	}
	if r := d.Route(); r != nil {
		v.RouteInfo = &RouteInfo{
			DistanceKm:               r.DistanceKm(),
			EstimatedDurationMinutes: int(r.EstimatedDuration().Minutes()),
			Optimized:                r.Optimized(),
		}
	}

	history := d.History()
	v.StatusHistory = make([]StatusEntryView, 0, len(history))
	for _, e := range history {
		v.StatusHistory = append(v.StatusHistory, StatusEntryView{
			Status:    e.Status().String(),
			Timestamp: e.Timestamp(),
			Location:  e.Location(),
			Notes:     e.Notes(),
			UpdatedBy: e.ActorID(),
		})
	}
	return v
}

func trackingView(t delivery.Tracking) TrackingView {
	v := TrackingView{
		EstimatedArrival:    t.EstimatedArrival(),
		ActualPickupTime:    t.ActualPickupTime(),
		ActualDeliveredTime: t.ActualDeliveredTime(),
	}
	if loc := t.CurrentLocation(); loc != nil {
		v.CurrentLocation = &TrackedLocationView{
			Coordinates: coordinatesOf(loc.Coordinates()),
			Address:     loc.Address(),
			Timestamp:   loc.Timestamp(),
		}
	}
	if proof := t.Proof(); proof != nil {
		v.Proof = &ProofView{
			Signature: proof.Signature(),
			Photo:     proof.Photo(),
			Notes:     proof.Notes(),
			Timestamp: proof.Timestamp(),
		}
	}
	return v
}

// DeliveryPage is one page of GET /api/v1/deliveries.
type DeliveryPage struct {
	Items      []DeliveryView `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"totalPages"`
}

func deliveryPage(r queries.ListDeliveriesResponse, now time.Time) DeliveryPage {
	items := make([]DeliveryView, 0, len(r.Items))
	for _, d := range r.Items {
		items = append(items, deliveryView(d, now))
	}
	return DeliveryPage{Items: items, Total: r.Total, Page: r.Page, Limit: r.Limit, TotalPages: r.TotalPages}
}
