// Package deliveryrepo maps the Delivery aggregate onto the deliveries and
// delivery_status_history tables.
package deliveryrepo

import (
	"errors"
	"time"

	"parceltrack/internal/core/domain/model/delivery"
	"parceltrack/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DeliveryDTO is one row of the deliveries table.
type DeliveryDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	DeliveryID string    `gorm:"type:varchar(32);not null;uniqueIndex"`
	OwnerID    uuid.UUID `gorm:"type:uuid;not null;index:idx_deliveries_owner_created,priority:1;index:idx_deliveries_owner_status,priority:1"`

	Customer    CustomerDTO `gorm:"embedded;embeddedPrefix:customer_"`
	Pickup      AddressDTO  `gorm:"embedded;embeddedPrefix:pickup_"`
	Destination AddressDTO  `gorm:"embedded;embeddedPrefix:destination_"`
	Parcel      ParcelDTO   `gorm:"embedded;embeddedPrefix:parcel_"`
	Schedule    ScheduleDTO `gorm:"embedded;embeddedPrefix:schedule_"`
	Route       RouteDTO    `gorm:"embedded;embeddedPrefix:route_"`
	Pricing     PricingDTO  `gorm:"embedded;embeddedPrefix:pricing_"`
	Tracking    TrackingDTO `gorm:"embedded;embeddedPrefix:tracking_"`

	Status    int       `gorm:"not null;index:idx_deliveries_owner_status,priority:2"`
	IsActive  bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime:false;index:idx_deliveries_owner_created,priority:2"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime:false"`
	Version   int       `gorm:"not null;default:0"`

	History []StatusEntryDTO `gorm:"foreignKey:DeliveryRef;constraint:OnDelete:CASCADE"`
}

func (DeliveryDTO) TableName() string {
	return "deliveries"
}

type CustomerDTO struct {
	Name    string `gorm:"type:varchar(255);not null"`
	Email   string `gorm:"type:varchar(255)"`
	Phone   string `gorm:"type:varchar(64)"`
	Company string `gorm:"type:varchar(255)"`
}

type AddressDTO struct {
	Street     string `gorm:"type:varchar(255);not null"`
	City       string `gorm:"type:varchar(128);not null"`
	State      string `gorm:"type:varchar(128)"`
	PostalCode string `gorm:"type:varchar(32)"`
	Country    string `gorm:"type:varchar(64)"`
	Lat        *float64
	Lng        *float64
}

type ParcelDTO struct {
	Type        string `gorm:"type:varchar(32);not null"`
	WeightKg    float64
	LengthCm    *float64
	WidthCm     *float64
	HeightCm    *float64
	Fragile     bool
	Description string
}

type ScheduleDTO struct {
	PickupDate   time.Time `gorm:"not null"`
	DeliveryDate time.Time `gorm:"not null;index"`
	TimeSlot     string    `gorm:"type:varchar(16)"`
	Urgent       bool
}

// RouteDTO is all-null when the caller gave no route.
type RouteDTO struct {
	Present     bool
	DistanceKm  *float64
	DurationSec int64
	Optimized   bool
}

type PricingDTO struct {
	BaseCost            decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	DistanceCost        decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	WeightCost          decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	SpecialHandlingCost decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	TotalCost           decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Quoted              bool
}

type TrackingDTO struct {
	CurrentLat          *float64
	CurrentLng          *float64
	CurrentAddress      string
	CurrentAt           *time.Time
	EstimatedArrival    *time.Time
	ActualPickupTime    *time.Time
	ActualDeliveredTime *time.Time
	ProofSignature      string
	ProofPhoto          string
	ProofNotes          string
	ProofAt             *time.Time
}

// StatusEntryDTO is one append-only history row. Seq is the position in the history.
type StatusEntryDTO struct {
	DeliveryRef uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq         int       `gorm:"primaryKey"`
	Status      int       `gorm:"not null"`
	Timestamp   time.Time `gorm:"not null"`
	Location    string
	Notes       string
	ActorID     string `gorm:"type:varchar(128)"`
}

func (StatusEntryDTO) TableName() string {
	return "delivery_status_history"
}

func fromDomain(d *delivery.Delivery) DeliveryDTO {
	s := d.Snapshot()
	id := s.ID.Bytes()

	dto := DeliveryDTO{
		ID:         id,
		DeliveryID: s.DeliveryID.String(),
		OwnerID:    s.OwnerID.Bytes(),
		Customer: CustomerDTO{
			Name:    s.Customer.Name(),
			Email:   s.Customer.Email(),
			Phone:   s.Customer.Phone(),
			Company: s.Customer.Company(),
		},
		Pickup:      addressFromDomain(s.Pickup),
		Destination: addressFromDomain(s.Destination),
		Parcel: ParcelDTO{
			Type:        s.Parcel.Type().String(),
			WeightKg:    s.Parcel.WeightKg(),
			Fragile:     s.Parcel.Fragile(),
			Description: s.Parcel.Description(),
		},
		Schedule: ScheduleDTO{
			PickupDate:   s.Schedule.PickupDate(),
			DeliveryDate: s.Schedule.DeliveryDate(),
			TimeSlot:     string(s.Schedule.TimeSlot()),
			Urgent:       s.Schedule.Urgent(),
		},
		Pricing: PricingDTO{
			BaseCost:            s.Pricing.BaseCost(),
			DistanceCost:        s.Pricing.DistanceCost(),
			WeightCost:          s.Pricing.WeightCost(),
			SpecialHandlingCost: s.Pricing.SpecialHandlingCost(),
			TotalCost:           s.Pricing.TotalCost(),
			Quoted:              s.Pricing.IsQuoted(),
		},
		Tracking:  trackingFromDomain(s.Tracking),
		Status:    int(s.Status),
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		Version:   s.Version,
		History:   make([]StatusEntryDTO, 0, len(s.History)),
	}

	if dims := s.Parcel.Dimensions(); dims != nil {
		l, w, h := dims.LengthCm(), dims.WidthCm(), dims.HeightCm()
		dto.Parcel.LengthCm, dto.Parcel.WidthCm, dto.Parcel.HeightCm = &l, &w, &h
	}
	if s.Route != nil {
		dto.Route = RouteDTO{
			Present:     true,
			DistanceKm:  s.Route.DistanceKm(),
			DurationSec: int64(s.Route.EstimatedDuration() / time.Second),
			Optimized:   s.Route.Optimized(),
		}
	}
	for i, e := range s.History {
		dto.History = append(dto.History, StatusEntryDTO{
			DeliveryRef: id,
			Seq:         i,
			Status:      int(e.Status()),
			Timestamp:   e.Timestamp(),
			Location:    e.Location(),
			Notes:       e.Notes(),
			ActorID:     e.ActorID(),
		})
	}
	return dto
}

func addressFromDomain(a delivery.Address) AddressDTO {
	dto := AddressDTO{
		Street:     a.Street(),
		City:       a.City(),
		State:      a.State(),
		PostalCode: a.PostalCode(),
		Country:    a.Country(),
	}
	if c := a.Coordinates(); c != nil {
		lat, lng := c.Latitude(), c.Longitude()
		dto.Lat, dto.Lng = &lat, &lng
	}
	return dto
}

func trackingFromDomain(t delivery.Tracking) TrackingDTO {
	dto := TrackingDTO{
		EstimatedArrival:    t.EstimatedArrival(),
		ActualPickupTime:    t.ActualPickupTime(),
		ActualDeliveredTime: t.ActualDeliveredTime(),
	}
	if cur := t.CurrentLocation(); cur != nil {
		at := cur.Timestamp()
		dto.CurrentAddress = cur.Address()
		dto.CurrentAt = &at
		if c := cur.Coordinates(); c != nil {
			lat, lng := c.Latitude(), c.Longitude()
			dto.CurrentLat, dto.CurrentLng = &lat, &lng
		}
	}
	if p := t.Proof(); p != nil {
		at := p.Timestamp()
		dto.ProofSignature, dto.ProofPhoto, dto.ProofNotes = p.Signature(), p.Photo(), p.Notes()
		dto.ProofAt = &at
	}
	return dto
}

func toDomain(dto DeliveryDTO) (*delivery.Delivery, error) {
	id, errID := kernel.UUIDFromBytes(dto.ID[:])
	ownerID, errOwner := kernel.UUIDFromBytes(dto.OwnerID[:])
	deliveryID, errDeliveryID := kernel.ParseDeliveryID(dto.DeliveryID)
	customer, errCustomer := delivery.NewCustomer(dto.Customer.Name, dto.Customer.Email, dto.Customer.Phone, dto.Customer.Company)
	pickup, errPickup := addressToDomain(dto.Pickup)
	destination, errDestination := addressToDomain(dto.Destination)
	parcel, errParcel := parcelToDomain(dto.Parcel)
	schedule, errSchedule := delivery.NewSchedule(dto.Schedule.PickupDate, dto.Schedule.DeliveryDate,
		delivery.TimeSlot(dto.Schedule.TimeSlot), dto.Schedule.Urgent)
	route, errRoute := routeToDomain(dto.Route)
	pricing, errPricing := delivery.RestorePricing(dto.Pricing.BaseCost, dto.Pricing.DistanceCost,
		dto.Pricing.WeightCost, dto.Pricing.SpecialHandlingCost, dto.Pricing.TotalCost, dto.Pricing.Quoted)
	tracking, errTracking := trackingToDomain(dto.Tracking)
	history, errHistory := historyToDomain(dto.History)

	if err := errors.Join(errID, errOwner, errDeliveryID, errCustomer, errPickup, errDestination,
		errParcel, errSchedule, errRoute, errPricing, errTracking, errHistory); err != nil {
		return nil, err
	}

	return delivery.RestoreDelivery(delivery.Snapshot{
		ID:          id,
		DeliveryID:  deliveryID,
		OwnerID:     ownerID,
		Customer:    customer,
		Pickup:      pickup,
		Destination: destination,
		Parcel:      parcel,
		Schedule:    schedule,
		Route:       route,
		Pricing:     pricing,
		Status:      delivery.Status(dto.Status),
		History:     history,
		Tracking:    tracking,
		IsActive:    dto.IsActive,
		CreatedAt:   dto.CreatedAt,
		UpdatedAt:   dto.UpdatedAt,
		Version:     dto.Version,
	})
}

func addressToDomain(dto AddressDTO) (delivery.Address, error) {
	coords, err := locationToDomain(dto.Lat, dto.Lng)
	if err != nil {
		return delivery.Address{}, err
	}
	return delivery.NewAddress(dto.Street, dto.City, dto.State, dto.PostalCode, dto.Country, coords)
}

func locationToDomain(lat, lng *float64) (*kernel.Location, error) {
	if lat == nil || lng == nil {
		return nil, nil
	}
	loc, err := kernel.NewLocation(*lat, *lng)
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

func parcelToDomain(dto ParcelDTO) (delivery.Parcel, error) {
	var dims *delivery.Dimensions
	if dto.LengthCm != nil && dto.WidthCm != nil && dto.HeightCm != nil {
		d, err := delivery.NewDimensions(*dto.LengthCm, *dto.WidthCm, *dto.HeightCm)
		if err != nil {
			return delivery.Parcel{}, err
		}
		dims = &d
	}
	return delivery.NewParcel(delivery.PackageType(dto.Type), dto.WeightKg, dims, dto.Fragile, dto.Description)
}

func routeToDomain(dto RouteDTO) (*delivery.RouteInfo, error) {
	if !dto.Present {
		return nil, nil
	}
	r, err := delivery.NewRouteInfo(dto.DistanceKm, time.Duration(dto.DurationSec)*time.Second, dto.Optimized)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func trackingToDomain(dto TrackingDTO) (delivery.Tracking, error) {
	var current *delivery.CurrentLocation
	if dto.CurrentAt != nil {
		coords, err := locationToDomain(dto.CurrentLat, dto.CurrentLng)
		if err != nil {
			return delivery.Tracking{}, err
		}
		c, err := delivery.RestoreCurrentLocation(coords, dto.CurrentAddress, *dto.CurrentAt)
		if err != nil {
			return delivery.Tracking{}, err
		}
		current = &c
	}

	var proof *delivery.Proof
	if dto.ProofAt != nil {
		p := delivery.RestoreProof(dto.ProofSignature, dto.ProofPhoto, dto.ProofNotes, *dto.ProofAt)
		proof = &p
	}

	return delivery.RestoreTracking(current, dto.EstimatedArrival, dto.ActualPickupTime, dto.ActualDeliveredTime, proof), nil
}

func historyToDomain(dtos []StatusEntryDTO) ([]delivery.StatusEntry, error) {
	out := make([]delivery.StatusEntry, 0, len(dtos))
	for _, dto := range dtos {
		e, err := delivery.NewStatusEntry(delivery.Status(dto.Status), dto.Timestamp, dto.Location, dto.Notes, dto.ActorID)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
