package delivery_test

import (
	"testing"
	"time"

	"parceltrack/internal/core/domain/model/delivery"
	"parceltrack/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var createdAt = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func mustLocation(t *testing.T, lat, lng float64) *kernel.Location {
	t.Helper()
	loc, err := kernel.NewLocation(lat, lng)
	require.NoError(t, err)
	return &loc
}

func newDraft(t *testing.T) delivery.Draft {
	t.Helper()

	id, err := kernel.ParseDeliveryID("DLV-20260310-0123456789")
	require.NoError(t, err)

	customer, err := delivery.NewCustomer("Ada Lovelace", "ada@example.com", "+44 20 1234", "Analytical Ltd")
	require.NoError(t, err)

	pickup, err := delivery.NewAddress("1 Main St", "Springfield", "IL", "62701", "US", mustLocation(t, 39.78, -89.65))
	require.NoError(t, err)

	destination, err := delivery.NewAddress("9 Elm St", "Chicago", "IL", "60601", "US", nil)
	require.NoError(t, err)

	parcel, err := delivery.NewParcel(delivery.PackageSmall, 7, nil, false, "books")
	require.NoError(t, err)

	schedule, err := delivery.NewSchedule(createdAt.Add(2*time.Hour), createdAt.Add(26*time.Hour), delivery.SlotMorning, true)
	require.NoError(t, err)

	pricing, err := delivery.NewPricing(decimal.NewFromInt(150), decimal.NewFromInt(120), decimal.NewFromInt(10), decimal.Zero)
	require.NoError(t, err)

	return delivery.Draft{
		ID:          kernel.NewUUID(),
		DeliveryID:  id,
		OwnerID:     kernel.NewUUID(),
		Customer:    customer,
		Pickup:      pickup,
		Destination: destination,
		Parcel:      parcel,
		Schedule:    schedule,
		Pricing:     pricing,
		ActorID:     "dispatcher-1",
		CreatedAt:   createdAt,
	}
}

func newDelivery(t *testing.T) *delivery.Delivery {
	t.Helper()
	d, err := delivery.NewDelivery(newDraft(t))
	require.NoError(t, err)
	return d
}
