package services_test

import (
	"testing"
	"time"

	"parceltrack/internal/core/domain/model/delivery"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/clock"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	owner     kernel.UUID
	createdAt time.Time
	pkg       delivery.PackageType
	urgent    bool
	total     int64
}

func newDelivery(t *testing.T, f fixture) *delivery.Delivery {
	t.Helper()

	if f.owner == (kernel.UUID{}) {
		f.owner = kernel.NewUUID()
	}
	if f.pkg == "" {
		f.pkg = delivery.PackageSmall
	}
	if f.total == 0 {
		f.total = 280
	}

	id, err := kernel.NewDeliveryIDGenerator(clock.NewFixed(f.createdAt), nil).Next()
	require.NoError(t, err)

	customer, err := delivery.NewCustomer("Jo Doe", "", "", "")
	require.NoError(t, err)
	addr, err := delivery.NewAddress("1 Road", "Town", "", "", "", nil)
	require.NoError(t, err)
	parcel, err := delivery.NewParcel(f.pkg, 1, nil, false, "")
	require.NoError(t, err)
	schedule, err := delivery.NewSchedule(f.createdAt, f.createdAt.Add(24*time.Hour), delivery.SlotAnytime, f.urgent)
	require.NoError(t, err)
	pricing, err := delivery.NewQuotedPricing(decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero, decimal.NewFromInt(f.total))
	require.NoError(t, err)

	d, err := delivery.NewDelivery(delivery.Draft{
		ID:          kernel.NewUUID(),
		DeliveryID:  id,
		OwnerID:     f.owner,
		Customer:    customer,
		Pickup:      addr,
		Destination: addr,
		Parcel:      parcel,
		Schedule:    schedule,
		Pricing:     pricing,
		CreatedAt:   f.createdAt,
	})
	require.NoError(t, err)
	return d
}

func moveTo(t *testing.T, d *delivery.Delivery, at time.Time, statuses ...delivery.Status) *delivery.Delivery {
	t.Helper()
	for i, s := range statuses {
		require.NoError(t, d.Transition(s, "", "", "", at.Add(time.Duration(i)*time.Hour)))
	}
	return d
}
