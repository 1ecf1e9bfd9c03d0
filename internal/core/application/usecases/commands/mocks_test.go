package commands_test

import (
	"context"
	"testing"
	"time"

	"parceltrack/internal/core/application/usecases/commands"
	"parceltrack/internal/core/domain/model/alert"
	"parceltrack/internal/core/domain/model/delivery"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDeliveryRepository struct{ mock.Mock }

func (m *MockDeliveryRepository) Add(ctx context.Context, d *delivery.Delivery) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDeliveryRepository) Update(ctx context.Context, d *delivery.Delivery) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDeliveryRepository) Get(ctx context.Context, ownerID kernel.UUID, id kernel.DeliveryID) (*delivery.Delivery, error) {
	args := m.Called(ctx, ownerID, id)
	d, _ := args.Get(0).(*delivery.Delivery)
	return d, args.Error(1)
}

type MockDeliveryUoW struct{ mock.Mock }

func (m *MockDeliveryUoW) Begin(ctx context.Context) error    { return m.Called(ctx).Error(0) }
func (m *MockDeliveryUoW) Commit(ctx context.Context) error   { return m.Called(ctx).Error(0) }
func (m *MockDeliveryUoW) Rollback(ctx context.Context) error { return m.Called(ctx).Error(0) }

func (m *MockDeliveryUoW) DeliveryRepository() ports.DeliveryRepository {
	return m.Called().Get(0).(ports.DeliveryRepository)
}

type MockDeliveryUoWFactory struct{ mock.Mock }

func (m *MockDeliveryUoWFactory) Create() commands.DeliveryUoW {
	return m.Called().Get(0).(commands.DeliveryUoW)
}

type MockAlertEmitter struct{ mock.Mock }

func (m *MockAlertEmitter) Emit(ctx context.Context, alerts ...alert.Alert) {
	m.Called(ctx, alerts)
}

type MockIDGenerator struct{ mock.Mock }

func (m *MockIDGenerator) Next() (kernel.DeliveryID, error) {
	args := m.Called()
	return args.Get(0).(kernel.DeliveryID), args.Error(1)
}

type MockStats struct{ mock.Mock }

func (m *MockStats) Invalidate(ctx context.Context, ownerID kernel.UUID) error {
	return m.Called(ctx, ownerID).Error(0)
}

var fixedNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func alertKinds(kinds ...alert.Kind) any {
	return mock.MatchedBy(func(alerts []alert.Alert) bool {
		if len(alerts) != len(kinds) {
			return false
		}
		for i, a := range alerts {
			if a.Kind() != kinds[i] {
				return false
			}
		}
		return true
	})
}

func mustDeliveryID(t *testing.T, s string) kernel.DeliveryID {
	t.Helper()
	id, err := kernel.ParseDeliveryID(s)
	require.NoError(t, err)
	return id
}

func newStoredDelivery(t *testing.T, owner kernel.UUID, statuses ...delivery.Status) *delivery.Delivery {
	t.Helper()

	customer, err := delivery.NewCustomer("Jo Doe", "", "", "")
	require.NoError(t, err)
	addr, err := delivery.NewAddress("1 Road", "Town", "", "", "", nil)
	require.NoError(t, err)
	parcel, err := delivery.NewParcel(delivery.PackageSmall, 7, nil, false, "")
	require.NoError(t, err)
	schedule, err := delivery.NewSchedule(fixedNow, fixedNow.Add(24*time.Hour), delivery.SlotAnytime, false)
	require.NoError(t, err)
	pricing, err := delivery.NewPricing(decimal.NewFromInt(150), decimal.NewFromInt(120), decimal.NewFromInt(10), decimal.Zero)
	require.NoError(t, err)

	d, err := delivery.NewDelivery(delivery.Draft{
		ID:          kernel.NewUUID(),
		DeliveryID:  mustDeliveryID(t, "DLV-20260310-0000000001"),
		OwnerID:     owner,
		Customer:    customer,
		Pickup:      addr,
		Destination: addr,
		Parcel:      parcel,
		Schedule:    schedule,
		Pricing:     pricing,
		CreatedAt:   fixedNow.Add(-time.Hour),
	})
	require.NoError(t, err)

	for _, s := range statuses {
		require.NoError(t, d.Transition(s, "", "", "", fixedNow.Add(-30*time.Minute)))
	}

	// reload so the aggregate looks like it came from storage
	restored, err := delivery.RestoreDelivery(d.Snapshot())
	require.NoError(t, err)
	return restored
}
