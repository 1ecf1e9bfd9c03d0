package delivery_test

import (
	"testing"
	"time"

	"parceltrack/internal/core/domain/model/delivery"
	"parceltrack/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCustomer(t *testing.T) {
	c, err := delivery.NewCustomer("  Grace  ", "", "", "")
	require.NoError(t, err)
	assert.Equal(t, "Grace", c.Name())

	_, err = delivery.NewCustomer("", "not-an-email", "", "")
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestNewAddress(t *testing.T) {
	a, err := delivery.NewAddress("5 Pier Rd", "Oslo", "", "", "NO", mustLocation(t, 59.9, 10.7))
	require.NoError(t, err)
	assert.Equal(t, "5 Pier Rd, Oslo, NO", a.String())
	require.NotNil(t, a.Coordinates())
	assert.InDelta(t, 59.9, a.Coordinates().Latitude(), 1e-9)

	_, err = delivery.NewAddress(" ", "", "", "", "", nil)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestNewParcel(t *testing.T) {
	dims, err := delivery.NewDimensions(30, 20, 10)
	require.NoError(t, err)

	p, err := delivery.NewParcel(delivery.PackageMedium, 2.5, &dims, true, "")
	require.NoError(t, err)
	assert.True(t, p.Fragile())
	assert.InDelta(t, 30.0, p.Dimensions().LengthCm(), 1e-9)

	_, err = delivery.NewParcel("crate", 0, nil, false, "")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	_, err = delivery.NewDimensions(0, -1, 2)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}

func TestNewSchedule(t *testing.T) {
	s, err := delivery.NewSchedule(createdAt, createdAt.Add(time.Hour), "", false)
	require.NoError(t, err)
	assert.Equal(t, delivery.SlotAnytime, s.TimeSlot())
	assert.Equal(t, delivery.PriorityStandard, s.Priority())

	_, err = delivery.NewSchedule(createdAt, createdAt.Add(-time.Hour), delivery.SlotEvening, false)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = delivery.NewSchedule(time.Time{}, time.Time{}, "midnight", false)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestNewRouteInfo(t *testing.T) {
	km := 12.5
	r, err := delivery.NewRouteInfo(&km, 40*time.Minute, true)
	require.NoError(t, err)
	require.NotNil(t, r.DistanceKm())
	assert.InDelta(t, 12.5, *r.DistanceKm(), 1e-9)

	empty, err := delivery.NewRouteInfo(nil, 0, false)
	require.NoError(t, err)
	assert.Nil(t, empty.DistanceKm())

	negative := -1.0
	_, err = delivery.NewRouteInfo(&negative, 0, false)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}

func TestPricing(t *testing.T) {
	d := decimal.NewFromInt

	t.Run("computed total is the sum", func(t *testing.T) {
		p, err := delivery.NewPricing(d(150), d(120), d(10), d(50))

		require.NoError(t, err)
		assert.True(t, p.TotalCost().Equal(d(330)))
		assert.False(t, p.IsQuoted())
	})

	t.Run("quoted total is verbatim", func(t *testing.T) {
		p, err := delivery.NewQuotedPricing(d(150), d(120), d(10), d(0), d(500))

		require.NoError(t, err)
		assert.True(t, p.TotalCost().Equal(d(500)))
		assert.True(t, p.IsQuoted())
	})

	t.Run("quoted total must be positive", func(t *testing.T) {
		_, err := delivery.NewQuotedPricing(d(1), d(1), d(1), d(1), d(0))
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("negative components are rejected", func(t *testing.T) {
		_, err := delivery.NewPricing(d(-1), d(0), d(0), d(0))
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("restore checks the sum of computed pricing", func(t *testing.T) {
		_, err := delivery.RestorePricing(d(150), d(120), d(10), d(0), d(281), false)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)

		p, err := delivery.RestorePricing(d(150), d(120), d(10), d(0), d(999), true)
		require.NoError(t, err)
		assert.True(t, p.TotalCost().Equal(d(999)))
	})
}
