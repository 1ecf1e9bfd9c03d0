package memory_test

import (
	"sync"
	"testing"
	"time"

	"parceltrack/internal/adapters/out/memory"
	"parceltrack/internal/core/domain/model/delivery"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/ports"
	"parceltrack/internal/pkg/clock"
	"parceltrack/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var createdAt = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func newDelivery(t *testing.T, owner kernel.UUID, at time.Time) *delivery.Delivery {
	t.Helper()

	id, err := kernel.NewDeliveryIDGenerator(clock.NewFixed(at), nil).Next()
	require.NoError(t, err)
	customer, err := delivery.NewCustomer("Ada Park", "", "", "")
	require.NoError(t, err)
	addr, err := delivery.NewAddress("1 Main St", "New York", "", "", "", nil)
	require.NoError(t, err)
	parcel, err := delivery.NewParcel(delivery.PackageSmall, 1, nil, false, "")
	require.NoError(t, err)
	schedule, err := delivery.NewSchedule(at, at.Add(24*time.Hour), "", false)
	require.NoError(t, err)
	pricing, err := delivery.NewPricing(decimal.NewFromInt(150), decimal.Zero, decimal.Zero, decimal.Zero)
	require.NoError(t, err)

	d, err := delivery.NewDelivery(delivery.Draft{
		ID: kernel.NewUUID(), DeliveryID: id, OwnerID: owner,
		Customer: customer, Pickup: addr, Destination: addr,
		Parcel: parcel, Schedule: schedule, Pricing: pricing, CreatedAt: at,
	})
	require.NoError(t, err)
	return d
}

func commitAdd(t *testing.T, store *memory.Store, d *delivery.Delivery) {
	t.Helper()
	uow := store.Create()
	require.NoError(t, uow.Begin(t.Context()))
	require.NoError(t, uow.DeliveryRepository().Add(t.Context(), d))
	require.NoError(t, uow.Commit(t.Context()))
}

func TestStore_AddIsInvisibleUntilCommit(t *testing.T) {
	ctx := t.Context()
	store := memory.NewStore()
	owner := kernel.NewUUID()
	d := newDelivery(t, owner, createdAt)

	uow := store.Create()
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.DeliveryRepository().Add(ctx, d))

	_, err := store.Get(ctx, owner, d.DeliveryID())
	require.ErrorIs(t, err, errs.ErrObjectNotFound)

	staged, err := uow.DeliveryRepository().Get(ctx, owner, d.DeliveryID())
	require.NoError(t, err)
	assert.Equal(t, d.ID(), staged.ID())

	require.NoError(t, uow.Commit(ctx))
	got, err := store.Get(ctx, owner, d.DeliveryID())
	require.NoError(t, err)
	assert.Equal(t, d.History(), got.History())
}

func TestStore_RollbackDiscards(t *testing.T) {
	ctx := t.Context()
	store := memory.NewStore()
	owner := kernel.NewUUID()
	d := newDelivery(t, owner, createdAt)

	uow := store.Create()
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.DeliveryRepository().Add(ctx, d))
	require.NoError(t, uow.Rollback(ctx))

	_, err := store.Get(ctx, owner, d.DeliveryID())
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	require.ErrorIs(t, uow.Rollback(ctx), memory.ErrNoTransaction)
}

func TestStore_DuplicateDeliveryID(t *testing.T) {
	store := memory.NewStore()
	owner := kernel.NewUUID()
	d := newDelivery(t, owner, createdAt)
	commitAdd(t, store, d)

	s := newDelivery(t, owner, createdAt).Snapshot()
	s.DeliveryID = d.DeliveryID()
	clash, err := delivery.RestoreDelivery(s)
	require.NoError(t, err)

	uow := store.Create()
	require.NoError(t, uow.Begin(t.Context()))
	err = uow.DeliveryRepository().Add(t.Context(), clash)

	require.ErrorIs(t, err, errs.ErrObjectAlreadyExist)
}

func TestStore_StaleWriteLoses(t *testing.T) {
	ctx := t.Context()
	store := memory.NewStore()
	owner := kernel.NewUUID()
	d := newDelivery(t, owner, createdAt)
	commitAdd(t, store, d)

	first, second := store.Create(), store.Create()
	require.NoError(t, first.Begin(ctx))
	require.NoError(t, second.Begin(ctx))
	a, err := first.DeliveryRepository().Get(ctx, owner, d.DeliveryID())
	require.NoError(t, err)
	b, err := second.DeliveryRepository().Get(ctx, owner, d.DeliveryID())
	require.NoError(t, err)

	require.NoError(t, a.Transition(delivery.PickedUp, "", "", "", createdAt.Add(time.Hour)))
	require.NoError(t, first.DeliveryRepository().Update(ctx, a))
	require.NoError(t, b.Transition(delivery.Cancelled, "", "", "", createdAt.Add(time.Hour)))
	require.NoError(t, second.DeliveryRepository().Update(ctx, b))

	require.NoError(t, first.Commit(ctx))
	require.ErrorIs(t, second.Commit(ctx), errs.ErrVersionIsInvalid)

	got, err := store.Get(ctx, owner, d.DeliveryID())
	require.NoError(t, err)
	assert.Equal(t, delivery.PickedUp, got.Status())
	assert.Equal(t, 1, got.Version())
	assert.Len(t, got.History(), 2)
}

func TestStore_ConcurrentWritersKeepEveryEntry(t *testing.T) {
	ctx := t.Context()
	store := memory.NewStore()
	owner := kernel.NewUUID()
	d := newDelivery(t, owner, createdAt)
	commitAdd(t, store, d)

	const writers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			uow := store.Create()
			_ = uow.Begin(ctx)
			loaded, err := uow.DeliveryRepository().Get(ctx, owner, d.DeliveryID())
			if err != nil {
				return
			}
			if err = loaded.Transition(delivery.InTransit, "", "", "", createdAt.Add(time.Duration(i+1)*time.Minute)); err != nil {
				return
			}
			if err = uow.DeliveryRepository().Update(ctx, loaded); err != nil {
				return
			}
			if uow.Commit(ctx) == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	got, err := store.Get(ctx, owner, d.DeliveryID())
	require.NoError(t, err)
	assert.Len(t, got.History(), 1+successes)
	assert.Equal(t, successes, got.Version())
}

func TestStore_ArchivedIsHidden(t *testing.T) {
	ctx := t.Context()
	store := memory.NewStore()
	owner := kernel.NewUUID()
	d := newDelivery(t, owner, createdAt)
	commitAdd(t, store, d)

	require.NoError(t, d.Archive(createdAt.Add(time.Hour)))
	require.NoError(t, store.Create().DeliveryRepository().Update(ctx, d))

	_, err := store.Get(ctx, owner, d.DeliveryID())
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	active, err := store.ListActive(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestStore_List(t *testing.T) {
	ctx := t.Context()
	store := memory.NewStore()
	owner := kernel.NewUUID()
	var all []*delivery.Delivery
	for i := range 5 {
		d := newDelivery(t, owner, createdAt.Add(time.Duration(i)*time.Hour))
		commitAdd(t, store, d)
		all = append(all, d)
	}
	commitAdd(t, store, newDelivery(t, kernel.NewUUID(), createdAt))

	page, total, err := store.List(ctx, owner, ports.DeliveryFilter{}, ports.PageRequest{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, page, 2)
	assert.Equal(t, all[2].DeliveryID(), page[0].DeliveryID())
	assert.Equal(t, all[1].DeliveryID(), page[1].DeliveryID())

	beyond, total, err := store.List(ctx, owner, ports.DeliveryFilter{}, ports.PageRequest{Page: 9, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Empty(t, beyond)

	from, to := createdAt.Add(time.Hour), createdAt.Add(3*time.Hour)
	ranged, total, err := store.List(ctx, owner,
		ports.DeliveryFilter{CreatedFrom: &from, CreatedTo: &to}, ports.PageRequest{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, ranged, 2)

	status := delivery.Delivered
	none, total, err := store.List(ctx, owner, ports.DeliveryFilter{Status: &status}, ports.PageRequest{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, none)
}

func TestStore_ListOverdue(t *testing.T) {
	ctx := t.Context()
	store := memory.NewStore()
	owner := kernel.NewUUID()
	older := newDelivery(t, owner, createdAt)
	newer := newDelivery(t, owner, createdAt.Add(2*time.Hour))
	done := newDelivery(t, owner, createdAt)
	require.NoError(t, done.Transition(delivery.Failed, "", "", "", createdAt.Add(time.Hour)))
	for _, d := range []*delivery.Delivery{newer, older, done} {
		commitAdd(t, store, d)
	}

	got, err := store.ListOverdue(ctx, createdAt.Add(72*time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, older.ID(), got[0].ID())

	limited, err := store.ListOverdue(ctx, createdAt.Add(72*time.Hour), 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
