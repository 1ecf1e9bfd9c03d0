package memory

import (
	"context"
	"errors"

	"parceltrack/internal/core/domain/model/delivery"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/ports"
	"parceltrack/internal/pkg/errs"
)

var ErrNoTransaction = errors.New("no transaction in progress")

type change struct {
	snap   delivery.Snapshot
	insert bool
}

// UnitOfWork stages writes and applies them to the Store on Commit.
// Reads see the staged state first.
type UnitOfWork struct {
	store  *Store
	open   bool
	staged []change
}

func (u *UnitOfWork) Begin(_ context.Context) error {
	if u.open {
		return nil
	}
	u.open = true
	u.staged = nil
	return nil
}

func (u *UnitOfWork) Commit(_ context.Context) error {
	if !u.open {
		return ErrNoTransaction
	}
	staged := u.staged
	u.open, u.staged = false, nil
	return u.store.apply(staged)
}

func (u *UnitOfWork) Rollback(_ context.Context) error {
	if !u.open {
		return ErrNoTransaction
	}
	u.open, u.staged = false, nil
	return nil
}

func (u *UnitOfWork) DeliveryRepository() ports.DeliveryRepository {
	return repository{uow: u}
}

// write applies immediately when no transaction is open.
func (u *UnitOfWork) write(c change) error {
	if !u.open {
		return u.store.apply([]change{c})
	}
	u.staged = append(u.staged, c)
	return nil
}

func (u *UnitOfWork) stagedSnapshot(id kernel.DeliveryID) (delivery.Snapshot, bool) {
	for i := len(u.staged) - 1; i >= 0; i-- {
		if u.staged[i].snap.DeliveryID == id {
			return u.staged[i].snap, true
		}
	}
	return delivery.Snapshot{}, false
}

type repository struct {
	uow *UnitOfWork
}

func (r repository) Add(_ context.Context, d *delivery.Delivery) error {
	if err := d.Validate(); err != nil {
		return err
	}

	snap := d.Snapshot()
	if _, ok := r.uow.stagedSnapshot(snap.DeliveryID); ok {
		return errs.NewObjectAlreadyExistError("deliveryId", snap.DeliveryID)
	}
	r.uow.store.mu.RLock()
	_, taken := r.uow.store.byCode[snap.DeliveryID]
	r.uow.store.mu.RUnlock()
	if taken {
		return errs.NewObjectAlreadyExistError("deliveryId", snap.DeliveryID)
	}

	return r.uow.write(change{snap: snap, insert: true})
}

func (r repository) Update(_ context.Context, d *delivery.Delivery) error {
	if err := d.Validate(); err != nil {
		return err
	}

	snap := d.Snapshot()
	current, ok := r.uow.stagedSnapshot(snap.DeliveryID)
	if !ok {
		r.uow.store.mu.RLock()
		current, ok = r.uow.store.rows[snap.ID]
		r.uow.store.mu.RUnlock()
	}
	if !ok || current.Version != snap.Version {
		return errs.NewVersionIsInvalidErrorWithCause("version",
			errors.New("delivery was changed or removed concurrently"))
	}

	snap.Version++
	return r.uow.write(change{snap: snap})
}

func (r repository) Get(_ context.Context, ownerID kernel.UUID, id kernel.DeliveryID) (*delivery.Delivery, error) {
	if snap, ok := r.uow.stagedSnapshot(id); ok {
		if !snap.IsActive || snap.OwnerID != ownerID {
			return nil, errs.NewObjectNotFoundError("deliveryId", id.String())
		}
		return delivery.RestoreDelivery(snap)
	}
	return r.uow.store.Get(context.Background(), ownerID, id)
}
