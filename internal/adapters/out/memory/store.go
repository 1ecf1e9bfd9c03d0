// Package memory keeps deliveries in process memory. It backs the memory
// storage driver and end-to-end tests; data does not survive a restart.
package memory

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"parceltrack/internal/core/domain/model/delivery"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/ports"
	"parceltrack/internal/pkg/errs"
)

// Store holds committed snapshots. It implements ports.UnitOfWorkFactory and ports.DeliveryReader.
type Store struct {
	mu     sync.RWMutex
	rows   map[kernel.UUID]delivery.Snapshot
	byCode map[kernel.DeliveryID]kernel.UUID
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		rows:   make(map[kernel.UUID]delivery.Snapshot),
		byCode: make(map[kernel.DeliveryID]kernel.UUID),
	}
}

func (s *Store) Create() ports.UnitOfWork {
	return &UnitOfWork{store: s}
}

func (s *Store) Get(_ context.Context, ownerID kernel.UUID, id kernel.DeliveryID) (*delivery.Delivery, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.lookup(ownerID, id)
	if !ok {
		return nil, errs.NewObjectNotFoundError("deliveryId", id.String())
	}
	return delivery.RestoreDelivery(snap)
}

func (s *Store) List(
	_ context.Context,
	ownerID kernel.UUID,
	filter ports.DeliveryFilter,
	page ports.PageRequest,
) ([]*delivery.Delivery, int, error) {
	matched := s.collect(func(snap delivery.Snapshot) bool {
		return snap.OwnerID == ownerID && matches(snap, filter)
	})
	slices.SortFunc(matched, newestFirst)

	total := len(matched)
	from := min(page.Offset(), total)
	to := min(from+page.Limit, total)

	out, err := restoreAll(matched[from:to])
	return out, total, err
}

func (s *Store) ListActive(_ context.Context, ownerID kernel.UUID) ([]*delivery.Delivery, error) {
	matched := s.collect(func(snap delivery.Snapshot) bool {
		return snap.OwnerID == ownerID
	})
	slices.SortFunc(matched, newestFirst)
	return restoreAll(matched)
}

func (s *Store) ListOverdue(_ context.Context, at time.Time, limit int) ([]*delivery.Delivery, error) {
	matched := s.collect(func(snap delivery.Snapshot) bool {
		return !snap.Status.IsTerminal() && snap.Schedule.DeliveryDate().Before(at)
	})
	slices.SortFunc(matched, func(a, b delivery.Snapshot) int {
		return a.Schedule.DeliveryDate().Compare(b.Schedule.DeliveryDate())
	})
	if limit >= 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return restoreAll(matched)
}

// lookup expects the lock to be held.
func (s *Store) lookup(ownerID kernel.UUID, id kernel.DeliveryID) (delivery.Snapshot, bool) {
	key, ok := s.byCode[id]
	if !ok {
		return delivery.Snapshot{}, false
	}
	snap := s.rows[key]
	if !snap.IsActive || snap.OwnerID != ownerID {
		return delivery.Snapshot{}, false
	}
	return snap, true
}

// collect returns active snapshots accepted by keep.
func (s *Store) collect(keep func(delivery.Snapshot) bool) []delivery.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []delivery.Snapshot
	for _, snap := range s.rows {
		if snap.IsActive && keep(snap) {
			out = append(out, snap)
		}
	}
	return out
}

// apply writes staged changes atomically after re-checking versions and ids.
func (s *Store) apply(staged []change) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := make(map[kernel.UUID]delivery.Snapshot, len(staged))
	for _, c := range staged {
		current, exists := view[c.snap.ID]
		if !exists {
			current, exists = s.rows[c.snap.ID]
		}
		switch {
		case c.insert:
			if _, taken := s.byCode[c.snap.DeliveryID]; taken || exists {
				return errs.NewObjectAlreadyExistError("deliveryId", c.snap.DeliveryID)
			}
		case !exists || current.Version != c.snap.Version-1:
			return errs.NewVersionIsInvalidErrorWithCause("version",
				errors.New("delivery was changed or removed concurrently"))
		}
		view[c.snap.ID] = c.snap
	}

	for _, c := range staged {
		s.rows[c.snap.ID] = c.snap
		s.byCode[c.snap.DeliveryID] = c.snap.ID
	}
	return nil
}

func matches(snap delivery.Snapshot, f ports.DeliveryFilter) bool {
	if f.Status != nil && snap.Status != *f.Status {
		return false
	}
	if f.CreatedFrom != nil && snap.CreatedAt.Before(*f.CreatedFrom) {
		return false
	}
	if f.CreatedTo != nil && !snap.CreatedAt.Before(*f.CreatedTo) {
		return false
	}
	return true
}

func newestFirst(a, b delivery.Snapshot) int {
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(a.ID.String(), b.ID.String())
}

func restoreAll(snaps []delivery.Snapshot) ([]*delivery.Delivery, error) {
	out := make([]*delivery.Delivery, 0, len(snaps))
	for _, snap := range snaps {
		d, err := delivery.RestoreDelivery(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
