// Package ports defines the contracts between the application core and its adapters.
package ports

import (
	"context"
	"time"

	"parceltrack/internal/core/domain/model/delivery"
	"parceltrack/internal/core/domain/model/kernel"
)

// DeliveryRepository persists Delivery aggregates inside a unit of work.
// Archived deliveries behave as missing for every method.
type DeliveryRepository interface {
	// Add stores a new delivery. A duplicate DeliveryID yields errs.ErrObjectAlreadyExist.
	Add(ctx context.Context, d *delivery.Delivery) error

	// Update writes d if the stored version still equals d.Version(), appending
	// history entries not stored yet. A stale version yields errs.ErrVersionIsInvalid.
	Update(ctx context.Context, d *delivery.Delivery) error

	// Get loads the delivery owned by ownerID. Missing, foreign and archived
	// deliveries all yield errs.ErrObjectNotFound.
	Get(ctx context.Context, ownerID kernel.UUID, id kernel.DeliveryID) (*delivery.Delivery, error)
}

// DeliveryFilter narrows a listing. Nil fields do not filter.
// The creation range is [CreatedFrom, CreatedTo).
type DeliveryFilter struct {
	Status      *delivery.Status
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// PageRequest is 1-based.
type PageRequest struct {
	Page  int
	Limit int
}

// Offset of the first row of the page.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// DeliveryReader serves read-only queries outside any unit of work.
// Only active deliveries are returned.
type DeliveryReader interface {
	Get(ctx context.Context, ownerID kernel.UUID, id kernel.DeliveryID) (*delivery.Delivery, error)

	// List returns one page ordered by creation time, newest first, and the total match count.
	List(ctx context.Context, ownerID kernel.UUID, filter DeliveryFilter, page PageRequest) ([]*delivery.Delivery, int, error)

	// ListActive returns every active delivery of the owner.
	ListActive(ctx context.Context, ownerID kernel.UUID) ([]*delivery.Delivery, error)

	// ListOverdue returns up to limit open deliveries of any owner whose
	// scheduled delivery date is before at, oldest due first.
	ListOverdue(ctx context.Context, at time.Time, limit int) ([]*delivery.Delivery, error)
}
