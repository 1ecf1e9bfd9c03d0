package queries

import (
	"context"
	"errors"
	"time"

	"parceltrack/internal/core/domain/model/delivery"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/ports"
	"parceltrack/internal/pkg/errs"
	"parceltrack/internal/pkg/guard"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

var ErrListDeliveriesQueryIsNotConstructed = errors.New(
	"ListDeliveriesQuery must be created via NewListDeliveriesQuery constructor",
)

// ListDeliveriesQuery pages through an owner's active deliveries, newest first.
//
//	q, err := NewListDeliveriesQuery(owner, &status, &from, nil, 1, 20)
type ListDeliveriesQuery struct {
	ownerID kernel.UUID
	filter  ports.DeliveryFilter
	page    ports.PageRequest
	guard   guard.ConstructorGuard
}

// NewListDeliveriesQuery validates the filter. page defaults to 1 and limit to
// DefaultPageLimit when zero; limit above MaxPageLimit is rejected.
// The creation range is [from, to).
func NewListDeliveriesQuery(
	ownerID kernel.UUID,
	status *delivery.Status,
	from, to *time.Time,
	page, limit int,
) (ListDeliveriesQuery, error) {
	if page == 0 {
		page = 1
	}
	if limit == 0 {
		limit = DefaultPageLimit
	}

	var errStatus, errPage, errLimit, errRange error
	if status != nil {
		errStatus = status.Validate()
	}
	if page < 1 {
		errPage = errs.NewValueIsOutOfRangeError("page", page, 1, "+Inf")
	}
	if limit < 1 || limit > MaxPageLimit {
		errLimit = errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxPageLimit)
	}
	if from != nil && to != nil && !from.Before(*to) {
		errRange = errs.NewValueIsInvalidErrorWithCause("dateRange", errors.New("from must be before to"))
	}

	if err := errors.Join(ownerID.Validate(), errStatus, errPage, errLimit, errRange); err != nil {
		return ListDeliveriesQuery{}, err
	}

	q := ListDeliveriesQuery{
		ownerID: ownerID,
		page:    ports.PageRequest{Page: page, Limit: limit},
		guard:   guard.NewConstructorGuard(),
	}
	if status != nil {
		s := *status
		q.filter.Status = &s
	}
	if from != nil {
		f := from.UTC()
		q.filter.CreatedFrom = &f
	}
	if to != nil {
		t := to.UTC()
		q.filter.CreatedTo = &t
	}
	return q, nil
}

// Validate ensures the query was created through the constructor.
func (q ListDeliveriesQuery) Validate() error {
	return q.guard.Validate(ErrListDeliveriesQueryIsNotConstructed)
}

// ListDeliveriesResponse is one page of results.
type ListDeliveriesResponse struct {
	Items      []*delivery.Delivery
	Total      int
	Page       int
	Limit      int
	TotalPages int
}

type ListDeliveriesQueryHandler struct {
	reader ports.DeliveryReader
}

// NewListDeliveriesQueryHandler creates a handler for paged delivery listings.
func NewListDeliveriesQueryHandler(reader ports.DeliveryReader) ListDeliveriesQueryHandler {
	return ListDeliveriesQueryHandler{reader: reader}
}

// Handle returns one page of the owner's active deliveries, newest first.
func (h ListDeliveriesQueryHandler) Handle(ctx context.Context, q ListDeliveriesQuery) (ListDeliveriesResponse, error) {
	if err := q.Validate(); err != nil {
		return ListDeliveriesResponse{}, err
	}

	items, total, err := h.reader.List(ctx, q.ownerID, q.filter, q.page)
	if err != nil {
		return ListDeliveriesResponse{}, err
	}
	if items == nil {
		items = []*delivery.Delivery{}
	}

	return ListDeliveriesResponse{
		Items:      items,
		Total:      total,
		Page:       q.page.Page,
		Limit:      q.page.Limit,
		TotalPages: (total + q.page.Limit - 1) / q.page.Limit,
	}, nil
}
