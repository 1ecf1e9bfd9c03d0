package queries

import (
	"context"
	"errors"

	"parceltrack/internal/core/domain/model/delivery"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/ports"
	"parceltrack/internal/pkg/guard"
)

var ErrGetDeliveryQueryIsNotConstructed = errors.New(
	"GetDeliveryQuery must be created via NewGetDeliveryQuery constructor",
)

// GetDeliveryQuery fetches one active delivery of an owner.
type GetDeliveryQuery struct {
	ownerID    kernel.UUID
	deliveryID kernel.DeliveryID
	guard      guard.ConstructorGuard
}

// NewGetDeliveryQuery creates a lookup of deliveryID within ownerID's deliveries.
func NewGetDeliveryQuery(ownerID kernel.UUID, deliveryID kernel.DeliveryID) (GetDeliveryQuery, error) {
	if err := errors.Join(ownerID.Validate(), deliveryID.Validate()); err != nil {
		return GetDeliveryQuery{}, err
	}
	return GetDeliveryQuery{ownerID: ownerID, deliveryID: deliveryID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetDeliveryQuery) Validate() error {
	return q.guard.Validate(ErrGetDeliveryQueryIsNotConstructed)
}

// GetDeliveryQueryHandler returns errs.ErrObjectNotFound for missing, foreign or archived deliveries.
type GetDeliveryQueryHandler struct {
	reader ports.DeliveryReader
}

// NewGetDeliveryQueryHandler creates a handler for single delivery lookups.
func NewGetDeliveryQueryHandler(reader ports.DeliveryReader) GetDeliveryQueryHandler {
	return GetDeliveryQueryHandler{reader: reader}
}

// Handle fails with errs.ErrObjectNotFound for archived or foreign deliveries.
func (h GetDeliveryQueryHandler) Handle(ctx context.Context, q GetDeliveryQuery) (*delivery.Delivery, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return h.reader.Get(ctx, q.ownerID, q.deliveryID)
}
