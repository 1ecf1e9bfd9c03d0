package commands

import (
	"context"
	"errors"

	"parceltrack/internal/core/domain/model/delivery"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/services"
	"parceltrack/internal/core/ports"
	"parceltrack/internal/pkg/clock"
	"parceltrack/internal/pkg/errs"

	"go.uber.org/zap"
)

// CreateDeliveryCommandHandler prices and stores a new delivery, then raises the creation alerts.
//
//	handler := NewCreateDeliveryCommandHandler(uowFactory, ids, clk, calc, policy, emitter, cache, logger)
//	d, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(d.DeliveryID(), d.Pricing().TotalCost())
type CreateDeliveryCommandHandler struct {
	uowFactory DeliveryUoWFactory
	ids        ports.DeliveryIDGenerator
	clock      clock.Clock
	calculator services.PricingCalculator
	policy     services.AlertPolicy
	emitter    ports.AlertEmitter
	stats      StatsInvalidator
	logger     *zap.Logger
}

// NewCreateDeliveryCommandHandler wires the handler. stats and logger may be nil.
func NewCreateDeliveryCommandHandler(
	uowFactory DeliveryUoWFactory,
	ids ports.DeliveryIDGenerator,
	clk clock.Clock,
	calculator services.PricingCalculator,
	policy services.AlertPolicy,
	emitter ports.AlertEmitter,
	stats StatsInvalidator,
	logger *zap.Logger,
) CreateDeliveryCommandHandler {
	return CreateDeliveryCommandHandler{
		uowFactory: uowFactory,
		ids:        ids,
		clock:      clk,
		calculator: calculator,
		policy:     policy,
		emitter:    emitter,
		stats:      orNoopStats(stats),
		logger:     orNopLogger(logger, "create_delivery"),
	}
}

// Handle fails with a validation error for bad input or a quote with negative parts.
// A DeliveryID collision is retried with a fresh id.
func (h CreateDeliveryCommandHandler) Handle(ctx context.Context, cmd CreateDeliveryCommand) (*delivery.Delivery, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	pricing, err := h.calculator.Calculate(services.PricingInput{
		DistanceKm: services.TripDistanceKm(cmd.Route(), cmd.Pickup(), cmd.Destination()),
		WeightKg:   cmd.Parcel().WeightKg(),
		Fragile:    cmd.Parcel().Fragile(),
		Provided:   cmd.ProvidedPricing(),
	})
	if err != nil {
		return nil, err
	}

	var d *delivery.Delivery
	for range MaxWriteAttempts {
		d, err = h.insert(ctx, cmd, pricing)
		if !errors.Is(err, errs.ErrObjectAlreadyExist) {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	alerts, err := h.policy.ForCreation(d, d.CreatedAt())
	afterCommit(ctx, h.logger, h.emitter, h.stats, d.OwnerID(), alerts, err)

	return d, nil
}

func (h CreateDeliveryCommandHandler) insert(
	ctx context.Context,
	cmd CreateDeliveryCommand,
	pricing delivery.Pricing,
) (*delivery.Delivery, error) {
	deliveryID, err := h.ids.Next()
	if err != nil {
		return nil, err
	}

	d, err := delivery.NewDelivery(delivery.Draft{
		ID:          kernel.NewUUID(),
		DeliveryID:  deliveryID,
		OwnerID:     cmd.OwnerID(),
		Customer:    cmd.Customer(),
		Pickup:      cmd.Pickup(),
		Destination: cmd.Destination(),
		Parcel:      cmd.Parcel(),
		Schedule:    cmd.Schedule(),
		Route:       cmd.Route(),
		Pricing:     pricing,
		ActorID:     cmd.ActorID(),
		CreatedAt:   h.clock.Now(),
	})
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.DeliveryRepository().Add(ctx, d); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return d, nil
}
