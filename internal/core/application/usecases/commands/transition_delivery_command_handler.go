package commands

import (
	"context"

	"parceltrack/internal/core/domain/model/delivery"
	"parceltrack/internal/core/domain/services"
	"parceltrack/internal/core/ports"
	"parceltrack/internal/pkg/clock"

	"go.uber.org/zap"
)

// TransitionDeliveryCommandHandler applies a status change and raises the matching alerts.
// Errors: errs.ErrObjectNotFound, errs.ErrInvalidTransition, errs.ErrVersionIsInvalid
// after MaxWriteAttempts conflicting attempts, or a storage failure.
type TransitionDeliveryCommandHandler struct {
	uowFactory DeliveryUoWFactory
	clock      clock.Clock
	policy     services.AlertPolicy
	emitter    ports.AlertEmitter
	stats      StatsInvalidator
	logger     *zap.Logger
}

// NewTransitionDeliveryCommandHandler creates a handler for status changes. stats and logger may be nil.
func NewTransitionDeliveryCommandHandler(
	uowFactory DeliveryUoWFactory,
	clk clock.Clock,
	policy services.AlertPolicy,
	emitter ports.AlertEmitter,
	stats StatsInvalidator,
	logger *zap.Logger,
) TransitionDeliveryCommandHandler {
	return TransitionDeliveryCommandHandler{
		uowFactory: uowFactory,
		clock:      clk,
		policy:     policy,
		emitter:    emitter,
		stats:      orNoopStats(stats),
		logger:     orNopLogger(logger, "transition_delivery"),
	}
}

// Handle moves the delivery to the target status and emits the alerts of the new state.
func (h TransitionDeliveryCommandHandler) Handle(
	ctx context.Context,
	cmd TransitionDeliveryCommand,
) (*delivery.Delivery, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	d, err := mutateDelivery(ctx, h.uowFactory, cmd.OwnerID(), cmd.DeliveryID(), func(d *delivery.Delivery) error {
		return d.Transition(cmd.Target(), cmd.Location(), cmd.Notes(), cmd.ActorID(), h.clock.Now())
	})
	if err != nil {
		return nil, err
	}

	alerts, err := h.policy.ForTransition(d, d.UpdatedAt())
	afterCommit(ctx, h.logger, h.emitter, h.stats, d.OwnerID(), alerts, err)

	return d, nil
}
