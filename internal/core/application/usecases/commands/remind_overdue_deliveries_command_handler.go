package commands

import (
	"context"

	"parceltrack/internal/core/domain/model/alert"
	"parceltrack/internal/core/domain/services"
	"parceltrack/internal/core/ports"
	"parceltrack/internal/pkg/clock"
)

// RemindOverdueDeliveriesCommandHandler scans open deliveries of every owner.
// It never changes a delivery; running it twice reminds twice.
type RemindOverdueDeliveriesCommandHandler struct {
	reader  ports.DeliveryReader
	clock   clock.Clock
	policy  services.AlertPolicy
	emitter ports.AlertEmitter
}

// NewRemindOverdueDeliveriesCommandHandler creates a handler for the overdue reminder run.
func NewRemindOverdueDeliveriesCommandHandler(
	reader ports.DeliveryReader,
	clk clock.Clock,
	policy services.AlertPolicy,
	emitter ports.AlertEmitter,
) RemindOverdueDeliveriesCommandHandler {
	return RemindOverdueDeliveriesCommandHandler{reader: reader, clock: clk, policy: policy, emitter: emitter}
}

// Handle returns the number of reminders handed to the emitter.
func (h RemindOverdueDeliveriesCommandHandler) Handle(ctx context.Context, cmd RemindOverdueDeliveriesCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	now := h.clock.Now()
	overdue, err := h.reader.ListOverdue(ctx, now, cmd.Limit())
	if err != nil {
		return 0, err
	}

	reminders := make([]alert.Alert, 0, len(overdue))
	for _, d := range overdue {
		a, err := h.policy.ForOverdue(d, now)
		if err != nil {
			return 0, err
		}
		reminders = append(reminders, a)
	}

	if len(reminders) > 0 {
		h.emitter.Emit(context.WithoutCancel(ctx), reminders...)
	}
	return len(reminders), nil
}
