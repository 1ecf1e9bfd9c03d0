package commands

import (
	"errors"

	"parceltrack/internal/pkg/errs"
	"parceltrack/internal/pkg/guard"
)

// DefaultOverdueBatch is the number of deliveries reminded per run when no limit is given.
const DefaultOverdueBatch = 500

var ErrRemindOverdueDeliveriesCommandIsNotConstructed = errors.New(
	"RemindOverdueDeliveriesCommand must be created via NewRemindOverdueDeliveriesCommand constructor",
)

// RemindOverdueDeliveriesCommand raises one warning per open delivery past its planned date.
type RemindOverdueDeliveriesCommand struct { //nolint:recvcheck //using for validation
	limit int

	guard guard.ConstructorGuard
}

// NewRemindOverdueDeliveriesCommand uses DefaultOverdueBatch for a zero limit.
func NewRemindOverdueDeliveriesCommand(limit int) (RemindOverdueDeliveriesCommand, error) {
	if limit == 0 {
		limit = DefaultOverdueBatch
	}
	if limit < 0 {
		return RemindOverdueDeliveriesCommand{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, "+Inf")
	}
	return RemindOverdueDeliveriesCommand{limit: limit, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
func (c RemindOverdueDeliveriesCommand) Validate() error {
	return c.guard.Validate(ErrRemindOverdueDeliveriesCommandIsNotConstructed)
}

func (c RemindOverdueDeliveriesCommand) Limit() int { return c.limit }
