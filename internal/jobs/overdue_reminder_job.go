package jobs

import (
	"context"

	"parceltrack/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultOverdueSchedule runs the reminder at the top of every hour.
const DefaultOverdueSchedule = "@hourly"

// OverdueReminderJob periodically warns owners about deliveries past their planned date.
type OverdueReminderJob struct {
	handler  commands.RemindOverdueDeliveriesCommandHandler
	schedule string
	cron     *cron.Cron
	logger   *zap.Logger
}

// NewOverdueReminderJob accepts a six-field cron spec (with seconds) or a descriptor such as "@hourly".
// An empty schedule uses DefaultOverdueSchedule.
func NewOverdueReminderJob(
	handler commands.RemindOverdueDeliveriesCommandHandler,
	schedule string,
	logger *zap.Logger,
) *OverdueReminderJob {
	if schedule == "" {
		schedule = DefaultOverdueSchedule
	}
	return &OverdueReminderJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With(zap.String("component", "overdue_reminder_job")),
	}
}

// Start registers the job and starts the scheduler.
func (j *OverdueReminderJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Overdue reminder job started", zap.String("schedule", j.schedule))
	return nil
}

// Run performs a single scan.
func (j *OverdueReminderJob) Run(ctx context.Context) {
	cmd, err := commands.NewRemindOverdueDeliveriesCommand(0)
	if err != nil {
		j.logger.Error("Overdue reminder job failed", zap.Error(err))
		return
	}

	n, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.Error("Overdue reminder job failed", zap.Error(err))
		return
	}
	if n > 0 {
		j.logger.Info("Overdue deliveries reminded", zap.Int("count", n))
	}
}

// Stop stops the scheduler and waits for a running scan to finish.
func (j *OverdueReminderJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Overdue reminder job stopped")
}
