package jobs

import (
	"fmt"

	"parceltrack/internal/core/application/usecases/commands"

	"go.uber.org/zap"
)

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	overdueReminderJob *OverdueReminderJob
}

// NewJobManager creates a job manager with all required jobs.
func NewJobManager(
	remindOverdueHandler commands.RemindOverdueDeliveriesCommandHandler,
	overdueSchedule string,
	logger *zap.Logger,
) *JobManager {
	return &JobManager{
		overdueReminderJob: NewOverdueReminderJob(remindOverdueHandler, overdueSchedule, logger),
	}
}

// StartAll starts all scheduled jobs.
func (jm *JobManager) StartAll() error {
	if err := jm.overdueReminderJob.Start(); err != nil {
		return fmt.Errorf("failed to start overdue reminder job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.overdueReminderJob.Stop()
}
