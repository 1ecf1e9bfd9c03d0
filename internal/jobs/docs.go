// Package jobs provides scheduled background tasks for the delivery service.
//
// Jobs are cron-based (github.com/robfig/cron/v3) and only drive application
// commands; they hold no business logic of their own.
//
// # Available Jobs
//
// OverdueReminderJob scans open deliveries whose planned delivery date has
// passed and emits one warning alert per delivery and run. It never modifies
// a delivery.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(remindOverdueHandler, cfg.OverdueSchedule, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The schedule is a six-field cron spec with seconds or a descriptor such as
// "@hourly" (the default), taken from OVERDUE_SCHEDULE.
package jobs
