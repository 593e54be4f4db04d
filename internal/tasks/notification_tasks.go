package tasks

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"gymdesk/internal/models"
	"gymdesk/internal/services"
)

// ExpiryReminderTaskDef encapsulates the expiry reminder batch: every
// ACTIVE member whose membership ends inside the reminder window gets one
// message. Failed sends are counted in the result, never retried.
type ExpiryReminderTaskDef struct {
	Notifier services.Notifier
	Days     int
	Logger   *zap.Logger
}

// TaskID returns the unique identifier for this task
func (t *ExpiryReminderTaskDef) TaskID() string {
	return "send_expiry_reminders"
}

// CreateTask builds a ScheduledTask record for this task
func (t *ExpiryReminderTaskDef) CreateTask(due time.Time, recurringInterval *string) (*models.ScheduledTask, error) {
	taskType := models.ScheduledTaskTypeOneTime
	if recurringInterval != nil {
		taskType = models.ScheduledTaskTypeRecurring
	}
	return BuildScheduledTask(t.TaskID(), map[string]interface{}{}, due, recurringInterval, taskType)
}

// HandleExecution runs one reminder batch and reports the outcome.
func (t *ExpiryReminderTaskDef) HandleExecution(ctx context.Context, db *gorm.DB, task models.ScheduledTask) (map[string]interface{}, error) {
	report, err := services.SendExpiryReminders(db.WithContext(ctx), t.Notifier, time.Now(), t.Days, t.Logger)
	if err != nil {
		return nil, err
	}

	t.Logger.Info("expiry reminder batch finished",
		zap.Int("total", report.Total),
		zap.Int("successful", report.Successful),
		zap.Int("failed", report.Failed))

	notified := make([]map[string]interface{}, 0, len(report.MembersNotified))
	for _, m := range report.MembersNotified {
		notified = append(notified, map[string]interface{}{
			"id":          m.ID,
			"name":        m.Name,
			"phone":       m.Phone,
			"expiry_date": m.ExpiryDate,
		})
	}

	return map[string]interface{}{
		"total_members":    report.Total,
		"successful":       report.Successful,
		"failed":           report.Failed,
		"members_notified": notified,
	}, nil
}

// ExpiryReminderTask is the singleton instance of ExpiryReminderTaskDef
var ExpiryReminderTask = &ExpiryReminderTaskDef{}
