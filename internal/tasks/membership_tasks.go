package tasks

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"gymdesk/internal/models"
	"gymdesk/internal/services"
)

// UpdateMemberStatusTaskDef encapsulates the daily status sweep that
// expires memberships past their end date.
type UpdateMemberStatusTaskDef struct {
	Logger *zap.Logger
}

// TaskID returns the unique identifier for this task
func (t *UpdateMemberStatusTaskDef) TaskID() string {
	return "update_member_status"
}

// CreateTask builds a ScheduledTask record for this task
func (t *UpdateMemberStatusTaskDef) CreateTask(due time.Time, recurringInterval *string) (*models.ScheduledTask, error) {
	taskType := models.ScheduledTaskTypeOneTime
	if recurringInterval != nil {
		taskType = models.ScheduledTaskTypeRecurring
	}
	return BuildScheduledTask(t.TaskID(), map[string]interface{}{}, due, recurringInterval, taskType)
}

// HandleExecution expires every ACTIVE member whose end date has passed.
// The sweep is idempotent, so an overlapping or repeated run is harmless.
func (t *UpdateMemberStatusTaskDef) HandleExecution(ctx context.Context, db *gorm.DB, task models.ScheduledTask) (map[string]interface{}, error) {
	expired, err := services.UpdateMemberStatuses(db.WithContext(ctx), time.Now())
	if err != nil {
		return nil, err
	}

	t.Logger.Info("member status sweep finished", zap.Int64("expired", expired))

	return map[string]interface{}{
		"status":  "success",
		"expired": expired,
	}, nil
}

// UpdateMemberStatusTask is the singleton instance of UpdateMemberStatusTaskDef
var UpdateMemberStatusTask = &UpdateMemberStatusTaskDef{}
