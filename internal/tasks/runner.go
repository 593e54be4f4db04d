package tasks

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"gymdesk/internal/models"
)

// Runner drains due scheduled tasks: runs each handler, records a history
// row, and marks the task done, failed, or rescheduled when it recurs.
type Runner struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewRunner(db *gorm.DB, log *zap.Logger) *Runner {
	return &Runner{db: db, log: log}
}

// ProcessDue executes every task with status=active whose due time has
// passed. One task's failure never blocks the rest of the batch.
func (r *Runner) ProcessDue(ctx context.Context) {
	var pendingTasks []models.ScheduledTask
	now := time.Now()
	if err := r.db.Where("status = ? AND due <= ?", models.ScheduledTaskStatusActive, now).Find(&pendingTasks).Error; err != nil {
		r.log.Error("fetching pending tasks failed", zap.Error(err))
		return
	}

	if len(pendingTasks) == 0 {
		return
	}

	r.log.Info("pending tasks found", zap.Int("count", len(pendingTasks)))

	for _, task := range pendingTasks {
		if ctx.Err() != nil {
			return
		}
		r.execute(ctx, task)
	}
}

func (r *Runner) recordHistory(h models.ScheduledTaskHistory) {
	if err := r.db.Create(&h).Error; err != nil {
		r.log.Error("recording task history failed",
			zap.String("task", h.TaskName),
			zap.Uint("scheduled_task_id", h.ScheduledTaskID),
			zap.Error(err))
	}
}

func (r *Runner) updateTask(task *models.ScheduledTask, updates map[string]interface{}) {
	if err := r.db.Model(task).Updates(updates).Error; err != nil {
		// A task left active here re-runs on the next tick; the error must
		// be visible so the duplicate run can be traced.
		r.log.Error("updating task state failed",
			zap.String("task", task.TaskName),
			zap.Uint("id", task.ID),
			zap.Error(err))
	}
}

// execute runs one due task. A failed run is recorded and the task marked
// failure, never retried; the failure stays visible in the history.
func (r *Runner) execute(ctx context.Context, task models.ScheduledTask) {
	r.log.Info("processing task", zap.String("task", task.TaskName), zap.Uint("id", task.ID))

	now := time.Now()

	handler, found := GetHandler(task.TaskName)
	if !found {
		r.log.Error("task handler not found", zap.String("task", task.TaskName))
		r.updateTask(&task, map[string]interface{}{
			"status":   models.ScheduledTaskStatusFailure,
			"last_run": &now,
		})
		r.recordHistory(models.ScheduledTaskHistory{
			ScheduledTaskID: task.ID,
			TaskName:        task.TaskName,
			RunAt:           now,
			Status:          "handler_not_found",
			Arguments:       task.Arguments,
			Result:          map[string]interface{}{"error": "Handler not found"},
		})
		return
	}

	startTime := time.Now()
	result, err := handler(ctx, r.db, task)
	runtimeMs := int(time.Since(startTime).Milliseconds())

	status := "success"
	resultData := result
	if err != nil {
		status = "failure"
		resultData = map[string]interface{}{"error": err.Error()}
		r.log.Error("task failed", zap.String("task", task.TaskName), zap.Error(err))
	} else {
		r.log.Info("task completed", zap.String("task", task.TaskName), zap.Int("runtime_ms", runtimeMs))
	}

	r.recordHistory(models.ScheduledTaskHistory{
		ScheduledTaskID: task.ID,
		TaskName:        task.TaskName,
		RunAt:           startTime,
		Runtime:         runtimeMs,
		Status:          status,
		Arguments:       task.Arguments,
		Result:          resultData,
	})

	taskUpdates := map[string]interface{}{
		"last_run": &startTime,
	}

	if status != "success" {
		taskUpdates["status"] = models.ScheduledTaskStatusFailure
	} else {
		switch task.TaskType {
		case models.ScheduledTaskTypeOneTime:
			taskUpdates["status"] = models.ScheduledTaskStatusDone
		case models.ScheduledTaskTypeRecurring:
			nextDue := task.NextDue()
			// The next due must be ahead of the current one, otherwise the
			// task would run again on the very next tick.
			if nextDue.After(task.Due) {
				taskUpdates["status"] = models.ScheduledTaskStatusActive
				taskUpdates["due"] = nextDue
			} else {
				taskUpdates["status"] = models.ScheduledTaskStatusDone
			}
		}
	}

	r.updateTask(&task, taskUpdates)
}
