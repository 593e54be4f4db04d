package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gymdesk/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	if err := db.AutoMigrate(&models.ScheduledTask{}, &models.ScheduledTaskHistory{}); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	return db
}

func seedTask(t *testing.T, db *gorm.DB, name string, taskType models.ScheduledTaskType, recurring *string) models.ScheduledTask {
	t.Helper()
	task := models.ScheduledTask{
		TaskName:          name,
		Arguments:         map[string]interface{}{},
		Due:               time.Now().Add(-time.Minute),
		RecurringInterval: recurring,
		Status:            models.ScheduledTaskStatusActive,
		TaskType:          taskType,
	}
	if err := db.Create(&task).Error; err != nil {
		t.Fatalf("seeding task: %v", err)
	}
	return task
}

func reloadTask(t *testing.T, db *gorm.DB, id uint) models.ScheduledTask {
	t.Helper()
	var task models.ScheduledTask
	if err := db.First(&task, id).Error; err != nil {
		t.Fatalf("reloading task %d: %v", id, err)
	}
	return task
}

func taskHistory(t *testing.T, db *gorm.DB, taskID uint) []models.ScheduledTaskHistory {
	t.Helper()
	var rows []models.ScheduledTaskHistory
	if err := db.Where("scheduled_task_id = ?", taskID).Find(&rows).Error; err != nil {
		t.Fatalf("loading history for task %d: %v", taskID, err)
	}
	return rows
}

func TestRunnerOneTimeSuccess(t *testing.T) {
	db := openTestDB(t)
	RegisterHandler("count_sheep", func(ctx context.Context, db *gorm.DB, task models.ScheduledTask) (map[string]interface{}, error) {
		return map[string]interface{}{"status": "success"}, nil
	})

	task := seedTask(t, db, "count_sheep", models.ScheduledTaskTypeOneTime, nil)
	NewRunner(db, zap.NewNop()).ProcessDue(context.Background())

	got := reloadTask(t, db, task.ID)
	if got.Status != models.ScheduledTaskStatusDone {
		t.Errorf("task status = %s; want done", got.Status)
	}
	if got.LastRun == nil {
		t.Error("last_run not set")
	}

	rows := taskHistory(t, db, task.ID)
	if len(rows) != 1 || rows[0].Status != "success" {
		t.Errorf("history = %+v; want one success row", rows)
	}
}

func TestRunnerHandlerFailure(t *testing.T) {
	db := openTestDB(t)
	RegisterHandler("always_failing", func(ctx context.Context, db *gorm.DB, task models.ScheduledTask) (map[string]interface{}, error) {
		return nil, errors.New("boom")
	})

	task := seedTask(t, db, "always_failing", models.ScheduledTaskTypeOneTime, nil)
	NewRunner(db, zap.NewNop()).ProcessDue(context.Background())

	got := reloadTask(t, db, task.ID)
	if got.Status != models.ScheduledTaskStatusFailure {
		t.Errorf("task status = %s; want failure", got.Status)
	}

	rows := taskHistory(t, db, task.ID)
	if len(rows) != 1 || rows[0].Status != "failure" {
		t.Fatalf("history = %+v; want one failure row", rows)
	}
	if rows[0].Result["error"] != "boom" {
		t.Errorf("history result = %v; want the handler error", rows[0].Result)
	}
}

func TestRunnerUnknownHandler(t *testing.T) {
	db := openTestDB(t)

	task := seedTask(t, db, "no_such_task", models.ScheduledTaskTypeOneTime, nil)
	NewRunner(db, zap.NewNop()).ProcessDue(context.Background())

	got := reloadTask(t, db, task.ID)
	if got.Status != models.ScheduledTaskStatusFailure {
		t.Errorf("task status = %s; want failure", got.Status)
	}

	rows := taskHistory(t, db, task.ID)
	if len(rows) != 1 || rows[0].Status != "handler_not_found" {
		t.Errorf("history = %+v; want one handler_not_found row", rows)
	}
}

func TestRunnerReschedulesRecurring(t *testing.T) {
	db := openTestDB(t)
	RegisterHandler("daily_tick", func(ctx context.Context, db *gorm.DB, task models.ScheduledTask) (map[string]interface{}, error) {
		return map[string]interface{}{"status": "success"}, nil
	})

	rule := "FREQ=DAILY"
	task := seedTask(t, db, "daily_tick", models.ScheduledTaskTypeRecurring, &rule)
	NewRunner(db, zap.NewNop()).ProcessDue(context.Background())

	got := reloadTask(t, db, task.ID)
	if got.Status != models.ScheduledTaskStatusActive {
		t.Errorf("task status = %s; want active (rescheduled)", got.Status)
	}
	if !got.Due.After(task.Due) {
		t.Errorf("due = %v; want after the previous due %v", got.Due, task.Due)
	}
	if !got.Due.After(time.Now()) {
		t.Errorf("due = %v; want in the future", got.Due)
	}
}

func TestRunnerLogsHistoryErrors(t *testing.T) {
	db := openTestDB(t)
	RegisterHandler("quick_nap", func(ctx context.Context, db *gorm.DB, task models.ScheduledTask) (map[string]interface{}, error) {
		return map[string]interface{}{"status": "success"}, nil
	})

	task := seedTask(t, db, "quick_nap", models.ScheduledTaskTypeOneTime, nil)
	if err := db.Migrator().DropTable(&models.ScheduledTaskHistory{}); err != nil {
		t.Fatalf("dropping history table: %v", err)
	}

	core, logs := observer.New(zapcore.ErrorLevel)
	NewRunner(db, zap.New(core)).ProcessDue(context.Background())

	if logs.FilterMessage("recording task history failed").Len() == 0 {
		t.Error("history write failure was not logged")
	}

	// The task itself must still be finalized.
	got := reloadTask(t, db, task.ID)
	if got.Status != models.ScheduledTaskStatusDone {
		t.Errorf("task status = %s; want done despite the history error", got.Status)
	}
}
