package tasks

import (
	"go.uber.org/zap"

	"gymdesk/internal/services"
)

// DefineTasks wires the task singletons with their runtime dependencies
// and registers them in the global registry.
func DefineTasks(notifier services.Notifier, reminderDays int, log *zap.Logger) {
	UpdateMemberStatusTask.Logger = log
	RegisterHandler(UpdateMemberStatusTask.TaskID(), UpdateMemberStatusTask.HandleExecution)

	ExpiryReminderTask.Notifier = notifier
	ExpiryReminderTask.Days = reminderDays
	ExpiryReminderTask.Logger = log
	RegisterHandler(ExpiryReminderTask.TaskID(), ExpiryReminderTask.HandleExecution)
}
