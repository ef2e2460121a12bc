package jobs

import "github.com/hibiken/asynq"

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskAuditRetention is the task type for the audit retention sweep.
	TaskAuditRetention = "audit:retention"
)

// NewAuditRetentionTask constructs the retention sweep task. The sweep takes
// no parameters; the cutoff is derived from the clock at execution time.
func NewAuditRetentionTask() *asynq.Task {
	return asynq.NewTask(TaskAuditRetention, nil)
}
