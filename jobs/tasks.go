package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskFeeChargeNotify is the task type for the SMS sent when a charge
	// is generated.
	TaskFeeChargeNotify = "fees:charge_notify"
	// TaskFeeReminderSweep is the task type for the daily reminder sweep.
	TaskFeeReminderSweep = "fees:reminder_sweep"
)

// ChargeNotifyPayload carries everything the notify handler needs so it
// never has to re-read the charge.
type ChargeNotifyPayload struct {
	StudentID     int64     `json:"student_id"`
	ChargeID      int64     `json:"charge_id"`
	StudentName   string    `json:"student_name"`
	GuardianPhone string    `json:"guardian_phone"`
	PeriodLabel   string    `json:"period_label"`
	TotalAmount   int64     `json:"total_amount"`
	DueDate       time.Time `json:"due_date"`
}

// NewChargeNotifyTask constructs an Asynq task.
func NewChargeNotifyTask(payload ChargeNotifyPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskFeeChargeNotify, data), nil
}

// ReminderSweepPayload triggers one reminder pass. AsOf defaults to now.
type ReminderSweepPayload struct {
	AsOf time.Time `json:"as_of,omitempty"`
}

// NewReminderSweepTask constructs an Asynq task.
func NewReminderSweepTask(payload ReminderSweepPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskFeeReminderSweep, data), nil
}
