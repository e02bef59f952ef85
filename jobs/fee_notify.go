package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/vidyakosh-erp/vidyakosh-erp/internal/billing"
	"github.com/vidyakosh-erp/vidyakosh-erp/internal/roster"
	"github.com/vidyakosh-erp/vidyakosh-erp/internal/shared"
)

// ChargeNotifier implements the generator's notifier port by enqueueing a
// notify task. The enqueue is the only thing that can fail inside
// generation; delivery problems stay in the worker.
type ChargeNotifier struct {
	Client *Client
}

// ChargeCreated enqueues a guardian SMS for a freshly generated charge.
func (n ChargeNotifier) ChargeCreated(ctx context.Context, student roster.Student, charge billing.MonthlyCharge) error {
	if n.Client == nil {
		return errors.New("notifier: client not configured")
	}
	if student.GuardianPhone == "" {
		return nil
	}
	_, err := n.Client.EnqueueChargeNotify(ctx, ChargeNotifyPayload{
		StudentID:     student.ID,
		ChargeID:      charge.ID,
		StudentName:   student.FirstName,
		GuardianPhone: student.GuardianPhone,
		PeriodLabel:   shared.Period{Month: charge.Month, Year: charge.Year}.Label(),
		TotalAmount:   charge.TotalAmount,
		DueDate:       charge.DueDate,
	})
	return err
}

// FeeNotifyJob delivers the charge-generated SMS.
type FeeNotifyJob struct {
	Logger *slog.Logger
	Sender SMSSender
}

// NewFeeNotifyJob initialises the notify handler.
func NewFeeNotifyJob(logger *slog.Logger, sender SMSSender) *FeeNotifyJob {
	return &FeeNotifyJob{Logger: logger, Sender: sender}
}

// Handle processes TaskFeeChargeNotify tasks.
func (j *FeeNotifyJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Sender == nil {
		return errors.New("fee notify: handler not configured")
	}
	var payload ChargeNotifyPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	message := fmt.Sprintf("Dear parent, the fee of %s for %s (period %s) is due on %s. Please pay at the school office. - Vidyakosh",
		shared.FormatPaise(payload.TotalAmount),
		payload.StudentName,
		payload.PeriodLabel,
		payload.DueDate.Format("02 Jan 2006"))

	if err := j.Sender.Send(ctx, payload.GuardianPhone, message); err != nil {
		j.logger().Warn("charge notify delivery failed",
			slog.Int64("charge_id", payload.ChargeID),
			slog.Any("error", err))
		return err
	}
	j.logger().Info("charge notify delivered",
		slog.Int64("student_id", payload.StudentID),
		slog.Int64("charge_id", payload.ChargeID))
	return nil
}

func (j *FeeNotifyJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskFeeChargeNotify))
	}
	return slog.Default().With(slog.String("job", TaskFeeChargeNotify))
}
