package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidyakosh-erp/vidyakosh-erp/internal/shared"
)

// Reminder categories, in escalation order.
const (
	reminderAdvance = "advance"
	reminderDueNow  = "due"
	reminderOverdue = "overdue"
)

// ReminderConfig tunes the daily sweep.
type ReminderConfig struct {
	// DaysBefore sends an advance reminder this many days before due date.
	DaysBefore int
	// OverdueDays lists the overdue-day marks that trigger an escalation.
	OverdueDays []int
	// MaxPerCharge caps total reminders for one charge.
	MaxPerCharge int
	// ThrottleWindow is the minimum gap between reminders for one charge.
	ThrottleWindow time.Duration
}

// ParseOverdueDays reads a comma-separated day list like "3,7,15".
func ParseOverdueDays(raw string) []int {
	var days []int
	for _, part := range strings.Split(raw, ",") {
		if n, err := strconv.Atoi(strings.TrimSpace(part)); err == nil && n > 0 {
			days = append(days, n)
		}
	}
	return days
}

// FeeReminderJob runs the scheduled reminder sweep: advance notice before
// the due date, a notice on the due date, and escalations at configured
// overdue marks. A throttle log keeps one charge from spamming a guardian.
type FeeReminderJob struct {
	Pool   *pgxpool.Pool
	Logger *slog.Logger
	Sender SMSSender
	Config ReminderConfig
	clock  func() time.Time
}

// NewFeeReminderJob initialises the reminder handler.
func NewFeeReminderJob(pool *pgxpool.Pool, logger *slog.Logger, sender SMSSender, cfg ReminderConfig) *FeeReminderJob {
	return &FeeReminderJob{
		Pool:   pool,
		Logger: logger,
		Sender: sender,
		Config: cfg,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

type reminderTarget struct {
	ChargeID      int64
	StudentID     int64
	StudentName   string
	GuardianPhone string
	Month         int
	Year          int
	AmountPending int64
	DueDate       time.Time
	Category      string
	OverdueDays   int
}

// Handle executes the sweep.
func (j *FeeReminderJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Pool == nil || j.Sender == nil {
		return errors.New("fee reminders: handler not configured")
	}
	var payload ReminderSweepPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	today := payload.AsOf
	if today.IsZero() {
		today = j.now()
	}
	today = today.Truncate(24 * time.Hour)

	logger := j.logger()
	targets, err := j.collect(ctx, today)
	if err != nil {
		logger.Error("reminder sweep failed", slog.Any("error", err))
		return err
	}

	sent := 0
	for _, target := range targets {
		throttled, err := j.throttled(ctx, target.ChargeID, today)
		if err != nil {
			logger.Warn("throttle check failed", slog.Int64("charge_id", target.ChargeID), slog.Any("error", err))
			continue
		}
		if throttled {
			continue
		}
		if err := j.Sender.Send(ctx, target.GuardianPhone, j.message(target)); err != nil {
			logger.Warn("reminder delivery failed",
				slog.Int64("charge_id", target.ChargeID),
				slog.String("category", target.Category),
				slog.Any("error", err))
			continue
		}
		if err := j.record(ctx, target, today); err != nil {
			logger.Warn("reminder log write failed", slog.Int64("charge_id", target.ChargeID), slog.Any("error", err))
		}
		sent++
	}

	logger.Info("reminder sweep completed",
		slog.String("as_of", today.Format("2006-01-02")),
		slog.Int("candidates", len(targets)),
		slog.Int("sent", sent))
	return nil
}

// collect finds unpaid charges at one of the reminder marks for today.
func (j *FeeReminderJob) collect(ctx context.Context, today time.Time) ([]reminderTarget, error) {
	rows, err := j.Pool.Query(ctx, `SELECT mc.id, mc.student_id, s.first_name, s.guardian_phone,
  mc.month, mc.year, mc.amount_pending, mc.due_date
FROM monthly_charges mc
JOIN students s ON s.id = mc.student_id
WHERE mc.status <> 'paid' AND s.guardian_phone <> ''
ORDER BY mc.due_date, mc.id`)
	if err != nil {
		return nil, fmt.Errorf("load unpaid charges: %w", err)
	}
	defer rows.Close()

	var targets []reminderTarget
	for rows.Next() {
		var target reminderTarget
		if err := rows.Scan(&target.ChargeID, &target.StudentID, &target.StudentName, &target.GuardianPhone,
			&target.Month, &target.Year, &target.AmountPending, &target.DueDate); err != nil {
			return nil, fmt.Errorf("scan charge: %w", err)
		}
		daysUntilDue := int(target.DueDate.Truncate(24 * time.Hour).Sub(today).Hours() / 24)
		switch {
		case daysUntilDue == j.Config.DaysBefore && j.Config.DaysBefore > 0:
			target.Category = reminderAdvance
		case daysUntilDue == 0:
			target.Category = reminderDueNow
		case daysUntilDue < 0 && j.atOverdueMark(-daysUntilDue):
			target.Category = reminderOverdue
			target.OverdueDays = -daysUntilDue
		default:
			continue
		}
		targets = append(targets, target)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate charges: %w", err)
	}
	return targets, nil
}

func (j *FeeReminderJob) atOverdueMark(overdueDays int) bool {
	for _, mark := range j.Config.OverdueDays {
		if overdueDays == mark {
			return true
		}
	}
	return false
}

// throttled checks the reminder history for the charge against the cap
// and the minimum gap.
func (j *FeeReminderJob) throttled(ctx context.Context, chargeID int64, today time.Time) (bool, error) {
	var count int
	var lastSent *time.Time
	err := j.Pool.QueryRow(ctx, `SELECT COUNT(*), MAX(sent_at) FROM reminder_logs WHERE monthly_charge_id = $1`, chargeID).Scan(&count, &lastSent)
	if err != nil {
		return false, err
	}
	if j.Config.MaxPerCharge > 0 && count >= j.Config.MaxPerCharge {
		return true, nil
	}
	if lastSent != nil && j.Config.ThrottleWindow > 0 && today.Sub(*lastSent) < j.Config.ThrottleWindow {
		return true, nil
	}
	return false, nil
}

func (j *FeeReminderJob) record(ctx context.Context, target reminderTarget, today time.Time) error {
	_, err := j.Pool.Exec(ctx, `INSERT INTO reminder_logs (monthly_charge_id, category, sent_at) VALUES ($1, $2, $3)`,
		target.ChargeID, target.Category, today)
	return err
}

func (j *FeeReminderJob) message(target reminderTarget) string {
	period := shared.Period{Month: target.Month, Year: target.Year}.Label()
	amount := shared.FormatPaise(target.AmountPending)
	due := target.DueDate.Format("02 Jan 2006")
	switch target.Category {
	case reminderAdvance:
		return fmt.Sprintf("Dear parent, the fee of %s for %s (period %s) falls due on %s. - Vidyakosh",
			amount, target.StudentName, period, due)
	case reminderOverdue:
		return fmt.Sprintf("Dear parent, the fee of %s for %s (period %s) is overdue by %d days. Kindly pay at the earliest. - Vidyakosh",
			amount, target.StudentName, period, target.OverdueDays)
	default:
		return fmt.Sprintf("Dear parent, the fee of %s for %s (period %s) is due today. - Vidyakosh",
			amount, target.StudentName, period)
	}
}

func (j *FeeReminderJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskFeeReminderSweep))
	}
	return slog.Default().With(slog.String("job", TaskFeeReminderSweep))
}

func (j *FeeReminderJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
