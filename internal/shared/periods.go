package shared

import (
	"fmt"
	"time"
)

// maxDueDay keeps due dates valid in every month, February included.
const maxDueDay = 28

// Period identifies one billing month.
type Period struct {
	Month int
	Year  int
}

// Validate checks the period falls in the billable range.
func (p Period) Validate() error {
	if p.Month < 1 || p.Month > 12 {
		return fmt.Errorf("%w: month %d", ErrInvalidPeriod, p.Month)
	}
	if p.Year < 2000 || p.Year > 2100 {
		return fmt.Errorf("%w: year %d", ErrInvalidPeriod, p.Year)
	}
	return nil
}

// FirstDay returns the first day of the billing month. Concession validity
// is evaluated as of this date.
func (p Period) FirstDay() time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
}

// DueDate returns the charge due date for the period. The day is clamped
// to [1, 28] so the date exists in every month.
func (p Period) DueDate(dueDay int) time.Time {
	if dueDay < 1 {
		dueDay = 1
	}
	if dueDay > maxDueDay {
		dueDay = maxDueDay
	}
	return time.Date(p.Year, time.Month(p.Month), dueDay, 0, 0, 0, 0, time.UTC)
}

// Label renders the period as M/YYYY for operator-facing messages.
func (p Period) Label() string {
	return fmt.Sprintf("%d/%d", p.Month, p.Year)
}
