package billing

import "time"

// ChargeStatus tracks how much of a charge has been collected.
type ChargeStatus string

const (
	StatusPending ChargeStatus = "pending"
	StatusPartial ChargeStatus = "partial"
	StatusPaid    ChargeStatus = "paid"
)

// DeriveStatus computes the status from collected vs owed amounts. Status
// is never set directly; it always follows amount_paid.
func DeriveStatus(totalAmount, amountPaid int64) ChargeStatus {
	switch {
	case amountPaid <= 0:
		return StatusPending
	case amountPaid < totalAmount:
		return StatusPartial
	default:
		return StatusPaid
	}
}

// MonthlyCharge is one student's billing obligation for one month. The
// component breakdown is frozen at generation time; only AmountPaid,
// AmountPending and Status mutate, and only through payment recording.
// All monetary fields are integer paise.
type MonthlyCharge struct {
	ID               int64        `json:"id"`
	StudentID        int64        `json:"student_id"`
	AcademicYearID   int64        `json:"academic_year_id"`
	Month            int          `json:"month"`
	Year             int          `json:"year"`
	TuitionAmount    int64        `json:"tuition_amount"`
	HostelAmount     int64        `json:"hostel_amount"`
	TransportAmount  int64        `json:"transport_amount"`
	ConcessionAmount int64        `json:"concession_amount"`
	TotalAmount      int64        `json:"total_amount"`
	AmountPaid       int64        `json:"amount_paid"`
	AmountPending    int64        `json:"amount_pending"`
	Status           ChargeStatus `json:"status"`
	DueDate          time.Time    `json:"due_date"`
	GeneratedAt      time.Time    `json:"generated_at"`
}

// GenerationError records why one student could not be billed.
type GenerationError struct {
	StudentID int64  `json:"student_id"`
	Reason    string `json:"reason"`
}

// GenerationSummary is the outcome of one generation run. Partial failure
// is reported here, never as a request error.
type GenerationSummary struct {
	RunID        string            `json:"run_id"`
	CreatedCount int               `json:"created_count"`
	SkippedCount int               `json:"skipped_count"`
	Errors       []GenerationError `json:"errors"`
}
