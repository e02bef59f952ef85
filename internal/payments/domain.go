package payments

import (
	"fmt"
	"time"
)

// PaymentMode enumerates how a payment was tendered.
type PaymentMode string

const (
	ModeCash   PaymentMode = "cash"
	ModeCheque PaymentMode = "cheque"
	ModeOnline PaymentMode = "online"
	ModeUPI    PaymentMode = "upi"
	ModeCard   PaymentMode = "card"
)

// Payment is one collection against a monthly charge. Append-only:
// payments are never edited or deleted, corrections are new offsetting
// records by policy. Amount is integer paise.
type Payment struct {
	ID              int64       `json:"id"`
	MonthlyChargeID int64       `json:"monthly_charge_id"`
	StudentID       int64       `json:"student_id"`
	Amount          int64       `json:"amount"`
	Mode            PaymentMode `json:"mode"`
	PaymentDate     time.Time   `json:"payment_date"`
	ReceiptNumber   string      `json:"receipt_number"`
	RecordedBy      int64       `json:"recorded_by"`
	CreatedAt       time.Time   `json:"created_at"`
}

// FormatReceipt renders a receipt number as RCP-YYYYMMDD-NNNNN. The
// counter restarts at 1 each calendar day.
func FormatReceipt(day time.Time, seq int64) string {
	return fmt.Sprintf("RCP-%s-%05d", day.Format("20060102"), seq)
}
