package payments

import "time"

// RecordPaymentRequest submits one payment against a charge. StudentID is
// optional; when present it must match the charge's student.
type RecordPaymentRequest struct {
	MonthlyChargeID int64     `json:"monthly_charge_id" validate:"required,gt=0"`
	StudentID       int64     `json:"student_id" validate:"gte=0"`
	Amount          int64     `json:"amount" validate:"required"`
	Mode            string    `json:"mode" validate:"required,oneof=cash cheque online upi card"`
	PaymentDate     time.Time `json:"payment_date"`
}

// RecordPaymentResponse echoes the receipt and the charge's new position.
type RecordPaymentResponse struct {
	Payment       Payment `json:"payment"`
	ReceiptNumber string  `json:"receipt_number"`
	Status        string  `json:"status"`
	AmountPending int64   `json:"amount_pending"`
}

// ListPaymentsRequest filters the payment listing.
type ListPaymentsRequest struct {
	StudentID       int64
	MonthlyChargeID int64
	Mode            string
	From            time.Time
	To              time.Time
}
