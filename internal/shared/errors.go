package shared

import (
	"fmt"

	"github.com/vidyakosh-erp/vidyakosh-erp/internal/platform/httpx"
)

// Domain error taxonomy for the fee engine. Each sentinel wraps an httpx
// sentinel so handlers can hand any of these straight to
// httpx.RespondError and get the right status code.
var (
	// ErrNotConfigured means no fee structure exists for a (class,
	// academic year) pair. Per-student, never fatal to a generation batch.
	ErrNotConfigured = fmt.Errorf("%w: fee structure not configured", httpx.ErrNotFound)

	// ErrChargeNotFound means the referenced monthly charge does not exist.
	ErrChargeNotFound = fmt.Errorf("%w: monthly charge", httpx.ErrNotFound)

	// ErrOverpaymentRejected means a payment exceeds the pending amount on
	// its charge. Surfaced to the caller as a validation failure.
	ErrOverpaymentRejected = fmt.Errorf("%w: amount exceeds amount pending", httpx.ErrValidation)

	// ErrInvalidAmount means a non-positive payment amount was submitted.
	ErrInvalidAmount = fmt.Errorf("%w: amount must be positive", httpx.ErrValidation)

	// ErrInvalidPeriod means month/year fall outside the billable range.
	ErrInvalidPeriod = fmt.Errorf("%w: invalid billing period", httpx.ErrValidation)

	// ErrStructureExists means a fee structure already exists for the
	// (class, academic year) pair.
	ErrStructureExists = fmt.Errorf("%w: fee structure for class and year", httpx.ErrDuplicate)

	// ErrStudentMismatch means the payment's student does not own the charge.
	ErrStudentMismatch = fmt.Errorf("%w: student does not match charge", httpx.ErrValidation)
)
