package feestructure

import "time"

// FeeStructure is the per-class monthly fee definition. Amounts are paise.
// Once a structure has been referenced by a generated charge its amounts
// are frozen into the charge row, so later edits never rewrite history.
type FeeStructure struct {
	ID             int64
	ClassID        int64
	AcademicYearID int64
	TuitionAmount  int64
	HostelAmount   int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Resolved carries the base components the generator uses for one student.
type Resolved struct {
	TuitionAmount int64
	HostelAmount  int64
}
