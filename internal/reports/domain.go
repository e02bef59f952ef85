package reports

import "time"

// CollectionSummary aggregates one period's charges. CollectionRate is a
// whole-number percentage; an empty period reports 0, never a division
// error.
type CollectionSummary struct {
	AcademicYearID int64          `json:"academic_year_id"`
	Month          int            `json:"month"`
	Year           int            `json:"year"`
	TotalBilled    int64          `json:"total_billed"`
	TotalCollected int64          `json:"total_collected"`
	TotalPending   int64          `json:"total_pending"`
	ChargeCount    int64          `json:"charge_count"`
	CountByStatus  map[string]int `json:"count_by_status"`
	CollectionRate int64          `json:"collection_rate"`
}

// Defaulter is one overdue, not fully paid charge.
type Defaulter struct {
	StudentID     int64     `json:"student_id"`
	StudentName   string    `json:"student_name"`
	GuardianPhone string    `json:"guardian_phone"`
	ChargeID      int64     `json:"charge_id"`
	Month         int       `json:"month"`
	Year          int       `json:"year"`
	AmountPending int64     `json:"amount_pending"`
	DueDate       time.Time `json:"due_date"`
	OverdueDays   int       `json:"overdue_days"`
}

// ClassCollection is one class's billed/collected totals for a period.
type ClassCollection struct {
	ClassID        int64  `json:"class_id"`
	ClassName      string `json:"class_name"`
	TotalBilled    int64  `json:"total_billed"`
	TotalCollected int64  `json:"total_collected"`
	TotalPending   int64  `json:"total_pending"`
	ChargeCount    int64  `json:"charge_count"`
}

// ModeBreakdown is one payment mode's share of collections.
type ModeBreakdown struct {
	Mode   string `json:"mode"`
	Amount int64  `json:"amount"`
	Count  int64  `json:"count"`
}

// Scope selects the reporting window.
type Scope struct {
	AcademicYearID int64
	Month          int
	Year           int
}
