package concession

import "time"

// Concession is a time-bounded reduction on a student's gross charge.
// Percentage is 0-100; FixedAmount is paise. A concession may carry both.
type Concession struct {
	ID          int64
	StudentID   int64
	Type        string
	Percentage  int64
	FixedAmount int64
	Reason      string
	ApprovedBy  *int64
	ValidFrom   time.Time
	ValidTo     *time.Time // nil means open-ended
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AppliesOn reports whether the concession is in force on the given date.
func (c Concession) AppliesOn(asOf time.Time) bool {
	if !c.Active {
		return false
	}
	if asOf.Before(c.ValidFrom) {
		return false
	}
	if c.ValidTo != nil && asOf.After(*c.ValidTo) {
		return false
	}
	return true
}

// ComputeReduction returns the total reduction for a gross amount. Fixed
// amounts and percentages combine additively, then the result is clamped
// to [0, gross], so stacking order never matters.
func ComputeReduction(gross int64, concessions []Concession) int64 {
	if gross <= 0 {
		return 0
	}
	var fixed, pct int64
	for _, c := range concessions {
		fixed += c.FixedAmount
		pct += c.Percentage
	}
	reduction := fixed + gross*pct/100
	if reduction < 0 {
		return 0
	}
	if reduction > gross {
		return gross
	}
	return reduction
}
