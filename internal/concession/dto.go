package concession

import "time"

type CreateConcessionRequest struct {
	StudentID   int64      `json:"student_id" validate:"required,gt=0"`
	Type        string     `json:"type" validate:"required,max=100"`
	Percentage  int64      `json:"percentage" validate:"gte=0,lte=100"`
	FixedAmount int64      `json:"fixed_amount" validate:"gte=0"`
	Reason      string     `json:"reason" validate:"max=200"`
	ValidFrom   time.Time  `json:"valid_from" validate:"required"`
	ValidTo     *time.Time `json:"valid_to,omitempty"`
}

type ListConcessionsRequest struct {
	StudentID int64
	Type      string
	OnlyLive  bool
	AsOf      time.Time
}
