package feestructure

type CreateFeeStructureRequest struct {
	ClassID        int64 `json:"class_id" validate:"required,gt=0"`
	AcademicYearID int64 `json:"academic_year_id" validate:"required,gt=0"`
	TuitionAmount  int64 `json:"tuition_amount" validate:"gte=0"`
	HostelAmount   int64 `json:"hostel_amount" validate:"gte=0"`
}

type UpdateFeeStructureRequest struct {
	TuitionAmount *int64 `json:"tuition_amount,omitempty" validate:"omitempty,gte=0"`
	HostelAmount  *int64 `json:"hostel_amount,omitempty" validate:"omitempty,gte=0"`
}

type ListFeeStructuresRequest struct {
	ClassID        int64
	AcademicYearID int64
}
