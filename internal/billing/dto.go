package billing

// GenerateRequest triggers charge generation for one billing period.
// DueDay is optional; zero means the configured default.
type GenerateRequest struct {
	AcademicYearID int64 `json:"academic_year_id" validate:"required,gt=0"`
	Month          int   `json:"month" validate:"required,gte=1,lte=12"`
	Year           int   `json:"year" validate:"required,gte=2000,lte=2100"`
	DueDay         int   `json:"due_day" validate:"gte=0,lte=28"`
}

// ListChargesRequest filters the charge listing.
type ListChargesRequest struct {
	StudentID      int64
	AcademicYearID int64
	Status         string
	Month          int
	Year           int
}
