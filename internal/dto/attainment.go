package dto

// ── attainment ──

// AttainmentResponse CO levels and PO scores of a subject
type AttainmentResponse struct {
	SubjectCode        string             `json:"subject_code"`
	COLevels           map[string]int     `json:"co_levels"`
	COPassFraction     map[string]float64 `json:"co_pass_fraction"`
	POScores           map[string]float64 `json:"po_scores"`
	StudentsConsidered int                `json:"students_considered"`
	ExamsConsidered    []string           `json:"exams_considered"`
	ExamsDiscarded     []string           `json:"exams_discarded"`
	SkippedEntries     int                `json:"skipped_entries"`
	CappedEntries      int                `json:"capped_entries"`
}
