package dto

// ── IA marks ──

// UpsertMarkRequest scores of one student in one exam
type UpsertMarkRequest struct {
	ExamLabel   string             `json:"exam_label"   binding:"required,max=50"`
	SubjectCode string             `json:"subject_code" binding:"required,max=20"`
	StudentID   string             `json:"student_id"   binding:"required,max=20"`
	Scores      map[string]float64 `json:"scores"       binding:"required"`
}

// BulkMarkEntry one student's scores in a bulk submission
type BulkMarkEntry struct {
	StudentID string             `json:"student_id" binding:"required,max=20"`
	Scores    map[string]float64 `json:"scores"     binding:"required"`
}

// BulkUpsertMarksRequest scores of a whole class in one exam
type BulkUpsertMarksRequest struct {
	ExamLabel   string          `json:"exam_label"   binding:"required,max=50"`
	SubjectCode string          `json:"subject_code" binding:"required,max=20"`
	Entries     []BulkMarkEntry `json:"entries"      binding:"required,min=1,dive"`
}

// MarkListRequest list filters
type MarkListRequest struct {
	ExamLabel string `form:"exam_label" binding:"omitempty,max=50"`
}

// MarkResponse mark record
type MarkResponse struct {
	RecordID    string             `json:"record_id"`
	ExamLabel   string             `json:"exam_label"`
	SubjectCode string             `json:"subject_code"`
	StudentID   string             `json:"student_id"`
	Scores      map[string]float64 `json:"scores"`
	Total       float64            `json:"total"`
}
