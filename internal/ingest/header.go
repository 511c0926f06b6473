package ingest

import "strings"

// Canonical column names
const (
	ColStudentID       = "student_id"
	ColName            = "name"
	ColDepartment      = "department"
	ColSemester        = "semester"
	ColSection         = "section"
	ColStatus          = "status"
	ColSubjectCode     = "subject_code"
	ColTitle           = "title"
	ColInstructorEmail = "instructor_email"
	ColAcademicYear    = "academic_year"
	ColCO              = "co"
)

// aliases spelling → canonical name. Keys are already normalized
// (lower case, single spaces).
var aliases = map[string]string{
	"usn":              ColStudentID,
	"roll no":          ColStudentID,
	"roll number":      ColStudentID,
	"rollno":           ColStudentID,
	"student id":       ColStudentID,
	"studentid":        ColStudentID,
	"reg no":           ColStudentID,
	"register number":  ColStudentID,
	"name":             ColName,
	"student name":     ColName,
	"full name":        ColName,
	"department":       ColDepartment,
	"dept":             ColDepartment,
	"branch":           ColDepartment,
	"semester":         ColSemester,
	"sem":              ColSemester,
	"section":          ColSection,
	"sec":              ColSection,
	"status":           ColStatus,
	"subject code":     ColSubjectCode,
	"course code":      ColSubjectCode,
	"sub code":         ColSubjectCode,
	"subject":          ColSubjectCode,
	"title":            ColTitle,
	"subject name":     ColTitle,
	"course name":      ColTitle,
	"course title":     ColTitle,
	"faculty email":    ColInstructorEmail,
	"instructor email": ColInstructorEmail,
	"email":            ColInstructorEmail,
	"faculty":          ColInstructorEmail,
	"academic year":    ColAcademicYear,
	"ay":               ColAcademicYear,
	"year":             ColAcademicYear,
	"co":               ColCO,
	"course outcome":   ColCO,
}

// NormalizeHeader maps a header cell to its canonical column name.
// Case, surrounding space, and '_' '.' '-' separators are ignored; names not in
// the rename table come back lower-cased with single underscores.
func NormalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("_", " ", ".", " ", "-", " ").Replace(s)
	s = strings.Join(strings.Fields(s), " ")
	if canon, ok := aliases[s]; ok {
		return canon
	}
	return strings.ReplaceAll(s, " ", "_")
}
