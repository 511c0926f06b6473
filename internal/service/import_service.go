package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"acadtrack/backend/internal/dto"
	"acadtrack/backend/internal/ingest"
	"acadtrack/backend/internal/model"
	"acadtrack/backend/internal/repository"
)

// ── import module errors ──

var (
	ErrImportNoValidRows = errors.New("upload has no valid rows")
	ErrImportRowsInvalid = errors.New("upload has invalid rows, nothing was written")
)

// ImportService spreadsheet uploads (.csv / .xlsx).
//
// Structural problems (unknown format, missing required columns, too many rows)
// abort before any write and come back as ingest errors.
type ImportService interface {
	// ImportStudents upserts by roll number; bad rows are reported, valid rows written in one transaction
	ImportStudents(ctx context.Context, filename string, r io.Reader, callerID string) (*dto.ImportResult, error)
	// ImportCourses upserts on (academic year, department, semester, section, subject)
	ImportCourses(ctx context.Context, filename string, r io.Reader, callerID string) (*dto.ImportResult, error)
	// ImportCoPo replaces the subject's matrix with the uploaded one
	ImportCoPo(ctx context.Context, subjectCode, filename string, r io.Reader, callerID string) (*dto.CoPoResponse, error)
	// ImportMarks writes a class's scores for one exam, all or nothing
	ImportMarks(ctx context.Context, subjectCode, examLabel, filename string, r io.Reader, callerID string) (*dto.ImportResult, error)
}

type importService struct {
	repo    *repository.Repository
	marks   MarkService
	coPo    CoPoService
	maxRows int
	logger  *zap.Logger
}

// NewImportService creates an ImportService
func NewImportService(repo *repository.Repository, marks MarkService, coPo CoPoService, maxRows int, logger *zap.Logger) ImportService {
	return &importService{repo: repo, marks: marks, coPo: coPo, maxRows: maxRows, logger: logger}
}

// ────────────────────── Students ──────────────────────

func (s *importService) ImportStudents(ctx context.Context, filename string, r io.Reader, callerID string) (*dto.ImportResult, error) {
	t, err := ingest.ReadTable(filename, r, s.maxRows)
	if err != nil {
		return nil, err
	}
	if err := ingest.Require(t, ingest.ColStudentID, ingest.ColName); err != nil {
		return nil, err
	}

	result := &dto.ImportResult{Total: len(t.Rows)}
	seen := make(map[string]int)
	students := make([]model.Student, 0, len(t.Rows))

	for _, row := range t.Rows {
		id := normalizeCode(t.Get(row, ingest.ColStudentID))
		name := t.Get(row, ingest.ColName)
		if id == "" {
			result.AddError(row.Line, "student_id is empty")
			continue
		}
		if name == "" {
			result.AddError(row.Line, "name is empty")
			continue
		}
		if first, dup := seen[id]; dup {
			result.AddError(row.Line, fmt.Sprintf("student %s already appears on row %d", id, first))
			continue
		}

		semester, err := optionalInt(t.Get(row, ingest.ColSemester), 1)
		if err != nil || semester < 1 || semester > 8 {
			result.AddError(row.Line, "semester must be a number between 1 and 8")
			continue
		}
		status := strings.ToLower(t.Get(row, ingest.ColStatus))
		if status == "" {
			status = model.StudentStatusActive
		}
		if !model.ValidStudentStatus(status) {
			result.AddError(row.Line, fmt.Sprintf("unknown status %q", status))
			continue
		}

		seen[id] = row.Line
		st := model.Student{
			StudentID:  id,
			Name:       name,
			Department: normalizeDepartment(t.Get(row, ingest.ColDepartment)),
			Semester:   semester,
			Section:    normalizeCode(t.Get(row, ingest.ColSection)),
			Status:     status,
		}
		st.CreatedBy = &callerID
		st.UpdatedBy = &callerID
		students = append(students, st)
	}

	if len(students) == 0 {
		return result, ErrImportNoValidRows
	}

	if err := s.inTx(ctx, func(txRepo *repository.Repository) error {
		return txRepo.Student.BulkUpsert(ctx, students)
	}); err != nil {
		s.logger.Error("import students failed", zap.Int("rows", len(students)), zap.Error(err))
		return nil, err
	}

	result.Success = len(students)
	s.logger.Info("students imported",
		zap.Int("success", result.Success),
		zap.Int("failed", result.Failed),
		zap.String("by", callerID),
	)
	return result, nil
}

// ────────────────────── Courses ──────────────────────

func (s *importService) ImportCourses(ctx context.Context, filename string, r io.Reader, callerID string) (*dto.ImportResult, error) {
	t, err := ingest.ReadTable(filename, r, s.maxRows)
	if err != nil {
		return nil, err
	}
	if err := ingest.Require(t, ingest.ColSubjectCode, ingest.ColInstructorEmail); err != nil {
		return nil, err
	}

	// the active term's year fills rows that leave academic_year blank
	var defaultYear string
	if term, err := resolveTerm(ctx, s.repo, s.logger, ""); err == nil {
		defaultYear = term.AcademicYear
	} else if !errors.Is(err, ErrNoActiveTerm) {
		return nil, err
	}

	result := &dto.ImportResult{Total: len(t.Rows)}
	instructors := make(map[string]*model.User)
	seen := make(map[string]int)
	courses := make([]model.Course, 0, len(t.Rows))

	for _, row := range t.Rows {
		subject := normalizeCode(t.Get(row, ingest.ColSubjectCode))
		if subject == "" {
			result.AddError(row.Line, "subject_code is empty")
			continue
		}
		year := t.Get(row, ingest.ColAcademicYear)
		if year == "" {
			year = defaultYear
		}
		if year == "" {
			result.AddError(row.Line, "academic_year is empty and no academic term is active")
			continue
		}
		semester, err := optionalInt(t.Get(row, ingest.ColSemester), 1)
		if err != nil || semester < 1 || semester > 8 {
			result.AddError(row.Line, "semester must be a number between 1 and 8")
			continue
		}

		email := strings.ToLower(t.Get(row, ingest.ColInstructorEmail))
		if email == "" {
			result.AddError(row.Line, "instructor_email is empty")
			continue
		}
		instructor, ok := instructors[email]
		if !ok {
			instructor, err = resolveInstructor(ctx, s.repo, s.logger, email)
			if err != nil && !errors.Is(err, ErrInstructorNotFaculty) {
				return nil, err
			}
			instructors[email] = instructor
		}
		if instructor == nil {
			result.AddError(row.Line, fmt.Sprintf("%s is not a faculty account", email))
			continue
		}

		c := model.Course{
			AcademicYear:    year,
			Department:      normalizeDepartment(t.Get(row, ingest.ColDepartment)),
			Semester:        semester,
			Section:         normalizeCode(t.Get(row, ingest.ColSection)),
			SubjectCode:     subject,
			Title:           t.Get(row, ingest.ColTitle),
			InstructorID:    &instructor.UserID,
			InstructorEmail: instructor.Email,
		}
		key := strings.Join([]string{c.AcademicYear, c.Department, strconv.Itoa(c.Semester), c.Section, c.SubjectCode}, "|")
		if first, dup := seen[key]; dup {
			result.AddError(row.Line, fmt.Sprintf("course already appears on row %d", first))
			continue
		}
		seen[key] = row.Line
		c.CreatedBy = &callerID
		c.UpdatedBy = &callerID
		courses = append(courses, c)
	}

	if len(courses) == 0 {
		return result, ErrImportNoValidRows
	}

	if err := s.inTx(ctx, func(txRepo *repository.Repository) error {
		return txRepo.Course.BulkUpsert(ctx, courses)
	}); err != nil {
		s.logger.Error("import courses failed", zap.Int("rows", len(courses)), zap.Error(err))
		return nil, err
	}

	result.Success = len(courses)
	s.logger.Info("courses imported",
		zap.Int("success", result.Success),
		zap.Int("failed", result.Failed),
		zap.String("by", callerID),
	)
	return result, nil
}

// ────────────────────── CO-PO ──────────────────────

func (s *importService) ImportCoPo(ctx context.Context, subjectCode, filename string, r io.Reader, callerID string) (*dto.CoPoResponse, error) {
	t, err := ingest.ReadTable(filename, r, s.maxRows)
	if err != nil {
		return nil, err
	}
	if err := ingest.Require(t, ingest.ColCO); err != nil {
		return nil, err
	}

	matrix := make(map[string]map[string]interface{}, len(t.Rows))
	for _, row := range t.Rows {
		co := t.Get(row, ingest.ColCO)
		if co == "" {
			continue
		}
		cells := make(map[string]interface{})
		for i, col := range t.Header {
			if col == ingest.ColCO || col == "" {
				continue
			}
			v := t.Cell(row, i)
			if v == "" {
				continue
			}
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				cells[t.RawHeader[i]] = f
			} else {
				cells[t.RawHeader[i]] = v
			}
		}
		matrix[co] = cells
	}

	return s.coPo.Put(ctx, subjectCode, &dto.PutCoPoRequest{Matrix: matrix}, callerID)
}

// ────────────────────── Marks ──────────────────────

// non-question columns tolerated in a marks sheet
var markSheetExtraColumns = map[string]bool{
	ingest.ColStudentID: true,
	ingest.ColName:      true,
	ingest.ColSection:   true,
	"total":             true,
}

func (s *importService) ImportMarks(ctx context.Context, subjectCode, examLabel, filename string, r io.Reader, callerID string) (*dto.ImportResult, error) {
	t, err := ingest.ReadTable(filename, r, s.maxRows)
	if err != nil {
		return nil, err
	}
	if err := ingest.Require(t, ingest.ColStudentID); err != nil {
		return nil, err
	}

	result := &dto.ImportResult{Total: len(t.Rows)}
	entries := make([]dto.BulkMarkEntry, 0, len(t.Rows))

	for _, row := range t.Rows {
		id := normalizeCode(t.Get(row, ingest.ColStudentID))
		if id == "" {
			result.AddError(row.Line, "student_id is empty")
			continue
		}
		scores := make(map[string]float64)
		var bad string
		for i, col := range t.Header {
			if col == "" || markSheetExtraColumns[col] {
				continue
			}
			v := t.Cell(row, i)
			if v == "" {
				continue
			}
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				bad = fmt.Sprintf("score %q in column %s is not a number", v, t.RawHeader[i])
				break
			}
			scores[t.RawHeader[i]] = f
		}
		if bad != "" {
			result.AddError(row.Line, bad)
			continue
		}
		entries = append(entries, dto.BulkMarkEntry{StudentID: id, Scores: scores})
	}

	if result.Failed > 0 {
		return result, ErrImportRowsInvalid
	}

	if _, err := s.marks.BulkUpsert(ctx, &dto.BulkUpsertMarksRequest{
		ExamLabel:   examLabel,
		SubjectCode: subjectCode,
		Entries:     entries,
	}, callerID); err != nil {
		return nil, err
	}

	result.Success = len(entries)
	return result, nil
}

// ── helpers ──

// inTx runs fn on a transactional repository
func (s *importService) inTx(ctx context.Context, fn func(txRepo *repository.Repository) error) (err error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()

	if err := fn(s.repo.WithTx(tx)); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		return err
	}
	if tx != nil {
		return tx.Commit().Error
	}
	return nil
}

func optionalInt(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil && f == float64(int(f)) {
		return int(f), nil
	}
	return strconv.Atoi(v)
}
