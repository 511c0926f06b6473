package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"acadtrack/backend/internal/attainment"
	"acadtrack/backend/internal/dto"
	"acadtrack/backend/internal/repository"
)

// ── export module errors ──

var (
	ErrExportNoAttendance = errors.New("no attendance recorded for this class")
	ErrExportNoMarks      = errors.New("no marks recorded for this exam")
	ErrExportGenerateFail = errors.New("failed to generate the Excel file")
)

// ExportService spreadsheet downloads.
// Each export returns the workbook and a suggested file name; the handler sets the headers.
type ExportService interface {
	AttendanceReport(ctx context.Context, subjectCode, section string) (*bytes.Buffer, string, error)
	AttainmentReport(ctx context.Context, subjectCode string) (*bytes.Buffer, string, error)
	MarksSheet(ctx context.Context, subjectCode, examLabel string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo       *repository.Repository
	attendance AttendanceService
	attainment AttainmentService
	logger     *zap.Logger
}

// NewExportService creates an ExportService
func NewExportService(repo *repository.Repository, attendance AttendanceService, attainment AttainmentService, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, attendance: attendance, attainment: attainment, logger: logger}
}

var complianceLabels = map[string]string{
	ComplianceSafe:        "Safe",
	ComplianceCondonation: "Condonation required",
	ComplianceDetention:   "Detention risk",
	ComplianceNoClasses:   "No classes",
}

// ────────────────────── AttendanceReport ──────────────────────
//
// | Roll No | Name | Attended | Total | % | Status | Can miss | Must attend |

func (s *exportService) AttendanceReport(ctx context.Context, subjectCode, section string) (*bytes.Buffer, string, error) {
	report, err := s.attendance.SubjectReport(ctx, &dto.SubjectReportRequest{SubjectCode: subjectCode, Section: section})
	if err != nil {
		return nil, "", err
	}
	if report.Sessions == 0 && len(report.Students) == 0 {
		return nil, "", ErrExportNoAttendance
	}

	names, err := s.studentNames(ctx, subjectAttendanceIDs(report.Students))
	if err != nil {
		return nil, "", err
	}

	title := report.SubjectCode
	if report.Section != "" {
		title += " " + report.Section
	}

	w := newWorkbook("Attendance")
	defer w.Close()
	w.title(fmt.Sprintf("%s attendance (%d sessions)", title, report.Sessions), 8)
	w.header(2, "Roll No", "Name", "Attended", "Total", "%", "Status", "Can miss", "Must attend")
	w.widths(14, 28, 10, 10, 8, 22, 10, 12)

	row := 3
	for _, st := range report.Students {
		w.row(row, st.StudentID, names[st.StudentID], st.Attended, st.Total, st.Percent,
			complianceLabels[st.Status], st.CanMiss, st.MustAttend)
		row++
	}

	name := fmt.Sprintf("attendance_%s", report.SubjectCode)
	if report.Section != "" {
		name += "_" + report.Section
	}
	return s.finish(w, name)
}

// ────────────────────── AttainmentReport ──────────────────────
//
// Sheet "CO": | CO | Pass fraction | Level |
// Sheet "PO": | PO | Score |

func (s *exportService) AttainmentReport(ctx context.Context, subjectCode string) (*bytes.Buffer, string, error) {
	res, err := s.attainment.Calculate(ctx, subjectCode)
	if err != nil {
		return nil, "", err
	}

	w := newWorkbook("CO")
	defer w.Close()
	w.title(fmt.Sprintf("%s course outcome attainment (%d students)", res.SubjectCode, res.StudentsConsidered), 3)
	w.header(2, "CO", "Pass fraction", "Level")
	w.widths(10, 16, 10)
	row := 3
	for _, co := range attainment.COLabels {
		level, ok := res.COLevels[co]
		if !ok {
			continue
		}
		w.row(row, co, res.COPassFraction[co], level)
		row++
	}

	w.sheet("PO")
	w.title(fmt.Sprintf("%s program outcome scores", res.SubjectCode), 2)
	w.header(2, "PO", "Score")
	w.widths(10, 10)
	row = 3
	for _, po := range attainment.POLabels {
		score, ok := res.POScores[po]
		if !ok {
			continue
		}
		w.row(row, po, score)
		row++
	}

	return s.finish(w, "attainment_"+res.SubjectCode)
}

// ────────────────────── MarksSheet ──────────────────────
//
// | Roll No | Name | <question ids in paper order> | Total |

func (s *exportService) MarksSheet(ctx context.Context, subjectCode, examLabel string) (*bytes.Buffer, string, error) {
	subject, exam := normalizeCode(subjectCode), normalizeCode(examLabel)

	records, err := s.repo.Mark.ListBySubject(ctx, subject, exam)
	if err != nil {
		s.logger.Error("list marks failed", zap.String("subject_code", subject), zap.String("exam", exam), zap.Error(err))
		return nil, "", err
	}
	if len(records) == 0 {
		return nil, "", ErrExportNoMarks
	}

	// question columns follow the paper; ids only found in marks are appended sorted
	var questions []string
	known := make(map[string]bool)
	paper, err := s.repo.Paper.GetBySubjectExam(ctx, subject, exam)
	switch {
	case err == nil:
		for _, q := range paper.Questions {
			questions = append(questions, q.ID)
			known[q.ID] = true
		}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		s.logger.Error("load question paper failed", zap.String("subject_code", subject), zap.Error(err))
		return nil, "", err
	}
	var extra []string
	for _, r := range records {
		for q := range r.Scores {
			if !known[q] {
				known[q] = true
				extra = append(extra, q)
			}
		}
	}
	sort.Strings(extra)
	questions = append(questions, extra...)

	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.StudentID)
	}
	names, err := s.studentNames(ctx, ids)
	if err != nil {
		return nil, "", err
	}

	sort.Slice(records, func(i, j int) bool { return records[i].StudentID < records[j].StudentID })

	w := newWorkbook("Marks")
	defer w.Close()
	w.title(fmt.Sprintf("%s %s marks", subject, exam), len(questions)+3)
	head := append([]interface{}{"Roll No", "Name"}, stringsToCells(questions)...)
	head = append(head, "Total")
	w.header(2, head...)
	widths := []float64{14, 28}
	for range questions {
		widths = append(widths, 8)
	}
	w.widths(append(widths, 10)...)

	row := 3
	for _, r := range records {
		cells := []interface{}{r.StudentID, names[r.StudentID]}
		for _, q := range questions {
			if v, ok := r.Scores[q]; ok {
				cells = append(cells, v)
			} else {
				cells = append(cells, "-")
			}
		}
		cells = append(cells, r.Total)
		w.row(row, cells...)
		row++
	}

	return s.finish(w, fmt.Sprintf("marks_%s_%s", subject, exam))
}

// ── helpers ──

func (s *exportService) studentNames(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	students, err := s.repo.Student.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("load students failed", zap.Int("count", len(ids)), zap.Error(err))
		return nil, err
	}
	for _, st := range students {
		names[st.StudentID] = st.Name
	}
	return names, nil
}

func (s *exportService) finish(w *workbook, name string) (*bytes.Buffer, string, error) {
	if w.err != nil {
		s.logger.Error("build workbook failed", zap.String("file", name), zap.Error(w.err))
		return nil, "", ErrExportGenerateFail
	}
	buf := new(bytes.Buffer)
	if err := w.f.Write(buf); err != nil {
		s.logger.Error("write workbook failed", zap.String("file", name), zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	return buf, name + ".xlsx", nil
}

func subjectAttendanceIDs(rows []dto.SubjectAttendance) []string {
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.StudentID)
	}
	return ids
}

func stringsToCells(in []string) []interface{} {
	out := make([]interface{}, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}

// workbook excelize file with a current sheet; the first error sticks
type workbook struct {
	f           *excelize.File
	current     string
	headerStyle int
	titleStyle  int
	err         error
}

func newWorkbook(first string) *workbook {
	f := excelize.NewFile()
	w := &workbook{f: f}
	w.headerStyle, w.err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if w.err == nil {
		w.titleStyle, w.err = f.NewStyle(&excelize.Style{
			Font:      &excelize.Font{Bold: true, Size: 13},
			Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
		})
	}
	if w.err == nil {
		w.err = f.SetSheetName("Sheet1", first)
	}
	w.current = first
	return w
}

func (w *workbook) Close() { _ = w.f.Close() }

func (w *workbook) sheet(name string) {
	if w.err != nil {
		return
	}
	_, w.err = w.f.NewSheet(name)
	w.current = name
}

func (w *workbook) title(text string, span int) {
	if w.err != nil {
		return
	}
	if w.err = w.f.SetCellValue(w.current, "A1", text); w.err != nil {
		return
	}
	if span > 1 {
		if w.err = w.f.MergeCell(w.current, "A1", cell(colName(span-1), 1)); w.err != nil {
			return
		}
	}
	w.err = w.f.SetCellStyle(w.current, "A1", "A1", w.titleStyle)
}

func (w *workbook) header(row int, cols ...interface{}) {
	w.row(row, cols...)
	if w.err != nil || len(cols) == 0 {
		return
	}
	w.err = w.f.SetCellStyle(w.current, cell("A", row), cell(colName(len(cols)-1), row), w.headerStyle)
}

func (w *workbook) row(row int, cols ...interface{}) {
	if w.err != nil {
		return
	}
	w.err = w.f.SetSheetRow(w.current, cell("A", row), &cols)
}

func (w *workbook) widths(widths ...float64) {
	for i, wd := range widths {
		if w.err != nil {
			return
		}
		col := colName(i)
		w.err = w.f.SetColWidth(w.current, col, col, wd)
	}
}

// colName 0-based column index → letters
func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
