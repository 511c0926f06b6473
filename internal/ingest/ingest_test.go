package ingest

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestNormalizeHeader_Aliases(t *testing.T) {
	cases := map[string]string{
		"USN":            ColStudentID,
		"  Roll_No. ":    ColStudentID,
		"Roll-Number":    ColStudentID,
		"Student Name":   ColName,
		"Course Code":    ColSubjectCode,
		"Faculty_Email":  ColInstructorEmail,
		"Dept":           ColDepartment,
		"SEM":            ColSemester,
		"Academic  Year": ColAcademicYear,
		"Total Marks":    "total_marks",
		"PO1":            "po1",
	}
	for in, want := range cases {
		if got := NormalizeHeader(in); got != want {
			t.Errorf("NormalizeHeader(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestReadTable_CSV(t *testing.T) {
	src := "\uFEFFUSN,Student Name,Sec\n1mv20cs001,Asha,A\n\n1MV20CS002,Ravi,B\n"
	tbl, err := ReadTable("students.csv", strings.NewReader(src), 0)
	if err != nil {
		t.Fatalf("ReadTable failed: %v", err)
	}
	if err := Require(tbl, ColStudentID, ColName); err != nil {
		t.Fatalf("Require failed: %v", err)
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("expected 2 rows (blank skipped), got %d", len(tbl.Rows))
	}
	if got := tbl.Get(tbl.Rows[1], ColSection); got != "B" {
		t.Errorf("expected section B, got %q", got)
	}
	if tbl.Rows[1].Line != 4 {
		t.Errorf("expected source line 4, got %d", tbl.Rows[1].Line)
	}
}

func TestReadTable_CSVLinesFollowSource(t *testing.T) {
	src := "USN,Name\nA1,x\n\nA2,\"multi\nline\"\nA3,y\n"
	tbl, err := ReadTable("students.csv", strings.NewReader(src), 0)
	if err != nil {
		t.Fatalf("ReadTable failed: %v", err)
	}
	want := []int{2, 4, 6}
	if len(tbl.Rows) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(tbl.Rows))
	}
	for i, line := range want {
		if tbl.Rows[i].Line != line {
			t.Errorf("row %s: expected line %d, got %d", tbl.Get(tbl.Rows[i], ColStudentID), line, tbl.Rows[i].Line)
		}
	}
	if got := tbl.Get(tbl.Rows[1], ColName); got != "multi\nline" {
		t.Errorf("quoted field should keep its newline, got %q", got)
	}
}

func TestReadTable_XLSXLinesAreRowNumbers(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	_ = f.SetSheetRow(sheet, "A1", &[]interface{}{"USN", "Name"})
	_ = f.SetSheetRow(sheet, "A2", &[]interface{}{"A1", "x"})
	_ = f.SetSheetRow(sheet, "A4", &[]interface{}{"A2", "y"})
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write xlsx: %v", err)
	}

	tbl, err := ReadTable("students.xlsx", &buf, 0)
	if err != nil {
		t.Fatalf("ReadTable failed: %v", err)
	}
	if len(tbl.Rows) != 2 || tbl.Rows[0].Line != 2 || tbl.Rows[1].Line != 4 {
		t.Errorf("unexpected rows %+v", tbl.Rows)
	}
}

func TestReadTable_XLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	_ = f.SetSheetRow(sheet, "A1", &[]interface{}{"Subject Code", "Faculty Email"})
	_ = f.SetSheetRow(sheet, "A2", &[]interface{}{"CS501", "prof@college.edu"})
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write xlsx: %v", err)
	}

	tbl, err := ReadTable("courses.xlsx", &buf, 10)
	if err != nil {
		t.Fatalf("ReadTable failed: %v", err)
	}
	if got := tbl.Get(tbl.Rows[0], ColInstructorEmail); got != "prof@college.edu" {
		t.Errorf("unexpected email %q", got)
	}
}

func TestRequire_ReportsMissing(t *testing.T) {
	tbl, err := ReadTable("x.csv", strings.NewReader("name\nAsha\n"), 0)
	if err != nil {
		t.Fatalf("ReadTable failed: %v", err)
	}
	err = Require(tbl, ColStudentID, ColName, ColSection)
	var missing *ErrMissingColumns
	if !errors.As(err, &missing) {
		t.Fatalf("expected ErrMissingColumns, got %v", err)
	}
	if len(missing.Missing) != 2 || missing.Missing[0] != ColStudentID || missing.Missing[1] != ColSection {
		t.Errorf("unexpected missing list %v", missing.Missing)
	}
}

func TestReadTable_Errors(t *testing.T) {
	if _, err := ReadTable("x.txt", strings.NewReader("a\n1\n"), 0); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
	if _, err := ReadTable("x.csv", strings.NewReader("usn,name\n"), 0); !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
	if _, err := ReadTable("x.csv", strings.NewReader("usn\n1\n2\n3\n"), 2); !errors.Is(err, ErrTooManyRows) {
		t.Errorf("expected ErrTooManyRows, got %v", err)
	}
	if _, err := ReadTable("x.csv", strings.NewReader("usn,name\n1CS001,\"bad\"x\n"), 0); !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", err)
	}
	if _, err := ReadTable("x.xlsx", strings.NewReader("not a zip"), 0); !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed for a broken workbook, got %v", err)
	}
}
