// Package attainment computes course outcome (CO) attainment levels from
// question-wise marks and rolls them up into program outcome (PO) scores
// through a subject's CO-PO weight matrix.
//
// Calculate is a pure function of its input snapshot. It performs no I/O.
package attainment

import (
	"encoding/json"
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"

	"acadtrack/backend/internal/model"
)

var (
	ErrNoMarks         = errors.New("no marks found")
	ErrNoApprovedPaper = errors.New("no approved question paper")
)

// COLabels course outcomes scored by the calculator
var COLabels = []string{"CO1", "CO2", "CO3", "CO4", "CO5", "CO6"}

// POLabels program outcome columns accepted in a CO-PO matrix
var POLabels = []string{
	"PO1", "PO2", "PO3", "PO4", "PO5", "PO6", "PO7", "PO8", "PO9", "PO10", "PO11", "PO12",
	"PSO1", "PSO2",
}

const (
	// a student passes a CO with at least this share of the CO maximum
	passRatio = 0.6
)

// IsCO reports whether label is one of CO1..CO6
func IsCO(label string) bool {
	for _, c := range COLabels {
		if c == label {
			return true
		}
	}
	return false
}

// IsPO reports whether label is a PO or PSO column
func IsPO(label string) bool {
	for _, p := range POLabels {
		if p == label {
			return true
		}
	}
	return false
}

// Input one snapshot of a subject's data.
// Papers may hold any status; only approved papers are used.
type Input struct {
	Marks  []model.MarkRecord
	Papers []model.QuestionPaper
	Matrix model.CoPoMatrix
}

// Result attainment of one subject
type Result struct {
	COLevels           map[string]int     `json:"co_levels"`
	COPassFraction     map[string]float64 `json:"co_pass_fraction"`
	POScores           map[string]float64 `json:"po_scores"`
	StudentsConsidered int                `json:"students_considered"`
	ExamsConsidered    []string           `json:"exams_considered"`
	ExamsDiscarded     []string           `json:"exams_discarded"`
	SkippedEntries     int                `json:"skipped_entries"`
	CappedEntries      int                `json:"capped_entries"`
}

type bucket struct {
	obtained float64
	max      float64
}

// Calculate runs the attainment computation over one snapshot
func Calculate(in Input) (*Result, error) {
	if len(in.Marks) == 0 {
		return nil, ErrNoMarks
	}

	// approved pattern per exam label
	patterns := make(map[string]map[string]model.Question)
	for i := range in.Papers {
		p := &in.Papers[i]
		if p.Status != model.PaperStatusApproved {
			continue
		}
		if _, dup := patterns[p.ExamLabel]; dup {
			continue
		}
		patterns[p.ExamLabel] = p.QuestionIndex()
	}

	considered := map[string]struct{}{}
	discarded := map[string]struct{}{}
	// student → CO → accumulator
	acc := make(map[string]map[string]*bucket)
	skipped, capped := 0, 0

	for _, m := range in.Marks {
		pattern, ok := patterns[m.ExamLabel]
		if !ok {
			discarded[m.ExamLabel] = struct{}{}
			continue
		}
		considered[m.ExamLabel] = struct{}{}

		perCO, ok := acc[m.StudentID]
		if !ok {
			perCO = make(map[string]*bucket, len(COLabels))
			acc[m.StudentID] = perCO
		}
		for qid, score := range m.Scores {
			q, ok := pattern[qid]
			if !ok || !IsCO(q.CO) {
				skipped++
				continue
			}
			b, ok := perCO[q.CO]
			if !ok {
				b = &bucket{}
				perCO[q.CO] = b
			}
			// marks entered before the paper existed were never range checked
			if score > q.Marks {
				score = q.Marks
				capped++
			} else if score < 0 {
				score = 0
				capped++
			}
			b.obtained += score
			b.max += q.Marks
		}
	}

	if len(considered) == 0 {
		return nil, ErrNoApprovedPaper
	}

	res := &Result{
		COLevels:           make(map[string]int),
		COPassFraction:     make(map[string]float64),
		POScores:           make(map[string]float64),
		StudentsConsidered: len(acc),
		ExamsConsidered:    sortedKeys(considered),
		ExamsDiscarded:     sortedKeys(discarded),
		SkippedEntries:     skipped,
		CappedEntries:      capped,
	}

	for _, co := range COLabels {
		eligible, passed := 0, 0
		for _, perCO := range acc {
			b, ok := perCO[co]
			if !ok || b.max == 0 {
				continue
			}
			eligible++
			if b.obtained >= passRatio*b.max {
				passed++
			}
		}
		if eligible == 0 {
			continue
		}
		frac := float64(passed) / float64(eligible)
		res.COPassFraction[co] = round2(frac)
		res.COLevels[co] = Level(frac)
	}

	for po := range poColumns(in.Matrix) {
		var sum, weight float64
		for _, co := range COLabels {
			level, ok := res.COLevels[co]
			if !ok {
				continue
			}
			w := Weight(in.Matrix[co][po])
			sum += float64(w * level)
			weight += float64(w)
		}
		if weight == 0 {
			res.POScores[po] = 0
			continue
		}
		res.POScores[po] = round2(sum / weight)
	}

	return res, nil
}

// Level maps a pass fraction to an attainment level 0..3
func Level(passFraction float64) int {
	switch {
	case passFraction >= 0.7:
		return 3
	case passFraction >= 0.6:
		return 2
	case passFraction >= 0.5:
		return 1
	default:
		return 0
	}
}

// Weight parses a raw matrix cell as a non-negative integer weight.
// Missing, non-numeric and negative cells weigh 0; fractional values are truncated.
func Weight(cell interface{}) int {
	var f float64
	switch v := cell.(type) {
	case nil:
		return 0
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case float64:
		f = v
	case json.Number:
		n, err := v.Float64()
		if err != nil {
			return 0
		}
		f = n
	case string:
		s := strings.TrimSpace(v)
		if s == "" || s == "-" {
			return 0
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		f = n
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0
	}
	return int(f)
}

// poColumns every PO label that appears in any CO row
func poColumns(matrix model.CoPoMatrix) map[string]struct{} {
	cols := make(map[string]struct{})
	for _, row := range matrix {
		for po := range row {
			cols[po] = struct{}{}
		}
	}
	return cols
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
