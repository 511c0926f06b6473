package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"acadtrack/backend/internal/model"
	"acadtrack/backend/internal/repository"
)

// ── errors shared across modules ──

var (
	ErrNoPermission    = errors.New("no permission for this operation")
	ErrNoActiveTerm    = errors.New("no active academic term")
	ErrInvalidDate     = errors.New("invalid date, expected YYYY-MM-DD")
	ErrStudentNotFound = errors.New("student not found")
	ErrInvalidStatus   = errors.New("invalid status")
)

const (
	dateLayout     = "2006-01-02"
	timestampStyle = "2006-01-02T15:04:05Z07:00"
)

// Caller the authenticated identity a request runs as
type Caller struct {
	UserID    string
	Role      string
	StudentID string
}

// IsAdmin reports whether the caller has the admin role
func (c Caller) IsAdmin() bool { return c.Role == model.RoleAdmin }

// IsStudent reports whether the caller has the student role
func (c Caller) IsStudent() bool { return c.Role == model.RoleStudent }

// normalizeCode canonical form of identifiers used in storage keys
// (roll numbers, subject codes, sections, slot codes, exam labels):
// upper case, letters and digits only.
func normalizeCode(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToUpper(strings.TrimSpace(s)) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timestampStyle)
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// resolveStudent loads a student or maps not-found to ErrStudentNotFound
func resolveStudent(ctx context.Context, repo *repository.Repository, logger *zap.Logger, id string) (*model.Student, error) {
	st, err := repo.Student.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		logger.Error("load student failed", zap.String("student_id", id), zap.Error(err))
		return nil, err
	}
	return st, nil
}

// resolveTerm returns the term with the given id, or the active term when id is empty
func resolveTerm(ctx context.Context, repo *repository.Repository, logger *zap.Logger, id string) (*model.AcademicTerm, error) {
	var (
		term *model.AcademicTerm
		err  error
	)
	if id != "" {
		term, err = repo.Term.GetByID(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTermNotFound
		}
	} else {
		term, err = repo.Term.GetCurrent(ctx)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveTerm
		}
	}
	if err != nil {
		logger.Error("load academic term failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return term, nil
}

// studentScope resolves which student a request targets. Students always act on
// themselves; staff must name the student.
func studentScope(caller Caller, requested string) (string, error) {
	if caller.IsStudent() {
		if caller.StudentID == "" {
			return "", ErrNoPermission
		}
		if requested != "" && normalizeCode(requested) != caller.StudentID {
			return "", ErrNoPermission
		}
		return caller.StudentID, nil
	}
	if requested == "" {
		return "", ErrStudentNotFound
	}
	return normalizeCode(requested), nil
}
