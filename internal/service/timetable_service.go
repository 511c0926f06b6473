package service

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"

	"acadtrack/backend/internal/dto"
	"acadtrack/backend/internal/model"
	"acadtrack/backend/internal/repository"
)

// ── timetable module errors ──

var (
	ErrTimetableICSParseFailed = errors.New("calendar file could not be parsed")
	ErrTimetableICSEmpty       = errors.New("calendar holds no teaching events inside the term")
	ErrTimetableICSFetchFailed = errors.New("calendar url could not be fetched")
)

// TimetableService faculty weekly timetables
type TimetableService interface {
	// ImportICS replaces the caller's timetable for the term (active term when termID is empty)
	ImportICS(ctx context.Context, reader io.Reader, userID, termID string) (*dto.ImportICSResponse, error)
	// ImportICSFromURL fetches the calendar and imports it like ImportICS
	ImportICSFromURL(ctx context.Context, url, userID, termID string) (*dto.ImportICSResponse, error)
	Mine(ctx context.Context, userID, termID string) ([]dto.TimetableEntry, error)
}

type timetableService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTimetableService creates a TimetableService
func NewTimetableService(repo *repository.Repository, logger *zap.Logger) TimetableService {
	return &timetableService{repo: repo, logger: logger}
}

// ────────────────────── ImportICS ──────────────────────

func (s *timetableService) ImportICS(ctx context.Context, reader io.Reader, userID, termID string) (*dto.ImportICSResponse, error) {
	term, err := resolveTerm(ctx, s.repo, s.logger, termID)
	if err != nil {
		return nil, err
	}

	rows, skipped, err := ParseICS(reader, userID, term)
	if err != nil {
		s.logger.Warn("ics parse failed", zap.String("user_id", userID), zap.Error(err))
		return nil, ErrTimetableICSParseFailed
	}
	if len(rows) == 0 {
		return nil, ErrTimetableICSEmpty
	}
	for i := range rows {
		rows[i].CreatedBy = &userID
		rows[i].UpdatedBy = &userID
	}

	if err := s.repo.CourseSchedule.ReplaceByUserAndTerm(ctx, userID, term.TermID, rows); err != nil {
		s.logger.Error("replace timetable failed", zap.String("user_id", userID), zap.String("term_id", term.TermID), zap.Error(err))
		return nil, err
	}

	return &dto.ImportICSResponse{
		ImportedCount: len(rows),
		Skipped:       skipped,
		Entries:       toTimetableEntries(rows),
	}, nil
}

func (s *timetableService) ImportICSFromURL(ctx context.Context, url, userID, termID string) (*dto.ImportICSResponse, error) {
	body, err := FetchICSContent(ctx, url)
	if err != nil {
		s.logger.Warn("ics fetch failed", zap.String("url", url), zap.Error(err))
		return nil, ErrTimetableICSFetchFailed
	}
	defer body.Close()

	return s.ImportICS(ctx, body, userID, termID)
}

// ────────────────────── Mine ──────────────────────

func (s *timetableService) Mine(ctx context.Context, userID, termID string) ([]dto.TimetableEntry, error) {
	term, err := resolveTerm(ctx, s.repo, s.logger, termID)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.CourseSchedule.ListByUserAndTerm(ctx, userID, term.TermID)
	if err != nil {
		s.logger.Error("list timetable failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return toTimetableEntries(rows), nil
}

func toTimetableEntries(rows []model.CourseSchedule) []dto.TimetableEntry {
	out := make([]dto.TimetableEntry, 0, len(rows))
	for _, r := range rows {
		weeks := []int(r.Weeks)
		if weeks == nil {
			weeks = []int{}
		}
		out = append(out, dto.TimetableEntry{
			ID:          r.CourseScheduleID,
			SubjectCode: r.SubjectCode,
			Section:     r.Section,
			DayOfWeek:   r.DayOfWeek,
			StartTime:   clockPrefix(r.StartTime),
			EndTime:     clockPrefix(r.EndTime),
			Weeks:       weeks,
			Source:      r.Source,
		})
	}
	return out
}
