package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"acadtrack/backend/internal/dto"
	"acadtrack/backend/internal/model"
	"acadtrack/backend/internal/repository"
)

// ── time slot module errors ──

var (
	ErrTimeSlotNotFound    = errors.New("time slot not found")
	ErrTimeSlotInactive    = errors.New("time slot is not active")
	ErrTimeSlotExists      = errors.New("time slot code already in use")
	ErrTimeSlotTimeInvalid = errors.New("time slot needs HH:MM times with end after start")
	ErrTimeSlotCodeInvalid = errors.New("time slot code must contain letters or digits")
)

// TimeSlotService class period administration
type TimeSlotService interface {
	Create(ctx context.Context, req *dto.CreateTimeSlotRequest, callerID string) (*dto.TimeSlotResponse, error)
	GetByID(ctx context.Context, id string) (*dto.TimeSlotResponse, error)
	List(ctx context.Context, req *dto.TimeSlotListRequest) ([]dto.TimeSlotResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateTimeSlotRequest, callerID string) (*dto.TimeSlotResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
}

type timeSlotService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTimeSlotService creates a TimeSlotService
func NewTimeSlotService(repo *repository.Repository, logger *zap.Logger) TimeSlotService {
	return &timeSlotService{repo: repo, logger: logger}
}

// clockRange parses and orders "HH:MM" start and end
func clockRange(start, end string) (string, string, error) {
	st, err := time.Parse("15:04", clockPrefix(strings.TrimSpace(start)))
	if err != nil {
		return "", "", ErrTimeSlotTimeInvalid
	}
	et, err := time.Parse("15:04", clockPrefix(strings.TrimSpace(end)))
	if err != nil {
		return "", "", ErrTimeSlotTimeInvalid
	}
	if !et.After(st) {
		return "", "", ErrTimeSlotTimeInvalid
	}
	return st.Format("15:04"), et.Format("15:04"), nil
}

// ────────────────────── Create ──────────────────────

func (s *timeSlotService) Create(ctx context.Context, req *dto.CreateTimeSlotRequest, callerID string) (*dto.TimeSlotResponse, error) {
	code := normalizeCode(req.Code)
	if code == "" {
		return nil, ErrTimeSlotCodeInvalid
	}
	start, end, err := clockRange(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.TimeSlot.GetByCode(ctx, code); err == nil {
		return nil, ErrTimeSlotExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("load time slot failed", zap.String("code", code), zap.Error(err))
		return nil, err
	}

	slot := &model.TimeSlot{
		Code:      code,
		Name:      strings.TrimSpace(req.Name),
		StartTime: start,
		EndTime:   end,
		IsActive:  true,
	}
	slot.CreatedBy = &callerID
	slot.UpdatedBy = &callerID

	if err := s.repo.TimeSlot.Create(ctx, slot); err != nil {
		s.logger.Error("create time slot failed", zap.String("code", code), zap.Error(err))
		return nil, err
	}
	return toTimeSlotResponse(slot), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *timeSlotService) GetByID(ctx context.Context, id string) (*dto.TimeSlotResponse, error) {
	slot, err := s.getSlot(ctx, id)
	if err != nil {
		return nil, err
	}
	return toTimeSlotResponse(slot), nil
}

func (s *timeSlotService) getSlot(ctx context.Context, id string) (*model.TimeSlot, error) {
	slot, err := s.repo.TimeSlot.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimeSlotNotFound
		}
		s.logger.Error("load time slot failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return slot, nil
}

// ────────────────────── List ──────────────────────

func (s *timeSlotService) List(ctx context.Context, req *dto.TimeSlotListRequest) ([]dto.TimeSlotResponse, error) {
	slots, err := s.repo.TimeSlot.List(ctx, !req.IncludeInactive)
	if err != nil {
		s.logger.Error("list time slots failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.TimeSlotResponse, 0, len(slots))
	for i := range slots {
		result = append(result, *toTimeSlotResponse(&slots[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *timeSlotService) Update(ctx context.Context, id string, req *dto.UpdateTimeSlotRequest, callerID string) (*dto.TimeSlotResponse, error) {
	slot, err := s.getSlot(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		slot.Name = strings.TrimSpace(*req.Name)
	}
	start, end := slot.StartTime, slot.EndTime
	if req.StartTime != nil {
		start = *req.StartTime
	}
	if req.EndTime != nil {
		end = *req.EndTime
	}
	if slot.StartTime, slot.EndTime, err = clockRange(start, end); err != nil {
		return nil, err
	}
	if req.IsActive != nil {
		slot.IsActive = *req.IsActive
	}
	slot.UpdatedBy = &callerID

	if err := s.repo.TimeSlot.Update(ctx, slot); err != nil {
		s.logger.Error("update time slot failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toTimeSlotResponse(slot), nil
}

// ────────────────────── Delete ──────────────────────

func (s *timeSlotService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.getSlot(ctx, id); err != nil {
		return err
	}
	if err := s.repo.TimeSlot.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("delete time slot failed", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func toTimeSlotResponse(slot *model.TimeSlot) *dto.TimeSlotResponse {
	return &dto.TimeSlotResponse{
		ID:        slot.TimeSlotID,
		Code:      slot.Code,
		Name:      slot.Name,
		StartTime: clockPrefix(slot.StartTime),
		EndTime:   clockPrefix(slot.EndTime),
		IsActive:  slot.IsActive,
	}
}

// clockPrefix trims the seconds PostgreSQL adds to TIME values
func clockPrefix(t string) string {
	if len(t) > 5 {
		return t[:5]
	}
	return t
}
