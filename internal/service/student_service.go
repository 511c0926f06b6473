package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"acadtrack/backend/internal/dto"
	"acadtrack/backend/internal/model"
	"acadtrack/backend/internal/repository"
)

// ── student module errors ──

var (
	ErrStudentExists    = errors.New("student id already registered")
	ErrStudentIDInvalid = errors.New("student id must contain letters or digits")
)

// StudentService student register
type StudentService interface {
	Create(ctx context.Context, req *dto.CreateStudentRequest, callerID string) (*dto.StudentResponse, error)
	GetByID(ctx context.Context, id string) (*dto.StudentResponse, error)
	List(ctx context.Context, req *dto.StudentListRequest) ([]dto.StudentResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateStudentRequest, callerID string) (*dto.StudentResponse, error)
	UpdateStatus(ctx context.Context, id string, req *dto.UpdateStudentStatusRequest, callerID string) error
	// Delete removes the student together with their attendance and marks
	Delete(ctx context.Context, id string) error
}

type studentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewStudentService creates a StudentService
func NewStudentService(repo *repository.Repository, logger *zap.Logger) StudentService {
	return &studentService{repo: repo, logger: logger}
}

func normalizeDepartment(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// ────────────────────── Create ──────────────────────

func (s *studentService) Create(ctx context.Context, req *dto.CreateStudentRequest, callerID string) (*dto.StudentResponse, error) {
	id := normalizeCode(req.StudentID)
	if id == "" {
		return nil, ErrStudentIDInvalid
	}

	if _, err := s.repo.Student.GetByID(ctx, id); err == nil {
		return nil, ErrStudentExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("load student failed", zap.String("student_id", id), zap.Error(err))
		return nil, err
	}

	st := &model.Student{
		StudentID:  id,
		Name:       strings.TrimSpace(req.Name),
		Department: normalizeDepartment(req.Department),
		Semester:   req.Semester,
		Section:    normalizeCode(req.Section),
		Status:     model.StudentStatusActive,
	}
	if st.Semester == 0 {
		st.Semester = 1
	}
	st.CreatedBy = &callerID
	st.UpdatedBy = &callerID

	if err := s.repo.Student.Create(ctx, st); err != nil {
		s.logger.Error("create student failed", zap.String("student_id", id), zap.Error(err))
		return nil, err
	}
	return toStudentResponse(st), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *studentService) GetByID(ctx context.Context, id string) (*dto.StudentResponse, error) {
	st, err := resolveStudent(ctx, s.repo, s.logger, normalizeCode(id))
	if err != nil {
		return nil, err
	}
	return toStudentResponse(st), nil
}

// ────────────────────── List ──────────────────────

func (s *studentService) List(ctx context.Context, req *dto.StudentListRequest) ([]dto.StudentResponse, int64, error) {
	filter := repository.StudentFilter{
		Department: normalizeDepartment(req.Department),
		Semester:   req.Semester,
		Section:    normalizeCode(req.Section),
		Status:     req.Status,
		Keyword:    strings.TrimSpace(req.Keyword),
	}

	students, total, err := s.repo.Student.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("list students failed", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.StudentResponse, 0, len(students))
	for i := range students {
		result = append(result, *toStudentResponse(&students[i]))
	}
	return result, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *studentService) Update(ctx context.Context, id string, req *dto.UpdateStudentRequest, callerID string) (*dto.StudentResponse, error) {
	st, err := resolveStudent(ctx, s.repo, s.logger, normalizeCode(id))
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		st.Name = strings.TrimSpace(*req.Name)
	}
	if req.Department != nil {
		st.Department = normalizeDepartment(*req.Department)
	}
	if req.Semester != nil {
		st.Semester = *req.Semester
	}
	if req.Section != nil {
		st.Section = normalizeCode(*req.Section)
	}
	st.UpdatedBy = &callerID

	if err := s.repo.Student.Update(ctx, st); err != nil {
		s.logger.Error("update student failed", zap.String("student_id", st.StudentID), zap.Error(err))
		return nil, err
	}
	return toStudentResponse(st), nil
}

// ────────────────────── UpdateStatus ──────────────────────

func (s *studentService) UpdateStatus(ctx context.Context, id string, req *dto.UpdateStudentStatusRequest, callerID string) error {
	if !model.ValidStudentStatus(req.Status) {
		return ErrInvalidStatus
	}
	id = normalizeCode(id)

	if err := s.repo.Student.UpdateStatus(ctx, id, req.Status, callerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		s.logger.Error("update student status failed", zap.String("student_id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Delete ──────────────────────

func (s *studentService) Delete(ctx context.Context, id string) error {
	id = normalizeCode(id)
	if err := s.repo.Student.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		s.logger.Error("delete student failed", zap.String("student_id", id), zap.Error(err))
		return err
	}
	return nil
}

func toStudentResponse(st *model.Student) *dto.StudentResponse {
	return &dto.StudentResponse{
		StudentID:  st.StudentID,
		Name:       st.Name,
		Department: st.Department,
		Semester:   st.Semester,
		Section:    st.Section,
		Status:     st.Status,
	}
}
