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

// ── course module errors ──

var (
	ErrCourseNotFound       = errors.New("course not found")
	ErrCourseExists         = errors.New("course already exists for this class")
	ErrInstructorNotFaculty = errors.New("instructor email does not belong to a faculty account")
)

// CourseService course catalogue and instructor assignment
type CourseService interface {
	Create(ctx context.Context, req *dto.CreateCourseRequest, callerID string) (*dto.CourseResponse, error)
	GetByID(ctx context.Context, id string) (*dto.CourseResponse, error)
	List(ctx context.Context, req *dto.CourseListRequest) ([]dto.CourseResponse, int64, error)
	// Mine courses taught by the calling faculty member
	Mine(ctx context.Context, callerID string, req *dto.CourseListRequest) ([]dto.CourseResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateCourseRequest, callerID string) (*dto.CourseResponse, error)
	AssignInstructor(ctx context.Context, id string, req *dto.AssignInstructorRequest, callerID string) (*dto.CourseResponse, error)
	Delete(ctx context.Context, id string) error
}

type courseService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCourseService creates a CourseService
func NewCourseService(repo *repository.Repository, logger *zap.Logger) CourseService {
	return &courseService{repo: repo, logger: logger}
}

// resolveInstructor looks a faculty account up by email
func resolveInstructor(ctx context.Context, repo *repository.Repository, logger *zap.Logger, email string) (*model.User, error) {
	user, err := repo.User.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInstructorNotFaculty
		}
		logger.Error("load instructor failed", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	if user.Role != model.RoleFaculty {
		return nil, ErrInstructorNotFaculty
	}
	return user, nil
}

// ────────────────────── Create ──────────────────────

func (s *courseService) Create(ctx context.Context, req *dto.CreateCourseRequest, callerID string) (*dto.CourseResponse, error) {
	course := &model.Course{
		AcademicYear: strings.TrimSpace(req.AcademicYear),
		Department:   normalizeDepartment(req.Department),
		Semester:     req.Semester,
		Section:      normalizeCode(req.Section),
		SubjectCode:  normalizeCode(req.SubjectCode),
		Title:        strings.TrimSpace(req.Title),
	}
	if course.Semester == 0 {
		course.Semester = 1
	}
	if course.AcademicYear == "" {
		term, err := resolveTerm(ctx, s.repo, s.logger, "")
		if err != nil {
			return nil, err
		}
		course.AcademicYear = term.AcademicYear
	}

	existing, err := s.repo.Course.FindBySubjectSection(ctx, course.AcademicYear, course.SubjectCode, course.Section)
	if err != nil {
		s.logger.Error("look up course failed", zap.String("subject_code", course.SubjectCode), zap.Error(err))
		return nil, err
	}
	for _, c := range existing {
		if c.Department == course.Department && c.Semester == course.Semester {
			return nil, ErrCourseExists
		}
	}

	if req.InstructorEmail != "" {
		instructor, err := resolveInstructor(ctx, s.repo, s.logger, req.InstructorEmail)
		if err != nil {
			return nil, err
		}
		course.InstructorID = &instructor.UserID
		course.InstructorEmail = instructor.Email
		course.Instructor = instructor
	}
	course.CreatedBy = &callerID
	course.UpdatedBy = &callerID

	if err := s.repo.Course.Create(ctx, course); err != nil {
		s.logger.Error("create course failed", zap.String("subject_code", course.SubjectCode), zap.Error(err))
		return nil, err
	}
	return toCourseResponse(course), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *courseService) GetByID(ctx context.Context, id string) (*dto.CourseResponse, error) {
	course, err := s.getCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCourseResponse(course), nil
}

func (s *courseService) getCourse(ctx context.Context, id string) (*model.Course, error) {
	course, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("load course failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return course, nil
}

// ────────────────────── List ──────────────────────

func (s *courseService) List(ctx context.Context, req *dto.CourseListRequest) ([]dto.CourseResponse, int64, error) {
	return s.list(ctx, courseFilter(req), req)
}

func (s *courseService) Mine(ctx context.Context, callerID string, req *dto.CourseListRequest) ([]dto.CourseResponse, int64, error) {
	filter := courseFilter(req)
	filter.InstructorID = callerID
	return s.list(ctx, filter, req)
}

func courseFilter(req *dto.CourseListRequest) repository.CourseFilter {
	return repository.CourseFilter{
		AcademicYear: strings.TrimSpace(req.AcademicYear),
		Department:   normalizeDepartment(req.Department),
		Semester:     req.Semester,
		Section:      normalizeCode(req.Section),
		SubjectCode:  normalizeCode(req.SubjectCode),
	}
}

func (s *courseService) list(ctx context.Context, filter repository.CourseFilter, req *dto.CourseListRequest) ([]dto.CourseResponse, int64, error) {
	courses, total, err := s.repo.Course.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("list courses failed", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		result = append(result, *toCourseResponse(&courses[i]))
	}
	return result, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *courseService) Update(ctx context.Context, id string, req *dto.UpdateCourseRequest, callerID string) (*dto.CourseResponse, error) {
	course, err := s.getCourse(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		course.Title = strings.TrimSpace(*req.Title)
	}
	course.UpdatedBy = &callerID

	if err := s.repo.Course.Update(ctx, course); err != nil {
		s.logger.Error("update course failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toCourseResponse(course), nil
}

// ────────────────────── AssignInstructor ──────────────────────

func (s *courseService) AssignInstructor(ctx context.Context, id string, req *dto.AssignInstructorRequest, callerID string) (*dto.CourseResponse, error) {
	course, err := s.getCourse(ctx, id)
	if err != nil {
		return nil, err
	}

	instructor, err := resolveInstructor(ctx, s.repo, s.logger, req.InstructorEmail)
	if err != nil {
		return nil, err
	}

	course.InstructorID = &instructor.UserID
	course.InstructorEmail = instructor.Email
	course.Instructor = instructor
	course.UpdatedBy = &callerID

	if err := s.repo.Course.Update(ctx, course); err != nil {
		s.logger.Error("assign instructor failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toCourseResponse(course), nil
}

// ────────────────────── Delete ──────────────────────

func (s *courseService) Delete(ctx context.Context, id string) error {
	if _, err := s.getCourse(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Course.Delete(ctx, id); err != nil {
		s.logger.Error("delete course failed", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func toCourseResponse(c *model.Course) *dto.CourseResponse {
	resp := &dto.CourseResponse{
		ID:              c.CourseID,
		AcademicYear:    c.AcademicYear,
		Department:      c.Department,
		Semester:        c.Semester,
		Section:         c.Section,
		SubjectCode:     c.SubjectCode,
		Title:           c.Title,
		InstructorID:    derefString(c.InstructorID),
		InstructorEmail: c.InstructorEmail,
	}
	if c.Instructor != nil {
		resp.InstructorName = c.Instructor.Name
	}
	return resp
}
