package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"acadtrack/backend/internal/dto"
	"acadtrack/backend/internal/model"
)

func setupTestStudentService() (StudentService, *mockRepos) {
	m := newMockRepos()
	return NewStudentService(m.repo, zap.NewNop()), m
}

func TestStudentService_Create(t *testing.T) {
	svc, _ := setupTestStudentService()
	ctx := context.Background()

	res, err := svc.Create(ctx, &dto.CreateStudentRequest{
		StudentID:  " 1mv20-cs001 ",
		Name:       " Asha Rao ",
		Department: " cse ",
		Section:    "a",
	}, "admin-1")
	if err != nil {
		t.Fatalf("Create should succeed: %v", err)
	}
	if res.StudentID != "1MV20CS001" || res.Name != "Asha Rao" || res.Department != "CSE" || res.Section != "A" {
		t.Errorf("fields not canonical: %+v", res)
	}
	if res.Semester != 1 || res.Status != model.StudentStatusActive {
		t.Errorf("want semester 1 active, got %d %s", res.Semester, res.Status)
	}

	_, err = svc.Create(ctx, &dto.CreateStudentRequest{StudentID: "1MV20CS001", Name: "Dup"}, "admin-1")
	if !errors.Is(err, ErrStudentExists) {
		t.Errorf("want ErrStudentExists, got %v", err)
	}
	_, err = svc.Create(ctx, &dto.CreateStudentRequest{StudentID: "--", Name: "Nobody"}, "admin-1")
	if !errors.Is(err, ErrStudentIDInvalid) {
		t.Errorf("want ErrStudentIDInvalid, got %v", err)
	}
}

func TestStudentService_UpdateAndStatus(t *testing.T) {
	svc, m := setupTestStudentService()
	ctx := context.Background()
	seedStudent(m, "1CS001", "A")

	sem, section := 6, "b"
	res, err := svc.Update(ctx, "1cs001", &dto.UpdateStudentRequest{Semester: &sem, Section: &section}, "admin-1")
	if err != nil {
		t.Fatalf("Update should succeed: %v", err)
	}
	if res.Semester != 6 || res.Section != "B" || res.Department != "CSE" {
		t.Errorf("partial update applied wrongly: %+v", res)
	}

	if err := svc.UpdateStatus(ctx, "1CS001", &dto.UpdateStudentStatusRequest{Status: model.StudentStatusDetained}, "admin-1"); err != nil {
		t.Fatalf("UpdateStatus should succeed: %v", err)
	}
	if m.student.students["1CS001"].Status != model.StudentStatusDetained {
		t.Error("status not stored")
	}
	if err := svc.UpdateStatus(ctx, "1CS001", &dto.UpdateStudentStatusRequest{Status: "graduated"}, "admin-1"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("want ErrInvalidStatus, got %v", err)
	}
	if err := svc.UpdateStatus(ctx, "1CS999", &dto.UpdateStudentStatusRequest{Status: model.StudentStatusAlumni}, "admin-1"); !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("want ErrStudentNotFound, got %v", err)
	}
}

func TestStudentService_ListAndDelete(t *testing.T) {
	svc, m := setupTestStudentService()
	ctx := context.Background()
	seedStudent(m, "1CS001", "A")
	seedStudent(m, "1CS002", "B")

	list, total, err := svc.List(ctx, &dto.StudentListRequest{Section: "a"})
	if err != nil || total != 1 || list[0].StudentID != "1CS001" {
		t.Errorf("want only section A, got %v (%v)", list, err)
	}

	if err := svc.Delete(ctx, "1cs002"); err != nil {
		t.Fatalf("Delete should succeed: %v", err)
	}
	if _, err := svc.GetByID(ctx, "1CS002"); !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("want ErrStudentNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, "1CS002"); !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("want ErrStudentNotFound, got %v", err)
	}
}
