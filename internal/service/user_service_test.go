package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"acadtrack/backend/internal/dto"
	"acadtrack/backend/internal/model"
)

func setupTestUserService() (UserService, *mockRepos) {
	m := newMockRepos()
	return NewUserService(m.repo, zap.NewNop()), m
}

// ── CreateUser ──

func TestUserService_CreateUser_Faculty(t *testing.T) {
	svc, m := setupTestUserService()

	res, err := svc.CreateUser(context.Background(), &dto.CreateUserRequest{
		Name:  "Dr. Rao",
		Email: "Rao@College.edu",
		Role:  model.RoleFaculty,
	}, "admin-1")
	if err != nil {
		t.Fatalf("CreateUser should succeed: %v", err)
	}
	if res.User.LoginID != "rao@college.edu" {
		t.Errorf("staff log in with their email, got %s", res.User.LoginID)
	}
	if len(res.TempPassword) != 10 {
		t.Errorf("want a 10 character temp password, got %q", res.TempPassword)
	}
	stored := m.user.users[res.User.ID]
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(res.TempPassword)); err != nil {
		t.Error("stored hash should match the temp password")
	}
	if !stored.MustChangePassword {
		t.Error("new accounts must change their password")
	}
}

func TestUserService_CreateUser_Student(t *testing.T) {
	svc, m := setupTestUserService()
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, &dto.CreateUserRequest{Name: "Asha", Role: model.RoleStudent, StudentID: "1cs001"}, "admin-1")
	if !errors.Is(err, ErrUserStudentIDRequired) {
		t.Fatalf("student record must exist first, got %v", err)
	}

	seedStudent(m, "1CS001", "A")
	res, err := svc.CreateUser(ctx, &dto.CreateUserRequest{Name: "Asha", Role: model.RoleStudent, StudentID: "1cs001"}, "admin-1")
	if err != nil {
		t.Fatalf("CreateUser should succeed: %v", err)
	}
	if res.User.LoginID != "1CS001" || res.User.StudentID != "1CS001" {
		t.Errorf("students log in with their roll number, got %+v", res.User)
	}

	_, err = svc.CreateUser(ctx, &dto.CreateUserRequest{Name: "Asha", Role: model.RoleStudent, StudentID: "1CS001"}, "admin-1")
	if !errors.Is(err, ErrLoginIDExists) {
		t.Errorf("want ErrLoginIDExists, got %v", err)
	}
}

func TestUserService_CreateUser_Validation(t *testing.T) {
	svc, _ := setupTestUserService()
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, &dto.CreateUserRequest{Name: "No Mail", Role: model.RoleFaculty}, "admin-1")
	if !errors.Is(err, ErrUserEmailRequired) {
		t.Errorf("want ErrUserEmailRequired, got %v", err)
	}

	req := &dto.CreateUserRequest{Name: "Dup", Email: "dup@college.edu", Role: model.RoleAdmin}
	if _, err := svc.CreateUser(ctx, req, "admin-1"); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.CreateUser(ctx, req, "admin-1"); !errors.Is(err, ErrEmailExists) {
		t.Errorf("want ErrEmailExists, got %v", err)
	}
}

// ── Update / Delete ──

func TestUserService_Update_SelfRoleChange(t *testing.T) {
	svc, m := setupTestUserService()
	m.user.users["admin-1"] = &model.User{UserID: "admin-1", LoginID: "a@x.edu", Role: model.RoleAdmin}

	role := model.RoleFaculty
	_, err := svc.Update(context.Background(), "admin-1", &dto.UpdateUserRequest{Role: &role}, "admin-1")
	if !errors.Is(err, ErrUserSelfRoleChange) {
		t.Fatalf("want ErrUserSelfRoleChange, got %v", err)
	}
}

func TestUserService_Update_StudentRoleNeedsRecord(t *testing.T) {
	svc, m := setupTestUserService()
	m.user.users["u-2"] = &model.User{UserID: "u-2", LoginID: "f@x.edu", Role: model.RoleFaculty}

	role := model.RoleStudent
	_, err := svc.Update(context.Background(), "u-2", &dto.UpdateUserRequest{Role: &role}, "admin-1")
	if !errors.Is(err, ErrUserStudentIDRequired) {
		t.Fatalf("want ErrUserStudentIDRequired, got %v", err)
	}

	name := "  Renamed "
	res, err := svc.Update(context.Background(), "u-2", &dto.UpdateUserRequest{Name: &name}, "admin-1")
	if err != nil {
		t.Fatalf("Update should succeed: %v", err)
	}
	if res.Name != "Renamed" {
		t.Errorf("name should be trimmed, got %q", res.Name)
	}
}

func TestUserService_Delete(t *testing.T) {
	svc, m := setupTestUserService()
	m.user.users["u-2"] = &model.User{UserID: "u-2", Role: model.RoleFaculty}
	ctx := context.Background()

	if err := svc.Delete(ctx, "admin-1", "admin-1"); !errors.Is(err, ErrUserSelfDelete) {
		t.Errorf("want ErrUserSelfDelete, got %v", err)
	}
	if err := svc.Delete(ctx, "missing", "admin-1"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("want ErrUserNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, "u-2", "admin-1"); err != nil {
		t.Fatalf("Delete should succeed: %v", err)
	}
	if _, ok := m.user.users["u-2"]; ok {
		t.Error("user should be gone")
	}
}

func TestUserService_ResetPassword(t *testing.T) {
	svc, m := setupTestUserService()
	m.user.users["u-2"] = &model.User{UserID: "u-2", Role: model.RoleFaculty, PasswordHash: "old"}

	res, err := svc.ResetPassword(context.Background(), "u-2", "admin-1")
	if err != nil {
		t.Fatalf("ResetPassword should succeed: %v", err)
	}
	u := m.user.users["u-2"]
	if !u.MustChangePassword {
		t.Error("reset accounts must change their password")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(res.TempPassword)) != nil {
		t.Error("hash should match the new temp password")
	}
}

// ── generateTempPassword ──

func TestGenerateTempPassword(t *testing.T) {
	for i := 0; i < 50; i++ {
		pw, err := generateTempPassword(4)
		if err != nil {
			t.Fatalf("generateTempPassword: %v", err)
		}
		if len(pw) != 8 {
			t.Fatalf("length is clamped to 8, got %d", len(pw))
		}
		if !strings.ContainsAny(pw, "23456789") {
			t.Fatalf("%q has no digit", pw)
		}
		if strings.ContainsAny(pw, "0O1lI") {
			t.Fatalf("%q contains an ambiguous character", pw)
		}
	}
}
