package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"acadtrack/backend/internal/dto"
	"acadtrack/backend/internal/model"
)

func setupTestTermService() (AcademicTermService, *mockRepos) {
	m := newMockRepos()
	return NewAcademicTermService(m.repo, zap.NewNop()), m
}

func TestAcademicTermService_Create(t *testing.T) {
	svc, _ := setupTestTermService()

	res, err := svc.Create(context.Background(), &dto.CreateTermRequest{
		Name:         " 2026 EVEN ",
		AcademicYear: "2025-26",
		StartDate:    "2026-01-05",
		EndDate:      "2026-05-15",
	}, "admin-1")
	if err != nil {
		t.Fatalf("Create should succeed: %v", err)
	}
	if res.Name != "2026 EVEN" || res.IsActive {
		t.Errorf("new term should be trimmed and inactive, got %+v", res)
	}
	if res.StartDate != "2026-01-05" || res.EndDate != "2026-05-15" {
		t.Errorf("dates not kept: %s..%s", res.StartDate, res.EndDate)
	}
}

func TestAcademicTermService_Create_InvalidDates(t *testing.T) {
	cases := []struct{ start, end string }{
		{"2026-05-15", "2026-01-05"},
		{"2026-01-05", "2026-01-05"},
		{"05/01/2026", "2026-05-15"},
	}
	for _, tc := range cases {
		svc, _ := setupTestTermService()
		_, err := svc.Create(context.Background(), &dto.CreateTermRequest{
			Name: "bad", AcademicYear: "2025-26", StartDate: tc.start, EndDate: tc.end,
		}, "admin-1")
		if !errors.Is(err, ErrTermDateInvalid) {
			t.Errorf("%s..%s: want ErrTermDateInvalid, got %v", tc.start, tc.end, err)
		}
	}
}

func TestAcademicTermService_ActivateIsExclusive(t *testing.T) {
	svc, m := setupTestTermService()
	ctx := context.Background()
	old := seedActiveTerm(m)

	next, err := svc.Create(ctx, &dto.CreateTermRequest{
		Name: "2026 EVEN", AcademicYear: "2025-26", StartDate: "2026-01-05", EndDate: "2026-05-15",
	}, "admin-1")
	if err != nil {
		t.Fatalf("Create should succeed: %v", err)
	}
	if err := svc.Activate(ctx, next.ID, "admin-1"); err != nil {
		t.Fatalf("Activate should succeed: %v", err)
	}

	if m.term.terms[old.TermID].IsActive {
		t.Error("previous term should be deactivated")
	}
	cur, err := svc.GetCurrent(ctx)
	if err != nil || cur.ID != next.ID {
		t.Errorf("current term should be %s, got %v (%v)", next.ID, cur, err)
	}

	// the old term may be archived now, the active one not
	archived := model.TermStatusArchived
	if _, err := svc.Update(ctx, old.TermID, &dto.UpdateTermRequest{Status: &archived}, "admin-1"); err != nil {
		t.Errorf("archiving an inactive term should succeed: %v", err)
	}
	if _, err := svc.Update(ctx, next.ID, &dto.UpdateTermRequest{Status: &archived}, "admin-1"); !errors.Is(err, ErrTermActive) {
		t.Errorf("want ErrTermActive, got %v", err)
	}
}

func TestAcademicTermService_Update_Dates(t *testing.T) {
	svc, m := setupTestTermService()
	ctx := context.Background()
	term := seedActiveTerm(m)

	end := "2025-12-12"
	res, err := svc.Update(ctx, term.TermID, &dto.UpdateTermRequest{EndDate: &end}, "admin-1")
	if err != nil || res.EndDate != end {
		t.Fatalf("Update should move the end date, got %v (%v)", res, err)
	}

	early := "2025-07-01"
	if _, err := svc.Update(ctx, term.TermID, &dto.UpdateTermRequest{EndDate: &early}, "admin-1"); !errors.Is(err, ErrTermDateInvalid) {
		t.Errorf("want ErrTermDateInvalid, got %v", err)
	}
}

func TestAcademicTermService_Delete(t *testing.T) {
	svc, m := setupTestTermService()
	ctx := context.Background()
	active := seedActiveTerm(m)

	if err := svc.Delete(ctx, active.TermID, "admin-1"); !errors.Is(err, ErrTermActive) {
		t.Errorf("want ErrTermActive, got %v", err)
	}
	if err := svc.Delete(ctx, "missing", "admin-1"); !errors.Is(err, ErrTermNotFound) {
		t.Errorf("want ErrTermNotFound, got %v", err)
	}
}

func TestAcademicTermService_NoCurrent(t *testing.T) {
	svc, _ := setupTestTermService()
	if _, err := svc.GetCurrent(context.Background()); !errors.Is(err, ErrNoActiveTerm) {
		t.Errorf("want ErrNoActiveTerm, got %v", err)
	}
}
