package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"acadtrack/backend/internal/dto"
)

func TestCoPoService_PutGetDelete(t *testing.T) {
	m := newMockRepos()
	svc := NewCoPoService(m.repo, zap.NewNop())
	ctx := context.Background()

	res, err := svc.Put(ctx, "cs-501", &dto.PutCoPoRequest{Matrix: map[string]map[string]interface{}{
		"co1": {"po1": 3, "PSO1": "2"},
		"CO2": {"po-12": "-"},
	}}, "faculty-1")
	if err != nil {
		t.Fatalf("Put should succeed: %v", err)
	}
	if res.SubjectCode != "CS501" {
		t.Errorf("subject should be canonical, got %s", res.SubjectCode)
	}
	if res.Matrix["CO1"]["PSO1"] != "2" {
		t.Errorf("cells should be kept as given, got %v", res.Matrix["CO1"]["PSO1"])
	}
	if _, ok := res.Matrix["CO2"]["PO12"]; !ok {
		t.Error("column labels should be canonical")
	}

	got, err := svc.Get(ctx, "CS501")
	if err != nil || got.Matrix["CO1"]["PO1"] != 3 {
		t.Errorf("Get should return the stored matrix, got %v (%v)", got, err)
	}

	if err := svc.Delete(ctx, "CS501"); err != nil {
		t.Fatalf("Delete should succeed: %v", err)
	}
	if _, err := svc.Get(ctx, "CS501"); !errors.Is(err, ErrCoPoNotFound) {
		t.Errorf("want ErrCoPoNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, "CS501"); !errors.Is(err, ErrCoPoNotFound) {
		t.Errorf("want ErrCoPoNotFound, got %v", err)
	}
}

func TestCoPoService_Put_Invalid(t *testing.T) {
	cases := map[string]map[string]map[string]interface{}{
		"empty":      {},
		"unknown co": {"CO9": {"PO1": 1}},
		"unknown po": {"CO1": {"PO13": 1}},
	}
	for name, matrix := range cases {
		t.Run(name, func(t *testing.T) {
			m := newMockRepos()
			svc := NewCoPoService(m.repo, zap.NewNop())
			if _, err := svc.Put(context.Background(), "CS501", &dto.PutCoPoRequest{Matrix: matrix}, "u"); !errors.Is(err, ErrCoPoInvalid) {
				t.Errorf("want ErrCoPoInvalid, got %v", err)
			}
		})
	}
}
