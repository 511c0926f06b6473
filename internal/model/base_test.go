package model

import "testing"

func TestIntArray_RoundTrip(t *testing.T) {
	v, err := IntArray{1, 3, 5}.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}
	if v != "{1,3,5}" {
		t.Errorf("expected {1,3,5}, got %v", v)
	}

	var a IntArray
	if err := a.Scan([]byte("{2, 4}")); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(a) != 2 || a[0] != 2 || a[1] != 4 {
		t.Errorf("unexpected scan result %v", a)
	}
}

func TestStringArray_ScanQuoted(t *testing.T) {
	var a StringArray
	if err := a.Scan(`{"1MV20CS001",1MV20CS002}`); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(a) != 2 || a[0] != "1MV20CS001" || a[1] != "1MV20CS002" {
		t.Errorf("unexpected scan result %v", a)
	}

	var empty StringArray
	if err := empty.Scan("{}"); err != nil || empty == nil || len(empty) != 0 {
		t.Errorf("empty array should scan to empty slice, got %v (%v)", empty, err)
	}
}

func TestScoreMap_ScanAndTotal(t *testing.T) {
	var m ScoreMap
	if err := m.Scan([]byte(`{"Q1": 8, "Q2": 4.5}`)); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if m.Total() != 12.5 {
		t.Errorf("expected total 12.5, got %v", m.Total())
	}
	if _, err := (ScoreMap)(nil).Value(); err != nil {
		t.Errorf("nil map should encode, got %v", err)
	}
}
