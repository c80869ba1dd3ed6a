package review

import (
	"reflect"
	"testing"

	"phototagger/internal/correlate"
)

func baseRecords() []correlate.Record {
	return []correlate.Record{
		{Index: 0, OriginalName: "a.jpg", Name: "beach_day.jpg", Tags: []string{"beach", "sun"}, Description: "A beach."},
		{Index: 1, OriginalName: "b.jpg", Name: "city_night.jpg", Tags: []string{"city"}, Description: "A city."},
	}
}

func TestEffectiveWithoutEdits(t *testing.T) {
	s := NewSession(baseRecords())

	rec, err := s.Effective(0)
	if err != nil {
		t.Fatalf("effective failed: %v", err)
	}
	if rec.Name != "beach_day.jpg" {
		t.Errorf("unedited record should pass through, got %s", rec.Name)
	}
}

func TestSetNameAndDescription(t *testing.T) {
	s := NewSession(baseRecords())

	if err := s.SetName(0, "vacation.jpg"); err != nil {
		t.Fatalf("set name failed: %v", err)
	}
	if err := s.SetDescription(0, ""); err != nil {
		t.Fatalf("set description failed: %v", err)
	}

	rec, _ := s.Effective(0)
	if rec.Name != "vacation.jpg" {
		t.Errorf("expected vacation.jpg, got %s", rec.Name)
	}
	// An explicit empty string is an edit, not an absence.
	if rec.Description != "" {
		t.Errorf("expected empty description, got %q", rec.Description)
	}

	// The other record is untouched.
	other, _ := s.Effective(1)
	if other.Name != "city_night.jpg" {
		t.Errorf("record 1 should be unedited, got %s", other.Name)
	}
}

func TestTagOperations(t *testing.T) {
	s := NewSession(baseRecords())

	if err := s.AddTag(0, "summer"); err != nil {
		t.Fatalf("add tag failed: %v", err)
	}
	if err := s.AddTag(0, "summer"); err != nil {
		t.Fatalf("duplicate add failed: %v", err)
	}
	if err := s.RemoveTag(0, "sun"); err != nil {
		t.Fatalf("remove tag failed: %v", err)
	}
	if err := s.RenameTag(0, "beach", "coast"); err != nil {
		t.Fatalf("rename tag failed: %v", err)
	}

	rec, _ := s.Effective(0)
	want := []string{"coast", "summer"}
	if !reflect.DeepEqual(rec.Tags, want) {
		t.Errorf("expected tags %v, got %v", want, rec.Tags)
	}
}

func TestEditsDoNotMutateBase(t *testing.T) {
	records := baseRecords()
	s := NewSession(records)

	if err := s.AddTag(0, "extra"); err != nil {
		t.Fatalf("add tag failed: %v", err)
	}
	if err := s.SetName(0, "changed.jpg"); err != nil {
		t.Fatalf("set name failed: %v", err)
	}

	if records[0].Name != "beach_day.jpg" {
		t.Errorf("base record name mutated: %s", records[0].Name)
	}
	if !reflect.DeepEqual(records[0].Tags, []string{"beach", "sun"}) {
		t.Errorf("base record tags mutated: %v", records[0].Tags)
	}
}

func TestRecords(t *testing.T) {
	s := NewSession(baseRecords())
	if err := s.SetName(1, "renamed.jpg"); err != nil {
		t.Fatalf("set name failed: %v", err)
	}

	out := s.Records()
	if len(out) != 2 {
		t.Fatalf("expected 2 records, got %d", len(out))
	}
	if out[0].Name != "beach_day.jpg" || out[1].Name != "renamed.jpg" {
		t.Errorf("unexpected records: %v, %v", out[0].Name, out[1].Name)
	}
}

func TestIndexOutOfRange(t *testing.T) {
	s := NewSession(baseRecords())
	if _, err := s.Effective(5); err == nil {
		t.Error("expected error for out of range index")
	}
	if err := s.SetName(-1, "x"); err == nil {
		t.Error("expected error for negative index")
	}
	if err := s.AddTag(2, "x"); err == nil {
		t.Error("expected error for out of range index")
	}
}
