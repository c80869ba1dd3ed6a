package correlate

import (
	"reflect"
	"testing"

	"phototagger/internal/process"
)

func TestResolvePrimaryKey(t *testing.T) {
	results := map[string]process.Result{
		"0_photo.jpg": {Name: "sunset_beach.jpg", Tags: []string{"sunset"}, Description: "A sunset."},
	}

	rec := Resolve(0, "photo.jpg", results)
	if rec.Name != "sunset_beach.jpg" {
		t.Errorf("expected sunset_beach.jpg, got %s", rec.Name)
	}
	if rec.Description != "A sunset." {
		t.Errorf("unexpected description %q", rec.Description)
	}
}

func TestResolvePrimaryBeatsFallback(t *testing.T) {
	results := map[string]process.Result{
		"0_photo.jpg": {Name: "primary.jpg"},
		"9_photo.jpg": {Name: "fallback.jpg"},
	}

	rec := Resolve(0, "photo.jpg", results)
	if rec.Name != "primary.jpg" {
		t.Errorf("primary key should win, got %s", rec.Name)
	}
}

func TestResolveSuffixFallback(t *testing.T) {
	// Server keyed the result with a different index than ours.
	results := map[string]process.Result{
		"2_photo.jpg": {Name: "recovered.jpg"},
	}

	rec := Resolve(0, "photo.jpg", results)
	if rec.Name != "recovered.jpg" {
		t.Errorf("suffix fallback should match, got %s", rec.Name)
	}
}

func TestResolveFallbackIsDeterministic(t *testing.T) {
	results := map[string]process.Result{
		"3_photo.jpg": {Name: "three.jpg"},
		"7_photo.jpg": {Name: "seven.jpg"},
	}

	// Lowest sorted key wins, every time.
	for range 10 {
		rec := Resolve(0, "photo.jpg", results)
		if rec.Name != "three.jpg" {
			t.Fatalf("expected three.jpg, got %s", rec.Name)
		}
	}
}

func TestResolveDefaultRecord(t *testing.T) {
	rec := Resolve(4, "photo.jpg", map[string]process.Result{})
	if rec.Name != "photo.jpg" {
		t.Errorf("default record keeps the original name, got %s", rec.Name)
	}
	if len(rec.Tags) != 0 || rec.Tags == nil {
		t.Errorf("default record has an empty tag list, got %v", rec.Tags)
	}
	if rec.Description != "No description available" {
		t.Errorf("unexpected default description %q", rec.Description)
	}
	if rec.Index != 4 || rec.OriginalName != "photo.jpg" {
		t.Errorf("record identity wrong: %+v", rec)
	}
}

func TestResolveAll(t *testing.T) {
	results := map[string]process.Result{
		"0_a.jpg": {Name: "first.jpg", Tags: []string{"x"}, Description: "First."},
		"2_c.jpg": {Name: "third.jpg", Tags: []string{"y"}, Description: "Third."},
	}

	records := ResolveAll([]string{"a.jpg", "b.jpg", "c.jpg"}, results)
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[0].Name != "first.jpg" {
		t.Errorf("record 0: got %s", records[0].Name)
	}
	if records[1].Name != "b.jpg" || records[1].Description != "No description available" {
		t.Errorf("record 1 should be the default record, got %+v", records[1])
	}
	if records[2].Name != "third.jpg" {
		t.Errorf("record 2: got %s", records[2].Name)
	}
	if !reflect.DeepEqual(records[1].Tags, []string{}) {
		t.Errorf("default tags should be empty, got %v", records[1].Tags)
	}
}
