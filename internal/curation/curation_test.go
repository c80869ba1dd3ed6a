package curation

import (
	"reflect"
	"testing"

	"phototagger/internal/asset"
)

func TestDefaultSelection(t *testing.T) {
	sel := NewSelection([][]string{
		{"a.jpg", "b.jpg", "c.jpg"},
		{"d.jpg", "e.jpg"},
	})

	tests := []struct {
		group, item int
		want        bool
	}{
		{0, 0, true},
		{0, 1, true},
		{0, 2, false}, // last in group kept
		{1, 0, true},
		{1, 1, false},
	}
	for _, tt := range tests {
		got, err := sel.Marked(tt.group, tt.item)
		if err != nil {
			t.Fatalf("Marked(%d, %d) errored: %v", tt.group, tt.item, err)
		}
		if got != tt.want {
			t.Errorf("Marked(%d, %d) = %v, want %v", tt.group, tt.item, got, tt.want)
		}
	}
}

func TestToggleFlipsOneCell(t *testing.T) {
	sel := NewSelection([][]string{{"a.jpg", "b.jpg", "c.jpg"}})

	if err := sel.Toggle(0, 0); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}

	got, _ := sel.Marked(0, 0)
	if got {
		t.Error("cell (0,0) should be unmarked after toggle")
	}
	// Other cells untouched.
	if m, _ := sel.Marked(0, 1); !m {
		t.Error("cell (0,1) should still be marked")
	}
	if m, _ := sel.Marked(0, 2); m {
		t.Error("cell (0,2) should still be unmarked")
	}
}

func TestToggleOutOfRange(t *testing.T) {
	sel := NewSelection([][]string{{"a.jpg", "b.jpg"}})
	if err := sel.Toggle(1, 0); err == nil {
		t.Error("expected error for group out of range")
	}
	if err := sel.Toggle(0, 2); err == nil {
		t.Error("expected error for item out of range")
	}
	if err := sel.Toggle(0, -1); err == nil {
		t.Error("expected error for negative index")
	}
}

func TestConfirmKeepsUngroupedFiles(t *testing.T) {
	all := []asset.Asset{
		{Name: "a.jpg"},
		{Name: "b.jpg"},
		{Name: "c.jpg"},
		{Name: "unique.jpg"},
	}
	sel := NewSelection([][]string{{"a.jpg", "b.jpg", "c.jpg"}})

	kept := sel.Confirm(all)
	want := []string{"c.jpg", "unique.jpg"}
	if !reflect.DeepEqual(asset.Names(kept), want) {
		t.Errorf("expected kept %v, got %v", want, asset.Names(kept))
	}
}

func TestConfirmAfterToggles(t *testing.T) {
	all := []asset.Asset{{Name: "a.jpg"}, {Name: "b.jpg"}}
	sel := NewSelection([][]string{{"a.jpg", "b.jpg"}})

	// Flip the defaults: remove b, keep a.
	if err := sel.Toggle(0, 0); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if err := sel.Toggle(0, 1); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}

	kept := sel.Confirm(all)
	if !reflect.DeepEqual(asset.Names(kept), []string{"a.jpg"}) {
		t.Errorf("expected [a.jpg], got %v", asset.Names(kept))
	}
}

func TestEmptyGroups(t *testing.T) {
	sel := NewSelection(nil)
	all := []asset.Asset{{Name: "a.jpg"}}
	kept := sel.Confirm(all)
	if len(kept) != 1 {
		t.Errorf("no groups means everything is kept, got %v", asset.Names(kept))
	}
}
