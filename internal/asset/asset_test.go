package asset

import (
	"reflect"
	"testing"
)

func TestIsImageName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"photo.jpg", true},
		{"photo.JPEG", true},
		{"scan.PNG", true},
		{"clip.heic", true},
		{"notes.txt", false},
		{"archive.zip", false},
		{"noextension", false},
	}
	for _, tt := range tests {
		if got := IsImageName(tt.name); got != tt.want {
			t.Errorf("IsImageName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestMimeTypeFromName(t *testing.T) {
	if got := MimeTypeFromName("a.jpg"); got != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %s", got)
	}
	if got := MimeTypeFromName("a.bin"); got != "application/octet-stream" {
		t.Errorf("expected application/octet-stream, got %s", got)
	}
}

func TestDedupeByName(t *testing.T) {
	assets := []Asset{
		{Name: "a.jpg", ID: "1"},
		{Name: "b.jpg", ID: "2"},
		{Name: "a.jpg", ID: "3"},
	}
	out := DedupeByName(assets)
	if len(out) != 2 {
		t.Fatalf("expected 2 assets, got %d", len(out))
	}
	if out[0].ID != "1" {
		t.Errorf("expected first occurrence to win, got ID %s", out[0].ID)
	}
	if !reflect.DeepEqual(Names(out), []string{"a.jpg", "b.jpg"}) {
		t.Errorf("unexpected names %v", Names(out))
	}
}

func TestFilterImages(t *testing.T) {
	assets := []Asset{
		{Name: "a.jpg", MimeType: "image/jpeg"},
		{Name: "b.pdf", MimeType: "application/pdf"},
		{Name: "c.png"},      // no MIME type, judged by extension
		{Name: "d.doc"},      // no MIME type, not an image
		{Name: "weird.bin", MimeType: "image/x-custom"}, // MIME type wins
	}
	out := FilterImages(assets)
	want := []string{"a.jpg", "c.png", "weird.bin"}
	if !reflect.DeepEqual(Names(out), want) {
		t.Errorf("expected %v, got %v", want, Names(out))
	}
}
