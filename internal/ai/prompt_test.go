package ai

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

func TestBuildUserMessage(t *testing.T) {
	msg := buildUserMessage("holiday.jpg")
	if !strings.Contains(msg, "holiday.jpg") {
		t.Errorf("message should carry the original filename: %q", msg)
	}
	if !strings.Contains(msg, ".jpg") {
		t.Errorf("message should mention the extension: %q", msg)
	}

	msg = buildUserMessage("noextension")
	if strings.Contains(msg, "extension") {
		t.Errorf("no extension hint expected: %q", msg)
	}
}

func TestValidateAnalysis(t *testing.T) {
	valid := &Analysis{Name: "a.jpg", Tags: []string{"x"}, Description: "d"}
	if err := validateAnalysis(valid); err != nil {
		t.Errorf("valid analysis rejected: %v", err)
	}

	tests := []struct {
		name string
		a    *Analysis
	}{
		{"missing name", &Analysis{Tags: []string{"x"}, Description: "d"}},
		{"missing tags", &Analysis{Name: "a.jpg", Description: "d"}},
		{"missing description", &Analysis{Name: "a.jpg", Tags: []string{"x"}}},
	}
	for _, tt := range tests {
		if err := validateAnalysis(tt.a); err == nil {
			t.Errorf("%s: expected an error", tt.name)
		}
	}
}

func TestResizeImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 400, 200))
	for x := 0; x < 400; x++ {
		for y := 0; y < 200; y++ {
			img.Set(x, y, color.RGBA{uint8(x % 256), 100, 100, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode: %v", err)
	}

	resized, err := ResizeImage(buf.Bytes(), 100)
	if err != nil {
		t.Fatalf("resize failed: %v", err)
	}

	decoded, _, err := image.Decode(bytes.NewReader(resized))
	if err != nil {
		t.Fatalf("failed to decode resized image: %v", err)
	}
	bounds := decoded.Bounds()
	if bounds.Dx() != 100 || bounds.Dy() != 50 {
		t.Errorf("expected 100x50, got %dx%d", bounds.Dx(), bounds.Dy())
	}

	if _, err := ResizeImage([]byte("garbage"), 100); err == nil {
		t.Error("expected an error for undecodable data")
	}
}
