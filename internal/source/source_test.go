package source

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestDownloadAllKeepsOrder(t *testing.T) {
	files := []PickedFile{
		{ID: "1", Name: "a.jpg"},
		{ID: "2", Name: "b.jpg"},
		{ID: "3", Name: "c.jpg"},
	}

	assets, err := downloadAll(context.Background(), ProviderLocal, files, func(_ context.Context, f PickedFile) ([]byte, error) {
		return []byte("data-" + f.ID), nil
	})
	if err != nil {
		t.Fatalf("download failed: %v", err)
	}

	if len(assets) != 3 {
		t.Fatalf("expected 3 assets, got %d", len(assets))
	}
	for i, want := range []string{"a.jpg", "b.jpg", "c.jpg"} {
		if assets[i].Name != want {
			t.Errorf("asset %d: expected %s, got %s", i, want, assets[i].Name)
		}
		if string(assets[i].Data) != "data-"+files[i].ID {
			t.Errorf("asset %d: unexpected data %q", i, assets[i].Data)
		}
	}
}

func TestDownloadAllAtomicFailure(t *testing.T) {
	files := []PickedFile{
		{ID: "1", Name: "a.jpg"},
		{ID: "2", Name: "b.jpg"},
		{ID: "3", Name: "c.jpg"},
	}

	assets, err := downloadAll(context.Background(), ProviderLocal, files, func(_ context.Context, f PickedFile) ([]byte, error) {
		if f.ID == "2" {
			return nil, fmt.Errorf("connection reset")
		}
		return []byte("ok"), nil
	})
	if err == nil {
		t.Fatal("expected the batch to fail")
	}
	if assets != nil {
		t.Errorf("a failed batch must not return partial assets, got %d", len(assets))
	}
}

func TestDownloadAllEmptySelection(t *testing.T) {
	_, err := downloadAll(context.Background(), ProviderLocal, nil, func(_ context.Context, _ PickedFile) ([]byte, error) {
		return nil, nil
	})
	if !errors.Is(err, ErrNoImages) {
		t.Errorf("expected ErrNoImages, got %v", err)
	}
}

func TestResolveSplitsQueryString(t *testing.T) {
	c, err := newAPIClient("http://example.test")
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	got := c.resolve("api/onedrive/download", "id?foo=bar")
	want := "http://example.test/api/onedrive/download/id?foo=bar"
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}

	got = c.resolve("api/auth/status")
	want = "http://example.test/api/auth/status"
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}
