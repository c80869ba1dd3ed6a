package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"phototagger/internal/session"
)

func testStore(t *testing.T) *session.Store {
	t.Helper()
	s, err := session.Open(filepath.Join(t.TempDir(), "session.json"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	return s
}

// driveBackend fakes the auth and drive endpoints of the backend API.
func driveBackend(t *testing.T, authenticated bool) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/status", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"authenticated":%v}`, authenticated)
	})
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"authorization_url":"https://accounts.example/login"}`)
	})
	mux.HandleFunc("/api/auth/picker-token", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"access_token":"tok-123"}`)
	})
	mux.HandleFunc("/api/auth/api-key", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"api_key":"key-456"}`)
	})
	mux.HandleFunc("/api/drive/folder-images/folder1", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"files":[
			{"id":"f1","name":"in1.jpg","mimeType":"image/jpeg"},
			{"id":"f2","name":"in2.jpg","mimeType":"image/jpeg"}
		]}`)
	})
	mux.HandleFunc("/api/drive/download/", func(w http.ResponseWriter, r *http.Request) {
		id := filepath.Base(r.URL.Path)
		fmt.Fprintf(w, "bytes-%s", id)
	})
	return httptest.NewServer(mux)
}

func TestGoogleDriveAuthFlow(t *testing.T) {
	srv := driveBackend(t, false)
	defer srv.Close()

	store := testStore(t)
	g, err := NewGoogleDrive(srv.URL, store, nil)
	if err != nil {
		t.Fatalf("failed to create adapter: %v", err)
	}

	ok, err := g.CheckAuthenticated(context.Background())
	if err != nil {
		t.Fatalf("auth check failed: %v", err)
	}
	if ok {
		t.Error("expected unauthenticated")
	}

	url, err := g.BeginLogin(context.Background())
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if url != "https://accounts.example/login" {
		t.Errorf("unexpected login URL %s", url)
	}

	// The pending flag must be durable before the browser takes over.
	if !store.GetBool(session.PendingKey(string(ProviderGoogleDrive))) {
		t.Error("pending flag should be set after BeginLogin")
	}
}

func TestGoogleDriveTokenAndKey(t *testing.T) {
	srv := driveBackend(t, true)
	defer srv.Close()

	g, err := NewGoogleDrive(srv.URL, testStore(t), nil)
	if err != nil {
		t.Fatalf("failed to create adapter: %v", err)
	}

	token, err := g.GetAccessToken(context.Background())
	if err != nil {
		t.Fatalf("token fetch failed: %v", err)
	}
	if token != "tok-123" {
		t.Errorf("unexpected token %s", token)
	}

	key, err := g.DeveloperKey(context.Background())
	if err != nil {
		t.Fatalf("key fetch failed: %v", err)
	}
	if key != "key-456" {
		t.Errorf("unexpected key %s", key)
	}
}

func TestGoogleDriveExpandFolders(t *testing.T) {
	srv := driveBackend(t, true)
	defer srv.Close()

	g, err := NewGoogleDrive(srv.URL, testStore(t), nil)
	if err != nil {
		t.Fatalf("failed to create adapter: %v", err)
	}

	selection := []PickedFile{
		{ID: "folder1", Name: "My Folder", Folder: true},
		{ID: "img1", Name: "direct.jpg", MimeType: "image/jpeg"},
		{ID: "doc1", Name: "notes.txt", MimeType: "text/plain"},
	}
	files, err := g.ExpandFolders(context.Background(), selection)
	if err != nil {
		t.Fatalf("expand failed: %v", err)
	}

	want := []string{"in1.jpg", "in2.jpg", "direct.jpg"}
	if len(files) != len(want) {
		t.Fatalf("expected %d files, got %d: %v", len(want), len(files), files)
	}
	for i, name := range want {
		if files[i].Name != name {
			t.Errorf("file %d: expected %s, got %s", i, name, files[i].Name)
		}
	}
}

func TestGoogleDriveDownloadAll(t *testing.T) {
	srv := driveBackend(t, true)
	defer srv.Close()

	g, err := NewGoogleDrive(srv.URL, testStore(t), nil)
	if err != nil {
		t.Fatalf("failed to create adapter: %v", err)
	}

	assets, err := g.DownloadAll(context.Background(), []PickedFile{
		{ID: "f1", Name: "in1.jpg", MimeType: "image/jpeg"},
		{ID: "f2", Name: "in2.jpg", MimeType: "image/jpeg"},
	})
	if err != nil {
		t.Fatalf("download failed: %v", err)
	}
	if len(assets) != 2 {
		t.Fatalf("expected 2 assets, got %d", len(assets))
	}
	if string(assets[0].Data) != "bytes-f1" || string(assets[1].Data) != "bytes-f2" {
		t.Errorf("unexpected data %q %q", assets[0].Data, assets[1].Data)
	}
}

func TestGoogleDrivePickerUnavailable(t *testing.T) {
	g, err := NewGoogleDrive("http://unused", testStore(t), nil)
	if err != nil {
		t.Fatalf("failed to create adapter: %v", err)
	}
	if _, err := g.OpenPicker(context.Background(), "tok"); err != ErrPickerUnavailable {
		t.Errorf("expected ErrPickerUnavailable, got %v", err)
	}
}
