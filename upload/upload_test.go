package upload

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	return path
}

func TestUpload(t *testing.T) {
	var gotField, gotFilename, gotContent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/upload" || r.Method != http.MethodPost {
			t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("Failed to parse form: %v", err)
			return
		}
		for field, headers := range r.MultipartForm.File {
			gotField = field
			gotFilename = headers[0].Filename
			f, _ := headers[0].Open()
			raw, _ := io.ReadAll(f)
			f.Close()
			gotContent = string(raw)
		}
		w.Write([]byte(`{"ok":true,"files":[{"filename":"notes.txt","url":"/files/abc123_notes.txt"}]}`))
	}))
	defer srv.Close()

	path := writeTempFile(t, "notes.txt", "hello world")
	var lastFrac float64
	results, err := New(srv.URL).Upload(path, func(frac float64) { lastFrac = frac })
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	if gotField != "file" {
		t.Errorf("Expected multipart field %q, got %q", "file", gotField)
	}
	if gotFilename != "notes.txt" || gotContent != "hello world" {
		t.Errorf("Unexpected upload: %q %q", gotFilename, gotContent)
	}
	if len(results) != 1 || results[0].Filename != "notes.txt" {
		t.Fatalf("Unexpected results: %+v", results)
	}
	if results[0].URL != srv.URL+"/files/abc123_notes.txt" {
		t.Errorf("Expected absolute URL, got %q", results[0].URL)
	}
	if lastFrac != 1.0 {
		t.Errorf("Expected progress to reach 1.0, got %v", lastFrac)
	}
}

func TestUploadAbsoluteURLKept(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true,"files":[{"filename":"a.png","url":"https://cdn.example.com/a.png"}]}`))
	}))
	defer srv.Close()

	path := writeTempFile(t, "a.png", "png bytes")
	results, err := New(srv.URL).Upload(path, nil)
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if results[0].URL != "https://cdn.example.com/a.png" {
		t.Errorf("Absolute URLs must not be rewritten, got %q", results[0].URL)
	}
}

func TestUploadRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":false,"files":[]}`))
	}))
	defer srv.Close()

	path := writeTempFile(t, "x.txt", "x")
	if _, err := New(srv.URL).Upload(path, nil); !errors.Is(err, ErrRejected) {
		t.Errorf("Expected ErrRejected, got %v", err)
	}
}

func TestUploadServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	path := writeTempFile(t, "x.txt", "x")
	if _, err := New(srv.URL).Upload(path, nil); err == nil {
		t.Error("Expected an error on HTTP 500")
	}
}

func TestUploadMissingFile(t *testing.T) {
	if _, err := New("http://localhost:1").Upload("/no/such/file", nil); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

func TestAnnouncement(t *testing.T) {
	got := Announcement(Result{Filename: "notes.txt", URL: "http://host/files/notes.txt"})
	if got != "📎 notes.txt: http://host/files/notes.txt" {
		t.Errorf("Unexpected announcement: %q", got)
	}
}
