package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestImportFile(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	src := filepath.Join(t.TempDir(), "out.mp4")
	if err := os.WriteFile(src, []byte("payload"), 0o644); err != nil {
		t.Fatalf("write src: %v", err)
	}

	key, size, err := store.ImportFile(context.Background(), "summaries/job-1.mp4", src)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if key != "summaries/job-1.mp4" {
		t.Fatalf("key = %q", key)
	}
	if size != int64(len("payload")) {
		t.Fatalf("size = %d", size)
	}
	abs, err := store.AbsolutePath(key)
	if err != nil {
		t.Fatalf("abs path: %v", err)
	}
	data, err := os.ReadFile(abs)
	if err != nil || string(data) != "payload" {
		t.Fatalf("stored content = %q, %v", data, err)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := store.Remove(context.Background(), "summaries/absent.mp4"); err != nil {
		t.Fatalf("removing a missing key should succeed: %v", err)
	}
}

func TestResolveSource(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if _, err := store.ResolveSource(context.Background(), "vid-1"); err == nil {
		t.Fatal("missing source should error")
	}

	if err := os.MkdirAll(filepath.Join(dir, "videos"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "videos", "vid-1.mp4"), []byte("v"), 0o644); err != nil {
		t.Fatal(err)
	}
	path, err := store.ResolveSource(context.Background(), "vid-1")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if filepath.Base(path) != "vid-1.mp4" {
		t.Fatalf("path = %q", path)
	}
}

func TestSanitizeKey(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"summaries/a.mp4", "summaries/a.mp4", false},
		{"/summaries/a.mp4", "summaries/a.mp4", false},
		{"./summaries/a.mp4", "summaries/a.mp4", false},
		{"summaries//a.mp4", "summaries/a.mp4", false},
		{"../escape.mp4", "", true},
		{"summaries/../../escape.mp4", "", true},
		{"", "", true},
		{"   ", "", true},
	}
	for _, tt := range tests {
		got, err := sanitizeKey(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("sanitizeKey(%q) should fail, got %q", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("sanitizeKey(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("sanitizeKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
