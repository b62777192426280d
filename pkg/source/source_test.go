package source

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

func TestReadLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "part.stl")
	if err := os.WriteFile(path, []byte("solid part"), 0o644); err != nil {
		t.Fatal(err)
	}

	data, err := NewLoader(zaptest.NewLogger(t)).Read(context.Background(), path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(data) != "solid part" {
		t.Errorf("unexpected content %q", data)
	}
}

func TestReadMissingFile(t *testing.T) {
	_, err := NewLoader(nil).Read(context.Background(), filepath.Join(t.TempDir(), "missing.stl"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestReadRemote(t *testing.T) {
	payload := []byte("solid remote\nendsolid remote\n")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/model.stl" {
			http.NotFound(w, r)
			return
		}
		w.Write(payload)
	}))
	defer server.Close()

	loader := NewLoader(zaptest.NewLogger(t))
	loader.Client = server.Client()

	data, err := loader.Read(context.Background(), server.URL+"/model.stl")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Errorf("unexpected content %q", data)
	}

	if _, err := loader.Read(context.Background(), server.URL+"/other.stl"); err == nil {
		t.Error("expected error for 404")
	}
}

func TestReadRemoteTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	loader := NewLoader(zaptest.NewLogger(t))
	loader.Client = server.Client()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := loader.Read(ctx, server.URL+"/slow.stl")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestIsRemote(t *testing.T) {
	cases := map[string]bool{
		"https://example.com/a.stl": true,
		"HTTP://example.com/a.stl":  true,
		"/tmp/a.stl":                false,
		"a.stl":                     false,
		"ftp://example.com/a.stl":   false,
	}
	for location, expected := range cases {
		if got := IsRemote(location); got != expected {
			t.Errorf("IsRemote(%q): expected %v, got %v", location, expected, got)
		}
	}
}

func TestWatchList(t *testing.T) {
	dir := t.TempDir()
	scad := filepath.Join(dir, "main.scad")
	lib := filepath.Join(dir, "lib.scad")
	if err := os.WriteFile(scad, []byte("use <lib.scad>\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(lib, []byte("module m() {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	loader := NewLoader(nil)

	files, err := loader.WatchList(scad)
	if err != nil {
		t.Fatalf("WatchList failed: %v", err)
	}
	if len(files) != 2 || files[0] != scad || files[1] != lib {
		t.Errorf("expected [%s %s], got %v", scad, lib, files)
	}

	files, _ = loader.WatchList("part.stl")
	if len(files) != 1 || files[0] != "part.stl" {
		t.Errorf("expected [part.stl], got %v", files)
	}

	files, _ = loader.WatchList("https://example.com/part.stl")
	if len(files) != 0 {
		t.Errorf("expected no files for a URL, got %v", files)
	}
}
