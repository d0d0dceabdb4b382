package assets

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadLocal(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "model.txt", "picocad;x;16;0;0")

	m := NewManager()
	data, err := m.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(data) != "picocad;x;16;0;0" {
		t.Errorf("data = %q", data)
	}

	if _, err := m.Load(context.Background(), path); err != nil {
		t.Fatal(err)
	}
	if hits, _ := m.Cache().Stats(); hits != 1 {
		t.Errorf("cache hits = %d, want 1", hits)
	}
}

func TestRootsPriority(t *testing.T) {
	low, high := t.TempDir(), t.TempDir()
	writeFile(t, low, "a.txt", "low")
	writeFile(t, high, "a.txt", "high")
	writeFile(t, low, "b.txt", "only low")

	m := NewManager()
	for _, dir := range []string{low, high} {
		if err := m.AddRoot(dir); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		ref  string
		want string
	}{
		{"a.txt", "high"},
		{"b.txt", "only low"},
	}
	for _, tt := range tests {
		data, err := m.Load(context.Background(), tt.ref)
		if err != nil {
			t.Fatalf("Load(%s): %v", tt.ref, err)
		}
		if string(data) != tt.want {
			t.Errorf("Load(%s) = %q, want %q", tt.ref, data, tt.want)
		}
	}
}

func TestAddRootRejectsFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "f", "x")
	if err := NewManager().AddRoot(path); err == nil {
		t.Error("expected error for file root")
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := NewManager().Load(context.Background(), filepath.Join(t.TempDir(), "nope.txt"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestLoadHTTP(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		switch r.URL.Path {
		case "/model.txt":
			w.Write([]byte("remote"))
		case "/broken":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	m := NewManager(WithHTTPClient(srv.Client()))
	ctx := context.Background()

	u, _ := url.Parse(srv.URL + "/model.txt")
	for i := 0; i < 2; i++ {
		data, err := m.LoadURL(ctx, u)
		if err != nil {
			t.Fatalf("LoadURL: %v", err)
		}
		if string(data) != "remote" {
			t.Errorf("data = %q", data)
		}
	}
	if n := requests.Load(); n != 1 {
		t.Errorf("requests = %d, want 1 (cached)", n)
	}

	if _, err := m.Load(ctx, srv.URL+"/missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing: err = %v, want ErrNotFound", err)
	}
	if _, err := m.Load(ctx, srv.URL+"/broken"); err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("broken: err = %v, want status error", err)
	}
}

func TestCacheClear(t *testing.T) {
	c := NewCache()
	c.Set("k", []byte("v"))
	if _, ok := c.Get("k"); !ok {
		t.Fatal("expected hit")
	}
	c.Get("other")
	if hits, misses := c.Stats(); hits != 1 || misses != 1 {
		t.Errorf("stats = %d/%d, want 1/1", hits, misses)
	}
	c.Clear()
	if _, ok := c.Get("k"); ok {
		t.Error("expected miss after clear")
	}
}
