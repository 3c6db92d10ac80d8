package share

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// newTestStore creates a store over a temp directory populated with the
// given files.
func newTestStore(t *testing.T, files map[string][]byte, options ...Option) *Store {
	t.Helper()

	dir := t.TempDir()
	for name, data := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	store, err := Open(dir, options...)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, map[string][]byte{
		"report.pdf": make([]byte, 1234),
	})

	entry, err := store.Resolve(ctx, "report.pdf")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if entry.Name != "report.pdf" {
		t.Errorf("Name = %q, want %q", entry.Name, "report.pdf")
	}
	if entry.Size != 1234 {
		t.Errorf("Size = %d, want 1234", entry.Size)
	}
	if entry.MIMEType != "application/pdf" {
		t.Errorf("MIMEType = %q, want application/pdf", entry.MIMEType)
	}
	if entry.ModifiedAt.IsZero() {
		t.Error("ModifiedAt is zero")
	}
}

func TestResolveLeadingSlash(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, map[string][]byte{"a.txt": []byte("hello")})

	entry, err := store.Resolve(ctx, "/a.txt")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if entry.Size != 5 {
		t.Errorf("Size = %d, want 5", entry.Size)
	}
}

func TestResolveMIMEFallback(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, map[string][]byte{"blob.xyz123": []byte("x")})

	entry, err := store.Resolve(ctx, "blob.xyz123")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if entry.MIMEType != "application/octet-stream" {
		t.Errorf("MIMEType = %q, want application/octet-stream", entry.MIMEType)
	}
}

func TestResolveNotFound(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, map[string][]byte{"a.txt": []byte("x")})

	if _, err := store.Resolve(ctx, "missing.txt"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing file: got %v, want ErrNotFound", err)
	}
	if _, err := store.Resolve(ctx, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("empty path: got %v, want ErrNotFound", err)
	}
}

func TestResolveTraversalDenied(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, map[string][]byte{"a.txt": []byte("x")})

	for _, name := range []string{
		"../a.txt",
		"../../etc/passwd",
		"sub/../../a.txt",
	} {
		if _, err := store.Resolve(ctx, name); !errors.Is(err, ErrAccessDenied) {
			t.Errorf("Resolve(%q): got %v, want ErrAccessDenied", name, err)
		}
	}
}

func TestResolveDeniedBeforeNotFound(t *testing.T) {
	// A traversal path that also points at a missing file must still be
	// denied, not reported missing.
	ctx := context.Background()
	store := newTestStore(t, nil)

	if _, err := store.Resolve(ctx, "../no-such-file"); !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("got %v, want ErrAccessDenied", err)
	}
}

func TestResolveNestedFile(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, map[string][]byte{"docs/readme.txt": []byte("nested")})

	entry, err := store.Resolve(ctx, "docs/readme.txt")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if entry.Name != "docs/readme.txt" {
		t.Errorf("Name = %q, want docs/readme.txt", entry.Name)
	}
}

func TestList(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, map[string][]byte{
		"b.txt":        []byte("bb"),
		"a.txt":        []byte("a"),
		"sub/c.txt":    []byte("ccc"),
		"z-last.tar":   make([]byte, 100),
		"middle.photo": []byte("m"),
	})

	entries, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	// Top-level files only, sorted by name.
	want := []string{"a.txt", "b.txt", "middle.photo", "z-last.tar"}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d: %v", len(entries), len(want), entries)
	}
	for i, name := range want {
		if entries[i].Name != name {
			t.Errorf("entries[%d].Name = %q, want %q", i, entries[i].Name, name)
		}
	}
	if entries[0].Size != 1 {
		t.Errorf("a.txt size = %d, want 1", entries[0].Size)
	}
}

func TestListEmpty(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, nil)

	entries, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("got %d entries, want 0", len(entries))
	}
}

func TestOpenMissingRoot(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestOpenRejectsBadOptions(t *testing.T) {
	dir := t.TempDir()

	if _, err := Open(dir, WithChunkSize(0)); err == nil {
		t.Error("expected error for zero chunk size")
	}
	if _, err := Open(dir, WithMaxConcurrent(-1)); err == nil {
		t.Error("expected error for negative concurrency")
	}
	if _, err := Open(dir, WithThrottleDelay(-1)); err == nil {
		t.Error("expected error for negative throttle delay")
	}
}
