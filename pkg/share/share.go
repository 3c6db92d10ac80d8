package share

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	"gocloud.dev/gcerrors"
)

// Errors returned by Store operations. The transport layer maps these to
// HTTP statuses.
var (
	// ErrNotFound means the path does not exist or is not a regular file.
	ErrNotFound = errors.New("share: file not found")

	// ErrAccessDenied means the resolved path escapes the share root.
	ErrAccessDenied = errors.New("share: access denied")

	// ErrBusy means the concurrent transfer limit is reached.
	ErrBusy = errors.New("share: too many concurrent transfers")
)

// Entry describes a regular file under the share root. Entries are derived
// fresh from the filesystem on every request and never cached.
type Entry struct {
	// Name is the file's path relative to the share root, slash-separated.
	Name string

	// Size is the file size in bytes.
	Size int64

	// MIMEType is derived from the file extension, with
	// application/octet-stream as the fallback.
	MIMEType string

	// ModifiedAt is the file's last modification time.
	ModifiedAt time.Time
}

// Options configures a Store.
type Options struct {
	ChunkSize     int64
	MaxConcurrent int
	ThrottleDelay time.Duration
}

// Option is a functional option for configuring a Store.
type Option func(*Options)

// WithChunkSize sets the size of each streamed chunk.
// Default is 4MB.
func WithChunkSize(size int64) Option {
	return func(o *Options) {
		o.ChunkSize = size
	}
}

// WithMaxConcurrent bounds the number of simultaneous streams. Additional
// Stream calls fail with ErrBusy. Zero (the default) disables the bound.
func WithMaxConcurrent(n int) Option {
	return func(o *Options) {
		o.MaxConcurrent = n
	}
}

// WithThrottleDelay inserts a fixed delay between chunk emissions. This is
// a scheduling knob only; it never alters byte content. Zero disables it.
func WithThrottleDelay(d time.Duration) Option {
	return func(o *Options) {
		o.ThrottleDelay = d
	}
}

// Store provides read-only, range-aware access to the files of one
// directory. Safe for concurrent use; its configuration is immutable after
// Open.
type Store struct {
	root   string
	bucket *blob.Bucket
	opts   Options
	gate   *Gate
}

// Open opens a Store over the given directory. The directory must exist.
func Open(root string, options ...Option) (*Store, error) {
	opts := Options{
		ChunkSize: 4 * 1024 * 1024,
	}
	for _, opt := range options {
		opt(&opts)
	}

	if opts.ChunkSize <= 0 {
		return nil, errors.New("share: chunk size must be positive")
	}
	if opts.MaxConcurrent < 0 {
		return nil, errors.New("share: max concurrent must not be negative")
	}
	if opts.ThrottleDelay < 0 {
		return nil, errors.New("share: throttle delay must not be negative")
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("share: resolve root: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("share: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("share: root %s is not a directory", abs)
	}

	bucket, err := fileblob.OpenBucket(abs, nil)
	if err != nil {
		return nil, fmt.Errorf("share: open root: %w", err)
	}

	s := &Store{
		root:   abs,
		bucket: bucket,
		opts:   opts,
	}
	if opts.MaxConcurrent > 0 {
		s.gate = NewGate(opts.MaxConcurrent)
	}
	return s, nil
}

// Root returns the absolute share root path.
func (s *Store) Root() string {
	return s.root
}

// Gate returns the store's concurrency gate, or nil when unlimited.
func (s *Store) Gate() *Gate {
	return s.gate
}

// Close releases the store's storage handle. Streams opened earlier must be
// closed independently.
func (s *Store) Close() error {
	return s.bucket.Close()
}

// Resolve maps a request path to an Entry. The path is normalized and
// joined under the share root; a result outside the root fails with
// ErrAccessDenied before existence is checked, so traversal probes for
// missing files still get a denial. Missing paths and non-regular files
// fail with ErrNotFound.
func (s *Store) Resolve(ctx context.Context, name string) (*Entry, error) {
	key, err := s.contain(name)
	if err != nil {
		return nil, err
	}

	attrs, err := s.bucket.Attributes(ctx, key)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("share: stat %s: %w", key, err)
	}

	return &Entry{
		Name:       key,
		Size:       attrs.Size,
		MIMEType:   mimeType(key),
		ModifiedAt: attrs.ModTime,
	}, nil
}

// List returns the regular files at the top level of the share root,
// sorted by name.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	iter := s.bucket.List(&blob.ListOptions{Delimiter: "/"})

	var entries []Entry
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("share: list: %w", err)
		}
		if obj.IsDir {
			continue
		}
		entries = append(entries, Entry{
			Name:       obj.Key,
			Size:       obj.Size,
			MIMEType:   mimeType(obj.Key),
			ModifiedAt: obj.ModTime,
		})
	}

	return entries, nil
}

// contain normalizes a request path and verifies it stays under the share
// root. This textual prefix check is the sole traversal defense.
func (s *Store) contain(name string) (string, error) {
	name = strings.TrimPrefix(name, "/")
	if name == "" {
		return "", ErrNotFound
	}

	resolved := filepath.Join(s.root, filepath.FromSlash(name))
	if resolved == s.root {
		// The root itself is a directory, not a downloadable file.
		return "", ErrNotFound
	}
	if !strings.HasPrefix(resolved, s.root+string(filepath.Separator)) {
		return "", ErrAccessDenied
	}

	rel, err := filepath.Rel(s.root, resolved)
	if err != nil {
		return "", ErrAccessDenied
	}
	return filepath.ToSlash(rel), nil
}

// mimeType guesses a content type from the file extension.
func mimeType(key string) string {
	if t := mime.TypeByExtension(path.Ext(key)); t != "" {
		return t
	}
	return "application/octet-stream"
}
