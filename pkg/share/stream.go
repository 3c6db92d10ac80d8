package share

import (
	"context"
	"fmt"
	"io"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"
	"golang.org/x/time/rate"
)

// Stream is a finite, ordered, consume-once sequence of byte chunks over a
// file or a byte range of it. It holds an open storage reader positioned at
// the interval start; memory use is bounded by one chunk. A Stream belongs
// to the single request that opened it and must be closed on every exit
// path.
type Stream struct {
	entry     *Entry
	r         *blob.Reader
	remaining int64
	buf       []byte
	limiter   *rate.Limiter
	token     *Token
	closed    bool
	err       error
}

// Stream opens a chunk stream over entry. A nil rng covers the whole file.
// When the store has a concurrency bound and the pool is saturated, Stream
// fails with ErrBusy before any file handle is opened. The caller must
// Close the returned stream.
func (s *Store) Stream(ctx context.Context, entry *Entry, rng *Range) (*Stream, error) {
	token, ok := s.gate.TryAcquire()
	if !ok {
		return nil, ErrBusy
	}

	offset := int64(0)
	length := int64(-1)
	remaining := entry.Size
	if rng != nil {
		offset = rng.Start
		length = rng.Length()
		remaining = length
	}

	r, err := s.bucket.NewRangeReader(ctx, entry.Name, offset, length, nil)
	if err != nil {
		token.Release()
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("share: open %s: %w", entry.Name, err)
	}

	var limiter *rate.Limiter
	if s.opts.ThrottleDelay > 0 {
		limiter = rate.NewLimiter(rate.Every(s.opts.ThrottleDelay), 1)
	}

	return &Stream{
		entry:     entry,
		r:         r,
		remaining: remaining,
		buf:       make([]byte, s.opts.ChunkSize),
		limiter:   limiter,
		token:     token,
	}, nil
}

// Next returns the next chunk, or io.EOF when the interval is exhausted.
// The returned slice is reused and only valid until the following call.
// Chunks are emitted in strictly increasing offset order with no gaps or
// overlaps. If the file shrank mid-stream the sequence ends early and
// silently. A deferred read error is surfaced on the call after the chunk
// it interrupted.
func (st *Stream) Next(ctx context.Context) ([]byte, error) {
	if st.closed {
		return nil, io.ErrClosedPipe
	}
	if st.err != nil {
		return nil, st.err
	}
	if st.remaining <= 0 {
		return nil, io.EOF
	}

	if st.limiter != nil {
		if err := st.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}

	want := int64(len(st.buf))
	if st.remaining < want {
		want = st.remaining
	}

	n, err := io.ReadFull(st.r, st.buf[:want])
	if n > 0 {
		st.remaining -= int64(n)
		switch err {
		case nil:
		case io.ErrUnexpectedEOF:
			// True EOF before the interval was exhausted: the file
			// shrank concurrently. End the stream, not an error.
			st.remaining = 0
		default:
			st.err = fmt.Errorf("share: read %s: %w", st.entry.Name, err)
		}
		return st.buf[:n], nil
	}

	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return nil, io.EOF
	}
	return nil, fmt.Errorf("share: read %s: %w", st.entry.Name, err)
}

// Close releases the storage reader and any concurrency slot. Exactly once
// on every exit path; safe to call repeatedly.
func (st *Stream) Close() error {
	if st.closed {
		return nil
	}
	st.closed = true

	err := st.r.Close()
	st.token.Release()
	return err
}
