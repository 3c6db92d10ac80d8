// Package share provides range-aware streaming access to the files of a
// single shared directory.
//
// A [Store] wraps a directory (the share root) and exposes three operations:
// resolving a request path to file metadata, listing the directory, and
// opening a bounded chunk stream over a file or a byte range of it. Storage
// access goes through gocloud.dev/blob with the fileblob driver; metadata
// is read fresh from disk on every request and never cached.
//
// # Resolving
//
//	store, err := share.Open("/srv/files")
//	entry, err := store.Resolve(ctx, "photos/trip.zip")
//	// entry.Size, entry.MIMEType, entry.ModifiedAt
//
// Resolve confines every path to the share root: a path whose normalized
// join escapes the root fails with [ErrAccessDenied] before existence is
// even checked.
//
// # Ranges
//
// [ParseRange] turns an HTTP Range header into an inclusive [Range]:
//
//	rng, err := share.ParseRange("bytes=100-199", entry.Size)
//
// A nil Range means the whole file. An end past EOF is clamped, not
// rejected; only an empty or inverted interval fails with
// [ErrRangeNotSatisfiable]. Of a multi-range header only the first
// specifier is honored.
//
// # Streaming
//
// [Store.Stream] returns a pull-based sequence of chunks:
//
//	stream, err := store.Stream(ctx, entry, rng)
//	defer stream.Close()
//	for {
//	    chunk, err := stream.Next(ctx)
//	    if err == io.EOF {
//	        break
//	    }
//	    // send chunk
//	}
//
// Memory use is bounded by one chunk regardless of file size. The returned
// slice is only valid until the next call to Next. Close is safe on every
// exit path and releases the file handle and any concurrency slot exactly
// once.
//
// # Admission control
//
// With [WithMaxConcurrent], Stream fails fast with [ErrBusy] when the
// configured number of transfers is already in flight; a slot is freed when
// a stream closes. [WithThrottleDelay] paces chunk emission for transports
// that penalize bursts.
package share
