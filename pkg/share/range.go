package share

import (
	"errors"
	"strconv"
	"strings"
)

// Range parsing errors.
var (
	// ErrInvalidRange means the Range header is syntactically malformed.
	ErrInvalidRange = errors.New("share: invalid range header")

	// ErrRangeNotSatisfiable means the header parsed but describes an
	// empty or inverted interval for the file's size.
	ErrRangeNotSatisfiable = errors.New("share: range not satisfiable")
)

// Range is an inclusive byte interval of a file: 0 <= Start <= End < size.
type Range struct {
	Start int64
	End   int64
}

// Length returns the number of bytes the range covers.
func (r Range) Length() int64 {
	return r.End - r.Start + 1
}

// ParseRange parses an HTTP Range header against a file size. A nil result
// with nil error means no range was requested (absent header) and the whole
// file should be served.
//
// Only the bytes= unit is recognized. Of a comma-separated list only the
// first specifier is honored; the rest are silently ignored. An empty start
// defaults to 0, an empty end to size-1, and an end past EOF is clamped to
// EOF before satisfiability is checked, so over-long "download to the end"
// requests succeed with a truncated interval.
func ParseRange(header string, size int64) (*Range, error) {
	if header == "" {
		return nil, nil
	}

	spec, ok := strings.CutPrefix(header, "bytes=")
	if !ok {
		return nil, ErrInvalidRange
	}

	// First specifier only; multi-range responses are not produced.
	spec, _, _ = strings.Cut(spec, ",")

	startStr, endStr, ok := strings.Cut(spec, "-")
	if !ok {
		return nil, ErrInvalidRange
	}

	start := int64(0)
	end := size - 1

	if s := strings.TrimSpace(startStr); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil || v < 0 {
			return nil, ErrInvalidRange
		}
		start = v
	}
	if s := strings.TrimSpace(endStr); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil || v < 0 {
			return nil, ErrInvalidRange
		}
		end = v
	}

	// Clamp before validating: an end far past EOF is truncated, not
	// rejected.
	if end > size-1 {
		end = size - 1
	}

	if start >= size || end < start {
		return nil, ErrRangeNotSatisfiable
	}

	return &Range{Start: start, End: end}, nil
}
