package share

import (
	"errors"
	"testing"
)

func TestParseRange(t *testing.T) {
	const size = 1000

	tests := []struct {
		name   string
		header string
		want   *Range
	}{
		{"open end", "bytes=0-", &Range{0, 999}},
		{"interior", "bytes=100-199", &Range{100, 199}},
		{"end clamped to eof", "bytes=995-2000", &Range{995, 999}},
		{"empty start", "bytes=-500", &Range{0, 500}},
		{"single byte", "bytes=0-0", &Range{0, 0}},
		{"last byte", "bytes=999-999", &Range{999, 999}},
		{"first of multiple specifiers", "bytes=0-99,200-299", &Range{0, 99}},
		{"whitespace", "bytes= 100 - 199", &Range{100, 199}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRange(tt.header, size)
			if err != nil {
				t.Fatalf("ParseRange(%q): %v", tt.header, err)
			}
			if got == nil || *got != *tt.want {
				t.Fatalf("ParseRange(%q) = %v, want %v", tt.header, got, tt.want)
			}
		})
	}
}

func TestParseRangeAbsent(t *testing.T) {
	rng, err := ParseRange("", 1000)
	if err != nil {
		t.Fatalf("ParseRange(\"\"): %v", err)
	}
	if rng != nil {
		t.Fatalf("expected nil range for absent header, got %v", rng)
	}
}

func TestParseRangeInvalid(t *testing.T) {
	headers := []string{
		"items=0-10",  // wrong unit
		"0-10",        // no unit
		"bytes=100",   // no dash
		"bytes=abc-",  // non-numeric start
		"bytes=0-xyz", // non-numeric end
		"bytes=1-2-3", // garbage after dash
	}

	for _, h := range headers {
		if _, err := ParseRange(h, 1000); !errors.Is(err, ErrInvalidRange) {
			t.Errorf("ParseRange(%q): got %v, want ErrInvalidRange", h, err)
		}
	}
}

func TestParseRangeNotSatisfiable(t *testing.T) {
	headers := []string{
		"bytes=1000-",     // start == size
		"bytes=1500-2000", // start past eof
		"bytes=500-100",   // inverted
	}

	for _, h := range headers {
		if _, err := ParseRange(h, 1000); !errors.Is(err, ErrRangeNotSatisfiable) {
			t.Errorf("ParseRange(%q): got %v, want ErrRangeNotSatisfiable", h, err)
		}
	}
}

func TestParseRangeEmptyFile(t *testing.T) {
	// No byte of an empty file is addressable.
	if _, err := ParseRange("bytes=0-", 0); !errors.Is(err, ErrRangeNotSatisfiable) {
		t.Fatalf("got %v, want ErrRangeNotSatisfiable", err)
	}
}

func TestRangeLength(t *testing.T) {
	tests := []struct {
		rng  Range
		want int64
	}{
		{Range{0, 0}, 1},
		{Range{0, 999}, 1000},
		{Range{100, 199}, 100},
	}

	for _, tt := range tests {
		if got := tt.rng.Length(); got != tt.want {
			t.Errorf("Range%v.Length() = %d, want %d", tt.rng, got, tt.want)
		}
	}
}
