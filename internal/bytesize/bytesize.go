package bytesize

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

const (
	KB = 1024
	MB = KB * 1024
	GB = MB * 1024
	TB = GB * 1024
)

// Format formats a byte count as a human-readable string.
func Format(b int64) string {
	switch {
	case b >= TB:
		return fmt.Sprintf("%.2f TB", float64(b)/float64(TB))
	case b >= GB:
		return fmt.Sprintf("%.2f GB", float64(b)/float64(GB))
	case b >= MB:
		return fmt.Sprintf("%.2f MB", float64(b)/float64(MB))
	case b >= KB:
		return fmt.Sprintf("%.2f KB", float64(b)/float64(KB))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// Parse parses a human-readable byte string (e.g., "512KB", "8MB").
func Parse(s string) (int64, error) {
	var multiplier int64 = 1
	s = strings.TrimSpace(s)

	upper := strings.ToUpper(s)
	switch {
	case strings.HasSuffix(upper, "TB"):
		multiplier = TB
		s = s[:len(s)-2]
	case strings.HasSuffix(upper, "GB"):
		multiplier = GB
		s = s[:len(s)-2]
	case strings.HasSuffix(upper, "MB"):
		multiplier = MB
		s = s[:len(s)-2]
	case strings.HasSuffix(upper, "KB"):
		multiplier = KB
		s = s[:len(s)-2]
	case strings.HasSuffix(upper, "B"):
		s = s[:len(s)-1]
	}

	var value float64
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%f", &value); err != nil {
		return 0, fmt.Errorf("invalid byte string: %s", s)
	}
	if value < 0 {
		return 0, fmt.Errorf("negative byte string: %s", s)
	}

	return int64(value * float64(multiplier)), nil
}

// FormatDuration formats a duration as a human-readable string.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm %ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh %dm %ds", h, m, s)
}

// Counter tracks completed transfers and served bytes for the lifetime of
// the process. Safe for concurrent use.
type Counter struct {
	bytes     atomic.Int64
	transfers atomic.Int64
	active    atomic.Int32
}

// TransferStarted marks a transfer as in progress.
func (c *Counter) TransferStarted() {
	c.active.Add(1)
}

// TransferCompleted records a finished transfer of n bytes. Partial
// transfers (client disconnects) count the bytes actually sent.
func (c *Counter) TransferCompleted(n int64) {
	c.bytes.Add(n)
	c.transfers.Add(1)
	c.active.Add(-1)
}

// Bytes returns the total bytes served so far.
func (c *Counter) Bytes() int64 {
	return c.bytes.Load()
}

// Transfers returns the number of completed transfers.
func (c *Counter) Transfers() int64 {
	return c.transfers.Load()
}

// Active returns the number of transfers currently in progress.
func (c *Counter) Active() int {
	return int(c.active.Load())
}
