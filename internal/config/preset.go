package config

import (
	"fmt"
	"time"

	"github.com/bibekchandsah/fling/internal/bytesize"
)

// PresetCustom leaves manually configured tuning values untouched.
const PresetCustom = "custom"

// Preset is a named set of tuning values. Collapsing the tuning knobs into
// presets keeps deployments from drifting apart one constant at a time.
type Preset struct {
	Name         string
	Description  string
	ChunkSize    int64
	SocketBuffer int64
	// MaxConcurrent bounds simultaneous transfers; 0 means unlimited.
	MaxConcurrent int
	// ThrottleDelay paces chunk emission; 0 means full speed.
	ThrottleDelay time.Duration
	CacheTTL      time.Duration
}

// Presets lists the named presets in descending order of aggressiveness.
var Presets = []Preset{
	{
		Name:         "maximum",
		Description:  "Maximum throughput for fast local networks",
		ChunkSize:    8 * bytesize.MB,
		SocketBuffer: 4 * bytesize.MB,
		CacheTTL:     time.Hour,
	},
	{
		Name:         "balanced",
		Description:  "Good throughput with moderate memory per transfer",
		ChunkSize:    4 * bytesize.MB,
		SocketBuffer: 2 * bytesize.MB,
		CacheTTL:     time.Hour,
	},
	{
		Name:         "conservative",
		Description:  "Small chunks for slow or lossy links",
		ChunkSize:    1 * bytesize.MB,
		SocketBuffer: 1 * bytesize.MB,
		CacheTTL:     time.Hour,
	},
	{
		Name:          "tunnel",
		Description:   "Tuned for rate-limited tunnels (small chunks, capped concurrency, paced emission)",
		ChunkSize:     512 * bytesize.KB,
		SocketBuffer:  1 * bytesize.MB,
		MaxConcurrent: 3,
		ThrottleDelay: time.Millisecond,
		CacheTTL:      24 * time.Hour,
	},
}

// PresetByName returns the preset with the given name.
func PresetByName(name string) (Preset, bool) {
	for _, p := range Presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

// ApplyPreset overwrites the tuning fields from the configured preset. The
// custom preset is a no-op. Unknown presets are an error.
func (c *Config) ApplyPreset() error {
	if c.Preset == PresetCustom {
		return nil
	}
	p, ok := PresetByName(c.Preset)
	if !ok {
		return fmt.Errorf("config: unknown preset: %s", c.Preset)
	}
	c.ChunkSize = p.ChunkSize
	c.SocketBuffer = p.SocketBuffer
	c.MaxConcurrent = p.MaxConcurrent
	c.ThrottleDelay = p.ThrottleDelay
	c.CacheTTL = p.CacheTTL
	return nil
}
