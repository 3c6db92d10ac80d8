// Package config defines configuration for the fling server.
//
// Configuration can be provided via:
//   - Command-line flags
//   - Environment variables (FLING_ prefix)
//   - YAML configuration file
//
// Later sources override earlier ones: defaults < file < env < flags.
// The resulting Config value is validated once at startup and treated as
// immutable afterwards; components receive it at construction instead of
// reading ambient global state.
//
// # Presets
//
// A named speed preset resolves to a set of tuning values (chunk size,
// socket buffer, concurrency cap, throttle delay, cache TTL). The "custom"
// preset leaves manual values untouched.
//
//	preset: tunnel       # 512KB chunks, 3 concurrent, 1ms throttle
//
// # Structure
//
//	share_dir: /srv/files
//	host: 0.0.0.0
//	port: 8000
//	preset: balanced
//	chunk_size: 4MB
//	socket_buffer: 2MB
//	max_file_size: 16GB
//	enable_ranges: true
//	enable_cache: true
//	cache_ttl: 1h
//	max_concurrent: 0
//	throttle_delay: 0s
//	conn_timeout: 120s
//	log_level: info
package config
