// Package bytesize provides human-readable byte size formatting and parsing,
// plus process-lifetime transfer counters.
//
// # Formatting
//
//	bytesize.Format(8 * 1024 * 1024)  // "8.00 MB"
//	bytesize.Parse("512KB")           // 524288, nil
//
// Parsing accepts B/KB/MB/GB/TB suffixes (powers of 1024) and bare numbers.
//
// # Counters
//
// Counter accumulates completed transfers and served bytes across all
// requests. It is safe for concurrent use and feeds the listing page stats.
package bytesize
