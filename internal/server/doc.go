// Package server provides the HTTP transport for the share core.
//
// This package handles:
//   - Routing (listing page at /, downloads at /*)
//   - Response assembly for full (200) and partial (206) delivery
//   - Mapping core errors to HTTP statuses (404/403/400/416/503)
//   - Per-connection socket buffer tuning
//   - Request logging and graceful shutdown
//
// # Usage
//
//	store, _ := share.Open(cfg.ShareDir, ...)
//	srv := server.New(cfg, store, logger)
//	err := srv.Run(ctx)
//
// Run blocks until the context is cancelled, then drains in-flight
// transfers before returning. The handler is also available directly via
// Handler for tests.
//
// # Error bodies
//
// Error responses carry a short category description only; internal paths
// never leak beyond the filename the client already asked for.
package server
