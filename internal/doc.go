// Package internal contains helper utilities that are intentionally private
// to payauth, including secure random account-number generation.
//
// # Sub-packages
//
//   - audit — async event dispatch (Dispatcher + Sink implementations)
//   - dbx — minimal database/sql abstractions shared by repositories
//   - logging — structured logging interface and slog adapter
//   - rate — Redis-backed brute-force limit primitives
//   - stores — UserStore backends (memory, Postgres)
//
// # What this package must NOT do
//
//   - Export types that appear in the public payauth API.
//   - Be imported by any package outside the payauth module.
package internal
