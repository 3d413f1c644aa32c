// Package payauth implements the authentication and authorization core of the
// SwiftGate international-payments portal: credential verification against an
// injectable user store, signed time-bound session tokens, role-gated access
// control, and Redis-backed brute-force throttling.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// payauth is the public surface. It exposes [Engine], [Builder], [Config], and
// value types (UserRecord, Claims, LoginResult, etc.). Internal coordination
// (brute-force counters, store implementations, audit dispatch) lives under
// internal/ and is never exported.
//
// # What this package must NOT do
//
//   - Expose Redis clients, store handles, or hash encodings in its public API.
//   - Perform I/O outside of Engine methods (construction via Builder is
//     allocation-only until Build).
//   - Return internal error detail to HTTP clients; handlers map sentinel
//     errors to fixed messages.
package payauth
