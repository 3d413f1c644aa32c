// Package stores provides the concrete [payauth.UserStore] backends: an
// in-memory map for single-instance and test deployments and a Postgres
// repository for persistent ones.
//
// Both backends enforce username and account-number uniqueness atomically at
// the storage layer (the memory store under its write lock, Postgres via
// unique constraints) and report [payauth.ErrConflict] on violation so the
// caller can retry account-number generation with a new candidate.
//
// # What this package must NOT do
//
//   - See plaintext passwords; Create receives finished hashes.
//   - Make authentication decisions; it is lookup and insert only.
package stores
