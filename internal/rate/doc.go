// Package rate implements the brute-force limiter: Redis-backed failure
// counters keyed per client IP and per identity (username or account
// number).
//
// # Semantics
//
// Each key allows a number of free retries. Past that, every further failure
// enforces a cooldown that doubles per failure, from MinWait up to MaxWait,
// measured from the last failure. Counters expire after the configured
// lifetime and are deleted on successful authentication.
//
// Increments use Redis atomic hash operations, so concurrent failed attempts
// against the same key never undercount. The store may be a shared Redis for
// multi-instance deployments or an embedded one for a single process.
//
// # What this package must NOT do
//
//   - Inspect credentials; it sees opaque keys only.
//   - Distinguish existing from unknown identities.
//   - Import any other payauth package.
package rate
