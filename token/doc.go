// Package token issues and verifies signed, time-bound session tokens.
//
// Tokens are JWTs signed with HMAC-SHA256 over a process-wide secret. Claims
// carry the identity reference, username, account number, and role alongside
// the registered iat/exp pair. Verification checks signature integrity
// against the exact secret and that the expiry has not elapsed; it is a
// pure, stateless computation with no suspension point.
//
// # Error contract
//
// Any parse or signature failure yields [ErrInvalid]; an elapsed expiry on an
// otherwise well-formed token yields [ErrExpired]. Callers surface both as
// unauthenticated, but the distinction drives client UX (re-login prompt vs
// silent expiry).
//
// # What this package must NOT do
//
//   - Persist tokens anywhere; the client exclusively owns the issued string.
//   - Consult the user store; embedded claims are trusted until expiry.
//   - Import any other payauth package.
package token
