// Package middleware exposes gin middleware for token authentication and
// role-based route protection built on top of payauth.Engine.
//
// # Guards
//
//   - [Authenticate] — verifies the Authorization bearer token and injects
//     claims into the request context.
//   - [RequireRole] — restricts a route to one role; runs after
//     [Authenticate].
//
// A missing or malformed Authorization header is reported as 401; a token
// that fails verification (bad signature, expired) as 403.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT
// implement authentication logic itself.
//
// # What this package must NOT do
//
//   - Parse or create tokens directly (delegates to Engine).
//   - Query the credential store.
//   - Make authorization decisions beyond the claimed role.
package middleware
