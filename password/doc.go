// Package password implements salted, peppered one-way password hashing on
// bcrypt.
//
// # Pepper
//
// The pepper is a server-held secret concatenated to the plaintext before
// hashing and verifying. It is never stored per-user, unlike the random salt
// bcrypt embeds in the hash output. Two hashes of the same plaintext differ
// because of the salt; a leaked hash database is useless without the pepper.
//
// # Architecture boundaries
//
// This package owns hashing and verification only. Password policy (length,
// character classes) is enforced by the Engine before plaintext reaches here.
//
// # What this package must NOT do
//
//   - Store or retrieve passwords; callers supply plaintext and receive hashes.
//   - Import any other payauth package.
//   - Log plaintext passwords or the pepper at runtime.
package password
