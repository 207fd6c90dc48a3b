// Package session provides session management for the Motor Tycoon Game.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Versioned JSON save documents with legacy-shape migration
//   - Save import/export with structural validation
//   - Session cleanup and expiration
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs for easy reference. The manager ensures
// IDs are unique using cryptographic randomness.
//
// Persistence:
//
// FilePersistence stores one JSON save document per session. Loading
// tolerates older save shapes: a legacy scalar debt field migrates into a
// synthetic loan, a legacy single-driver field into the drivers array, and a
// missing tutorial block is inferred from the car collection. Documents
// whose money field is not numeric are rejected.
//
// Concurrency:
//
// The session manager is thread-safe. Multiple goroutines can safely
// create, retrieve, and delete different sessions simultaneously.
package session
