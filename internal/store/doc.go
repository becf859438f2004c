// Package store provides SQLite-backed storage for filter evaluation.
//
// The store holds two kinds of tables:
//   - Item tables: one row per item, an id column plus one column per
//     schema attribute, queried through compiled filters
//   - The parse log: an append-only record of every filter parsed with
//     its rendering, fingerprint, or error code
//
// # Ordering
//
// The parse log orders by seq INTEGER (a logical clock), never by
// timestamps. Every query ends in ORDER BY ..., id ASC COLLATE BINARY so
// results are identical across runs.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON
//
// Fingerprints are computed by queryir.Fingerprint using RFC 8785
// canonical JSON and SHA-256 with domain separation.
package store
