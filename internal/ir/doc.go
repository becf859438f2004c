// Package ir provides the typed literal values carried by filter query trees.
//
// This package contains value types and their canonical encoding only. All
// other internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - NO float types anywhere - use int64 for numbers
//   - NO null - attribute existence is expressed with HAS, never "= null"
//   - Canonical JSON (RFC 8785) is the only encoding used for fingerprints
package ir
