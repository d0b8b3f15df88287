// Package domain defines the core domain types and interfaces.
//
// This package contains concept-oriented files (errors.go, user.go, music.go,
// roast.go, snapshot.go) with shared types and repository contracts. No
// implementation code - just contracts. Prevents circular imports by keeping
// interfaces on the consumer side.
package domain
