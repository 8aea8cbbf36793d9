// Package id generates the prefixed record identifiers used by the store.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Prefixes for each persisted record kind.
const (
	PrefixUser   = "usr"
	PrefixBook   = "book"
	PrefixReview = "rev"
)

// Generate creates a prefixed NanoID, e.g. "book-V1StGXR8_Z5jdHi6B-myT".
// It fails only when the system cannot provide secure randomness.
func Generate(prefix string) (string, error) {
	n, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + n, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
func MustGenerate(prefix string) string {
	v, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return v
}
