// Package hash provides content fingerprinting for persisted session data.
//
// The session store fingerprints the delta entries of a session with SHA-256
// when saving and verifies the digest on load: a session whose entries
// changed between steps would silently invalidate every recorded verdict, so
// a digest mismatch is treated as corruption. Both a real implementation and
// a fake for testing are provided.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hasher provides an abstraction for content hashing.
type Hasher interface {
	// HashBytes computes the hash of the given data.
	HashBytes(data []byte) string
}

// SHA256Hasher implements Hasher using SHA-256.
type SHA256Hasher struct{}

// NewSHA256Hasher creates a new SHA256Hasher.
func NewSHA256Hasher() *SHA256Hasher {
	return &SHA256Hasher{}
}

// HashBytes computes the SHA-256 hash of the given data.
func (h *SHA256Hasher) HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// FakeHasher implements Hasher with a constant prefix for testing.
type FakeHasher struct{}

// NewFakeHasher creates a new FakeHasher.
func NewFakeHasher() *FakeHasher {
	return &FakeHasher{}
}

// HashBytes returns a deterministic pseudo-hash of the data length.
func (h *FakeHasher) HashBytes(data []byte) string {
	return hex.EncodeToString([]byte{byte(len(data)), byte(len(data) >> 8)})
}
