package core

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"
)

// Hash represents a cryptographic hash
type Hash string

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Hasher accumulates length-prefixed parts into a single Hash, so that
// ("ab", "c") and ("a", "bc") never collide.
type Hasher struct {
	h hash.Hash
}

// NewHasher creates an empty incremental hasher
func NewHasher() *Hasher {
	return &Hasher{h: sha256.New()}
}

// WriteString adds one part to the hash
func (hs *Hasher) WriteString(part string) {
	var prefix [8]byte
	binary.LittleEndian.PutUint64(prefix[:], uint64(len(part)))
	hs.h.Write(prefix[:])
	hs.h.Write([]byte(part))
}

// Sum returns the accumulated hash
func (hs *Hasher) Sum() Hash {
	return Hash(hex.EncodeToString(hs.h.Sum(nil)))
}
