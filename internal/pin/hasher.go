// Package pin implements PIN digest computation and comparison.
// Raw PINs never leave this package's callers; only digests are stored.
package pin

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// DigestLength is the fixed length of every stored PIN digest.
const DigestLength = 64

// Hasher computes and compares PIN digests. Implementations must be
// deterministic: Hash(x) == Hash(x) for repeated calls, so stored digests
// can be compared directly.
//
// The default scheme is unsalted, which means equal PINs across customers
// produce equal digests. A keyed or salted scheme should replace it before
// production use; this interface is the swap point.
type Hasher interface {
	Hash(rawPIN string) string
	Compare(rawPIN, storedHash string) bool
}

// SHA256Hasher hashes PINs with a single SHA-256 round, hex encoded and
// truncated to DigestLength characters.
type SHA256Hasher struct{}

// NewSHA256Hasher creates the default hasher
func NewSHA256Hasher() Hasher {
	return SHA256Hasher{}
}

// Hash returns the fixed-length digest of the raw PIN
func (SHA256Hasher) Hash(rawPIN string) string {
	sum := sha256.Sum256([]byte(rawPIN))
	digest := hex.EncodeToString(sum[:])
	if len(digest) > DigestLength {
		digest = digest[:DigestLength]
	}
	return digest
}

// Compare reports whether the raw PIN hashes to the stored digest.
// The comparison is constant-time.
func (h SHA256Hasher) Compare(rawPIN, storedHash string) bool {
	computed := h.Hash(rawPIN)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(storedHash)) == 1
}
