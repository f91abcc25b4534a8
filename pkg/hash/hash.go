// Package hash provides the content-hash capability the rest of the
// library is built on: sha256 digests in their hex form, plus the
// combine step used when aggregating digests up a tree.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest is a hex-encoded sha256 sum. Digests are opaque and compared
// by equality only.
type Digest string

// Hashable is implemented by anything that can be summarized by a
// Digest. Implementations must be deterministic: the same value always
// hashes to the same digest.
type Hashable interface {
	Hash() Digest
}

// Sha256 hashes the incoming byte slice using the sha256 algorithm and
// returns the hex-encoded digest.
func Sha256(data []byte) Digest {
	h := sha256.Sum256(data)
	return Digest(hex.EncodeToString(h[:]))
}

// Concat hashes the concatenation of two digests. The hex forms are
// joined as strings and the result is hashed again; this is the combine
// step used on every tree level and every proof step.
func Concat(first, second Digest) Digest {
	return Sha256([]byte(string(first) + string(second)))
}
