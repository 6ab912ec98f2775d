// Package hash implements the content-addressing primitive used to name
// persisted chunks: a fixed-width digest with a total order and a compact
// string encoding.
package hash

import (
	"crypto/sha512"
	"encoding/base32"
)

// ByteLen is the width, in bytes, of a Hash.
const ByteLen = 20

// StringLen is the width, in characters, of a Hash's encoded form.
const StringLen = 32

// encoding is the lowercase base32 alphabet the teacher's hash package
// encodes with; unlike stdlib's HexEncoding it has no uppercase digits,
// so hash strings sort the same whether compared as bytes or as strings.
var encoding = base32.NewEncoding("0123456789abcdefghijklmnopqrstuv").WithPadding(base32.NoPadding)

var emptyHash = Hash{}

// Hash is a content digest. The zero value is a valid, "empty" hash.
type Hash [ByteLen]byte

// Of returns the digest of data.
func Of(data []byte) Hash {
	sum := sha512.Sum512(data)
	var h Hash
	copy(h[:], sum[:ByteLen])
	return h
}

// New wraps a pre-computed digest. Panics if b is not exactly ByteLen bytes.
func New(b []byte) Hash {
	if len(b) != ByteLen {
		panic("hash: wrong byte length")
	}
	var h Hash
	copy(h[:], b)
	return h
}

// Parse decodes s, panicking if it is not a well-formed hash string.
func Parse(s string) Hash {
	h, ok := MaybeParse(s)
	if !ok {
		panic("hash: invalid hash string: " + s)
	}
	return h
}

// MaybeParse decodes s, returning ok=false rather than panicking on
// malformed input.
func MaybeParse(s string) (Hash, bool) {
	if len(s) != StringLen {
		return emptyHash, false
	}
	b, err := encoding.DecodeString(s)
	if err != nil || len(b) != ByteLen {
		return emptyHash, false
	}
	return New(b), true
}

// String returns the encoded form of h.
func (h Hash) String() string {
	return encoding.EncodeToString(h[:])
}

// IsEmpty reports whether h is the zero hash.
func (h Hash) IsEmpty() bool {
	return h == emptyHash
}

// Compare gives a total order over hashes: -1, 0, or 1.
func (h Hash) Compare(other Hash) int {
	for i := range h {
		if h[i] != other[i] {
			if h[i] < other[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Less reports whether h sorts before other.
func (h Hash) Less(other Hash) bool {
	return h.Compare(other) < 0
}

// Equal reports whether h and other are the same digest.
func (h Hash) Equal(other Hash) bool {
	return h == other
}
