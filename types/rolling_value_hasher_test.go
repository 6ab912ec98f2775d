package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pseudoRandomBytes returns n bytes from a fixed linear congruential
// sequence: varied enough for the rolling hash to find boundaries, and the
// same on every run.
func pseudoRandomBytes(n int) []byte {
	out := make([]byte, n)
	x := uint32(1)
	for i := range out {
		x = x*1664525 + 1013904223
		out[i] = byte(x >> 24)
	}
	return out
}

func TestRollingValueHasherDeterministic(t *testing.T) {
	// 64 KiB at one boundary per 2^11 bytes on average: about 32 crossings.
	data := pseudoRandomBytes(1 << 16)

	run := func() []bool {
		rv := newRollingValueHasher(0)
		var crossings []bool
		for _, b := range data {
			rv.HashByte(b)
			crossings = append(crossings, rv.crossedBoundary)
		}
		return crossings
	}

	a := run()
	b := run()
	assert.Equal(t, a, b, "identical byte streams must cross boundaries at identical positions")
}

func TestRollingValueHasherDifferentSaltsDiffer(t *testing.T) {
	// Long enough that each salt crosses many boundaries (about 32 expected).
	data := pseudoRandomBytes(1 << 16)

	collect := func(salt byte) []bool {
		rv := newRollingValueHasher(salt)
		var crossings []bool
		for _, b := range data {
			rv.HashByte(b)
			crossings = append(crossings, rv.crossedBoundary)
		}
		return crossings
	}

	salt0 := collect(0)
	salt1 := collect(1)
	assert.NotEqual(t, salt0, salt1, "different salts should (almost always) produce different boundary positions")
}

func TestRollingValueHasherResetClearsState(t *testing.T) {
	rv := newRollingValueHasher(7)
	for i := 0; i < 100; i++ {
		rv.HashByte(byte(i))
	}
	rv.Reset()
	assert.Equal(t, uint64(0), rv.bytesHashed)
	assert.False(t, rv.crossedBoundary)
}

func TestHashValueBytesFeedsCanonicalEncoding(t *testing.T) {
	rv := newRollingValueHasher(0)
	require.NoError(t, hashValueBytes(Int(42), rv))
	assert.True(t, rv.bytesHashed > 0)
}

func TestHashBlobByteFeedsRawByte(t *testing.T) {
	rv := newRollingValueHasher(0)
	require.NoError(t, hashBlobByte(byte('x'), rv))
	assert.Equal(t, uint64(1), rv.bytesHashed)
}
