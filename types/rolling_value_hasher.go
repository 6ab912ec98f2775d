package types

import (
	"bytes"

	"github.com/kch42/buzhash"
)

// chunkWindow is the buzhash sliding-window width (in bytes). Matches the
// window attic-labs/noms's RollingValueHasher used with this library.
const chunkWindow = 67

// chunkPatternBits sets the expected chunk size to 2^chunkPatternBits items
// worth of encoded bytes: a chunk boundary fires whenever the low bits of
// the rolling sum are all set.
const chunkPatternBits = 11

const chunkPattern = uint32(1)<<chunkPatternBits - 1

// rollingValueHasher implements the deterministic, content-driven boundary
// test described in spec §4.2. Each tree level gets its own instance seeded
// with a distinct salt (conventionally level mod 256) so that a boundary at
// one level is independent of boundaries at any other level.
type rollingValueHasher struct {
	bz              *buzhash.BuzHash
	salt            byte
	bytesHashed     uint64
	crossedBoundary bool
}

func newRollingValueHasher(salt byte) *rollingValueHasher {
	return &rollingValueHasher{bz: buzhash.NewBuzHash(chunkWindow), salt: salt}
}

// HashByte feeds a single byte into the rolling hash and updates
// crossedBoundary. Salting is applied by XORing into every byte rather than
// by a one-time seed feed, so it survives Reset() without needing to be
// replayed.
func (rv *rollingValueHasher) HashByte(b byte) {
	sum := rv.bz.HashByte(b ^ rv.salt)
	rv.bytesHashed++
	rv.crossedBoundary = rv.bytesHashed >= chunkWindow && sum&chunkPattern == chunkPattern
}

// Reset clears the boundary flag and the rolling window, starting a fresh
// chunk at the same salt.
func (rv *rollingValueHasher) Reset() {
	rv.bz.Reset()
	rv.bytesHashed = 0
	rv.crossedBoundary = false
}

// hashItemFn feeds one sequence item's canonical bytes into rv.
type hashItemFn func(item sequenceItem, rv *rollingValueHasher) error

// hashValueBytes is the hashItemFn used by every leaf level whose items are
// Values (List, Map, Set): it serializes the item with the same writeTo
// used for persistence and feeds the resulting bytes byte-by-byte.
func hashValueBytes(item sequenceItem, rv *rollingValueHasher) error {
	v, ok := item.(Value)
	if !ok {
		panic("hashValueBytes: item is not a Value")
	}
	var buf bytes.Buffer
	if err := v.writeTo(&buf); err != nil {
		return err
	}
	for _, b := range buf.Bytes() {
		rv.HashByte(b)
	}
	return nil
}

// hashMapEntryBytes is the hashItemFn for Map leaves, whose items are
// key/value pairs rather than bare Values.
func hashMapEntryBytes(item sequenceItem, rv *rollingValueHasher) error {
	e, ok := item.(mapEntry)
	if !ok {
		panic("hashMapEntryBytes: item is not a mapEntry")
	}
	var buf bytes.Buffer
	if err := e.k.writeTo(&buf); err != nil {
		return err
	}
	if err := e.v.writeTo(&buf); err != nil {
		return err
	}
	for _, b := range buf.Bytes() {
		rv.HashByte(b)
	}
	return nil
}

// hashBlobByte is the hashItemFn for Blob leaves, whose items are raw bytes
// hashed directly without the Value envelope.
func hashBlobByte(item sequenceItem, rv *rollingValueHasher) error {
	rv.HashByte(item.(byte))
	return nil
}

// metaHashValueBytes is the hashItemFn used above the leaf level: it feeds
// a metaTuple's ref and boundary key, so that meta-level boundaries are
// just as deterministic a function of content as leaf-level ones.
func metaHashValueBytes(item sequenceItem, rv *rollingValueHasher) error {
	mt, ok := item.(metaTuple)
	if !ok {
		panic("metaHashValueBytes: item is not a metaTuple")
	}
	var buf bytes.Buffer
	buf.Write(mt.ref.TargetHash[:])
	if err := writeUint64(&buf, mt.ref.Height); err != nil {
		return err
	}
	if err := writeOrderedKey(&buf, mt.key); err != nil {
		return err
	}
	if err := writeUint64(&buf, mt.numLeaves); err != nil {
		return err
	}
	for _, b := range buf.Bytes() {
		rv.HashByte(b)
	}
	return nil
}
