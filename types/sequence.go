package types

import (
	"context"
	"io"
)

// sequenceItem is the generic element type stored in a leaf sequence: a
// Value for List/Set leaves, a mapEntry for Map leaves, or a byte for Blob
// leaves. Meta sequences always hold metaTuple items regardless of kind.
type sequenceItem interface{}

// mapEntry is a Map leaf's sequenceItem: one key/value pair.
type mapEntry struct {
	k, v Value
}

// sequence is the common shape of LeafSequence and MetaSequence (spec
// §4.3): a sized, indexable, lazily-expandable node in the tree. Level 0 is
// always a leaf; every level above holds metaTuple items pointing at the
// level below.
type sequence interface {
	// Length is the number of items (leaf values, or child tuples) stored
	// directly in this node.
	Length() int

	// NumLeaves is the total number of leaf-level items in the subtree
	// rooted here.
	NumLeaves() uint64

	IsMeta() bool
	Kind() NomsKind

	// Item returns the i'th item stored directly in this node.
	Item(i int) sequenceItem

	// GetKey returns the i'th item's boundary key: for a leaf, the key the
	// collection's ordering assigns to that item (or, for indexed
	// collections, its local position); for a meta sequence, the i'th
	// tuple's own stored key.
	GetKey(i int) orderedKey

	// GetChildSequence loads (or returns the cached) child sequence for
	// the i'th tuple. Only valid on a meta sequence.
	GetChildSequence(ctx context.Context, i int) (sequence, error)

	// CumulativeNumberOfLeaves is the number of leaf items in items
	// [0, i], inclusive, used by index-based cursor descent.
	CumulativeNumberOfLeaves(i int) uint64

	valueReadWriter() ValueReadWriter

	// treeLevel is 0 for a leaf, 1 for its immediate parent, and so on.
	treeLevel() uint64

	writeTo(w io.Writer) error
}

// leafSequence is the shared base embedded by each kind's concrete leaf
// sequence type (listLeafSequence, mapLeafSequence, setLeafSequence,
// blobLeafSequence). Each embedder adds its own GetKey, writeTo and
// constructor, since those are the only kind-specific pieces.
type leafSequence struct {
	vrw   ValueReadWriter
	kind  NomsKind
	items []sequenceItem
}

func (l leafSequence) Length() int                { return len(l.items) }
func (l leafSequence) NumLeaves() uint64           { return uint64(len(l.items)) }
func (l leafSequence) IsMeta() bool                { return false }
func (l leafSequence) Kind() NomsKind              { return l.kind }
func (l leafSequence) Item(i int) sequenceItem     { return l.items[i] }
func (l leafSequence) valueReadWriter() ValueReadWriter { return l.vrw }
func (l leafSequence) treeLevel() uint64           { return 0 }
func (l leafSequence) CumulativeNumberOfLeaves(i int) uint64 { return uint64(i + 1) }
func (l leafSequence) GetChildSequence(_ context.Context, _ int) (sequence, error) {
	panic("leafSequence: no child sequence")
}

// metaTuple is a MetaSequence's item: a pointer to a child chunk, the
// largest (or cumulative-count) key in its subtree, and the subtree's leaf
// count. child caches an in-memory subtree built by the chunker that has
// not necessarily been persisted yet.
type metaTuple struct {
	ref       Ref
	key       orderedKey
	numLeaves uint64
	child     sequence
}

// metaSequence is the single MetaSequence implementation shared by all
// four collection kinds: its items are always metaTuples, only the kind
// tag and boundary-key semantics differ by collection.
type metaSequence struct {
	vrw     ValueReadWriter
	kind    NomsKind
	level   uint64
	tuples  []metaTuple
	offsets []uint64
}

func newMetaSequence(vrw ValueReadWriter, kind NomsKind, level uint64, tuples []metaTuple) metaSequence {
	offsets := make([]uint64, len(tuples))
	var cum uint64
	for i, t := range tuples {
		cum += t.numLeaves
		offsets[i] = cum
	}
	return metaSequence{vrw: vrw, kind: kind, level: level, tuples: tuples, offsets: offsets}
}

func (ms metaSequence) Length() int      { return len(ms.tuples) }
func (ms metaSequence) NumLeaves() uint64 {
	if len(ms.offsets) == 0 {
		return 0
	}
	return ms.offsets[len(ms.offsets)-1]
}
func (ms metaSequence) IsMeta() bool    { return true }
func (ms metaSequence) Kind() NomsKind  { return ms.kind }
func (ms metaSequence) Item(i int) sequenceItem { return ms.tuples[i] }
func (ms metaSequence) GetKey(i int) orderedKey { return ms.tuples[i].key }
func (ms metaSequence) valueReadWriter() ValueReadWriter { return ms.vrw }
func (ms metaSequence) treeLevel() uint64 { return ms.level }
func (ms metaSequence) CumulativeNumberOfLeaves(i int) uint64 { return ms.offsets[i] }

func (ms metaSequence) GetChildSequence(ctx context.Context, i int) (sequence, error) {
	mt := ms.tuples[i]
	if mt.child != nil {
		return mt.child, nil
	}
	v, err := ms.vrw.ReadValue(ctx, mt.ref.TargetHash)
	if err != nil {
		return nil, err
	}
	coll := v.(Collection)
	seq := coll.asSequence()
	ms.tuples[i].child = seq
	return seq, nil
}

func (ms metaSequence) writeTo(w io.Writer) error {
	if err := writeUint8(w, uint8(ms.kind)); err != nil {
		return err
	}
	if err := writeUint8(w, 1); err != nil {
		return err
	}
	if err := writeUint64(w, ms.level); err != nil {
		return err
	}
	if err := writeUint32(w, uint32(len(ms.tuples))); err != nil {
		return err
	}
	for _, mt := range ms.tuples {
		if _, err := w.Write(mt.ref.TargetHash[:]); err != nil {
			return err
		}
		if err := writeUint64(w, mt.ref.Height); err != nil {
			return err
		}
		if err := writeOrderedKey(w, mt.key); err != nil {
			return err
		}
		if err := writeUint64(w, mt.numLeaves); err != nil {
			return err
		}
	}
	return nil
}
