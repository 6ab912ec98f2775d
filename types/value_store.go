package types

import (
	"context"

	"github.com/prollytree/prollytree/chunks"
	"github.com/prollytree/prollytree/hash"
)

// Ref is a reference to a persisted chunk: its content hash plus the height
// of the subtree it roots (0 for a leaf), mirroring the teacher's Ref type
// minus the full type-system fields this spec leaves out of scope.
type Ref struct {
	TargetHash hash.Hash
	Height     uint64
}

// ValueReader reads persisted Values by content hash.
type ValueReader interface {
	ReadValue(ctx context.Context, h hash.Hash) (Value, error)
}

// ValueWriter persists a Value and returns a Ref to it.
type ValueWriter interface {
	WriteValue(ctx context.Context, v Value) (Ref, error)
}

// ValueReadWriter is the sole storage collaborator the prolly-tree core
// talks to (spec §1): every chunk boundary crossed by the chunker ends up
// as one WriteValue call, and every lazily-loaded child sequence comes back
// through ReadValue.
type ValueReadWriter interface {
	ValueReader
	ValueWriter
}

// ValueStore is the one ValueReadWriter this repository ships, adapting a
// chunks.ChunkStore to the Value-level interface by running values through
// EncodeValue/DecodeValue at the boundary.
type ValueStore struct {
	cs chunks.ChunkStore
}

// NewValueStore wraps cs as a ValueReadWriter.
func NewValueStore(cs chunks.ChunkStore) *ValueStore {
	return &ValueStore{cs: cs}
}

func (vs *ValueStore) ReadValue(ctx context.Context, h hash.Hash) (Value, error) {
	c, err := vs.cs.Get(ctx, h)
	if err != nil {
		return nil, err
	}
	return DecodeValue(vs, c.Data())
}

func (vs *ValueStore) WriteValue(ctx context.Context, v Value) (Ref, error) {
	data, err := EncodeValue(v)
	if err != nil {
		return Ref{}, err
	}
	c := chunks.NewChunk(data)
	if err := vs.cs.Put(ctx, c); err != nil {
		return Ref{}, err
	}
	height := uint64(0)
	if coll, ok := v.(Collection); ok {
		seq := coll.asSequence()
		if seq.IsMeta() {
			height = seq.treeLevel()
		}
	}
	return Ref{TargetHash: c.Hash(), Height: height}, nil
}

// Collection is implemented by List, Map, Set and Blob: the four façades
// built on top of a sequence.
type Collection interface {
	Value
	Len() uint64
	Empty() bool
	asSequence() sequence
}
