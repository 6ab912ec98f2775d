package types

import (
	"context"
	"io"

	"github.com/pkg/errors"

	"github.com/prollytree/prollytree/d"
	"github.com/prollytree/prollytree/hash"
)

// List is an ordered, indexed, immutable collection of Values.
type List struct {
	seq sequence
}

func newList(seq sequence) List { return List{seq} }

func (l List) asSequence() sequence     { return l.seq }
func (l List) Kind() NomsKind           { return ListKind }
func (l List) Len() uint64              { return l.seq.NumLeaves() }
func (l List) Empty() bool              { return l.Len() == 0 }
func (l List) IsOrderedByValue() bool   { return false }
func (l List) writeTo(w io.Writer) error { return l.seq.writeTo(w) }
func (l List) Hash() hash.Hash          { return hashOf(l) }

func (l List) Equals(other Value) bool {
	o, ok := other.(List)
	return ok && l.Hash().Equal(o.Hash())
}

func (l List) Less(other Value) bool {
	o, ok := other.(List)
	if !ok {
		return lessByKind(l, other)
	}
	return l.Hash().Less(o.Hash())
}

func newListLeafChunkFn(vrw ValueReadWriter) makeChunkFn {
	return func(level uint64, items []sequenceItem) (Collection, orderedKey, uint64, error) {
		d.PanicIfFalse(level == 0)
		seq := newListLeafSequence(vrw, items)
		return newList(seq), orderedKeyFromUint64(uint64(len(items))), uint64(len(items)), nil
	}
}

// NewList builds a List from values in one bulk pass.
func NewList(ctx context.Context, vrw ValueReadWriter, values ...Value) (List, error) {
	items := make([]sequenceItem, len(values))
	for i, v := range values {
		items[i] = v
	}
	seq, err := chunkSequenceSync(ctx, vrw, items, newListLeafChunkFn(vrw), newIndexedMetaSequenceChunkFn(ListKind, vrw), hashValueBytes)
	if err != nil {
		return List{}, err
	}
	return newList(seq), nil
}

// Get returns the value at idx.
func (l List) Get(ctx context.Context, idx uint64) (Value, error) {
	if idx >= l.Len() {
		return nil, errors.Errorf("types: list index %d out of range (len %d)", idx, l.Len())
	}
	cur, err := newCursorAtIndex(ctx, l.seq, idx)
	if err != nil {
		return nil, err
	}
	return cur.current().(Value), nil
}

// IterAll calls cb with every value in order, stopping early on error.
func (l List) IterAll(ctx context.Context, cb func(v Value, idx uint64) error) error {
	cur, err := newCursorAtIndex(ctx, l.seq, 0)
	if err != nil {
		return err
	}
	idx := uint64(0)
	return cur.iter(ctx, func(item sequenceItem) (bool, error) {
		if err := cb(item.(Value), idx); err != nil {
			return true, err
		}
		idx++
		return false, nil
	})
}

// Values materializes the whole List into a slice.
func (l List) Values(ctx context.Context) ([]Value, error) {
	vs := make([]Value, 0, l.Len())
	err := l.IterAll(ctx, func(v Value, _ uint64) error {
		vs = append(vs, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vs, nil
}

// Splice replaces removeCount values starting at idx with insert.
func (l List) Splice(ctx context.Context, vrw ValueReadWriter, idx, removeCount uint64, insert ...Value) (List, error) {
	cur, err := newCursorAtIndex(ctx, l.seq, idx)
	if err != nil {
		return List{}, err
	}
	items := make([]sequenceItem, len(insert))
	for i, v := range insert {
		items[i] = v
	}
	seq, err := chunkSequence(ctx, cur, vrw, items, removeCount, newListLeafChunkFn(vrw), newIndexedMetaSequenceChunkFn(ListKind, vrw), hashValueBytes)
	if err != nil {
		return List{}, err
	}
	return newList(seq), nil
}

// Append adds values to the end of the list.
func (l List) Append(ctx context.Context, vrw ValueReadWriter, values ...Value) (List, error) {
	return l.Splice(ctx, vrw, l.Len(), 0, values...)
}

// Insert inserts values starting at idx.
func (l List) Insert(ctx context.Context, vrw ValueReadWriter, idx uint64, values ...Value) (List, error) {
	return l.Splice(ctx, vrw, idx, 0, values...)
}

// Remove deletes the values in [start, end).
func (l List) Remove(ctx context.Context, vrw ValueReadWriter, start, end uint64) (List, error) {
	return l.Splice(ctx, vrw, start, end-start)
}
