package types

import (
	"context"
	"io"
	"sort"

	"github.com/prollytree/prollytree/d"
	"github.com/prollytree/prollytree/hash"
)

// Set is a sorted collection of distinct Values, ordered by Value.Less.
type Set struct {
	seq sequence
}

func newSet(seq sequence) Set { return Set{seq} }

func (s Set) asSequence() sequence     { return s.seq }
func (s Set) Kind() NomsKind           { return SetKind }
func (s Set) Len() uint64              { return s.seq.NumLeaves() }
func (s Set) Empty() bool              { return s.Len() == 0 }
func (s Set) IsOrderedByValue() bool   { return false }
func (s Set) writeTo(w io.Writer) error { return s.seq.writeTo(w) }
func (s Set) Hash() hash.Hash          { return hashOf(s) }

func (s Set) Equals(other Value) bool {
	o, ok := other.(Set)
	return ok && s.Hash().Equal(o.Hash())
}

func (s Set) Less(other Value) bool {
	o, ok := other.(Set)
	if !ok {
		return lessByKind(s, other)
	}
	return s.Hash().Less(o.Hash())
}

func newSetLeafChunkFn(vrw ValueReadWriter) makeChunkFn {
	return func(level uint64, items []sequenceItem) (Collection, orderedKey, uint64, error) {
		d.PanicIfFalse(level == 0)
		seq := newSetLeafSequence(vrw, items)
		var key orderedKey
		if len(items) > 0 {
			key = seq.GetKey(len(items) - 1)
		}
		return newSet(seq), key, uint64(len(items)), nil
	}
}

// buildSetData sorts values and drops duplicates, keeping the last of any
// group of equal values — matching the teacher's own build convention
// (last-write-wins) rather than erroring on duplicate input.
func buildSetData(values []Value) []Value {
	vs := make(ValueSlice, len(values))
	copy(vs, values)
	sort.Stable(vs)
	out := vs[:0:0]
	for i, v := range vs {
		if i+1 < len(vs) && vs[i+1].Equals(v) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// NewSet builds a Set from v in one bulk pass.
func NewSet(ctx context.Context, vrw ValueReadWriter, v ...Value) (Set, error) {
	data := buildSetData(v)
	items := make([]sequenceItem, len(data))
	for i, v := range data {
		items[i] = v
	}
	seq, err := chunkSequenceSync(ctx, vrw, items, newSetLeafChunkFn(vrw), newOrderedMetaSequenceChunkFn(SetKind, vrw), hashValueBytes)
	if err != nil {
		return Set{}, err
	}
	return newSet(seq), nil
}

// NewSetFromChannel builds a Set from a channel of already-sorted-ascending
// Values, for streaming bulk construction without materializing the whole
// input slice first.
func NewSetFromChannel(ctx context.Context, vrw ValueReadWriter, vals <-chan Value) (Set, error) {
	var items []sequenceItem
	var last Value
	for v := range vals {
		if last != nil {
			d.PanicIfFalse(last.Less(v) || last.Equals(v))
		}
		if last != nil && last.Equals(v) {
			items[len(items)-1] = v
			last = v
			continue
		}
		items = append(items, v)
		last = v
	}
	seq, err := chunkSequenceSync(ctx, vrw, items, newSetLeafChunkFn(vrw), newOrderedMetaSequenceChunkFn(SetKind, vrw), hashValueBytes)
	if err != nil {
		return Set{}, err
	}
	return newSet(seq), nil
}

// Has reports whether v is a member of the set.
func (s Set) Has(ctx context.Context, v Value) (bool, error) {
	cur, err := newCursorAtValue(ctx, s.seq, v, false, false)
	if err != nil {
		return false, err
	}
	return cur.valid() && cur.current().(Value).Equals(v), nil
}

// First returns the smallest member, or nil if the set is empty.
func (s Set) First(ctx context.Context) (Value, error) {
	cur, err := newCursorAtValue(ctx, s.seq, nil, false, false)
	if err != nil {
		return nil, err
	}
	if !cur.valid() {
		return nil, nil
	}
	return cur.current().(Value), nil
}

// IterAll calls cb with every member in ascending order.
func (s Set) IterAll(ctx context.Context, cb func(v Value) error) error {
	cur, err := newCursorAtValue(ctx, s.seq, nil, false, false)
	if err != nil {
		return err
	}
	return cur.iter(ctx, func(item sequenceItem) (bool, error) {
		if err := cb(item.(Value)); err != nil {
			return true, err
		}
		return false, nil
	})
}

// Values materializes the whole Set into an ascending slice.
func (s Set) Values(ctx context.Context) ([]Value, error) {
	vs := make([]Value, 0, s.Len())
	err := s.IterAll(ctx, func(v Value) error {
		vs = append(vs, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vs, nil
}

// Insert adds values to the set, returning the updated Set.
func (s Set) Insert(ctx context.Context, vrw ValueReadWriter, values ...Value) (Set, error) {
	data := buildSetData(values)
	result := s
	for _, v := range data {
		var err error
		result, err = result.edit(ctx, vrw, v, true)
		if err != nil {
			return Set{}, err
		}
	}
	return result, nil
}

// Remove deletes values from the set, returning the updated Set.
func (s Set) Remove(ctx context.Context, vrw ValueReadWriter, values ...Value) (Set, error) {
	data := buildSetData(values)
	result := s
	for _, v := range data {
		var err error
		result, err = result.edit(ctx, vrw, v, false)
		if err != nil {
			return Set{}, err
		}
	}
	return result, nil
}

func (s Set) edit(ctx context.Context, vrw ValueReadWriter, v Value, insert bool) (Set, error) {
	cur, err := newCursorAtValue(ctx, s.seq, v, true, false)
	if err != nil {
		return Set{}, err
	}
	found := cur.valid() && cur.current().(Value).Equals(v)
	var items []sequenceItem
	var removeCount uint64
	switch {
	case insert && !found:
		items = []sequenceItem{v}
	case !insert && found:
		removeCount = 1
	default:
		return s, nil
	}
	seq, err := chunkSequence(ctx, cur, vrw, items, removeCount, newSetLeafChunkFn(vrw), newOrderedMetaSequenceChunkFn(SetKind, vrw), hashValueBytes)
	if err != nil {
		return Set{}, err
	}
	return newSet(seq), nil
}
