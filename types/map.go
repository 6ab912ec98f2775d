package types

import (
	"context"
	"io"
	"sort"

	"github.com/prollytree/prollytree/d"
	"github.com/prollytree/prollytree/hash"
)

// Map is a sorted collection of key/value pairs, ordered by key.
type Map struct {
	seq sequence
}

func newMap(seq sequence) Map { return Map{seq} }

func (m Map) asSequence() sequence     { return m.seq }
func (m Map) Kind() NomsKind           { return MapKind }
func (m Map) Len() uint64              { return m.seq.NumLeaves() }
func (m Map) Empty() bool              { return m.Len() == 0 }
func (m Map) IsOrderedByValue() bool   { return false }
func (m Map) writeTo(w io.Writer) error { return m.seq.writeTo(w) }
func (m Map) Hash() hash.Hash          { return hashOf(m) }

func (m Map) Equals(other Value) bool {
	o, ok := other.(Map)
	return ok && m.Hash().Equal(o.Hash())
}

func (m Map) Less(other Value) bool {
	o, ok := other.(Map)
	if !ok {
		return lessByKind(m, other)
	}
	return m.Hash().Less(o.Hash())
}

func newMapLeafChunkFn(vrw ValueReadWriter) makeChunkFn {
	return func(level uint64, items []sequenceItem) (Collection, orderedKey, uint64, error) {
		d.PanicIfFalse(level == 0)
		entries := make([]mapEntry, len(items))
		for i, item := range items {
			entries[i] = item.(mapEntry)
		}
		seq := newMapLeafSequence(vrw, entries)
		var key orderedKey
		if len(items) > 0 {
			key = seq.GetKey(len(items) - 1)
		}
		return newMap(seq), key, uint64(len(items)), nil
	}
}

type mapEntrySlice []mapEntry

func (es mapEntrySlice) Len() int           { return len(es) }
func (es mapEntrySlice) Less(i, j int) bool { return es[i].k.Less(es[j].k) }
func (es mapEntrySlice) Swap(i, j int)      { es[i], es[j] = es[j], es[i] }

// buildMapData sorts entries by key and drops duplicate keys, keeping the
// last value given for any repeated key.
func buildMapData(entries []mapEntry) []mapEntry {
	es := make(mapEntrySlice, len(entries))
	copy(es, entries)
	sort.Stable(es)
	out := es[:0:0]
	for i, e := range es {
		if i+1 < len(es) && es[i+1].k.Equals(e.k) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// NewMap builds a Map from alternating key, value, key, value, ... Values.
func NewMap(ctx context.Context, vrw ValueReadWriter, kv ...Value) (Map, error) {
	d.PanicIfFalse(len(kv)%2 == 0)
	entries := make([]mapEntry, len(kv)/2)
	for i := range entries {
		entries[i] = mapEntry{kv[2*i], kv[2*i+1]}
	}
	return newMapFromEntries(ctx, vrw, entries)
}

func newMapFromEntries(ctx context.Context, vrw ValueReadWriter, entries []mapEntry) (Map, error) {
	data := buildMapData(entries)
	items := make([]sequenceItem, len(data))
	for i, e := range data {
		items[i] = e
	}
	seq, err := chunkSequenceSync(ctx, vrw, items, newMapLeafChunkFn(vrw), newOrderedMetaSequenceChunkFn(MapKind, vrw), hashMapEntryBytes)
	if err != nil {
		return Map{}, err
	}
	return newMap(seq), nil
}

// NewMapFromChannel builds a Map from a channel of already-sorted-ascending
// key/value pairs, for streaming bulk construction.
func NewMapFromChannel(ctx context.Context, vrw ValueReadWriter, kv <-chan Value) (Map, error) {
	var entries []mapEntry
	var last Value
	var pendingKey Value
	haveKey := false
	for v := range kv {
		if !haveKey {
			pendingKey, haveKey = v, true
			continue
		}
		haveKey = false
		if last != nil {
			d.PanicIfFalse(last.Less(pendingKey) || last.Equals(pendingKey))
		}
		if last != nil && last.Equals(pendingKey) {
			entries[len(entries)-1] = mapEntry{pendingKey, v}
		} else {
			entries = append(entries, mapEntry{pendingKey, v})
		}
		last = pendingKey
	}
	d.PanicIfTrue(haveKey)
	items := make([]sequenceItem, len(entries))
	for i, e := range entries {
		items[i] = e
	}
	seq, err := chunkSequenceSync(ctx, vrw, items, newMapLeafChunkFn(vrw), newOrderedMetaSequenceChunkFn(MapKind, vrw), hashMapEntryBytes)
	if err != nil {
		return Map{}, err
	}
	return newMap(seq), nil
}

// Get returns the value for k, and whether it was present.
func (m Map) Get(ctx context.Context, k Value) (Value, bool, error) {
	cur, err := newCursorAtValue(ctx, m.seq, k, false, false)
	if err != nil {
		return nil, false, err
	}
	if !cur.valid() {
		return nil, false, nil
	}
	e := cur.current().(mapEntry)
	if !e.k.Equals(k) {
		return nil, false, nil
	}
	return e.v, true, nil
}

// Has reports whether k is present.
func (m Map) Has(ctx context.Context, k Value) (bool, error) {
	_, ok, err := m.Get(ctx, k)
	return ok, err
}

// IterAll calls cb with every key/value pair in ascending key order.
func (m Map) IterAll(ctx context.Context, cb func(k, v Value) error) error {
	cur, err := newCursorAtValue(ctx, m.seq, nil, false, false)
	if err != nil {
		return err
	}
	return cur.iter(ctx, func(item sequenceItem) (bool, error) {
		e := item.(mapEntry)
		if err := cb(e.k, e.v); err != nil {
			return true, err
		}
		return false, nil
	})
}

// Set inserts or overwrites key/value pairs, returning the updated Map.
func (m Map) Set(ctx context.Context, vrw ValueReadWriter, kv ...Value) (Map, error) {
	d.PanicIfFalse(len(kv)%2 == 0)
	entries := make([]mapEntry, len(kv)/2)
	for i := range entries {
		entries[i] = mapEntry{kv[2*i], kv[2*i+1]}
	}
	result := m
	for _, e := range buildMapData(entries) {
		var err error
		result, err = result.edit(ctx, vrw, e.k, e.v, true)
		if err != nil {
			return Map{}, err
		}
	}
	return result, nil
}

// Remove deletes keys from the map, returning the updated Map.
func (m Map) Remove(ctx context.Context, vrw ValueReadWriter, keys ...Value) (Map, error) {
	sorted := make(ValueSlice, len(keys))
	copy(sorted, keys)
	sort.Stable(sorted)
	result := m
	for _, k := range sorted {
		var err error
		result, err = result.edit(ctx, vrw, k, nil, false)
		if err != nil {
			return Map{}, err
		}
	}
	return result, nil
}

func (m Map) edit(ctx context.Context, vrw ValueReadWriter, k, v Value, insert bool) (Map, error) {
	cur, err := newCursorAtValue(ctx, m.seq, k, true, false)
	if err != nil {
		return Map{}, err
	}
	found := cur.valid() && cur.current().(mapEntry).k.Equals(k)
	var items []sequenceItem
	var removeCount uint64
	switch {
	case insert && found && cur.current().(mapEntry).v.Equals(v):
		return m, nil
	case insert:
		items = []sequenceItem{mapEntry{k, v}}
		if found {
			removeCount = 1
		}
	case !insert && found:
		removeCount = 1
	default:
		return m, nil
	}
	seq, err := chunkSequence(ctx, cur, vrw, items, removeCount, newMapLeafChunkFn(vrw), newOrderedMetaSequenceChunkFn(MapKind, vrw), hashMapEntryBytes)
	if err != nil {
		return Map{}, err
	}
	return newMap(seq), nil
}
