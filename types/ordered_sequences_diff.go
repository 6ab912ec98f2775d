package types

import "context"

// DiffChangeType classifies one ValueChanged entry.
type DiffChangeType uint8

const (
	DiffChangeAdded DiffChangeType = iota
	DiffChangeRemoved
	DiffChangeModified
)

// ValueChanged describes one difference between two ordered collections.
type ValueChanged struct {
	ChangeType DiffChangeType
	Key        Value
	OldValue   Value
	NewValue   Value
}

// orderedSequenceDiff walks last and current in sorted-key order at once,
// emitting a ValueChanged for every key present in only one side or whose
// value differs between them. Stops early if cb returns an error.
//
// Optimization: if the two roots hash identically, they're reported as
// having no differences without ever descending — the common case for a
// diff immediately after construction, or comparing two collections built
// from the same data. Unlike the teacher's recursive version, the skip is
// not repeated at every internal meta node during the walk itself; see
// DESIGN.md for the reasoning (the same simplification rationale as
// sequenceChunker's replay-based resume).
func orderedSequenceDiff(ctx context.Context, last, current sequence, cb func(ValueChanged) (bool, error)) error {
	if wrapSequence(last).(Value).Equals(wrapSequence(current).(Value)) {
		return nil
	}

	lastCur, err := newCursorAtKey(ctx, last, emptyKey, false, false)
	if err != nil {
		return err
	}
	currCur, err := newCursorAtKey(ctx, current, emptyKey, false, false)
	if err != nil {
		return err
	}

	for lastCur.valid() || currCur.valid() {
		switch {
		case !lastCur.valid():
			stop, err := emitAdded(cb, currCur.current())
			if err != nil {
				return err
			}
			if stop {
				return nil
			}
			if _, err := currCur.advance(ctx); err != nil {
				return err
			}
		case !currCur.valid():
			stop, err := emitRemoved(cb, lastCur.current())
			if err != nil {
				return err
			}
			if stop {
				return nil
			}
			if _, err := lastCur.advance(ctx); err != nil {
				return err
			}
		default:
			lk := itemValue(lastCur.current())
			ck := itemValue(currCur.current())
			switch {
			case lk.Less(ck):
				stop, err := emitRemoved(cb, lastCur.current())
				if err != nil {
					return err
				}
				if stop {
					return nil
				}
				if _, err := lastCur.advance(ctx); err != nil {
					return err
				}
			case ck.Less(lk):
				stop, err := emitAdded(cb, currCur.current())
				if err != nil {
					return err
				}
				if stop {
					return nil
				}
				if _, err := currCur.advance(ctx); err != nil {
					return err
				}
			default:
				lv := itemFullValue(lastCur.current())
				cv := itemFullValue(currCur.current())
				if !lv.Equals(cv) {
					stop, err := cb(ValueChanged{DiffChangeModified, lk, lv, cv})
					if err != nil {
						return err
					}
					if stop {
						return nil
					}
				}
				if _, err := lastCur.advance(ctx); err != nil {
					return err
				}
				if _, err := currCur.advance(ctx); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func emitAdded(cb func(ValueChanged) (bool, error), item sequenceItem) (bool, error) {
	return cb(ValueChanged{DiffChangeAdded, itemValue(item), nil, itemFullValue(item)})
}

func emitRemoved(cb func(ValueChanged) (bool, error), item sequenceItem) (bool, error) {
	return cb(ValueChanged{DiffChangeRemoved, itemValue(item), itemFullValue(item), nil})
}

// itemFullValue returns the "value" half of a sequence item for equality
// comparison: the item itself for Set members, the paired value for Map
// entries.
func itemFullValue(item sequenceItem) Value {
	switch t := item.(type) {
	case Value:
		return t
	case mapEntry:
		return t.v
	default:
		panic("itemFullValue: item has no associated value")
	}
}

// Diff reports the differences needed to turn last into s.
func (s Set) Diff(ctx context.Context, last Set, cb func(ValueChanged) (bool, error)) error {
	return orderedSequenceDiff(ctx, last.seq, s.seq, cb)
}

// Diff reports the differences needed to turn last into m.
func (m Map) Diff(ctx context.Context, last Map, cb func(ValueChanged) (bool, error)) error {
	return orderedSequenceDiff(ctx, last.seq, m.seq, cb)
}
