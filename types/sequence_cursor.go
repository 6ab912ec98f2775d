package types

import (
	"context"
	"sort"

	"github.com/prollytree/prollytree/d"
)

// cursorFrame is one level of a sequenceCursor's position: the sequence at
// that level and the index of the item currently selected within it.
type cursorFrame struct {
	seq sequence
	idx int
}

// sequenceCursor navigates a tree of chunks top to bottom as an explicit
// stack of frames (root first, leaf last) rather than a chain of
// parent-back-pointers. The spec's own design notes call for this: an
// explicit frame stack makes advance/retreat boundary-crossing a plain loop
// over the stack instead of a recursive walk through linked cursor objects,
// and makes cloning (needed by the chunker's resume cursor) a slice copy.
type sequenceCursor struct {
	frames []cursorFrame
}

func (c *sequenceCursor) leaf() *cursorFrame {
	return &c.frames[len(c.frames)-1]
}

// valid reports whether the cursor is positioned at a real item (neither
// the before-start nor past-end sentinel).
func (c *sequenceCursor) valid() bool {
	f := c.leaf()
	return f.idx >= 0 && f.idx < f.seq.Length()
}

// current returns the item at the cursor's position. Calling current on an
// invalid cursor is a programming error.
func (c *sequenceCursor) current() sequenceItem {
	d.PanicIfFalse(c.valid())
	f := c.leaf()
	return f.seq.Item(f.idx)
}

// clone deep-copies the frame stack so the original cursor is unaffected by
// subsequent advance/retreat calls on the copy.
func (c *sequenceCursor) clone() *sequenceCursor {
	frames := make([]cursorFrame, len(c.frames))
	copy(frames, c.frames)
	return &sequenceCursor{frames: frames}
}

// parentCursor returns a cursor for the frame one level up (toward the
// root), or nil if this cursor's deepest frame is already the root.
func (c *sequenceCursor) parentCursor() *sequenceCursor {
	if len(c.frames) <= 1 {
		return nil
	}
	frames := make([]cursorFrame, len(c.frames)-1)
	copy(frames, c.frames[:len(c.frames)-1])
	return &sequenceCursor{frames: frames}
}

// newCursorAtIndex builds a cursor to the item at the given cumulative leaf
// position, descending via binary search over each meta level's cumulative
// leaf counts. idx == root.NumLeaves() is a valid "one past the end"
// position, used to construct an append cursor.
func newCursorAtIndex(ctx context.Context, root sequence, idx uint64) (*sequenceCursor, error) {
	var frames []cursorFrame
	seq := root
	for {
		length := seq.Length()
		if seq.IsMeta() {
			i := sort.Search(length, func(i int) bool { return idx < seq.CumulativeNumberOfLeaves(i) })
			if i == length {
				i = length - 1
			}
			if i > 0 {
				idx -= seq.CumulativeNumberOfLeaves(i - 1)
			}
			frames = append(frames, cursorFrame{seq, i})
			child, err := seq.GetChildSequence(ctx, i)
			if err != nil {
				return nil, err
			}
			seq = child
			continue
		}
		i := int(idx)
		if i > length {
			i = length
		}
		frames = append(frames, cursorFrame{seq, i})
		return &sequenceCursor{frames: frames}, nil
	}
}

// seekIndex returns the smallest i such that seq.GetKey(i) is not less than
// key, or length if there is none. When lastIfMissing is true and no such i
// exists, length-1 is returned instead (provided the sequence is
// non-empty), so a child can still be chosen to descend into.
func seekIndex(seq sequence, key orderedKey, lastIfMissing bool) int {
	length := seq.Length()
	if key.isEmpty() {
		return 0
	}
	i := sort.Search(length, func(i int) bool { return !seq.GetKey(i).Less(key) })
	if i == length && lastIfMissing && length > 0 {
		return length - 1
	}
	return i
}

// newCursorAtKey builds a cursor to the item with the smallest key not less
// than key, descending one level at a time via seekIndex. Meta levels
// always clamp to the last child when key exceeds every key in the
// subtree, since a meta frame needs a real child index to descend through
// regardless of why the caller is searching; this is harmless for a plain
// lookup (it just performs one extra, still-correct descent before
// reporting not-found) and necessary for an insertion search (otherwise a
// key past the end could never reach the leaf level at all). The leaf
// level itself never clamps: forInsertion callers need idx == length (a
// valid past-end position meaning "insert after everything"), and clamping
// to the last real item there would misorder the insert. last, combined
// with the empty key sentinel, requests the rightmost rather than the
// leftmost item. forInsertion is accepted for call-site documentation
// symmetry with newCursorAtValue/Splice callers even though, given the
// above, it does not currently change this function's behavior.
func newCursorAtKey(ctx context.Context, root sequence, key orderedKey, forInsertion, last bool) (*sequenceCursor, error) {
	var frames []cursorFrame
	seq := root
	for {
		length := seq.Length()
		var i int
		if key.isEmpty() {
			if last {
				i = length - 1
			} else {
				i = 0
			}
		} else if seq.IsMeta() {
			i = seekIndex(seq, key, true)
		} else {
			i = seekIndex(seq, key, false)
		}
		frames = append(frames, cursorFrame{seq, i})
		if !seq.IsMeta() {
			return &sequenceCursor{frames: frames}, nil
		}
		child, err := seq.GetChildSequence(ctx, i)
		if err != nil {
			return nil, err
		}
		seq = child
	}
}

// newCursorAtValue is a convenience over newCursorAtKey for collections
// whose items are compared as whole Values (Set members, Map keys).
func newCursorAtValue(ctx context.Context, root sequence, v Value, forInsertion, last bool) (*sequenceCursor, error) {
	var key orderedKey
	if v != nil {
		key = newOrderedKey(v)
	}
	return newCursorAtKey(ctx, root, key, forInsertion, last)
}

// newCursorBackFromValue builds a cursor usable for descending iteration
// (retreat) over items less than v: positioned at v itself if present, or
// at the item immediately before where v would be.
func newCursorBackFromValue(ctx context.Context, root sequence, v Value) (*sequenceCursor, error) {
	cur, err := newCursorAtValue(ctx, root, v, false, false)
	if err != nil {
		return nil, err
	}
	if cur.valid() {
		item := cur.current()
		if itemValue(item).Equals(v) {
			return cur, nil
		}
	}
	if _, err := cur.retreat(ctx); err != nil {
		return nil, err
	}
	return cur, nil
}

func itemValue(item sequenceItem) Value {
	switch t := item.(type) {
	case Value:
		return t
	case mapEntry:
		return t.k
	default:
		panic("itemValue: item is not keyed by a Value")
	}
}

// advance moves the cursor to the next item, crossing chunk and level
// boundaries as needed by recursively advancing the parent frame. It
// reports false (and sets the leaf's idx to the past-end sentinel) once
// the deepest in-progress frame in the chain has no further sibling.
func (c *sequenceCursor) advance(ctx context.Context) (bool, error) {
	return c.advanceAtLevel(ctx, len(c.frames)-1)
}

func (c *sequenceCursor) advanceAtLevel(ctx context.Context, level int) (bool, error) {
	f := &c.frames[level]
	if f.idx < f.seq.Length()-1 {
		f.idx++
		return true, nil
	}
	if level == 0 {
		if len(c.frames) == 1 {
			f.idx = f.seq.Length()
		}
		return false, nil
	}
	ok, err := c.advanceAtLevel(ctx, level-1)
	if err != nil {
		return false, err
	}
	if !ok {
		f.idx = f.seq.Length()
		return false, nil
	}
	parent := &c.frames[level-1]
	child, err := parent.seq.GetChildSequence(ctx, parent.idx)
	if err != nil {
		return false, err
	}
	f.seq = child
	f.idx = 0
	return true, nil
}

// retreat is advance's mirror image, using -1 as the before-start sentinel.
func (c *sequenceCursor) retreat(ctx context.Context) (bool, error) {
	return c.retreatAtLevel(ctx, len(c.frames)-1)
}

func (c *sequenceCursor) retreatAtLevel(ctx context.Context, level int) (bool, error) {
	f := &c.frames[level]
	if f.idx > 0 {
		f.idx--
		return true, nil
	}
	if level == 0 {
		if len(c.frames) == 1 {
			f.idx = -1
		}
		return false, nil
	}
	ok, err := c.retreatAtLevel(ctx, level-1)
	if err != nil {
		return false, err
	}
	if !ok {
		f.idx = -1
		return false, nil
	}
	parent := &c.frames[level-1]
	child, err := parent.seq.GetChildSequence(ctx, parent.idx)
	if err != nil {
		return false, err
	}
	f.seq = child
	f.idx = f.seq.Length() - 1
	return true, nil
}

// canAdvanceLocal reports whether advancing would stay within the current
// leaf chunk (no store access, no parent consultation needed).
func (c *sequenceCursor) canAdvanceLocal() bool {
	f := c.leaf()
	return f.idx < f.seq.Length()-1
}

// advanceLocal advances within the current chunk only and reports whether
// the new position is a real item. If allowPastEnd is true and the cursor
// is at the last item, it moves to the past-end sentinel (and reports
// false).
func (c *sequenceCursor) advanceLocal(allowPastEnd bool) bool {
	f := c.leaf()
	if f.idx < f.seq.Length()-1 {
		f.idx++
		return true
	}
	if allowPastEnd && f.idx < f.seq.Length() {
		f.idx = f.seq.Length()
	}
	return false
}

// before reports whether c's position sorts before other's, comparing
// frame indices top-down. Only meaningful for two cursors over the same
// tree lineage (used by the chunker's advanceTo).
func (c *sequenceCursor) before(other *sequenceCursor) bool {
	n := len(c.frames)
	if len(other.frames) < n {
		n = len(other.frames)
	}
	for i := 0; i < n; i++ {
		if c.frames[i].idx != other.frames[i].idx {
			return c.frames[i].idx < other.frames[i].idx
		}
	}
	return len(c.frames) < len(other.frames)
}

// iter calls cb with each item from the cursor's current position onward,
// stopping when cb returns true or the sequence is exhausted.
func (c *sequenceCursor) iter(ctx context.Context, cb func(item sequenceItem) (bool, error)) error {
	for c.valid() {
		stop, err := cb(c.current())
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
		if c.canAdvanceLocal() {
			c.advanceLocal(true)
			continue
		}
		if _, err := c.advance(ctx); err != nil {
			return err
		}
	}
	return nil
}
