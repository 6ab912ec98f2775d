package types

import (
	"context"

	"github.com/prollytree/prollytree/d"
)

// makeChunkFn builds one chunk's worth of items into a Collection façade at
// the given tree level, returning the façade, the boundary key a parent
// tuple should record for it, and its leaf count.
type makeChunkFn func(level uint64, items []sequenceItem) (Collection, orderedKey, uint64, error)

// sequenceChunker is the algorithm behind every List/Map/Set/Blob mutation
// (spec §4.5): it replays a prefix of an existing tree, appends and skips
// items at the edit point, and emits new chunks whenever the rolling hasher
// finds a boundary, building a new tree whose unaffected chunks are
// byte-for-byte identical to the old ones.
//
// Persistence is lazy at the tail: the most recently produced chunk at each
// level is held in memory (hasUnwritten) rather than written immediately,
// because until another chunk is produced at that level (or a parent is
// created) it might turn out to be the new root and never need a ref of
// its own. The moment a second chunk is produced, or Done is forced to
// create a parent, the held chunk is written and handed up as a metaTuple.
//
// Simplification from the spec's §4.5 "reuse shortcut": resuming from a
// cursor and finalizing at Done both replay every remaining old item
// through Append/appendItem rather than splicing in untouched old
// subtrees directly. Because the rolling hash is a deterministic function
// of the replayed bytes, this reproduces byte-identical chunks for
// unchanged regions, so WriteValue's idempotent-by-hash behavior still
// gives chunk reuse at the store layer — just without the O(depth) CPU
// bound the shortcut buys. See DESIGN.md.
type sequenceChunker struct {
	level           uint64
	cur             *sequenceCursor
	current         []sequenceItem
	rv              *rollingValueHasher
	parent          *sequenceChunker
	makeChunk       makeChunkFn
	parentMakeChunk makeChunkFn
	hashItem        hashItemFn
	done            bool
	vrw             ValueReadWriter

	hasUnwritten    bool
	unwrittenSeq    sequence
	unwrittenKey    orderedKey
	unwrittenLeaves uint64
}

// newSequenceChunker starts a chunker resuming from cur, which must be
// positioned at the given tree level (nil for bulk construction with no
// prior tree). The items before cur's position in its current chunk are
// replayed so the rolling hash state matches what it would have been had
// this chunker been building up to this point all along. If cur has a
// parent frame, the parent chunker is created at once and replays that
// frame's prefix the same way; only this chunker keeps walking the old
// tree past the edit point.
func newSequenceChunker(ctx context.Context, cur *sequenceCursor, level uint64, vrw ValueReadWriter, makeChunk, parentMakeChunk makeChunkFn, hashItem hashItemFn) (*sequenceChunker, error) {
	sc := &sequenceChunker{
		level:           level,
		vrw:             vrw,
		makeChunk:       makeChunk,
		parentMakeChunk: parentMakeChunk,
		hashItem:        hashItem,
		rv:              newRollingValueHasher(byte(level % 256)),
	}
	if cur == nil {
		return sc, nil
	}
	resumeCur := cur.clone()
	f := resumeCur.leaf()
	idx := f.idx
	if idx < 0 {
		idx = 0
	}
	for i := 0; i < idx; i++ {
		if _, err := sc.appendItem(ctx, f.seq.Item(i)); err != nil {
			return nil, err
		}
	}
	sc.cur = resumeCur
	if parentCur := resumeCur.parentCursor(); parentCur != nil {
		parent, err := newSequenceChunker(ctx, parentCur, level+1, vrw, parentMakeChunk, parentMakeChunk, metaHashValueBytes)
		if err != nil {
			return nil, err
		}
		parent.cur = nil
		sc.parent = parent
	}
	return sc, nil
}

// Append adds item as the next item in the sequence being built.
func (sc *sequenceChunker) Append(ctx context.Context, item sequenceItem) error {
	_, err := sc.appendItem(ctx, item)
	return err
}

func (sc *sequenceChunker) appendItem(ctx context.Context, item sequenceItem) (crossed bool, err error) {
	d.PanicIfTrue(sc.done)
	sc.current = append(sc.current, item)
	if err := sc.hashItem(item, sc.rv); err != nil {
		return false, err
	}
	if !sc.rv.crossedBoundary {
		return false, nil
	}
	if err := sc.handleChunkBoundary(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// Skip advances past one item of the resumed tree without appending it to
// the sequence being built: the item is deleted.
func (sc *sequenceChunker) Skip(ctx context.Context) error {
	d.PanicIfTrue(sc.cur == nil)
	_, err := sc.cur.advance(ctx)
	return err
}

func (sc *sequenceChunker) handleChunkBoundary(ctx context.Context) error {
	d.PanicIfFalse(len(sc.current) > 0)
	sc.rv.Reset()
	col, key, numLeaves, err := sc.makeChunk(sc.level, sc.current)
	if err != nil {
		return err
	}
	sc.current = nil
	return sc.pushChunk(ctx, col.asSequence(), key, numLeaves)
}

// pushChunk records seq as this chunker's newest produced chunk. Any
// previously held (unwritten) chunk is now known not to be the level's
// only chunk, so it is written and handed to the parent first.
func (sc *sequenceChunker) pushChunk(ctx context.Context, seq sequence, key orderedKey, numLeaves uint64) error {
	if sc.hasUnwritten {
		if err := sc.flushUnwrittenToParent(ctx); err != nil {
			return err
		}
	}
	sc.unwrittenSeq, sc.unwrittenKey, sc.unwrittenLeaves, sc.hasUnwritten = seq, key, numLeaves, true
	return nil
}

func (sc *sequenceChunker) flushUnwrittenToParent(ctx context.Context) error {
	seq, key, numLeaves := sc.unwrittenSeq, sc.unwrittenKey, sc.unwrittenLeaves
	sc.hasUnwritten = false
	sc.unwrittenSeq = nil
	ref, err := sc.writeChunk(ctx, seq)
	if err != nil {
		return err
	}
	if sc.parent == nil {
		if err := sc.createParent(ctx); err != nil {
			return err
		}
	}
	return sc.parent.Append(ctx, metaTuple{ref: ref, key: key, numLeaves: numLeaves, child: seq})
}

func (sc *sequenceChunker) writeChunk(ctx context.Context, seq sequence) (Ref, error) {
	return sc.vrw.WriteValue(ctx, wrapSequence(seq))
}

// createParent lazily creates the chunker for the level above this one
// when none was created at resume time (see newSequenceChunker), resuming
// from this cursor's parent frame if it has one.
func (sc *sequenceChunker) createParent(ctx context.Context) error {
	d.PanicIfFalse(sc.parent == nil)
	var parentCur *sequenceCursor
	if sc.cur != nil {
		parentCur = sc.cur.parentCursor()
	}
	parent, err := newSequenceChunker(ctx, parentCur, sc.level+1, sc.vrw, sc.parentMakeChunk, sc.parentMakeChunk, metaHashValueBytes)
	if err != nil {
		return err
	}
	sc.parent = parent
	return nil
}

// advanceTo realigns the resumed cursor to next, replaying any items
// strictly between the current position and next through Append so the
// chunker's state matches having built up to next all along. See the type
// doc comment for why this replays rather than splicing in untouched
// subtrees.
func (sc *sequenceChunker) advanceTo(ctx context.Context, next *sequenceCursor) error {
	if sc.cur == nil {
		sc.cur = next
		return nil
	}
	for sc.cur.valid() && sc.cur.before(next) {
		item := sc.cur.current()
		if _, err := sc.appendItem(ctx, item); err != nil {
			return err
		}
		if _, err := sc.cur.advance(ctx); err != nil {
			return err
		}
	}
	sc.cur = next
	return nil
}

// Done finishes the sequence being built and returns its root. Persistence
// of the root itself is left to the caller: Done only ever writes a chunk
// when it is forced to create a parent (i.e. when it is proven not to be
// the root).
func (sc *sequenceChunker) Done(ctx context.Context) (sequence, error) {
	d.PanicIfTrue(sc.done)
	sc.done = true

	if sc.cur != nil {
		if err := sc.finalizeCursor(ctx); err != nil {
			return nil, err
		}
	}

	if sc.parent != nil {
		if len(sc.current) > 0 {
			col, key, numLeaves, err := sc.makeChunk(sc.level, sc.current)
			if err != nil {
				return nil, err
			}
			sc.current = nil
			if err := sc.pushChunk(ctx, col.asSequence(), key, numLeaves); err != nil {
				return nil, err
			}
		}
		if sc.hasUnwritten {
			if err := sc.flushUnwrittenToParent(ctx); err != nil {
				return nil, err
			}
		}
		return sc.parent.Done(ctx)
	}

	if len(sc.current) == 0 {
		if sc.hasUnwritten {
			return sc.finalizeRoot(ctx, sc.unwrittenSeq)
		}
		col, _, _, err := sc.makeChunk(sc.level, nil)
		if err != nil {
			return nil, err
		}
		return sc.finalizeRoot(ctx, col.asSequence())
	}

	col, key, numLeaves, err := sc.makeChunk(sc.level, sc.current)
	if err != nil {
		return nil, err
	}
	sc.current = nil
	seq := col.asSequence()

	if !sc.hasUnwritten {
		return sc.finalizeRoot(ctx, seq)
	}

	// Two sibling chunks exist at this level: it can no longer be the
	// root, so both must be written and handed up to a (possibly
	// newly-created) parent.
	if err := sc.createParent(ctx); err != nil {
		return nil, err
	}
	if err := sc.flushUnwrittenToParent(ctx); err != nil {
		return nil, err
	}
	ref, err := sc.writeChunk(ctx, seq)
	if err != nil {
		return nil, err
	}
	if err := sc.parent.Append(ctx, metaTuple{ref: ref, key: key, numLeaves: numLeaves, child: seq}); err != nil {
		return nil, err
	}
	return sc.parent.Done(ctx)
}

// finalizeRoot handles the edge case where the content built at the
// highest level reached is a meta sequence with exactly one tuple: that
// single tuple is not itself meaningful as a root, so descend through any
// chain of singleton meta levels until reaching a leaf or a multi-entry
// meta sequence.
func (sc *sequenceChunker) finalizeRoot(ctx context.Context, seq sequence) (sequence, error) {
	for seq.IsMeta() && seq.Length() == 1 {
		child, err := seq.GetChildSequence(ctx, 0)
		if err != nil {
			return nil, err
		}
		seq = child
	}
	return seq, nil
}

// finalizeCursor replays every remaining item from the resumed cursor to
// the end of its tree. See the type doc comment: this is a simplified,
// always-correct stand-in for the spec's O(depth) realignment shortcut.
func (sc *sequenceChunker) finalizeCursor(ctx context.Context) error {
	cur := sc.cur
	sc.cur = nil
	for cur.valid() {
		item := cur.current()
		if _, err := sc.appendItem(ctx, item); err != nil {
			return err
		}
		more, err := cur.advance(ctx)
		if err != nil {
			return err
		}
		if !more {
			break
		}
	}
	return nil
}

// chunkSequence is the top-level mutation entry point (spec §4.6): given a
// cursor positioned at the edit point (nil for bulk construction), it
// inserts the items in insert, then deletes removeCount items, and returns
// the resulting tree's new root sequence.
func chunkSequence(ctx context.Context, cur *sequenceCursor, vrw ValueReadWriter, insert []sequenceItem, removeCount uint64, makeChunk, parentMakeChunk makeChunkFn, hashItem hashItemFn) (sequence, error) {
	sc, err := newSequenceChunker(ctx, cur, 0, vrw, makeChunk, parentMakeChunk, hashItem)
	if err != nil {
		return nil, err
	}
	for _, item := range insert {
		if err := sc.Append(ctx, item); err != nil {
			return nil, err
		}
	}
	for i := uint64(0); i < removeCount; i++ {
		if err := sc.Skip(ctx); err != nil {
			return nil, err
		}
	}
	return sc.Done(ctx)
}

// chunkSequenceSync is chunkSequence specialized to the case where there is
// no existing tree to resume from (bulk construction from an in-memory
// slice): with cur always nil, it is the same algorithm without any store
// reads, kept as a distinct name to mirror the spec's sync/async split
// even though this implementation is synchronous throughout.
func chunkSequenceSync(ctx context.Context, vrw ValueReadWriter, items []sequenceItem, makeChunk, parentMakeChunk makeChunkFn, hashItem hashItemFn) (sequence, error) {
	return chunkSequence(ctx, nil, vrw, items, 0, makeChunk, parentMakeChunk, hashItem)
}
