package types

import (
	"context"
	"io"

	"github.com/pkg/errors"

	"github.com/prollytree/prollytree/d"
	"github.com/prollytree/prollytree/hash"
)

// Blob is an ordered, indexed, immutable collection of bytes.
type Blob struct {
	seq sequence
}

func newBlob(seq sequence) Blob { return Blob{seq} }

func (b Blob) asSequence() sequence     { return b.seq }
func (b Blob) Kind() NomsKind           { return BlobKind }
func (b Blob) Len() uint64              { return b.seq.NumLeaves() }
func (b Blob) Empty() bool              { return b.Len() == 0 }
func (b Blob) IsOrderedByValue() bool   { return false }
func (b Blob) writeTo(w io.Writer) error { return b.seq.writeTo(w) }
func (b Blob) Hash() hash.Hash          { return hashOf(b) }

func (b Blob) Equals(other Value) bool {
	o, ok := other.(Blob)
	return ok && b.Hash().Equal(o.Hash())
}

func (b Blob) Less(other Value) bool {
	o, ok := other.(Blob)
	if !ok {
		return lessByKind(b, other)
	}
	return b.Hash().Less(o.Hash())
}

func newBlobLeafChunkFn(vrw ValueReadWriter) makeChunkFn {
	return func(level uint64, items []sequenceItem) (Collection, orderedKey, uint64, error) {
		d.PanicIfFalse(level == 0)
		data := make([]byte, len(items))
		for i, item := range items {
			data[i] = item.(byte)
		}
		seq := newBlobLeafSequence(vrw, data)
		return newBlob(seq), orderedKeyFromUint64(uint64(len(items))), uint64(len(items)), nil
	}
}

// NewBlob reads r to completion and builds a Blob from its bytes in one
// bulk pass. Simplification: the whole input is buffered in memory first
// rather than chunked incrementally off the stream; acceptable given this
// repository's in-memory-only ChunkStore (spec §11).
func NewBlob(ctx context.Context, vrw ValueReadWriter, r io.Reader) (Blob, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Blob{}, err
	}
	items := make([]sequenceItem, len(data))
	for i, b := range data {
		items[i] = b
	}
	seq, err := chunkSequenceSync(ctx, vrw, items, newBlobLeafChunkFn(vrw), newIndexedMetaSequenceChunkFn(BlobKind, vrw), hashBlobByte)
	if err != nil {
		return Blob{}, err
	}
	return newBlob(seq), nil
}

// ReadAt reads len(p) bytes of the Blob's content starting at off, with
// io.ReaderAt's result convention (io.EOF when fewer than len(p) bytes
// remain); it takes a context, so it does not itself satisfy io.ReaderAt.
func (b Blob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if off < 0 || uint64(off) > b.Len() {
		return 0, errors.Errorf("types: blob offset %d out of range (len %d)", off, b.Len())
	}
	cur, err := newCursorAtIndex(ctx, b.seq, uint64(off))
	if err != nil {
		return 0, err
	}
	n := 0
	for n < len(p) && cur.valid() {
		p[n] = cur.current().(byte)
		n++
		if !cur.canAdvanceLocal() {
			if _, err := cur.advance(ctx); err != nil {
				return n, err
			}
		} else {
			cur.advanceLocal(true)
		}
	}
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// NewReader returns a sequential, seekable io.Reader over the Blob's
// content.
func (b Blob) NewReader(ctx context.Context) *BlobReader {
	return &BlobReader{ctx: ctx, blob: b}
}

// BlobReader is a stateful, sequential io.Reader over a Blob. It is not
// reentrant: a Read or Seek issued while another is in flight on the same
// reader fails with a busy error rather than racing the shared offset,
// mirroring chengzhongnan-dolt/go/store/types/blob.go's BlobReader.
type BlobReader struct {
	ctx    context.Context
	blob   Blob
	offset int64
	busy   bool
}

func (r *BlobReader) Read(p []byte) (int, error) {
	if r.busy {
		return 0, errors.New("types: BlobReader is busy")
	}
	r.busy = true
	defer func() { r.busy = false }()

	n, err := r.blob.ReadAt(r.ctx, p, r.offset)
	r.offset += int64(n)
	return n, err
}

// Seek implements io.Seeker: whence selects the origin (0 start of blob,
// 1 current offset, 2 end of blob), mirroring the cited source's Seek.
func (r *BlobReader) Seek(offset int64, whence int) (int64, error) {
	if r.busy {
		return 0, errors.New("types: BlobReader is busy")
	}
	r.busy = true
	defer func() { r.busy = false }()

	abs := r.offset
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs += offset
	case io.SeekEnd:
		abs = int64(r.blob.Len()) + offset
	default:
		return 0, errors.New("types: BlobReader.Seek: invalid whence")
	}
	if abs < 0 {
		return 0, errors.New("types: BlobReader.Seek: negative position")
	}

	r.offset = abs
	return abs, nil
}

// Splice replaces removeCount bytes starting at idx with insert's content.
func (b Blob) Splice(ctx context.Context, vrw ValueReadWriter, idx, removeCount uint64, insert io.Reader) (Blob, error) {
	cur, err := newCursorAtIndex(ctx, b.seq, idx)
	if err != nil {
		return Blob{}, err
	}
	var items []sequenceItem
	if insert != nil {
		data, err := io.ReadAll(insert)
		if err != nil {
			return Blob{}, err
		}
		items = make([]sequenceItem, len(data))
		for i, by := range data {
			items[i] = by
		}
	}
	seq, err := chunkSequence(ctx, cur, vrw, items, removeCount, newBlobLeafChunkFn(vrw), newIndexedMetaSequenceChunkFn(BlobKind, vrw), hashBlobByte)
	if err != nil {
		return Blob{}, err
	}
	return newBlob(seq), nil
}

// Concat appends other to the end of b, reusing both blobs' untouched
// internal chunks: a chunker is resumed at b's end, its resume cursor is
// then pointed at other's start via advanceTo, and Done replays other's
// content through the same rolling hash rather than treating the join as
// a from-scratch rebuild.
func (b Blob) Concat(ctx context.Context, vrw ValueReadWriter, other Blob) (Blob, error) {
	cur, err := newCursorAtIndex(ctx, b.seq, b.Len())
	if err != nil {
		return Blob{}, err
	}
	sc, err := newSequenceChunker(ctx, cur, 0, vrw, newBlobLeafChunkFn(vrw), newIndexedMetaSequenceChunkFn(BlobKind, vrw), hashBlobByte)
	if err != nil {
		return Blob{}, err
	}
	otherCur, err := newCursorAtIndex(ctx, other.seq, 0)
	if err != nil {
		return Blob{}, err
	}
	if err := sc.advanceTo(ctx, otherCur); err != nil {
		return Blob{}, err
	}
	seq, err := sc.Done(ctx)
	if err != nil {
		return Blob{}, err
	}
	return newBlob(seq), nil
}
