// Package types implements the prolly-tree core: the rolling-hash chunker,
// the cursor machinery that navigates a tree of chunks, the mutation
// algorithm that rebuilds a tree after a splice, and the List/Map/Set/Blob
// façades built on top of them. The value encoding/type system, persistent
// chunk store I/O, and dataset/commit logic that sit around this in a full
// database are explicitly out of scope (see SPEC_FULL.md) — this package
// only needs Value to be opaque, totally ordered, and byte-serializable.
package types

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"

	"github.com/prollytree/prollytree/d"
	"github.com/prollytree/prollytree/hash"
)

// NomsKind tags the concrete shape of a Value, both for dynamic dispatch
// and as the first byte of a chunk's persisted encoding.
type NomsKind uint8

const (
	BoolKind NomsKind = iota
	IntKind
	FloatKind
	StringKind
	BlobKind
	ListKind
	MapKind
	SetKind
)

func (k NomsKind) String() string {
	switch k {
	case BoolKind:
		return "Bool"
	case IntKind:
		return "Int"
	case FloatKind:
		return "Float"
	case StringKind:
		return "String"
	case BlobKind:
		return "Blob"
	case ListKind:
		return "List"
	case MapKind:
		return "Map"
	case SetKind:
		return "Set"
	default:
		return "Unknown"
	}
}

// isCollectionKind reports whether k identifies one of the four collection
// façades rather than a scalar.
func isCollectionKind(k NomsKind) bool {
	return k == BlobKind || k == ListKind || k == MapKind || k == SetKind
}

// Value is the opaque, totally ordered, content-hashable payload the core
// operates over. Primitives (Bool, Int, Float, String) and the collection
// façades (List, Map, Set, Blob) are the only implementations — the
// interface carries an unexported method so no other package can add one,
// mirroring the teacher's sealed Value/NomsKind design.
type Value interface {
	Kind() NomsKind
	Equals(other Value) bool
	Less(other Value) bool
	Hash() hash.Hash

	// writeTo appends this value's canonical byte encoding to w. The same
	// bytes are fed to the rolling hasher (§4.2) and persisted to the chunk
	// store (§6) — the two must never diverge, or chunk boundaries would
	// stop being a deterministic function of content.
	writeTo(w io.Writer) error

	// IsOrderedByValue reports whether this value sorts by its own payload
	// (true for every scalar) or must be approximated by its content hash
	// because materializing it to compare would mean reading a subtree
	// (true for the collection façades). See OrderedKey.
	IsOrderedByValue() bool
}

// ValueSlice is a sortable, equatable list of Values.
type ValueSlice []Value

func (vs ValueSlice) Len() int           { return len(vs) }
func (vs ValueSlice) Less(i, j int) bool { return vs[i].Less(vs[j]) }
func (vs ValueSlice) Swap(i, j int)      { vs[i], vs[j] = vs[j], vs[i] }

func (vs ValueSlice) Equals(other ValueSlice) bool {
	if len(vs) != len(other) {
		return false
	}
	for i := range vs {
		if !vs[i].Equals(other[i]) {
			return false
		}
	}
	return true
}

// hashOf computes a Value's content hash from its canonical encoding. Used
// by every concrete Value's Hash() method.
func hashOf(v Value) hash.Hash {
	var buf bytes.Buffer
	d.PanicIfError(v.writeTo(&buf))
	return hash.Of(buf.Bytes())
}

// lessByKind orders values of different kinds by their NomsKind, the
// arbitrary-but-fixed tiebreak every implementation must agree on (mirrors
// OrderedKey's value-before-hash rule one level up, at the scalar level).
func lessByKind(a, b Value) bool {
	return a.Kind() < b.Kind()
}

// --- Bool ---

// Bool is a boolean Value.
type Bool bool

func (b Bool) Kind() NomsKind           { return BoolKind }
func (b Bool) IsOrderedByValue() bool   { return true }
func (b Bool) Hash() hash.Hash          { return hashOf(b) }
func (b Bool) Equals(other Value) bool  { o, ok := other.(Bool); return ok && b == o }
func (b Bool) writeTo(w io.Writer) error {
	if err := writeUint8(w, uint8(BoolKind)); err != nil {
		return err
	}
	v := uint8(0)
	if b {
		v = 1
	}
	return writeUint8(w, v)
}
func (b Bool) Less(other Value) bool {
	o, ok := other.(Bool)
	if !ok {
		return lessByKind(b, other)
	}
	return !bool(b) && bool(o)
}

// --- Int ---

// Int is a signed 64-bit integer Value.
type Int int64

func (i Int) Kind() NomsKind          { return IntKind }
func (i Int) IsOrderedByValue() bool  { return true }
func (i Int) Hash() hash.Hash         { return hashOf(i) }
func (i Int) Equals(other Value) bool { o, ok := other.(Int); return ok && i == o }
func (i Int) writeTo(w io.Writer) error {
	if err := writeUint8(w, uint8(IntKind)); err != nil {
		return err
	}
	return writeUint64(w, uint64(i))
}
func (i Int) Less(other Value) bool {
	o, ok := other.(Int)
	if !ok {
		return lessByKind(i, other)
	}
	return i < o
}

// --- Float ---

// Float is a 64-bit floating point Value.
type Float float64

func (f Float) Kind() NomsKind          { return FloatKind }
func (f Float) IsOrderedByValue() bool  { return true }
func (f Float) Hash() hash.Hash         { return hashOf(f) }
func (f Float) Equals(other Value) bool { o, ok := other.(Float); return ok && f == o }
func (f Float) writeTo(w io.Writer) error {
	if err := writeUint8(w, uint8(FloatKind)); err != nil {
		return err
	}
	return writeUint64(w, math.Float64bits(float64(f)))
}
func (f Float) Less(other Value) bool {
	o, ok := other.(Float)
	if !ok {
		return lessByKind(f, other)
	}
	return f < o
}

// --- String ---

// String is a UTF-8 string Value.
type String string

func (s String) Kind() NomsKind          { return StringKind }
func (s String) IsOrderedByValue() bool  { return true }
func (s String) Hash() hash.Hash         { return hashOf(s) }
func (s String) Equals(other Value) bool { o, ok := other.(String); return ok && s == o }
func (s String) writeTo(w io.Writer) error {
	if err := writeUint8(w, uint8(StringKind)); err != nil {
		return err
	}
	return writeBytes(w, []byte(s))
}
func (s String) Less(other Value) bool {
	o, ok := other.(String)
	if !ok {
		return lessByKind(s, other)
	}
	return s < o
}

// --- shared byte-level encoding helpers ---
//
// These are the "identical byte sequence used for persistence" (spec §4.2)
// that both the rolling hasher and the chunk codec call through.

func writeUint8(w io.Writer, v uint8) error {
	_, err := w.Write([]byte{v})
	return err
}

func writeUint32(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func writeUint64(w io.Writer, v uint64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func writeBytes(w io.Writer, b []byte) error {
	if err := writeUint32(w, uint32(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

func readUint8(r io.Reader) (uint8, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func readUint32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

func readUint64(r io.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(buf[:]), nil
}

func readBytes(r io.Reader) ([]byte, error) {
	n, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}
