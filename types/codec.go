package types

import (
	"bytes"
	"io"
	"math"

	"github.com/prollytree/prollytree/hash"
)

// EncodeValue returns v's canonical, persisted byte encoding (spec §6): a
// leading kind byte followed by the kind's own payload. For collections the
// payload is the chunk's sequence encoding (leaf items, or meta tuples).
func EncodeValue(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := v.writeTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeValue parses a single chunk's worth of bytes back into a Value.
// Nested nonscalar items (e.g. a collection used as a Map key) are decoded
// recursively inline; only the top-level sequence's own child refs go
// through vr.
func DecodeValue(vr ValueReader, data []byte) (Value, error) {
	r := bytes.NewReader(data)
	return decodeValue(vr, r)
}

func decodeValue(vr ValueReader, r io.Reader) (Value, error) {
	kindByte, err := readUint8(r)
	if err != nil {
		return nil, err
	}
	kind := NomsKind(kindByte)
	switch kind {
	case BoolKind:
		b, err := readUint8(r)
		if err != nil {
			return nil, err
		}
		return Bool(b != 0), nil
	case IntKind:
		n, err := readUint64(r)
		if err != nil {
			return nil, err
		}
		return Int(n), nil
	case FloatKind:
		n, err := readUint64(r)
		if err != nil {
			return nil, err
		}
		return Float(math.Float64frombits(n)), nil
	case StringKind:
		b, err := readBytes(r)
		if err != nil {
			return nil, err
		}
		return String(b), nil
	case ListKind, MapKind, SetKind, BlobKind:
		return decodeCollection(vr, kind, r)
	default:
		panic("types: unknown kind in encoding")
	}
}

func decodeCollection(vr ValueReader, kind NomsKind, r io.Reader) (Value, error) {
	isMeta, err := readUint8(r)
	if err != nil {
		return nil, err
	}
	if isMeta != 0 {
		seq, err := decodeMetaSequence(vr, kind, r)
		if err != nil {
			return nil, err
		}
		return wrapSequence(seq), nil
	}
	seq, err := decodeLeafSequence(vr, kind, r)
	if err != nil {
		return nil, err
	}
	return wrapSequence(seq), nil
}

func decodeMetaSequence(vr ValueReader, kind NomsKind, r io.Reader) (sequence, error) {
	level, err := readUint64(r)
	if err != nil {
		return nil, err
	}
	count, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	tuples := make([]metaTuple, count)
	for i := range tuples {
		var h hash.Hash
		if _, err := io.ReadFull(r, h[:]); err != nil {
			return nil, err
		}
		height, err := readUint64(r)
		if err != nil {
			return nil, err
		}
		key, err := readOrderedKey(vr, r)
		if err != nil {
			return nil, err
		}
		numLeaves, err := readUint64(r)
		if err != nil {
			return nil, err
		}
		tuples[i] = metaTuple{ref: Ref{TargetHash: h, Height: height}, key: key, numLeaves: numLeaves}
	}
	return newMetaSequence(vr, kind, level, tuples), nil
}

func decodeLeafSequence(vr ValueReader, kind NomsKind, r io.Reader) (sequence, error) {
	switch kind {
	case ListKind:
		items, err := readValueItems(vr, r)
		if err != nil {
			return nil, err
		}
		return newListLeafSequence(vr, items), nil
	case SetKind:
		items, err := readValueItems(vr, r)
		if err != nil {
			return nil, err
		}
		return newSetLeafSequence(vr, items), nil
	case MapKind:
		count, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		entries := make([]mapEntry, count)
		for i := range entries {
			k, err := decodeValue(vr, r)
			if err != nil {
				return nil, err
			}
			v, err := decodeValue(vr, r)
			if err != nil {
				return nil, err
			}
			entries[i] = mapEntry{k, v}
		}
		return newMapLeafSequence(vr, entries), nil
	case BlobKind:
		b, err := readBytes(r)
		if err != nil {
			return nil, err
		}
		return newBlobLeafSequence(vr, b), nil
	default:
		panic("types: unknown leaf kind")
	}
}

func readValueItems(vr ValueReader, r io.Reader) ([]sequenceItem, error) {
	count, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	items := make([]sequenceItem, count)
	for i := range items {
		v, err := decodeValue(vr, r)
		if err != nil {
			return nil, err
		}
		items[i] = v
	}
	return items, nil
}

// wrapSequence wraps a freshly decoded sequence in its Collection façade.
func wrapSequence(seq sequence) Value {
	switch seq.Kind() {
	case ListKind:
		return newList(seq)
	case MapKind:
		return newMap(seq)
	case SetKind:
		return newSet(seq)
	case BlobKind:
		return newBlob(seq)
	default:
		panic("types: unknown collection kind")
	}
}

func writeOrderedKey(w io.Writer, k orderedKey) error {
	flag := uint8(0)
	if k.isOrderedByValue {
		flag = 1
	}
	if err := writeUint8(w, flag); err != nil {
		return err
	}
	if k.isOrderedByValue {
		return k.v.writeTo(w)
	}
	_, err := w.Write(k.h[:])
	return err
}

func readOrderedKey(vr ValueReader, r io.Reader) (orderedKey, error) {
	flag, err := readUint8(r)
	if err != nil {
		return orderedKey{}, err
	}
	if flag != 0 {
		v, err := decodeValue(vr, r)
		if err != nil {
			return orderedKey{}, err
		}
		return newOrderedKey(v), nil
	}
	var h hash.Hash
	if _, err := io.ReadFull(r, h[:]); err != nil {
		return orderedKey{}, err
	}
	return orderedKeyFromHash(h), nil
}
