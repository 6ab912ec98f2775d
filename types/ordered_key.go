package types

import "github.com/prollytree/prollytree/hash"

// orderedKey is the totally-ordered boundary key a MetaSequence tuple
// carries for its subtree: either the wrapped Value itself (when it sorts
// by its own content) or the Value's content hash (when comparing the
// value directly would mean materializing a subtree). Value-ordered keys
// always sort before hash-ordered ones — an arbitrary but fixed tiebreak,
// matching Value.IsOrderedByValue's split between scalars and collections.
type orderedKey struct {
	isOrderedByValue bool
	v                Value
	h                hash.Hash
}

// newOrderedKey derives a key from a Value, picking value- or hash-order
// per v.IsOrderedByValue.
func newOrderedKey(v Value) orderedKey {
	if v.IsOrderedByValue() {
		return orderedKey{isOrderedByValue: true, v: v}
	}
	return orderedKey{isOrderedByValue: false, h: v.Hash()}
}

// orderedKeyFromHash builds a hash-ordered key directly, used when only the
// target hash is known (e.g. reconstituting a MetaTuple from storage).
func orderedKeyFromHash(h hash.Hash) orderedKey {
	return orderedKey{isOrderedByValue: false, h: h}
}

// orderedKeyFromUint64 wraps a cumulative position as a value-ordered key,
// used by List and Blob meta tuples, which are indexed rather than ordered
// by value.
func orderedKeyFromUint64(n uint64) orderedKey {
	return orderedKey{isOrderedByValue: true, v: Int(n)}
}

// emptyKey is the sentinel "no key" used to seek to the very first or very
// last item of a sequence (see newCursorAtKey).
var emptyKey = orderedKey{}

func (k orderedKey) isEmpty() bool {
	return !k.isOrderedByValue && k.v == nil && k.h.IsEmpty()
}

// Less reports whether k sorts before other.
func (k orderedKey) Less(other orderedKey) bool {
	if k.isOrderedByValue != other.isOrderedByValue {
		return k.isOrderedByValue
	}
	if k.isOrderedByValue {
		return k.v.Less(other.v)
	}
	return k.h.Less(other.h)
}

// Equals reports whether k and other represent the same boundary.
func (k orderedKey) Equals(other orderedKey) bool {
	if k.isOrderedByValue != other.isOrderedByValue {
		return false
	}
	if k.isOrderedByValue {
		return k.v.Equals(other.v)
	}
	return k.h.Equal(other.h)
}

func (k orderedKey) uint64Value() uint64 {
	i, ok := k.v.(Int)
	if !ok {
		panic("orderedKey: not an indexed key")
	}
	return uint64(i)
}
