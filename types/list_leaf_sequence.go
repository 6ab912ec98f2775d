package types

import "io"

// listLeafSequence is a List's leaf node: items in positional order.
type listLeafSequence struct {
	leafSequence
}

func newListLeafSequence(vrw ValueReadWriter, items []sequenceItem) listLeafSequence {
	return listLeafSequence{leafSequence{vrw: vrw, kind: ListKind, items: items}}
}

// GetKey returns the item's local position: List isn't ordered by value, so
// this key only matters as a placeholder satisfying the sequence interface
// (List cursor descent uses CumulativeNumberOfLeaves, not GetKey).
func (l listLeafSequence) GetKey(i int) orderedKey {
	return orderedKeyFromUint64(uint64(i))
}

func (l listLeafSequence) writeTo(w io.Writer) error {
	if err := writeUint8(w, uint8(ListKind)); err != nil {
		return err
	}
	if err := writeUint8(w, 0); err != nil {
		return err
	}
	if err := writeUint32(w, uint32(len(l.items))); err != nil {
		return err
	}
	for _, item := range l.items {
		if err := item.(Value).writeTo(w); err != nil {
			return err
		}
	}
	return nil
}
