package types

import "io"

// setLeafSequence is a Set's leaf node: distinct Values in sorted order.
type setLeafSequence struct {
	leafSequence
}

func newSetLeafSequence(vrw ValueReadWriter, items []sequenceItem) setLeafSequence {
	return setLeafSequence{leafSequence{vrw: vrw, kind: SetKind, items: items}}
}

func (s setLeafSequence) GetKey(i int) orderedKey {
	return newOrderedKey(s.items[i].(Value))
}

func (s setLeafSequence) writeTo(w io.Writer) error {
	if err := writeUint8(w, uint8(SetKind)); err != nil {
		return err
	}
	if err := writeUint8(w, 0); err != nil {
		return err
	}
	if err := writeUint32(w, uint32(len(s.items))); err != nil {
		return err
	}
	for _, item := range s.items {
		if err := item.(Value).writeTo(w); err != nil {
			return err
		}
	}
	return nil
}
