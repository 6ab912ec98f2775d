package types

import "io"

// mapLeafSequence is a Map's leaf node: key/value pairs sorted by key.
type mapLeafSequence struct {
	leafSequence
}

func newMapLeafSequence(vrw ValueReadWriter, entries []mapEntry) mapLeafSequence {
	items := make([]sequenceItem, len(entries))
	for i, e := range entries {
		items[i] = e
	}
	return mapLeafSequence{leafSequence{vrw: vrw, kind: MapKind, items: items}}
}

func (m mapLeafSequence) GetKey(i int) orderedKey {
	return newOrderedKey(m.items[i].(mapEntry).k)
}

func (m mapLeafSequence) writeTo(w io.Writer) error {
	if err := writeUint8(w, uint8(MapKind)); err != nil {
		return err
	}
	if err := writeUint8(w, 0); err != nil {
		return err
	}
	if err := writeUint32(w, uint32(len(m.items))); err != nil {
		return err
	}
	for _, item := range m.items {
		e := item.(mapEntry)
		if err := e.k.writeTo(w); err != nil {
			return err
		}
		if err := e.v.writeTo(w); err != nil {
			return err
		}
	}
	return nil
}
