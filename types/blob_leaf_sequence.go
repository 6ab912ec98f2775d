package types

import "io"

// blobLeafSequence is a Blob's leaf node: raw bytes, indexed by position
// like a List but hashed directly rather than through the Value envelope.
type blobLeafSequence struct {
	leafSequence
}

func newBlobLeafSequence(vrw ValueReadWriter, data []byte) blobLeafSequence {
	items := make([]sequenceItem, len(data))
	for i, b := range data {
		items[i] = b
	}
	return blobLeafSequence{leafSequence{vrw: vrw, kind: BlobKind, items: items}}
}

func (b blobLeafSequence) GetKey(i int) orderedKey {
	return orderedKeyFromUint64(uint64(i))
}

func (b blobLeafSequence) bytes() []byte {
	out := make([]byte, len(b.items))
	for i, item := range b.items {
		out[i] = item.(byte)
	}
	return out
}

func (b blobLeafSequence) writeTo(w io.Writer) error {
	if err := writeUint8(w, uint8(BlobKind)); err != nil {
		return err
	}
	if err := writeUint8(w, 0); err != nil {
		return err
	}
	return writeBytes(w, b.bytes())
}
