package types

// newOrderedMetaSequenceChunkFn returns the makeChunkFn used above leaf
// level for value-ordered collections (Map, Set): the boundary key a parent
// tuple records is simply the largest (last) child's own key.
func newOrderedMetaSequenceChunkFn(kind NomsKind, vrw ValueReadWriter) makeChunkFn {
	return func(level uint64, items []sequenceItem) (Collection, orderedKey, uint64, error) {
		tuples := make([]metaTuple, len(items))
		var numLeaves uint64
		for i, item := range items {
			mt := item.(metaTuple)
			tuples[i] = mt
			numLeaves += mt.numLeaves
		}
		seq := newMetaSequence(vrw, kind, level, tuples)
		var key orderedKey
		if len(tuples) > 0 {
			key = tuples[len(tuples)-1].key
		}
		return wrapSequence(seq).(Collection), key, numLeaves, nil
	}
}

// newIndexedMetaSequenceChunkFn is the indexed-collection (List, Blob)
// counterpart: the boundary key is the cumulative leaf count, since these
// collections aren't ordered by value at all.
func newIndexedMetaSequenceChunkFn(kind NomsKind, vrw ValueReadWriter) makeChunkFn {
	return func(level uint64, items []sequenceItem) (Collection, orderedKey, uint64, error) {
		tuples := make([]metaTuple, len(items))
		var numLeaves uint64
		for i, item := range items {
			mt := item.(metaTuple)
			tuples[i] = mt
			numLeaves += mt.numLeaves
		}
		seq := newMetaSequence(vrw, kind, level, tuples)
		return wrapSequence(seq).(Collection), orderedKeyFromUint64(numLeaves), numLeaves, nil
	}
}
