package types

import "context"

// Splice describes one edit between two Lists: SpRemoved values starting at
// SpAt in the "from" list were replaced by SpAdded values starting at
// SpFrom in the "to" list.
type Splice struct {
	SpAt      uint64
	SpRemoved uint64
	SpAdded   uint64
	SpFrom    uint64
}

// calcSplices compares from and to and returns the Splices describing how
// to turn one into the other.
//
// Simplification: rather than a minimal edit-distance diff, this finds the
// common prefix and common suffix and reports everything in between as a
// single replace splice. This is not always the shortest possible edit
// script, but it is exact (applying it to from reproduces to byte for
// byte) and it is the common case that matters for chunk reuse: an
// untouched prefix or suffix of a List is also an untouched prefix or
// suffix of its chunk boundaries, so Splice on the reported range still
// only rewrites the chunks that actually changed.
func calcSplices(ctx context.Context, from, to List) ([]Splice, error) {
	fv, err := from.Values(ctx)
	if err != nil {
		return nil, err
	}
	tv, err := to.Values(ctx)
	if err != nil {
		return nil, err
	}

	start := 0
	for start < len(fv) && start < len(tv) && fv[start].Equals(tv[start]) {
		start++
	}

	fEnd, tEnd := len(fv), len(tv)
	for fEnd > start && tEnd > start && fv[fEnd-1].Equals(tv[tEnd-1]) {
		fEnd--
		tEnd--
	}

	removed := uint64(fEnd - start)
	added := uint64(tEnd - start)
	if removed == 0 && added == 0 {
		return nil, nil
	}
	return []Splice{{SpAt: uint64(start), SpRemoved: removed, SpAdded: added, SpFrom: uint64(start)}}, nil
}

// Diff reports the Splices describing how to turn last into l.
func (l List) Diff(ctx context.Context, last List) ([]Splice, error) {
	return calcSplices(ctx, last, l)
}
