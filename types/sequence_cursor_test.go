package types

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestList(t *testing.T, n int) (List, ValueReadWriter) {
	t.Helper()
	ctx := context.Background()
	vs := newTestValueStore()
	values := make([]Value, n)
	for i := range values {
		values[i] = Int(i)
	}
	l, err := NewList(ctx, vs, values...)
	require.NoError(t, err)
	return l, vs
}

func TestCursorAtIndexBasic(t *testing.T) {
	ctx := context.Background()
	l, _ := buildTestList(t, 10)

	cur, err := newCursorAtIndex(ctx, l.asSequence(), 3)
	require.NoError(t, err)
	assert.True(t, cur.valid())
	assert.Equal(t, Int(3), cur.current())
}

func TestCursorAtIndexPastEnd(t *testing.T) {
	ctx := context.Background()
	l, _ := buildTestList(t, 10)

	cur, err := newCursorAtIndex(ctx, l.asSequence(), 10)
	require.NoError(t, err)
	assert.False(t, cur.valid(), "index == length is a valid past-end position, not a real item")
}

func TestCursorAdvanceWalksEveryItem(t *testing.T) {
	ctx := context.Background()
	l, _ := buildTestList(t, 3000) // spans multiple chunks and a meta level

	cur, err := newCursorAtIndex(ctx, l.asSequence(), 0)
	require.NoError(t, err)

	count := 0
	for cur.valid() {
		assert.Equal(t, Int(count), cur.current())
		count++
		if _, err := cur.advance(ctx); err != nil {
			require.NoError(t, err)
		}
	}
	assert.Equal(t, 3000, count)
}

func TestCursorRetreatWalksEveryItemBackward(t *testing.T) {
	ctx := context.Background()
	l, _ := buildTestList(t, 3000)

	cur, err := newCursorAtIndex(ctx, l.asSequence(), 2999)
	require.NoError(t, err)

	count := 0
	for cur.valid() {
		assert.Equal(t, Int(2999-count), cur.current())
		count++
		if _, err := cur.retreat(ctx); err != nil {
			require.NoError(t, err)
		}
	}
	assert.Equal(t, 3000, count)
}

func TestCursorAtKeyFindsSmallestNotLess(t *testing.T) {
	ctx := context.Background()
	vs := newTestValueStore()
	s, err := NewSet(ctx, vs, Int(10), Int(20), Int(30))
	require.NoError(t, err)

	cur, err := newCursorAtValue(ctx, s.asSequence(), Int(15), false, false)
	require.NoError(t, err)
	assert.True(t, cur.valid())
	assert.Equal(t, Int(20), cur.current())
}

func TestCursorAtKeyForInsertionPastEndReachesLength(t *testing.T) {
	ctx := context.Background()
	vs := newTestValueStore()
	s, err := NewSet(ctx, vs, Int(10), Int(20), Int(30))
	require.NoError(t, err)

	cur, err := newCursorAtValue(ctx, s.asSequence(), Int(999), true, false)
	require.NoError(t, err)
	assert.False(t, cur.valid(), "inserting past the maximum must land on the true past-end position, not the last real item")
}

func TestCursorIterStopsEarly(t *testing.T) {
	ctx := context.Background()
	l, _ := buildTestList(t, 100)

	cur, err := newCursorAtIndex(ctx, l.asSequence(), 0)
	require.NoError(t, err)

	var seen []Value
	err = cur.iter(ctx, func(item sequenceItem) (bool, error) {
		seen = append(seen, item.(Value))
		return len(seen) == 5, nil
	})
	require.NoError(t, err)
	assert.Len(t, seen, 5)
}
