package types

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetDiffAddedRemoved(t *testing.T) {
	ctx := context.Background()
	vs := newTestValueStore()

	last, err := NewSet(ctx, vs, Int(1), Int(2), Int(3))
	require.NoError(t, err)
	current, err := NewSet(ctx, vs, Int(2), Int(3), Int(4))
	require.NoError(t, err)

	var changes []ValueChanged
	err = current.Diff(ctx, last, func(vc ValueChanged) (bool, error) {
		changes = append(changes, vc)
		return false, nil
	})
	require.NoError(t, err)

	require.Len(t, changes, 2)
	assert.Equal(t, DiffChangeRemoved, changes[0].ChangeType)
	assert.Equal(t, Int(1), changes[0].Key)
	assert.Equal(t, DiffChangeAdded, changes[1].ChangeType)
	assert.Equal(t, Int(4), changes[1].Key)
}

func TestSetDiffIdenticalIsNoop(t *testing.T) {
	ctx := context.Background()
	vs := newTestValueStore()

	a, err := NewSet(ctx, vs, Int(1), Int(2), Int(3))
	require.NoError(t, err)
	b, err := NewSet(ctx, vs, Int(1), Int(2), Int(3))
	require.NoError(t, err)

	called := false
	err = a.Diff(ctx, b, func(vc ValueChanged) (bool, error) {
		called = true
		return false, nil
	})
	require.NoError(t, err)
	assert.False(t, called)
}

func TestMapDiffModified(t *testing.T) {
	ctx := context.Background()
	vs := newTestValueStore()

	last, err := NewMap(ctx, vs, String("a"), Int(1), String("b"), Int(2))
	require.NoError(t, err)
	current, err := NewMap(ctx, vs, String("a"), Int(1), String("b"), Int(99))
	require.NoError(t, err)

	var changes []ValueChanged
	err = current.Diff(ctx, last, func(vc ValueChanged) (bool, error) {
		changes = append(changes, vc)
		return false, nil
	})
	require.NoError(t, err)

	require.Len(t, changes, 1)
	assert.Equal(t, DiffChangeModified, changes[0].ChangeType)
	assert.Equal(t, String("b"), changes[0].Key)
	assert.Equal(t, Int(2), changes[0].OldValue)
	assert.Equal(t, Int(99), changes[0].NewValue)
}

func TestSetDiffStopsEarly(t *testing.T) {
	ctx := context.Background()
	vs := newTestValueStore()

	last, err := NewSet(ctx, vs, Int(1), Int(2))
	require.NoError(t, err)
	current, err := NewSet(ctx, vs, Int(10), Int(20))
	require.NoError(t, err)

	count := 0
	err = current.Diff(ctx, last, func(vc ValueChanged) (bool, error) {
		count++
		return true, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
