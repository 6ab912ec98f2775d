package types

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMapGetHas(t *testing.T) {
	ctx := context.Background()
	vs := newTestValueStore()

	m, err := NewMap(ctx, vs, String("a"), Int(1), String("b"), Int(2))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), m.Len())

	v, ok, err := m.Get(ctx, String("a"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, Int(1), v)

	_, ok, err = m.Get(ctx, String("missing"))
	require.NoError(t, err)
	assert.False(t, ok)

	has, err := m.Has(ctx, String("b"))
	require.NoError(t, err)
	assert.True(t, has)
}

func TestNewMapLastWriteWinsOnDuplicateKeys(t *testing.T) {
	ctx := context.Background()
	vs := newTestValueStore()

	m, err := NewMap(ctx, vs, String("a"), Int(1), String("a"), Int(2))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), m.Len())

	v, ok, err := m.Get(ctx, String("a"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, Int(2), v)
}

func TestMapSetOverwritesExisting(t *testing.T) {
	ctx := context.Background()
	vs := newTestValueStore()

	m, err := NewMap(ctx, vs, String("a"), Int(1))
	require.NoError(t, err)

	m, err = m.Set(ctx, vs, String("a"), Int(99), String("b"), Int(2))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), m.Len())

	v, ok, err := m.Get(ctx, String("a"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, Int(99), v)
}

func TestMapSetIsNoOpIfValueUnchanged(t *testing.T) {
	ctx := context.Background()
	vs := newTestValueStore()

	m, err := NewMap(ctx, vs, String("a"), Int(1), String("b"), Int(2))
	require.NoError(t, err)

	m2, err := m.Set(ctx, vs, String("a"), Int(1))
	require.NoError(t, err)
	assert.Equal(t, m.Hash(), m2.Hash())

	m3, err := m.Set(ctx, vs, String("a"), Int(99))
	require.NoError(t, err)
	assert.NotEqual(t, m.Hash(), m3.Hash())
}

func TestMapRemove(t *testing.T) {
	ctx := context.Background()
	vs := newTestValueStore()

	m, err := NewMap(ctx, vs, String("a"), Int(1), String("b"), Int(2))
	require.NoError(t, err)

	m, err = m.Remove(ctx, vs, String("a"))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), m.Len())

	_, ok, err := m.Get(ctx, String("a"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMapIterAllAscendingByKey(t *testing.T) {
	ctx := context.Background()
	vs := newTestValueStore()

	m, err := NewMap(ctx, vs, String("c"), Int(3), String("a"), Int(1), String("b"), Int(2))
	require.NoError(t, err)

	var keys []Value
	err = m.IterAll(ctx, func(k, v Value) error {
		keys = append(keys, k)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []Value{String("a"), String("b"), String("c")}, keys)
}

func TestMapFromChannel(t *testing.T) {
	ctx := context.Background()
	vs := newTestValueStore()

	ch := make(chan Value)
	go func() {
		defer close(ch)
		for i := 0; i < 10; i++ {
			ch <- Int(i)
			ch <- String("v")
		}
	}()

	m, err := NewMapFromChannel(ctx, vs, ch)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), m.Len())

	v, ok, err := m.Get(ctx, Int(5))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, String("v"), v)
}
