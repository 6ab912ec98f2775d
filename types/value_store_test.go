package types

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prollytree/prollytree/chunks"
)

func TestValueStoreWriteReadRoundTrip(t *testing.T) {
	ctx := context.Background()
	vs := newTestValueStore()

	ref, err := vs.WriteValue(ctx, String("payload"))
	require.NoError(t, err)
	assert.False(t, ref.TargetHash.IsEmpty())
	assert.Equal(t, uint64(0), ref.Height, "scalar values have height 0")

	got, err := vs.ReadValue(ctx, ref.TargetHash)
	require.NoError(t, err)
	assert.True(t, String("payload").Equals(got))
}

func TestValueStoreWriteIsIdempotentByContent(t *testing.T) {
	ctx := context.Background()
	cs := chunks.NewMemoryStore()
	vs := NewValueStore(cs)

	ref1, err := vs.WriteValue(ctx, Int(42))
	require.NoError(t, err)
	ref2, err := vs.WriteValue(ctx, Int(42))
	require.NoError(t, err)

	assert.Equal(t, ref1.TargetHash, ref2.TargetHash)
	assert.Equal(t, 1, cs.Len())
}

func TestValueStoreHeightReflectsMetaDepth(t *testing.T) {
	ctx := context.Background()
	vs := newTestValueStore()

	values := make([]Value, 0, 4000)
	for i := 0; i < 4000; i++ {
		values = append(values, Int(i))
	}
	l, err := NewList(ctx, vs, values...)
	require.NoError(t, err)

	ref, err := vs.WriteValue(ctx, l)
	require.NoError(t, err)
	// A list this large is expected to need at least one level of
	// meta-chunking above the leaves.
	assert.True(t, ref.Height >= 1, "expected a multi-level tree, got height %d", ref.Height)
}
