package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoolValue(t *testing.T) {
	assert.Equal(t, BoolKind, Bool(true).Kind())
	assert.True(t, Bool(true).Equals(Bool(true)))
	assert.False(t, Bool(true).Equals(Bool(false)))
	assert.True(t, Bool(false).Less(Bool(true)))
	assert.False(t, Bool(true).Less(Bool(false)))
}

func TestIntValue(t *testing.T) {
	assert.True(t, Int(1).Less(Int(2)))
	assert.False(t, Int(2).Less(Int(1)))
	assert.True(t, Int(5).Equals(Int(5)))
	assert.NotEqual(t, Int(5).Hash(), Int(6).Hash())
}

func TestFloatValue(t *testing.T) {
	assert.True(t, Float(1.5).Less(Float(2.5)))
	assert.True(t, Float(1.5).Equals(Float(1.5)))
}

func TestStringValue(t *testing.T) {
	assert.True(t, String("a").Less(String("b")))
	assert.True(t, String("abc").Equals(String("abc")))
	assert.Equal(t, String("x").Hash(), String("x").Hash())
}

func TestCrossKindOrdering(t *testing.T) {
	// BoolKind < IntKind < FloatKind < StringKind
	assert.True(t, Bool(true).Less(Int(0)))
	assert.True(t, Int(0).Less(Float(0)))
	assert.True(t, Float(0).Less(String("")))
	assert.False(t, String("").Less(Bool(true)))
}

func TestHashIsDeterministicAndContentSensitive(t *testing.T) {
	a := String("hello")
	b := String("hello")
	c := String("world")
	assert.Equal(t, a.Hash(), b.Hash())
	assert.NotEqual(t, a.Hash(), c.Hash())
}

func TestValueSliceEquals(t *testing.T) {
	a := ValueSlice{Int(1), Int(2), Int(3)}
	b := ValueSlice{Int(1), Int(2), Int(3)}
	c := ValueSlice{Int(1), Int(2)}
	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
}

func TestIsCollectionKind(t *testing.T) {
	assert.True(t, isCollectionKind(ListKind))
	assert.True(t, isCollectionKind(MapKind))
	assert.True(t, isCollectionKind(SetKind))
	assert.True(t, isCollectionKind(BlobKind))
	assert.False(t, isCollectionKind(IntKind))
	assert.False(t, isCollectionKind(BoolKind))
}

func TestNomsKindString(t *testing.T) {
	assert.Equal(t, "Bool", BoolKind.String())
	assert.Equal(t, "Set", SetKind.String())
	assert.Equal(t, "Unknown", NomsKind(255).String())
}
