package types

import (
	"context"
	"io"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBlobAndReadAt(t *testing.T) {
	ctx := context.Background()
	vs := newTestValueStore()

	b, err := NewBlob(ctx, vs, strings.NewReader("0123456789"))
	require.NoError(t, err)
	assert.Equal(t, uint64(10), b.Len())

	buf := make([]byte, 4)
	n, err := b.ReadAt(ctx, buf, 3)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "3456", string(buf))
}

func TestBlobReadAtOutOfRange(t *testing.T) {
	ctx := context.Background()
	vs := newTestValueStore()

	b, err := NewBlob(ctx, vs, strings.NewReader("abc"))
	require.NoError(t, err)

	_, err = b.ReadAt(ctx, make([]byte, 1), 10)
	assert.Error(t, err)
}

func TestBlobNewReaderSequential(t *testing.T) {
	ctx := context.Background()
	vs := newTestValueStore()

	// Non-repeating digits, about 40 KB: many chunks at ~2 KiB each.
	var sb strings.Builder
	for i := 0; sb.Len() < 40000; i++ {
		sb.WriteString(strconv.Itoa(i))
	}
	content := sb.String()
	b, err := NewBlob(ctx, vs, strings.NewReader(content))
	require.NoError(t, err)

	data, err := io.ReadAll(b.NewReader(ctx))
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestBlobSplice(t *testing.T) {
	ctx := context.Background()
	vs := newTestValueStore()

	b, err := NewBlob(ctx, vs, strings.NewReader("hello world"))
	require.NoError(t, err)

	b, err = b.Splice(ctx, vs, 6, 5, strings.NewReader("there"))
	require.NoError(t, err)

	data, err := io.ReadAll(b.NewReader(ctx))
	require.NoError(t, err)
	assert.Equal(t, "hello there", string(data))
}

func TestBlobConcat(t *testing.T) {
	ctx := context.Background()
	vs := newTestValueStore()

	a, err := NewBlob(ctx, vs, strings.NewReader(strings.Repeat("a", 3000)))
	require.NoError(t, err)
	b, err := NewBlob(ctx, vs, strings.NewReader(strings.Repeat("b", 3000)))
	require.NoError(t, err)

	joined, err := a.Concat(ctx, vs, b)
	require.NoError(t, err)
	assert.Equal(t, uint64(6000), joined.Len())

	data, err := io.ReadAll(joined.NewReader(ctx))
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("a", 3000)+strings.Repeat("b", 3000), string(data))
}

func TestBlobReaderSeek(t *testing.T) {
	ctx := context.Background()
	vs := newTestValueStore()

	data := make([]byte, 1000)
	for i := range data {
		data[i] = byte(i)
	}
	b, err := NewBlob(ctx, vs, strings.NewReader(string(data)))
	require.NoError(t, err)

	r := b.NewReader(ctx)

	pos, err := r.Seek(500, io.SeekStart)
	require.NoError(t, err)
	assert.Equal(t, int64(500), pos)
	buf := make([]byte, 4)
	n, err := r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []byte{data[500], data[501], data[502], data[503]}, buf)

	pos, err = r.Seek(-100, io.SeekEnd)
	require.NoError(t, err)
	assert.Equal(t, int64(900), pos)
	n, err = r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []byte{data[900], data[901], data[902], data[903]}, buf)

	_, err = r.Seek(-1, io.SeekStart)
	assert.Error(t, err)
	_, err = r.Seek(0, 99)
	assert.Error(t, err)
}

func TestBlobReaderBusyRejectsReentrantUse(t *testing.T) {
	ctx := context.Background()
	vs := newTestValueStore()

	b, err := NewBlob(ctx, vs, strings.NewReader("hello world"))
	require.NoError(t, err)

	r := b.NewReader(ctx)
	r.busy = true

	_, err = r.Read(make([]byte, 1))
	assert.Error(t, err)
	_, err = r.Seek(0, io.SeekStart)
	assert.Error(t, err)
}

func TestBlobEquals(t *testing.T) {
	ctx := context.Background()
	vs := newTestValueStore()

	a, err := NewBlob(ctx, vs, strings.NewReader("same"))
	require.NoError(t, err)
	b, err := NewBlob(ctx, vs, strings.NewReader("same"))
	require.NoError(t, err)
	c, err := NewBlob(ctx, vs, strings.NewReader("different"))
	require.NoError(t, err)

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
}
