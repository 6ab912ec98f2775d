// Package chunks defines the persisted-chunk storage contract that sits
// below the prolly-tree core. The core (package types) only ever talks to
// a ValueReader/ValueReadWriter; this package supplies the one concrete,
// in-memory ChunkStore used to back that contract in tests and examples.
// Spec-scoped: real durable backends (disk, S3, GCS, ...) are explicitly
// out of scope (see SPEC_FULL.md §11) and are not implemented here.
package chunks

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/prollytree/prollytree/hash"
)

// ErrChunkNotFound is returned by ChunkStore.Get when no chunk is stored
// under the requested hash.
var ErrChunkNotFound = errors.New("chunks: chunk not found")

// Chunk is an immutable, content-addressed byte blob.
type Chunk struct {
	h    hash.Hash
	data []byte
}

// NewChunk computes data's hash and wraps it as a Chunk.
func NewChunk(data []byte) Chunk {
	return Chunk{h: hash.Of(data), data: data}
}

// Hash returns the chunk's content hash.
func (c Chunk) Hash() hash.Hash { return c.h }

// Data returns the chunk's bytes. Callers must not mutate the result.
func (c Chunk) Data() []byte { return c.data }

// IsEmpty reports whether c is the zero Chunk.
func (c Chunk) IsEmpty() bool { return c.data == nil }

// ChunkStore is the minimal durable-storage contract the core's
// ValueReadWriter is built on: content-addressed, idempotent writes and
// hash-keyed reads.
type ChunkStore interface {
	Get(ctx context.Context, h hash.Hash) (Chunk, error)
	Has(ctx context.Context, h hash.Hash) (bool, error)
	Put(ctx context.Context, c Chunk) error
}

// MemoryStore is a ChunkStore backed by an in-process map. It is the only
// ChunkStore this repository ships — concrete durable backends are out of
// scope (spec §1) and orthogonal to the prolly-tree algorithms themselves.
type MemoryStore struct {
	mu     sync.RWMutex
	chunks map[hash.Hash][]byte
	reads  int
	writes int
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{chunks: map[hash.Hash][]byte{}}
}

func (ms *MemoryStore) Get(_ context.Context, h hash.Hash) (Chunk, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	ms.reads++
	data, ok := ms.chunks[h]
	if !ok {
		return Chunk{}, errors.Wrapf(ErrChunkNotFound, "hash %s", h.String())
	}
	return Chunk{h: h, data: data}, nil
}

func (ms *MemoryStore) Has(_ context.Context, h hash.Hash) (bool, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	_, ok := ms.chunks[h]
	return ok, nil
}

func (ms *MemoryStore) Put(_ context.Context, c Chunk) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.writes++
	if _, ok := ms.chunks[c.h]; ok {
		return nil // idempotent by content hash
	}
	ms.chunks[c.h] = c.data
	return nil
}

// Stats reports how many Get and Put calls the store has served.
func (ms *MemoryStore) Stats() (reads, writes int) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return ms.reads, ms.writes
}

// Len reports the number of distinct chunks stored.
func (ms *MemoryStore) Len() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return len(ms.chunks)
}

// Hashes returns the set of all hashes currently stored, used by tests to
// measure chunk-set overlap across splices (spec §8.6).
func (ms *MemoryStore) Hashes() hash.Set {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	s := make(hash.Set, len(ms.chunks))
	for h := range ms.chunks {
		s.Insert(h)
	}
	return s
}
