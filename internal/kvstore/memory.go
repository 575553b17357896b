package kvstore

import (
	"bytes"
	"context"
	"slices"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

var _ Backend = (*MemoryBackend)(nil)

// MemoryBackend is a process-local backend. Transactions are fully serialized: a transaction
// holds the backend lock from Begin until Commit or Rollback, so keep them short and never span
// an external call.
type MemoryBackend struct {
	mu         sync.Mutex
	partitions [numPartitions]map[string][]byte
}

func NewMemoryBackend() *MemoryBackend {
	b := &MemoryBackend{}
	for i := range b.partitions {
		b.partitions[i] = make(map[string][]byte)
	}
	return b
}

func (b *MemoryBackend) Begin(ctx context.Context) (Txn, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}
	b.mu.Lock()
	return &memoryTxn{backend: b}, nil
}

func (b *MemoryBackend) Close(context.Context) error {
	return nil
}

type undoEntry struct {
	partition Partition
	key       string
	old       []byte
	existed   bool
}

type memoryTxn struct {
	backend *MemoryBackend
	undo    []undoEntry
	done    bool
}

func (t *memoryTxn) data(partition Partition) (map[string][]byte, error) {
	if t.done {
		return nil, errors.WithStack(ErrTxDone)
	}
	if err := partition.Validate(); err != nil {
		return nil, errors.WithStack(err)
	}
	return t.backend.partitions[partition], nil
}

func (t *memoryTxn) Get(_ context.Context, partition Partition, key []byte) ([]byte, bool, error) {
	data, err := t.data(partition)
	if err != nil {
		return nil, false, err
	}
	value, found := data[string(key)]
	return bytes.Clone(value), found, nil
}

func (t *memoryTxn) Put(_ context.Context, partition Partition, key, value []byte) ([]byte, bool, error) {
	data, err := t.data(partition)
	if err != nil {
		return nil, false, err
	}
	old, existed := data[string(key)]
	t.undo = append(t.undo, undoEntry{partition: partition, key: string(key), old: old, existed: existed})
	data[string(key)] = bytes.Clone(value)
	return bytes.Clone(old), existed, nil
}

func (t *memoryTxn) PutIfAbsent(ctx context.Context, partition Partition, key, value []byte) (bool, error) {
	data, err := t.data(partition)
	if err != nil {
		return false, err
	}
	if _, found := data[string(key)]; found {
		return false, nil
	}
	if _, _, err := t.Put(ctx, partition, key, value); err != nil {
		return false, err
	}
	return true, nil
}

func (t *memoryTxn) Delete(_ context.Context, partition Partition, key []byte) ([]byte, bool, error) {
	data, err := t.data(partition)
	if err != nil {
		return nil, false, err
	}
	old, existed := data[string(key)]
	if !existed {
		return nil, false, nil
	}
	t.undo = append(t.undo, undoEntry{partition: partition, key: string(key), old: old, existed: true})
	delete(data, string(key))
	return bytes.Clone(old), true, nil
}

func (t *memoryTxn) Page(_ context.Context, partition Partition, after []byte, limit int) ([]Entry, error) {
	data, err := t.data(partition)
	if err != nil {
		return nil, err
	}
	keys := lo.Filter(lo.Keys(data), func(key string, _ int) bool {
		return after == nil || key > string(after)
	})
	slices.Sort(keys)
	if limit > 0 && len(keys) > limit {
		keys = keys[:limit]
	}
	return lo.Map(keys, func(key string, _ int) Entry {
		return Entry{Key: []byte(key), Value: bytes.Clone(data[key])}
	}), nil
}

func (t *memoryTxn) Commit(context.Context) error {
	if t.done {
		return errors.WithStack(ErrTxDone)
	}
	t.done = true
	t.undo = nil
	t.backend.mu.Unlock()
	return nil
}

func (t *memoryTxn) Rollback(context.Context) error {
	if t.done {
		return nil
	}
	for i := len(t.undo) - 1; i >= 0; i-- {
		u := t.undo[i]
		data := t.backend.partitions[u.partition]
		if u.existed {
			data[u.key] = u.old
		} else {
			delete(data, u.key)
		}
	}
	t.done = true
	t.undo = nil
	t.backend.mu.Unlock()
	return nil
}
