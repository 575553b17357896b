package kvstore

import (
	"context"

	"github.com/cockroachdb/errors"
)

// ErrTxDone is returned when a transaction is used after Commit or Rollback.
var ErrTxDone = errors.New("transaction has already been committed or rolled back")

// Entry is a raw key/value pair of a partition.
type Entry struct {
	Key   []byte
	Value []byte
}

// Backend is a paged key-value backing store with one ordered keyspace per partition.
type Backend interface {
	// Begin starts a transaction. Every read and write goes through a transaction.
	Begin(ctx context.Context) (Txn, error)
	Close(ctx context.Context) error
}

// Txn is a backend transaction. Writes are visible to the same transaction immediately and to
// others after Commit.
type Txn interface {
	Get(ctx context.Context, partition Partition, key []byte) (value []byte, found bool, err error)

	// Put inserts or replaces the value of key, returning the previous value if any.
	Put(ctx context.Context, partition Partition, key, value []byte) (old []byte, existed bool, err error)

	// PutIfAbsent inserts the value only if key is absent. It is atomic with respect to other
	// transactions: of two concurrent PutIfAbsent on the same key exactly one inserts.
	PutIfAbsent(ctx context.Context, partition Partition, key, value []byte) (inserted bool, err error)

	// Delete removes key, returning the removed value if any.
	Delete(ctx context.Context, partition Partition, key []byte) (old []byte, existed bool, err error)

	// Page returns at most limit entries ordered by key with key strictly greater than after.
	// A nil after starts from the first key.
	Page(ctx context.Context, partition Partition, after []byte, limit int) ([]Entry, error)

	// Commit commits the transaction. Calling Commit() will close the current transaction.
	Commit(ctx context.Context) error

	// Rollback discards every change of the transaction. It must be safe to call after Commit,
	// so a deferred Rollback is always fine.
	Rollback(ctx context.Context) error
}
