package kvstore

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/ictalent/talent-network/common/errs"
	"github.com/ictalent/talent-network/pkg/codec"
)

// KeyCodec converts map keys to and from their stored form. Stored keys define iteration order,
// so encodings must be stable across releases.
type KeyCodec[K any] interface {
	EncodeKey(key K) ([]byte, error)
	DecodeKey(data []byte) (K, error)
}

// MapEntry is a decoded key/value pair.
type MapEntry[K, V any] struct {
	Key   K
	Value V
}

// Map is a typed, ordered map bound to one partition. Values are stored with pkg/codec.
type Map[K, V any] struct {
	partition Partition
	keys      KeyCodec[K]
}

// NewMap binds a typed map to a partition. It panics on an unregistered partition, maps are
// declared once at startup.
func NewMap[K, V any](partition Partition, keys KeyCodec[K]) Map[K, V] {
	if err := partition.Validate(); err != nil {
		panic(err)
	}
	return Map[K, V]{partition: partition, keys: keys}
}

func (m Map[K, V]) Partition() Partition {
	return m.partition
}

func (m Map[K, V]) Get(ctx context.Context, tx *Tx, key K) (V, bool, error) {
	var zero V
	rawKey, err := m.encodeKey(key)
	if err != nil {
		return zero, false, errors.WithStack(err)
	}
	raw, found, err := tx.Get(ctx, m.partition, rawKey)
	if err != nil {
		return zero, false, errors.Wrapf(err, "failed to get from %s", m.partition)
	}
	if !found {
		return zero, false, nil
	}
	value, err := m.decodeValue(raw)
	if err != nil {
		return zero, false, errors.WithStack(err)
	}
	return value, true, nil
}

// Insert inserts or replaces the value of key and returns the previous value, if any.
func (m Map[K, V]) Insert(ctx context.Context, tx *Tx, key K, value V) (V, bool, error) {
	var zero V
	rawKey, err := m.encodeKey(key)
	if err != nil {
		return zero, false, errors.WithStack(err)
	}
	rawValue, err := codec.Marshal(value)
	if err != nil {
		return zero, false, errors.WithStack(err)
	}
	rawOld, existed, err := tx.Put(ctx, m.partition, rawKey, rawValue)
	if err != nil {
		return zero, false, errors.Wrapf(err, "failed to insert into %s", m.partition)
	}
	if !existed {
		return zero, false, nil
	}
	old, err := m.decodeValue(rawOld)
	if err != nil {
		return zero, false, errors.WithStack(err)
	}
	return old, true, nil
}

// InsertIfAbsent inserts value only when key has no entry yet and reports whether it did.
func (m Map[K, V]) InsertIfAbsent(ctx context.Context, tx *Tx, key K, value V) (bool, error) {
	rawKey, err := m.encodeKey(key)
	if err != nil {
		return false, errors.WithStack(err)
	}
	rawValue, err := codec.Marshal(value)
	if err != nil {
		return false, errors.WithStack(err)
	}
	inserted, err := tx.PutIfAbsent(ctx, m.partition, rawKey, rawValue)
	if err != nil {
		return false, errors.Wrapf(err, "failed to insert into %s", m.partition)
	}
	return inserted, nil
}

func (m Map[K, V]) Remove(ctx context.Context, tx *Tx, key K) (V, bool, error) {
	var zero V
	rawKey, err := m.encodeKey(key)
	if err != nil {
		return zero, false, errors.WithStack(err)
	}
	rawOld, existed, err := tx.Delete(ctx, m.partition, rawKey)
	if err != nil {
		return zero, false, errors.Wrapf(err, "failed to remove from %s", m.partition)
	}
	if !existed {
		return zero, false, nil
	}
	old, err := m.decodeValue(rawOld)
	if err != nil {
		return zero, false, errors.WithStack(err)
	}
	return old, true, nil
}

func (m Map[K, V]) Contains(ctx context.Context, tx *Tx, key K) (bool, error) {
	rawKey, err := m.encodeKey(key)
	if err != nil {
		return false, errors.WithStack(err)
	}
	_, found, err := tx.Get(ctx, m.partition, rawKey)
	if err != nil {
		return false, errors.Wrapf(err, "failed to get from %s", m.partition)
	}
	return found, nil
}

// Iterate calls fn for every entry in key order until fn returns false. Entries are read page by
// page, so iteration can resume from any key.
func (m Map[K, V]) Iterate(ctx context.Context, tx *Tx, fn func(key K, value V) bool) error {
	var after []byte
	for {
		page, err := tx.Page(ctx, m.partition, after, tx.pageSize)
		if err != nil {
			return errors.Wrapf(err, "failed to read page of %s", m.partition)
		}
		for _, entry := range page {
			key, err := m.keys.DecodeKey(entry.Key)
			if err != nil {
				return errors.Wrapf(err, "invalid key in %s", m.partition)
			}
			value, err := m.decodeValue(entry.Value)
			if err != nil {
				return errors.WithStack(err)
			}
			if !fn(key, value) {
				return nil
			}
		}
		if len(page) < tx.pageSize {
			return nil
		}
		after = page[len(page)-1].Key
	}
}

// Entries returns every entry in key order.
func (m Map[K, V]) Entries(ctx context.Context, tx *Tx) ([]MapEntry[K, V], error) {
	var entries []MapEntry[K, V]
	err := m.Iterate(ctx, tx, func(key K, value V) bool {
		entries = append(entries, MapEntry[K, V]{Key: key, Value: value})
		return true
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return entries, nil
}

func (m Map[K, V]) encodeKey(key K) ([]byte, error) {
	rawKey, err := m.keys.EncodeKey(key)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid key for %s", m.partition)
	}
	if len(rawKey) == 0 {
		return nil, errors.Wrapf(errs.InvalidArgument, "empty key for %s", m.partition)
	}
	return rawKey, nil
}

func (m Map[K, V]) decodeValue(raw []byte) (V, error) {
	var value V
	if err := codec.Unmarshal(raw, &value); err != nil {
		return value, errors.Wrapf(err, "corrupted value in %s", m.partition)
	}
	return value, nil
}
