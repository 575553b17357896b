package kvstore

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/ictalent/talent-network/internal/postgres"
	"github.com/ictalent/talent-network/pkg/logger"
	"github.com/jackc/pgx/v5"
)

var _ Backend = (*PostgresBackend)(nil)

const (
	getEntrySQL      = `SELECT value FROM kv_entries WHERE partition = $1 AND key = $2`
	lockEntrySQL     = `SELECT value FROM kv_entries WHERE partition = $1 AND key = $2 FOR UPDATE`
	upsertEntrySQL   = `INSERT INTO kv_entries (partition, key, value) VALUES ($1, $2, $3) ON CONFLICT (partition, key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`
	insertEntrySQL   = `INSERT INTO kv_entries (partition, key, value) VALUES ($1, $2, $3) ON CONFLICT (partition, key) DO NOTHING`
	deleteEntrySQL   = `DELETE FROM kv_entries WHERE partition = $1 AND key = $2 RETURNING value`
	pageEntriesSQL   = `SELECT key, value FROM kv_entries WHERE partition = $1 AND key > $2 ORDER BY key LIMIT $3`
	pageAllSQL       = `SELECT key, value FROM kv_entries WHERE partition = $1 ORDER BY key LIMIT $2`
	pageUnlimitedSQL = `SELECT key, value FROM kv_entries WHERE partition = $1 AND key > $2 ORDER BY key`
)

// PostgresBackend stores every partition in the kv_entries table, see
// database/postgresql/migrations. BYTEA keys compare bytewise, same as the memory backend.
type PostgresBackend struct {
	db    postgres.TxQueryable
	close func()
}

// NewPostgresBackend creates a backend on db. closeFn, if not nil, is called by Close.
func NewPostgresBackend(db postgres.TxQueryable, closeFn func()) *PostgresBackend {
	return &PostgresBackend{db: db, close: closeFn}
}

func (b *PostgresBackend) Begin(ctx context.Context) (Txn, error) {
	tx, err := b.db.Begin(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	return &postgresTxn{tx: tx}, nil
}

func (b *PostgresBackend) Close(context.Context) error {
	if b.close != nil {
		b.close()
	}
	return nil
}

type postgresTxn struct {
	tx pgx.Tx
}

func (t *postgresTxn) active(partition Partition) error {
	if t.tx == nil {
		return errors.WithStack(ErrTxDone)
	}
	return errors.WithStack(partition.Validate())
}

func (t *postgresTxn) Get(ctx context.Context, partition Partition, key []byte) ([]byte, bool, error) {
	if err := t.active(partition); err != nil {
		return nil, false, err
	}
	return t.getRow(ctx, getEntrySQL, partition, key)
}

func (t *postgresTxn) Put(ctx context.Context, partition Partition, key, value []byte) ([]byte, bool, error) {
	if err := t.active(partition); err != nil {
		return nil, false, err
	}
	old, existed, err := t.getRow(ctx, lockEntrySQL, partition, key)
	if err != nil {
		return nil, false, errors.WithStack(err)
	}
	if _, err := t.tx.Exec(ctx, upsertEntrySQL, int16(partition), key, value); err != nil {
		return nil, false, errors.Wrap(err, "failed to upsert entry")
	}
	return old, existed, nil
}

func (t *postgresTxn) PutIfAbsent(ctx context.Context, partition Partition, key, value []byte) (bool, error) {
	if err := t.active(partition); err != nil {
		return false, err
	}
	tag, err := t.tx.Exec(ctx, insertEntrySQL, int16(partition), key, value)
	if err != nil {
		return false, errors.Wrap(err, "failed to insert entry")
	}
	return tag.RowsAffected() == 1, nil
}

func (t *postgresTxn) Delete(ctx context.Context, partition Partition, key []byte) ([]byte, bool, error) {
	if err := t.active(partition); err != nil {
		return nil, false, err
	}
	return t.getRow(ctx, deleteEntrySQL, partition, key)
}

func (t *postgresTxn) Page(ctx context.Context, partition Partition, after []byte, limit int) ([]Entry, error) {
	if err := t.active(partition); err != nil {
		return nil, err
	}

	var (
		rows pgx.Rows
		err  error
	)
	switch {
	case limit <= 0:
		rows, err = t.tx.Query(ctx, pageUnlimitedSQL, int16(partition), nonNil(after))
	case after == nil:
		rows, err = t.tx.Query(ctx, pageAllSQL, int16(partition), limit)
	default:
		rows, err = t.tx.Query(ctx, pageEntriesSQL, int16(partition), after, limit)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to query entries")
	}
	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Entry, error) {
		var entry Entry
		err := row.Scan(&entry.Key, &entry.Value)
		return entry, errors.WithStack(err)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan entries")
	}
	return entries, nil
}

func (t *postgresTxn) Commit(ctx context.Context) error {
	if t.tx == nil {
		return errors.WithStack(ErrTxDone)
	}
	if err := t.tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	t.tx = nil
	return nil
}

func (t *postgresTxn) Rollback(ctx context.Context) error {
	if t.tx == nil {
		return nil
	}
	err := t.tx.Rollback(ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return errors.Wrap(err, "failed to rollback transaction")
	}
	if err == nil {
		logger.DebugContext(ctx, "rolled back transaction")
	}
	t.tx = nil
	return nil
}

func (t *postgresTxn) getRow(ctx context.Context, sql string, partition Partition, key []byte) ([]byte, bool, error) {
	var value []byte
	err := t.tx.QueryRow(ctx, sql, int16(partition), key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "failed to query entry")
	}
	return value, true, nil
}

func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}
