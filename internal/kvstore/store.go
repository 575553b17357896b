package kvstore

import (
	"context"
	"strings"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/ictalent/talent-network/common/errs"
	"github.com/ictalent/talent-network/internal/postgres"
	"github.com/ictalent/talent-network/pkg/logger"
	"github.com/ictalent/talent-network/pkg/logger/slogx"
)

const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"

	DefaultPageSize = 256
)

type Config struct {
	// Backend is the backing store, "postgres" (default) or "memory".
	Backend string `mapstructure:"backend"`

	// PageSize is the number of entries read per round trip while iterating a map. Default is 256.
	PageSize int `mapstructure:"page_size"`
}

func (c Config) Validate() error {
	if _, err := c.BackendName(); err != nil {
		return errors.WithStack(err)
	}
	if c.PageSize < 0 {
		return errors.Wrapf(errs.InvalidArgument, "store page_size must not be negative, got %d", c.PageSize)
	}
	return nil
}

// BackendName returns the normalized backend name.
func (c Config) BackendName() (string, error) {
	name := strings.ToLower(strings.TrimSpace(c.Backend))
	switch name {
	case "", BackendPostgres:
		return BackendPostgres, nil
	case BackendMemory:
		return BackendMemory, nil
	default:
		return "", errors.Wrapf(errs.Unsupported, "unsupported store backend %q", c.Backend)
	}
}

// Store is the handle to the persistent store. It owns every durable map of the service.
type Store struct {
	backend  Backend
	pageSize int
}

// New creates a store on backend. A page size below 1 falls back to DefaultPageSize.
func New(backend Backend, conf Config) *Store {
	return &Store{
		backend:  backend,
		pageSize: utils.Default(max(conf.PageSize, 0), DefaultPageSize),
	}
}

// Tx is a store transaction, the unit every Map operation runs in.
type Tx struct {
	Txn
	pageSize int
}

func (s *Store) Begin(ctx context.Context) (*Tx, error) {
	txn, err := s.backend.Begin(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin store transaction")
	}
	return &Tx{Txn: txn, pageSize: s.pageSize}, nil
}

// Update runs fn in a transaction. The transaction commits if fn returns nil and rolls back otherwise.
func (s *Store) Update(ctx context.Context, fn func(tx *Tx) error) (err error) {
	tx, err := s.Begin(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil {
			logger.WarnContext(ctx, "failed to rollback store transaction", slogx.Error(rErr))
		}
	}()

	if err := fn(tx); err != nil {
		return errors.WithStack(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "failed to commit store transaction")
	}
	return nil
}

// View runs fn in a transaction that is always rolled back.
func (s *Store) View(ctx context.Context, fn func(tx *Tx) error) error {
	tx, err := s.Begin(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil {
			logger.WarnContext(ctx, "failed to rollback store transaction", slogx.Error(rErr))
		}
	}()
	return errors.WithStack(fn(tx))
}

func (s *Store) Close(ctx context.Context) error {
	return errors.WithStack(s.backend.Close(ctx))
}

// Open opens the store on the configured backend. pgConf is only used by the postgres backend.
func Open(ctx context.Context, conf Config, pgConf postgres.Config) (*Store, error) {
	if err := conf.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid store configuration")
	}
	name, err := conf.BackendName()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	switch name {
	case BackendMemory:
		logger.WarnContext(ctx, "Using in-memory store, data is lost on restart")
		return New(NewMemoryBackend(), conf), nil
	default:
		pool, err := postgres.NewPool(ctx, pgConf)
		if err != nil {
			if errors.Is(err, errs.InvalidArgument) {
				return nil, errors.Wrap(err, "Invalid Postgres configuration for store")
			}
			return nil, errors.Wrap(err, "can't create Postgres connection pool")
		}
		return New(NewPostgresBackend(pool, pool.Close), conf), nil
	}
}
