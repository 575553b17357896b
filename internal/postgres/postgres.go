// Package postgres opens the pgx pool backing the postgres kvstore backend.
package postgres

import (
	"context"
	"net"
	"net/url"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/ictalent/talent-network/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	pgxslog "github.com/mcosta74/pgx-slog"
)

const (
	DefaultMaxConns = 16
	DefaultMinConns = 0
)

type Config struct {
	// URL is a postgres:// connection url. When set, the fields below it except the pool sizes are ignored.
	URL string `mapstructure:"url"`

	Host     string `mapstructure:"host"` // default 127.0.0.1
	Port     string `mapstructure:"port"` // default 5432
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"db_name"`  // default postgres
	SSLMode  string `mapstructure:"ssl_mode"` // default prefer

	MaxConns int32 `mapstructure:"max_conns"`
	MinConns int32 `mapstructure:"min_conns"`

	// Debug traces every query.
	Debug bool `mapstructure:"debug"`
}

// ConnString returns the connection url of conf.
func (conf Config) ConnString() string {
	if conf.URL != "" {
		return conf.URL
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(utils.Default(conf.Host, "127.0.0.1"), utils.Default(conf.Port, "5432")),
		Path:   "/" + utils.Default(conf.DBName, "postgres"),
		RawQuery: url.Values{
			"sslmode": {utils.Default(conf.SSLMode, "prefer")},
		}.Encode(),
	}
	switch {
	case conf.User != "" && conf.Password != "":
		u.User = url.UserPassword(conf.User, conf.Password)
	case conf.User != "":
		u.User = url.User(conf.User)
	}
	return u.String()
}

// NewPool connects a pool and pings the database.
func NewPool(ctx context.Context, conf Config) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(conf.ConnString())
	if err != nil {
		return nil, errors.Wrap(err, "can't parse postgres config")
	}
	poolConfig.MaxConns = utils.Default(conf.MaxConns, DefaultMaxConns)
	poolConfig.MinConns = utils.Default(conf.MinConns, DefaultMinConns)

	level := tracelog.LogLevelError
	if conf.Debug {
		level = tracelog.LogLevelTrace
	}
	poolConfig.ConnConfig.Tracer = &tracelog.TraceLog{
		Logger:   pgxslog.NewLogger(logger.With("package", "postgres")),
		LogLevel: level,
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, errors.Wrap(err, "can't create postgres pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "can't connect to postgres")
	}
	return pool, nil
}

// TxQueryable runs statements and opens transactions. A pgxpool.Pool satisfies it, so does a pgx.Tx
// whose Begin opens a savepoint.
type TxQueryable interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
	Begin(context.Context) (pgx.Tx, error)
}

var (
	_ TxQueryable = (*pgxpool.Pool)(nil)
	_ TxQueryable = (pgx.Tx)(nil)
)
