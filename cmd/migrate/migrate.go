// Package migrate holds the `migrate` sub-commands that manage the postgres schema of the store.
package migrate

import (
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/ictalent/talent-network/internal/config"
	"github.com/spf13/cobra"
)

const (
	storeMigrationSource = "internal/kvstore/database/postgresql/migrations"
	storeMigrationTable  = "kvstore_schema_migrations"
)

var supportedSchemes = []string{"postgres", "postgresql"}

type migrateCmdOptions struct {
	DatabaseURL string
	Source      string
}

func (o *migrateCmdOptions) bindFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&o.Source, "source", storeMigrationSource, "Path to the store migrations directory.")
	flags.StringVar(&o.DatabaseURL, "database", "", "Database url to migrate. Default is the `postgres` connection of the config.")
}

// newMigrate opens the store migrations against the target database.
func (o *migrateCmdOptions) newMigrate(cmd *cobra.Command) (*migrate.Migrate, error) {
	rawURL := o.DatabaseURL
	if rawURL == "" {
		rawURL = config.Load().Postgres.ConnString()
	}
	databaseURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.Wrap(err, "can't parse database url")
	}
	if !isSupportedScheme(databaseURL.Scheme) {
		return nil, errors.Errorf("unsupported database driver: %s", databaseURL.Scheme)
	}

	m, err := migrate.New("file://"+o.Source, withQuery(databaseURL, "x-migrations-table", storeMigrationTable).String())
	if err != nil {
		return nil, errors.Wrap(err, "can't open store migrations")
	}
	m.Log = &consoleLogger{out: cmd.OutOrStdout(), prefix: "[Store] "}
	return m, nil
}

func isSupportedScheme(scheme string) bool {
	for _, s := range supportedSchemes {
		if s == scheme {
			return true
		}
	}
	return false
}

// withQuery returns a copy of u with key=value added to its query.
func withQuery(u *url.URL, key, value string) *url.URL {
	clone := *u
	query := clone.Query()
	query.Add(key, value)
	clone.RawQuery = query.Encode()
	return &clone
}

// parseSteps parses the optional [N] argument. Zero means every migration.
func parseSteps(args []string) (int, error) {
	if len(args) == 0 {
		return 0, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, errors.Wrapf(err, "invalid N %q", args[0])
	}
	if n < 0 {
		return 0, errors.Newf("N must not be negative, got %d", n)
	}
	return n, nil
}

var _ migrate.Logger = (*consoleLogger)(nil)

// consoleLogger prints migration progress to the command output.
type consoleLogger struct {
	out     io.Writer
	prefix  string
	verbose bool
}

func (l *consoleLogger) Printf(format string, v ...any) {
	fmt.Fprintf(l.out, l.prefix+format, v...)
}

func (l *consoleLogger) Verbose() bool {
	return l.verbose
}
