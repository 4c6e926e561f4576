// Package postgres provides a PostgreSQL store adapter for LeapBridge.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver
	"github.com/leapstack-labs/leapbridge/pkg/adapter"
)

// Adapter implements the adapter.Adapter interface for PostgreSQL.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new PostgreSQL adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	return &Adapter{BaseSQLAdapter: adapter.NewBase(logger)}
}

// Scheme returns the URI scheme for this adapter.
func (a *Adapter) Scheme() string {
	return "postgres"
}

// Connect establishes a connection to PostgreSQL.
func (a *Adapter) Connect(ctx context.Context, uri *url.URL) error {
	dsn := buildPostgresDSN(uri)

	a.Logger.Debug("connecting to postgres", slog.String("host", uri.Hostname()), slog.String("database", strings.TrimPrefix(uri.Path, "/")))

	return a.OpenDB(ctx, "pgx", dsn)
}

// buildPostgresDSN constructs a key=value connection string from a URI.
// Query parameters are passed through as additional keys.
func buildPostgresDSN(uri *url.URL) string {
	host := uri.Hostname()
	if host == "" {
		host = "localhost"
	}

	port := uri.Port()
	if port == "" {
		port = "5432"
	}

	query := uri.Query()
	sslmode := "disable"
	if mode := query.Get("sslmode"); mode != "" {
		sslmode = mode
	}
	query.Del("sslmode")

	dsn := fmt.Sprintf("host=%s port=%s dbname=%s sslmode=%s",
		host, port, quoteValue(strings.TrimPrefix(uri.Path, "/")), quoteValue(sslmode))

	if uri.User != nil {
		if user := uri.User.Username(); user != "" {
			dsn += fmt.Sprintf(" user=%s", quoteValue(user))
		}
		if password, ok := uri.User.Password(); ok && password != "" {
			dsn += fmt.Sprintf(" password=%s", quoteValue(password))
		}
	}

	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		dsn += fmt.Sprintf(" %s=%s", k, quoteValue(query.Get(k)))
	}

	return dsn
}

// quoteValue quotes a connection string value when it contains spaces,
// quotes or backslashes.
func quoteValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
