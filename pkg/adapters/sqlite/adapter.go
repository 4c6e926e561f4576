// Package sqlite provides a SQLite store adapter for LeapBridge.
package sqlite

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/leapstack-labs/leapbridge/pkg/adapter"

	_ "modernc.org/sqlite" // sqlite driver
)

// Adapter implements the adapter.Adapter interface for SQLite.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new SQLite adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	return &Adapter{BaseSQLAdapter: adapter.NewBase(logger)}
}

// Scheme returns the URI scheme for this adapter.
func (a *Adapter) Scheme() string {
	return "sqlite"
}

// Connect opens the database file named by the URI.
// sqlite:path, sqlite:///abs/path and sqlite::memory: are accepted;
// an empty path opens an in-memory database.
func (a *Adapter) Connect(ctx context.Context, uri *url.URL) error {
	dsn := Path(uri)
	if uri.RawQuery != "" {
		dsn += "?" + uri.RawQuery
	}

	a.Logger.Debug("opening sqlite database", slog.String("path", Path(uri)))

	return a.OpenDB(ctx, "sqlite", dsn)
}

// Path extracts the database path from a sqlite URI.
func Path(uri *url.URL) string {
	path := uri.Opaque
	if path == "" {
		path = uri.Host + uri.Path
	}
	if path == "" {
		path = ":memory:"
	}
	return path
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
