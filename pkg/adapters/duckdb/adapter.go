// Package duckdb provides a DuckDB store adapter for LeapBridge.
package duckdb

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/leapstack-labs/leapbridge/pkg/adapter"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

// Adapter implements the adapter.Adapter interface for DuckDB.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new DuckDB adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	return &Adapter{BaseSQLAdapter: adapter.NewBase(logger)}
}

// Scheme returns the URI scheme for this adapter.
func (a *Adapter) Scheme() string {
	return "duckdb"
}

// Connect establishes a connection to DuckDB.
// duckdb: with no path opens an in-memory database. Query parameters
// (access_mode, threads, ...) are passed to the driver as is.
func (a *Adapter) Connect(ctx context.Context, uri *url.URL) error {
	path := uri.Opaque
	if path == "" {
		path = uri.Host + uri.Path
	}
	if path == ":memory:" {
		path = ""
	}

	dsn := path
	if uri.RawQuery != "" {
		dsn += "?" + uri.RawQuery
	}

	a.Logger.Debug("opening duckdb database", slog.String("path", path))

	return a.OpenDB(ctx, "duckdb", dsn)
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
