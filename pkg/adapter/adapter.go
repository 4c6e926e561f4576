// Package adapter provides the store adapter contract used by the query gateway.
//
// An adapter wraps one database/sql driver and is selected by the scheme of a
// connection URI (mysql://, postgres://, sqlite:, duckdb:). Concrete adapter
// implementations live in pkg/adapters/ subdirectories and register
// themselves from init().
package adapter

import (
	"context"
	"net/url"

	"github.com/leapstack-labs/leapbridge/pkg/core"
)

// Rows is an alias for core.Rows.
type Rows = core.Rows

// Adapter defines the interface that all store adapters must implement.
type Adapter interface {
	// Connect opens the store identified by uri and verifies it is reachable.
	Connect(ctx context.Context, uri *url.URL) error

	// Close closes the connection and releases resources.
	Close() error

	// Query executes a SQL statement that returns rows.
	Query(ctx context.Context, sql string) (*Rows, error)

	// Scheme returns the URI scheme this adapter was registered under.
	Scheme() string
}
