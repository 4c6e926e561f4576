// Package postgres provides a PostgreSQL store adapter for LeapBridge.
//
// This file registers the PostgreSQL adapter with the adapter registry
// under both postgres:// and postgresql:// schemes.
// Import this package with a blank identifier to register the adapter:
//
//	import _ "github.com/leapstack-labs/leapbridge/pkg/adapters/postgres"
package postgres

import (
	"log/slog"

	"github.com/leapstack-labs/leapbridge/pkg/adapter"
)

func init() {
	factory := func(logger *slog.Logger) adapter.Adapter { return New(logger) }
	adapter.Register("postgres", factory)
	adapter.Register("postgresql", factory)
}
