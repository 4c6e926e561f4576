package commands

// Store adapters selectable by store.uri scheme.
import (
	_ "github.com/leapstack-labs/leapbridge/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/leapbridge/pkg/adapters/mysql"
	_ "github.com/leapstack-labs/leapbridge/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/leapbridge/pkg/adapters/sqlite"
)
