package commands

import (
	"fmt"

	"github.com/leapstack-labs/leapbridge/internal/cli/output"
	"github.com/leapstack-labs/leapbridge/internal/localstore"
	"github.com/spf13/cobra"
)

type migrateResult struct {
	Path    string `json:"path"`
	URI     string `json:"uri"`
	Version int64  `json:"version"`
}

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand() *cobra.Command {
	var status bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the local database",
		Long: `Apply the embedded schema migrations to the local SQLite database at
local.path, creating the file if needed.

The local database can be queried like any other store:
  leapbridge query --store-uri sqlite:<local.path> --statement "SELECT * FROM users"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			ctx := cmd.Context()

			store, err := localstore.Open(ctx, cmdCtx.Cfg.Local.Path, cmdCtx.Logger)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if !status {
				if err := store.Migrate(ctx); err != nil {
					return err
				}
			}

			version, err := store.Version(ctx)
			if err != nil {
				return err
			}

			r := cmdCtx.Renderer
			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(migrateResult{Path: store.Path(), URI: store.URI(), Version: version})
			}
			if status {
				r.StatusLine(store.Path(), "skip", fmt.Sprintf("version %d", version))
				return nil
			}
			r.Success(fmt.Sprintf("Local database %s is at version %d", store.Path(), version))
			return nil
		},
	}

	cmd.Flags().BoolVar(&status, "status", false, "Show the current version without migrating")
	cmd.Flags().String("local-path", "", "Local database path (default from local.path)")

	return cmd
}
