package commands

import (
	"fmt"

	"github.com/leapstack-labs/leapbridge/internal/bridge"
	"github.com/leapstack-labs/leapbridge/internal/cli/output"
	"github.com/leapstack-labs/leapbridge/internal/localstore"
	"github.com/spf13/cobra"
)

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Format string
	Local  bool
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run the configured statement against the store",
		Long: `Connect to the store named by store.uri, run store.statement and print
every row.

Rows keep the store's column order. If any row fails to decode the command
fails and prints no rows.

Supported store schemes: mysql://, postgres://, sqlite:, duckdb:`,
		Example: `  # Query the configured store
  leapbridge query

  # Query the embedded local database as JSON
  leapbridge query --local --statement "SELECT * FROM users" --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runQuery(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json (default follows --output)")
	cmd.Flags().String("store-uri", "", "Store connection URI (default from store.uri)")
	cmd.Flags().String("statement", "", "Statement to run (default from store.statement)")
	cmd.Flags().BoolVar(&opts.Local, "local", false, "Query the embedded local database (local.path) instead of store.uri")
	cmd.MarkFlagsMutuallyExclusive("local", "store-uri")

	return cmd
}

func runQuery(cmd *cobra.Command, opts *QueryOptions) error {
	cmdCtx := NewCommandContext(cmd)

	mode := cmdCtx.Renderer.EffectiveMode()
	if opts.Format != "" {
		mode = output.Mode(opts.Format)
		if mode == output.ModeAuto {
			return fmt.Errorf("unknown format %q (use text or json)", opts.Format)
		}
	}

	settings := cmdCtx.Settings()
	if opts.Local {
		uri, err := localURI(cmd, cmdCtx)
		if err != nil {
			return err
		}
		settings.StoreURI = uri
	}

	svc, err := bridge.New(settings, bridge.WithLogger(cmdCtx.Logger))
	if err != nil {
		return err
	}

	rows, err := svc.Query(cmd.Context())
	if err != nil {
		return err
	}

	cmdCtx.Logger.Debug("query finished", "rows", len(rows))

	return renderResultSet(cmdCtx.Renderer.Writer(), rows, mode)
}

// localURI migrates the local database and returns its connection URI.
func localURI(cmd *cobra.Command, cmdCtx *CommandContext) (string, error) {
	store, err := localstore.Open(cmd.Context(), cmdCtx.Cfg.Local.Path, cmdCtx.Logger)
	if err != nil {
		return "", err
	}
	defer func() { _ = store.Close() }()

	if err := store.Migrate(cmd.Context()); err != nil {
		return "", err
	}
	return store.URI(), nil
}
