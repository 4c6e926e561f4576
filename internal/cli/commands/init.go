package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/leapbridge/internal/cli/config"
	"github.com/leapstack-labs/leapbridge/internal/cli/output"
	"github.com/spf13/cobra"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a default leapbridge.yaml",
		Long: `Write a leapbridge.yaml holding the built-in defaults so they can be edited.

An existing file is kept unless --force is given.`,
		Example: `  # Initialize in current directory
  leapbridge init

  # Force overwrite existing config
  leapbridge init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			r := NewCommandContext(cmd).Renderer
			return runInit(r, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

func runInit(r *output.Renderer, dir string, force bool) error {
	// Create directory if specified and doesn't exist
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, config.FileNames[0])
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", configPath)
	}

	content, err := config.DefaultFile()
	if err != nil {
		return err
	}
	if err := os.WriteFile(configPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}

	r.StatusLine(configPath, "success", "")
	r.Println("")
	r.Success("LeapBridge configured!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Point store.uri at your database")
	r.Println("  2. Run 'leapbridge query' to fetch rows")
	r.Println("  3. Run 'leapbridge serve' to expose the HTTP API")

	return nil
}
