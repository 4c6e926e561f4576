package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/leapstack-labs/leapbridge/internal/bridge"
	"github.com/leapstack-labs/leapbridge/internal/cli/config"
	"github.com/leapstack-labs/leapbridge/internal/cli/output"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext builds a CommandContext from the command's context.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := config.GetConfig(cmd.Context())
	logger := config.GetLogger(cmd.Context())
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// Settings returns the bridge settings taken from config.
func (c *CommandContext) Settings() bridge.Settings {
	return bridge.Settings{
		StoreURI:       c.Cfg.Store.URI,
		Statement:      c.Cfg.Store.Statement,
		GenerationHost: c.Cfg.Generation.Host,
		Model:          c.Cfg.Generation.Model,
	}
}

// NewService creates the bridge service for the current configuration.
func (c *CommandContext) NewService() (*bridge.Service, error) {
	return bridge.New(c.Settings(), bridge.WithLogger(c.Logger))
}

// textResult is the JSON shape of encode, decode and generate output.
type textResult struct {
	Text string `json:"text"`
}

// writeText prints s as a plain line or as {"text": s} in json mode.
func writeText(r *output.Renderer, s string) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(textResult{Text: s})
	}
	r.Println(s)
	return nil
}

// readInput returns the joined arguments, or piped stdin when there are none.
// A single trailing line ending, as added by echo, is dropped from stdin.
func readInput(cmd *cobra.Command, args []string, what string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && output.IsTerminal(f) {
		return "", fmt.Errorf("no %s given (pass it as an argument or pipe it on stdin)", what)
	}
	content, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	text := string(content)
	if trimmed, ok := strings.CutSuffix(text, "\n"); ok {
		text = strings.TrimSuffix(trimmed, "\r")
	}
	return text, nil
}
