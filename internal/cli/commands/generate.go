package commands

import (
	"github.com/spf13/cobra"
)

// NewGenerateCommand creates the generate command.
func NewGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [prompt]",
		Short: "Ask the local generation service",
		Long: `Send a prompt to the local generation service (Ollama) and print the
complete answer once it is ready. No timeout is applied; press Ctrl+C to abandon
the request.`,
		Example: `  leapbridge generate "Write a SQL query that lists all coins"
  leapbridge generate --model mistral:7b "Why is the sky blue?"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt, err := readInput(cmd, args, "prompt")
			if err != nil {
				return err
			}
			cmdCtx := NewCommandContext(cmd)
			svc, err := cmdCtx.NewService()
			if err != nil {
				return err
			}

			cmdCtx.Logger.Debug("generating", "model", cmdCtx.Cfg.Generation.Model, "host", cmdCtx.Cfg.Generation.Host)

			text, err := svc.Generate(cmd.Context(), prompt)
			if err != nil {
				return err
			}
			return writeText(cmdCtx.Renderer, text)
		},
	}

	cmd.Flags().String("model", "", "Model identifier (default from generation.model)")
	cmd.Flags().String("generation-host", "", "Generation service URL (default from generation.host)")

	return cmd
}
