package commands

import (
	"github.com/spf13/cobra"
)

// NewEncodeCommand creates the encode command.
func NewEncodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "encode [text]",
		Short: "Obfuscate text with the embedded key",
		Long: `Encrypt text with the process-wide embedded key and print a base64 token.

The token can be turned back into the original text with 'leapbridge decode'.
The embedded key is not a secret; use this for obfuscation only.`,
		Example: `  leapbridge encode "hello world"
  echo "hello world" | leapbridge encode`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args, "text")
			if err != nil {
				return err
			}
			cmdCtx := NewCommandContext(cmd)
			svc, err := cmdCtx.NewService()
			if err != nil {
				return err
			}
			return writeText(cmdCtx.Renderer, svc.Encode(text))
		},
	}
}

// NewDecodeCommand creates the decode command.
func NewDecodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "decode [token]",
		Short: "Recover text from an encode token",
		Long: `Decrypt a token produced by 'leapbridge encode'.

Tokens that were not produced by encode, or were altered, are rejected.`,
		Example: `  leapbridge decode "$(leapbridge encode secret)"`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := readInput(cmd, args, "token")
			if err != nil {
				return err
			}
			cmdCtx := NewCommandContext(cmd)
			svc, err := cmdCtx.NewService()
			if err != nil {
				return err
			}
			text, err := svc.Decode(token)
			if err != nil {
				return err
			}
			return writeText(cmdCtx.Renderer, text)
		},
	}
}
