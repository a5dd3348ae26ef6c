package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/gosubst/internal/config"
	"github.com/idelchi/gosubst/internal/logic"
)

// NewEncryptCommand creates a new cobra command for the encrypt subcommand.
func NewEncryptCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "encrypt [flags] [paths...]",
		Aliases: []string{"enc"},
		Short:   "Encrypt files",
		Long: `Encrypt files and directories with the language.
Directories are walked recursively, skipping files that already carry --encrypt-ext.
Use '-' to encrypt standard input to standard output.`,
		Args:    cobra.ArbitraryArgs,
		PreRunE: preRun(cfg),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return logic.Run(cmd.Context(), cfg, newEnv(cmd))
		},
	}

	processFlags(cmd)

	return cmd
}
