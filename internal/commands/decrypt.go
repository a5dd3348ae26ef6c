package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/gosubst/internal/config"
	"github.com/idelchi/gosubst/internal/logic"
)

// NewDecryptCommand creates a new cobra command for the decrypt subcommand.
func NewDecryptCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "decrypt [flags] [paths...]",
		Aliases: []string{"dec"},
		Short:   "Decrypt files",
		Long: `Decrypt files and directories with the language.
Directories are walked recursively, selecting only files that carry --encrypt-ext.
Use '-' to decrypt standard input to standard output.`,
		Args: cobra.ArbitraryArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			cfg.Decrypt = true

			return preRun(cfg)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return logic.Run(cmd.Context(), cfg, newEnv(cmd))
		},
	}

	processFlags(cmd)

	return cmd
}
