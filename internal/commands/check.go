package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/gosubst/internal/config"
	"github.com/idelchi/gosubst/internal/logic"
)

// NewCheckCommand creates a new cobra command for the check subcommand.
func NewCheckCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "check [flags] [paths...]",
		Short:   "Verify that encrypted files decrypt with the language",
		Args:    cobra.ArbitraryArgs,
		PreRunE: preRun(cfg),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return logic.RunCheck(cfg, newEnv(cmd))
		},
	}

	fileFlags(cmd)

	return cmd
}
