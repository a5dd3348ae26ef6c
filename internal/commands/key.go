package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/gogen/pkg/cobraext"
	"github.com/idelchi/gosubst/internal/config"
	"github.com/idelchi/gosubst/internal/logic"
)

// NewKeyCommand creates a new cobra command for the key subcommand.
func NewKeyCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "key [flags]",
		Short:   "Generate a key for sealing language files",
		Args:    cobra.NoArgs,
		PreRunE: func(_ *cobra.Command, _ []string) error {
			return cobraext.Validate(cfg)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return logic.RunKey(cfg, newEnv(cmd))
		},
	}

	cmd.Flags().String("seal", "deterministic", "Seal mode the key is for (deterministic, randomized)")

	return cmd
}
