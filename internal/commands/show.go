package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/gogen/pkg/cobraext"
	"github.com/idelchi/gosubst/internal/config"
	"github.com/idelchi/gosubst/internal/logic"
)

// NewShowCommand creates a new cobra command for the show subcommand.
func NewShowCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:     "show [flags]",
		Short:   "Print the character table of the language",
		Args:    cobra.NoArgs,
		PreRunE: func(_ *cobra.Command, _ []string) error {
			return cobraext.Validate(cfg, cfg)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return logic.RunShow(cfg, newEnv(cmd))
		},
	}
}
