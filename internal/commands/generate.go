package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/gogen/pkg/cobraext"
	"github.com/idelchi/gosubst/internal/config"
	"github.com/idelchi/gosubst/internal/logic"
)

// NewGenerateCommand creates a new cobra command for the generate subcommand.
func NewGenerateCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generate [flags]",
		Aliases: []string{"gen"},
		Short:   "Generate a random language",
		Long: `Generate a random language and write it to --language.
The file format follows the extension (.json, .yaml, .toml) unless --format is given.
With --seal the file is encrypted with --key or --key-file.`,
		Args: cobra.NoArgs,
		PreRunE: func(_ *cobra.Command, _ []string) error {
			return cobraext.Validate(cfg, cfg)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return logic.RunGenerate(cfg, newEnv(cmd))
		},
	}

	cmd.Flags().String("alphabet", "", "Characters to generate tokens for, defaults to the built-in alphabet")
	cmd.Flags().String("format", "", "Language file format (json, yaml, toml), defaults to the file extension")
	cmd.Flags().String("seal", "none", "Seal the language file (none, deterministic, randomized)")
	cmd.Flags().Bool("force", false, "Overwrite an existing language file")

	return cmd
}
