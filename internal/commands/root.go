package commands

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idelchi/gogen/pkg/cobraext"
	"github.com/idelchi/gosubst/internal/config"
	"github.com/idelchi/gosubst/internal/logging"
	"github.com/idelchi/gosubst/internal/logic"
)

const defaultEncryptExt = ".sub"

// NewRootCommand creates the root command with common configuration.
// It sets up environment variable binding (GOSUBST_*), an optional configuration file and flag handling.
func NewRootCommand(cfg *config.Config, version string) *cobra.Command {
	root := cobraext.NewDefaultRootCommand(version, load)

	root.Use = "gosubst [flags] command [flags]"
	root.Short = "Character substitution cipher"
	root.Long = `A character substitution cipher for text files.
Every character is replaced by a two-character token taken from a randomly generated
language. Parties sharing the same language file can read each other's messages.`

	flags := root.PersistentFlags()

	flags.String("config", "", "Path to a configuration file (yaml, toml or json)")
	flags.BoolP("show", "s", false, "Show the configuration and exit")
	flags.BoolP("quiet", "q", false, "Suppress non-error output")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.String("log-format", "text", "Log format (text, json)")

	flags.StringP("language", "l", "language.json", "Path to the language file")
	flags.StringP("key", "k", "", "Hex-encoded key of a sealed language file, '-' to prompt")
	flags.StringP("key-file", "f", "", "Path to the file with the hex-encoded key of a sealed language file")

	root.AddCommand(
		NewGenerateCommand(cfg),
		NewKeyCommand(cfg),
		NewEncryptCommand(cfg),
		NewDecryptCommand(cfg),
		NewCheckCommand(cfg),
		NewShowCommand(cfg),
	)

	return root
}

// fileFlags registers the flags shared by the commands that process files.
func fileFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("parallel", "j", runtime.NumCPU(), "Number of parallel workers, defaults to number of CPUs")
	cmd.Flags().String("encrypt-ext", defaultEncryptExt, "Suffix to append to encrypted files")
	cmd.Flags().String("decrypt-ext", "", "Suffix to append to decrypted files, after stripping the encrypted suffix")
}

// processFlags registers the flags of the encrypt and decrypt commands.
func processFlags(cmd *cobra.Command) {
	fileFlags(cmd)

	cmd.Flags().BoolP("delete", "d", false, "Delete the original file after successful encryption/decryption")
	cmd.Flags().Bool("dry", false, "Show what would be processed without writing anything")
	cmd.Flags().Bool("stats", false, "Print a summary after processing")
	cmd.Flags().Bool("preserve-timestamps", false, "Copy the modification time of inputs to outputs")
}

// load runs after the flags and environment are bound.
// It merges the optional configuration file and installs the logger.
func load(cmd *cobra.Command, _ []string) error {
	viper.SetDefault("parallel", runtime.NumCPU())
	viper.SetDefault("encrypt-ext", defaultEncryptExt)

	if path := viper.GetString("config"); path != "" {
		viper.SetConfigFile(path)

		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("reading configuration file: %w", err)
		}
	}

	logging.Init(cmd.ErrOrStderr(), viper.GetString("log-level"), viper.GetString("log-format"))

	return nil
}

// preRun returns a PreRunE handler that resolves positional args into cfg.Files,
// then unmarshals and validates the configuration.
func preRun(cfg *config.Config) func(*cobra.Command, []string) error {
	return func(_ *cobra.Command, args []string) error {
		if len(args) == 0 {
			cfg.Files = []string{"."}
		} else {
			cfg.Files = args
		}

		return cobraext.Validate(cfg, cfg)
	}
}

// newEnv binds the logic environment to the streams of cmd.
func newEnv(cmd *cobra.Command) logic.Env {
	return logic.Env{
		Stdin:  cmd.InOrStdin(),
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
		Clock:  clockwork.NewRealClock(),
		Log:    slog.Default(),
	}
}
