// Package logic implements the commands of gosubst on top of the language, codec and processor packages.
package logic

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jonboulle/clockwork"

	"github.com/idelchi/gosubst/internal/config"
	"github.com/idelchi/gosubst/internal/filter"
	"github.com/idelchi/gosubst/internal/language"
	"github.com/idelchi/gosubst/internal/processor"
	"github.com/idelchi/gosubst/internal/substitution"
)

// Stdio is the positional argument selecting stdin and stdout instead of files.
const Stdio = "-"

// Env carries the process surroundings the commands interact with.
type Env struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Clock  clockwork.Clock
	Log    *slog.Logger
}

// stats holds the counters printed by --stats.
type stats struct {
	scanned   int
	excluded  int
	processed int
	errored   int
	size      int64
	duration  time.Duration
}

// Run encrypts or decrypts the configured files with the configured language.
func Run(ctx context.Context, cfg *config.Config, env Env) error {
	start := env.Clock.Now()

	codec, err := loadCodec(cfg, env)
	if err != nil {
		return err
	}

	if isStdio(cfg.Files) {
		if err := processor.New(cfg, codec, env.Log, env.Stdout).Stream(env.Stdin, env.Stdout); err != nil {
			return fmt.Errorf("processing standard input: %w", err)
		}

		return nil
	}

	scanned, err := resolveFiles(cfg, env)
	if err != nil {
		return err
	}

	excluded := scanned - len(cfg.Files)

	if cfg.Dry {
		return dryRun(cfg, env, scanned, excluded, start)
	}

	summary, err := processor.New(cfg, codec, env.Log, env.Stdout).ProcessFiles(ctx)

	if cfg.Stats {
		printStats(env.Stderr, stats{
			scanned:   scanned,
			excluded:  excluded,
			processed: summary.Processed,
			errored:   summary.Errored,
			size:      summary.TotalSize,
			duration:  env.Clock.Since(start),
		})
	}

	if err != nil {
		return fmt.Errorf("running logic: %w", err)
	}

	return nil
}

// loadCodec reads the language file, opening it with the configured key if needed.
func loadCodec(cfg *config.Config, env Env) (*substitution.Codec, error) {
	key, err := cfg.ResolveKey()
	if err != nil {
		return nil, err
	}

	file, err := language.Load(cfg.Language, key)
	if err != nil {
		return nil, fmt.Errorf("loading language %q: %w", cfg.Language, err)
	}

	mapping, err := file.Mapping()
	if err != nil {
		return nil, fmt.Errorf("loading language %q: %w", cfg.Language, err)
	}

	env.Log.Debug("language loaded", "path", cfg.Language, "id", file.ID, "entries", mapping.Len())

	return substitution.New(mapping), nil
}

// isStdio reports whether files selects the standard streams.
func isStdio(files []string) bool {
	return len(files) == 1 && files[0] == Stdio
}

// resolveFiles expands directories and replaces cfg.Files with the selected files.
// The language, key and configuration files are never selected.
// Returns the total number of files scanned before filtering.
func resolveFiles(cfg *config.Config, env Env) (int, error) {
	if slices.Contains(cfg.Files, Stdio) {
		return 0, fmt.Errorf("%w: %q must be the only path", config.ErrUsage, Stdio)
	}

	files, scanned, err := filter.Resolve(cfg.Files, filter.Filter{
		Suffix:    cfg.Suffixes.Encrypt,
		Encrypted: cfg.Decrypt,
	})
	if err != nil {
		return scanned, fmt.Errorf("resolving files: %w", err)
	}

	protected := make(map[string]bool)

	for _, path := range []string{cfg.Language, cfg.KeyFile, cfg.Config} {
		if path == "" {
			continue
		}

		if abs, err := filepath.Abs(path); err == nil {
			protected[abs] = true
		}
	}

	cfg.Files = slices.DeleteFunc(files, func(file string) bool {
		abs, err := filepath.Abs(file)
		if err != nil || !protected[abs] {
			return false
		}

		env.Log.Debug("skipping protected file", "path", file)

		return true
	})

	return scanned, nil
}

// dryRun previews what would be processed without actually encrypting or decrypting.
func dryRun(cfg *config.Config, env Env, scanned, excluded int, start time.Time) error {
	var totalSize int64

	for _, file := range cfg.Files {
		if !cfg.Quiet {
			fmt.Fprintf(env.Stdout, "Would process %q -> %q\n", file, processor.OutputPath(file, cfg))
		}

		if info, err := os.Stat(file); err == nil {
			totalSize += info.Size()
		}
	}

	if cfg.Stats {
		printStats(env.Stderr, stats{
			scanned:   scanned,
			excluded:  excluded,
			processed: len(cfg.Files),
			size:      totalSize,
			duration:  env.Clock.Since(start),
		})
	}

	return nil
}

func printStats(w io.Writer, s stats) {
	fmt.Fprintf(w, "\nStats\n")
	fmt.Fprintf(w, "  Scanned:   %d\n", s.scanned)
	fmt.Fprintf(w, "  Excluded:  %d\n", s.excluded)
	fmt.Fprintf(w, "  Processed: %d\n", s.processed)
	fmt.Fprintf(w, "  Errors:    %d\n", s.errored)
	//nolint:gosec // size is always non-negative (sum of file sizes)
	fmt.Fprintf(w, "  Size:      %s\n", humanize.IBytes(uint64(max(0, s.size))))
	fmt.Fprintf(w, "  Duration:  %s\n", s.duration.Round(time.Millisecond))
}
