package logic

import (
	"encoding/hex"
	"fmt"

	"github.com/idelchi/gosubst/internal/config"
	"github.com/idelchi/gosubst/internal/language"
	"github.com/idelchi/gosubst/internal/seal"
	"github.com/idelchi/gosubst/internal/substitution"
)

// RunGenerate creates a random language and writes it to cfg.Language.
func RunGenerate(cfg *config.Config, env Env) error {
	alphabet := substitution.DefaultAlphabet()

	if cfg.Alphabet != "" {
		custom, err := substitution.NewAlphabet(cfg.Alphabet)
		if err != nil {
			return fmt.Errorf("%w: --alphabet: %w", config.ErrUsage, err)
		}

		alphabet = custom
	}

	opts := language.SaveOptions{Force: cfg.Force}

	if cfg.Format != "" {
		format, err := language.ParseFormat(cfg.Format)
		if err != nil {
			return fmt.Errorf("%w: --format: %w", config.ErrUsage, err)
		}

		opts.Format = format
	}

	mode, err := seal.ParseMode(cfg.Seal)
	if err != nil {
		return fmt.Errorf("%w: --seal: %w", config.ErrUsage, err)
	}

	if mode != seal.None {
		key, err := cfg.ResolveKey()
		if err != nil {
			return err
		}

		if key == nil {
			return fmt.Errorf("%w: --seal %s requires --key or --key-file", config.ErrUsage, mode)
		}

		opts.Seal, opts.Key = mode, key
	}

	file := language.New(alphabet, env.Clock.Now())

	if err := language.Save(cfg.Language, file, opts); err != nil {
		return fmt.Errorf("saving language: %w", err)
	}

	env.Log.Info("language generated", "path", cfg.Language, "id", file.ID, "entries", len(file.Entries), "seal", mode)

	if !cfg.Quiet {
		fmt.Fprintf(env.Stdout, "Generated language %s -> %q\n", file.ID, cfg.Language)
	}

	return nil
}

// RunKey prints a random hex-encoded key for the configured seal mode.
func RunKey(cfg *config.Config, env Env) error {
	mode, err := seal.ParseMode(cfg.Seal)
	if err != nil {
		return fmt.Errorf("%w: --seal: %w", config.ErrUsage, err)
	}

	if mode == seal.None {
		mode = seal.Deterministic
	}

	key, err := seal.GenerateKey(mode)
	if err != nil {
		return err
	}

	fmt.Fprintln(env.Stdout, hex.EncodeToString(key))

	return nil
}

// RunShow prints the language metadata followed by its character table.
func RunShow(cfg *config.Config, env Env) error {
	key, err := cfg.ResolveKey()
	if err != nil {
		return err
	}

	file, err := language.Load(cfg.Language, key)
	if err != nil {
		return fmt.Errorf("loading language %q: %w", cfg.Language, err)
	}

	mapping, err := file.Mapping()
	if err != nil {
		return err
	}

	fmt.Fprintf(env.Stdout, "ID:       %s\n", file.ID)
	fmt.Fprintf(env.Stdout, "Created:  %s\n", file.Created.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(env.Stdout, "Sealed:   %s\n", file.Seal)
	fmt.Fprintf(env.Stdout, "Entries:  %d\n\n", mapping.Len())

	return substitution.New(mapping).Dump(env.Stdout)
}
