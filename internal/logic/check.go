package logic

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/idelchi/gosubst/internal/config"
	"github.com/idelchi/gosubst/internal/processor"
)

// ErrCheckFailed is returned by RunCheck when some files do not decrypt with the language.
var ErrCheckFailed = errors.New("check failed")

// RunCheck verifies that every encrypted file decrypts with the language, writing nothing.
// A single "-" checks standard input.
func RunCheck(cfg *config.Config, env Env) error {
	cfg.Decrypt = true

	codec, err := loadCodec(cfg, env)
	if err != nil {
		return err
	}

	proc := processor.New(cfg, codec, env.Log, env.Stdout)

	if isStdio(cfg.Files) {
		if err := proc.Stream(env.Stdin, io.Discard); err != nil {
			return fmt.Errorf("%w: standard input: %w", ErrCheckFailed, err)
		}

		if !cfg.Quiet {
			fmt.Fprintln(env.Stdout, "-: ok")
		}

		return nil
	}

	if _, err := resolveFiles(cfg, env); err != nil {
		return err
	}

	var failures int

	for _, file := range cfg.Files {
		if err := checkFile(proc, file); err != nil {
			fmt.Fprintf(env.Stderr, "%s: %v\n", file, err)

			failures++

			continue
		}

		if !cfg.Quiet {
			fmt.Fprintf(env.Stdout, "%s: ok\n", file)
		}
	}

	if failures > 0 {
		return fmt.Errorf("%w: %d of %d file(s) do not decrypt with %q", ErrCheckFailed, failures, len(cfg.Files), cfg.Language)
	}

	return nil
}

// checkFile decrypts file into io.Discard.
func checkFile(proc *processor.Processor, file string) error {
	in, err := os.Open(filepath.Clean(file))
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}
	defer in.Close()

	return proc.Stream(in, io.Discard)
}
