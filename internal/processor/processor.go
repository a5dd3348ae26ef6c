// Package processor encrypts and decrypts files with a substitution codec.
// Files are processed concurrently, streamed rune by rune and replaced atomically.
package processor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/idelchi/gosubst/internal/config"
	"github.com/idelchi/gosubst/internal/fileutil"
	"github.com/idelchi/gosubst/internal/substitution"
)

// Processor handles the encryption and decryption of files.
type Processor struct {
	// cfg contains runtime configuration options
	cfg *config.Config

	// codec translates between characters and tokens
	codec *substitution.Codec

	// log receives diagnostics; user-facing progress goes to stdout
	log *slog.Logger

	// stdout receives progress lines
	stdout io.Writer

	// results channels processing outcomes to the printer goroutine
	results chan Result
}

// New creates a Processor for the files in cfg.
func New(cfg *config.Config, codec *substitution.Codec, log *slog.Logger, stdout io.Writer) *Processor {
	return &Processor{
		cfg:     cfg,
		codec:   codec,
		log:     log,
		stdout:  stdout,
		results: make(chan Result, len(cfg.Files)),
	}
}

// Summary counts the outcome of ProcessFiles.
type Summary struct {
	Processed int
	Errored   int
	TotalSize int64
}

// ProcessFiles concurrently processes all files specified in the configuration.
// It encrypts or decrypts files based on the configuration settings.
// Every file is attempted and the first processing error is returned.
// Files not yet started when ctx is cancelled are reported as failed.
//
//nolint:cyclop,gocognit
func (p *Processor) ProcessFiles(ctx context.Context) (Summary, error) {
	var summary Summary

	var group errgroup.Group

	group.SetLimit(p.cfg.Parallel)

	done := make(chan struct{})

	go func() {
		defer close(done)

		for result := range p.results {
			if result.Error != nil {
				summary.Errored++

				p.log.Error("processing failed", "file", result.Input, "error", result.Error)

				continue
			}

			summary.Processed++
			summary.TotalSize += result.OutputSize

			if !p.cfg.Quiet {
				fmt.Fprintf(p.stdout, "Processed %q -> %q\n", result.Input, result.Output)
			}

			if !p.cfg.Delete {
				continue
			}

			if err := os.Remove(result.Input); err != nil {
				p.log.Warn("deleting input failed", "file", result.Input, "error", err)
			} else if !p.cfg.Quiet {
				fmt.Fprintf(p.stdout, "Deleted %q\n", result.Input)
			}
		}
	}()

	for _, file := range p.cfg.Files {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				p.results <- Result{Input: file, Error: err}

				return err
			}

			outPath := OutputPath(file, p.cfg)

			size, err := p.processFile(file, outPath)
			if err != nil {
				p.results <- Result{Input: file, Error: err}

				return err
			}

			p.results <- Result{Input: file, Output: outPath, OutputSize: size}

			return nil
		})
	}

	err := group.Wait()

	close(p.results)

	<-done // Wait for printer to finish

	if err != nil {
		return summary, fmt.Errorf("processing files: %w", err)
	}

	return summary, nil
}

// Stream encrypts or decrypts reader into writer according to the configuration.
func (p *Processor) Stream(reader io.Reader, writer io.Writer) error {
	if p.cfg.Decrypt {
		return p.decrypt(reader, writer)
	}

	return p.encrypt(reader, writer)
}

// encrypt reads characters from reader and writes their tokens to writer.
func (p *Processor) encrypt(reader io.Reader, writer io.Writer) error {
	bufReader := bufio.NewReaderSize(reader, defaultBufferSize)
	bufWriter := bufio.NewWriterSize(writer, defaultBufferSize)

	for position := 0; ; position++ {
		r, _, err := bufReader.ReadRune()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		token, err := p.codec.EncodeRune(r)
		if err != nil {
			return fmt.Errorf("encrypting character %d: %w", position, err)
		}

		if _, err := bufWriter.WriteString(token); err != nil {
			return fmt.Errorf("writing ciphertext: %w", err)
		}
	}

	if err := bufWriter.Flush(); err != nil {
		return fmt.Errorf("writing ciphertext: %w", err)
	}

	return nil
}

// decrypt reads consecutive two-rune tokens from reader and writes their characters to writer.
func (p *Processor) decrypt(reader io.Reader, writer io.Writer) error {
	bufReader := bufio.NewReaderSize(reader, defaultBufferSize)
	bufWriter := bufio.NewWriterSize(writer, defaultBufferSize)

	token := make([]rune, 0, substitution.TokenLength)

	for chunk := 0; ; chunk++ {
		token = token[:0]

		for len(token) < substitution.TokenLength {
			r, _, err := bufReader.ReadRune()
			if errors.Is(err, io.EOF) {
				break
			}

			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}

			token = append(token, r)
		}

		if len(token) == 0 {
			break
		}

		if len(token) < substitution.TokenLength {
			return fmt.Errorf("decrypting chunk %d: %w: incomplete token %q",
				chunk, substitution.ErrUnrecognizedToken, string(token))
		}

		r, err := p.codec.DecodeToken(string(token))
		if err != nil {
			return fmt.Errorf("decrypting chunk %d: %w", chunk, err)
		}

		if _, err := bufWriter.WriteRune(r); err != nil {
			return fmt.Errorf("writing plaintext: %w", err)
		}
	}

	if err := bufWriter.Flush(); err != nil {
		return fmt.Errorf("writing plaintext: %w", err)
	}

	return nil
}

// processFile handles the encryption or decryption of a single file.
// It writes to a temporary file and performs an atomic rename on completion.
func (p *Processor) processFile(filename, outPath string) (int64, error) {
	if filepath.Clean(filename) == filepath.Clean(outPath) {
		return 0, fmt.Errorf("%w: output %q would overwrite its input", ErrSamePath, outPath)
	}

	info, err := os.Stat(filename)
	if err != nil {
		return 0, fmt.Errorf("getting file info for %q: %w", filename, err)
	}

	out, err := fileutil.CreateAtomic(outPath, fileutil.IsExecutable(info))
	if err != nil {
		return 0, fmt.Errorf("preparing atomic write: %w", err)
	}

	defer out.Abort()

	inFile, err := os.Open(filepath.Clean(filename))
	if err != nil {
		return 0, fmt.Errorf("opening input file: %w", err)
	}
	defer inFile.Close()

	if err := p.Stream(inFile, out); err != nil {
		if p.cfg.Decrypt {
			return 0, fmt.Errorf("decrypting file: %w", err)
		}

		return 0, fmt.Errorf("encrypting file: %w", err)
	}

	if err := out.Commit(); err != nil {
		return 0, err
	}

	size, err := fileutil.FinalizeOutput(outPath, p.cfg.PreserveTimestamps, info.ModTime())
	if err != nil {
		return 0, fmt.Errorf("finalizing output: %w", err)
	}

	p.log.Debug("processed", "input", filename, "output", outPath, "bytes", size)

	return size, nil
}

// OutputPath generates the output file path based on the input filename
// and the configured suffixes for encryption/decryption.
func OutputPath(filename string, cfg *config.Config) string {
	ext := cfg.Suffixes.Encrypt

	if cfg.Decrypt {
		filename = strings.TrimSuffix(filename, cfg.Suffixes.Encrypt)
		ext = cfg.Suffixes.Decrypt
	}

	return filepath.Join(filepath.Dir(filename), filepath.Base(filename)+ext)
}
