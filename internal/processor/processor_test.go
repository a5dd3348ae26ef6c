package processor_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/gosubst/internal/config"
	"github.com/idelchi/gosubst/internal/logging"
	"github.com/idelchi/gosubst/internal/processor"
	"github.com/idelchi/gosubst/internal/substitution"
)

const text = "Olá!\nEste é um teste (n. 1) com R$ 2,50.\n"

func newConfig(files ...string) *config.Config {
	return &config.Config{
		Parallel: 2,
		Files:    files,
		Suffixes: config.Suffixes{Encrypt: ".sub"},
	}
}

func run(t *testing.T, cfg *config.Config, codec *substitution.Codec) (processor.Summary, string, error) {
	t.Helper()

	var stdout bytes.Buffer

	summary, err := processor.New(cfg, codec, logging.Discard(), &stdout).ProcessFiles(context.Background())

	return summary, stdout.String(), err
}

func write(t *testing.T, path, content string, perm os.FileMode) {
	t.Helper()

	require.NoError(t, os.WriteFile(path, []byte(content), perm))
}

func TestEncryptDecryptFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	codec := substitution.New(nil)

	plain := filepath.Join(dir, "notes.txt")
	script := filepath.Join(dir, "run.sh")

	write(t, plain, text, 0o600)
	write(t, script, "echo ola\n", 0o700)

	summary, stdout, err := run(t, newConfig(plain, script), codec)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Processed)
	assert.Zero(t, summary.Errored)
	assert.Contains(t, stdout, `Processed "`+plain+`" -> "`+plain+`.sub"`)

	encrypted, err := os.ReadFile(plain + ".sub")
	require.NoError(t, err)

	want, err := codec.Encrypt(text)
	require.NoError(t, err)
	assert.Equal(t, want, string(encrypted))

	info, err := os.Stat(script + ".sub")
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&0o100, "executable bit is preserved")

	require.NoError(t, os.Remove(plain))

	cfg := newConfig(plain+".sub", script+".sub")
	cfg.Decrypt = true
	cfg.Quiet = true

	summary, stdout, err = run(t, cfg, codec)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Processed)
	assert.Empty(t, stdout)

	decrypted, err := os.ReadFile(plain)
	require.NoError(t, err)
	assert.Equal(t, text, string(decrypted))
}

func TestDelete(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	write(t, path, "abc", 0o600)

	cfg := newConfig(path)
	cfg.Delete = true

	_, stdout, err := run(t, cfg, substitution.New(nil))
	require.NoError(t, err)
	assert.Contains(t, stdout, "Deleted")

	assert.NoFileExists(t, path)
	assert.FileExists(t, path+".sub")
}

func TestUnknownCharacterLeavesNoOutput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.txt")
	worse := filepath.Join(dir, "worse.txt")
	good := filepath.Join(dir, "good.txt")

	write(t, bad, "price: 5€", 0o600)
	write(t, worse, "→", 0o600)
	write(t, good, "fine", 0o600)

	// A single worker reaches the valid file only after both failures.
	cfg := newConfig(bad, worse, good)
	cfg.Parallel = 1
	cfg.Delete = true

	summary, _, err := run(t, cfg, substitution.New(nil))
	require.ErrorIs(t, err, substitution.ErrUnknownCharacter)
	assert.Equal(t, 2, summary.Errored)
	assert.Equal(t, 1, summary.Processed)

	assert.FileExists(t, good+".sub")
	assert.NoFileExists(t, good)

	for _, path := range []string{bad, worse} {
		assert.NoFileExists(t, path+".sub")
		assert.FileExists(t, path, "failed inputs are never deleted")
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	for _, entry := range entries {
		assert.False(t, strings.HasPrefix(entry.Name(), ".tmp-"), "temporary file %s left behind", entry.Name())
	}
}

func TestCancelled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	write(t, path, "abc", 0o600)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := processor.New(newConfig(path), substitution.New(nil), logging.Discard(), io.Discard).ProcessFiles(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, summary.Errored)
	assert.NoFileExists(t, path+".sub")
}

func TestDecryptWithOtherLanguage(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	write(t, path, text, 0o600)

	_, _, err := run(t, newConfig(path), substitution.New(nil))
	require.NoError(t, err)

	cfg := newConfig(path + ".sub")
	cfg.Decrypt = true
	cfg.Suffixes.Decrypt = ".out"

	_, _, err = run(t, cfg, substitution.New(nil))
	require.ErrorIs(t, err, substitution.ErrUnrecognizedToken)
	assert.NoFileExists(t, path+".out")
}

func TestSamePath(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "plain.txt")
	write(t, path, "ab", 0o600)

	cfg := newConfig(path)
	cfg.Decrypt = true

	_, _, err := run(t, cfg, substitution.New(nil))
	require.ErrorIs(t, err, processor.ErrSamePath)
}

func TestStream(t *testing.T) {
	t.Parallel()

	mapping, err := substitution.NewMapping(map[rune]string{'a': "çx", 'b': "xç", '\n': "\nç"})
	require.NoError(t, err)

	codec := substitution.New(mapping)

	tests := []struct {
		name    string
		decrypt bool
		input   string
		want    string
		wantErr error
	}{
		{name: "encrypt", input: "ab\na", want: "çxxç\nççx"},
		{name: "encrypt empty", input: "", want: ""},
		{name: "encrypt unknown", input: "abc", wantErr: substitution.ErrUnknownCharacter},
		{name: "encrypt invalid utf8", input: "a\xff", wantErr: substitution.ErrUnknownCharacter},
		{name: "decrypt", decrypt: true, input: "çxxç\nççx", want: "ab\na"},
		{name: "decrypt odd length", decrypt: true, input: "çxx", wantErr: substitution.ErrUnrecognizedToken},
		{name: "decrypt unknown token", decrypt: true, input: "çxzz", wantErr: substitution.ErrUnrecognizedToken},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := newConfig()
			cfg.Decrypt = tc.decrypt

			var out bytes.Buffer

			err := processor.New(cfg, codec, logging.Discard(), &out).Stream(strings.NewReader(tc.input), &out)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, out.String())
		})
	}
}

func TestOutputPath(t *testing.T) {
	t.Parallel()

	cfg := newConfig()
	cfg.Suffixes = config.Suffixes{Encrypt: ".sub", Decrypt: ".txt"}

	assert.Equal(t, filepath.Join("dir", "a.md.sub"), processor.OutputPath(filepath.Join("dir", "a.md"), cfg))

	cfg.Decrypt = true
	assert.Equal(t, filepath.Join("dir", "a.txt"), processor.OutputPath(filepath.Join("dir", "a.sub"), cfg))
}
