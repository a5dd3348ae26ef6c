package language_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/gosubst/internal/language"
	"github.com/idelchi/gosubst/internal/seal"
	"github.com/idelchi/gosubst/internal/substitution"
)

var created = time.Date(2026, 10, 18, 12, 30, 0, 0, time.UTC)

func TestNew(t *testing.T) {
	t.Parallel()

	alphabet := substitution.DefaultAlphabet()
	file := language.New(alphabet, created)

	assert.Len(t, file.ID, 26)
	assert.Equal(t, created, file.Created)
	assert.Equal(t, alphabet.String(), file.Alphabet)
	assert.Len(t, file.Entries, alphabet.Len()+1)

	mapping, err := file.Mapping()
	require.NoError(t, err)
	assert.Equal(t, alphabet.Len()+1, mapping.Len())
}

func TestSaveLoadFormats(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"language.json", "language.jsonc", "language.toml", "language.yaml", "language.lang"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), name)
			file := language.New(substitution.DefaultAlphabet(), created)

			require.NoError(t, language.Save(path, file, language.SaveOptions{}))

			loaded, err := language.Load(path, nil)
			require.NoError(t, err)

			assert.Equal(t, file.ID, loaded.ID)
			assert.True(t, file.Created.Equal(loaded.Created))

			want, err := file.Mapping()
			require.NoError(t, err)

			got, err := loaded.Mapping()
			require.NoError(t, err)

			assert.True(t, want.Equal(got))
			assert.Equal(t, seal.None, loaded.Seal)
		})
	}
}

func TestYAMLSymbols(t *testing.T) {
	t.Parallel()

	// Every symbol of the default alphabet lands on a token edge sooner or later.
	for i := range 50 {
		path := filepath.Join(t.TempDir(), "language.yaml")
		file := language.New(substitution.DefaultAlphabet(), created)

		require.NoError(t, language.Save(path, file, language.SaveOptions{}))

		loaded, err := language.Load(path, nil)
		require.NoError(t, err, "language %d", i)

		want, err := file.Mapping()
		require.NoError(t, err)

		got, err := loaded.Mapping()
		require.NoError(t, err)
		require.True(t, want.Equal(got), "language %d", i)
		assert.Equal(t, file.Alphabet, loaded.Alphabet)
	}
}

func TestYAMLIndicators(t *testing.T) {
	t.Parallel()

	for _, chars := range []string{"-?", "~:", "'\"", "#&*!|>%@`"} {
		t.Run(chars, func(t *testing.T) {
			t.Parallel()

			alphabet, err := substitution.NewAlphabet(chars)
			require.NoError(t, err)

			for range 10 {
				file := language.New(alphabet, created)

				data, err := language.Encode(file, "language.yaml", language.SaveOptions{})
				require.NoError(t, err)

				loaded, err := language.Decode(data, language.YAML, nil)
				require.NoError(t, err, string(data))
				assert.Equal(t, chars, loaded.Alphabet)
				assert.Equal(t, file.Entries, loaded.Entries)
			}
		})
	}
}

func TestLoadDetectsFormat(t *testing.T) {
	t.Parallel()

	for _, format := range language.Formats() {
		t.Run(string(format), func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "language.json")
			file := language.New(substitution.DefaultAlphabet(), created)

			require.NoError(t, language.Save(path, file, language.SaveOptions{Format: format}))

			loaded, err := language.Load(path, nil)
			require.NoError(t, err)
			assert.Equal(t, file.ID, loaded.ID)
			assert.Len(t, loaded.Entries, len(file.Entries))
		})
	}
}

func TestSaveLoadSealed(t *testing.T) {
	t.Parallel()

	for _, mode := range []seal.Mode{seal.Deterministic, seal.Randomized} {
		t.Run(mode.String(), func(t *testing.T) {
			t.Parallel()

			key, err := seal.GenerateKey(mode)
			require.NoError(t, err)

			path := filepath.Join(t.TempDir(), "language.toml")
			file := language.New(substitution.DefaultAlphabet(), created)

			require.NoError(t, language.Save(path, file, language.SaveOptions{Seal: mode, Key: key}))

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.True(t, seal.IsSealed(data))

			_, err = language.Load(path, nil)
			require.ErrorIs(t, err, language.ErrKeyRequired)

			other, err := seal.GenerateKey(mode)
			require.NoError(t, err)

			_, err = language.Load(path, other)
			require.ErrorIs(t, err, seal.ErrAuthentication)

			loaded, err := language.Load(path, key)
			require.NoError(t, err)
			assert.Equal(t, file.ID, loaded.ID)
			assert.Equal(t, mode, loaded.Seal)
		})
	}
}

func TestSaveRefusesOverwrite(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "language.json")

	first := language.New(substitution.DefaultAlphabet(), created)
	require.NoError(t, language.Save(path, first, language.SaveOptions{}))

	second := language.New(substitution.DefaultAlphabet(), created)
	require.ErrorIs(t, language.Save(path, second, language.SaveOptions{}), language.ErrExists)

	require.NoError(t, language.Save(path, second, language.SaveOptions{Force: true}))

	loaded, err := language.Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, second.ID, loaded.ID)
}

func TestLoadCommentedJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "language.jsonc")

	content := `{
	// shared with the other party
	"id": "01JAB0000000000000000000ZZ",
	"created": "2026-10-18T12:30:00Z",
	"entries": [
		{"char": "a", "token": "xy"},
		{"char": "\n", "token": "\nx"}, /* trailing comma below */
	],
}`

	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	file, err := language.Load(path, nil)
	require.NoError(t, err)

	mapping, err := file.Mapping()
	require.NoError(t, err)

	codec := substitution.New(mapping)

	cipher, err := codec.Encrypt("a\na")
	require.NoError(t, err)
	assert.Equal(t, "xy\nxxy", cipher)
}

func TestLoadInvalid(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"duplicate token":    `{"entries":[{"char":"a","token":"xy"},{"char":"b","token":"xy"}]}`,
		"short token":        `{"entries":[{"char":"a","token":"x"}]}`,
		"multi rune char":    `{"entries":[{"char":"ab","token":"xy"}]}`,
		"repeated character": `{"entries":[{"char":"a","token":"xy"},{"char":"a","token":"yx"}]}`,
		"malformed document": `{"entries":`,
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "language.json")
			require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

			_, err := language.Load(path, nil)
			require.ErrorIs(t, err, language.ErrInvalidFile)
		})
	}
}

func TestFormatOf(t *testing.T) {
	t.Parallel()

	for path, want := range map[string]language.Format{
		"a.json":  language.JSON,
		"a.jsonc": language.JSON,
		"a.YAML":  language.YAML,
		"a.yml":   language.YAML,
		"a.toml":  language.TOML,
		"a":       language.JSON,
		"a.txt":   language.JSON,
	} {
		assert.Equal(t, want, language.FormatOf(path), path)
	}
}
