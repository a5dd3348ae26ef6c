package language

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/jsonc"
)

// Format is a language file encoding.
type Format string

const (
	// JSON is the default format. Comments and trailing commas are tolerated on load.
	JSON Format = "json"
	// YAML encodes the language as a YAML document.
	YAML Format = "yaml"
	// TOML encodes the language as a TOML document.
	TOML Format = "toml"
)

// ParseFormat converts a format name into a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "json", "jsonc":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "toml":
		return TOML, nil
	default:
		return "", fmt.Errorf("unknown language format %q", name)
	}
}

// FormatOf infers the format from the extension of path, falling back to JSON.
func FormatOf(path string) Format {
	format, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return JSON
	}

	return format
}

func (f Format) marshal(file *File) ([]byte, error) {
	var (
		data []byte
		err  error
	)

	switch f {
	case YAML:
		data, err = yaml.Marshal(toYAML(file))
	case TOML:
		data, err = toml.Marshal(file)
	default:
		data, err = json.MarshalIndent(file, "", "  ")
		data = append(data, '\n')
	}

	if err != nil {
		return nil, fmt.Errorf("encoding language as %s: %w", f, err)
	}

	return data, nil
}

// Formats lists the supported formats in the order they are tried when detecting.
func Formats() []Format {
	return []Format{JSON, YAML, TOML}
}

func (f Format) unmarshal(data []byte) (*File, error) {
	var (
		file File
		err  error
	)

	switch f {
	case YAML:
		err = yaml.Unmarshal(data, &file)
	case TOML:
		err = toml.Unmarshal(data, &file)
	default:
		err = json.Unmarshal(jsonc.ToJSON(data), &file)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %w", ErrInvalidFile, f, err)
	}

	return &file, nil
}

// yamlString is always written quoted, so that characters such as "-", "?" or "~"
// are never read back as indicators or null. Double quotes are used unless the value
// holds a tab or bell, whose escapes the decoder does not understand.
type yamlString string

func (s yamlString) MarshalYAML() ([]byte, error) {
	value := string(s)

	if !strings.ContainsAny(value, "\t\a") {
		return []byte(strconv.Quote(value)), nil
	}

	if strings.ContainsAny(value, "\n\r") {
		return nil, fmt.Errorf("%q cannot be quoted in YAML", value)
	}

	return []byte("'" + strings.ReplaceAll(value, "'", "''") + "'"), nil
}

type yamlEntry struct {
	Char  yamlString `yaml:"char"`
	Token yamlString `yaml:"token"`
}

type yamlFile struct {
	ID       string      `yaml:"id"`
	Created  time.Time   `yaml:"created"`
	Alphabet yamlString  `yaml:"alphabet,omitempty"`
	Entries  []yamlEntry `yaml:"entries"`
}

func toYAML(file *File) yamlFile {
	out := yamlFile{
		ID:       file.ID,
		Created:  file.Created,
		Alphabet: yamlString(file.Alphabet),
		Entries:  make([]yamlEntry, len(file.Entries)),
	}

	for i, entry := range file.Entries {
		out.Entries[i] = yamlEntry{Char: yamlString(entry.Char), Token: yamlString(entry.Token)}
	}

	return out
}
