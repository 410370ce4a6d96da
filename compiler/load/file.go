package load

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a table-data document.
type Format string

// Supported document formats.
const (
	FormatYAML    Format = "yaml"
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

// FormatOf returns the document format implied by the file extension.
func FormatOf(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".msgpack", ".mp":
		return FormatMsgpack, nil
	default:
		return "", fmt.Errorf("load: unsupported document extension %q", ext)
	}
}

// Marshal encodes td in the given format.
func Marshal(f Format, td *TableData) ([]byte, error) {
	switch f {
	case FormatYAML:
		return yaml.Marshal(td)
	case FormatJSON:
		return json.MarshalIndent(td, "", "  ")
	case FormatMsgpack:
		return msgpack.Marshal(td)
	default:
		return nil, fmt.Errorf("load: unsupported format %q", f)
	}
}

// Unmarshal decodes a table-data document in the given format.
func Unmarshal(f Format, buf []byte) (*TableData, error) {
	td := &TableData{}
	var err error
	switch f {
	case FormatYAML:
		err = yaml.Unmarshal(buf, td)
	case FormatJSON:
		err = json.Unmarshal(buf, td)
	case FormatMsgpack:
		err = msgpack.Unmarshal(buf, td)
	default:
		return nil, fmt.Errorf("load: unsupported format %q", f)
	}
	if err != nil {
		return nil, fmt.Errorf("load: decode %s: %w", f, err)
	}
	return td, nil
}

// ReadFile reads a table-data document. The format is chosen by extension.
func ReadFile(path string) (*TableData, error) {
	f, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load: read %s: %w", path, err)
	}
	return Unmarshal(f, buf)
}

// WriteFile writes td to path. The format is chosen by extension.
func WriteFile(path string, td *TableData) error {
	f, err := FormatOf(path)
	if err != nil {
		return err
	}
	buf, err := Marshal(f, td)
	if err != nil {
		return fmt.Errorf("load: encode %s: %w", f, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("load: create directory for %s: %w", path, err)
	}
	return os.WriteFile(path, buf, 0o644)
}
