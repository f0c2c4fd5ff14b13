package fileutil

import (
	"bytes"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/mcsync/internal/errors"
)

// Encoding formats accepted by Marshal.
const (
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// ErrUnknownFormat indicates a format other than yaml or toml.
var ErrUnknownFormat = errors.New("unknown format")

// Marshal encodes v in the given format. The output always ends in a newline.
func Marshal(v any, format string) (data []byte, err error) {
	switch format {
	case FormatYAML, "yml", "":
		// yaml.Marshal panics on unmarshalable types; recover and return error
		defer func() {
			if r := recover(); r != nil {
				data, err = nil, errors.Newf("marshaling YAML: %v", r)
			}
		}()
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return nil, errors.Wrap(err, "marshaling YAML")
		}
		if err := enc.Close(); err != nil {
			return nil, errors.Wrap(err, "marshaling YAML")
		}
		data = buf.Bytes()
	case FormatTOML:
		data, err = toml.Marshal(v)
		if err != nil {
			return nil, errors.Wrap(err, "marshaling TOML")
		}
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "%q", format)
	}

	if len(data) > 0 && data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	return data, nil
}
