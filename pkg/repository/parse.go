package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	apperrors "github.com/amaumene/marketconf/pkg/errors"
	"github.com/amaumene/marketconf/pkg/models"
)

// Format is the encoding of a profile file.
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONC Format = "jsonc"
	FormatYAML  Format = "yaml"
)

// extensions lists the recognised profile file extensions in lookup order.
var extensions = []string{".jsonc", ".json", ".yaml", ".yml"}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".jsonc":
		return FormatJSONC, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", apperrors.ErrUnsupportedFormat, path)
	}
}

// Parse decodes a profile document. JSON input may carry // and /* */
// comments and trailing commas. Values are decoded weakly, so CHAIN_ID
// may be a number or a numeric string.
func Parse(data []byte, format Format) (*models.Document, error) {
	raw := map[string]interface{}{}

	switch format {
	case FormatJSON, FormatJSONC:
		if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
			return nil, fmt.Errorf("parsing %s profile: %w", format, err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing yaml profile: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnsupportedFormat, format)
	}

	return decode(raw)
}

// ParseFile reads and decodes the profile at path.
func ParseFile(path string) (*models.Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	doc, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func decode(raw map[string]interface{}) (*models.Document, error) {
	var doc models.Document
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &doc,
	})
	if err != nil {
		return nil, fmt.Errorf("creating decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decoding profile: %w", err)
	}
	return &doc, nil
}
