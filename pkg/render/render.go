// Package render writes a BuildConfiguration in the shapes the front-end
// build consumes it in.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	apperrors "github.com/amaumene/marketconf/pkg/errors"
	"github.com/amaumene/marketconf/pkg/models"
)

// Format selects an output shape.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatEnv  Format = "env"
	FormatNext Format = "next"
)

// Formats lists every supported format.
var Formats = []Format{FormatJSON, FormatYAML, FormatEnv, FormatNext}

// ParseFormat maps a name to a Format. The empty string means JSON.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatJSON, nil
	}
	for _, f := range Formats {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q (want one of %s)", apperrors.ErrUnsupportedFormat, s, formatNames())
}

// ContentType is the media type served for f.
func (f Format) ContentType() string {
	switch f {
	case FormatYAML:
		return "application/yaml"
	case FormatEnv:
		return "text/plain; charset=utf-8"
	case FormatNext:
		return "text/javascript; charset=utf-8"
	default:
		return "application/json"
	}
}

// Write renders cfg to w.
func Write(w io.Writer, cfg *models.BuildConfiguration, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case FormatEnv:
		return writeEnv(w, cfg)
	case FormatNext:
		return nextConfig.Execute(w, cfg)
	default:
		return fmt.Errorf("%w: %q", apperrors.ErrUnsupportedFormat, f)
	}
}

func writeEnv(w io.Writer, cfg *models.BuildConfiguration) error {
	env := cfg.Env()
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if _, err := fmt.Fprintf(w, "%s=%s\n", k, env[k]); err != nil {
			return err
		}
	}
	return nil
}

var nextConfig = template.Must(template.New("next.config.js").Funcs(template.FuncMap{
	"quote": jsString,
}).Parse(`/** @type {import('next').NextConfig} */
const nextConfig = {
  env: {
    NFT_MARKET_CONTRACT_ADDRESS: {{quote .MarketContractAddress}},
    NFT_CONTRACT_ADDRESS: {{quote .NFTContractAddress}},
    CHAIN_ID: {{.ChainID}},
  },
  reactStrictMode: {{.StrictMode}},
  images: {
    domains: [{{range $i, $h := .AllowedImageHosts}}{{if $i}}, {{end}}{{quote $h}}{{end}}],
  },
}

module.exports = nextConfig
`))

// jsString quotes s as a JavaScript string literal. JSON string syntax is
// a subset of it.
func jsString(s string) (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func formatNames() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
