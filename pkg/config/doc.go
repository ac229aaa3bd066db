// Package config provides runtime settings for the marketconf tool itself.
//
// Configuration is loaded from environment variables with sensible defaults.
// The package supports:
//   - Profile selection (embedded samples, a profile directory or a single file)
//   - Validation settings (EIP-55 checksum enforcement, extra chain IDs)
//   - HTTP server settings and an optional API key
//   - Log level and format
//
// Command line flags override these values in cmd/marketconf. The settings
// are validated at startup to fail fast if misconfigured.
package config
