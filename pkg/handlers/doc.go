// Package handlers provides the read-only HTTP API of marketconf.
//
// The API includes endpoints for:
//   - Health checks
//   - The configuration loaded at startup, as JSON, YAML, dotenv or next.config.js
//   - Listing, reading and validating profiles
//
// Every endpoint is read-only. An optional API key guards everything but
// the health check.
package handlers
