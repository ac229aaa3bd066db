// Package models defines the data structures shared across marketconf.
//
// It includes:
//   - BuildConfiguration: the immutable settings object exposed to the front-end build
//   - Document: the on-disk profile shape, mirroring the framework config file
//
// All models carry JSON and YAML tags for rendering and API responses.
package models
