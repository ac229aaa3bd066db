// Package repository provides the configuration sources for marketconf.
//
// It defines the Repository interface and implements it over any fs.FS:
//   - the embedded profiles compiled into the binary (alfajores, ropsten)
//   - a directory of profile files chosen at runtime
//
// Profiles are written as JSONC (JSON with comments and trailing commas) or
// YAML, and share the shape of the front-end framework config object.
package repository
