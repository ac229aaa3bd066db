// Package services provides the core logic of marketconf.
//
// It includes:
//   - ProviderService: loads one configuration once, validates it and hands out copies
//   - CatalogService: validates every profile of a repository side by side
//   - EnvOverrides: framework variables that replace profile values at load time
package services
