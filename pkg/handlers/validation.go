package handlers

import (
	"errors"

	"github.com/amaumene/marketconf/pkg/repository"
)

var ErrInvalidProfileName = errors.New("invalid profile name")

// validateProfileName rejects names that cannot address a profile file
func validateProfileName(name string) (string, error) {
	if !repository.ValidProfileName(name) {
		return "", ErrInvalidProfileName
	}
	return name, nil
}
