// Package hosts validates the allow-list of remote image hosts.
package hosts

import (
	"fmt"
	"strings"

	"golang.org/x/net/idna"

	apperrors "github.com/amaumene/marketconf/pkg/errors"
)

const (
	maxHostLength  = 253
	maxLabelLength = 63
)

// ValidateHost checks that h is a bare DNS hostname: no scheme, port,
// path or wildcard. Internationalised names are converted with the IDNA
// lookup profile before the label rules are applied.
func ValidateHost(h string) error {
	if h == "" {
		return fmt.Errorf("%w: empty hostname", apperrors.ErrInvalidHost)
	}
	if strings.ContainsAny(h, ":/?#@* \t") {
		return fmt.Errorf("%w: %q must be a bare hostname", apperrors.ErrInvalidHost, h)
	}

	ascii, err := idna.Lookup.ToASCII(h)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", apperrors.ErrInvalidHost, h, err)
	}
	if len(ascii) > maxHostLength {
		return fmt.Errorf("%w: %q is longer than %d characters", apperrors.ErrInvalidHost, h, maxHostLength)
	}

	for _, label := range strings.Split(ascii, ".") {
		if err := validateLabel(label); err != nil {
			return fmt.Errorf("%w: %q: %v", apperrors.ErrInvalidHost, h, err)
		}
	}
	return nil
}

func validateLabel(label string) error {
	if label == "" {
		return fmt.Errorf("empty label")
	}
	if len(label) > maxLabelLength {
		return fmt.Errorf("label %q longer than %d characters", label, maxLabelLength)
	}
	if label[0] == '-' || label[len(label)-1] == '-' {
		return fmt.Errorf("label %q starts or ends with a hyphen", label)
	}
	for _, c := range label {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-':
		default:
			return fmt.Errorf("label %q contains %q", label, c)
		}
	}
	return nil
}

// ValidateSet checks that hs is non-empty, that every entry is a valid
// hostname and that no entry repeats after case folding.
func ValidateSet(hs []string) error {
	if len(hs) == 0 {
		return apperrors.ErrEmptyHostSet
	}
	seen := make(map[string]struct{}, len(hs))
	for _, h := range hs {
		if err := ValidateHost(h); err != nil {
			return err
		}
		key := strings.ToLower(h)
		if _, ok := seen[key]; ok {
			return fmt.Errorf("%w: %q listed twice", apperrors.ErrInvalidHost, h)
		}
		seen[key] = struct{}{}
	}
	return nil
}
