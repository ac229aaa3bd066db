// Package address validates contract addresses: a 0x prefix followed by
// exactly 40 hexadecimal characters, with an optional EIP-55 mixed-case
// checksum.
package address

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"

	apperrors "github.com/amaumene/marketconf/pkg/errors"
)

const (
	// HexLength is the number of hex characters after the 0x prefix.
	HexLength = 40
	prefix    = "0x"
)

// Validate checks the shape of s. The prefix must be a lower-case 0x; the
// case of the hex digits is not checked.
func Validate(s string) error {
	if !strings.HasPrefix(s, prefix) {
		return fmt.Errorf("%w: missing 0x prefix", apperrors.ErrInvalidAddress)
	}
	digits := s[len(prefix):]
	if len(digits) != HexLength {
		return fmt.Errorf("%w: expected %d hex characters, got %d", apperrors.ErrInvalidAddress, HexLength, len(digits))
	}
	for i, c := range digits {
		if !isHex(c) {
			return fmt.Errorf("%w: non-hex character %q at offset %d", apperrors.ErrInvalidAddress, c, i+len(prefix))
		}
	}
	return nil
}

// ValidateChecksum runs Validate and then the EIP-55 rule: all-lowercase
// and all-uppercase addresses carry no checksum and are accepted, mixed
// case must match Checksum exactly.
func ValidateChecksum(s string) error {
	if err := Validate(s); err != nil {
		return err
	}
	digits := s[len(prefix):]
	if digits == strings.ToLower(digits) || digits == strings.ToUpper(digits) {
		return nil
	}
	if want := Checksum(s); want[len(prefix):] != digits {
		return fmt.Errorf("%w: want %s", apperrors.ErrChecksumMismatch, want)
	}
	return nil
}

// Checksum returns the EIP-55 form of s. s must already pass Validate.
func Checksum(s string) string {
	lower := strings.ToLower(s[len(prefix):])

	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(lower))
	digest := hex.EncodeToString(h.Sum(nil))

	out := []byte(lower)
	for i, c := range out {
		if c >= 'a' && c <= 'f' && digest[i] >= '8' {
			out[i] = c - 'a' + 'A'
		}
	}
	return prefix + string(out)
}

// Equal reports whether a and b name the same account.
func Equal(a, b string) bool {
	return strings.EqualFold(a, b)
}

func isHex(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
