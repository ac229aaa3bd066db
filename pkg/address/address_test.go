package address

import (
	"errors"
	"strings"
	"testing"

	apperrors "github.com/amaumene/marketconf/pkg/errors"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		addr    string
		wantErr error
	}{
		{"market sample", "0x6a84e7cd87d6A65303EdAA2DEcf51d8362B49636", nil},
		{"nft sample", "0x0ccEae723EdCe35a5e3570923cCE7D0E2424434e", nil},
		{"upper hex", "0x0CCEAE723EDCE35A5E3570923CCE7D0E2424434E", nil},
		{"upper prefix", "0X0CCEAE723EDCE35A5E3570923CCE7D0E2424434E", apperrors.ErrInvalidAddress},
		{"missing prefix", "6a84e7cd87d6A65303EdAA2DEcf51d8362B49636", apperrors.ErrInvalidAddress},
		{"leading space", " 0x0ccEae723EdCe35a5e3570923cCE7D0E2424434e", apperrors.ErrInvalidAddress},
		{"42 hex characters", "0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512ab", apperrors.ErrInvalidAddress},
		{"too short", "0x1234", apperrors.ErrInvalidAddress},
		{"non hex", "0x6a84e7cd87d6A65303EdAA2DEcf51d8362B4963g", apperrors.ErrInvalidAddress},
		{"empty", "", apperrors.ErrInvalidAddress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.addr)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate(%q) error = %v, want %v", tt.addr, err, tt.wantErr)
			}
		})
	}
}

func TestValidateLengthMessage(t *testing.T) {
	err := Validate("0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512ab")
	if err == nil || !strings.Contains(err.Error(), "got 42") {
		t.Errorf("Validate() error = %v, want the hex count in the message", err)
	}
}

func TestChecksum(t *testing.T) {
	tests := []string{
		"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		"0x6a84e7cd87d6A65303EdAA2DEcf51d8362B49636",
		"0x0ccEae723EdCe35a5e3570923cCE7D0E2424434e",
		"0x5FbDB2315678afecb367f032d93F642f64180aa3",
	}

	for _, want := range tests {
		t.Run(want, func(t *testing.T) {
			if got := Checksum(strings.ToLower(want)); got != want {
				t.Errorf("Checksum() = %s, want %s", got, want)
			}
		})
	}
}

func TestValidateChecksum(t *testing.T) {
	tests := []struct {
		name    string
		addr    string
		wantErr error
	}{
		{"checksummed", "0x6a84e7cd87d6A65303EdAA2DEcf51d8362B49636", nil},
		{"all lower", "0x6a84e7cd87d6a65303edaa2decf51d8362b49636", nil},
		{"all upper", "0x6A84E7CD87D6A65303EDAA2DECF51D8362B49636", nil},
		{"wrong case", "0x6A84e7cd87d6A65303EdAA2DEcf51d8362B49636", apperrors.ErrChecksumMismatch},
		{"bad shape", "0x6a84", apperrors.ErrInvalidAddress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChecksum(tt.addr)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateChecksum(%q) error = %v, want %v", tt.addr, err, tt.wantErr)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	if !Equal("0x6a84e7cd87d6A65303EdAA2DEcf51d8362B49636", "0x6A84E7CD87D6A65303EDAA2DECF51D8362B49636") {
		t.Error("Equal() = false for addresses differing only in case")
	}
	if Equal("0x6a84e7cd87d6A65303EdAA2DEcf51d8362B49636", "0x0ccEae723EdCe35a5e3570923cCE7D0E2424434e") {
		t.Error("Equal() = true for different addresses")
	}
}
