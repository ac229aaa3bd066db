package validation

import (
	"errors"
	"testing"

	"github.com/amaumene/marketconf/pkg/chain"
	apperrors "github.com/amaumene/marketconf/pkg/errors"
	"github.com/amaumene/marketconf/pkg/models"
)

func validConfig() *models.BuildConfiguration {
	return &models.BuildConfiguration{
		MarketContractAddress: "0x6a84e7cd87d6A65303EdAA2DEcf51d8362B49636",
		NFTContractAddress:    "0x0ccEae723EdCe35a5e3570923cCE7D0E2424434e",
		ChainID:               44787,
		StrictMode:            true,
		AllowedImageHosts:     []string{"ipfs.infura.io"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*models.BuildConfiguration)
		wantFields []string
		wantErrs   []error
	}{
		{
			name:   "valid",
			mutate: func(*models.BuildConfiguration) {},
		},
		{
			name: "nft address has 42 hex characters",
			mutate: func(c *models.BuildConfiguration) {
				c.NFTContractAddress = "0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512ab"
			},
			wantFields: []string{FieldNFTContractAddress},
			wantErrs:   []error{apperrors.ErrInvalidAddress},
		},
		{
			name: "bad checksum",
			mutate: func(c *models.BuildConfiguration) {
				c.MarketContractAddress = "0x6A84e7cd87d6A65303EdAA2DEcf51d8362B49636"
			},
			wantFields: []string{FieldMarketContractAddress},
			wantErrs:   []error{apperrors.ErrChecksumMismatch},
		},
		{
			name: "upper case prefix",
			mutate: func(c *models.BuildConfiguration) {
				c.MarketContractAddress = "0X6A84E7CD87D6A65303EDAA2DECF51D8362B49636"
			},
			wantFields: []string{FieldMarketContractAddress},
			wantErrs:   []error{apperrors.ErrInvalidAddress},
		},
		{
			name: "same contract twice",
			mutate: func(c *models.BuildConfiguration) {
				c.NFTContractAddress = "0x6a84e7cd87d6a65303edaa2decf51d8362b49636"
			},
			wantFields: []string{FieldNFTContractAddress},
			wantErrs:   []error{apperrors.ErrDuplicateAddress},
		},
		{
			name:       "unknown chain",
			mutate:     func(c *models.BuildConfiguration) { c.ChainID = 424242 },
			wantFields: []string{FieldChainID},
			wantErrs:   []error{apperrors.ErrUnknownChain},
		},
		{
			name:       "negative chain",
			mutate:     func(c *models.BuildConfiguration) { c.ChainID = -1 },
			wantFields: []string{FieldChainID},
			wantErrs:   []error{apperrors.ErrInvalidChainID},
		},
		{
			name:       "no image hosts",
			mutate:     func(c *models.BuildConfiguration) { c.AllowedImageHosts = nil },
			wantFields: []string{FieldAllowedImageHosts},
			wantErrs:   []error{apperrors.ErrEmptyHostSet},
		},
		{
			name: "everything wrong at once",
			mutate: func(c *models.BuildConfiguration) {
				c.MarketContractAddress = "market"
				c.NFTContractAddress = ""
				c.ChainID = 0
				c.AllowedImageHosts = []string{"https://ipfs.infura.io"}
			},
			wantFields: []string{FieldMarketContractAddress, FieldNFTContractAddress, FieldChainID, FieldAllowedImageHosts},
			wantErrs:   []error{apperrors.ErrInvalidAddress, apperrors.ErrInvalidChainID, apperrors.ErrInvalidHost},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := New().Validate(cfg)
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}

			if !errors.Is(err, apperrors.ErrInvalidConfig) {
				t.Fatalf("Validate() error = %v, want ErrInvalidConfig", err)
			}
			for _, want := range tt.wantErrs {
				if !errors.Is(err, want) {
					t.Errorf("Validate() error = %v, want it to match %v", err, want)
				}
			}

			ve, _ := apperrors.AsValidationError(err)
			fields := ve.Fields()
			if len(fields) != len(tt.wantFields) {
				t.Fatalf("got %d violations (%v), want %d", len(fields), ve.Messages(), len(tt.wantFields))
			}
			for i, f := range fields {
				if f.Field != tt.wantFields[i] {
					t.Errorf("violation %d field = %s, want %s", i, f.Field, tt.wantFields[i])
				}
			}
		})
	}
}

func TestValidateChecksumOptional(t *testing.T) {
	cfg := validConfig()
	cfg.MarketContractAddress = "0x6A84e7cd87d6A65303EdAA2DEcf51d8362B49636"

	v := &Validator{Chains: chain.Default(), RequireChecksum: false}
	if err := v.Validate(cfg); err != nil {
		t.Errorf("Validate() error = %v, want nil with checksum enforcement off", err)
	}
}

func TestValidateExtendedRegistry(t *testing.T) {
	cfg := validConfig()
	cfg.ChainID = 424242

	v := &Validator{Chains: chain.Default().With(chain.Network{ID: 424242, Name: "Private"})}
	if err := v.Validate(cfg); err != nil {
		t.Errorf("Validate() error = %v, want nil for a registered private chain", err)
	}
}

func TestNewWithSettings(t *testing.T) {
	cfg := validConfig()
	cfg.ChainID = 777

	if err := New().Validate(cfg); !errors.Is(err, apperrors.ErrUnknownChain) {
		t.Fatalf("Validate() error = %v, want ErrUnknownChain", err)
	}
	if err := NewWithSettings(true, []int64{777}).Validate(cfg); err != nil {
		t.Errorf("Validate() error = %v, want nil once 777 is allowed", err)
	}
}

func TestValidateNil(t *testing.T) {
	if err := New().Validate(nil); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("Validate(nil) error = %v, want ErrInvalidInput", err)
	}
}
