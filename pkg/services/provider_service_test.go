package services

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	apperrors "github.com/amaumene/marketconf/pkg/errors"
	"github.com/amaumene/marketconf/pkg/models"
	"github.com/amaumene/marketconf/pkg/repository"
	"github.com/amaumene/marketconf/pkg/validation"
)

var alfajores = &models.BuildConfiguration{
	MarketContractAddress: "0x6a84e7cd87d6A65303EdAA2DEcf51d8362B49636",
	NFTContractAddress:    "0x0ccEae723EdCe35a5e3570923cCE7D0E2424434e",
	ChainID:               44787,
	StrictMode:            true,
	AllowedImageHosts:     []string{"ipfs.infura.io"},
}

func embedded(profile string) Source {
	return Source{Repo: repository.NewEmbeddedRepository(), Profile: profile}
}

func TestProviderLoadsFirstSample(t *testing.T) {
	provider := NewProviderService(embedded("alfajores"), nil)

	cfg, err := provider.Config()
	if err != nil {
		t.Fatalf("Config() error = %v", err)
	}
	if diff := cmp.Diff(alfajores, cfg); diff != "" {
		t.Errorf("Config() mismatch (-want +got):\n%s", diff)
	}
}

func TestProviderRejectsSecondSample(t *testing.T) {
	provider := NewProviderService(embedded("ropsten"), nil)

	_, err := provider.Config()
	if !errors.Is(err, apperrors.ErrInvalidConfig) {
		t.Fatalf("Config() error = %v, want ErrInvalidConfig", err)
	}
	if !errors.Is(err, apperrors.ErrInvalidAddress) {
		t.Errorf("Config() error = %v, want ErrInvalidAddress", err)
	}

	ve, ok := apperrors.AsValidationError(err)
	if !ok {
		t.Fatal("error does not carry a ValidationError")
	}
	fields := ve.Fields()
	if len(fields) != 1 || fields[0].Field != validation.FieldNFTContractAddress {
		t.Errorf("violations = %v, want only %s", ve.Messages(), validation.FieldNFTContractAddress)
	}
}

func TestProviderIdempotent(t *testing.T) {
	provider := NewProviderService(embedded("alfajores"), nil)

	first, err := provider.Config()
	if err != nil {
		t.Fatalf("Config() error = %v", err)
	}
	first.AllowedImageHosts[0] = "tampered.example"
	first.ChainID = 1

	second, err := provider.Config()
	if err != nil {
		t.Fatalf("Config() error = %v", err)
	}
	if diff := cmp.Diff(alfajores, second); diff != "" {
		t.Errorf("second Config() mismatch (-want +got):\n%s", diff)
	}

	other, err := NewProviderService(embedded("alfajores"), nil).Config()
	if err != nil {
		t.Fatalf("Config() error = %v", err)
	}
	if !second.Equal(other) {
		t.Error("two providers over the same profile disagree")
	}
}

func TestProviderLoadsOnce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.jsonc")
	write := func(chainID string) {
		content := `{"env": {"NFT_MARKET_CONTRACT_ADDRESS": "0x6a84e7cd87d6A65303EdAA2DEcf51d8362B49636",
			"NFT_CONTRACT_ADDRESS": "0x0ccEae723EdCe35a5e3570923cCE7D0E2424434e", "CHAIN_ID": ` + chainID + `},
			"reactStrictMode": true, "images": {"domains": ["ipfs.infura.io"]}}`
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	write("44787")
	provider := NewProviderService(Source{File: path}, nil)

	var wg sync.WaitGroup
	results := make([]*models.BuildConfiguration, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cfg, err := provider.Config()
			if err != nil {
				t.Errorf("Config() error = %v", err)
				return
			}
			results[i] = cfg
		}(i)
	}
	wg.Wait()

	write("3")
	later, err := provider.Config()
	if err != nil {
		t.Fatalf("Config() error = %v", err)
	}
	if later.ChainID != 44787 {
		t.Errorf("ChainID = %d after file change, want the value loaded first", later.ChainID)
	}
	for i, cfg := range results {
		if cfg != nil && !cfg.Equal(later) {
			t.Errorf("result %d differs from later load", i)
		}
	}
}

func TestProviderEnvOverrides(t *testing.T) {
	t.Setenv("CHAIN_ID", "42220")
	t.Setenv("IMAGE_DOMAINS", "ipfs.infura.io,gateway.pinata.cloud")
	t.Setenv("REACT_STRICT_MODE", "false")

	overrides, err := LoadEnvOverrides()
	if err != nil {
		t.Fatalf("LoadEnvOverrides() error = %v", err)
	}
	if overrides.MarketContractAddress != nil {
		t.Errorf("unset variable produced an override: %q", *overrides.MarketContractAddress)
	}

	cfg, err := NewProviderService(embedded("alfajores"), nil, WithEnvOverrides(overrides)).Config()
	if err != nil {
		t.Fatalf("Config() error = %v", err)
	}

	want := alfajores.Clone()
	want.ChainID = 42220
	want.StrictMode = false
	want.AllowedImageHosts = []string{"gateway.pinata.cloud", "ipfs.infura.io"}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Config() mismatch (-want +got):\n%s", diff)
	}
}

func TestProviderOverrideFixesSecondSample(t *testing.T) {
	t.Setenv("NFT_CONTRACT_ADDRESS", "0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512")

	overrides, err := LoadEnvOverrides()
	if err != nil {
		t.Fatalf("LoadEnvOverrides() error = %v", err)
	}
	cfg, err := NewProviderService(embedded("ropsten"), nil, WithEnvOverrides(overrides)).Config()
	if err != nil {
		t.Fatalf("Config() error = %v", err)
	}
	if cfg.ChainID != 3 {
		t.Errorf("ChainID = %d, want 3", cfg.ChainID)
	}
}

func TestProviderWithoutValidation(t *testing.T) {
	cfg, err := NewProviderService(embedded("ropsten"), nil, WithoutValidation()).Config()
	if err != nil {
		t.Fatalf("Config() error = %v", err)
	}
	if cfg.NFTContractAddress != "0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512ab" {
		t.Errorf("NFTContractAddress = %s", cfg.NFTContractAddress)
	}
}

func TestProviderSourceErrors(t *testing.T) {
	tests := []struct {
		name    string
		source  Source
		wantErr error
	}{
		{"unknown profile", embedded("mainnet"), apperrors.ErrNotFound},
		{"no repository", Source{Profile: "alfajores"}, apperrors.ErrInvalidInput},
		{"unsupported file", Source{File: "next.config.js"}, apperrors.ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := NewProviderService(tt.source, nil)
			if _, err := provider.Config(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Config() error = %v, want %v", err, tt.wantErr)
			}
			if err := provider.Load(); !errors.Is(err, tt.wantErr) {
				t.Errorf("second Load() error = %v, want the memoised %v", err, tt.wantErr)
			}
		})
	}
}
