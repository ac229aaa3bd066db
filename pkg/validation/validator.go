// Package validation checks a BuildConfiguration at load time. Every rule
// runs on every call; the violations come back together as a single
// *errors.ValidationError.
package validation

import (
	"strconv"

	"github.com/amaumene/marketconf/pkg/address"
	"github.com/amaumene/marketconf/pkg/chain"
	apperrors "github.com/amaumene/marketconf/pkg/errors"
	"github.com/amaumene/marketconf/pkg/hosts"
	"github.com/amaumene/marketconf/pkg/models"
)

// Field names used in violations; they match the JSON keys of
// BuildConfiguration.
const (
	FieldMarketContractAddress = "marketContractAddress"
	FieldNFTContractAddress    = "nftContractAddress"
	FieldChainID               = "chainId"
	FieldAllowedImageHosts     = "allowedImageHosts"
)

// Validator holds the rules that depend on deployment settings.
type Validator struct {
	Chains          *chain.Registry
	RequireChecksum bool
}

// New returns a validator over the default chain registry with checksum
// enforcement on.
func New() *Validator {
	return &Validator{Chains: chain.Default(), RequireChecksum: true}
}

// NewWithSettings returns a validator over the default registry widened by
// extraChainIDs.
func NewWithSettings(requireChecksum bool, extraChainIDs []int64) *Validator {
	extra := make([]chain.Network, 0, len(extraChainIDs))
	for _, id := range extraChainIDs {
		extra = append(extra, chain.Network{ID: id, Name: "chain " + strconv.FormatInt(id, 10)})
	}
	return &Validator{Chains: chain.Default().With(extra...), RequireChecksum: requireChecksum}
}

// Validate returns nil or a *errors.ValidationError listing every violation.
func (v *Validator) Validate(cfg *models.BuildConfiguration) error {
	var verr apperrors.ValidationError
	if cfg == nil {
		verr.Add("configuration", "", apperrors.ErrInvalidInput)
		return verr.ErrorOrNil()
	}

	marketOK := v.checkAddress(&verr, FieldMarketContractAddress, cfg.MarketContractAddress)
	nftOK := v.checkAddress(&verr, FieldNFTContractAddress, cfg.NFTContractAddress)
	if marketOK && nftOK && address.Equal(cfg.MarketContractAddress, cfg.NFTContractAddress) {
		verr.Add(FieldNFTContractAddress, cfg.NFTContractAddress, apperrors.ErrDuplicateAddress)
	}

	chains := v.Chains
	if chains == nil {
		chains = chain.Default()
	}
	if err := chains.Validate(cfg.ChainID); err != nil {
		verr.Add(FieldChainID, strconv.FormatInt(cfg.ChainID, 10), err)
	}

	if len(cfg.AllowedImageHosts) == 0 {
		verr.Add(FieldAllowedImageHosts, "", apperrors.ErrEmptyHostSet)
	} else if err := hosts.ValidateSet(cfg.AllowedImageHosts); err != nil {
		verr.Add(FieldAllowedImageHosts, "", err)
	}

	return verr.ErrorOrNil()
}

func (v *Validator) checkAddress(verr *apperrors.ValidationError, field, value string) bool {
	check := address.Validate
	if v.RequireChecksum {
		check = address.ValidateChecksum
	}
	if err := check(value); err != nil {
		verr.Add(field, value, err)
		return false
	}
	return true
}
