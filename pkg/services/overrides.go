package services

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"github.com/amaumene/marketconf/pkg/models"
)

// EnvOverrides are the framework variables that may replace values of a
// profile at load time. Unset variables leave the profile untouched.
type EnvOverrides struct {
	MarketContractAddress *string  `envconfig:"NFT_MARKET_CONTRACT_ADDRESS"`
	NFTContractAddress    *string  `envconfig:"NFT_CONTRACT_ADDRESS"`
	ChainID               *int64   `envconfig:"CHAIN_ID"`
	StrictMode            *bool    `envconfig:"REACT_STRICT_MODE"`
	ImageDomains          []string `envconfig:"IMAGE_DOMAINS"`
}

// LoadEnvOverrides reads the override variables from the process environment.
func LoadEnvOverrides() (*EnvOverrides, error) {
	var o EnvOverrides
	if err := envconfig.Process("", &o); err != nil {
		return nil, fmt.Errorf("reading environment overrides: %w", err)
	}
	return &o, nil
}

// Apply writes the set overrides into doc and returns the names of the
// variables that were applied.
func (o *EnvOverrides) Apply(doc *models.Document) []string {
	if o == nil {
		return nil
	}

	var applied []string
	if o.MarketContractAddress != nil {
		doc.Env.MarketContractAddress = *o.MarketContractAddress
		applied = append(applied, models.EnvMarketContractAddress)
	}
	if o.NFTContractAddress != nil {
		doc.Env.NFTContractAddress = *o.NFTContractAddress
		applied = append(applied, models.EnvNFTContractAddress)
	}
	if o.ChainID != nil {
		doc.Env.ChainID = *o.ChainID
		applied = append(applied, models.EnvChainID)
	}
	if o.StrictMode != nil {
		doc.ReactStrictMode = *o.StrictMode
		applied = append(applied, "REACT_STRICT_MODE")
	}
	if o.ImageDomains != nil {
		doc.Images.Domains = append([]string(nil), o.ImageDomains...)
		applied = append(applied, "IMAGE_DOMAINS")
	}
	return applied
}
