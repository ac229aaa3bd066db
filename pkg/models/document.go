package models

import "strings"

// Document is the on-disk shape of a profile. It mirrors the front-end
// framework config object: an env block, the strict mode flag and the
// remote image settings.
type Document struct {
	Env             DocumentEnv    `mapstructure:"env" json:"env" yaml:"env"`
	ReactStrictMode bool           `mapstructure:"reactStrictMode" json:"reactStrictMode" yaml:"reactStrictMode"`
	Images          DocumentImages `mapstructure:"images" json:"images" yaml:"images"`
}

// DocumentEnv is the env block. CHAIN_ID may be written as a number or a
// numeric string.
type DocumentEnv struct {
	MarketContractAddress string `mapstructure:"NFT_MARKET_CONTRACT_ADDRESS" json:"NFT_MARKET_CONTRACT_ADDRESS" yaml:"NFT_MARKET_CONTRACT_ADDRESS"`
	NFTContractAddress    string `mapstructure:"NFT_CONTRACT_ADDRESS" json:"NFT_CONTRACT_ADDRESS" yaml:"NFT_CONTRACT_ADDRESS"`
	ChainID               int64  `mapstructure:"CHAIN_ID" json:"CHAIN_ID" yaml:"CHAIN_ID"`
}

type DocumentImages struct {
	Domains []string `mapstructure:"domains" json:"domains" yaml:"domains"`
}

// Build converts the document into a BuildConfiguration. Surrounding
// whitespace is trimmed from addresses; hosts are normalised.
func (d *Document) Build() *BuildConfiguration {
	return &BuildConfiguration{
		MarketContractAddress: strings.TrimSpace(d.Env.MarketContractAddress),
		NFTContractAddress:    strings.TrimSpace(d.Env.NFTContractAddress),
		ChainID:               d.Env.ChainID,
		StrictMode:            d.ReactStrictMode,
		AllowedImageHosts:     NormalizeHosts(d.Images.Domains),
	}
}
