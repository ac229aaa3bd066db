package models

import (
	"sort"
	"strconv"
	"strings"
)

// Framework environment variable names, as the hosting front-end reads them.
const (
	EnvMarketContractAddress = "NFT_MARKET_CONTRACT_ADDRESS"
	EnvNFTContractAddress    = "NFT_CONTRACT_ADDRESS"
	EnvChainID               = "CHAIN_ID"
)

// BuildConfiguration is the settings object handed to the front-end build
type BuildConfiguration struct {
	MarketContractAddress string   `json:"marketContractAddress" yaml:"marketContractAddress"`
	NFTContractAddress    string   `json:"nftContractAddress" yaml:"nftContractAddress"`
	ChainID               int64    `json:"chainId" yaml:"chainId"`
	StrictMode            bool     `json:"strictMode" yaml:"strictMode"`
	AllowedImageHosts     []string `json:"allowedImageHosts" yaml:"allowedImageHosts"`
}

// Clone returns a deep copy
func (c *BuildConfiguration) Clone() *BuildConfiguration {
	if c == nil {
		return nil
	}
	out := *c
	out.AllowedImageHosts = append([]string(nil), c.AllowedImageHosts...)
	return &out
}

// Equal compares two configurations; the host set is compared without
// regard to order or case.
func (c *BuildConfiguration) Equal(other *BuildConfiguration) bool {
	if c == nil || other == nil {
		return c == other
	}
	if c.MarketContractAddress != other.MarketContractAddress ||
		c.NFTContractAddress != other.NFTContractAddress ||
		c.ChainID != other.ChainID ||
		c.StrictMode != other.StrictMode {
		return false
	}
	a, b := NormalizeHosts(c.AllowedImageHosts), NormalizeHosts(other.AllowedImageHosts)
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// AllowsImageHost reports whether remote images may be loaded from host
func (c *BuildConfiguration) AllowsImageHost(host string) bool {
	for _, h := range c.AllowedImageHosts {
		if strings.EqualFold(h, host) {
			return true
		}
	}
	return false
}

// Env returns the framework environment block
func (c *BuildConfiguration) Env() map[string]string {
	return map[string]string{
		EnvMarketContractAddress: c.MarketContractAddress,
		EnvNFTContractAddress:    c.NFTContractAddress,
		EnvChainID:               strconv.FormatInt(c.ChainID, 10),
	}
}

// NormalizeHosts trims, lowercases, deduplicates and sorts hosts. Empty
// entries are kept so validation can report them.
func NormalizeHosts(hosts []string) []string {
	seen := make(map[string]struct{}, len(hosts))
	out := make([]string, 0, len(hosts))
	for _, h := range hosts {
		h = strings.ToLower(strings.TrimSpace(h))
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, h)
	}
	sort.Strings(out)
	return out
}
