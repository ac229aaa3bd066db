// Package chain keeps the allow-list of network identifiers a build
// configuration may target.
package chain

import (
	"fmt"
	"sort"

	apperrors "github.com/amaumene/marketconf/pkg/errors"
)

// Network describes one chain identifier.
type Network struct {
	ID      int64  `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Testnet bool   `json:"testnet" yaml:"testnet"`
}

// Registry is an immutable set of known networks.
type Registry struct {
	networks map[int64]Network
}

var defaultNetworks = []Network{
	{ID: 1, Name: "Ethereum Mainnet"},
	{ID: 3, Name: "Ropsten", Testnet: true},
	{ID: 4, Name: "Rinkeby", Testnet: true},
	{ID: 5, Name: "Goerli", Testnet: true},
	{ID: 11155111, Name: "Sepolia", Testnet: true},
	{ID: 137, Name: "Polygon"},
	{ID: 80001, Name: "Polygon Mumbai", Testnet: true},
	{ID: 42220, Name: "Celo"},
	{ID: 44787, Name: "Celo Alfajores", Testnet: true},
	{ID: 62320, Name: "Celo Baklava", Testnet: true},
	{ID: 1337, Name: "Local Development", Testnet: true},
	{ID: 31337, Name: "Hardhat", Testnet: true},
}

// NewRegistry builds a registry from networks. Later entries win on
// duplicate IDs.
func NewRegistry(networks ...Network) *Registry {
	r := &Registry{networks: make(map[int64]Network, len(networks))}
	for _, n := range networks {
		r.networks[n.ID] = n
	}
	return r
}

// Default returns the built-in registry.
func Default() *Registry {
	return NewRegistry(defaultNetworks...)
}

// With returns a copy of r extended with extra.
func (r *Registry) With(extra ...Network) *Registry {
	all := make([]Network, 0, len(r.networks)+len(extra))
	for _, n := range r.networks {
		all = append(all, n)
	}
	return NewRegistry(append(all, extra...)...)
}

// Lookup returns the network registered under id.
func (r *Registry) Lookup(id int64) (Network, bool) {
	n, ok := r.networks[id]
	return n, ok
}

func (r *Registry) Contains(id int64) bool {
	_, ok := r.networks[id]
	return ok
}

// IDs returns every registered identifier in ascending order.
func (r *Registry) IDs() []int64 {
	ids := make([]int64, 0, len(r.networks))
	for id := range r.networks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Networks returns every registered network ordered by ID.
func (r *Registry) Networks() []Network {
	ids := r.IDs()
	out := make([]Network, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.networks[id])
	}
	return out
}

// Validate checks that id is positive and registered.
func (r *Registry) Validate(id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: %d is not positive", apperrors.ErrInvalidChainID, id)
	}
	if !r.Contains(id) {
		return fmt.Errorf("%w: %d", apperrors.ErrUnknownChain, id)
	}
	return nil
}
