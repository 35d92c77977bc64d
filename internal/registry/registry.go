// Package registry holds the static token and pool table the engine trades
// over. The table is loaded once at startup and never mutated afterwards.
package registry

import (
	"errors"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"

	"github.com/quartzlabs/swap-engine/internal/domain"
)

var (
	ErrUnknownAsset = errors.New("asset not registered")
	ErrNoHub        = errors.New("registry has no hub asset")
)

// PoolDef is the pool pairing a token with the hub asset.
type PoolDef struct {
	Fee         uint32 `yaml:"fee"`
	TickSpacing int32  `yaml:"tickSpacing"`
	Hooks       string `yaml:"hooks"`
}

type TokenDef struct {
	Symbol   string   `yaml:"symbol"`
	Address  string   `yaml:"address"`
	Decimals uint8    `yaml:"decimals"`
	Pool     *PoolDef `yaml:"pool"`
}

type fileSchema struct {
	Hub    string     `yaml:"hub"`
	Tokens []TokenDef `yaml:"tokens"`
}

// Entry is one registered token: its asset descriptor and, for non-hub
// tokens, the key of its hub pool.
type Entry struct {
	Asset domain.Asset
	Pool  domain.PoolKey
	IsHub bool
}

type Registry struct {
	hub     domain.Asset
	entries map[string]Entry
	order   []string
}

// LoadFile reads and validates the registry table from a YAML file.
func LoadFile(path string) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry: %w", err)
	}
	return Parse(raw)
}

// Parse builds a Registry from raw YAML.
func Parse(raw []byte) (*Registry, error) {
	var file fileSchema
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse registry: %w", err)
	}
	if file.Hub == "" {
		return nil, ErrNoHub
	}

	assets := make(map[string]domain.Asset, len(file.Tokens))
	for _, t := range file.Tokens {
		if t.Symbol == "" {
			return nil, errors.New("registry token missing symbol")
		}
		if _, dup := assets[t.Symbol]; dup {
			return nil, fmt.Errorf("registry token %q declared twice", t.Symbol)
		}
		if !common.IsHexAddress(t.Address) && t.Address != "" {
			return nil, fmt.Errorf("registry token %q has invalid address %q", t.Symbol, t.Address)
		}
		if t.Decimals > domain.MaxDecimals {
			return nil, fmt.Errorf("registry token %q has %d decimals, max is %d", t.Symbol, t.Decimals, domain.MaxDecimals)
		}
		assets[t.Symbol] = domain.Asset{
			Address:  common.HexToAddress(t.Address),
			Symbol:   t.Symbol,
			Decimals: t.Decimals,
		}
	}

	hub, ok := assets[file.Hub]
	if !ok {
		return nil, fmt.Errorf("hub %q is not among registered tokens", file.Hub)
	}

	r := &Registry{
		hub:     hub,
		entries: make(map[string]Entry, len(file.Tokens)),
		order:   make([]string, 0, len(file.Tokens)),
	}
	for _, t := range file.Tokens {
		asset := assets[t.Symbol]
		entry := Entry{Asset: asset, IsHub: t.Symbol == file.Hub}
		if entry.IsHub {
			if t.Pool != nil {
				return nil, fmt.Errorf("hub token %q must not declare a pool", t.Symbol)
			}
		} else {
			if t.Pool == nil {
				return nil, fmt.Errorf("registry token %q has no hub pool", t.Symbol)
			}
			hooks := common.Address{}
			if t.Pool.Hooks != "" {
				if !common.IsHexAddress(t.Pool.Hooks) {
					return nil, fmt.Errorf("registry token %q has invalid hooks address", t.Symbol)
				}
				hooks = common.HexToAddress(t.Pool.Hooks)
			}
			entry.Pool = domain.NewPoolKey(asset.Address, hub.Address, t.Pool.Fee, t.Pool.TickSpacing, hooks)
		}
		r.entries[t.Symbol] = entry
		r.order = append(r.order, t.Symbol)
	}
	return r, nil
}

// Hub returns the routing hub asset.
func (r *Registry) Hub() domain.Asset {
	return r.hub
}

// Lookup resolves a symbol to its registry entry.
func (r *Registry) Lookup(symbol string) (Entry, error) {
	e, ok := r.entries[symbol]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrUnknownAsset, symbol)
	}
	return e, nil
}

// List returns all entries in declaration order.
func (r *Registry) List() []Entry {
	out := make([]Entry, 0, len(r.order))
	for _, sym := range r.order {
		out = append(out, r.entries[sym])
	}
	return out
}
