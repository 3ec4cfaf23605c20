// Package registry maps chain selectors to connection handles. The table
// is built once at startup from configuration and never mutated, so
// concurrent lookups need no locking.
package registry

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	bridgerr "github.com/fibero-labs/bridgectl/internal/errors"
)

// Chain symbolic names and their numeric ids form a bijection.
const (
	ChainETH     = "ETH"
	ChainBSC     = "BSC"
	ChainPolygon = "POLYGON"
)

var chainIDByName = map[string]int64{
	ChainETH:     1,
	ChainBSC:     56,
	ChainPolygon: 137,
}

// Handle identifies one supported chain. Immutable once constructed.
type Handle struct {
	Name        string
	ChainID     int64
	RPCURL      string
	PoolAddress common.Address
	// Tokens supported by this chain's pool, in display order.
	Tokens []string
	// TokenAddresses maps token symbol to its deployed contract,
	// informational metadata surfaced alongside balances.
	TokenAddresses map[string]string

	client *ethclient.Client
}

// Client returns the long-lived RPC connection for this chain. Nil until
// the registry has been dialed.
func (h *Handle) Client() *ethclient.Client { return h.client }

// SupportsToken reports membership in the pool's supported-token set.
func (h *Handle) SupportsToken(token string) bool {
	for _, t := range h.Tokens {
		if strings.EqualFold(t, token) {
			return true
		}
	}
	return false
}

// ChainSpec is the configuration input for one chain entry.
type ChainSpec struct {
	Name           string
	RPCURL         string
	PoolAddress    string
	Tokens         []string
	TokenAddresses map[string]string
}

// Registry is the read-only chain lookup table.
type Registry struct {
	byName map[string]*Handle
	byID   map[int64]*Handle
	order  []*Handle
}

// New builds the registry from configuration. Every entry must name one
// of the fixed supported chains; the numeric id comes from the bijection,
// never from config.
func New(specs []ChainSpec) (*Registry, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("no chains configured")
	}
	r := &Registry{
		byName: make(map[string]*Handle, len(specs)),
		byID:   make(map[int64]*Handle, len(specs)),
	}
	for _, spec := range specs {
		name := strings.ToUpper(strings.TrimSpace(spec.Name))
		chainID, ok := chainIDByName[name]
		if !ok {
			return nil, fmt.Errorf("unknown chain %q in configuration", spec.Name)
		}
		if _, dup := r.byName[name]; dup {
			return nil, fmt.Errorf("duplicate chain %q in configuration", name)
		}
		if strings.TrimSpace(spec.RPCURL) == "" {
			return nil, fmt.Errorf("chain %s: rpc url is required", name)
		}
		if !common.IsHexAddress(spec.PoolAddress) {
			return nil, fmt.Errorf("chain %s: invalid pool address %q", name, spec.PoolAddress)
		}
		addresses := make(map[string]string, len(spec.TokenAddresses))
		for token, addr := range spec.TokenAddresses {
			addresses[strings.ToUpper(strings.TrimSpace(token))] = addr
		}
		handle := &Handle{
			Name:           name,
			ChainID:        chainID,
			RPCURL:         strings.TrimSpace(spec.RPCURL),
			PoolAddress:    common.HexToAddress(spec.PoolAddress),
			Tokens:         append([]string(nil), spec.Tokens...),
			TokenAddresses: addresses,
		}
		r.byName[name] = handle
		r.byID[chainID] = handle
		r.order = append(r.order, handle)
	}
	return r, nil
}

// Resolve returns the handle for a chain selector, which may be a
// symbolic name (ETH, BSC, POLYGON) or a numeric chain id (1, 56, 137).
func (r *Registry) Resolve(selector string) (*Handle, error) {
	clean := strings.TrimSpace(selector)
	if clean == "" {
		return nil, bridgerr.New(bridgerr.CodeMissingField, "chain selector is required")
	}
	if id, err := strconv.ParseInt(clean, 10, 64); err == nil {
		if handle, ok := r.byID[id]; ok {
			return handle, nil
		}
		return nil, bridgerr.New(bridgerr.CodeUnsupportedChain, fmt.Sprintf("unsupported chain id %d", id))
	}
	if handle, ok := r.byName[strings.ToUpper(clean)]; ok {
		return handle, nil
	}
	return nil, bridgerr.New(bridgerr.CodeUnsupportedChain, fmt.Sprintf("unsupported chain %q", selector))
}

// Handles returns all registered chains in configuration order.
func (r *Registry) Handles() []*Handle {
	return append([]*Handle(nil), r.order...)
}

// Dial establishes the per-chain RPC connections. Called once at process
// start; handles are reused across all subsequent calls so different
// chains never share a connection.
func (r *Registry) Dial(ctx context.Context) error {
	for _, handle := range r.order {
		client, err := ethclient.DialContext(ctx, handle.RPCURL)
		if err != nil {
			r.Close()
			return bridgerr.Wrap(bridgerr.CodeUnavailable, fmt.Sprintf("connect %s rpc", handle.Name), err)
		}
		handle.client = client
	}
	return nil
}

// Close releases all RPC connections.
func (r *Registry) Close() {
	for _, handle := range r.order {
		if handle.client != nil {
			handle.client.Close()
			handle.client = nil
		}
	}
}
