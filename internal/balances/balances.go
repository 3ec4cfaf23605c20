// Package balances reads the per-chain, per-token liquidity view.
package balances

import (
	"context"
	"fmt"

	"github.com/fibero-labs/bridgectl/internal/amount"
	bridgerr "github.com/fibero-labs/bridgectl/internal/errors"
	"github.com/fibero-labs/bridgectl/internal/pool"
	"github.com/fibero-labs/bridgectl/internal/registry"
)

// Snapshot maps chain name to token symbol to decimal balance. It is a
// point-in-time view recomputed on every call; no staleness guarantee is
// made and nothing is cached.
type Snapshot map[string]map[string]string

// Read queries every configured chain's pool for every supported token.
func Read(ctx context.Context, reg *registry.Registry, pools pool.Selector) (Snapshot, error) {
	snapshot := make(Snapshot)
	for _, handle := range reg.Handles() {
		p, err := pools.PoolFor(handle.Name)
		if err != nil {
			return nil, err
		}
		perToken := make(map[string]string, len(handle.Tokens))
		for _, token := range handle.Tokens {
			balance, err := p.PoolBalance(ctx, token)
			if err != nil {
				return nil, bridgerr.Wrap(bridgerr.CodeUnavailable,
					fmt.Sprintf("%s: read %s pool balance", handle.Name, token), err)
			}
			perToken[token] = amount.FromBaseUnits(balance, amount.TokenDecimals)
		}
		snapshot[handle.Name] = perToken
	}
	return snapshot, nil
}
