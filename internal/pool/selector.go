package pool

import (
	"fmt"

	bridgerr "github.com/fibero-labs/bridgectl/internal/errors"
)

// Map is the static chain-name-to-pool binding assembled at startup.
type Map map[string]Contract

func (m Map) PoolFor(chainName string) (Contract, error) {
	if p, ok := m[chainName]; ok {
		return p, nil
	}
	return nil, bridgerr.New(bridgerr.CodeInternal, fmt.Sprintf("no pool bound for chain %s", chainName))
}
