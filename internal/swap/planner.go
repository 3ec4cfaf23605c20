// Package swap plans and executes cross-chain swaps. Planning is a pure
// read/estimate phase; execution is the single state-changing step.
package swap

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fibero-labs/bridgectl/internal/amount"
	bridgerr "github.com/fibero-labs/bridgectl/internal/errors"
	"github.com/fibero-labs/bridgectl/internal/fee"
	"github.com/fibero-labs/bridgectl/internal/pool"
	"github.com/fibero-labs/bridgectl/internal/registry"
)

// Planner validates a swap request and assembles an executable plan.
type Planner struct {
	registry *registry.Registry
	pools    pool.Selector
	fees     *fee.Calculator
}

func NewPlanner(reg *registry.Registry, pools pool.Selector, fees *fee.Calculator) *Planner {
	return &Planner{registry: reg, pools: pools, fees: fees}
}

// Plan runs the fixed validation sequence and stops at the first
// failure. Field presence and amount syntax are checked before any
// collaborator call; the max-transaction cap is read fresh on every call
// because it can change between requests. A request with source equal to
// destination is accepted, matching the deployed behavior.
func (p *Planner) Plan(ctx context.Context, req Request) (*Plan, error) {
	if err := requireFields(req); err != nil {
		return nil, err
	}

	source, err := p.registry.Resolve(req.SourceChain)
	if err != nil {
		return nil, err
	}
	destination, err := p.registry.Resolve(req.DestinationChain)
	if err != nil {
		return nil, err
	}

	token := strings.ToUpper(strings.TrimSpace(req.Token))
	if !source.SupportsToken(token) {
		return nil, bridgerr.New(bridgerr.CodeUnsupportedToken,
			fmt.Sprintf("token %s is not supported by the %s pool", token, source.Name))
	}

	if !common.IsHexAddress(req.Recipient) {
		return nil, bridgerr.New(bridgerr.CodeUsage, "recipient must be a 0x hex address")
	}
	recipient := common.HexToAddress(req.Recipient)

	gross, err := amount.ParsePositive(req.Amount, amount.TokenDecimals)
	if err != nil {
		return nil, err
	}

	sourcePool, err := p.pools.PoolFor(source.Name)
	if err != nil {
		return nil, err
	}

	// Cap check precedes fee computation so an over-cap request is never
	// answered with a misleading quote.
	cap, err := sourcePool.MaxTransactionAmount(ctx)
	if err != nil {
		return nil, bridgerr.Wrap(bridgerr.CodeUnavailable,
			fmt.Sprintf("%s: read max transaction amount", source.Name), err)
	}
	if cap.Sign() > 0 && gross.Cmp(cap) > 0 {
		return nil, bridgerr.New(bridgerr.CodeAmountExceedsCap,
			fmt.Sprintf("amount %s exceeds the %s pool cap of %s",
				amount.FromBaseUnits(gross, amount.TokenDecimals),
				source.Name,
				amount.FromBaseUnits(cap, amount.TokenDecimals)))
	}

	quote, err := p.fees.Compute(ctx, recipient, gross)
	if err != nil {
		return nil, err
	}

	gas, err := sourcePool.EstimateInitiateSwap(ctx, token, gross, destination.ChainID, recipient)
	if err != nil {
		return nil, err
	}

	return &Plan{
		SourceChain:        source.Name,
		DestinationChainID: destination.ChainID,
		Token:              token,
		Recipient:          recipient,
		GrossUnits:         quote.Gross,
		FeeUnits:           quote.Fee,
		NetUnits:           quote.Net,
		GasEstimate:        gas,
		sourcePool:         sourcePool,
	}, nil
}

func requireFields(req Request) error {
	missing := ""
	switch {
	case strings.TrimSpace(req.SourceChain) == "":
		missing = "sourceChain"
	case strings.TrimSpace(req.DestinationChain) == "":
		missing = "destinationChain"
	case strings.TrimSpace(req.Token) == "":
		missing = "token"
	case strings.TrimSpace(req.Amount) == "":
		missing = "amount"
	case strings.TrimSpace(req.Recipient) == "":
		missing = "recipient"
	}
	if missing != "" {
		return bridgerr.New(bridgerr.CodeMissingField, fmt.Sprintf("missing required field %s", missing))
	}
	return nil
}
