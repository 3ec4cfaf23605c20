// Package admin holds the cross-chain liquidity and policy mutators.
// Authorization happens before any of these operations are reachable;
// the package assumes the caller has already passed the gate.
package admin

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fibero-labs/bridgectl/internal/amount"
	bridgerr "github.com/fibero-labs/bridgectl/internal/errors"
	"github.com/fibero-labs/bridgectl/internal/pool"
	"github.com/fibero-labs/bridgectl/internal/registry"
	"github.com/fibero-labs/bridgectl/internal/swap"
)

// Authorize is the address-equality admin check. The caller identity
// must equal the configured admin identity.
func Authorize(caller, admin common.Address) error {
	if admin == (common.Address{}) {
		return bridgerr.New(bridgerr.CodeAuth, "no admin address configured")
	}
	if caller != admin {
		return bridgerr.New(bridgerr.CodeAuth, "caller is not the configured admin")
	}
	return nil
}

// Admin mutates pool and fee state. Every operation resolves the chain,
// converts the amount, submits, and awaits confirmation; liquidity
// operations have no planning phase.
type Admin struct {
	registry   *registry.Registry
	pools      pool.Selector
	feeManager pool.FeeManager
}

func New(reg *registry.Registry, pools pool.Selector, feeManager pool.FeeManager) *Admin {
	return &Admin{registry: reg, pools: pools, feeManager: feeManager}
}

func (a *Admin) AddLiquidity(ctx context.Context, chain, token, decimalAmount string) swap.Outcome {
	return a.poolMutation(ctx, chain, token, decimalAmount, pool.Contract.AddLiquidity)
}

func (a *Admin) RemoveLiquidity(ctx context.Context, chain, token, decimalAmount string) swap.Outcome {
	return a.poolMutation(ctx, chain, token, decimalAmount, pool.Contract.RemoveLiquidity)
}

// SetMaxTransactionAmount updates the per-transaction cap on one chain's
// pool. The amount uses token precision, matching the pool's accounting
// unit.
func (a *Admin) SetMaxTransactionAmount(ctx context.Context, chain, decimalAmount string) swap.Outcome {
	handle, err := a.registry.Resolve(chain)
	if err != nil {
		return failed(err)
	}
	units, err := amount.ParsePositive(decimalAmount, amount.TokenDecimals)
	if err != nil {
		return failed(err)
	}
	p, err := a.pools.PoolFor(handle.Name)
	if err != nil {
		return failed(err)
	}
	txHash, err := p.SetMaxTransactionAmount(ctx, units)
	if err != nil {
		return failed(err)
	}
	return awaitOutcome(ctx, p.AwaitConfirmation, txHash)
}

// SetFees updates the base and discounted percentage rates, fixed-point
// with two decimals.
func (a *Admin) SetFees(ctx context.Context, baseFee, discountedFee string) swap.Outcome {
	base, err := amount.ParsePositive(baseFee, amount.FeeDecimals)
	if err != nil {
		return failed(err)
	}
	discounted, err := amount.ParsePositive(discountedFee, amount.FeeDecimals)
	if err != nil {
		return failed(err)
	}
	if discounted.Cmp(base) > 0 {
		return failed(bridgerr.New(bridgerr.CodeInvalidAmount, "discounted fee must not exceed base fee"))
	}
	txHash, err := a.feeManager.SetFees(ctx, base, discounted)
	if err != nil {
		return failed(err)
	}
	return awaitOutcome(ctx, a.feeManager.AwaitConfirmation, txHash)
}

func (a *Admin) poolMutation(
	ctx context.Context,
	chain, token, decimalAmount string,
	submit func(pool.Contract, context.Context, string, *big.Int) (string, error),
) swap.Outcome {
	handle, err := a.registry.Resolve(chain)
	if err != nil {
		return failed(err)
	}
	cleanToken := strings.ToUpper(strings.TrimSpace(token))
	if !handle.SupportsToken(cleanToken) {
		return failed(bridgerr.New(bridgerr.CodeUnsupportedToken,
			fmt.Sprintf("token %s is not supported by the %s pool", cleanToken, handle.Name)))
	}
	units, err := amount.ParsePositive(decimalAmount, amount.TokenDecimals)
	if err != nil {
		return failed(err)
	}
	p, err := a.pools.PoolFor(handle.Name)
	if err != nil {
		return failed(err)
	}
	txHash, err := submit(p, ctx, cleanToken, units)
	if err != nil {
		return failed(err)
	}
	return awaitOutcome(ctx, p.AwaitConfirmation, txHash)
}

func failed(err error) swap.Outcome {
	return swap.Outcome{Status: swap.StatusFailed, Err: err}
}

func awaitOutcome(ctx context.Context, await func(context.Context, string) (pool.TxStatus, error), txHash string) swap.Outcome {
	status, err := await(ctx, txHash)
	if err != nil {
		return swap.Outcome{Status: swap.StatusTimedOut, TxHash: txHash, Err: err}
	}
	return swap.OutcomeFromTxStatus(status, txHash)
}
