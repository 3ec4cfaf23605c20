// Package fee derives swap cost from the fee collaborator's policy.
package fee

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	bridgerr "github.com/fibero-labs/bridgectl/internal/errors"
	"github.com/fibero-labs/bridgectl/internal/pool"
)

// Quote is the fee breakdown for one gross amount. Fee and Net always
// sum to Gross exactly; all three are token base units.
type Quote struct {
	Gross *big.Int
	Fee   *big.Int
	Net   *big.Int
}

// Rates is the current policy read from the collaborator, fixed-point
// percentages with two decimals.
type Rates struct {
	BaseFee       *big.Int
	DiscountedFee *big.Int
}

// Calculator composes the fee collaborator. Pure read plus derived
// arithmetic; nothing is mutated.
type Calculator struct {
	feeManager pool.FeeManager
	timeout    time.Duration
}

func NewCalculator(feeManager pool.FeeManager, timeout time.Duration) *Calculator {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Calculator{feeManager: feeManager, timeout: timeout}
}

// Compute asks the collaborator for the recipient's fee on the gross
// amount and derives the net payout. Base versus discounted rate is the
// collaborator's opaque decision.
func (c *Calculator) Compute(ctx context.Context, recipient common.Address, gross *big.Int) (Quote, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	feeAmount, err := c.feeManager.CalculateFee(callCtx, recipient, gross)
	if err != nil {
		return Quote{}, bridgerr.Wrap(bridgerr.CodeFeePolicyUnavailable, "read fee policy", err)
	}
	if feeAmount == nil || feeAmount.Sign() < 0 || feeAmount.Cmp(gross) > 0 {
		return Quote{}, bridgerr.New(bridgerr.CodeFeePolicyUnavailable, "fee collaborator returned an out-of-range fee")
	}
	return Quote{
		Gross: new(big.Int).Set(gross),
		Fee:   feeAmount,
		Net:   new(big.Int).Sub(gross, feeAmount),
	}, nil
}

// CurrentRates reads the base and discounted percentage rates.
func (c *Calculator) CurrentRates(ctx context.Context) (Rates, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	base, err := c.feeManager.BaseFee(callCtx)
	if err != nil {
		return Rates{}, bridgerr.Wrap(bridgerr.CodeFeePolicyUnavailable, "read base fee", err)
	}
	discounted, err := c.feeManager.DiscountedFee(callCtx)
	if err != nil {
		return Rates{}, bridgerr.Wrap(bridgerr.CodeFeePolicyUnavailable, "read discounted fee", err)
	}
	return Rates{BaseFee: base, DiscountedFee: discounted}, nil
}
