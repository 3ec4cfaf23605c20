package swap

import (
	"context"

	bridgerr "github.com/fibero-labs/bridgectl/internal/errors"
)

// Executor submits a planned swap to the source pool and awaits its
// terminal state. It never re-validates, modifies, or deduplicates the
// plan, and never retries: resubmitting with a stale nonce could move
// funds twice, so retry policy belongs to the caller.
type Executor struct{}

func NewExecutor() *Executor { return &Executor{} }

// Execute submits the plan's initiateSwap call. Calling it twice with
// the same plan produces two independent transaction attempts.
func (e *Executor) Execute(ctx context.Context, plan *Plan) Outcome {
	if plan == nil || plan.sourcePool == nil {
		return Outcome{
			Status: StatusFailed,
			Err:    bridgerr.New(bridgerr.CodeInternal, "execute called without a plan"),
		}
	}

	txHash, err := plan.sourcePool.InitiateSwap(ctx, plan.Token, plan.GrossUnits, plan.DestinationChainID, plan.Recipient)
	if err != nil {
		return Outcome{Status: StatusFailed, Err: err}
	}

	status, err := plan.sourcePool.AwaitConfirmation(ctx, txHash)
	if err != nil {
		// The transaction is out; surface the hash with the wait failure.
		return Outcome{Status: StatusTimedOut, TxHash: txHash, Err: err}
	}
	return OutcomeFromTxStatus(status, txHash)
}
