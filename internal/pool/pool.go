// Package pool binds the on-chain collaborators: the per-chain TokenPool
// contract holding liquidity and the FeeManager contract holding fee
// policy. Both are opaque, fallible services reached over chain RPC; the
// orchestrator owns none of their state.
package pool

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// TxStatus is the terminal state of a submitted transaction.
type TxStatus string

const (
	StatusConfirmed TxStatus = "confirmed"
	StatusReverted  TxStatus = "reverted"
	StatusTimedOut  TxStatus = "timed_out"
)

// Contract is the per-chain TokenPool surface. Mutators broadcast and
// return the transaction hash; confirmation is awaited separately so the
// hash is always surfaced even when the transaction later reverts.
type Contract interface {
	PoolBalance(ctx context.Context, token string) (*big.Int, error)
	MaxTransactionAmount(ctx context.Context) (*big.Int, error)
	EstimateInitiateSwap(ctx context.Context, token string, amount *big.Int, destinationChainID int64, recipient common.Address) (uint64, error)

	InitiateSwap(ctx context.Context, token string, amount *big.Int, destinationChainID int64, recipient common.Address) (string, error)
	AddLiquidity(ctx context.Context, token string, amount *big.Int) (string, error)
	RemoveLiquidity(ctx context.Context, token string, amount *big.Int) (string, error)
	SetMaxTransactionAmount(ctx context.Context, amount *big.Int) (string, error)

	AwaitConfirmation(ctx context.Context, txHash string) (TxStatus, error)
}

// FeeManager is the fee collaborator surface. Whether a recipient gets
// the base or the discounted rate is decided contract-side; callers must
// not derive eligibility themselves.
type FeeManager interface {
	BaseFee(ctx context.Context) (*big.Int, error)
	DiscountedFee(ctx context.Context) (*big.Int, error)
	CalculateFee(ctx context.Context, recipient common.Address, amount *big.Int) (*big.Int, error)

	SetFees(ctx context.Context, baseFee, discountedFee *big.Int) (string, error)
	AwaitConfirmation(ctx context.Context, txHash string) (TxStatus, error)
}

// Selector resolves the pool contract bound to a chain. Satisfied by the
// wiring layer; lets planners stay independent of the EVM binding.
type Selector interface {
	PoolFor(chainName string) (Contract, error)
}
