package swap

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fibero-labs/bridgectl/internal/amount"
	bridgerr "github.com/fibero-labs/bridgectl/internal/errors"
	"github.com/fibero-labs/bridgectl/internal/pool"
)

// Request is the user's swap intent, amounts as decimal strings.
type Request struct {
	SourceChain      string `json:"sourceChain"`
	DestinationChain string `json:"destinationChain"`
	Token            string `json:"token"`
	Amount           string `json:"amount"`
	Recipient        string `json:"recipient"`
}

// Plan is the validated, side-effect-free description of a swap ready
// for submission. It is ephemeral: produced by one Plan call, consumed
// by at most one Execute call, never persisted.
type Plan struct {
	SourceChain        string
	DestinationChainID int64
	Token              string
	Recipient          common.Address
	GrossUnits         *big.Int
	FeeUnits           *big.Int
	NetUnits           *big.Int
	GasEstimate        uint64

	sourcePool pool.Contract
}

func (p *Plan) Gross() string { return amount.FromBaseUnits(p.GrossUnits, amount.TokenDecimals) }
func (p *Plan) Fee() string   { return amount.FromBaseUnits(p.FeeUnits, amount.TokenDecimals) }
func (p *Plan) Net() string   { return amount.FromBaseUnits(p.NetUnits, amount.TokenDecimals) }

// Status is the terminal state of one submission attempt.
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusReverted  Status = "reverted"
	StatusTimedOut  Status = "timed_out"
	// StatusFailed means the transaction never reached the chain.
	StatusFailed Status = "failed"
)

// Outcome reports a submission. TxHash is populated as soon as the
// transaction is broadcast, so a reverted or timed-out submission still
// carries the reference for later lookup.
type Outcome struct {
	Status Status
	TxHash string
	Err    error
}

// Succeeded reports on-chain confirmation.
func (o Outcome) Succeeded() bool { return o.Status == StatusConfirmed }

// ErrKind returns the stable failure kind, empty on success.
func (o Outcome) ErrKind() string {
	switch o.Status {
	case StatusConfirmed:
		return ""
	case StatusReverted:
		return bridgerr.Kind(bridgerr.CodeReverted)
	case StatusTimedOut:
		return bridgerr.Kind(bridgerr.CodeTimeout)
	}
	if typed, ok := bridgerr.As(o.Err); ok {
		return bridgerr.Kind(typed.Code)
	}
	return bridgerr.Kind(bridgerr.CodeInternal)
}

// OutcomeFromTxStatus maps a collaborator confirmation result onto an
// outcome, attaching the typed cause for non-confirmed states.
func OutcomeFromTxStatus(status pool.TxStatus, txHash string) Outcome {
	switch status {
	case pool.StatusConfirmed:
		return Outcome{Status: StatusConfirmed, TxHash: txHash}
	case pool.StatusReverted:
		return Outcome{
			Status: StatusReverted,
			TxHash: txHash,
			Err:    bridgerr.New(bridgerr.CodeReverted, "transaction reverted on-chain"),
		}
	default:
		return Outcome{
			Status: StatusTimedOut,
			TxHash: txHash,
			Err:    bridgerr.New(bridgerr.CodeTimeout, "no confirmation within the configured timeout"),
		}
	}
}
