package pool

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	bridgerr "github.com/fibero-labs/bridgectl/internal/errors"
	"github.com/fibero-labs/bridgectl/internal/registry"
	"github.com/fibero-labs/bridgectl/internal/signer"
)

// SubmitOptions bound every state-changing call. ConfirmTimeout caps the
// receipt wait; exceeding it yields StatusTimedOut rather than blocking.
type SubmitOptions struct {
	PollInterval   time.Duration
	ConfirmTimeout time.Duration
	GasMultiplier  float64
}

func DefaultSubmitOptions() SubmitOptions {
	return SubmitOptions{
		PollInterval:   2 * time.Second,
		ConfirmTimeout: 2 * time.Minute,
		GasMultiplier:  1.2,
	}
}

func (o SubmitOptions) normalized() SubmitOptions {
	if o.PollInterval <= 0 {
		o.PollInterval = 2 * time.Second
	}
	if o.ConfirmTimeout <= 0 {
		o.ConfirmTimeout = 2 * time.Minute
	}
	if o.GasMultiplier <= 1 {
		o.GasMultiplier = 1.2
	}
	return o
}

// evmBackend carries the shared call/submit/await mechanics for one
// contract on one chain.
type evmBackend struct {
	chainName string
	client    *ethclient.Client
	address   common.Address
	abi       abi.ABI
	signer    signer.Signer
	opts      SubmitOptions
}

// EVMPool is the TokenPool binding for a single chain.
type EVMPool struct {
	backend evmBackend
}

// NewEVMPool binds the TokenPool contract on the handle's chain. The
// handle must already be dialed.
func NewEVMPool(handle *registry.Handle, txSigner signer.Signer, opts SubmitOptions) (*EVMPool, error) {
	parsed, err := abi.JSON(strings.NewReader(registry.TokenPoolABI))
	if err != nil {
		return nil, fmt.Errorf("parse token pool abi: %w", err)
	}
	if handle.Client() == nil {
		return nil, fmt.Errorf("chain %s is not connected", handle.Name)
	}
	return &EVMPool{backend: evmBackend{
		chainName: handle.Name,
		client:    handle.Client(),
		address:   handle.PoolAddress,
		abi:       parsed,
		signer:    txSigner,
		opts:      opts.normalized(),
	}}, nil
}

func (p *EVMPool) PoolBalance(ctx context.Context, token string) (*big.Int, error) {
	return p.backend.callUint(ctx, "getPoolBalance", token)
}

func (p *EVMPool) MaxTransactionAmount(ctx context.Context) (*big.Int, error) {
	return p.backend.callUint(ctx, "maxTransactionAmount")
}

func (p *EVMPool) EstimateInitiateSwap(ctx context.Context, token string, amount *big.Int, destinationChainID int64, recipient common.Address) (uint64, error) {
	data, err := p.backend.abi.Pack("initiateSwap", token, amount, big.NewInt(destinationChainID), recipient)
	if err != nil {
		return 0, bridgerr.Wrap(bridgerr.CodeInternal, "encode initiateSwap", err)
	}
	from := p.backend.address
	if p.backend.signer != nil {
		from = p.backend.signer.Address()
	}
	gas, err := p.backend.client.EstimateGas(ctx, ethereum.CallMsg{
		From: from,
		To:   &p.backend.address,
		Data: data,
	})
	if err != nil {
		return 0, bridgerr.Wrap(bridgerr.CodeGasEstimation, fmt.Sprintf("%s: estimate initiateSwap gas", p.backend.chainName), err)
	}
	return gas, nil
}

func (p *EVMPool) InitiateSwap(ctx context.Context, token string, amount *big.Int, destinationChainID int64, recipient common.Address) (string, error) {
	return p.backend.submit(ctx, "initiateSwap", token, amount, big.NewInt(destinationChainID), recipient)
}

func (p *EVMPool) AddLiquidity(ctx context.Context, token string, amount *big.Int) (string, error) {
	return p.backend.submit(ctx, "addLiquidity", token, amount)
}

func (p *EVMPool) RemoveLiquidity(ctx context.Context, token string, amount *big.Int) (string, error) {
	return p.backend.submit(ctx, "removeLiquidity", token, amount)
}

func (p *EVMPool) SetMaxTransactionAmount(ctx context.Context, amount *big.Int) (string, error) {
	return p.backend.submit(ctx, "setMaxTransactionAmount", amount)
}

func (p *EVMPool) AwaitConfirmation(ctx context.Context, txHash string) (TxStatus, error) {
	return p.backend.await(ctx, txHash)
}

// EVMFeeManager is the FeeManager binding. It lives on one chain but
// governs fees for all of them.
type EVMFeeManager struct {
	backend evmBackend
}

func NewEVMFeeManager(handle *registry.Handle, address common.Address, txSigner signer.Signer, opts SubmitOptions) (*EVMFeeManager, error) {
	parsed, err := abi.JSON(strings.NewReader(registry.FeeManagerABI))
	if err != nil {
		return nil, fmt.Errorf("parse fee manager abi: %w", err)
	}
	if handle.Client() == nil {
		return nil, fmt.Errorf("chain %s is not connected", handle.Name)
	}
	return &EVMFeeManager{backend: evmBackend{
		chainName: handle.Name,
		client:    handle.Client(),
		address:   address,
		abi:       parsed,
		signer:    txSigner,
		opts:      opts.normalized(),
	}}, nil
}

func (f *EVMFeeManager) BaseFee(ctx context.Context) (*big.Int, error) {
	return f.backend.callUint(ctx, "baseFee")
}

func (f *EVMFeeManager) DiscountedFee(ctx context.Context) (*big.Int, error) {
	return f.backend.callUint(ctx, "discountedFee")
}

func (f *EVMFeeManager) CalculateFee(ctx context.Context, recipient common.Address, amount *big.Int) (*big.Int, error) {
	return f.backend.callUint(ctx, "calculateFee", recipient, amount)
}

func (f *EVMFeeManager) SetFees(ctx context.Context, baseFee, discountedFee *big.Int) (string, error) {
	return f.backend.submit(ctx, "setFees", baseFee, discountedFee)
}

func (f *EVMFeeManager) AwaitConfirmation(ctx context.Context, txHash string) (TxStatus, error) {
	return f.backend.await(ctx, txHash)
}

func (b *evmBackend) callUint(ctx context.Context, method string, args ...any) (*big.Int, error) {
	data, err := b.abi.Pack(method, args...)
	if err != nil {
		return nil, bridgerr.Wrap(bridgerr.CodeInternal, fmt.Sprintf("encode %s", method), err)
	}
	out, err := b.client.CallContract(ctx, ethereum.CallMsg{To: &b.address, Data: data}, nil)
	if err != nil {
		return nil, bridgerr.Wrap(bridgerr.CodeUnavailable, fmt.Sprintf("%s: call %s", b.chainName, method), err)
	}
	values, err := b.abi.Unpack(method, out)
	if err != nil || len(values) != 1 {
		return nil, bridgerr.Wrap(bridgerr.CodeUnavailable, fmt.Sprintf("%s: decode %s result", b.chainName, method), err)
	}
	value, ok := values[0].(*big.Int)
	if !ok {
		return nil, bridgerr.New(bridgerr.CodeUnavailable, fmt.Sprintf("%s: unexpected %s result type", b.chainName, method))
	}
	return value, nil
}

// submit broadcasts a state-changing call as an EIP-1559 transaction and
// returns the hash without waiting for inclusion.
func (b *evmBackend) submit(ctx context.Context, method string, args ...any) (string, error) {
	if b.signer == nil {
		return "", bridgerr.New(bridgerr.CodeSigner, "no signer configured for state-changing calls")
	}
	data, err := b.abi.Pack(method, args...)
	if err != nil {
		return "", bridgerr.Wrap(bridgerr.CodeInternal, fmt.Sprintf("encode %s", method), err)
	}

	chainID, err := b.client.ChainID(ctx)
	if err != nil {
		return "", bridgerr.Wrap(bridgerr.CodeUnavailable, fmt.Sprintf("%s: read chain id", b.chainName), err)
	}
	msg := ethereum.CallMsg{From: b.signer.Address(), To: &b.address, Data: data}
	gasLimit, err := b.client.EstimateGas(ctx, msg)
	if err != nil {
		return "", bridgerr.Wrap(bridgerr.CodeGasEstimation, fmt.Sprintf("%s: estimate %s gas", b.chainName, method), err)
	}
	gasLimit = uint64(float64(gasLimit) * b.opts.GasMultiplier)

	tipCap, err := b.client.SuggestGasTipCap(ctx)
	if err != nil {
		tipCap = big.NewInt(2_000_000_000) // 2 gwei fallback
	}
	header, err := b.client.HeaderByNumber(ctx, nil)
	if err != nil {
		return "", bridgerr.Wrap(bridgerr.CodeUnavailable, fmt.Sprintf("%s: fetch latest header", b.chainName), err)
	}
	baseFee := header.BaseFee
	if baseFee == nil {
		baseFee = big.NewInt(1_000_000_000)
	}
	feeCap := new(big.Int).Mul(baseFee, big.NewInt(2))
	feeCap.Add(feeCap, tipCap)

	nonce, err := b.client.PendingNonceAt(ctx, b.signer.Address())
	if err != nil {
		return "", bridgerr.Wrap(bridgerr.CodeUnavailable, fmt.Sprintf("%s: fetch nonce", b.chainName), err)
	}

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     nonce,
		GasTipCap: tipCap,
		GasFeeCap: feeCap,
		Gas:       gasLimit,
		To:        &b.address,
		Data:      data,
	})
	signed, err := b.signer.SignTx(chainID, tx)
	if err != nil {
		return "", bridgerr.Wrap(bridgerr.CodeSigner, "sign transaction", err)
	}
	if err := b.client.SendTransaction(ctx, signed); err != nil {
		return "", bridgerr.Wrap(bridgerr.CodeUnavailable, fmt.Sprintf("%s: broadcast %s", b.chainName, method), err)
	}
	return signed.Hash().Hex(), nil
}

// await polls for the receipt until the confirmation timeout. Transient
// polling failures are ignored until the deadline.
func (b *evmBackend) await(ctx context.Context, txHash string) (TxStatus, error) {
	hash := common.HexToHash(txHash)
	waitCtx, cancel := context.WithTimeout(ctx, b.opts.ConfirmTimeout)
	defer cancel()
	ticker := time.NewTicker(b.opts.PollInterval)
	defer ticker.Stop()
	for {
		receipt, err := b.client.TransactionReceipt(waitCtx, hash)
		if err == nil && receipt != nil {
			if receipt.Status == types.ReceiptStatusSuccessful {
				return StatusConfirmed, nil
			}
			return StatusReverted, nil
		}
		select {
		case <-waitCtx.Done():
			return StatusTimedOut, nil
		case <-ticker.C:
		}
	}
}
