package admin

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	bridgerr "github.com/fibero-labs/bridgectl/internal/errors"
	"github.com/fibero-labs/bridgectl/internal/pool"
	"github.com/fibero-labs/bridgectl/internal/registry"
	"github.com/fibero-labs/bridgectl/internal/swap"
)

type poolCall struct {
	method string
	token  string
	amount *big.Int
}

type fakePool struct {
	calls     []poolCall
	submitErr error
	txStatus  pool.TxStatus
}

func (f *fakePool) record(method, token string, amount *big.Int) (string, error) {
	f.calls = append(f.calls, poolCall{method: method, token: token, amount: amount})
	if f.submitErr != nil {
		return "", f.submitErr
	}
	return "0xabc123", nil
}

func (f *fakePool) PoolBalance(ctx context.Context, token string) (*big.Int, error) {
	return big.NewInt(0), nil
}

func (f *fakePool) MaxTransactionAmount(ctx context.Context) (*big.Int, error) {
	return big.NewInt(0), nil
}

func (f *fakePool) EstimateInitiateSwap(ctx context.Context, token string, amount *big.Int, destinationChainID int64, recipient common.Address) (uint64, error) {
	return 0, nil
}

func (f *fakePool) InitiateSwap(ctx context.Context, token string, amount *big.Int, destinationChainID int64, recipient common.Address) (string, error) {
	return f.record("initiateSwap", token, amount)
}

func (f *fakePool) AddLiquidity(ctx context.Context, token string, amount *big.Int) (string, error) {
	return f.record("addLiquidity", token, amount)
}

func (f *fakePool) RemoveLiquidity(ctx context.Context, token string, amount *big.Int) (string, error) {
	return f.record("removeLiquidity", token, amount)
}

func (f *fakePool) SetMaxTransactionAmount(ctx context.Context, amount *big.Int) (string, error) {
	return f.record("setMaxTransactionAmount", "", amount)
}

func (f *fakePool) AwaitConfirmation(ctx context.Context, txHash string) (pool.TxStatus, error) {
	if f.txStatus == "" {
		return pool.StatusConfirmed, nil
	}
	return f.txStatus, nil
}

type fakeFeeManager struct {
	base       *big.Int
	discounted *big.Int
	submitErr  error
}

func (f *fakeFeeManager) BaseFee(ctx context.Context) (*big.Int, error)       { return f.base, nil }
func (f *fakeFeeManager) DiscountedFee(ctx context.Context) (*big.Int, error) { return f.discounted, nil }

func (f *fakeFeeManager) CalculateFee(ctx context.Context, recipient common.Address, amount *big.Int) (*big.Int, error) {
	return big.NewInt(0), nil
}

func (f *fakeFeeManager) SetFees(ctx context.Context, baseFee, discountedFee *big.Int) (string, error) {
	if f.submitErr != nil {
		return "", f.submitErr
	}
	f.base = baseFee
	f.discounted = discountedFee
	return "0xfee456", nil
}

func (f *fakeFeeManager) AwaitConfirmation(ctx context.Context, txHash string) (pool.TxStatus, error) {
	return pool.StatusConfirmed, nil
}

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg, err := registry.New([]registry.ChainSpec{
		{Name: "ETH", RPCURL: "https://eth.example", PoolAddress: "0x0000000000000000000000000000000000000001", Tokens: []string{"USDC", "USDT"}},
		{Name: "BSC", RPCURL: "https://bsc.example", PoolAddress: "0x0000000000000000000000000000000000000002", Tokens: []string{"USDC"}},
	})
	if err != nil {
		t.Fatalf("registry.New failed: %v", err)
	}
	return reg
}

func newTestAdmin(t *testing.T, ethPool *fakePool, fm *fakeFeeManager) *Admin {
	t.Helper()
	return New(testRegistry(t), pool.Map{"ETH": ethPool}, fm)
}

func TestAuthorize(t *testing.T) {
	adminAddr := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	other := common.HexToAddress("0x00000000000000000000000000000000000000bb")

	if err := Authorize(adminAddr, adminAddr); err != nil {
		t.Fatalf("matching address rejected: %v", err)
	}
	if err := Authorize(other, adminAddr); !bridgerr.Is(err, bridgerr.CodeAuth) {
		t.Fatalf("expected auth error, got %v", err)
	}
	if err := Authorize(adminAddr, common.Address{}); !bridgerr.Is(err, bridgerr.CodeAuth) {
		t.Fatalf("expected auth error for unset admin, got %v", err)
	}
}

func TestAddLiquidity(t *testing.T) {
	ethPool := &fakePool{}
	a := newTestAdmin(t, ethPool, &fakeFeeManager{})

	outcome := a.AddLiquidity(context.Background(), "ETH", "usdc", "250.5")
	if !outcome.Succeeded() {
		t.Fatalf("expected confirmation, got %+v", outcome)
	}
	if outcome.TxHash != "0xabc123" {
		t.Fatalf("unexpected tx hash: %s", outcome.TxHash)
	}
	if len(ethPool.calls) != 1 {
		t.Fatalf("expected one submission, got %d", len(ethPool.calls))
	}
	call := ethPool.calls[0]
	if call.method != "addLiquidity" || call.token != "USDC" {
		t.Fatalf("unexpected call: %+v", call)
	}
	if call.amount.Int64() != 250_500_000 {
		t.Fatalf("unexpected units: %s", call.amount)
	}
}

func TestRemoveLiquidity(t *testing.T) {
	ethPool := &fakePool{}
	a := newTestAdmin(t, ethPool, &fakeFeeManager{})

	outcome := a.RemoveLiquidity(context.Background(), "1", "USDT", "10")
	if !outcome.Succeeded() {
		t.Fatalf("expected confirmation, got %+v", outcome)
	}
	if ethPool.calls[0].method != "removeLiquidity" {
		t.Fatalf("unexpected call: %+v", ethPool.calls[0])
	}
}

func TestLiquidityValidation(t *testing.T) {
	ethPool := &fakePool{}
	a := newTestAdmin(t, ethPool, &fakeFeeManager{})

	cases := []struct {
		name  string
		chain string
		token string
		amt   string
		code  bridgerr.Code
	}{
		{"unsupported chain", "SOLANA", "USDC", "10", bridgerr.CodeUnsupportedChain},
		{"unsupported token", "BSC", "USDT", "10", bridgerr.CodeUnsupportedToken},
		{"zero amount", "ETH", "USDC", "0", bridgerr.CodeInvalidAmount},
		{"negative amount", "ETH", "USDC", "-5", bridgerr.CodeInvalidAmount},
	}
	for _, tc := range cases {
		outcome := a.AddLiquidity(context.Background(), tc.chain, tc.token, tc.amt)
		if outcome.Status != swap.StatusFailed {
			t.Fatalf("%s: expected failure, got %s", tc.name, outcome.Status)
		}
		if !bridgerr.Is(outcome.Err, tc.code) {
			t.Fatalf("%s: expected code %d, got %v", tc.name, tc.code, outcome.Err)
		}
	}
	if len(ethPool.calls) != 0 {
		t.Fatalf("validation failures must not submit, got %d calls", len(ethPool.calls))
	}
}

func TestSetMaxTransactionAmount(t *testing.T) {
	ethPool := &fakePool{}
	a := newTestAdmin(t, ethPool, &fakeFeeManager{})

	outcome := a.SetMaxTransactionAmount(context.Background(), "ETH", "1000")
	if !outcome.Succeeded() {
		t.Fatalf("expected confirmation, got %+v", outcome)
	}
	call := ethPool.calls[0]
	if call.method != "setMaxTransactionAmount" {
		t.Fatalf("unexpected call: %+v", call)
	}
	if call.amount.Int64() != 1_000_000_000 {
		t.Fatalf("unexpected units: %s", call.amount)
	}
}

func TestSetFees(t *testing.T) {
	fm := &fakeFeeManager{}
	a := newTestAdmin(t, &fakePool{}, fm)

	outcome := a.SetFees(context.Background(), "0.50", "0.25")
	if !outcome.Succeeded() {
		t.Fatalf("expected confirmation, got %+v", outcome)
	}
	if outcome.TxHash != "0xfee456" {
		t.Fatalf("unexpected tx hash: %s", outcome.TxHash)
	}
	if fm.base.Int64() != 50 || fm.discounted.Int64() != 25 {
		t.Fatalf("unexpected fee units: base=%s discounted=%s", fm.base, fm.discounted)
	}
}

func TestSetFeesRejectsDiscountAboveBase(t *testing.T) {
	fm := &fakeFeeManager{}
	a := newTestAdmin(t, &fakePool{}, fm)

	outcome := a.SetFees(context.Background(), "0.25", "0.50")
	if outcome.Status != swap.StatusFailed {
		t.Fatalf("expected failure, got %s", outcome.Status)
	}
	if !bridgerr.Is(outcome.Err, bridgerr.CodeInvalidAmount) {
		t.Fatalf("expected invalid amount, got %v", outcome.Err)
	}
	if fm.base != nil {
		t.Fatal("rejected update must not reach the collaborator")
	}
}

func TestMutationRevertedKeepsHash(t *testing.T) {
	ethPool := &fakePool{txStatus: pool.StatusReverted}
	a := newTestAdmin(t, ethPool, &fakeFeeManager{})

	outcome := a.AddLiquidity(context.Background(), "ETH", "USDC", "10")
	if outcome.Status != swap.StatusReverted {
		t.Fatalf("expected reverted, got %s", outcome.Status)
	}
	if outcome.TxHash == "" {
		t.Fatal("reverted mutation must still carry the transaction hash")
	}
}

func TestMutationSubmitFailure(t *testing.T) {
	ethPool := &fakePool{submitErr: errors.New("insufficient funds")}
	a := newTestAdmin(t, ethPool, &fakeFeeManager{})

	outcome := a.AddLiquidity(context.Background(), "ETH", "USDC", "10")
	if outcome.Status != swap.StatusFailed {
		t.Fatalf("expected failure, got %s", outcome.Status)
	}
	if outcome.TxHash != "" {
		t.Fatal("failed broadcast has no hash")
	}
}
