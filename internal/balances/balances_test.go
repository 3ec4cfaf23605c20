package balances

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	bridgerr "github.com/fibero-labs/bridgectl/internal/errors"
	"github.com/fibero-labs/bridgectl/internal/pool"
	"github.com/fibero-labs/bridgectl/internal/registry"
)

type fakePool struct {
	balances map[string]*big.Int
	err      error
}

func (f *fakePool) PoolBalance(ctx context.Context, token string) (*big.Int, error) {
	if f.err != nil {
		return nil, f.err
	}
	if b, ok := f.balances[token]; ok {
		return new(big.Int).Set(b), nil
	}
	return big.NewInt(0), nil
}

func (f *fakePool) MaxTransactionAmount(ctx context.Context) (*big.Int, error) {
	return big.NewInt(0), nil
}

func (f *fakePool) EstimateInitiateSwap(ctx context.Context, token string, amount *big.Int, destinationChainID int64, recipient common.Address) (uint64, error) {
	return 0, nil
}

func (f *fakePool) InitiateSwap(ctx context.Context, token string, amount *big.Int, destinationChainID int64, recipient common.Address) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakePool) AddLiquidity(ctx context.Context, token string, amount *big.Int) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakePool) RemoveLiquidity(ctx context.Context, token string, amount *big.Int) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakePool) SetMaxTransactionAmount(ctx context.Context, amount *big.Int) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakePool) AwaitConfirmation(ctx context.Context, txHash string) (pool.TxStatus, error) {
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

func TestReadAllChains(t *testing.T) {
	pools := pool.Map{
		"ETH": &fakePool{balances: map[string]*big.Int{
			"USDC": big.NewInt(1_500_000_000),
			"USDT": big.NewInt(250_000),
		}},
		"BSC": &fakePool{balances: map[string]*big.Int{
			"USDC": big.NewInt(0),
		}},
	}

	snapshot, err := Read(context.Background(), testRegistry(t), pools)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got := snapshot["ETH"]["USDC"]; got != "1500" {
		t.Fatalf("ETH USDC = %s, want 1500", got)
	}
	if got := snapshot["ETH"]["USDT"]; got != "0.25" {
		t.Fatalf("ETH USDT = %s, want 0.25", got)
	}
	if got := snapshot["BSC"]["USDC"]; got != "0" {
		t.Fatalf("BSC USDC = %s, want 0", got)
	}
}

func TestReadPropagatesFailure(t *testing.T) {
	pools := pool.Map{
		"ETH": &fakePool{err: errors.New("rpc down")},
		"BSC": &fakePool{},
	}

	_, err := Read(context.Background(), testRegistry(t), pools)
	if !bridgerr.Is(err, bridgerr.CodeUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
}

func TestReadMissingPoolBinding(t *testing.T) {
	pools := pool.Map{"ETH": &fakePool{}}

	_, err := Read(context.Background(), testRegistry(t), pools)
	if !bridgerr.Is(err, bridgerr.CodeInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
}
