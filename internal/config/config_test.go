package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// isolate keeps the loader away from any real home-directory config.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvConfigPath, "")
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	settings, err := Load(GlobalFlags{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(settings.Chains) != 3 {
		t.Fatalf("expected 3 default chains, got %d", len(settings.Chains))
	}
	if settings.Chains[0].Name != "ETH" || settings.Chains[1].Name != "BSC" || settings.Chains[2].Name != "POLYGON" {
		t.Fatalf("unexpected chain order: %+v", settings.Chains)
	}
	if settings.CollaboratorTimeout != 10*time.Second {
		t.Fatalf("unexpected collaborator timeout: %s", settings.CollaboratorTimeout)
	}
	if settings.ConfirmTimeout != 2*time.Minute {
		t.Fatalf("unexpected confirmation timeout: %s", settings.ConfirmTimeout)
	}
	if settings.ListenAddress != ":8080" || settings.RatePerMinute != 100 {
		t.Fatalf("unexpected server defaults: %s / %d", settings.ListenAddress, settings.RatePerMinute)
	}
}

func TestLoadFromFile(t *testing.T) {
	isolate(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
chains:
  - name: eth
    rpc_url: https://rpc.example/eth
    pool_address: "0x0000000000000000000000000000000000000001"
  - name: bsc
    pool_address: "0x0000000000000000000000000000000000000002"
    tokens: [USDC, BUSD]
fee_manager:
  chain: polygon
  address: "0x0000000000000000000000000000000000000009"
admin:
  address: "0x00000000000000000000000000000000000000aa"
timeouts:
  collaborator: 3s
  confirmation: 45s
server:
  listen: ":9090"
  rate_per_minute: 10
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	settings, err := Load(GlobalFlags{ConfigPath: path})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(settings.Chains) != 2 {
		t.Fatalf("file chains must replace defaults, got %d", len(settings.Chains))
	}
	eth := settings.Chains[0]
	if eth.Name != "ETH" || eth.RPCURL != "https://rpc.example/eth" {
		t.Fatalf("unexpected eth entry: %+v", eth)
	}
	// Unset fields fall back to the built-in defaults for that chain.
	if len(eth.Tokens) != 2 || eth.Tokens[0] != "USDC" {
		t.Fatalf("eth tokens should default: %+v", eth.Tokens)
	}
	bsc := settings.Chains[1]
	if bsc.RPCURL != "https://bsc-dataseed.binance.org" {
		t.Fatalf("bsc rpc should default: %s", bsc.RPCURL)
	}
	if len(bsc.Tokens) != 2 || bsc.Tokens[1] != "BUSD" {
		t.Fatalf("bsc tokens should come from the file: %+v", bsc.Tokens)
	}
	if settings.FeeManagerChain != "POLYGON" || settings.FeeManagerAddress == "" {
		t.Fatalf("unexpected fee manager: %s %s", settings.FeeManagerChain, settings.FeeManagerAddress)
	}
	if settings.CollaboratorTimeout != 3*time.Second || settings.ConfirmTimeout != 45*time.Second {
		t.Fatalf("unexpected timeouts: %s / %s", settings.CollaboratorTimeout, settings.ConfirmTimeout)
	}
	if settings.ListenAddress != ":9090" || settings.RatePerMinute != 10 {
		t.Fatalf("unexpected server settings: %s / %d", settings.ListenAddress, settings.RatePerMinute)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	isolate(t)
	t.Setenv("BRIDGE_RPC_URL_ETH", "https://private.example/eth")
	t.Setenv("BRIDGE_POOL_ADDR_ETH", "0x00000000000000000000000000000000000000cc")
	t.Setenv("BRIDGE_FEE_MANAGER_ADDR", "0x00000000000000000000000000000000000000dd")
	t.Setenv(EnvAdminToken, "secret-token")

	settings, err := Load(GlobalFlags{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if settings.Chains[0].RPCURL != "https://private.example/eth" {
		t.Fatalf("env rpc override lost: %s", settings.Chains[0].RPCURL)
	}
	if settings.Chains[0].PoolAddress != "0x00000000000000000000000000000000000000cc" {
		t.Fatalf("env pool override lost: %s", settings.Chains[0].PoolAddress)
	}
	if settings.FeeManagerAddress != "0x00000000000000000000000000000000000000dd" {
		t.Fatalf("env fee manager override lost: %s", settings.FeeManagerAddress)
	}
	if settings.AdminToken != "secret-token" {
		t.Fatalf("env admin token lost: %s", settings.AdminToken)
	}
}

func TestFlagTimeoutOverride(t *testing.T) {
	isolate(t)

	settings, err := Load(GlobalFlags{Timeout: "30s", JSON: true, Verbose: true})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if settings.CollaboratorTimeout != 30*time.Second {
		t.Fatalf("flag timeout lost: %s", settings.CollaboratorTimeout)
	}
	if !settings.JSON || !settings.Verbose {
		t.Fatal("flag output settings lost")
	}
}

func TestInvalidTimeoutFlag(t *testing.T) {
	isolate(t)

	if _, err := Load(GlobalFlags{Timeout: "soon"}); err == nil {
		t.Fatal("expected error for invalid timeout")
	}
}

func TestInvalidDurationInFile(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("timeouts:\n  collaborator: never\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(GlobalFlags{ConfigPath: path}); err == nil {
		t.Fatal("expected error for invalid duration")
	}
}

func TestChainSpecs(t *testing.T) {
	settings := Settings{Chains: []ChainSettings{
		{Name: "ETH", RPCURL: "https://x", PoolAddress: "0x01", Tokens: []string{"USDC"}},
	}}
	specs := settings.ChainSpecs()
	if len(specs) != 1 || specs[0].Name != "ETH" || specs[0].RPCURL != "https://x" {
		t.Fatalf("unexpected specs: %+v", specs)
	}
}
