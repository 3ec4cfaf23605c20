package app

import (
	"bytes"
	"strings"
	"testing"

	bridgerr "github.com/fibero-labs/bridgectl/internal/errors"
	"github.com/fibero-labs/bridgectl/internal/signer"
	"github.com/fibero-labs/bridgectl/internal/version"
)

func runCapture(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := NewRunnerWithWriters(&stdout, &stderr).Run(args)
	return code, stdout.String(), stderr.String()
}

func TestRunHelp(t *testing.T) {
	code, stdout, _ := runCapture(t, "--help")
	if code != 0 {
		t.Fatalf("help exit code = %d", code)
	}
	for _, cmd := range []string{"balances", "fees", "plan", "swap", "admin", "history", "serve"} {
		if !strings.Contains(stdout, cmd) {
			t.Fatalf("help output missing %q:\n%s", cmd, stdout)
		}
	}
}

func TestRunVersion(t *testing.T) {
	code, stdout, _ := runCapture(t, "--version")
	if code != 0 {
		t.Fatalf("version exit code = %d", code)
	}
	if !strings.Contains(stdout, version.Version) {
		t.Fatalf("version output missing %s: %s", version.Version, stdout)
	}
}

func TestRunUnknownCommand(t *testing.T) {
	code, _, stderr := runCapture(t, "definitely-not-a-command")
	if code == 0 {
		t.Fatal("unknown command must not exit zero")
	}
	if !strings.Contains(stderr, "Error") {
		t.Fatalf("expected error output, got %q", stderr)
	}
}

func TestSwapWithoutSigningKey(t *testing.T) {
	// The signing key is loaded before any chain is dialed, so this
	// fails fast without network access.
	t.Setenv("HOME", t.TempDir())
	t.Setenv(signer.EnvPrivateKey, "")
	t.Setenv(signer.EnvPrivateKeyFile, "")
	t.Setenv(signer.EnvKeystorePath, "")

	code, _, stderr := runCapture(t, "swap",
		"--source", "ETH", "--dest", "BSC", "--token", "USDC",
		"--amount", "100", "--recipient", "0x00000000000000000000000000000000000000aa")
	if code != int(bridgerr.CodeSigner) {
		t.Fatalf("exit code = %d, want %d", code, bridgerr.CodeSigner)
	}
	if !strings.Contains(stderr, "signing key") {
		t.Fatalf("expected signing key error, got %q", stderr)
	}
}
