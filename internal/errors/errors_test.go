package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(CodeUnavailable, "connect ETH rpc", cause)

	if !stderrors.Is(err, cause) {
		t.Fatal("wrapped cause must unwrap")
	}
	if err.Error() != "connect ETH rpc: connection refused" {
		t.Fatalf("unexpected message: %s", err.Error())
	}
}

func TestAsThroughWrapping(t *testing.T) {
	inner := New(CodeAmountExceedsCap, "amount too large")
	outer := fmt.Errorf("plan swap: %w", inner)

	typed, ok := As(outer)
	if !ok || typed.Code != CodeAmountExceedsCap {
		t.Fatalf("expected typed error through wrapping, got %v", outer)
	}
	if !Is(outer, CodeAmountExceedsCap) {
		t.Fatal("Is must see through wrapping")
	}
	if Is(outer, CodeReverted) {
		t.Fatal("Is must not match a different code")
	}
}

func TestIsValidation(t *testing.T) {
	validation := []Code{CodeUsage, CodeMissingField, CodeUnsupportedChain, CodeUnsupportedToken, CodeInvalidAmount, CodeAmountExceedsCap}
	for _, code := range validation {
		if !IsValidation(New(code, "x")) {
			t.Fatalf("code %d should be validation", code)
		}
	}
	nonValidation := []Code{CodeInternal, CodeFeePolicyUnavailable, CodeGasEstimation, CodeUnavailable, CodeReverted, CodeTimeout, CodeAuth, CodeSigner}
	for _, code := range nonValidation {
		if IsValidation(New(code, "x")) {
			t.Fatalf("code %d should not be validation", code)
		}
	}
	if IsValidation(stderrors.New("untyped")) {
		t.Fatal("untyped errors are not validation errors")
	}
}

func TestExitCode(t *testing.T) {
	if got := ExitCode(nil); got != 0 {
		t.Fatalf("nil error exit code = %d", got)
	}
	if got := ExitCode(New(CodeUnsupportedChain, "x")); got != 11 {
		t.Fatalf("typed exit code = %d", got)
	}
	if got := ExitCode(stderrors.New("boom")); got != 1 {
		t.Fatalf("untyped exit code = %d", got)
	}
}

func TestKindNames(t *testing.T) {
	cases := map[Code]string{
		CodeSuccess:              "ok",
		CodeMissingField:         "missing_field",
		CodeUnsupportedChain:     "unsupported_chain",
		CodeUnsupportedToken:     "unsupported_token",
		CodeInvalidAmount:        "invalid_amount",
		CodeAmountExceedsCap:     "amount_exceeds_cap",
		CodeFeePolicyUnavailable: "fee_policy_unavailable",
		CodeGasEstimation:        "gas_estimation_failed",
		CodeUnavailable:          "unavailable",
		CodeReverted:             "reverted",
		CodeTimeout:              "timed_out",
		CodeAuth:                 "unauthorized",
		CodeSigner:               "signer",
		CodeInternal:             "internal",
	}
	for code, want := range cases {
		if got := Kind(code); got != want {
			t.Fatalf("Kind(%d) = %s, want %s", code, got, want)
		}
	}
}
