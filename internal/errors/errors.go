package errors

import (
	"errors"
	"fmt"
)

// Code is a stable, machine-readable error kind mapped to process exit codes.
type Code int

const (
	CodeSuccess  Code = 0
	CodeInternal Code = 1
	CodeUsage    Code = 2

	// Validation failures. Detected before any chain call, safe to retry
	// after correcting input.
	CodeMissingField     Code = 10
	CodeUnsupportedChain Code = 11
	CodeUnsupportedToken Code = 12
	CodeInvalidAmount    Code = 13
	CodeAmountExceedsCap Code = 14

	// Collaborator failures. Retriable service errors; never retried
	// automatically by the orchestrator.
	CodeFeePolicyUnavailable Code = 20
	CodeGasEstimation        Code = 21
	CodeUnavailable          Code = 22

	// On-chain outcomes. The submission happened; the caller must not
	// blindly resubmit.
	CodeReverted Code = 30
	CodeTimeout  Code = 31

	CodeAuth   Code = 40
	CodeSigner Code = 41
)

// Error is a typed orchestration error that carries a stable code.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

func As(err error) (*Error, bool) {
	var target *Error
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	typed, ok := As(err)
	return ok && typed.Code == code
}

// IsValidation reports whether err was detected before any chain call.
func IsValidation(err error) bool {
	typed, ok := As(err)
	if !ok {
		return false
	}
	switch typed.Code {
	case CodeUsage, CodeMissingField, CodeUnsupportedChain, CodeUnsupportedToken,
		CodeInvalidAmount, CodeAmountExceedsCap:
		return true
	}
	return false
}

func ExitCode(err error) int {
	if err == nil {
		return int(CodeSuccess)
	}
	if typed, ok := As(err); ok {
		return int(typed.Code)
	}
	return int(CodeInternal)
}

// Kind returns the stable string name for a code, used in API payloads
// and journal rows.
func Kind(code Code) string {
	switch code {
	case CodeSuccess:
		return "ok"
	case CodeUsage:
		return "usage"
	case CodeMissingField:
		return "missing_field"
	case CodeUnsupportedChain:
		return "unsupported_chain"
	case CodeUnsupportedToken:
		return "unsupported_token"
	case CodeInvalidAmount:
		return "invalid_amount"
	case CodeAmountExceedsCap:
		return "amount_exceeds_cap"
	case CodeFeePolicyUnavailable:
		return "fee_policy_unavailable"
	case CodeGasEstimation:
		return "gas_estimation_failed"
	case CodeUnavailable:
		return "unavailable"
	case CodeReverted:
		return "reverted"
	case CodeTimeout:
		return "timed_out"
	case CodeAuth:
		return "unauthorized"
	case CodeSigner:
		return "signer"
	default:
		return "internal"
	}
}
