// Package amount is the single validation and conversion gate between
// human decimal strings and the fixed-point integers the pool and fee
// contracts expect. Nothing downstream re-parses raw decimal input.
package amount

import (
	"fmt"
	"math/big"
	"regexp"
	"strings"

	bridgerr "github.com/fibero-labs/bridgectl/internal/errors"
)

const (
	// TokenDecimals is the fixed-point scale for stablecoin amounts.
	TokenDecimals = 6
	// FeeDecimals is the fixed-point scale for fee percentages.
	FeeDecimals = 2
)

var decimalPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

// ToBaseUnits converts a decimal string into its fixed-point integer
// representation scaled by decimals fractional digits.
func ToBaseUnits(decimal string, decimals int) (*big.Int, error) {
	clean := strings.TrimSpace(decimal)
	if clean == "" {
		return nil, bridgerr.New(bridgerr.CodeInvalidAmount, "amount is required")
	}
	if decimals < 0 {
		return nil, bridgerr.New(bridgerr.CodeUsage, "decimals must be >= 0")
	}
	if !decimalPattern.MatchString(clean) {
		return nil, bridgerr.New(bridgerr.CodeInvalidAmount, fmt.Sprintf("amount %q must be a non-negative decimal like 1.23", decimal))
	}

	parts := strings.SplitN(clean, ".", 2)
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if len(fracPart) > decimals {
		return nil, bridgerr.New(bridgerr.CodeInvalidAmount, fmt.Sprintf("amount precision exceeds %d decimals", decimals))
	}

	fracPart = fracPart + strings.Repeat("0", decimals-len(fracPart))
	combined := strings.TrimLeft(intPart+fracPart, "0")
	if combined == "" {
		return big.NewInt(0), nil
	}
	out, ok := new(big.Int).SetString(combined, 10)
	if !ok {
		return nil, bridgerr.New(bridgerr.CodeInvalidAmount, "invalid decimal amount")
	}
	return out, nil
}

// FromBaseUnits converts a fixed-point integer back to a decimal string.
// Trailing fractional zeros are trimmed, so FromBaseUnits(ToBaseUnits(x))
// returns x for any normalized decimal representable in the scale.
func FromBaseUnits(baseUnits *big.Int, decimals int) string {
	if baseUnits == nil {
		return "0"
	}
	s := baseUnits.String()
	if decimals == 0 {
		return s
	}
	if len(s) <= decimals {
		s = strings.Repeat("0", decimals-len(s)+1) + s
	}
	intPart := s[:len(s)-decimals]
	fracPart := strings.TrimRight(s[len(s)-decimals:], "0")
	if fracPart == "" {
		return intPart
	}
	return intPart + "." + fracPart
}

// ParsePositive converts a decimal string and rejects zero.
func ParsePositive(decimal string, decimals int) (*big.Int, error) {
	v, err := ToBaseUnits(decimal, decimals)
	if err != nil {
		return nil, err
	}
	if v.Sign() <= 0 {
		return nil, bridgerr.New(bridgerr.CodeInvalidAmount, "amount must be greater than zero")
	}
	return v, nil
}
