package helper

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// parseAmount converts a human decimal amount string into the token's
// smallest-unit integer. Amounts with fractional digits beyond the token's
// precision are rejected rather than truncated.
func parseAmount(s string, decimals uint8) (*big.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, wrapInvalid("malformed amount %q", s)
	}
	if d.Sign() <= 0 {
		return nil, wrapInvalid("amount %q must be greater than zero", s)
	}
	scaled := d.Shift(int32(decimals))
	if !scaled.IsInteger() {
		return nil, wrapInvalid("amount %q exceeds token precision of %d decimals", s, decimals)
	}
	return scaled.BigInt(), nil
}
