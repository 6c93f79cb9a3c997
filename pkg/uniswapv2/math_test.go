package uniswapv2

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAmountOut(t *testing.T) {
	// reserves 1000000 : 1000000, amountIn 1000
	rIn := big.NewInt(1_000_000)
	rOut := big.NewInt(1_000_000)
	amountIn := big.NewInt(1_000)

	out, err := GetAmountOut(amountIn, rIn, rOut)
	require.NoError(t, err)

	// reference computation with the same formula
	inWithFee := new(big.Int).Mul(amountIn, big.NewInt(997))
	num := new(big.Int).Mul(inWithFee, rOut)
	den := new(big.Int).Add(new(big.Int).Mul(rIn, big.NewInt(1000)), inWithFee)
	expected := new(big.Int).Div(num, den)

	assert.Zero(t, out.Cmp(expected))
	assert.Positive(t, out.Sign())
}

func TestGetAmountIn_RoundTrip(t *testing.T) {
	rIn := new(big.Int).SetUint64(5_000_000_000_000)
	rOut := new(big.Int).SetUint64(9_000_000_000_000)
	amountOut := big.NewInt(123_456_789)

	in, err := GetAmountIn(amountOut, rIn, rOut)
	require.NoError(t, err)

	// paying the derived input must yield at least the requested output
	got, err := GetAmountOut(in, rIn, rOut)
	require.NoError(t, err)
	assert.True(t, got.Cmp(amountOut) >= 0, "got %s want >= %s", got, amountOut)

	// one unit less must not be enough
	gotLess, err := GetAmountOut(new(big.Int).Sub(in, big.NewInt(1)), rIn, rOut)
	require.NoError(t, err)
	assert.True(t, gotLess.Cmp(amountOut) < 0, "gotLess %s want < %s", gotLess, amountOut)
}

func TestGetAmountOut_Guards(t *testing.T) {
	one := big.NewInt(1)
	zero := big.NewInt(0)

	_, err := GetAmountOut(zero, one, one)
	assert.ErrorIs(t, err, ErrInsufficientInput)

	_, err = GetAmountOut(one, zero, one)
	assert.ErrorIs(t, err, ErrInsufficientLiquidity)

	_, err = GetAmountOut(one, one, zero)
	assert.ErrorIs(t, err, ErrInsufficientLiquidity)
}

func TestGetAmountIn_Guards(t *testing.T) {
	one := big.NewInt(1)
	zero := big.NewInt(0)

	_, err := GetAmountIn(zero, one, one)
	assert.ErrorIs(t, err, ErrInsufficientInput)

	// requesting the whole reserve (or more) cannot be satisfied
	_, err = GetAmountIn(big.NewInt(10), one, big.NewInt(10))
	assert.ErrorIs(t, err, ErrInsufficientLiquidity)

	_, err = GetAmountIn(one, zero, big.NewInt(10))
	assert.ErrorIs(t, err, ErrInsufficientLiquidity)
}

// Truncation must only ever tighten a bound in the trader's favor: the
// minimum-output bound never exceeds expected*(1-s) and the maximum-input
// bound never exceeds expected*(1+s).
func TestSlippageBounds_RoundingDirection(t *testing.T) {
	cases := []struct {
		name   string
		amount *big.Int
		bps    uint32
	}{
		{"even", big.NewInt(10_000), 100},
		{"truncating", big.NewInt(9_999), 100},
		{"one_unit", big.NewInt(1), 1},
		{"large", new(big.Int).SetUint64(123_456_789_123_456_789), 37},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			down := ApplySlippageDown(tc.amount, tc.bps)
			up := ApplySlippageUp(tc.amount, tc.bps)

			// exact rational bounds
			lo := new(big.Rat).SetFrac(
				new(big.Int).Mul(tc.amount, big.NewInt(int64(10_000-int64(tc.bps)))),
				big.NewInt(10_000),
			)
			hi := new(big.Rat).SetFrac(
				new(big.Int).Mul(tc.amount, big.NewInt(int64(10_000+int64(tc.bps)))),
				big.NewInt(10_000),
			)

			assert.True(t, new(big.Rat).SetInt(down).Cmp(lo) <= 0, "min-out bound loosened")
			assert.True(t, new(big.Rat).SetInt(up).Cmp(hi) <= 0, "max-in cap loosened")
			assert.True(t, down.Cmp(tc.amount) <= 0)
			assert.True(t, up.Cmp(tc.amount) >= 0)
		})
	}
}

func TestSlippage_ShortfallWithinTruncation(t *testing.T) {
	expected := big.NewInt(1_000_003)
	bps := uint32(100)

	down := ApplySlippageDown(expected, bps)
	shortfall := new(big.Int).Sub(expected, down)

	// shortfall == expected*bps/10000 within one unit of truncation
	ideal := new(big.Int).Div(new(big.Int).Mul(expected, big.NewInt(int64(bps))), big.NewInt(10_000))
	diff := new(big.Int).Sub(shortfall, ideal)
	assert.True(t, diff.CmpAbs(big.NewInt(1)) <= 0, "shortfall %s ideal %s", shortfall, ideal)
}
