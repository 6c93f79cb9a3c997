// Package uniswapv2 implements the UniswapV2 constant-product math with the
// 0.3% fee, using big.Int so results match on-chain truncation exactly.
package uniswapv2

import (
	"errors"
	"math/big"
)

// fee: 0.3% => multiplier 997/1000
var (
	feeMul = big.NewInt(997)
	feeDen = big.NewInt(1000)

	bpsDen = big.NewInt(10_000)
)

var (
	ErrInsufficientInput     = errors.New("insufficient input amount")
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
)

// GetAmountOut returns the output amount a pair pays for amountIn given its
// reserves: amountIn*997*reserveOut / (reserveIn*1000 + amountIn*997).
func GetAmountOut(amountIn, reserveIn, reserveOut *big.Int) (*big.Int, error) {
	if amountIn == nil || amountIn.Sign() <= 0 {
		return nil, ErrInsufficientInput
	}
	if reserveIn.Sign() <= 0 || reserveOut.Sign() <= 0 {
		return nil, ErrInsufficientLiquidity
	}
	inWithFee := new(big.Int).Mul(amountIn, feeMul)
	numerator := new(big.Int).Mul(inWithFee, reserveOut)
	denominator := new(big.Int).Mul(reserveIn, feeDen)
	denominator.Add(denominator, inWithFee)
	return numerator.Div(numerator, denominator), nil
}

// GetAmountIn returns the input amount required to receive amountOut:
// reserveIn*amountOut*1000 / ((reserveOut-amountOut)*997), rounded up.
func GetAmountIn(amountOut, reserveIn, reserveOut *big.Int) (*big.Int, error) {
	if amountOut == nil || amountOut.Sign() <= 0 {
		return nil, ErrInsufficientInput
	}
	if reserveIn.Sign() <= 0 || reserveOut.Sign() <= 0 || reserveOut.Cmp(amountOut) <= 0 {
		return nil, ErrInsufficientLiquidity
	}
	numerator := new(big.Int).Mul(reserveIn, amountOut)
	numerator.Mul(numerator, feeDen)
	denominator := new(big.Int).Sub(reserveOut, amountOut)
	denominator.Mul(denominator, feeMul)
	numerator.Div(numerator, denominator)
	return numerator.Add(numerator, big.NewInt(1)), nil
}

// ApplySlippageDown returns amount*(10000-bps)/10000, the minimum acceptable
// output for an exact-input trade. Integer division truncates, so the bound
// may be up to one smallest unit tighter than the stated tolerance, never
// looser.
func ApplySlippageDown(amount *big.Int, bps uint32) *big.Int {
	out := new(big.Int).Mul(amount, big.NewInt(int64(10_000-int64(bps))))
	return out.Div(out, bpsDen)
}

// ApplySlippageUp returns amount*(10000+bps)/10000, the maximum acceptable
// input for an exact-output trade. Truncation tightens the cap; the trader is
// never allowed to pay more than the stated tolerance.
func ApplySlippageUp(amount *big.Int, bps uint32) *big.Int {
	out := new(big.Int).Mul(amount, big.NewInt(int64(10_000+int64(bps))))
	return out.Div(out, bpsDen)
}
