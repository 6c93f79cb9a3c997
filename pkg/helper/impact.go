package helper

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// priceImpact estimates the relative spot-price movement the trade causes, as
// a decimal percentage string. The spot price is the raw reserve ratio before
// and after applying (amountIn, amountOut); decimal scaling cancels in the
// relative change. The same simulation serves both trade kinds: the input
// reserve grows by the full input amount and the output reserve shrinks by
// the expected output.
//
// Informational only. On-chain amounts never flow through this arithmetic.
func priceImpact(amountIn, amountOut, reserveIn, reserveOut *big.Int) string {
	rIn := decimal.NewFromBigInt(reserveIn, 0)
	rOut := decimal.NewFromBigInt(reserveOut, 0)
	postIn := rIn.Add(decimal.NewFromBigInt(amountIn, 0))
	postOut := rOut.Sub(decimal.NewFromBigInt(amountOut, 0))

	if rIn.Sign() <= 0 || rOut.Sign() <= 0 || postOut.Sign() <= 0 {
		return ""
	}

	pre := rOut.Div(rIn)
	post := postOut.Div(postIn)
	impact := pre.Sub(post).Div(pre).Mul(decimal.NewFromInt(100))
	return impact.Round(6).String()
}
