// Package helper derives and executes single-hop UniswapV2 swaps: it turns
// "sell/buy N units of token A for token B" into slippage-bounded, deadline
// protected swap parameters and optionally submits the trade.
package helper

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// AmountKind tags which side of the trade is fixed.
type AmountKind int

const (
	// ExactInput fixes the amount sold and solves for the minimum received.
	ExactInput AmountKind = iota
	// ExactOutput fixes the amount bought and solves for the maximum paid.
	ExactOutput
)

func (k AmountKind) String() string {
	if k == ExactOutput {
		return "exactOutput"
	}
	return "exactInput"
}

// Defaults applied when the corresponding intent field is zero.
const (
	DefaultSlippageBps = 100
	DefaultMaxDelay    = 120 * time.Second
)

// SwapIntent is a caller-supplied trade request. Amount is a human-readable
// decimal string denominated in the token the Kind refers to.
type SwapIntent struct {
	InputToken  string
	OutputToken string
	Kind        AmountKind
	Amount      string
	SlippageBps uint32        // 0 selects DefaultSlippageBps; must be below 10000
	MaxDelay    time.Duration // 0 selects DefaultMaxDelay
}

// NewIntent builds a SwapIntent from two optional amount fields, enforcing
// that exactly one of them is set.
func NewIntent(inputToken, outputToken, amountIn, amountOut string) (SwapIntent, error) {
	switch {
	case amountIn != "" && amountOut != "":
		return SwapIntent{}, wrapInvalid("both input and output amounts specified")
	case amountIn == "" && amountOut == "":
		return SwapIntent{}, wrapInvalid("neither input nor output amount specified")
	case amountIn != "":
		return SwapIntent{InputToken: inputToken, OutputToken: outputToken, Kind: ExactInput, Amount: amountIn}, nil
	default:
		return SwapIntent{InputToken: inputToken, OutputToken: outputToken, Kind: ExactOutput, Amount: amountOut}, nil
	}
}

// SwapParams are the derived, execution-ready trade parameters. AmountIn and
// AmountOut are smallest-unit integers; the slippage bound is already applied
// to the non-exact side. ExpectedAmount is the pre-bound quote for that side
// and ExpectedSlippage the estimated price impact as a decimal percentage
// string, both informational.
type SwapParams struct {
	AmountIn         *big.Int
	AmountOut        *big.Int
	ExpectedAmount   *big.Int
	ExpectedSlippage string
	Path             [2]common.Address
	Deadline         uint64
}
