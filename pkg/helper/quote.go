package helper

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/thegostep/uniswap-v2-helper/internal/chain"
	"github.com/thegostep/uniswap-v2-helper/internal/metrics"
	"github.com/thegostep/uniswap-v2-helper/internal/multicall"
	"github.com/thegostep/uniswap-v2-helper/pkg/uniswapv2"
)

// pairState is the pool snapshot a quote is derived from, read at one point
// in time.
type pairState struct {
	token0 common.Address
	r0, r1 *big.Int
	decIn  uint8
	decOut uint8
}

// GetSwapParams derives execution-ready swap parameters for the intent. It
// performs only read-only chain queries and caches nothing across calls.
func (c *Client) GetSwapParams(ctx context.Context, intent SwapIntent) (SwapParams, error) {
	start := time.Now()
	params, err := c.deriveSwapParams(ctx, intent)
	if err != nil {
		metrics.QuoteErrors.Inc()
		return SwapParams{}, err
	}
	metrics.Quotes.Inc()
	metrics.QuoteLatency.Observe(time.Since(start).Seconds())
	return params, nil
}

func (c *Client) deriveSwapParams(ctx context.Context, intent SwapIntent) (SwapParams, error) {
	in, out, err := normalizeTokens(intent)
	if err != nil {
		return SwapParams{}, err
	}

	slippageBps := intent.SlippageBps
	if slippageBps == 0 {
		slippageBps = DefaultSlippageBps
	}
	if slippageBps >= 10_000 {
		return SwapParams{}, wrapInvalid("slippage %d bps must be below 10000", slippageBps)
	}
	maxDelay := intent.MaxDelay
	if maxDelay <= 0 {
		maxDelay = DefaultMaxDelay
	}

	pair, err := chain.GetPair(ctx, c.backend, c.factory, in, out)
	if err != nil {
		return SwapParams{}, err
	}
	if pair == (common.Address{}) {
		return SwapParams{}, wrapUnavailable("pair %s/%s does not exist", in.Hex(), out.Hex())
	}

	header, err := c.backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return SwapParams{}, fmt.Errorf("latest header: %w", err)
	}

	state, err := c.readPairState(ctx, pair, in, out, header.Number)
	if err != nil {
		return SwapParams{}, err
	}

	var reserveIn, reserveOut *big.Int
	switch state.token0 {
	case in:
		reserveIn, reserveOut = state.r0, state.r1
	case out:
		reserveIn, reserveOut = state.r1, state.r0
	default:
		return SwapParams{}, wrapUnavailable("pair %s does not hold %s/%s", pair.Hex(), in.Hex(), out.Hex())
	}
	if reserveIn.Sign() == 0 || reserveOut.Sign() == 0 {
		return SwapParams{}, wrapUnavailable("pair %s has empty reserves", pair.Hex())
	}

	exactDecimals := state.decIn
	if intent.Kind == ExactOutput {
		exactDecimals = state.decOut
	}
	amount, err := parseAmount(intent.Amount, exactDecimals)
	if err != nil {
		return SwapParams{}, err
	}

	// sub-second delays round up so the deadline stays strictly future
	delaySec := uint64((maxDelay + time.Second - 1) / time.Second)
	params := SwapParams{
		Path:     [2]common.Address{in, out},
		Deadline: header.Time + delaySec,
	}

	switch intent.Kind {
	case ExactInput:
		expected, err := uniswapv2.GetAmountOut(amount, reserveIn, reserveOut)
		if err != nil {
			return SwapParams{}, quoteError(err)
		}
		params.AmountIn = amount
		params.AmountOut = uniswapv2.ApplySlippageDown(expected, slippageBps)
		params.ExpectedAmount = expected
		params.ExpectedSlippage = priceImpact(amount, expected, reserveIn, reserveOut)
	case ExactOutput:
		expected, err := uniswapv2.GetAmountIn(amount, reserveIn, reserveOut)
		if err != nil {
			return SwapParams{}, quoteError(err)
		}
		params.AmountIn = uniswapv2.ApplySlippageUp(expected, slippageBps)
		params.AmountOut = amount
		params.ExpectedAmount = expected
		params.ExpectedSlippage = priceImpact(expected, amount, reserveIn, reserveOut)
	default:
		return SwapParams{}, wrapInvalid("unknown amount kind %d", intent.Kind)
	}

	c.log.Debug("derived swap params",
		zap.String("kind", intent.Kind.String()),
		zap.String("amount_in", params.AmountIn.String()),
		zap.String("amount_out", params.AmountOut.String()),
		zap.String("expected", params.ExpectedAmount.String()),
		zap.String("impact_pct", params.ExpectedSlippage),
		zap.Uint64("deadline", params.Deadline),
	)
	return params, nil
}

// quoteError maps pool-math failures onto the public taxonomy: a zero or
// drained reserve is a pool problem, not a caller mistake.
func quoteError(err error) error {
	if errors.Is(err, uniswapv2.ErrInsufficientLiquidity) {
		return wrapUnavailable("%s", err)
	}
	return wrapInvalid("%s", err)
}

// readPairState fetches token0, reserves and both token decimals. With a
// multicall contract configured the uncached reads land in a single eth_call;
// otherwise they are pinned to blockNumber so the snapshot stays consistent.
func (c *Client) readPairState(ctx context.Context, pair, in, out common.Address, blockNumber *big.Int) (*pairState, error) {
	state := &pairState{}

	decIn, haveIn := c.cache.Decimals(ctx, c.chainID, in)
	decOut, haveOut := c.cache.Decimals(ctx, c.chainID, out)
	state.decIn, state.decOut = decIn, decOut

	if c.mc != nil {
		if err := c.readPairStateBatched(ctx, state, pair, in, out, haveIn, haveOut); err != nil {
			return nil, err
		}
	} else {
		var err error
		if state.token0, err = chain.Token0(ctx, c.backend, pair, blockNumber); err != nil {
			return nil, err
		}
		if state.r0, state.r1, err = chain.Reserves(ctx, c.backend, pair, blockNumber); err != nil {
			return nil, err
		}
		if !haveIn {
			if state.decIn, err = chain.Decimals(ctx, c.backend, in); err != nil {
				return nil, err
			}
		}
		if !haveOut {
			if state.decOut, err = chain.Decimals(ctx, c.backend, out); err != nil {
				return nil, err
			}
		}
	}

	if !haveIn {
		c.cache.SetDecimals(ctx, c.chainID, in, state.decIn)
	}
	if !haveOut {
		c.cache.SetDecimals(ctx, c.chainID, out, state.decOut)
	}
	return state, nil
}

func (c *Client) readPairStateBatched(ctx context.Context, state *pairState, pair, in, out common.Address, haveIn, haveOut bool) error {
	token0Data, _ := chain.PairABI.Pack("token0")
	reservesData, _ := chain.PairABI.Pack("getReserves")
	decimalsData, _ := chain.ERC20ABI.Pack("decimals")

	calls := []multicall.Call{
		{Target: pair, CallData: token0Data},
		{Target: pair, CallData: reservesData},
	}
	decInIdx, decOutIdx := -1, -1
	if !haveIn {
		decInIdx = len(calls)
		calls = append(calls, multicall.Call{Target: in, CallData: decimalsData})
	}
	if !haveOut {
		decOutIdx = len(calls)
		calls = append(calls, multicall.Call{Target: out, CallData: decimalsData})
	}

	_, results, err := c.mc.Aggregate(ctx, calls)
	if err != nil {
		return err
	}

	if state.token0, err = chain.UnpackToken0(results[0]); err != nil {
		return err
	}
	if state.r0, state.r1, err = chain.UnpackReserves(results[1]); err != nil {
		return err
	}
	if decInIdx >= 0 {
		if state.decIn, err = chain.UnpackDecimals(results[decInIdx]); err != nil {
			return err
		}
	}
	if decOutIdx >= 0 {
		if state.decOut, err = chain.UnpackDecimals(results[decOutIdx]); err != nil {
			return err
		}
	}
	return nil
}
