package helper

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/thegostep/uniswap-v2-helper/internal/chain"
	"github.com/thegostep/uniswap-v2-helper/internal/metrics"
)

// SwapTokens derives parameters for the intent and executes the swap from the
// sender's account: balance check, allowance check, approval if and only if
// the allowance falls short (confirmed before proceeding), then the swap
// itself. The returned receipt is the confirmed swap transaction.
//
// Nothing is retried. If the approval confirms and the swap then fails, the
// raised allowance remains on-chain; the error says so.
func (c *Client) SwapTokens(ctx context.Context, sender *chain.Sender, recipient string, intent SwapIntent) (*gethtypes.Receipt, error) {
	receipt, err := c.swapTokens(ctx, sender, recipient, intent)
	if err != nil {
		metrics.SwapErrors.Inc()
		return nil, err
	}
	metrics.Swaps.Inc()
	return receipt, nil
}

func (c *Client) swapTokens(ctx context.Context, sender *chain.Sender, recipient string, intent SwapIntent) (*gethtypes.Receipt, error) {
	if !common.IsHexAddress(recipient) {
		return nil, wrapInvalid("malformed recipient address %q", recipient)
	}
	to := common.HexToAddress(recipient)

	params, err := c.GetSwapParams(ctx, intent)
	if err != nil {
		return nil, err
	}

	owner := sender.From()
	inputToken := params.Path[0]
	// required covers the worst case: the exact amount for exact-input, the
	// slippage-adjusted maximum for exact-output.
	required := params.AmountIn

	balance, err := chain.BalanceOf(ctx, c.backend, inputToken, owner)
	if err != nil {
		return nil, err
	}
	if balance.Cmp(required) < 0 {
		return nil, fmt.Errorf("%w: have %s, need %s of %s",
			ErrInsufficientBalance, balance, required, inputToken.Hex())
	}

	allowance, err := chain.Allowance(ctx, c.backend, inputToken, owner, c.router)
	if err != nil {
		return nil, err
	}
	if allowance.Cmp(required) < 0 {
		if err := c.approve(ctx, sender, inputToken, required); err != nil {
			return nil, err
		}
	}

	data, err := c.packSwap(intent.Kind, params, to)
	if err != nil {
		return nil, err
	}
	tx, err := sender.Send(ctx, c.router, data)
	if err != nil {
		return nil, err
	}
	c.log.Info("swap submitted",
		zap.String("tx", tx.Hash().Hex()),
		zap.String("kind", intent.Kind.String()),
		zap.String("recipient", to.Hex()),
	)

	receipt, err := sender.WaitMined(ctx, tx)
	if err != nil {
		return nil, err
	}
	if receipt.Status != gethtypes.ReceiptStatusSuccessful {
		// the approval, if one was made, has already committed
		return nil, fmt.Errorf("swap %s reverted on-chain (any prior approval remains in effect)", tx.Hash().Hex())
	}
	return receipt, nil
}

// approve submits approve(router, amount) and blocks until it confirms. The
// swap must never be in flight before its allowance is final.
func (c *Client) approve(ctx context.Context, sender *chain.Sender, token common.Address, amount *big.Int) error {
	data, err := chain.PackApprove(c.router, amount)
	if err != nil {
		return err
	}
	tx, err := sender.Send(ctx, token, data)
	if err != nil {
		return fmt.Errorf("submit approval: %w", err)
	}
	metrics.Approvals.Inc()
	c.log.Info("approval submitted",
		zap.String("tx", tx.Hash().Hex()),
		zap.String("token", token.Hex()),
		zap.String("amount", amount.String()),
	)

	receipt, err := sender.WaitMined(ctx, tx)
	if err != nil {
		return fmt.Errorf("wait approval: %w", err)
	}
	if receipt.Status != gethtypes.ReceiptStatusSuccessful {
		return fmt.Errorf("approval %s reverted on-chain", tx.Hash().Hex())
	}
	return nil
}

func (c *Client) packSwap(kind AmountKind, params SwapParams, to common.Address) ([]byte, error) {
	deadline := new(big.Int).SetUint64(params.Deadline)
	if kind == ExactOutput {
		return chain.PackSwapTokensForExactTokens(params.AmountOut, params.AmountIn, params.Path[:], to, deadline)
	}
	return chain.PackSwapExactTokensForTokens(params.AmountIn, params.AmountOut, params.Path[:], to, deadline)
}
