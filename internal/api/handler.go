// Package api exposes the quote engine over HTTP.
package api

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/thegostep/uniswap-v2-helper/pkg/helper"
)

// Quoter derives swap parameters from an intent. *helper.Client satisfies it.
type Quoter interface {
	GetSwapParams(ctx context.Context, intent helper.SwapIntent) (helper.SwapParams, error)
}

type QuoteHandler struct {
	log    *zap.Logger
	quoter Quoter
}

func NewQuoteHandler(log *zap.Logger, quoter Quoter) *QuoteHandler {
	return &QuoteHandler{log: log, quoter: quoter}
}

type QuoteRequest struct {
	Input       string `query:"input" json:"input"`
	Output      string `query:"output" json:"output"`
	AmountIn    string `query:"amount_in" json:"amount_in"`
	AmountOut   string `query:"amount_out" json:"amount_out"`
	SlippageBps uint32 `query:"slippage_bps" json:"slippage_bps"`
	MaxDelaySec uint32 `query:"max_delay_sec" json:"max_delay_sec"`
}

type QuoteResponse struct {
	AmountIn         string    `json:"amount_in"`
	AmountOut        string    `json:"amount_out"`
	ExpectedAmount   string    `json:"expected_amount"`
	ExpectedSlippage string    `json:"expected_slippage"`
	Path             [2]string `json:"path"`
	Deadline         uint64    `json:"deadline"`
}

func (h *QuoteHandler) Handle() fiber.Handler {
	return func(c fiber.Ctx) error {
		var req QuoteRequest
		if err := c.Bind().Query(&req); err != nil {
			h.log.Debug("bad query parameters", zap.Error(err))
			return ErrInvalidQueryParameters
		}

		intent, err := helper.NewIntent(req.Input, req.Output, req.AmountIn, req.AmountOut)
		if err != nil {
			return NewBadIntent(err)
		}
		intent.SlippageBps = req.SlippageBps
		if req.MaxDelaySec > 0 {
			intent.MaxDelay = time.Duration(req.MaxDelaySec) * time.Second
		}

		params, err := h.quoter.GetSwapParams(context.Background(), intent)
		if err != nil {
			return h.quoteError(err)
		}

		return c.JSON(QuoteResponse{
			AmountIn:         params.AmountIn.String(),
			AmountOut:        params.AmountOut.String(),
			ExpectedAmount:   params.ExpectedAmount.String(),
			ExpectedSlippage: params.ExpectedSlippage,
			Path:             [2]string{params.Path[0].Hex(), params.Path[1].Hex()},
			Deadline:         params.Deadline,
		})
	}
}

func (h *QuoteHandler) quoteError(err error) error {
	switch {
	case errors.Is(err, helper.ErrInvalidIntent):
		return NewBadIntent(err)
	case errors.Is(err, helper.ErrPoolUnavailable):
		return NewPoolUnavailable(err)
	default:
		h.log.Error("quote failed", zap.Error(err))
		return ErrQuoteFailedInternal
	}
}
