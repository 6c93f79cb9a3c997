package main

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/thegostep/uniswap-v2-helper/internal/chain"
)

var (
	swapIn          string
	swapOut         string
	swapAmountIn    string
	swapAmountOut   string
	swapSlippageBps uint32
	swapMaxDelaySec int64
	swapRecipient   string
)

var swapCmd = &cobra.Command{
	Use:   "swap",
	Short: "Quote and execute a swap from the configured wallet",
	RunE:  runSwap,
}

func init() {
	rootCmd.AddCommand(swapCmd)

	swapCmd.Flags().StringVar(&swapIn, "in", "", "input token address")
	swapCmd.Flags().StringVar(&swapOut, "out", "", "output token address")
	swapCmd.Flags().StringVar(&swapAmountIn, "amount-in", "", "exact input amount, in token units")
	swapCmd.Flags().StringVar(&swapAmountOut, "amount-out", "", "exact output amount, in token units")
	swapCmd.Flags().Uint32Var(&swapSlippageBps, "slippage-bps", 0, "slippage tolerance in basis points")
	swapCmd.Flags().Int64Var(&swapMaxDelaySec, "max-delay", 0, "seconds until the swap deadline")
	swapCmd.Flags().StringVar(&swapRecipient, "recipient", "", "address receiving the output tokens (defaults to the wallet)")
	_ = swapCmd.MarkFlagRequired("in")
	_ = swapCmd.MarkFlagRequired("out")
}

type swapOutput struct {
	TxHash      string `json:"tx_hash"`
	BlockNumber string `json:"block_number"`
	GasUsed     uint64 `json:"gas_used"`
	Recipient   string `json:"recipient"`
}

func runSwap(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, client, logger, cleanup, err := setup(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if cfg.Chain.WalletPK == "" {
		return errors.New("no wallet key configured (set WALLET_PK or chain.wallet_pk)")
	}
	signer, err := chain.NewSigner(cfg.Chain.WalletPK)
	if err != nil {
		return err
	}
	sender, err := chain.NewSender(ctx, client.Backend(), signer, cfg.Chain.GasLimitSwap)
	if err != nil {
		return err
	}

	recipient := swapRecipient
	if recipient == "" {
		recipient = signer.Address().Hex()
	}

	intent, err := intentFromFlags(cfg, swapIn, swapOut, swapAmountIn, swapAmountOut, swapSlippageBps, swapMaxDelaySec)
	if err != nil {
		return err
	}
	receipt, err := client.SwapTokens(ctx, sender, recipient, intent)
	if err != nil {
		return err
	}
	logger.Info("swap confirmed",
		zap.String("tx", receipt.TxHash.Hex()),
		zap.Uint64("gas_used", receipt.GasUsed),
	)

	out := swapOutput{
		TxHash:      receipt.TxHash.Hex(),
		BlockNumber: receipt.BlockNumber.String(),
		GasUsed:     receipt.GasUsed,
		Recipient:   recipient,
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
