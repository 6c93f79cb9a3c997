package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

var (
	quoteIn          string
	quoteOut         string
	quoteAmountIn    string
	quoteAmountOut   string
	quoteSlippageBps uint32
	quoteMaxDelaySec int64
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Derive execution-ready swap parameters without sending anything",
	RunE:  runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)

	quoteCmd.Flags().StringVar(&quoteIn, "in", "", "input token address")
	quoteCmd.Flags().StringVar(&quoteOut, "out", "", "output token address")
	quoteCmd.Flags().StringVar(&quoteAmountIn, "amount-in", "", "exact input amount, in token units")
	quoteCmd.Flags().StringVar(&quoteAmountOut, "amount-out", "", "exact output amount, in token units")
	quoteCmd.Flags().Uint32Var(&quoteSlippageBps, "slippage-bps", 0, "slippage tolerance in basis points")
	quoteCmd.Flags().Int64Var(&quoteMaxDelaySec, "max-delay", 0, "seconds until the swap deadline")
	_ = quoteCmd.MarkFlagRequired("in")
	_ = quoteCmd.MarkFlagRequired("out")
}

type quoteOutput struct {
	AmountIn         string `json:"amount_in"`
	AmountOut        string `json:"amount_out"`
	ExpectedAmount   string `json:"expected_amount"`
	ExpectedSlippage string `json:"expected_slippage"`
	Path             struct {
		Input  string `json:"input"`
		Output string `json:"output"`
	} `json:"path"`
	Deadline uint64 `json:"deadline"`
}

func runQuote(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, client, _, cleanup, err := setup(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	intent, err := intentFromFlags(cfg, quoteIn, quoteOut, quoteAmountIn, quoteAmountOut, quoteSlippageBps, quoteMaxDelaySec)
	if err != nil {
		return err
	}
	params, err := client.GetSwapParams(ctx, intent)
	if err != nil {
		return err
	}

	var out quoteOutput
	out.AmountIn = params.AmountIn.String()
	out.AmountOut = params.AmountOut.String()
	out.ExpectedAmount = params.ExpectedAmount.String()
	out.ExpectedSlippage = params.ExpectedSlippage
	out.Path.Input = params.Path[0].Hex()
	out.Path.Output = params.Path[1].Hex()
	out.Deadline = params.Deadline

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
