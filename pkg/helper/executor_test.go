package helper

import (
	"context"
	"encoding/hex"
	"math/big"
	"testing"

	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thegostep/uniswap-v2-helper/internal/chain"
)

func newTestSender(t *testing.T, f *fakeBackend) *chain.Sender {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer, err := chain.NewSigner(hex.EncodeToString(crypto.FromECDSA(key)))
	require.NoError(t, err)
	sender, err := chain.NewSender(context.Background(), f, signer, 0)
	require.NoError(t, err)
	return sender
}

func exactInputIntent(f *fakeBackend, amount string) SwapIntent {
	return SwapIntent{
		InputToken:  f.token0.Hex(),
		OutputToken: f.token1.Hex(),
		Kind:        ExactInput,
		Amount:      amount,
	}
}

func TestSwapTokens_InsufficientBalance(t *testing.T) {
	f := newFakeBackend()
	seedPool(f)
	f.balances[f.token0] = big.NewInt(5_000_000) // holds 5, wants to sell 10
	c := newTestClient(t, f, "")
	sender := newTestSender(t, f)

	_, err := c.SwapTokens(context.Background(), sender, f.token1.Hex(), exactInputIntent(f, "10"))
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	// nothing was submitted
	assert.Empty(t, f.sentTxs())
}

func TestSwapTokens_ApprovesWhenAllowanceShort(t *testing.T) {
	f := newFakeBackend()
	seedPool(f)
	f.balances[f.token0] = big.NewInt(100_000_000)
	c := newTestClient(t, f, "")
	sender := newTestSender(t, f)

	receipt, err := c.SwapTokens(context.Background(), sender, f.token1.Hex(), exactInputIntent(f, "10"))
	require.NoError(t, err)
	require.NotNil(t, receipt)
	assert.Equal(t, gethtypes.ReceiptStatusSuccessful, receipt.Status)

	sent := f.sentTxs()
	require.Len(t, sent, 2)

	// approval first, to the token, for exactly the required amount
	require.NotNil(t, sent[0].To())
	assert.Equal(t, f.token0, *sent[0].To())
	assert.True(t, selectorIs(sent[0].Data(), chain.ERC20ABI, "approve"))
	args, err := chain.ERC20ABI.Methods["approve"].Inputs.Unpack(sent[0].Data()[4:])
	require.NoError(t, err)
	assert.Zero(t, args[1].(*big.Int).Cmp(big.NewInt(10_000_000)))

	// swap second, to the router
	require.NotNil(t, sent[1].To())
	assert.Equal(t, c.Router(), *sent[1].To())
	assert.True(t, selectorIs(sent[1].Data(), chain.RouterABI, "swapExactTokensForTokens"))
}

func TestSwapTokens_SkipsApprovalWhenCovered(t *testing.T) {
	f := newFakeBackend()
	seedPool(f)
	f.balances[f.token0] = big.NewInt(100_000_000)
	f.allowances[f.token0] = big.NewInt(1_000_000_000)
	c := newTestClient(t, f, "")
	sender := newTestSender(t, f)

	_, err := c.SwapTokens(context.Background(), sender, f.token1.Hex(), exactInputIntent(f, "10"))
	require.NoError(t, err)

	sent := f.sentTxs()
	require.Len(t, sent, 1)
	require.NotNil(t, sent[0].To())
	assert.Equal(t, c.Router(), *sent[0].To())
}

func TestSwapTokens_ExactOutputUsesMaximumIn(t *testing.T) {
	f := newFakeBackend()
	seedPool(f)
	// plenty of balance, no allowance
	bal, _ := new(big.Int).SetString("1000000000000", 10)
	f.balances[f.token0] = bal
	c := newTestClient(t, f, "")
	sender := newTestSender(t, f)

	params, err := c.GetSwapParams(context.Background(), SwapIntent{
		InputToken:  f.token0.Hex(),
		OutputToken: f.token1.Hex(),
		Kind:        ExactOutput,
		Amount:      "1",
	})
	require.NoError(t, err)

	_, err = c.SwapTokens(context.Background(), sender, f.token1.Hex(), SwapIntent{
		InputToken:  f.token0.Hex(),
		OutputToken: f.token1.Hex(),
		Kind:        ExactOutput,
		Amount:      "1",
	})
	require.NoError(t, err)

	sent := f.sentTxs()
	require.Len(t, sent, 2)

	// approval covers the slippage-adjusted maximum input
	args, err := chain.ERC20ABI.Methods["approve"].Inputs.Unpack(sent[0].Data()[4:])
	require.NoError(t, err)
	assert.Zero(t, args[1].(*big.Int).Cmp(params.AmountIn))

	assert.True(t, selectorIs(sent[1].Data(), chain.RouterABI, "swapTokensForExactTokens"))
}

func TestSwapTokens_MalformedRecipient(t *testing.T) {
	f := newFakeBackend()
	seedPool(f)
	c := newTestClient(t, f, "")
	sender := newTestSender(t, f)

	_, err := c.SwapTokens(context.Background(), sender, "not-an-address", exactInputIntent(f, "10"))
	assert.ErrorIs(t, err, ErrInvalidIntent)
	assert.Empty(t, f.sentTxs())
}
