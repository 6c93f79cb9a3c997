package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
)

// Decimals reads the token's decimals(). Tokens without the accessor fail the
// call; no default is assumed.
func Decimals(ctx context.Context, b Backend, token common.Address) (uint8, error) {
	data, _ := ERC20ABI.Pack("decimals")
	raw, err := b.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data}, nil)
	if err != nil {
		return 0, fmt.Errorf("call decimals on %s: %w", token.Hex(), err)
	}
	return UnpackDecimals(raw)
}

// UnpackDecimals decodes a decimals() return value. Some tokens declare the
// output as uint256 instead of uint8.
func UnpackDecimals(raw []byte) (uint8, error) {
	out, err := ERC20ABI.Unpack("decimals", raw)
	if err != nil {
		return 0, fmt.Errorf("unpack decimals: %w", err)
	}
	if len(out) == 0 {
		return 0, errors.New("decimals: empty result")
	}
	switch v := out[0].(type) {
	case uint8:
		return v, nil
	case *big.Int:
		if !v.IsUint64() || v.Uint64() > 255 {
			return 0, fmt.Errorf("decimals out of range: %s", v)
		}
		return uint8(v.Uint64()), nil
	default:
		return 0, fmt.Errorf("unexpected decimals type %T", out[0])
	}
}

// BalanceOf reads the token balance of owner.
func BalanceOf(ctx context.Context, b Backend, token, owner common.Address) (*big.Int, error) {
	out, err := contractCall(ctx, b, token, ERC20ABI, nil, "balanceOf", owner)
	if err != nil {
		return nil, err
	}
	return asBigInt(out, "balanceOf")
}

// Allowance reads the amount owner has authorized spender to transfer.
func Allowance(ctx context.Context, b Backend, token, owner, spender common.Address) (*big.Int, error) {
	out, err := contractCall(ctx, b, token, ERC20ABI, nil, "allowance", owner, spender)
	if err != nil {
		return nil, err
	}
	return asBigInt(out, "allowance")
}

// PackApprove returns the calldata for approve(spender, amount).
func PackApprove(spender common.Address, amount *big.Int) ([]byte, error) {
	return ERC20ABI.Pack("approve", spender, amount)
}

func asBigInt(out []interface{}, method string) (*big.Int, error) {
	if len(out) == 0 {
		return nil, fmt.Errorf("%s: empty result", method)
	}
	v, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected %s type %T", method, out[0])
	}
	return v, nil
}
