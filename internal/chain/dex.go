package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
)

// GetPair asks the factory for the pair contract of tokenA/tokenB. The zero
// address means the pair has never been created.
func GetPair(ctx context.Context, b Backend, factory, tokenA, tokenB common.Address) (common.Address, error) {
	out, err := contractCall(ctx, b, factory, FactoryABI, nil, "getPair", tokenA, tokenB)
	if err != nil {
		return common.Address{}, err
	}
	if len(out) == 0 {
		return common.Address{}, errors.New("getPair: empty result")
	}
	addr, ok := out[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("unexpected getPair type %T", out[0])
	}
	return addr, nil
}

// Token0 reads the pair's token0 at the given block (nil for latest).
func Token0(ctx context.Context, b Backend, pair common.Address, blockNumber *big.Int) (common.Address, error) {
	data, _ := PairABI.Pack("token0")
	raw, err := b.CallContract(ctx, ethereum.CallMsg{To: &pair, Data: data}, blockNumber)
	if err != nil {
		return common.Address{}, fmt.Errorf("call token0 on %s: %w", pair.Hex(), err)
	}
	return UnpackToken0(raw)
}

// UnpackToken0 decodes a token0() return value.
func UnpackToken0(raw []byte) (common.Address, error) {
	out, err := PairABI.Unpack("token0", raw)
	if err != nil {
		return common.Address{}, fmt.Errorf("unpack token0: %w", err)
	}
	if len(out) == 0 {
		return common.Address{}, errors.New("token0: empty result")
	}
	addr, ok := out[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("unexpected token0 type %T", out[0])
	}
	return addr, nil
}

// Reserves reads the pair's getReserves at the given block (nil for latest).
func Reserves(ctx context.Context, b Backend, pair common.Address, blockNumber *big.Int) (reserve0, reserve1 *big.Int, err error) {
	data, _ := PairABI.Pack("getReserves")
	raw, err := b.CallContract(ctx, ethereum.CallMsg{To: &pair, Data: data}, blockNumber)
	if err != nil {
		return nil, nil, fmt.Errorf("call getReserves on %s: %w", pair.Hex(), err)
	}
	return UnpackReserves(raw)
}

// UnpackReserves decodes a getReserves() return value.
func UnpackReserves(raw []byte) (reserve0, reserve1 *big.Int, err error) {
	out, err := PairABI.Unpack("getReserves", raw)
	if err != nil {
		return nil, nil, fmt.Errorf("unpack getReserves: %w", err)
	}
	if len(out) < 2 {
		return nil, nil, errors.New("getReserves: short result")
	}
	r0, ok0 := out[0].(*big.Int)
	r1, ok1 := out[1].(*big.Int)
	if !ok0 || !ok1 {
		return nil, nil, fmt.Errorf("unexpected getReserves types %T %T", out[0], out[1])
	}
	return r0, r1, nil
}

// PackSwapExactTokensForTokens returns the router calldata for the
// exact-input swap variant.
func PackSwapExactTokensForTokens(amountIn, amountOutMin *big.Int, path []common.Address, to common.Address, deadline *big.Int) ([]byte, error) {
	return RouterABI.Pack("swapExactTokensForTokens", amountIn, amountOutMin, path, to, deadline)
}

// PackSwapTokensForExactTokens returns the router calldata for the
// exact-output swap variant.
func PackSwapTokensForExactTokens(amountOut, amountInMax *big.Int, path []common.Address, to common.Address, deadline *big.Int) ([]byte, error) {
	return RouterABI.Pack("swapTokensForExactTokens", amountOut, amountInMax, path, to, deadline)
}
