// Package multicall batches read-only contract calls through the Multicall
// aggregate entry point so every result reflects the same block.
package multicall

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/thegostep/uniswap-v2-helper/internal/chain"
)

const multicallABI = `[
{
    "constant": false,
    "inputs": [
        {
            "components": [
                {
                    "name": "target",
                    "type": "address"
                },
                {
                    "name": "callData",
                    "type": "bytes"
                }
            ],
            "name": "calls",
            "type": "tuple[]"
        }
    ],
    "name": "aggregate",
    "outputs": [
        {
            "name": "blockNumber",
            "type": "uint256"
        },
        {
            "name": "returnData",
            "type": "bytes[]"
        }
    ],
    "payable": false,
    "stateMutability": "nonpayable",
    "type": "function"
}
]`

type Call struct {
	Target   common.Address
	CallData []byte
}

type Client struct {
	b    chain.Backend
	addr common.Address
	abi  abi.ABI
}

func New(b chain.Backend, multicallAddr common.Address) (*Client, error) {
	parsedABI, err := abi.JSON(strings.NewReader(multicallABI))
	if err != nil {
		return nil, fmt.Errorf("bad abi: %w", err)
	}
	return &Client{b: b, addr: multicallAddr, abi: parsedABI}, nil
}

// Aggregate executes all calls in one eth_call and returns the block number
// the results were read at alongside the raw return data, in call order.
func (c *Client) Aggregate(ctx context.Context, calls []Call) (*big.Int, [][]byte, error) {
	payload, err := c.abi.Pack("aggregate", calls)
	if err != nil {
		return nil, nil, fmt.Errorf("pack aggregate: %w", err)
	}

	res, err := c.b.CallContract(ctx, ethereum.CallMsg{To: &c.addr, Data: payload}, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("call aggregate: %w", err)
	}

	type aggregateResult struct {
		BlockNumber *big.Int
		ReturnData  [][]byte
	}
	var aggRes aggregateResult
	if err := c.abi.UnpackIntoInterface(&aggRes, "aggregate", res); err != nil {
		return nil, nil, fmt.Errorf("unpack aggregate: %w", err)
	}
	if len(aggRes.ReturnData) != len(calls) {
		return nil, nil, fmt.Errorf("aggregate returned %d results for %d calls", len(aggRes.ReturnData), len(calls))
	}
	return aggRes.BlockNumber, aggRes.ReturnData, nil
}
