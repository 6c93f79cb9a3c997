package helper

import (
	"bytes"
	"context"
	"fmt"
	"math/big"
	"sync"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/thegostep/uniswap-v2-helper/internal/chain"
)

// fakeBackend is an in-memory chain: one pair, two tokens, balances and
// allowances for a single owner. Reads are answered by ABI dispatch on the
// call target and selector; writes are recorded in order and confirmed
// immediately.
type fakeBackend struct {
	chainID *big.Int
	header  *gethtypes.Header

	factory common.Address
	pair    common.Address
	token0  common.Address
	token1  common.Address
	r0, r1  *big.Int

	decimals   map[common.Address]uint8
	balances   map[common.Address]*big.Int // by token, for owner
	allowances map[common.Address]*big.Int // by token, for the single owner/spender pair

	// aggregate, when set, answers any call addressed to multicallAddr
	multicallAddr common.Address
	aggregate     func() ([]byte, error)

	mu       sync.Mutex
	sent     []*gethtypes.Transaction
	receipts map[common.Hash]*gethtypes.Receipt
	reads    int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		chainID: big.NewInt(1),
		header: &gethtypes.Header{
			Number:  big.NewInt(19_000_000),
			Time:    1_700_000_000,
			BaseFee: big.NewInt(10_000_000_000),
		},
		factory:    common.HexToAddress("0x00000000000000000000000000000000000000fa"),
		pair:       common.HexToAddress("0x0000000000000000000000000000000000000abc"),
		token0:     common.HexToAddress("0x00000000000000000000000000000000000000aa"),
		token1:     common.HexToAddress("0x00000000000000000000000000000000000000bb"),
		r0:         big.NewInt(0),
		r1:         big.NewInt(0),
		decimals:   map[common.Address]uint8{},
		balances:   map[common.Address]*big.Int{},
		allowances: map[common.Address]*big.Int{},
		receipts:   map[common.Hash]*gethtypes.Receipt{},
	}
}

func (f *fakeBackend) ChainID(context.Context) (*big.Int, error) { return f.chainID, nil }

func (f *fakeBackend) HeaderByNumber(context.Context, *big.Int) (*gethtypes.Header, error) {
	return f.header, nil
}

func (f *fakeBackend) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	f.mu.Lock()
	f.reads++
	f.mu.Unlock()

	if msg.To == nil {
		return nil, fmt.Errorf("missing call target")
	}
	to := *msg.To
	data := msg.Data

	if f.aggregate != nil && to == f.multicallAddr {
		return f.aggregate()
	}

	switch {
	case to == f.factory && selectorIs(data, chain.FactoryABI, "getPair"):
		args, err := chain.FactoryABI.Methods["getPair"].Inputs.Unpack(data[4:])
		if err != nil {
			return nil, err
		}
		a, b := args[0].(common.Address), args[1].(common.Address)
		pair := common.Address{}
		if (a == f.token0 && b == f.token1) || (a == f.token1 && b == f.token0) {
			pair = f.pair
		}
		return chain.FactoryABI.Methods["getPair"].Outputs.Pack(pair)

	case to == f.pair && selectorIs(data, chain.PairABI, "token0"):
		return chain.PairABI.Methods["token0"].Outputs.Pack(f.token0)

	case to == f.pair && selectorIs(data, chain.PairABI, "getReserves"):
		return chain.PairABI.Methods["getReserves"].Outputs.Pack(f.r0, f.r1, uint32(0))

	case selectorIs(data, chain.ERC20ABI, "decimals"):
		d, ok := f.decimals[to]
		if !ok {
			return nil, fmt.Errorf("no decimals at %s", to.Hex())
		}
		return chain.ERC20ABI.Methods["decimals"].Outputs.Pack(d)

	case selectorIs(data, chain.ERC20ABI, "balanceOf"):
		bal := f.balances[to]
		if bal == nil {
			bal = big.NewInt(0)
		}
		return chain.ERC20ABI.Methods["balanceOf"].Outputs.Pack(bal)

	case selectorIs(data, chain.ERC20ABI, "allowance"):
		al := f.allowances[to]
		if al == nil {
			al = big.NewInt(0)
		}
		return chain.ERC20ABI.Methods["allowance"].Outputs.Pack(al)
	}
	return nil, fmt.Errorf("unexpected call to %s", to.Hex())
}

func (f *fakeBackend) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return uint64(len(f.sent)), nil
}

func (f *fakeBackend) SuggestGasTipCap(context.Context) (*big.Int, error) {
	return big.NewInt(1_000_000_000), nil
}

func (f *fakeBackend) SuggestGasPrice(context.Context) (*big.Int, error) {
	return big.NewInt(10_000_000_000), nil
}

func (f *fakeBackend) EstimateGas(context.Context, ethereum.CallMsg) (uint64, error) {
	return 200_000, nil
}

func (f *fakeBackend) SendTransaction(_ context.Context, tx *gethtypes.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data := tx.Data()
	if tx.To() != nil && selectorIs(data, chain.ERC20ABI, "approve") {
		args, err := chain.ERC20ABI.Methods["approve"].Inputs.Unpack(data[4:])
		if err != nil {
			return err
		}
		f.allowances[*tx.To()] = args[1].(*big.Int)
	}

	f.sent = append(f.sent, tx)
	f.receipts[tx.Hash()] = &gethtypes.Receipt{
		Status: gethtypes.ReceiptStatusSuccessful,
		TxHash: tx.Hash(),
	}
	return nil
}

func (f *fakeBackend) TransactionReceipt(_ context.Context, txHash common.Hash) (*gethtypes.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.receipts[txHash]; ok {
		return r, nil
	}
	return nil, ethereum.NotFound
}

func (f *fakeBackend) sentTxs() []*gethtypes.Transaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*gethtypes.Transaction, len(f.sent))
	copy(out, f.sent)
	return out
}

func selectorIs(data []byte, a abi.ABI, method string) bool {
	m, ok := a.Methods[method]
	if !ok || len(data) < 4 {
		return false
	}
	return bytes.Equal(data[:4], m.ID)
}
