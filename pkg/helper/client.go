package helper

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/thegostep/uniswap-v2-helper/internal/chain"
	"github.com/thegostep/uniswap-v2-helper/internal/config"
	"github.com/thegostep/uniswap-v2-helper/internal/multicall"
	"github.com/thegostep/uniswap-v2-helper/internal/tokencache"
)

// Client quotes and executes single-hop swaps on one network. It holds no
// pool state; reserves are read fresh on every quote.
type Client struct {
	backend chain.Backend
	chainID uint64
	router  common.Address
	factory common.Address
	mc      *multicall.Client
	cache   *tokencache.Cache
	log     *zap.Logger
}

// New resolves the backend's chain ID and binds the router/factory addresses
// configured for it.
func New(ctx context.Context, backend chain.Backend, cfg *config.Config, log *zap.Logger) (*Client, error) {
	id, err := backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("chain id: %w", err)
	}
	net, err := cfg.Network(id.Uint64())
	if err != nil {
		return nil, err
	}
	if !common.IsHexAddress(net.Router) || !common.IsHexAddress(net.Factory) {
		return nil, fmt.Errorf("malformed router/factory address for chain %d", id.Uint64())
	}

	c := &Client{
		backend: backend,
		chainID: id.Uint64(),
		router:  common.HexToAddress(net.Router),
		factory: common.HexToAddress(net.Factory),
		log:     log,
	}
	if net.Multicall != "" && common.IsHexAddress(net.Multicall) {
		mc, err := multicall.New(backend, common.HexToAddress(net.Multicall))
		if err != nil {
			return nil, err
		}
		c.mc = mc
	}
	return c, nil
}

// Backend returns the chain backend the client reads from.
func (c *Client) Backend() chain.Backend { return c.backend }

// Router returns the router address swaps are sent to.
func (c *Client) Router() common.Address { return c.router }

// ChainID returns the network the client is bound to.
func (c *Client) ChainID() uint64 { return c.chainID }

// UseTokenCache attaches a decimals cache. Safe to skip; lookups then always
// hit the chain.
func (c *Client) UseTokenCache(cache *tokencache.Cache) { c.cache = cache }

// normalizeTokens checksums and validates the intent's token pair.
func normalizeTokens(intent SwapIntent) (in, out common.Address, err error) {
	if !common.IsHexAddress(intent.InputToken) {
		return common.Address{}, common.Address{}, wrapInvalid("malformed input token address %q", intent.InputToken)
	}
	if !common.IsHexAddress(intent.OutputToken) {
		return common.Address{}, common.Address{}, wrapInvalid("malformed output token address %q", intent.OutputToken)
	}
	in = common.HexToAddress(intent.InputToken)
	out = common.HexToAddress(intent.OutputToken)
	if in == out {
		return common.Address{}, common.Address{}, wrapInvalid("input and output token are the same")
	}
	return in, out, nil
}
