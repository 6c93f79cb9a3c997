package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Network holds the protocol contract addresses for one chain. Router and
// factory are UniswapV2 deployments; multicall is optional and enables
// single-call pair reads.
type Network struct {
	Router    string `yaml:"router"`
	Factory   string `yaml:"factory"`
	Multicall string `yaml:"multicall"`
}

type Config struct {
	LogLevel string `yaml:"log_level"`

	Chain struct {
		RPCHTTP      string `yaml:"rpc_http"`
		WalletPK     string `yaml:"wallet_pk"`
		GasLimitSwap uint64 `yaml:"gas_limit_swap"`
	} `yaml:"chain"`

	Trade struct {
		SlippageBps     uint32 `yaml:"slippage_bps"`
		DeadlineSeconds int64  `yaml:"deadline_seconds"`
	} `yaml:"trade"`

	Metrics struct {
		Addr string `yaml:"addr"`
	} `yaml:"metrics"`

	API struct {
		Addr string `yaml:"addr"`
	} `yaml:"api"`

	Redis struct {
		Addr string `yaml:"addr"`
	} `yaml:"redis"`

	// Networks maps chain ID to protocol addresses. Entries merge over the
	// built-in defaults.
	Networks map[uint64]Network `yaml:"networks"`
}

// DefaultNetworks returns the built-in protocol deployments.
func DefaultNetworks() map[uint64]Network {
	return map[uint64]Network{
		// Ethereum mainnet
		1: {
			Router:    "0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D",
			Factory:   "0x5C69bEe701ef814a2B6a3EDD4B1652CB9cc5aA6f",
			Multicall: "0xeefBa1e63905eF1D7ACbA5a8513c70307C1cE441",
		},
	}
}

// Load reads the yaml config at path, applies defaults and environment
// overrides (ETH_RPC_URL, WALLET_PK). A missing file is not an error; env
// configuration alone is enough for the CLI.
func Load(path string) (*Config, error) {
	var c Config
	if b, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	if v := os.Getenv("ETH_RPC_URL"); v != "" {
		c.Chain.RPCHTTP = v
	}
	if v := os.Getenv("WALLET_PK"); v != "" {
		c.Chain.WalletPK = v
	}

	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Trade.SlippageBps == 0 {
		c.Trade.SlippageBps = 100
	}
	if c.Trade.DeadlineSeconds == 0 {
		c.Trade.DeadlineSeconds = 120
	}
	if c.Chain.GasLimitSwap == 0 {
		c.Chain.GasLimitSwap = 400_000
	}
	if c.API.Addr == "" {
		c.API.Addr = ":1337"
	}

	nets := DefaultNetworks()
	for id, n := range c.Networks {
		merged := nets[id]
		if n.Router != "" {
			merged.Router = n.Router
		}
		if n.Factory != "" {
			merged.Factory = n.Factory
		}
		if n.Multicall != "" {
			merged.Multicall = n.Multicall
		}
		nets[id] = merged
	}
	c.Networks = nets

	return &c, nil
}

// Network returns the protocol addresses for chainID.
func (c *Config) Network(chainID uint64) (Network, error) {
	n, ok := c.Networks[chainID]
	if !ok || n.Router == "" || n.Factory == "" {
		return Network{}, fmt.Errorf("no router/factory configured for chain %d", chainID)
	}
	return n, nil
}

// Deadline returns the settlement delay as a duration.
func (c *Config) Deadline() time.Duration {
	return time.Duration(c.Trade.DeadlineSeconds) * time.Second
}
