package main

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/thegostep/uniswap-v2-helper/internal/chain"
	"github.com/thegostep/uniswap-v2-helper/internal/config"
	"github.com/thegostep/uniswap-v2-helper/internal/tokencache"
	"github.com/thegostep/uniswap-v2-helper/pkg/helper"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "swap-helper",
	Short: "Quote and execute single-hop UniswapV2 swaps",
	Long: `swap-helper derives execution-ready parameters for single-hop UniswapV2
swaps from live pool state, and optionally executes them: balance check,
allowance check, approval only when needed, then the swap itself.

Examples:
  swap-helper quote --in 0xA0b8... --out 0xC02a... --amount-in 100
  swap-helper quote --in 0xA0b8... --out 0xC02a... --amount-out 0.5 --slippage-bps 50
  swap-helper swap  --in 0xA0b8... --out 0xC02a... --amount-in 100 --recipient 0x1234...
  swap-helper networks`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "./config.yaml", "path to config file")
}

func newLogger(level string) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	if level != "" {
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		lvl = parsed
	}
	cfg := zap.Config{
		Level:    zap.NewAtomicLevelAt(lvl),
		Encoding: "json",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			MessageKey:     "msg",
			StacktraceKey:  "stack",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeTime:     zapcore.RFC3339TimeEncoder,
			EncodeDuration: zapcore.MillisDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	return cfg.Build()
}

// setup wires config, logging and the chain client shared by quote and swap.
func setup(ctx context.Context) (*config.Config, *helper.Client, *zap.Logger, func(), error) {
	_ = godotenv.Load()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	backend, err := chain.Dial(ctx, cfg.Chain.RPCHTTP)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("dial %s: %w", cfg.Chain.RPCHTTP, err)
	}

	client, err := helper.New(ctx, backend, cfg, logger)
	if err != nil {
		backend.Close()
		return nil, nil, nil, nil, err
	}
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		client.UseTokenCache(tokencache.New(rdb))
	}

	cleanup := func() {
		backend.Close()
		_ = logger.Sync()
	}
	return cfg, client, logger, cleanup, nil
}

// intentFromFlags builds the swap intent shared by the quote and swap
// commands, applying config defaults for slippage and deadline.
func intentFromFlags(cfg *config.Config, in, out, amountIn, amountOut string, slippageBps uint32, maxDelaySec int64) (helper.SwapIntent, error) {
	intent, err := helper.NewIntent(in, out, amountIn, amountOut)
	if err != nil {
		return helper.SwapIntent{}, err
	}
	if slippageBps > 0 {
		intent.SlippageBps = slippageBps
	} else {
		intent.SlippageBps = cfg.Trade.SlippageBps
	}
	if maxDelaySec > 0 {
		intent.MaxDelay = time.Duration(maxDelaySec) * time.Second
	} else {
		intent.MaxDelay = cfg.Deadline()
	}
	return intent, nil
}
