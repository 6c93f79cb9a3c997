package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/thegostep/uniswap-v2-helper/internal/api"
	"github.com/thegostep/uniswap-v2-helper/internal/chain"
	"github.com/thegostep/uniswap-v2-helper/internal/config"
	"github.com/thegostep/uniswap-v2-helper/internal/metrics"
	"github.com/thegostep/uniswap-v2-helper/internal/tokencache"
	"github.com/thegostep/uniswap-v2-helper/pkg/helper"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := flag.String("config", "./config.yaml", "path to config file")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := chain.Dial(ctx, cfg.Chain.RPCHTTP)
	if err != nil {
		return fmt.Errorf("dial %s: %w", cfg.Chain.RPCHTTP, err)
	}
	defer backend.Close()

	client, err := helper.New(ctx, backend, cfg, logger)
	if err != nil {
		return err
	}
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		client.UseTokenCache(tokencache.New(rdb))
	}

	if cfg.Metrics.Addr != "" {
		metrics.Serve(ctx, cfg.Metrics.Addr, nil, logger)
	}

	app := fiber.New()
	quoteHandler := api.NewQuoteHandler(logger, client)
	app.Get("/quote", quoteHandler.Handle())

	logger.Info("quote api listening",
		zap.String("addr", cfg.API.Addr),
		zap.Uint64("chain_id", client.ChainID()),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(cfg.API.Addr)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
	return nil
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
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	return zcfg.Build()
}
