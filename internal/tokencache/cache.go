// Package tokencache is a redis lookaside for immutable token metadata.
// Only decimals are cached; pool reserves are never stored here because they
// change with every trade.
package tokencache

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/redis/go-redis/v9"
)

type Cache struct {
	rdb *redis.Client
}

// New wraps rdb. A nil client yields a pass-through cache that never hits.
func New(rdb *redis.Client) *Cache {
	return &Cache{rdb: rdb}
}

func key(chainID uint64, token common.Address) string {
	return fmt.Sprintf("uniswapv2:decimals:%d:%s", chainID, token.Hex())
}

// Decimals returns the cached decimals for token, if present.
func (c *Cache) Decimals(ctx context.Context, chainID uint64, token common.Address) (uint8, bool) {
	if c == nil || c.rdb == nil {
		return 0, false
	}
	v, err := c.rdb.Get(ctx, key(chainID, token)).Result()
	if err != nil {
		return 0, false
	}
	d, err := strconv.ParseUint(v, 10, 8)
	if err != nil {
		return 0, false
	}
	return uint8(d), true
}

// SetDecimals stores the decimals for token. Decimals are immutable so the
// entry never expires. Failures are ignored; the cache is best-effort.
func (c *Cache) SetDecimals(ctx context.Context, chainID uint64, token common.Address, decimals uint8) {
	if c == nil || c.rdb == nil {
		return
	}
	_ = c.rdb.Set(ctx, key(chainID, token), strconv.FormatUint(uint64(decimals), 10), 0).Err()
}
