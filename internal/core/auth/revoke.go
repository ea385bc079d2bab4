package auth

import (
	"context"
	"time"

	"go-storefront-api/internal/core/cache"
)

// Revoker 签退黑名单：jti 进 redis，到 token 过期自动清掉
type Revoker struct {
	c *cache.Cache
}

func NewRevoker(c *cache.Cache) *Revoker { return &Revoker{c: c} }

func (r *Revoker) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil // 已过期，无需拉黑
	}
	return r.c.SetTTL(ctx, "auth:revoked:"+jti, []byte("1"), ttl)
}

func (r *Revoker) IsRevoked(ctx context.Context, jti string) bool {
	if jti == "" {
		return false
	}
	ok, err := r.c.Exists(ctx, "auth:revoked:"+jti)
	if err != nil {
		return false // redis 抖动不影响请求
	}
	return ok
}
