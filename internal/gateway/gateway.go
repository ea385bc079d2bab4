// Package gateway 是所有远端存储读写的唯一通道：
// 等值过滤 + 时间倒序的取数、单条原子写入/更新/删除，
// 失败统一归一成 domain.RemoteError，不做批量、不做自动重试。
package gateway

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"go-storefront-api/internal/domain"
)

// Filter 等值过滤条件，列名 → 值
type Filter map[string]any

type Gateway struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Gateway { return &Gateway{db: db} }

// Fetch 按过滤条件取多条；order 形如 "created_at DESC"，可空
func (g *Gateway) Fetch(ctx context.Context, dest any, f Filter, order string, preloads ...string) error {
	q := g.db.WithContext(ctx)
	for _, p := range preloads {
		q = q.Preload(p)
	}
	if len(f) > 0 {
		q = q.Where(map[string]any(f))
	}
	if order != "" {
		q = q.Order(order)
	}
	return Normalize(q.Find(dest).Error)
}

// FetchOne 取单条，不存在 → NotFound
func (g *Gateway) FetchOne(ctx context.Context, dest any, f Filter, preloads ...string) error {
	q := g.db.WithContext(ctx)
	for _, p := range preloads {
		q = q.Preload(p)
	}
	return Normalize(q.Where(map[string]any(f)).First(dest).Error)
}

// Insert 单条写入；可附带 ON CONFLICT 子句（购物车的原子自增用）
func (g *Gateway) Insert(ctx context.Context, record any, onConflict ...clause.Expression) error {
	q := g.db.WithContext(ctx)
	if len(onConflict) > 0 {
		q = q.Clauses(onConflict...)
	}
	return Normalize(q.Create(record).Error)
}

// Update 按过滤条件打补丁；零行命中 → NotFound
func (g *Gateway) Update(ctx context.Context, model any, f Filter, patch map[string]any) error {
	res := g.db.WithContext(ctx).Model(model).Where(map[string]any(f)).Updates(patch)
	if res.Error != nil {
		return Normalize(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("not found")
	}
	return nil
}

// Remove 按过滤条件删除；零行命中 → NotFound
func (g *Gateway) Remove(ctx context.Context, model any, f Filter) error {
	res := g.db.WithContext(ctx).Where(map[string]any(f)).Delete(model)
	if res.Error != nil {
		return Normalize(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("not found")
	}
	return nil
}

// Transaction 跨表操作（结算、后台检索）单独走事务，错误同样归一
func (g *Gateway) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return Normalize(g.db.WithContext(ctx).Transaction(fn))
}

// Normalize 把 gorm/驱动错误收敛到五类 RemoteError
func Normalize(err error) error {
	if err == nil {
		return nil
	}
	var re *domain.RemoteError
	if errors.As(err, &re) {
		return err
	}
	// 事务回调里冒出来的本地校验错误原样透传
	if domain.IsValidation(err) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.NotFound("not found")
	case errors.Is(err, gorm.ErrDuplicatedKey) || isDupKey(err):
		return domain.Conflict(err.Error())
	case isNetworkErr(err):
		return domain.Network(err.Error(), err)
	default:
		return domain.Unknown(err.Error(), err)
	}
}

func isDupKey(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation") ||
		strings.Contains(msg, "duplicate key")
}

func isNetworkErr(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "broken pipe")
}
