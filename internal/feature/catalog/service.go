// Package catalog 商品目录：redis 快照 + 全量回源，后台增删改走这里统一失效
package catalog

import (
	"context"
	"encoding/json"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"go-storefront-api/internal/core/cache"
	"go-storefront-api/internal/domain"
)

const snapshotKey = "catalog:snapshot"

// snapshotCache 由 core/cache.Cache 满足；测试用内存假实现
type snapshotCache interface {
	GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error)
	SetTTL(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Invalidate(ctx context.Context, keys ...string)
}

type Service struct {
	repo domain.ProductRepository
	c    snapshotCache
	ttl  time.Duration
	gen  atomic.Uint64 // 写操作自增；旧的刷新结果不许覆盖新状态
	log  *zap.Logger
}

func NewService(repo domain.ProductRepository, c snapshotCache, ttl time.Duration, l *zap.Logger) *Service {
	return &Service{repo: repo, c: c, ttl: ttl, log: l}
}

// List 当前快照；没有则回源（singleflight 合并）
func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	ps, err := cache.GetOrLoadJSON[[]domain.Product](s.c, ctx, snapshotKey, s.ttl,
		func(ctx context.Context) (*[]domain.Product, error) {
			out, e := s.repo.List(ctx)
			if e != nil {
				return nil, e
			}
			return &out, nil
		})
	if err != nil {
		return nil, err
	}
	if ps == nil {
		return nil, nil
	}
	return *ps, nil
}

// Refresh 无条件全量重拉并写回快照。
// 代数护栏：拉取期间目录有写入时丢弃本次结果，避免旧响应后落地反而赢
func (s *Service) Refresh(ctx context.Context) ([]domain.Product, error) {
	g := s.gen.Load()
	ps, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.gen.Load() != g {
		s.log.Debug("catalog refresh discarded, generation moved")
		return ps, nil
	}
	if b, e := json.Marshal(ps); e == nil {
		_ = s.c.SetTTL(ctx, snapshotKey, b, s.ttl)
	}
	return ps, nil
}

// Get 从快照里找；不存在返回 (nil, nil)
func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	ps, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range ps {
		if ps[i].ID == id {
			return &ps[i], nil
		}
	}
	return nil, nil
}

// ---- 后台操作（两版管理界面字段要求取并集：name/price/stock 必填，description 可选）----

func (s *Service) Create(ctx context.Context, name, description string, price float64, stock int) (*domain.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.Invalid("name", "required")
	}
	if price < 0 {
		return nil, domain.Invalid("price", "must be >= 0")
	}
	if stock < 0 {
		return nil, domain.Invalid("stock", "must be >= 0")
	}
	p := &domain.Product{Name: name, Description: description, Price: price, Stock: stock}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return p, nil
}

func (s *Service) Update(ctx context.Context, id string, patch domain.ProductPatch) error {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return domain.Invalid("name", "required")
	}
	if patch.Price != nil && *patch.Price < 0 {
		return domain.Invalid("price", "must be >= 0")
	}
	if patch.Stock != nil && *patch.Stock < 0 {
		return domain.Invalid("stock", "must be >= 0")
	}
	if err := s.repo.Update(ctx, id, patch); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) SetStock(ctx context.Context, id string, stock int) error {
	if stock < 0 {
		return domain.Invalid("stock", "must be >= 0")
	}
	if err := s.repo.SetStock(ctx, id, stock); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	s.gen.Add(1)
	s.c.Invalidate(ctx, snapshotKey)
}
