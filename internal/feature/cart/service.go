// Package cart 购物车聚合：加购自增、数量调整、按当前价算总额、结算
package cart

import (
	"context"

	"go-storefront-api/internal/domain"
)

// catalogReader 购物车只需要目录的读口径（库存门禁 + 取当前价）
type catalogReader interface {
	Get(ctx context.Context, id string) (*domain.Product, error)
}

type Service struct {
	repo    domain.CartRepository
	orders  domain.OrderRepository
	catalog catalogReader
}

func NewService(repo domain.CartRepository, orders domain.OrderRepository, catalog catalogReader) *Service {
	return &Service{repo: repo, orders: orders, catalog: catalog}
}

// AddOrIncrement 库存为 0 或商品不存在时在本地就拒绝，不发任何写请求；
// 通过后单次原子 upsert，写完整车重拉
func (s *Service) AddOrIncrement(ctx context.Context, userID, productID string) ([]domain.CartLine, error) {
	p, err := s.catalog.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound("product not found")
	}
	if p.Stock < 1 {
		return nil, domain.Invalid("product", "out of stock")
	}
	if err := s.repo.UpsertIncrement(ctx, userID, productID); err != nil {
		return nil, err
	}
	return s.repo.ListByUser(ctx, userID)
}

// SetQuantity qty < 1 等价于删行，不存在数量为零的行
func (s *Service) SetQuantity(ctx context.Context, userID, lineID string, qty int) ([]domain.CartLine, error) {
	var err error
	if qty < 1 {
		err = s.repo.Remove(ctx, userID, lineID)
	} else {
		err = s.repo.SetQuantity(ctx, userID, lineID, qty)
	}
	if err != nil {
		return nil, err
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) Remove(ctx context.Context, userID, lineID string) ([]domain.CartLine, error) {
	if err := s.repo.Remove(ctx, userID, lineID); err != nil {
		return nil, err
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) Lines(ctx context.Context, userID string) ([]domain.CartLine, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Total 调用时刻按目录当前价格汇总，改价后下次渲染即生效
func (s *Service) Total(ctx context.Context, userID string) (float64, error) {
	lines, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, ln := range lines {
		p, err := s.catalog.Get(ctx, ln.ProductID)
		if err != nil {
			return 0, err
		}
		if p == nil {
			return 0, domain.NotFound("product " + ln.ProductID + " not found")
		}
		total += p.Price * float64(ln.Quantity)
	}
	return total, nil
}

// Checkout 事务落单，成功后购物车已被清空
func (s *Service) Checkout(ctx context.Context, userID string) (*domain.Order, error) {
	return s.orders.PlaceFromCart(ctx, userID)
}

func (s *Service) Orders(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}
