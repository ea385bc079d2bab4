package repo

import (
	"context"

	"gorm.io/gorm"

	"go-storefront-api/internal/domain"
	"go-storefront-api/internal/gateway"
	"go-storefront-api/pkg/utils"
)

type OrderRepo struct{ gw *gateway.Gateway }

func NewOrderRepo(gw *gateway.Gateway) *OrderRepo { return &OrderRepo{gw: gw} }

// PlaceFromCart 一个事务里完成：读购物车行（带商品）→ 按当前价落单 → 清空购物车
func (r *OrderRepo) PlaceFromCart(ctx context.Context, userID string) (*domain.Order, error) {
	var out *domain.Order
	err := r.gw.Transaction(ctx, func(tx *gorm.DB) error {
		var lines []domain.CartLine
		if err := tx.Preload("Product").Where("user_id = ?", userID).Find(&lines).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return domain.Invalid("cart", "cart is empty")
		}

		o := domain.Order{ID: utils.NewID(), UserID: userID}
		for _, ln := range lines {
			if ln.Product == nil {
				return domain.NotFound("product missing for cart line " + ln.ID)
			}
			o.Items = append(o.Items, domain.OrderItem{
				ID:        utils.NewID(),
				OrderID:   o.ID,
				ProductID: ln.ProductID,
				Quantity:  ln.Quantity,
				Price:     ln.Product.Price,
			})
			o.Total += ln.Product.Price * float64(ln.Quantity)
		}
		if err := tx.Create(&o).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&domain.CartLine{}).Error; err != nil {
			return err
		}
		out = &o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *OrderRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	var orders []domain.Order
	if err := r.gw.Fetch(ctx, &orders, gateway.Filter{"user_id": userID}, "created_at DESC", "Items"); err != nil {
		return nil, err
	}
	return orders, nil
}
