package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"go-storefront-api/internal/domain"
	"go-storefront-api/internal/gateway"
	"go-storefront-api/pkg/utils"
)

type CartRepo struct{ gw *gateway.Gateway }

func NewCartRepo(gw *gateway.Gateway) *CartRepo { return &CartRepo{gw: gw} }

// UpsertIncrement 靠 (user_id, product_id) 唯一键一次写入：
// 不存在插 qty=1，存在则条件自增，消掉先查后写的竞态窗口
func (r *CartRepo) UpsertIncrement(ctx context.Context, userID, productID string) error {
	line := domain.CartLine{
		ID:        utils.NewID(),
		UserID:    userID,
		ProductID: productID,
		Quantity:  1,
	}
	return r.gw.Insert(ctx, &line, clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"quantity": gorm.Expr("quantity + 1"),
		}),
	})
}

func (r *CartRepo) SetQuantity(ctx context.Context, userID, lineID string, qty int) error {
	return r.gw.Update(ctx, &domain.CartLine{},
		gateway.Filter{"id": lineID, "user_id": userID},
		map[string]any{"quantity": qty})
}

func (r *CartRepo) Remove(ctx context.Context, userID, lineID string) error {
	return r.gw.Remove(ctx, &domain.CartLine{}, gateway.Filter{"id": lineID, "user_id": userID})
}

func (r *CartRepo) ListByUser(ctx context.Context, userID string) ([]domain.CartLine, error) {
	var lines []domain.CartLine
	if err := r.gw.Fetch(ctx, &lines, gateway.Filter{"user_id": userID}, "created_at DESC", "Product"); err != nil {
		return nil, err
	}
	return lines, nil
}
