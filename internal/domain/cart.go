package domain

import (
	"context"
	"time"
)

// CartLine 一行绑定 (user, product, quantity)；同一 (user, product) 只有一行
type CartLine struct {
	ID        string    `gorm:"primaryKey;size:32" json:"id"`
	UserID    string    `gorm:"size:32;not null;uniqueIndex:uniq_cart_user_product" json:"userId"`
	ProductID string    `gorm:"size:32;not null;uniqueIndex:uniq_cart_user_product" json:"productId"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (CartLine) TableName() string { return "cart_lines" }

type CartRepository interface {
	// UpsertIncrement 单次原子写：没有则插一行 qty=1，有则 qty+1
	UpsertIncrement(ctx context.Context, userID, productID string) error
	SetQuantity(ctx context.Context, userID, lineID string, qty int) error
	Remove(ctx context.Context, userID, lineID string) error
	// ListByUser 带出关联商品
	ListByUser(ctx context.Context, userID string) ([]CartLine, error)
}
