package domain

import (
	"context"
	"time"
)

// Order 结算快照：单价在下单时刻定格
type Order struct {
	ID        string      `gorm:"primaryKey;size:32" json:"id"`
	UserID    string      `gorm:"size:32;not null;index" json:"userId"`
	Total     float64     `gorm:"not null" json:"total"`
	CreatedAt time.Time   `json:"createdAt"`
	Items     []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
}

func (Order) TableName() string { return "orders" }

type OrderItem struct {
	ID        string  `gorm:"primaryKey;size:32" json:"id"`
	OrderID   string  `gorm:"size:32;not null;index" json:"orderId"`
	ProductID string  `gorm:"size:32;not null" json:"productId"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	Price     float64 `gorm:"not null" json:"price"`
}

func (OrderItem) TableName() string { return "order_items" }

type OrderRepository interface {
	// PlaceFromCart 事务内：读购物车、按当前价落单、清空购物车
	PlaceFromCart(ctx context.Context, userID string) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
}
