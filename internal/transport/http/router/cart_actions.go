package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-storefront-api/internal/domain"
	"go-storefront-api/internal/feature/cart"
	httpez "go-storefront-api/internal/transport/http/ez"
)

// 购物车全部挂在鉴权分组；每次写操作返回重拉后的整车

func mountCartActions(authed *gin.RouterGroup, svc *cart.Service) {
	ez := httpez.New(authed)

	type cartOut struct {
		Lines []domain.CartLine `json:"lines"`
	}

	httpez.RegisterAction[struct{}, cartOut](ez, httpez.Action[struct{}, cartOut]{
		Method: http.MethodGet,
		Path:   "/cart",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (cartOut, error) {
			lines, err := svc.Lines(c.Request.Context(), c.GetString("userId"))
			if err != nil {
				return cartOut{}, err
			}
			return cartOut{Lines: lines}, nil
		},
	})

	type addIn struct {
		ProductID string `json:"productId" binding:"required"`
	}
	httpez.RegisterAction[addIn, cartOut](ez, httpez.Action[addIn, cartOut]{
		Method: http.MethodPost,
		Path:   "/cart/items",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *addIn) (cartOut, error) {
			lines, err := svc.AddOrIncrement(c.Request.Context(), c.GetString("userId"), in.ProductID)
			if err != nil {
				return cartOut{}, err
			}
			return cartOut{Lines: lines}, nil
		},
	})

	type qtyIn struct {
		Quantity int `json:"quantity"`
	}
	httpez.RegisterAction[qtyIn, cartOut](ez, httpez.Action[qtyIn, cartOut]{
		Method: http.MethodPut,
		Path:   "/cart/items/:id",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *qtyIn) (cartOut, error) {
			lines, err := svc.SetQuantity(c.Request.Context(), c.GetString("userId"), c.Param("id"), in.Quantity)
			if err != nil {
				return cartOut{}, err
			}
			return cartOut{Lines: lines}, nil
		},
	})

	httpez.RegisterAction[struct{}, cartOut](ez, httpez.Action[struct{}, cartOut]{
		Method: http.MethodDelete,
		Path:   "/cart/items/:id",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (cartOut, error) {
			lines, err := svc.Remove(c.Request.Context(), c.GetString("userId"), c.Param("id"))
			if err != nil {
				return cartOut{}, err
			}
			return cartOut{Lines: lines}, nil
		},
	})

	httpez.RegisterAction[struct{}, gin.H](ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodGet,
		Path:   "/cart/total",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			total, err := svc.Total(c.Request.Context(), c.GetString("userId"))
			if err != nil {
				return nil, err
			}
			return gin.H{"total": total}, nil
		},
	})

	httpez.RegisterAction[struct{}, *domain.Order](ez, httpez.Action[struct{}, *domain.Order]{
		Method: http.MethodPost,
		Path:   "/checkout",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Order, error) {
			return svc.Checkout(c.Request.Context(), c.GetString("userId"))
		},
	})

	type ordersOut struct {
		Items []domain.Order `json:"items"`
	}
	httpez.RegisterAction[struct{}, ordersOut](ez, httpez.Action[struct{}, ordersOut]{
		Method: http.MethodGet,
		Path:   "/orders",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (ordersOut, error) {
			os, err := svc.Orders(c.Request.Context(), c.GetString("userId"))
			if err != nil {
				return ordersOut{}, err
			}
			return ordersOut{Items: os}, nil
		},
	})
}
