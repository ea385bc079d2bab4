package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-storefront-api/internal/domain"
	"go-storefront-api/internal/feature/catalog"
	httpez "go-storefront-api/internal/transport/http/ez"
)

// 目录读接口，无需登录（货架对匿名会话也可见）

func mountCatalogActions(api *gin.RouterGroup, svc *catalog.Service) {
	ezPub := httpez.New(api)

	type listOut struct {
		Items []domain.Product `json:"items"`
	}
	httpez.RegisterAction[struct{}, listOut](ezPub, httpez.Action[struct{}, listOut]{
		Method: http.MethodGet,
		Path:   "/products",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (listOut, error) {
			ps, err := svc.List(c.Request.Context())
			if err != nil {
				return listOut{}, err
			}
			return listOut{Items: ps}, nil
		},
	})

	httpez.RegisterAction[struct{}, *domain.Product](ezPub, httpez.Action[struct{}, *domain.Product]{
		Method: http.MethodGet,
		Path:   "/products/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Product, error) {
			p, err := svc.Get(c.Request.Context(), c.Param("id"))
			if err != nil {
				return nil, err
			}
			if p == nil {
				return nil, httpez.NotFound("product not found")
			}
			return p, nil
		},
	})
}
