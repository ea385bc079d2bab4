package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-storefront-api/internal/domain"
	"go-storefront-api/internal/feature/catalog"
	httpez "go-storefront-api/internal/transport/http/ez"
)

// 后台接口集中在这里注册
func mountAdminActions(admin *gin.RouterGroup, catalogSvc *catalog.Service, profiles domain.ProfileRepository) {
	ez := httpez.New(admin)

	// --- POST /admin/v1/products 新建商品 ---
	type productIn struct {
		Name        string  `json:"name"        binding:"required"`
		Description string  `json:"description"`
		Price       float64 `json:"price"`
		Stock       int     `json:"stock"`
	}
	httpez.RegisterAction[productIn, *domain.Product](ez, httpez.Action[productIn, *domain.Product]{
		Method: http.MethodPost,
		Path:   "/products",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *productIn) (*domain.Product, error) {
			return catalogSvc.Create(c.Request.Context(), in.Name, in.Description, in.Price, in.Stock)
		},
	})

	// --- GET /admin/v1/products 后台列表绕过快照，直接重拉 ---
	type listOut struct {
		Items []domain.Product `json:"items"`
	}
	httpez.RegisterAction[struct{}, listOut](ez, httpez.Action[struct{}, listOut]{
		Method: http.MethodGet,
		Path:   "/products",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (listOut, error) {
			ps, err := catalogSvc.Refresh(c.Request.Context())
			if err != nil {
				return listOut{}, err
			}
			return listOut{Items: ps}, nil
		},
	})

	// --- PUT /admin/v1/products/:id 局部更新 ---
	httpez.RegisterAction[domain.ProductPatch, gin.H](ez, httpez.Action[domain.ProductPatch, gin.H]{
		Method: http.MethodPut,
		Path:   "/products/:id",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *domain.ProductPatch) (gin.H, error) {
			id := c.Param("id")
			if err := catalogSvc.Update(c.Request.Context(), id, *in); err != nil {
				return nil, err
			}
			return gin.H{"id": id}, nil
		},
	})

	// --- DELETE /admin/v1/products/:id ---
	httpez.RegisterAction[struct{}, gin.H](ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/products/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			if err := catalogSvc.Delete(c.Request.Context(), id); err != nil {
				return nil, err
			}
			return gin.H{"id": id}, nil
		},
	})

	// --- POST /admin/v1/products/:id/stock 绝对库存 ---
	type stockIn struct {
		Stock int `json:"stock"`
	}
	httpez.RegisterAction[stockIn, gin.H](ez, httpez.Action[stockIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/products/:id/stock",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *stockIn) (gin.H, error) {
			id := c.Param("id")
			if err := catalogSvc.SetStock(c.Request.Context(), id, in.Stock); err != nil {
				return nil, err
			}
			return gin.H{"id": id, "stock": in.Stock}, nil
		},
	})

	// --- GET /admin/v1/profiles 档案列表 ---
	type listQ struct {
		Offset int    `form:"offset,default=0"`
		Limit  int    `form:"limit,default=20"`
		Q      string `form:"q"` // 按 email 模糊搜
	}
	type row struct {
		ID       string `json:"id"`
		Email    string `json:"email"`
		Role     string `json:"role"`
		Verified bool   `json:"verified"`
	}
	type profilesOut struct {
		Total int64 `json:"total"`
		Items []row `json:"items"`
	}
	httpez.RegisterAction[listQ, profilesOut](ez, httpez.Action[listQ, profilesOut]{
		Method: http.MethodGet,
		Path:   "/profiles",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *listQ) (profilesOut, error) {
			if in.Limit <= 0 || in.Limit > 100 {
				in.Limit = 20
			}
			items, total, err := profiles.List(c.Request.Context(), in.Offset, in.Limit, in.Q)
			if err != nil {
				return profilesOut{}, err
			}
			out := profilesOut{Total: total, Items: make([]row, 0, len(items))}
			for _, p := range items {
				out.Items = append(out.Items, row{
					ID: p.ID, Email: p.Email, Role: p.Role, Verified: p.Verified(),
				})
			}
			return out, nil
		},
	})
}
