package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"go-storefront-api/internal/core/auth"
	"go-storefront-api/internal/core/server"
	"go-storefront-api/internal/feature/cart"
	"go-storefront-api/internal/feature/catalog"
	"go-storefront-api/internal/feature/profile"
	mdw "go-storefront-api/internal/transport/http/middleware"
)

// NewAPIEngine 用户端：认证流程 + 目录读 + 购物车 + 结算
func NewAPIEngine(
	l *zap.Logger,
	authSvc *profile.AuthService,
	catalogSvc *catalog.Service,
	cartSvc *cart.Service,
	jwter *auth.JWTer,
	revoker *auth.Revoker,
) *gin.Engine {
	r := server.NewRouter(l)

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)

	// 健康检查 + 指标
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")

	// 鉴权分组（购物车/签退/我的资料必须挂这里才拿得到 userId）
	authed := api.Group("")
	authed.Use(mdw.AuthJWT(jwter, revoker, ""))

	mountAuthActions(api, authed, authSvc)
	mountCatalogActions(api, catalogSvc)
	mountCartActions(authed, cartSvc)

	return r
}
