package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-storefront-api/internal/core/auth"
	"go-storefront-api/internal/core/server"
	"go-storefront-api/internal/domain"
	"go-storefront-api/internal/feature/catalog"
	mdw "go-storefront-api/internal/transport/http/middleware"
)

// NewAdminEngine 后台端：商品管理 + 档案列表，整组要求 admin 角色
func NewAdminEngine(
	l *zap.Logger,
	catalogSvc *catalog.Service,
	profiles domain.ProfileRepository,
	jwter *auth.JWTer,
	revoker *auth.Revoker,
) *gin.Engine {
	r := server.NewRouter(l)

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(100, 200),
		mdw.ConcurrencyLimit(100),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })

	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(jwter, revoker, domain.RoleAdmin))

	mountAdminActions(admin, catalogSvc, profiles)

	return r
}
