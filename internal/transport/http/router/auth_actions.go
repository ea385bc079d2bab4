package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	coreauth "go-storefront-api/internal/core/auth"
	"go-storefront-api/internal/feature/profile"
	httpez "go-storefront-api/internal/transport/http/ez"
)

// ---------- 认证流程：注册 → 邮箱验证 → 登录 → 签退 ----------

func mountAuthActions(api, authed *gin.RouterGroup, svc *profile.AuthService) {
	ezPublic := httpez.New(api)

	type credIn struct {
		Email    string `json:"email"    binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	type userView struct {
		ID       string `json:"id"`
		Email    string `json:"email"`
		Role     string `json:"role"`
		Verified bool   `json:"verified"`
	}

	// 注册：角色服务端固定为 user，验证邮件走日志出口
	httpez.RegisterAction[credIn, userView](ezPublic, httpez.Action[credIn, userView]{
		Method: http.MethodPost,
		Path:   "/auth/signup",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *credIn) (userView, error) {
			p, err := svc.SignUp(c.Request.Context(), in.Email, in.Password)
			if err != nil {
				return userView{}, err
			}
			return userView{ID: p.ID, Email: p.Email, Role: p.Role, Verified: p.Verified()}, nil
		},
	})

	type signinOut struct {
		Token string   `json:"token"`
		User  userView `json:"user"`
	}
	httpez.RegisterAction[credIn, signinOut](ezPublic, httpez.Action[credIn, signinOut]{
		Method: http.MethodPost,
		Path:   "/auth/signin",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *credIn) (signinOut, error) {
			tok, p, err := svc.SignIn(c.Request.Context(), in.Email, in.Password)
			if err != nil {
				return signinOut{}, err
			}
			return signinOut{
				Token: tok,
				User:  userView{ID: p.ID, Email: p.Email, Role: p.Role, Verified: true},
			}, nil
		},
	})

	type verifyIn struct {
		Token string `json:"token" binding:"required"`
	}
	httpez.RegisterAction[verifyIn, gin.H](ezPublic, httpez.Action[verifyIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/auth/verify",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *verifyIn) (gin.H, error) {
			if err := svc.VerifyEmail(c.Request.Context(), in.Token); err != nil {
				return nil, err
			}
			return gin.H{"verified": true}, nil
		},
	})

	type resendIn struct {
		Email string `json:"email" binding:"required"`
	}
	httpez.RegisterAction[resendIn, gin.H](ezPublic, httpez.Action[resendIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/auth/resend",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *resendIn) (gin.H, error) {
			if err := svc.ResendVerification(c.Request.Context(), in.Email); err != nil {
				return nil, err
			}
			return gin.H{"sent": true}, nil
		},
	})

	// ---- 登录态 ----
	ezAuth := httpez.New(authed)

	httpez.RegisterAction[struct{}, userView](ezAuth, httpez.Action[struct{}, userView]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (userView, error) {
			p, err := svc.Me(c.Request.Context(), c.GetString("userId"))
			if err != nil {
				return userView{}, err
			}
			return userView{ID: p.ID, Email: p.Email, Role: p.Role, Verified: p.Verified()}, nil
		},
	})

	httpez.RegisterAction[struct{}, gin.H](ezAuth, httpez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/auth/signout",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			claims, _ := c.Get("claims")
			cl, _ := claims.(*coreauth.Claims)
			if err := svc.SignOut(c.Request.Context(), cl); err != nil {
				return nil, err
			}
			return gin.H{"signedOut": true}, nil
		},
	})
}
