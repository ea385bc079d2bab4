package profile

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	coreauth "go-storefront-api/internal/core/auth"
	"go-storefront-api/internal/domain"
	"go-storefront-api/pkg/utils"
)

// tokenRevoker 签退用；core/auth.Revoker 满足
type tokenRevoker interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
}

type AuthService struct {
	repo     domain.ProfileRepository
	resolver *Resolver
	jwter    *coreauth.JWTer
	revoker  tokenRevoker
	log      *zap.Logger
}

func NewAuthService(repo domain.ProfileRepository, resolver *Resolver, jwter *coreauth.JWTer, revoker tokenRevoker, l *zap.Logger) *AuthService {
	return &AuthService{repo: repo, resolver: resolver, jwter: jwter, revoker: revoker, log: l}
}

// SignUp 角色一律服务端指定为 user，客户端带什么都不认；
// 管理员只能在后台提权。重复邮箱 → Conflict
func (s *AuthService) SignUp(ctx context.Context, email, password string) (*domain.Profile, error) {
	email = normalizeEmail(email)
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}
	p := &domain.Profile{
		ID:           utils.NewID(),
		Email:        email,
		PasswordHash: utils.HashPassword(password),
		Role:         domain.RoleUser,
		VerifyToken:  utils.NewVerifyToken(),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		if domain.IsConflict(err) {
			return nil, domain.Conflict("email already registered")
		}
		return nil, err
	}
	// 邮件投递不在边界内，验证令牌走日志出口
	s.log.Info("verification mail queued",
		zap.String("email", p.Email), zap.String("token", p.VerifyToken))
	return p, nil
}

// SignIn 凭证错 → Unauthorized；未验证邮箱 → ErrEmailUnverified（重发后再试）；
// 通过后按解析出的角色签 JWT
func (s *AuthService) SignIn(ctx context.Context, email, password string) (string, *domain.Profile, error) {
	email = normalizeEmail(email)
	p, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if p == nil || !utils.CheckPassword(password, p.PasswordHash) {
		return "", nil, domain.Unauthorized("invalid credentials")
	}
	if !p.Verified() {
		return "", nil, domain.ErrEmailUnverified
	}
	role := s.resolver.Resolve(ctx, p.ID)
	tok, err := s.jwter.Issue(p.ID, role)
	if err != nil || tok == "" {
		return "", nil, domain.Unknown("issue token failed", err)
	}
	return tok, p, nil
}

func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	p, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.NotFound("no account for this email")
	}
	if p.Verified() {
		return domain.Invalid("email", "already verified")
	}
	token := utils.NewVerifyToken()
	if err := s.repo.SetVerifyToken(ctx, p.ID, token); err != nil {
		return err
	}
	s.log.Info("verification mail re-queued",
		zap.String("email", p.Email), zap.String("token", token))
	return nil
}

func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return domain.Invalid("token", "required")
	}
	p, err := s.repo.FindByVerifyToken(ctx, token)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.NotFound("invalid or expired token")
	}
	return s.repo.MarkVerified(ctx, p.ID, time.Now())
}

func (s *AuthService) Me(ctx context.Context, uid string) (*domain.Profile, error) {
	p, err := s.repo.FindByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound("profile not found")
	}
	return p, nil
}

// SignOut jti 进黑名单直到 token 自然过期
func (s *AuthService) SignOut(ctx context.Context, claims *coreauth.Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	return s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateCredentials(email, password string) error {
	if email == "" || !strings.Contains(email, "@") {
		return domain.Invalid("email", "invalid email address")
	}
	if len(password) < 6 {
		return domain.Invalid("password", "must be at least 6 characters")
	}
	return nil
}
