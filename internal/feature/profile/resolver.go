// Package profile 账号档案：角色解析与注册/登录/验证流程
package profile

import (
	"context"

	"go.uber.org/zap"

	"go-storefront-api/internal/domain"
)

// Resolver 会话主体 → 角色。查不到档案或查询出错一律按最低权限 user，
// 不存在任何硬编码的旁路账号
type Resolver struct {
	repo domain.ProfileRepository
	log  *zap.Logger
}

func NewResolver(repo domain.ProfileRepository, l *zap.Logger) *Resolver {
	return &Resolver{repo: repo, log: l}
}

func (r *Resolver) Resolve(ctx context.Context, userID string) string {
	p, err := r.repo.FindByID(ctx, userID)
	if err != nil {
		r.log.Warn("role lookup failed, defaulting to user", zap.String("uid", userID), zap.Error(err))
		return domain.RoleUser
	}
	if p == nil || p.Role != domain.RoleAdmin {
		return domain.RoleUser
	}
	return domain.RoleAdmin
}
