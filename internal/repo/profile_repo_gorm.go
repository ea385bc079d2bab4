package repo

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"go-storefront-api/internal/domain"
	"go-storefront-api/internal/gateway"
	"go-storefront-api/pkg/utils"
)

type ProfileRepo struct{ gw *gateway.Gateway }

func NewProfileRepo(gw *gateway.Gateway) *ProfileRepo { return &ProfileRepo{gw: gw} }

func (r *ProfileRepo) Create(ctx context.Context, p *domain.Profile) error {
	if p.ID == "" {
		p.ID = utils.NewID()
	}
	return r.gw.Insert(ctx, p)
}

func (r *ProfileRepo) FindByID(ctx context.Context, id string) (*domain.Profile, error) {
	return r.findOne(ctx, gateway.Filter{"id": id})
}

func (r *ProfileRepo) FindByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	return r.findOne(ctx, gateway.Filter{"email": email})
}

func (r *ProfileRepo) FindByVerifyToken(ctx context.Context, token string) (*domain.Profile, error) {
	if token == "" {
		return nil, nil
	}
	return r.findOne(ctx, gateway.Filter{"verify_token": token})
}

func (r *ProfileRepo) findOne(ctx context.Context, f gateway.Filter) (*domain.Profile, error) {
	var p domain.Profile
	err := r.gw.FetchOne(ctx, &p, f)
	if domain.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepo) SetVerifyToken(ctx context.Context, id, token string) error {
	return r.gw.Update(ctx, &domain.Profile{}, gateway.Filter{"id": id},
		map[string]any{"verify_token": token})
}

func (r *ProfileRepo) MarkVerified(ctx context.Context, id string, at time.Time) error {
	return r.gw.Update(ctx, &domain.Profile{}, gateway.Filter{"id": id},
		map[string]any{"email_verified_at": at, "verify_token": ""})
}

// List 后台用户列表，q 可按 email 模糊搜；count + 分页放同一事务保持一致
func (r *ProfileRepo) List(ctx context.Context, offset, limit int, q string) ([]domain.Profile, int64, error) {
	var (
		items []domain.Profile
		total int64
	)
	err := r.gw.Transaction(ctx, func(tx *gorm.DB) error {
		query := tx.Model(&domain.Profile{})
		if s := strings.TrimSpace(q); s != "" {
			query = query.Where("email LIKE ?", "%"+s+"%")
		}
		if err := query.Count(&total).Error; err != nil {
			return err
		}
		return query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&items).Error
	})
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
