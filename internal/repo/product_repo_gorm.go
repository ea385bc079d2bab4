package repo

import (
	"context"

	"go-storefront-api/internal/domain"
	"go-storefront-api/internal/gateway"
	"go-storefront-api/pkg/utils"
)

type ProductRepo struct{ gw *gateway.Gateway }

func NewProductRepo(gw *gateway.Gateway) *ProductRepo { return &ProductRepo{gw: gw} }

func (r *ProductRepo) Create(ctx context.Context, p *domain.Product) error {
	if p.ID == "" {
		p.ID = utils.NewID()
	}
	return r.gw.Insert(ctx, p)
}

func (r *ProductRepo) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	err := r.gw.FetchOne(ctx, &p, gateway.Filter{"id": id})
	if domain.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	if err := r.gw.Fetch(ctx, &out, nil, "created_at DESC"); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ProductRepo) Update(ctx context.Context, id string, patch domain.ProductPatch) error {
	m := map[string]any{}
	if patch.Name != nil {
		m["name"] = *patch.Name
	}
	if patch.Description != nil {
		m["description"] = *patch.Description
	}
	if patch.Price != nil {
		m["price"] = *patch.Price
	}
	if patch.Stock != nil {
		m["stock"] = *patch.Stock
	}
	if len(m) == 0 {
		return nil
	}
	return r.gw.Update(ctx, &domain.Product{}, gateway.Filter{"id": id}, m)
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	return r.gw.Remove(ctx, &domain.Product{}, gateway.Filter{"id": id})
}

func (r *ProductRepo) SetStock(ctx context.Context, id string, stock int) error {
	return r.gw.Update(ctx, &domain.Product{}, gateway.Filter{"id": id}, map[string]any{"stock": stock})
}
