package catalog

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"go-storefront-api/internal/domain"
)

// ---- fakes ----

type fakeProductRepo struct {
	products []domain.Product
	listErr  error
	listN    int
	onList   func() // List 进行中回调，用来模拟并发写
}

func (f *fakeProductRepo) Create(_ context.Context, p *domain.Product) error {
	if p.ID == "" {
		p.ID = "gen"
	}
	f.products = append(f.products, *p)
	return nil
}
func (f *fakeProductRepo) FindByID(_ context.Context, id string) (*domain.Product, error) {
	for i := range f.products {
		if f.products[i].ID == id {
			return &f.products[i], nil
		}
	}
	return nil, nil
}
func (f *fakeProductRepo) List(context.Context) ([]domain.Product, error) {
	f.listN++
	if f.onList != nil {
		cb := f.onList
		f.onList = nil
		cb()
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]domain.Product(nil), f.products...), nil
}
func (f *fakeProductRepo) Update(context.Context, string, domain.ProductPatch) error { return nil }
func (f *fakeProductRepo) Delete(context.Context, string) error                      { return nil }
func (f *fakeProductRepo) SetStock(context.Context, string, int) error               { return nil }

type memCache struct {
	m    map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{m: map[string][]byte{}} }

func (c *memCache) GetOrLoad(ctx context.Context, key string, _ time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	if b, ok := c.m[key]; ok {
		return b, nil
	}
	b, err := load(ctx)
	if err != nil {
		return nil, err
	}
	c.m[key] = b
	return b, nil
}
func (c *memCache) SetTTL(_ context.Context, key string, val []byte, _ time.Duration) error {
	c.m[key] = val
	c.sets++
	return nil
}
func (c *memCache) Invalidate(_ context.Context, keys ...string) {
	for _, k := range keys {
		delete(c.m, k)
	}
}

func newTestService(repo *fakeProductRepo, c *memCache) *Service {
	return NewService(repo, c, time.Minute, zap.NewNop())
}

// ---- tests ----

func TestListUsesSnapshot(t *testing.T) {
	repo := &fakeProductRepo{products: []domain.Product{{ID: "p1", Name: "Widget", Price: 9.99, Stock: 5}}}
	svc := newTestService(repo, newMemCache())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ps, err := svc.List(ctx)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(ps) != 1 || ps[0].ID != "p1" {
			t.Fatalf("unexpected products: %+v", ps)
		}
	}
	if repo.listN != 1 {
		t.Fatalf("repo hit %d times, snapshot should serve repeats", repo.listN)
	}
}

func TestMutationInvalidatesSnapshot(t *testing.T) {
	repo := &fakeProductRepo{}
	svc := newTestService(repo, newMemCache())
	ctx := context.Background()

	if _, err := svc.List(ctx); err != nil {
		t.Fatalf("List: %v", err)
	}
	if _, err := svc.Create(ctx, "Widget", "", 9.99, 5); err != nil {
		t.Fatalf("Create: %v", err)
	}
	ps, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(ps) != 1 {
		t.Fatalf("new product not visible after invalidation: %+v", ps)
	}
	if repo.listN != 2 {
		t.Fatalf("expected reload after mutation, repo hit %d times", repo.listN)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(&fakeProductRepo{}, newMemCache())
	ctx := context.Background()

	if _, err := svc.Create(ctx, "", "", 1, 1); !domain.IsValidation(err) {
		t.Fatalf("empty name must fail validation, got %v", err)
	}
	if _, err := svc.Create(ctx, "x", "", -0.01, 1); !domain.IsValidation(err) {
		t.Fatalf("negative price must fail validation, got %v", err)
	}
	if _, err := svc.Create(ctx, "x", "", 1, -1); !domain.IsValidation(err) {
		t.Fatalf("negative stock must fail validation, got %v", err)
	}
	// description 可以为空
	if _, err := svc.Create(ctx, "x", "", 0, 0); err != nil {
		t.Fatalf("free product with empty description should pass: %v", err)
	}
}

func TestUpdateValidation(t *testing.T) {
	svc := newTestService(&fakeProductRepo{}, newMemCache())
	ctx := context.Background()

	bad := -1.0
	if err := svc.Update(ctx, "p1", domain.ProductPatch{Price: &bad}); !domain.IsValidation(err) {
		t.Fatalf("negative price patch must fail, got %v", err)
	}
	empty := "  "
	if err := svc.Update(ctx, "p1", domain.ProductPatch{Name: &empty}); !domain.IsValidation(err) {
		t.Fatalf("blank name patch must fail, got %v", err)
	}
}

func TestGetAbsent(t *testing.T) {
	svc := newTestService(&fakeProductRepo{}, newMemCache())
	p, err := svc.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p != nil {
		t.Fatalf("expected absent, got %+v", p)
	}
}

// 刷新期间目录被写过时，旧的拉取结果不落快照
func TestRefreshDiscardsStaleResult(t *testing.T) {
	repo := &fakeProductRepo{}
	c := newMemCache()
	svc := newTestService(repo, c)
	ctx := context.Background()

	repo.onList = func() {
		// 模拟拉取还没返回时并发进来的写操作
		if err := svc.SetStock(ctx, "p1", 3); err != nil {
			t.Fatalf("SetStock: %v", err)
		}
	}
	if _, err := svc.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if c.sets != 0 {
		t.Fatalf("stale snapshot must be discarded, got %d writes", c.sets)
	}

	// 干净的刷新正常落快照
	if _, err := svc.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if c.sets != 1 {
		t.Fatalf("clean refresh should persist snapshot, got %d writes", c.sets)
	}
}
