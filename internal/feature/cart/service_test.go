package cart

import (
	"context"
	"fmt"
	"math"
	"testing"

	"go-storefront-api/internal/domain"
)

// ---- fakes ----

type fakeCatalog struct {
	products map[string]*domain.Product
}

func (f *fakeCatalog) Get(_ context.Context, id string) (*domain.Product, error) {
	return f.products[id], nil
}

// fakeCartRepo 按 (user, product) 唯一键维护内存车，记录 upsert 次数
type fakeCartRepo struct {
	lines   []domain.CartLine
	nextID  int
	upserts int
}

func (f *fakeCartRepo) UpsertIncrement(_ context.Context, userID, productID string) error {
	f.upserts++
	for i := range f.lines {
		if f.lines[i].UserID == userID && f.lines[i].ProductID == productID {
			f.lines[i].Quantity++
			return nil
		}
	}
	f.nextID++
	f.lines = append(f.lines, domain.CartLine{
		ID:        fmt.Sprintf("l%d", f.nextID),
		UserID:    userID,
		ProductID: productID,
		Quantity:  1,
	})
	return nil
}

func (f *fakeCartRepo) SetQuantity(_ context.Context, userID, lineID string, qty int) error {
	for i := range f.lines {
		if f.lines[i].UserID == userID && f.lines[i].ID == lineID {
			f.lines[i].Quantity = qty
			return nil
		}
	}
	return domain.NotFound("cart line not found")
}

func (f *fakeCartRepo) Remove(_ context.Context, userID, lineID string) error {
	for i := range f.lines {
		if f.lines[i].UserID == userID && f.lines[i].ID == lineID {
			f.lines = append(f.lines[:i], f.lines[i+1:]...)
			return nil
		}
	}
	return domain.NotFound("cart line not found")
}

func (f *fakeCartRepo) ListByUser(_ context.Context, userID string) ([]domain.CartLine, error) {
	var out []domain.CartLine
	for _, ln := range f.lines {
		if ln.UserID == userID {
			out = append(out, ln)
		}
	}
	return out, nil
}

type fakeOrderRepo struct {
	placed []string
}

func (f *fakeOrderRepo) PlaceFromCart(_ context.Context, userID string) (*domain.Order, error) {
	f.placed = append(f.placed, userID)
	return &domain.Order{ID: "o1", UserID: userID}, nil
}

func (f *fakeOrderRepo) ListByUser(context.Context, string) ([]domain.Order, error) { return nil, nil }

func newTestService(products ...*domain.Product) (*Service, *fakeCartRepo) {
	cat := &fakeCatalog{products: map[string]*domain.Product{}}
	for _, p := range products {
		cat.products[p.ID] = p
	}
	repo := &fakeCartRepo{}
	return NewService(repo, &fakeOrderRepo{}, cat), repo
}

// ---- tests ----

// 库存为 0 必须在本地就拦下，不发任何写请求
func TestAddOutOfStockRejectedBeforeStore(t *testing.T) {
	svc, repo := newTestService(&domain.Product{ID: "p1", Name: "Widget", Price: 9.99, Stock: 0})

	_, err := svc.AddOrIncrement(context.Background(), "u1", "p1")
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if repo.upserts != 0 {
		t.Fatalf("repo must not be touched, got %d upserts", repo.upserts)
	}
}

func TestAddUnknownProductRejectedBeforeStore(t *testing.T) {
	svc, repo := newTestService()

	_, err := svc.AddOrIncrement(context.Background(), "u1", "ghost")
	if !domain.IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
	if repo.upserts != 0 {
		t.Fatalf("repo must not be touched, got %d upserts", repo.upserts)
	}
}

// 同一商品加两次 → 仍然只有一行，数量为 2
func TestAddTwiceIncrementsSingleLine(t *testing.T) {
	svc, _ := newTestService(&domain.Product{ID: "p1", Name: "Widget", Price: 9.99, Stock: 5})
	ctx := context.Background()

	if _, err := svc.AddOrIncrement(ctx, "u1", "p1"); err != nil {
		t.Fatalf("first add: %v", err)
	}
	lines, err := svc.AddOrIncrement(ctx, "u1", "p1")
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d", len(lines))
	}
	if lines[0].Quantity != 2 {
		t.Fatalf("quantity = %d, want 2", lines[0].Quantity)
	}
}

// 数量调成 0 等价于删行
func TestSetQuantityZeroRemovesLine(t *testing.T) {
	svc, repo := newTestService(&domain.Product{ID: "p1", Name: "Widget", Price: 9.99, Stock: 5})
	ctx := context.Background()

	if _, err := svc.AddOrIncrement(ctx, "u1", "p1"); err != nil {
		t.Fatalf("add: %v", err)
	}
	lineID := repo.lines[0].ID

	lines, err := svc.SetQuantity(ctx, "u1", lineID, 0)
	if err != nil {
		t.Fatalf("SetQuantity: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("line should be gone, got %+v", lines)
	}
}

// 总额永远按目录当前价算，后台改价后不需要重新加购
func TestTotalTracksCurrentPrice(t *testing.T) {
	widget := &domain.Product{ID: "p1", Name: "Widget", Price: 9.99, Stock: 5}
	svc, _ := newTestService(widget)
	ctx := context.Background()

	if _, err := svc.AddOrIncrement(ctx, "u1", "p1"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.AddOrIncrement(ctx, "u1", "p1"); err != nil {
		t.Fatalf("add: %v", err)
	}

	total, err := svc.Total(ctx, "u1")
	if err != nil {
		t.Fatalf("Total: %v", err)
	}
	if math.Abs(total-19.98) > 1e-9 {
		t.Fatalf("total = %v, want 19.98", total)
	}

	widget.Price = 12.50
	total, err = svc.Total(ctx, "u1")
	if err != nil {
		t.Fatalf("Total after reprice: %v", err)
	}
	if math.Abs(total-25.00) > 1e-9 {
		t.Fatalf("total = %v, want 25.00", total)
	}
}

func TestTotalEmptyCartIsZero(t *testing.T) {
	svc, _ := newTestService()
	total, err := svc.Total(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Total: %v", err)
	}
	if total != 0 {
		t.Fatalf("total = %v, want 0", total)
	}
}

// 目录里已经下架的商品留在车里时，总额计算要报错而不是悄悄跳过
func TestTotalMissingProductFails(t *testing.T) {
	widget := &domain.Product{ID: "p1", Name: "Widget", Price: 9.99, Stock: 5}
	cat := &fakeCatalog{products: map[string]*domain.Product{"p1": widget}}
	repo := &fakeCartRepo{}
	svc := NewService(repo, &fakeOrderRepo{}, cat)
	ctx := context.Background()

	if _, err := svc.AddOrIncrement(ctx, "u1", "p1"); err != nil {
		t.Fatalf("add: %v", err)
	}
	delete(cat.products, "p1")

	if _, err := svc.Total(ctx, "u1"); !domain.IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestCheckoutDelegatesToOrders(t *testing.T) {
	cat := &fakeCatalog{products: map[string]*domain.Product{
		"p1": {ID: "p1", Name: "Widget", Price: 9.99, Stock: 5},
	}}
	orders := &fakeOrderRepo{}
	svc := NewService(&fakeCartRepo{}, orders, cat)

	o, err := svc.Checkout(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if o == nil || o.UserID != "u1" {
		t.Fatalf("unexpected order: %+v", o)
	}
	if len(orders.placed) != 1 || orders.placed[0] != "u1" {
		t.Fatalf("order repo not invoked: %+v", orders.placed)
	}
}

// 用户之间的车完全隔离
func TestCartIsolationBetweenUsers(t *testing.T) {
	svc, _ := newTestService(&domain.Product{ID: "p1", Name: "Widget", Price: 9.99, Stock: 5})
	ctx := context.Background()

	if _, err := svc.AddOrIncrement(ctx, "u1", "p1"); err != nil {
		t.Fatalf("add: %v", err)
	}
	lines, err := svc.Lines(ctx, "u2")
	if err != nil {
		t.Fatalf("Lines: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("u2 cart must be empty, got %+v", lines)
	}
}
