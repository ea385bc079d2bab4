package profile

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	coreauth "go-storefront-api/internal/core/auth"
	"go-storefront-api/internal/domain"
)

// ---- fakes ----

type fakeProfileRepo struct {
	byID    map[string]*domain.Profile
	findErr error
}

func newFakeProfileRepo(ps ...*domain.Profile) *fakeProfileRepo {
	f := &fakeProfileRepo{byID: map[string]*domain.Profile{}}
	for _, p := range ps {
		f.byID[p.ID] = p
	}
	return f
}

func (f *fakeProfileRepo) Create(_ context.Context, p *domain.Profile) error {
	for _, ex := range f.byID {
		if ex.Email == p.Email {
			return domain.Conflict("duplicate email")
		}
	}
	cp := *p
	f.byID[p.ID] = &cp
	return nil
}

func (f *fakeProfileRepo) FindByID(_ context.Context, id string) (*domain.Profile, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.byID[id], nil
}

func (f *fakeProfileRepo) FindByEmail(_ context.Context, email string) (*domain.Profile, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, p := range f.byID {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeProfileRepo) FindByVerifyToken(_ context.Context, token string) (*domain.Profile, error) {
	if token == "" {
		return nil, nil
	}
	for _, p := range f.byID {
		if p.VerifyToken == token {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeProfileRepo) SetVerifyToken(_ context.Context, id, token string) error {
	p, ok := f.byID[id]
	if !ok {
		return domain.NotFound("profile not found")
	}
	p.VerifyToken = token
	return nil
}

func (f *fakeProfileRepo) MarkVerified(_ context.Context, id string, at time.Time) error {
	p, ok := f.byID[id]
	if !ok {
		return domain.NotFound("profile not found")
	}
	p.EmailVerifiedAt = &at
	p.VerifyToken = ""
	return nil
}

func (f *fakeProfileRepo) List(context.Context, int, int, string) ([]domain.Profile, int64, error) {
	return nil, 0, nil
}

type fakeRevoker struct {
	revoked []string
}

func (f *fakeRevoker) Revoke(_ context.Context, jti string, _ time.Time) error {
	f.revoked = append(f.revoked, jti)
	return nil
}

func newTestAuth(repo *fakeProfileRepo) (*AuthService, *fakeRevoker, *coreauth.JWTer) {
	l := zap.NewNop()
	jwter := &coreauth.JWTer{Secret: []byte("test-secret"), Issuer: "test", TTL: time.Hour}
	rev := &fakeRevoker{}
	return NewAuthService(repo, NewResolver(repo, l), jwter, rev, l), rev, jwter
}

// ---- tests ----

// 注册角色永远是 user，客户端没有任何办法自封管理员
func TestSignUpAlwaysUserRole(t *testing.T) {
	svc, _, _ := newTestAuth(newFakeProfileRepo())

	p, err := svc.SignUp(context.Background(), "  Alice@Example.COM ", "secret1")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if p.Role != domain.RoleUser {
		t.Fatalf("role = %q, want user", p.Role)
	}
	if p.Email != "alice@example.com" {
		t.Fatalf("email not normalized: %q", p.Email)
	}
	if p.VerifyToken == "" {
		t.Fatalf("verify token must be issued at signup")
	}
	if p.Verified() {
		t.Fatalf("fresh account must start unverified")
	}
}

func TestSignUpValidation(t *testing.T) {
	svc, _, _ := newTestAuth(newFakeProfileRepo())
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, "not-an-email", "secret1"); !domain.IsValidation(err) {
		t.Fatalf("bad email must fail validation, got %v", err)
	}
	if _, err := svc.SignUp(ctx, "a@b.com", "short"); !domain.IsValidation(err) {
		t.Fatalf("short password must fail validation, got %v", err)
	}
}

func TestSignUpDuplicateEmailConflict(t *testing.T) {
	svc, _, _ := newTestAuth(newFakeProfileRepo())
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, "a@b.com", "secret1"); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	_, err := svc.SignUp(ctx, "a@b.com", "secret1")
	if !domain.IsConflict(err) {
		t.Fatalf("expected Conflict, got %v", err)
	}
}

func TestSignInWrongCredentials(t *testing.T) {
	repo := newFakeProfileRepo()
	svc, _, _ := newTestAuth(repo)
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, "a@b.com", "secret1"); err != nil {
		t.Fatalf("signup: %v", err)
	}

	if _, _, err := svc.SignIn(ctx, "a@b.com", "wrong-pass"); domain.KindOf(err) != domain.KindUnauthorized {
		t.Fatalf("wrong password: expected Unauthorized, got %v", err)
	}
	if _, _, err := svc.SignIn(ctx, "nobody@b.com", "secret1"); domain.KindOf(err) != domain.KindUnauthorized {
		t.Fatalf("unknown account: expected Unauthorized, got %v", err)
	}
}

// 没点验证链接之前登录被拦，返回的错误要能区分出来好让前端提示重发
func TestSignInUnverifiedGate(t *testing.T) {
	svc, _, _ := newTestAuth(newFakeProfileRepo())
	ctx := context.Background()

	p, err := svc.SignUp(ctx, "a@b.com", "secret1")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	if _, _, err := svc.SignIn(ctx, "a@b.com", "secret1"); !errors.Is(err, domain.ErrEmailUnverified) {
		t.Fatalf("expected ErrEmailUnverified, got %v", err)
	}

	if err := svc.VerifyEmail(ctx, p.VerifyToken); err != nil {
		t.Fatalf("VerifyEmail: %v", err)
	}

	tok, got, err := svc.SignIn(ctx, "a@b.com", "secret1")
	if err != nil {
		t.Fatalf("SignIn after verify: %v", err)
	}
	if got.ID != p.ID {
		t.Fatalf("profile mismatch: %q vs %q", got.ID, p.ID)
	}
	if tok == "" {
		t.Fatalf("expected a token")
	}
}

// 签出来的 token 要能解析回 uid 和解析后的角色
func TestSignInTokenCarriesRole(t *testing.T) {
	repo := newFakeProfileRepo()
	svc, _, jwter := newTestAuth(repo)
	ctx := context.Background()

	p, err := svc.SignUp(ctx, "boss@b.com", "secret1")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if err := svc.VerifyEmail(ctx, p.VerifyToken); err != nil {
		t.Fatalf("verify: %v", err)
	}
	// 后台提权
	repo.byID[p.ID].Role = domain.RoleAdmin

	tok, _, err := svc.SignIn(ctx, "boss@b.com", "secret1")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	claims, err := jwter.Parse(tok)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.UID != p.ID || claims.Role != domain.RoleAdmin {
		t.Fatalf("claims = %+v, want uid=%s role=admin", claims, p.ID)
	}
}

func TestVerifyEmailBadToken(t *testing.T) {
	svc, _, _ := newTestAuth(newFakeProfileRepo())
	ctx := context.Background()

	if err := svc.VerifyEmail(ctx, "  "); !domain.IsValidation(err) {
		t.Fatalf("blank token must fail validation, got %v", err)
	}
	if err := svc.VerifyEmail(ctx, "not-a-real-token"); !domain.IsNotFound(err) {
		t.Fatalf("unknown token: expected NotFound, got %v", err)
	}
}

func TestResendVerification(t *testing.T) {
	repo := newFakeProfileRepo()
	svc, _, _ := newTestAuth(repo)
	ctx := context.Background()

	p, err := svc.SignUp(ctx, "a@b.com", "secret1")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	old := p.VerifyToken

	if err := svc.ResendVerification(ctx, "a@b.com"); err != nil {
		t.Fatalf("Resend: %v", err)
	}
	if repo.byID[p.ID].VerifyToken == old {
		t.Fatalf("resend must rotate the token")
	}

	if err := svc.ResendVerification(ctx, "nobody@b.com"); !domain.IsNotFound(err) {
		t.Fatalf("unknown email: expected NotFound, got %v", err)
	}

	if err := svc.VerifyEmail(ctx, repo.byID[p.ID].VerifyToken); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if err := svc.ResendVerification(ctx, "a@b.com"); !domain.IsValidation(err) {
		t.Fatalf("already verified: expected validation error, got %v", err)
	}
}

func TestSignOutRevokesJTI(t *testing.T) {
	svc, rev, jwter := newTestAuth(newFakeProfileRepo())
	ctx := context.Background()

	tok, err := jwter.Issue("u1", domain.RoleUser)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	claims, err := jwter.Parse(tok)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if err := svc.SignOut(ctx, claims); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if len(rev.revoked) != 1 || rev.revoked[0] != claims.ID {
		t.Fatalf("jti not revoked: %+v", rev.revoked)
	}

	// nil claims 容错
	if err := svc.SignOut(ctx, nil); err != nil {
		t.Fatalf("SignOut(nil): %v", err)
	}
}
