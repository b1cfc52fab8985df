package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"go-rest-secure-api/internal/core/auth"
	"go-rest-secure-api/internal/domain"
	"go-rest-secure-api/internal/errs"
)

func newTestJWTer() *auth.JWTer {
	return &auth.JWTer{
		Secret:     []byte("test-secret"),
		Issuer:     "test",
		AccessTTL:  time.Hour,
		RefreshTTL: 24 * time.Hour,
	}
}

func newAuthFixture() (*AuthService, *mockUserRepo, *mockTokenRepo) {
	users := newMockUserRepo()
	tokens := newMockTokenRepo()
	svc := NewAuthService(users, NewTokenLedger(tokens), newTestJWTer(), zap.NewNop())
	return svc, users, tokens
}

func TestRegisterUnknownRole(t *testing.T) {
	svc, _, _ := newAuthFixture()
	_, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "Ada", LastName: "L", Email: "ada@example.com",
		Password: "secret1", Role: "SUPERVISOR",
	})
	if !errs.IsKind(err, errs.KindBadRequest) {
		t.Fatalf("err = %v, want BadRequest", err)
	}
}

func TestRegisterIssuesPairAndLedgerRow(t *testing.T) {
	ctx := context.Background()
	svc, users, tokens := newAuthFixture()

	pair, err := svc.Register(ctx, RegisterInput{
		FirstName: "Ada", LastName: "L", Email: "ada@example.com",
		Password: "secret1", Role: "user",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected both tokens")
	}

	u, _ := users.FindByEmail(ctx, "ada@example.com")
	if u == nil {
		t.Fatal("user not persisted")
	}
	if u.Role != domain.RoleUser {
		t.Errorf("role = %q, want USER", u.Role)
	}
	if u.Status != domain.StatusActive {
		t.Errorf("status = %q, want ACTIVE", u.Status)
	}
	if u.PasswordHash == "secret1" {
		t.Error("password stored in clear")
	}

	// 只有 access token 落台账
	row, _ := tokens.FindByValue(ctx, pair.AccessToken)
	if row == nil {
		t.Fatal("access token not in ledger")
	}
	if refreshRow, _ := tokens.FindByValue(ctx, pair.RefreshToken); refreshRow != nil {
		t.Error("refresh token unexpectedly in ledger")
	}
}

func TestRegisterDuplicateEmailFailsBeforeTokens(t *testing.T) {
	ctx := context.Background()
	svc, _, tokens := newAuthFixture()

	in := RegisterInput{FirstName: "A", LastName: "B", Email: "dup@example.com", Password: "pw", Role: "USER"}
	if _, err := svc.Register(ctx, in); err != nil {
		t.Fatalf("first register: %v", err)
	}
	before := len(tokens.tokens)
	if _, err := svc.Register(ctx, in); err == nil {
		t.Fatal("expected duplicate email error")
	}
	if len(tokens.tokens) != before {
		t.Error("ledger grew despite failed registration")
	}
}

func TestAuthenticateBadCredentials(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAuthFixture()
	if _, err := svc.Register(ctx, RegisterInput{
		FirstName: "A", LastName: "B", Email: "a@example.com", Password: "right", Role: "USER",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	// 不存在的邮箱和口令错误给同一个错
	_, err := svc.Authenticate(ctx, "ghost@example.com", "whatever")
	if !errs.IsKind(err, errs.KindBadCredentials) {
		t.Fatalf("unknown email: err = %v, want BadCredentials", err)
	}
	_, err = svc.Authenticate(ctx, "a@example.com", "wrong")
	if !errs.IsKind(err, errs.KindBadCredentials) {
		t.Fatalf("wrong password: err = %v, want BadCredentials", err)
	}
}

func TestAuthenticateRevokesPriorTokens(t *testing.T) {
	ctx := context.Background()
	svc, users, tokens := newAuthFixture()

	first, err := svc.Register(ctx, RegisterInput{
		FirstName: "A", LastName: "B", Email: "a@example.com", Password: "pw", Role: "USER",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	second, err := svc.Authenticate(ctx, "a@example.com", "pw")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}

	old, _ := tokens.FindByValue(ctx, first.AccessToken)
	if !old.Expired || !old.Revoked {
		t.Error("prior token not revoked on new login")
	}

	u, _ := users.FindByEmail(ctx, "a@example.com")
	ledger := NewTokenLedger(tokens)
	valid, _ := ledger.FindValidByUserID(ctx, u.ID)
	if len(valid) != 1 || valid[0].Value != second.AccessToken {
		t.Errorf("expected exactly the new access token to be valid, got %d rows", len(valid))
	}
}

func TestAuthenticateTwiceInSameSecondSingleValidToken(t *testing.T) {
	ctx := context.Background()
	svc, users, tokens := newAuthFixture()

	if _, err := svc.Register(ctx, RegisterInput{
		FirstName: "A", LastName: "B", Email: "a@example.com", Password: "pw", Role: "USER",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	// 两次登录背靠背落在同一秒，token 串也不能撞车
	p1, err := svc.Authenticate(ctx, "a@example.com", "pw")
	if err != nil {
		t.Fatalf("first authenticate: %v", err)
	}
	p2, err := svc.Authenticate(ctx, "a@example.com", "pw")
	if err != nil {
		t.Fatalf("second authenticate: %v", err)
	}
	if p1.AccessToken == p2.AccessToken {
		t.Fatal("consecutive logins must issue distinct access tokens")
	}

	u, _ := users.FindByEmail(ctx, "a@example.com")
	valid, _ := NewTokenLedger(tokens).FindValidByUserID(ctx, u.ID)
	if len(valid) != 1 {
		t.Fatalf("valid rows = %d, want exactly 1", len(valid))
	}
	if valid[0].Value != p2.AccessToken {
		t.Error("the surviving row must be the latest access token")
	}
}

func TestRefreshIssuesNewAccessEchoesRefresh(t *testing.T) {
	ctx := context.Background()
	svc, _, tokens := newAuthFixture()

	pair, err := svc.Register(ctx, RegisterInput{
		FirstName: "A", LastName: "B", Email: "a@example.com", Password: "pw", Role: "USER",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	refreshed, err := svc.Refresh(ctx, BearerPrefix+pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.RefreshToken != pair.RefreshToken {
		t.Error("refresh token should be echoed unchanged")
	}
	if refreshed.AccessToken == pair.AccessToken {
		t.Error("expected a new access token")
	}
	subject, err := newTestJWTer().Subject(refreshed.AccessToken)
	if err != nil || subject != "a@example.com" {
		t.Errorf("new access subject = %q (%v), want refresh subject", subject, err)
	}

	old, _ := tokens.FindByValue(ctx, pair.AccessToken)
	if !old.Expired || !old.Revoked {
		t.Error("previous access token not revoked")
	}
	row, _ := tokens.FindByValue(ctx, refreshed.AccessToken)
	if row == nil || row.Expired || row.Revoked {
		t.Error("new access token should be the only valid ledger row")
	}
}

func TestRefreshRejectsBadHeader(t *testing.T) {
	svc, _, _ := newAuthFixture()

	for _, header := range []string{"", "Token abc", BearerPrefix + "garbage"} {
		_, err := svc.Refresh(context.Background(), header)
		if !errs.IsKind(err, errs.KindTokenInvalid) {
			t.Errorf("header %q: err = %v, want TokenInvalid", header, err)
		}
	}
}

func TestRefreshUnknownSubject(t *testing.T) {
	svc, _, _ := newAuthFixture()
	j := newTestJWTer()
	tok, err := j.IssueRefresh(&domain.User{Email: "ghost@example.com", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	_, err = svc.Refresh(context.Background(), BearerPrefix+tok)
	if !errs.IsKind(err, errs.KindTokenInvalid) {
		t.Fatalf("err = %v, want TokenInvalid", err)
	}
}

func TestRegisterThenReauthenticateFlow(t *testing.T) {
	ctx := context.Background()
	svc, _, tokens := newAuthFixture()

	pair, err := svc.Register(ctx, RegisterInput{
		FirstName: "Ann", LastName: "B", Email: "a@x.com", Password: "secret", Role: "USER",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	subject, err := newTestJWTer().Subject(pair.AccessToken)
	if err != nil || subject != "a@x.com" {
		t.Fatalf("access subject = %q (%v), want a@x.com", subject, err)
	}

	if _, err := svc.Authenticate(ctx, "a@x.com", "wrong"); !errs.IsKind(err, errs.KindBadCredentials) {
		t.Fatalf("wrong password: err = %v, want BadCredentials", err)
	}

	if _, err := svc.Authenticate(ctx, "a@x.com", "secret"); err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	first, _ := tokens.FindByValue(ctx, pair.AccessToken)
	if !first.Revoked {
		t.Error("token issued at register should be revoked after re-login")
	}
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	svc, _, tokens := newAuthFixture()

	pair, err := svc.Register(ctx, RegisterInput{
		FirstName: "A", LastName: "B", Email: "a@example.com", Password: "pw", Role: "USER",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := svc.Logout(ctx, BearerPrefix+pair.AccessToken); err != nil {
		t.Fatalf("logout: %v", err)
	}
	row, _ := tokens.FindByValue(ctx, pair.AccessToken)
	if !row.Expired || !row.Revoked {
		t.Error("logout should set both flags")
	}
	if row.Status != domain.StatusDeleted {
		t.Errorf("status = %q, want DELETED", row.Status)
	}

	// 没带 token 静默成功
	if err := svc.Logout(ctx, ""); err != nil {
		t.Errorf("logout without header: %v", err)
	}
	// 台账里查不到的 token 也静默忽略（refresh token 从不落台账）
	if err := svc.Logout(ctx, BearerPrefix+"not-in-ledger"); err != nil {
		t.Errorf("unknown token: %v", err)
	}
	if err := svc.Logout(ctx, BearerPrefix+pair.RefreshToken); err != nil {
		t.Errorf("refresh token logout: %v", err)
	}
}
