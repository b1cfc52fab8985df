package service

import (
	"context"
	"testing"

	"go-rest-secure-api/internal/domain"
	"go-rest-secure-api/internal/errs"
)

func TestTokenLedgerSaveDerivesStatus(t *testing.T) {
	ctx := context.Background()
	ledger := NewTokenLedger(newMockTokenRepo())

	saved, err := ledger.Save(ctx, &domain.Token{Value: "tok-1", UserID: "u1"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.ID == "" {
		t.Error("expected generated id")
	}
	if saved.TokenType != domain.TokenTypeBearer {
		t.Errorf("token type = %q, want BEARER", saved.TokenType)
	}
	if saved.Status != domain.StatusActive {
		t.Errorf("status = %q, want ACTIVE", saved.Status)
	}
	if saved.CreatedAt.IsZero() || saved.UpdatedAt.IsZero() {
		t.Error("timestamps not stamped")
	}

	saved.Expired = true
	saved, err = ledger.Save(ctx, saved)
	if err != nil {
		t.Fatalf("re-save: %v", err)
	}
	if saved.Status != domain.StatusDeleted {
		t.Errorf("status after expiry = %q, want DELETED", saved.Status)
	}
}

func TestTokenLedgerHalfFlaggedStillValid(t *testing.T) {
	ctx := context.Background()
	repo := newMockTokenRepo()
	ledger := NewTokenLedger(repo)

	if _, err := ledger.Save(ctx, &domain.Token{Value: "half", UserID: "u1", Revoked: true}); err != nil {
		t.Fatalf("save: %v", err)
	}

	// revoked 单独置位不算出局，两个标志都置位才收敛
	valid, err := ledger.FindValidByUserID(ctx, "u1")
	if err != nil {
		t.Fatalf("find valid: %v", err)
	}
	if len(valid) != 1 {
		t.Fatalf("valid count = %d, want 1", len(valid))
	}
}

func TestTokenLedgerRevokeAll(t *testing.T) {
	ctx := context.Background()
	repo := newMockTokenRepo()
	ledger := NewTokenLedger(repo)

	for _, v := range []string{"a", "b", "c"} {
		if _, err := ledger.Save(ctx, &domain.Token{Value: v, UserID: "u1"}); err != nil {
			t.Fatalf("save %s: %v", v, err)
		}
	}
	if _, err := ledger.Save(ctx, &domain.Token{Value: "other", UserID: "u2"}); err != nil {
		t.Fatalf("save other: %v", err)
	}

	if err := ledger.RevokeAll(ctx, "u1"); err != nil {
		t.Fatalf("revoke all: %v", err)
	}

	valid, _ := ledger.FindValidByUserID(ctx, "u1")
	if len(valid) != 0 {
		t.Errorf("u1 valid count = %d, want 0", len(valid))
	}
	for _, v := range []string{"a", "b", "c"} {
		tok, _ := repo.FindByValue(ctx, v)
		if !tok.Expired || !tok.Revoked {
			t.Errorf("token %s: expired=%v revoked=%v, want both true", v, tok.Expired, tok.Revoked)
		}
		if tok.Status != domain.StatusDeleted {
			t.Errorf("token %s status = %q, want DELETED", v, tok.Status)
		}
	}

	other, _ := ledger.FindValidByUserID(ctx, "u2")
	if len(other) != 1 {
		t.Errorf("u2 valid count = %d, want 1", len(other))
	}
}

func TestTokenLedgerFindByValueMissing(t *testing.T) {
	ledger := NewTokenLedger(newMockTokenRepo())
	_, err := ledger.FindByValue(context.Background(), "nope")
	if !errs.IsKind(err, errs.KindNotFound) {
		t.Fatalf("err = %v, want NotFound", err)
	}
}

func TestTokenLedgerIsValid(t *testing.T) {
	ctx := context.Background()
	ledger := NewTokenLedger(newMockTokenRepo())

	// 台账里没有的按无效处理，不报错
	ok, err := ledger.IsValid(ctx, "absent")
	if err != nil || ok {
		t.Fatalf("absent: ok=%v err=%v, want false nil", ok, err)
	}

	if _, err := ledger.Save(ctx, &domain.Token{Value: "live", UserID: "u1"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	ok, _ = ledger.IsValid(ctx, "live")
	if !ok {
		t.Error("live token should be valid")
	}

	if _, err := ledger.Save(ctx, &domain.Token{Value: "dead", UserID: "u1", Expired: true, Revoked: true}); err != nil {
		t.Fatalf("save: %v", err)
	}
	ok, _ = ledger.IsValid(ctx, "dead")
	if ok {
		t.Error("dead token should be invalid")
	}
}
