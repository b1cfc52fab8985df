package auth

import (
	"context"

	"go-rest-secure-api/internal/domain"
)

// Principal 请求级身份绑定，随 context 向下传递，不用全局槽位
type Principal struct {
	UserID string
	Email  string
	Role   domain.Role
}

func (p Principal) Has(perm domain.Permission) bool { return p.Role.Has(perm) }

func (p Principal) HasAny(perms ...domain.Permission) bool { return p.Role.HasAny(perms...) }

type principalContextKey struct{}

func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, &p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	v, ok := ctx.Value(principalContextKey{}).(*Principal)
	if !ok || v == nil {
		return Principal{}, false
	}
	return *v, true
}
