package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"go-rest-secure-api/internal/domain"
	"go-rest-secure-api/pkg/utils"
)

// ErrTokenInvalid 签名/结构/过期统一归到这里，由上层决定 401 还是 403
var ErrTokenInvalid = errors.New("jwt token is expired or invalid")

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTer access 与 refresh 共用签名密钥，仅有效期不同
type JWTer struct {
	Secret     []byte
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func (j *JWTer) IssueAccess(u *domain.User) (string, error) {
	return j.issue(u, j.AccessTTL)
}

func (j *JWTer) IssueRefresh(u *domain.User) (string, error) {
	return j.issue(u, j.RefreshTTL)
}

func (j *JWTer) issue(u *domain.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			// iat/exp 只有秒级精度，jti 保证同一秒内两次签发也不同串
			ID:        utils.NewID(),
			Subject:   u.Email,
			Issuer:    j.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

// Parse 严格解析：签名错、结构错、已过期都返回 ErrTokenInvalid
func (j *JWTer) Parse(tokenStr string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, j.keyFunc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	c, ok := t.Claims.(*Claims)
	if !ok || !t.Valid {
		return nil, ErrTokenInvalid
	}
	return c, nil
}

func (j *JWTer) Subject(tokenStr string) (string, error) {
	c, err := j.Parse(tokenStr)
	if err != nil {
		return "", err
	}
	return c.Subject, nil
}

// IsExpired 只看内嵌过期时间，跳过过期校验以便读出 claims
func (j *JWTer) IsExpired(tokenStr string) (bool, error) {
	c, err := j.parseLenient(tokenStr)
	if err != nil {
		return false, err
	}
	if c.ExpiresAt == nil {
		return true, nil
	}
	return c.ExpiresAt.Before(time.Now()), nil
}

// Validate subject 匹配且未过期才为 true；结构/签名/过期问题一律报 ErrTokenInvalid
func (j *JWTer) Validate(tokenStr, expectedSubject string) (bool, error) {
	c, err := j.Parse(tokenStr)
	if err != nil {
		return false, err
	}
	return c.Subject == expectedSubject, nil
}

func (j *JWTer) parseLenient(tokenStr string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, j.keyFunc, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	c, ok := t.Claims.(*Claims)
	if !ok {
		return nil, ErrTokenInvalid
	}
	return c, nil
}

func (j *JWTer) keyFunc(token *jwt.Token) (interface{}, error) {
	if token.Method != jwt.SigningMethodHS256 {
		return nil, fmt.Errorf("unexpected alg")
	}
	return j.Secret, nil
}
