package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"go-rest-secure-api/internal/core/auth"
	"go-rest-secure-api/internal/domain"
	"go-rest-secure-api/internal/errs"
	"go-rest-secure-api/pkg/utils"
)

const BearerPrefix = "Bearer "

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      string
}

// AuthService register / authenticate / refresh / logout 的编排层，
// 自身无状态，身份和 token 全部委托给 user 仓储与台账
type AuthService struct {
	users  domain.UserRepository
	ledger *TokenLedger
	jwter  *auth.JWTer
	log    *zap.Logger
}

func NewAuthService(users domain.UserRepository, ledger *TokenLedger, jwter *auth.JWTer, log *zap.Logger) *AuthService {
	return &AuthService{users: users, ledger: ledger, jwter: jwter, log: log}
}

// Register 邮箱唯一性交给存储层约束，冲突时在发 token 之前就失败；
// 身份是新建的，不可能有历史 token，所以这里不做吊销
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*TokenPair, error) {
	role := domain.Role(strings.ToUpper(in.Role))
	if !role.Valid() {
		return nil, errs.BadRequest("unknown role: " + in.Role)
	}
	u := &domain.User{
		ID:           utils.NewID(),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: utils.HashPassword(in.Password),
		Role:         role,
		Status:       domain.StatusActive,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	pair, err := s.issuePair(ctx, u)
	if err != nil {
		return nil, err
	}
	s.log.Info("user registered", zap.String("user_id", u.ID))
	return pair, nil
}

// Authenticate 口令不匹配和邮箱不存在给同一个错，不泄露账号是否存在
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*TokenPair, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil || !utils.CheckPassword(password, u.PasswordHash) {
		return nil, errs.BadCredentials("invalid email or password")
	}

	if err := s.ledger.RevokeAll(ctx, u.ID); err != nil {
		return nil, err
	}
	pair, err := s.issuePair(ctx, u)
	if err != nil {
		return nil, err
	}
	s.log.Info("user authenticated", zap.String("user_id", u.ID))
	return pair, nil
}

// Refresh 只换发 access token，refresh token 原样带回；
// 任何校验失败都归为 TokenInvalid，由 handler 直接写 401
func (s *AuthService) Refresh(ctx context.Context, authHeader string) (*TokenPair, error) {
	if !strings.HasPrefix(authHeader, BearerPrefix) {
		return nil, errs.TokenInvalid("invalid or missing authorization header")
	}
	refreshToken := strings.TrimPrefix(authHeader, BearerPrefix)

	subject, err := s.jwter.Subject(refreshToken)
	if err != nil {
		return nil, errs.TokenInvalid("jwt token is expired or invalid")
	}
	u, err := s.users.FindByEmail(ctx, subject)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, errs.TokenInvalid("jwt token is expired or invalid")
	}
	ok, err := s.jwter.Validate(refreshToken, u.Email)
	if err != nil || !ok {
		return nil, errs.TokenInvalid("jwt token is expired or invalid")
	}

	accessToken, err := s.jwter.IssueAccess(u)
	if err != nil {
		return nil, errs.Internal("failed to issue access token", err)
	}
	if err := s.ledger.RevokeAll(ctx, u.ID); err != nil {
		return nil, err
	}
	if _, err := s.ledger.Save(ctx, &domain.Token{Value: accessToken, UserID: u.ID}); err != nil {
		return nil, err
	}
	s.log.Info("token refreshed", zap.String("user_id", u.ID))
	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Logout 将当前 token 置为 expired+revoked；没带 token 或台账里查不到都静默返回
// （refresh token 从不落台账，注销时带的就是它的话走的正是静默分支）
func (s *AuthService) Logout(ctx context.Context, authHeader string) error {
	if !strings.HasPrefix(authHeader, BearerPrefix) {
		return nil
	}
	value := strings.TrimPrefix(authHeader, BearerPrefix)
	t, err := s.ledger.FindByValue(ctx, value)
	if err != nil {
		if errs.IsKind(err, errs.KindNotFound) {
			return nil
		}
		return err
	}
	t.Expired = true
	t.Revoked = true
	_, err = s.ledger.Save(ctx, t)
	return err
}

func (s *AuthService) issuePair(ctx context.Context, u *domain.User) (*TokenPair, error) {
	accessToken, err := s.jwter.IssueAccess(u)
	if err != nil {
		return nil, errs.Internal("failed to issue access token", err)
	}
	refreshToken, err := s.jwter.IssueRefresh(u)
	if err != nil {
		return nil, errs.Internal("failed to issue refresh token", err)
	}
	if _, err := s.ledger.Save(ctx, &domain.Token{Value: accessToken, UserID: u.ID}); err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
