package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-rest-secure-api/internal/core/auth"
	"go-rest-secure-api/internal/domain"
	"go-rest-secure-api/internal/errs"
	"go-rest-secure-api/internal/repo"
	"go-rest-secure-api/internal/service"
	"go-rest-secure-api/internal/transport/http/ez"
	"go-rest-secure-api/internal/transport/http/response"
)

type AuthHandler struct {
	db    *gorm.DB
	jwter *auth.JWTer
	log   *zap.Logger
}

func NewAuthHandler(db *gorm.DB, jwter *auth.JWTer, log *zap.Logger) *AuthHandler {
	return &AuthHandler{db: db, jwter: jwter, log: log}
}

func (h *AuthHandler) Priority() int { return 10 }

// 每个请求在自己的事务里拿一套仓储和编排层
func (h *AuthHandler) svc(tx *gorm.DB) *service.AuthService {
	return service.NewAuthService(
		repo.NewUserRepo(tx),
		service.NewTokenLedger(repo.NewTokenRepo(tx)),
		h.jwter, h.log)
}

func (h *AuthHandler) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g)

	type registerIn struct {
		FirstName string `json:"firstName" binding:"required,max=64"`
		LastName  string `json:"lastName"  binding:"required,max=64"`
		Email     string `json:"email"     binding:"required,email"`
		Password  string `json:"password"  binding:"required,min=6"`
		Role      string `json:"role"      binding:"required"`
	}
	ez.RegisterAction(e, h.db, ez.Action[registerIn, *service.TokenPair]{
		Method: http.MethodPost,
		Path:   "/auth/register",
		Binder: ez.BindJSON,
		Perms:  []domain.Permission{domain.PermManageUsers, domain.PermManageRoles},
		UseTx:  true,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, tx *gorm.DB, in *registerIn) (*service.TokenPair, error) {
			return h.svc(tx).Register(c.Request.Context(), service.RegisterInput{
				FirstName: in.FirstName,
				LastName:  in.LastName,
				Email:     in.Email,
				Password:  in.Password,
				Role:      in.Role,
			})
		},
	})

	type authIn struct {
		Email    string `json:"email"    binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	ez.RegisterAction(e, h.db, ez.Action[authIn, *service.TokenPair]{
		Method: http.MethodPost,
		Path:   "/auth/authenticate",
		Binder: ez.BindJSON,
		UseTx:  true,
		Handler: func(c *gin.Context, tx *gorm.DB, in *authIn) (*service.TokenPair, error) {
			return h.svc(tx).Authenticate(c.Request.Context(), in.Email, in.Password)
		},
	})

	// 刷新结果直接写响应流，成功 200、失败 401 均在此落笔
	ez.RegisterRaw(e, ez.Raw{
		Method: http.MethodPost,
		Path:   "/auth/refresh_token",
		Handler: func(c *gin.Context) {
			ctx := c.Request.Context()
			var pair *service.TokenPair
			err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
				p, e := h.svc(tx).Refresh(ctx, c.GetHeader("Authorization"))
				pair = p
				return e
			})
			if err != nil {
				e := errs.From(err)
				c.JSON(e.Status(), response.NewErrorBody(e.Status(), string(e.Kind), e.Msg))
				return
			}
			c.JSON(http.StatusOK, pair)
		},
	})

	ez.RegisterAction(e, h.db, ez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/auth/logout",
		Binder: ez.BindNone,
		UseTx:  true,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) (gin.H, error) {
			if err := h.svc(tx).Logout(c.Request.Context(), c.GetHeader("Authorization")); err != nil {
				return nil, err
			}
			return gin.H{"message": "logged out"}, nil
		},
	})
}
