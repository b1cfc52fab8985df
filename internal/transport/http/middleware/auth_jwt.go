package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-rest-secure-api/internal/core/auth"
	"go-rest-secure-api/internal/domain"
	"go-rest-secure-api/internal/errs"
	"go-rest-secure-api/internal/service"
	"go-rest-secure-api/internal/transport/http/response"
)

// AuthFilter 解析 Authorization 头并把 Principal 挂到请求上下文。
// 只有解析失败才 403；用户或台账校验不过就按匿名请求继续，
// 放不放行由各路由的权限检查决定（refresh token 从不落台账，必须能走到公开路由）。
func AuthFilter(j *auth.JWTer, users domain.UserRepository, ledger *service.TokenLedger, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, service.BearerPrefix) {
			c.Next()
			return
		}
		raw := strings.TrimPrefix(ah, service.BearerPrefix)

		subject, err := j.Subject(raw)
		if err != nil {
			log.Warn("令牌解析失败", zap.String("rid", c.GetString(KeyRequestID)), zap.Error(err))
			response.Abort(c, http.StatusForbidden, string(errs.KindTokenForbidden), "jwt token is expired or invalid")
			return
		}

		u, err := users.FindByEmail(c.Request.Context(), subject)
		if err != nil || u == nil {
			c.Next()
			return
		}
		stored, err := ledger.IsValid(c.Request.Context(), raw)
		if err != nil || !stored {
			c.Next()
			return
		}
		valid, err := j.Validate(raw, u.Email)
		if err != nil || !valid {
			c.Next()
			return
		}

		p := auth.Principal{UserID: u.ID, Email: u.Email, Role: u.Role}
		c.Request = c.Request.WithContext(auth.ContextWithPrincipal(c.Request.Context(), p))
		c.Set("principal", p)
		c.Next()
	}
}
