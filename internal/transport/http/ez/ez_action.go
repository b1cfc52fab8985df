package ez

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"go-rest-secure-api/internal/core/auth"
	"go-rest-secure-api/internal/domain"
	"go-rest-secure-api/internal/errs"
	"go-rest-secure-api/internal/transport/http/response"
)

type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ { return EZ{g: g} }

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param / c.PostForm 取
)

// 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method string // "GET" | "POST" | "PUT" | "DELETE"
	Path   string // 例："/auth/register"、"/files/:id"
	Binder Binder
	Perms  []domain.Permission // 满足任一即放行；为空则公开
	UseTx  bool                // 是否包事务（gorm.Transaction）
	Status int                 // 成功状态码，默认 200
	Handler func(c *gin.Context, tx *gorm.DB, in *I) (O, error)
}

// RegisterAction 注册一个带权限检查、绑定与统一错误映射的动作接口
func RegisterAction[I any, O any](e EZ, db *gorm.DB, a Action[I, O]) {
	h := func(c *gin.Context) {
		// 1) 权限
		if len(a.Perms) > 0 {
			p, ok := auth.PrincipalFromContext(c.Request.Context())
			if !ok {
				response.Abort(c, http.StatusUnauthorized, string(errs.KindTokenInvalid), "unauthorized")
				return
			}
			if !p.HasAny(a.Perms...) {
				response.Abort(c, http.StatusForbidden, string(errs.KindAccessDenied), "access denied")
				return
			}
		}

		// 2) 绑定入参
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		default: // BindNone
		}
		if bindErr != nil {
			response.Abort(c, http.StatusBadRequest, string(errs.KindBadRequest), bindErr.Error())
			return
		}

		// 3) 执行（可选事务）
		run := func(tx *gorm.DB) (O, error) { return a.Handler(c, tx, &in) }
		var out O
		var err error
		if a.UseTx {
			err = db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
				o, e := run(tx)
				out = o
				return e
			})
		} else {
			out, err = run(db.WithContext(c.Request.Context()))
		}

		// 4) 统一错误映射
		if err != nil {
			response.Fail(c, err)
			return
		}
		if c.Writer.Written() {
			// Handler 已自行写响应（下载等场景）
			return
		}
		status := a.Status
		if status == 0 {
			status = http.StatusOK
		}
		c.JSON(status, out)
	}

	mount(e.g, a.Method, a.Path, h)
}

// Raw 直接操作请求/响应流的动作（multipart 上传、二进制下载）
type Raw struct {
	Method  string
	Path    string
	Perms   []domain.Permission
	Handler gin.HandlerFunc
}

func RegisterRaw(e EZ, a Raw) {
	h := func(c *gin.Context) {
		if len(a.Perms) > 0 {
			p, ok := auth.PrincipalFromContext(c.Request.Context())
			if !ok {
				response.Abort(c, http.StatusUnauthorized, string(errs.KindTokenInvalid), "unauthorized")
				return
			}
			if !p.HasAny(a.Perms...) {
				response.Abort(c, http.StatusForbidden, string(errs.KindAccessDenied), "access denied")
				return
			}
		}
		a.Handler(c)
	}
	mount(e.g, a.Method, a.Path, h)
}

func mount(g *gin.RouterGroup, method, path string, h gin.HandlerFunc) {
	switch strings.ToUpper(method) {
	case http.MethodGet:
		g.GET(path, h)
	case http.MethodPut:
		g.PUT(path, h)
	case http.MethodDelete:
		g.DELETE(path, h)
	default: // 默认 POST
		g.POST(path, h)
	}
}
