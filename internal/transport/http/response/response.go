package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"go-rest-secure-api/internal/errs"
)

// ErrorBody 统一错误体
type ErrorBody struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
}

func NewErrorBody(status int, kind, msg string) ErrorBody {
	return ErrorBody{
		Timestamp: time.Now(),
		Status:    status,
		Error:     kind,
		Message:   msg,
	}
}

// Fail 类型化错误映射到对应状态码，未知错误按 500
func Fail(c *gin.Context, err error) {
	e := errs.From(err)
	c.AbortWithStatusJSON(e.Status(), NewErrorBody(e.Status(), string(e.Kind), e.Msg))
}

func Abort(c *gin.Context, status int, kind, msg string) {
	c.AbortWithStatusJSON(status, NewErrorBody(status, kind, msg))
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}
