package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind 错误类别，决定 HTTP 状态码
type Kind string

const (
	KindBadRequest     Kind = "BAD_REQUEST"
	KindBadCredentials Kind = "BAD_CREDENTIALS"
	KindTokenInvalid   Kind = "TOKEN_INVALID_OR_EXPIRED"
	KindTokenForbidden Kind = "TOKEN_FORBIDDEN"
	KindNotFound       Kind = "NOT_FOUND"
	KindAccessDenied   Kind = "ACCESS_DENIED"
	KindDatabase       Kind = "DATABASE_OPERATION_ERROR"
	KindNotImplemented Kind = "NOT_IMPLEMENTED"
	KindInternal       Kind = "INTERNAL_ERROR"
)

var statusOf = map[Kind]int{
	KindBadRequest:     http.StatusBadRequest,
	KindBadCredentials: http.StatusUnauthorized,
	KindTokenInvalid:   http.StatusUnauthorized,
	KindTokenForbidden: http.StatusForbidden,
	KindNotFound:       http.StatusNotFound,
	KindAccessDenied:   http.StatusForbidden,
	KindDatabase:       http.StatusInternalServerError,
	KindNotImplemented: http.StatusNotImplemented,
	KindInternal:       http.StatusInternalServerError,
}

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Status 未知错误按 500 处理
func (e *Error) Status() int {
	if s, ok := statusOf[e.Kind]; ok {
		return s
	}
	return http.StatusInternalServerError
}

func New(kind Kind, msg string) error { return &Error{Kind: kind, Msg: msg} }

func Wrap(kind Kind, msg string, err error) error { return &Error{Kind: kind, Msg: msg, Err: err} }

func BadRequest(msg string) error            { return New(KindBadRequest, msg) }
func BadCredentials(msg string) error        { return New(KindBadCredentials, msg) }
func TokenInvalid(msg string) error          { return New(KindTokenInvalid, msg) }
func NotFound(msg string) error              { return New(KindNotFound, msg) }
func AccessDenied(msg string) error          { return New(KindAccessDenied, msg) }
func Database(msg string, err error) error   { return Wrap(KindDatabase, msg, err) }
func NotImplemented(op string) error         { return New(KindNotImplemented, "operation not implemented: "+op) }
func Internal(msg string, err error) error   { return Wrap(KindInternal, msg, err) }

func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// From 任意 error 归一化为 *Error
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Kind: KindInternal, Msg: err.Error(), Err: err}
}
