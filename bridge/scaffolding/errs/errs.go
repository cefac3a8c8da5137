// Package errs provides the error type handlers return. Each code maps to an
// HTTP status; the errors middleware logs where the error was raised.
package errs

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"

	"github.com/jrazmi/flowdesk/infrastructure/web"
)

// ErrCode is an application error category.
type ErrCode int

const (
	OK ErrCode = iota
	InvalidArgument
	Unprocessable
	Unauthenticated
	PermissionDenied
	NotFound
	TooManyRequests
	BadGateway
	Internal
	InternalOnlyLog
)

var codeStatus = map[ErrCode]int{
	OK:               http.StatusOK,
	InvalidArgument:  http.StatusBadRequest,
	Unprocessable:    http.StatusUnprocessableEntity,
	Unauthenticated:  http.StatusUnauthorized,
	PermissionDenied: http.StatusForbidden,
	NotFound:         http.StatusNotFound,
	TooManyRequests:  http.StatusTooManyRequests,
	BadGateway:       http.StatusBadGateway,
	Internal:         http.StatusInternalServerError,
	InternalOnlyLog:  http.StatusInternalServerError,
}

// HTTPStatus returns the status written for code.
func (c ErrCode) HTTPStatus() int {
	if s, ok := codeStatus[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}

func (c ErrCode) String() string {
	return http.StatusText(c.HTTPStatus())
}

// Error is an error with a code, an optional set of field messages and the
// location it was created at.
type Error struct {
	Code     ErrCode           `json:"-"`
	Message  string            `json:"error"`
	Fields   map[string]string `json:"fields,omitempty"`
	FuncName string            `json:"-"`
	FileName string            `json:"-"`
	cause    error
}

func newError(code ErrCode, msg string, cause error) *Error {
	pc, filename, line, _ := runtime.Caller(2)
	e := &Error{
		Code:     code,
		Message:  msg,
		FileName: fmt.Sprintf("%s:%d", filename, line),
		cause:    cause,
	}
	if fn := runtime.FuncForPC(pc); fn != nil {
		e.FuncName = fn.Name()
	}
	return e
}

// New wraps err with code. The message shown is err's text.
func New(code ErrCode, err error) *Error {
	return newError(code, err.Error(), err)
}

// Newf builds an error from a format string.
func Newf(code ErrCode, format string, v ...any) *Error {
	return newError(code, fmt.Sprintf(format, v...), nil)
}

// NewFields builds an InvalidArgument error carrying per-field messages.
func NewFields(msg string, fields map[string]string) *Error {
	e := newError(InvalidArgument, msg, nil)
	e.Fields = fields
	return e
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

func (e *Error) Encode() ([]byte, string, error) {
	return web.ErrorResponse{Error: e.Message, Fields: e.Fields}.Encode()
}

func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// IsError reports whether err is or wraps an *Error.
func IsError(err error) bool {
	var e *Error
	return errors.As(err, &e)
}
