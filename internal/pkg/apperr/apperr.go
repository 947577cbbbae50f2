package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an application error so the transport layer can map it
// to an HTTP status without inspecting message strings.
type Kind int

const (
	KindUnknown Kind = iota
	KindConflict
	KindForbidden
	KindInvalidState
	KindNotFound
	KindBadRequest
	KindGateway
)

// Sentinels for errors.Is checks across package boundaries.
var (
	ErrConflict     = &Error{kind: KindConflict, msg: "conflict"}
	ErrForbidden    = &Error{kind: KindForbidden, msg: "forbidden"}
	ErrInvalidState = &Error{kind: KindInvalidState, msg: "invalid state"}
	ErrNotFound     = &Error{kind: KindNotFound, msg: "not found"}
	ErrBadRequest   = &Error{kind: KindBadRequest, msg: "bad request"}
	ErrGateway      = &Error{kind: KindGateway, msg: "external gateway failure"}
)

type Error struct {
	kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.err
}

// Is matches any error of the same kind, so
// errors.Is(err, apperr.ErrConflict) works for every conflict error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.kind == t.kind
}

func (e *Error) Kind() Kind {
	return e.kind
}

func New(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Wrap keeps the cause reachable through errors.Unwrap.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{kind: kind, msg: msg, err: err}
}

func Conflict(msg string) *Error     { return New(KindConflict, msg) }
func Forbidden(msg string) *Error    { return New(KindForbidden, msg) }
func InvalidState(msg string) *Error { return New(KindInvalidState, msg) }
func NotFound(msg string) *Error     { return New(KindNotFound, msg) }
func BadRequest(msg string) *Error   { return New(KindBadRequest, msg) }

// Gateway wraps a failed external chat-backend call. The surrounding
// transaction must be rolled back by the caller.
func Gateway(op string, err error) *Error {
	return &Error{kind: KindGateway, msg: fmt.Sprintf("chat gateway %s failed", op), err: err}
}

// KindOf returns the kind of err if it carries one.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return KindUnknown
}
