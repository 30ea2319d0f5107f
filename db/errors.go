package db

import (
	"github.com/pkg/errors"
)

// Kind classifies a store failure.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindBadRequest
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindBadRequest:
		return "bad_request"
	case KindForbidden:
		return "forbidden"
	default:
		return "internal"
	}
}

// Error is a failure the caller caused and can be told about.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func NotFound(message string) error   { return &Error{Kind: KindNotFound, Message: message} }
func Conflict(message string) error   { return &Error{Kind: KindConflict, Message: message} }
func BadRequest(message string) error { return &Error{Kind: KindBadRequest, Message: message} }
func Forbidden(message string) error  { return &Error{Kind: KindForbidden, Message: message} }

// KindOf returns the kind of err, or KindInternal if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// Messages shared by both store backends.
const (
	msgUserNotFound    = "User doesn't exists"
	msgTodoNotFound    = "Todo not found"
	msgUsernameTaken   = "Username already exists"
	msgAlreadyPro      = "Pro plan is already activated."
	msgQuotaReached    = "Limit reached, signing the Pro Plan"
	msgIncompleteInput = "name and username are required"
)

// ErrQuotaReached is returned when a free user already holds FreeTodoLimit todos.
var ErrQuotaReached = Forbidden(msgQuotaReached)
