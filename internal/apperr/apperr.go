// Package apperr holds the error kinds shared by services and the HTTP layer.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindForbidden
	KindBusinessRule
	KindStore
	KindNotification
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindBusinessRule:
		return "business_rule"
	case KindStore:
		return "store"
	case KindNotification:
		return "notification"
	default:
		return "internal"
	}
}

// Error is a user facing error. Fields carries the individual messages when
// several problems are reported at once (validation, batch submissions).
type Error struct {
	Kind    Kind
	Message string
	Fields  []string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind, so callers can write
// errors.Is(err, apperr.ErrNotFound).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Kind == e.Kind
}

// Kind sentinels for errors.Is.
var (
	ErrValidation   = &Error{Kind: KindValidation}
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrForbidden    = &Error{Kind: KindForbidden}
	ErrBusinessRule = &Error{Kind: KindBusinessRule}
	ErrStore        = &Error{Kind: KindStore}
	ErrNotification = &Error{Kind: KindNotification}
)

func Validation(msg string, fields ...string) *Error {
	return &Error{Kind: KindValidation, Message: msg, Fields: fields}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

func BusinessRule(msg string) *Error {
	return &Error{Kind: KindBusinessRule, Message: msg}
}

func Store(op string, err error) *Error {
	return &Error{Kind: KindStore, Message: fmt.Sprintf("%s: %v", op, err), Err: err}
}

func Notification(msg string, err error) *Error {
	return &Error{Kind: KindNotification, Message: msg, Err: err}
}

// Batch reports every per-item problem of a batch submission, in input order.
func Batch(messages []string) *Error {
	quoted := make([]string, len(messages))
	for i, m := range messages {
		quoted[i] = "'" + m + "'"
	}
	return &Error{
		Kind:    KindBusinessRule,
		Message: "The following errors occurred: " + strings.Join(quoted, ", "),
		Fields:  messages,
	}
}

// KindOf returns the kind of err, KindInternal when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
