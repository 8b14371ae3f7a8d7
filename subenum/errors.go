package subenum

import (
	"errors"
	"fmt"
	"go/token"
)

var (
	ErrMalformedArgument = errors.New("malformed subenum argument")
	ErrNotEnum           = errors.New("not an enum")
	ErrMalformedMarker   = errors.New("malformed subenum marker")
	ErrUndeclaredSubset  = errors.New("undeclared subset")
	ErrDuplicateSubset   = errors.New("duplicate subset")
	ErrNaming            = errors.New("naming failed")
)

// Error is an expansion failure anchored at a source position.
type Error struct {
	Pos     token.Pos
	Kind    error // one of the Err* sentinels
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func errorf(pos token.Pos, kind error, format string, args ...any) *Error {
	return &Error{
		Pos:     pos,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}
