package content

import (
	"errors"

	errorslib "github.com/goliatone/go-errors"
)

// ErrorKind classifies report errors.
type ErrorKind string

const (
	KindSchema            ErrorKind = "schema"
	KindUnsupportedFormat ErrorKind = "unsupported_format"
	KindResource          ErrorKind = "resource"
	KindStyle             ErrorKind = "style"
	KindInternal          ErrorKind = "internal"
)

// Error wraps errors with a kind.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new report error.
func NewError(kind ErrorKind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf returns the kind of the first report error in the chain, or
// KindInternal for foreign errors.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var reportErr *Error
	if errors.As(err, &reportErr) {
		return reportErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

// AsGoError maps an error into a go-errors error.
func AsGoError(err error) *errorslib.Error {
	if err == nil {
		return nil
	}

	var ge *errorslib.Error
	if errors.As(err, &ge) {
		return ge
	}

	kind := KindInternal
	msg := err.Error()
	var reportErr *Error
	if errors.As(err, &reportErr) {
		kind = reportErr.Kind
		if reportErr.Msg != "" {
			msg = reportErr.Msg
		}
	}

	switch kind {
	case KindSchema:
		return errorslib.New(msg, errorslib.CategoryValidation).WithTextCode("schema")
	case KindStyle:
		return errorslib.New(msg, errorslib.CategoryValidation).WithTextCode("style")
	case KindUnsupportedFormat:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode("unsupported_format")
	case KindResource:
		return errorslib.New(msg, errorslib.CategoryNotFound).WithTextCode("resource")
	default:
		return errorslib.New(msg, errorslib.CategoryInternal).WithTextCode("internal")
	}
}
