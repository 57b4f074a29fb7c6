package store

import (
	"errors"
	"fmt"
)

// Kind classifies every failure the store reports. The set is closed.
type Kind int

const (
	// KindOther covers driver, network and decoding failures.
	KindOther Kind = iota
	// KindValidation means a document failed its schema.
	KindValidation
	// KindMalformedQuery means the query could not run: a malformed id, or an id
	// that matched no document.
	KindMalformedQuery
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindMalformedQuery:
		return "CastError"
	default:
		return "Error"
	}
}

// Error is the typed failure returned by FarmStore and ProductStore.
type Error struct {
	Kind  Kind
	Model string
	msg   string
	Err   error
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.Err }

// KindOf reports the Kind of err, KindOther when err did not come from the store.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindOther
}

// Invalid wraps a schema failure of model.
func Invalid(model string, err error) *Error {
	return &Error{
		Kind:  KindValidation,
		Model: model,
		msg:   fmt.Sprintf("%s validation failed: %v", model, err),
		Err:   err,
	}
}

// CastFailed reports a value at path that could not be converted.
func CastFailed(model, path, value, to string, err error) *Error {
	return &Error{
		Kind:  KindMalformedQuery,
		Model: model,
		msg:   fmt.Sprintf("Cast to %s failed for value %q (type string) at path %q for model %q", to, value, path, model),
		Err:   err,
	}
}

// NotFound reports an id lookup that matched nothing.
func NotFound(model, id string) *Error {
	return &Error{
		Kind:  KindMalformedQuery,
		Model: model,
		msg:   fmt.Sprintf("No document found for query \"{ _id: %q }\" on model %q", id, model),
	}
}

// Failed wraps any other failure of op on model.
func Failed(model, op string, err error) *Error {
	return &Error{
		Kind:  KindOther,
		Model: model,
		msg:   fmt.Sprintf("%s %s: %v", model, op, err),
		Err:   err,
	}
}
