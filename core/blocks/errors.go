package blocks

import (
	"errors"
	"fmt"
)

var (
	ErrMissingType     = errors.New("missing type")
	ErrMissingField    = errors.New("missing required field")
	ErrExpectedObject  = errors.New("expected JSON object")
	ErrExpectedArray   = errors.New("expected JSON array")
	ErrInvalidNumber   = errors.New("invalid number")
	ErrUnexpectedToken = errors.New("unexpected JSON token")
)

// Error is a decoding failure tied to a location in the source document.
type Error struct {
	Op   string // "decode", "block", "span", "item"
	Path string // e.g. "[3].children[1]"
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("blocks %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("blocks %s at %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func wrap(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Path: path, Err: err}
}

func missing(path, field string) error {
	return wrap("block", path+"."+field, ErrMissingField)
}
