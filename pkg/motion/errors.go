package motion

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupported indicates the backend cannot run on this platform.
	ErrUnsupported = errors.New("motion backend unsupported on this platform")
	// ErrClosed is returned by sinks used after Close.
	ErrClosed = errors.New("motion sink closed")
	// ErrInjection matches every InjectionError.
	ErrInjection = errors.New("motion injection failed")
)

// InjectionError records which sink operation failed.
type InjectionError struct {
	Op  string
	Err error
}

func (e *InjectionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InjectionError) Unwrap() error {
	return e.Err
}

func (e *InjectionError) Is(target error) bool {
	return target == ErrInjection
}

func injectionError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &InjectionError{Op: op, Err: err}
}
