package webhook

import (
	"unicode"
	"unicode/utf8"
)

// Result holds either the data of a successful call or a failure message.
type Result[T any] struct {
	data  T
	err   string
	cause error
	ok    bool
}

func Success[T any](data T) Result[T] {
	return Result[T]{data: data, ok: true}
}

func Failure[T any](message string) Result[T] {
	return Result[T]{err: message}
}

func failureFrom[T any](err error) Result[T] {
	return Result[T]{err: capitalize(err.Error()), cause: err}
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func (r Result[T]) IsSuccess() bool { return r.ok }

func (r Result[T]) IsFailure() bool { return !r.ok }

// Data returns the payload; the second value is false for failures.
func (r Result[T]) Data() (T, bool) {
	return r.data, r.ok
}

// Err returns the failure message, empty for successes.
func (r Result[T]) Err() string {
	return r.err
}

// Cause returns the error behind a failure produced by the processor, nil
// otherwise.
func (r Result[T]) Cause() error {
	return r.cause
}
