package translator

import (
	"errors"
	"fmt"

	"github.com/valpere/polytran/internal/language"
)

var (
	// ErrUnsupported means the backend does not implement the operation.
	ErrUnsupported = errors.New("operation not supported by backend")
	// ErrNoResult means the backend ran but produced nothing usable.
	ErrNoResult = errors.New("backend returned no result")
	// ErrUnsupportedLanguage means the language is known but the backend
	// does not handle it.
	ErrUnsupportedLanguage = errors.New("language not supported by backend")
)

// OperationError wraps a failure raised while a backend ran an operation.
type OperationError struct {
	Service string
	Op      Operation
	Err     error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Service, e.Op, e.Err)
}

func (e *OperationError) Unwrap() error { return e.Err }

// UnknownBackendError is returned when a backend name matches nothing
// registered. Guess is the closest registered name.
type UnknownBackendError struct {
	Name       string
	Guess      string
	Similarity float64
}

func (e *UnknownBackendError) Error() string {
	if e.Guess == "" {
		return fmt.Sprintf("unknown backend %q", e.Name)
	}
	return fmt.Sprintf("unknown backend %q (did you mean %s? similarity %.2f)", e.Name, e.Guess, e.Similarity)
}

// Error kinds reported by Kind.
const (
	KindUnsupportedOperation = "UnsupportedOperation"
	KindUnsupportedLanguage  = "UnsupportedLanguage"
	KindNoResult             = "NoResult"
	KindUnknownLanguage      = "UnknownLanguage"
	KindUnknownBackend       = "UnknownBackend"
	KindOperationError       = "OperationError"
)

// Kind classifies err into one of the Kind* constants. nil maps to "".
func Kind(err error) string {
	var unknownLang *language.UnknownLanguageError
	var unknownBackend *UnknownBackendError

	switch {
	case err == nil:
		return ""
	case errors.As(err, &unknownLang):
		return KindUnknownLanguage
	case errors.As(err, &unknownBackend):
		return KindUnknownBackend
	case errors.Is(err, ErrUnsupported):
		return KindUnsupportedOperation
	case errors.Is(err, ErrUnsupportedLanguage):
		return KindUnsupportedLanguage
	case errors.Is(err, ErrNoResult):
		return KindNoResult
	default:
		return KindOperationError
	}
}
