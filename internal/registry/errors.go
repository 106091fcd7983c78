package registry

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Match them with errors.Is.
var (
	ErrNotFound   = errors.New("tool not found")
	ErrValidation = errors.New("invalid arguments")
	ErrDomain     = errors.New("domain error")
)

// Error is returned by Registry.Call for every classified failure.
type Error struct {
	Kind error  // one of ErrNotFound, ErrValidation, ErrDomain
	Tool string // requested tool name, may be empty
	Err  error  // underlying cause, nil for ErrNotFound

	// Suggestions holds registered names close to Tool when Kind is
	// ErrNotFound.
	Suggestions []string
}

func (e *Error) Error() string {
	if e.Kind == ErrNotFound {
		msg := "unknown tool: " + e.Tool
		if len(e.Suggestions) > 0 {
			msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(e.Suggestions, ", "))
		}
		return msg
	}
	detail := e.Kind.Error()
	if e.Err != nil {
		detail = e.Err.Error()
	}
	if e.Tool == "" {
		return detail
	}
	return e.Tool + ": " + detail
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Domain reports a handler-specific invalid input such as a zero divisor.
// Handlers return it; the registry fills in the tool name.
func Domain(format string, args ...any) error {
	return &Error{Kind: ErrDomain, Err: fmt.Errorf(format, args...)}
}

func invalid(tool string, err error) *Error {
	return &Error{Kind: ErrValidation, Tool: tool, Err: err}
}
