// Package provider defines the shared error type for failures surfaced by
// the external collaborators (calendar, email, language model).
package provider

import "fmt"

// Error wraps a transport or API failure from one of the downstream
// providers. The original cause is preserved for errors.Is/As.
type Error struct {
	Provider string // "calendar", "email", "llm"
	Op       string // e.g. "list_events", "send", "generate"
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s provider: %s: %v", e.Provider, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf builds a provider error wrapping err.
func Errorf(providerName, op string, err error) *Error {
	return &Error{Provider: providerName, Op: op, Err: err}
}
