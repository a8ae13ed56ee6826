package openapi

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyRef is returned when a $ref is present but empty.
	ErrEmptyRef = errors.New("openapi: empty $ref")
	// ErrNotFound is returned when a $ref does not resolve to a component.
	ErrNotFound = errors.New("openapi: component not found")
	// ErrCycle is returned when resolving a $ref would recurse indefinitely
	// without an ignore-names guard terminating it.
	ErrCycle = errors.New("openapi: $ref cycle")
	// ErrMissingVersion is returned when neither openapi nor swagger version
	// fields are present in a document.
	ErrMissingVersion = errors.New("openapi: missing openapi version")
	// ErrPathPlaceholderMismatch is returned when a path template's {name}
	// placeholders don't exactly match its declared Path parameters (I3).
	ErrPathPlaceholderMismatch = errors.New("openapi: path placeholders do not match path parameters")
)

// Error wraps a sentinel error with the document Location it occurred at, so
// diagnostics can point back at the offending node in the spec.
type Error struct {
	Err      error
	Location Location
}

func newError(err error, loc Location) error {
	return &Error{Err: err, Location: loc}
}

func (e *Error) Error() string {
	if e.Location == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Err, e.Location)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// LoadError is a composite error enumerating every parse strategy (format x
// version) attempted while loading a document, none of which succeeded.
type LoadError struct {
	Attempts []error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("openapi: could not parse document with any known format/version (%d attempts): %s",
		len(e.Attempts), errors.Join(e.Attempts...))
}

func (e *LoadError) Unwrap() []error {
	return e.Attempts
}
