package openapi

import (
	"fmt"
	"strings"
)

// Reference is a $ref pointer, always local to the loaded document
// (`#/components/...`) once Load has inlined any external documents.
type Reference struct {
	Ref string
}

// componentPath splits "#/components/schemas/Foo" into ("schemas", "Foo").
func componentPath(ref string) (section, name string, err error) {
	if ref == "" {
		return "", "", ErrEmptyRef
	}
	const prefix = "#/components/"
	if !strings.HasPrefix(ref, prefix) {
		return "", "", fmt.Errorf("%w: %q is not a local component reference", ErrNotFound, ref)
	}
	rest := strings.TrimPrefix(ref, prefix)
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("%w: %q", ErrNotFound, ref)
	}
	return parts[0], unescapePointer(parts[1]), nil
}

func unescapePointer(s string) string {
	s = strings.ReplaceAll(s, "~1", "/")
	s = strings.ReplaceAll(s, "~0", "~")
	return s
}

// resolveSchema follows Ref until it reaches an inline schema, bounded by
// ignoreNames: a ref whose component name is already in ignoreNames
// terminates the walk by returning the schema as-is instead of recursing,
// which is how "AllOf includes self" patterns terminate.
func resolveSchema(c *Components, ref string, ignoreNames map[string]bool) (*Schema, error) {
	section, name, err := componentPath(ref)
	if err != nil {
		return nil, err
	}
	if section != "schemas" {
		return nil, fmt.Errorf("%w: %q does not reference a schema", ErrNotFound, ref)
	}
	if ignoreNames[name] {
		s, ok := c.Schemas.Get(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, ref)
		}
		return s, nil
	}
	s, ok := c.Schemas.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, ref)
	}
	if s.Ref != nil {
		next := map[string]bool{name: true}
		for k := range ignoreNames {
			next[k] = true
		}
		return resolveSchema(c, s.Ref.Ref, next)
	}
	return s, nil
}

func resolveParameter(c *Components, ref string) (*Parameter, error) {
	section, name, err := componentPath(ref)
	if err != nil {
		return nil, err
	}
	if section != "parameters" {
		return nil, fmt.Errorf("%w: %q does not reference a parameter", ErrNotFound, ref)
	}
	p, ok := c.Parameters.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, ref)
	}
	return p, nil
}

func resolveRequestBody(c *Components, ref string) (*RequestBody, error) {
	section, name, err := componentPath(ref)
	if err != nil {
		return nil, err
	}
	if section != "requestBodies" {
		return nil, fmt.Errorf("%w: %q does not reference a requestBody", ErrNotFound, ref)
	}
	b, ok := c.RequestBodies.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, ref)
	}
	return b, nil
}

func resolveResponse(c *Components, ref string) (*Response, error) {
	section, name, err := componentPath(ref)
	if err != nil {
		return nil, err
	}
	if section != "responses" {
		return nil, fmt.Errorf("%w: %q does not reference a response", ErrNotFound, ref)
	}
	r, ok := c.Responses.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, ref)
	}
	return r, nil
}
