package openapi

import (
	"fmt"
	"regexp"
	"strings"
)

var pathPlaceholderRE = regexp.MustCompile(`\{([^}]+)\}`)

// Operation is one (path, method) pair together with its parameters,
// request body and possible responses — the "Operation" tuple of
type Operation struct {
	Location Location

	Method       Method
	PathTemplate string
	OperationID  string

	Parameters  []*Parameter
	RequestBody *RequestBody
	Responses   *OrderedMap[*Response] // keyed by status code string, or "default"
}

// PathPlaceholders returns the {name} segments of the path template, in
// order of first appearance.
func PathPlaceholders(pathTemplate string) []string {
	matches := pathPlaceholderRE.FindAllStringSubmatch(pathTemplate, -1)
	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = m[1]
	}
	return names
}

// ValidatePathParameters checks invariant I3: the path template's {name}
// placeholders must exactly match the operation's declared Path parameters.
func (o *Operation) ValidatePathParameters() error {
	declared := make(map[string]bool)
	for _, p := range o.Parameters {
		if p.In == InPath {
			declared[p.Name] = true
		}
	}
	placeholders := PathPlaceholders(o.PathTemplate)
	inPath := make(map[string]bool, len(placeholders))
	for _, name := range placeholders {
		inPath[name] = true
		if !declared[name] {
			return fmt.Errorf("%w: %q has no Path parameter for {%s}", ErrPathPlaceholderMismatch, o.PathTemplate, name)
		}
	}
	for name := range declared {
		if !inPath[name] {
			return fmt.Errorf("%w: Path parameter %q has no {%s} placeholder in %q", ErrPathPlaceholderMismatch, name, name, o.PathTemplate)
		}
	}
	return nil
}

// ParametersIn returns the operation's parameters located at in, in
// declaration order.
func (o *Operation) ParametersIn(in In) []*Parameter {
	var out []*Parameter
	for _, p := range o.Parameters {
		if p.In == in {
			out = append(out, p)
		}
	}
	return out
}

// LastPathSegment returns the path template's final non-templated segment,
// used as normalisation context in the dependency graph.
func LastPathSegment(pathTemplate string) string {
	segments := strings.Split(strings.Trim(pathTemplate, "/"), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if !strings.HasPrefix(segments[i], "{") {
			return segments[i]
		}
	}
	return ""
}

// LastPathSegmentBefore returns the last non-templated segment of
// pathTemplate that appears strictly before the {name} placeholder, used to
// compute a Path parameter's normalisation context.
func LastPathSegmentBefore(pathTemplate, name string) string {
	segments := strings.Split(strings.Trim(pathTemplate, "/"), "/")
	placeholder := "{" + name + "}"
	last := ""
	for _, seg := range segments {
		if seg == placeholder {
			break
		}
		if !strings.HasPrefix(seg, "{") {
			last = seg
		}
	}
	return last
}
