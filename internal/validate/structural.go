package validate

import (
	"math"
	"strconv"

	"github.com/TNO-S3/wuppiefuzz/internal/input"
	"github.com/TNO-S3/wuppiefuzz/internal/openapi"
)

// ValidateMediaType checks body against mt's declared schema A media type
// with no schema yields MediaTypeContainsNoSchema; a schema with no
// constraints at all yields SchemaIsAny — both configurable crash criteria
// flagging an under-specified contract rather than a malformed response.
func ValidateMediaType(components *openapi.Components, mt *openapi.MediaType, body input.Value) *Error {
	if mt == nil || mt.Schema == nil {
		return newError(MediaTypeContainsNoSchema, "", "response media type declares no schema")
	}
	resolved, err := components.ResolveSchema(mt.Schema)
	if err != nil {
		return newError(ResponseReferenceBroken, "", err.Error())
	}
	if isAnySchema(resolved) {
		return newError(SchemaIsAny, "", "schema imposes no constraints on the response body")
	}
	return CheckValue(components, resolved, body, "")
}

func isAnySchema(s *openapi.Schema) bool {
	if s == nil {
		return true
	}
	return len(s.Type) == 0 && s.Const == nil && len(s.Enum) == 0 &&
		s.Properties == nil && s.Items == nil &&
		len(s.AllOf) == 0 && len(s.OneOf) == 0 && len(s.AnyOf) == 0 && s.Not == nil
}

// CheckValue recursively validates v against schema, returning the first
// violation found with path prepended to every nested error so a caller can
// pinpoint the offending element.
func CheckValue(components *openapi.Components, schema *openapi.Schema, v input.Value, path string) *Error {
	resolved, err := components.ResolveSchema(schema)
	if err != nil {
		return newError(ResponseReferenceBroken, path, err.Error())
	}
	if resolved == nil {
		return nil
	}

	if resolved.Not != nil {
		if CheckValue(components, resolved.Not, v, path) == nil {
			return newError(ResponseObjectIncorrect, path, "value satisfies the schema under not")
		}
	}
	for _, sub := range resolved.AllOf {
		if e := CheckValue(components, sub, v, path); e != nil {
			return e
		}
	}
	if len(resolved.OneOf) > 0 {
		matches := 0
		for _, sub := range resolved.OneOf {
			if CheckValue(components, sub, v, path) == nil {
				matches++
			}
		}
		if matches != 1 {
			return newError(ResponseObjectIncorrect, path, "oneOf did not match exactly one variant")
		}
	}
	if len(resolved.AnyOf) > 0 {
		matched := false
		for _, sub := range resolved.AnyOf {
			if CheckValue(components, sub, v, path) == nil {
				matched = true
				break
			}
		}
		if !matched {
			return newError(ResponseObjectIncorrect, path, "anyOf matched no variant")
		}
	}

	switch v.Kind {
	case input.KindNull:
		if !resolved.Nullable && !resolved.HasType("null") && len(resolved.Type) > 0 {
			return newError(ResponseObjectIncorrect, path, "unexpected null")
		}
	case input.KindBool:
		if !resolved.HasType("boolean") {
			return newError(ResponseObjectIncorrect, path, "expected boolean")
		}
	case input.KindNumber:
		if !resolved.IsNumeric() {
			return newError(ResponseObjectIncorrect, path, "expected number")
		}
		if resolved.IsInteger() && v.Number != math.Trunc(v.Number) {
			return newError(ResponseObjectIncorrect, path, "expected integer")
		}
		if len(resolved.Enum) > 0 && !numberInEnum(resolved.Enum, v.Number) {
			return newError(ResponseEnumIncorrect, path, "value not in enum")
		}
	case input.KindString:
		if !resolved.IsString() {
			return newError(ResponseObjectIncorrect, path, "expected string")
		}
		if len(resolved.Enum) > 0 && !stringInEnum(resolved.Enum, v.String) {
			return newError(ResponseEnumIncorrect, path, "value not in enum")
		}
	case input.KindArray:
		if !resolved.IsArray() {
			return newError(ResponseObjectIncorrect, path, "expected array")
		}
		if resolved.Items != nil {
			for i, item := range v.Array {
				if e := CheckValue(components, resolved.Items, item, prefixPath(path, strconv.Itoa(i))); e != nil {
					return e
				}
			}
		}
	case input.KindObject:
		if !resolved.IsObject() {
			return newError(ResponseObjectIncorrect, path, "expected object")
		}
		if v.Object != nil {
			for i, name := range v.Object.Names {
				fieldPath := prefixPath(path, name)
				fieldSchema, declared := lookupProperty(resolved, name)
				if !declared {
					if resolved.AdditionalProperties == nil {
						if resolved.Properties == nil {
							continue
						}
						return newError(ResponseObjectIncorrect, fieldPath, "field not declared in schema")
					}
					fieldSchema = resolved.AdditionalProperties
				}
				if e := CheckValue(components, fieldSchema, v.Object.Values[i], fieldPath); e != nil {
					return e
				}
			}
		}
		for _, required := range resolved.Required {
			if _, ok := v.Object.Get(required); !ok {
				return newError(ResponseObjectIncorrect, prefixPath(path, required), "required field missing")
			}
		}
	case input.KindReference:
		return newError(ResponseReferenceBroken, path, "response body still contains an unresolved reference")
	}
	return nil
}

func lookupProperty(s *openapi.Schema, name string) (*openapi.Schema, bool) {
	if s.Properties == nil {
		return nil, false
	}
	return s.Properties.Get(name)
}

func numberInEnum(enum []any, n float64) bool {
	for _, v := range enum {
		switch e := v.(type) {
		case float64:
			if e == n {
				return true
			}
		case int:
			if float64(e) == n {
				return true
			}
		}
	}
	return false
}

func stringInEnum(enum []any, s string) bool {
	for _, v := range enum {
		if e, ok := v.(string); ok && e == s {
			return true
		}
	}
	return false
}
