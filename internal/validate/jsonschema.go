package validate

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/TNO-S3/wuppiefuzz/internal/input"
)

// ValidateJSONSchema checks body against a standalone JSON-Schema document
// (as opposed to an OpenAPI Schema Object reachable through the document's
// own $ref graph) by delegating to santhosh-tekuri/jsonschema/v5 rather than
// re-implementing the full oneOf/anyOf/allOf/not combinator semantics a
// second time for this narrower case.
func ValidateJSONSchema(schemaDoc map[string]any, body input.Value) *Error {
	raw, err := json.Marshal(schemaDoc)
	if err != nil {
		return newError(ResponseReferenceBroken, "", fmt.Sprintf("schema document is not valid JSON: %v", err))
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("wuppiefuzz://response-schema.json", bytes.NewReader(raw)); err != nil {
		return newError(ResponseReferenceBroken, "", err.Error())
	}
	schema, err := compiler.Compile("wuppiefuzz://response-schema.json")
	if err != nil {
		return newError(ResponseReferenceBroken, "", err.Error())
	}

	if err := schema.Validate(toPlainAny(body)); err != nil {
		return newError(ResponseObjectIncorrect, "", err.Error())
	}
	return nil
}

// toPlainAny converts v to the plain any tree (map[string]any, []any,
// float64, string, bool, nil) the jsonschema library expects as a validation
// document.
func toPlainAny(v input.Value) any {
	switch v.Kind {
	case input.KindNull:
		return nil
	case input.KindBool:
		return v.Bool
	case input.KindNumber:
		return v.Number
	case input.KindString:
		return v.String
	case input.KindBytes:
		return string(v.Bytes)
	case input.KindArray:
		out := make([]any, len(v.Array))
		for i, item := range v.Array {
			out[i] = toPlainAny(item)
		}
		return out
	case input.KindObject:
		out := make(map[string]any)
		if v.Object != nil {
			for i, name := range v.Object.Names {
				out[name] = toPlainAny(v.Object.Values[i])
			}
		}
		return out
	default:
		return nil
	}
}
