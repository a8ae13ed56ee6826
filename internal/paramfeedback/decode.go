package paramfeedback

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/TNO-S3/wuppiefuzz/internal/input"
)

// DecodeJSON parses a JSON response body into the chain's Value model, so it
// can be recorded with Store.RecordBody and, later, addressed by a Body
// ParameterAccess the same way a request's own body is. Numbers decode via
// json.Number (dec.UseNumber) to avoid silently losing integer precision
// before the float64 conversion Number leaf uses.
func DecodeJSON(data []byte) (input.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return input.Value{}, fmt.Errorf("paramfeedback: malformed JSON response: %w", err)
	}
	return fromAny(raw), nil
}

func fromAny(raw any) input.Value {
	switch v := raw.(type) {
	case nil:
		return input.Null()
	case bool:
		return input.Bool(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return input.Null()
		}
		return input.Number(f)
	case string:
		return input.String(v)
	case []any:
		items := make([]input.Value, len(v))
		for i, item := range v {
			items[i] = fromAny(item)
		}
		return input.Array(items...)
	case map[string]any:
		obj := input.NewObject()
		for name, item := range v {
			obj.Object.Set(name, fromAny(item))
		}
		return obj
	default:
		return input.Null()
	}
}
