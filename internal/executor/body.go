package executor

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/TNO-S3/wuppiefuzz/internal/input"
)

// scalarString renders a leaf Value as the string form used for path
// segments, query/header/cookie values and form fields. Object and Array
// values have no scalar form and render empty.
func scalarString(v input.Value) string {
	switch v.Kind {
	case input.KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case input.KindNumber:
		return strconv.FormatFloat(v.Number, 'g', -1, 64)
	case input.KindString:
		return v.String
	case input.KindBytes:
		return string(v.Bytes)
	default:
		return ""
	}
}

// jsonAny converts v into the plain any tree encoding/json can marshal.
// Bytes have no JSON representation of their own, so they are carried as
// base64 text.
func jsonAny(v input.Value) any {
	switch v.Kind {
	case input.KindBool:
		return v.Bool
	case input.KindNumber:
		return v.Number
	case input.KindString:
		return v.String
	case input.KindBytes:
		return base64.StdEncoding.EncodeToString(v.Bytes)
	case input.KindArray:
		items := make([]any, len(v.Array))
		for i, item := range v.Array {
			items[i] = jsonAny(item)
		}
		return items
	case input.KindObject:
		obj := map[string]any{}
		if v.Object != nil {
			for i, name := range v.Object.Names {
				obj[name] = jsonAny(v.Object.Values[i])
			}
		}
		return obj
	default:
		return nil
	}
}

// formValues flattens v one level into url.Values, the way a browser form
// posts nested state: an array field repeats the key once per element, an
// object field is flattened to "field.subfield" keys.
func formValues(v input.Value) url.Values {
	values := url.Values{}
	if v.Kind != input.KindObject || v.Object == nil {
		return values
	}
	for i, name := range v.Object.Names {
		field := v.Object.Values[i]
		switch field.Kind {
		case input.KindArray:
			for _, item := range field.Array {
				values.Add(name, scalarString(item))
			}
		case input.KindObject:
			if field.Object != nil {
				for j, sub := range field.Object.Names {
					values.Add(name+"."+sub, scalarString(field.Object.Values[j]))
				}
			}
		default:
			values.Add(name, scalarString(field))
		}
	}
	return values
}

// encodeBody renders req's body per its BodyVariant, returning the wire
// bytes and the Content-Type header to send alongside them.
func encodeBody(req *input.Request) (body []byte, contentType string, err error) {
	switch req.Body {
	case input.BodyEmpty:
		return nil, "", nil
	case input.BodyTextPlain:
		return []byte(scalarString(req.BodyValue)), "text/plain; charset=utf-8", nil
	case input.BodyApplicationJSON:
		b, err := json.Marshal(jsonAny(req.BodyValue))
		if err != nil {
			return nil, "", fmt.Errorf("executor: encoding JSON body: %w", err)
		}
		return b, "application/json", nil
	case input.BodyFormURLEncoded:
		return []byte(formValues(req.BodyValue).Encode()), "application/x-www-form-urlencoded", nil
	default:
		return nil, "", nil
	}
}
