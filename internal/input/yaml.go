package input

import (
	"encoding/base64"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/TNO-S3/wuppiefuzz/internal/openapi"
	"github.com/TNO-S3/wuppiefuzz/internal/paramaccess"
)

// wireChain/wireRequest/wireParameter are the on-disk shapes from ("Chain
// YAML"). A tuple-keyed map ("[name, kind]: <value>") is not representable
// as an idiomatic Go map with gopkg.in/yaml.v3, so parameters are written as
// a list of {name, kind, value} entries instead — same information, list-of-
// entries shape rather than a map with a composite key.
type wireChain struct {
	Requests []wireRequest `yaml:"requests"`
}

type wireRequest struct {
	Method     string          `yaml:"method"`
	Path       string          `yaml:"path"`
	Body       wireBody        `yaml:"body"`
	Parameters []wireParameter `yaml:"parameters"`
}

type wireBody struct {
	Empty           *struct{}  `yaml:"Empty,omitempty"`
	TextPlain       *wireValue `yaml:"TextPlain,omitempty"`
	ApplicationJSON *wireValue `yaml:"ApplicationJson,omitempty"`
	FormURLEncoded  *wireValue `yaml:"XWwwFormUrlencoded,omitempty"`
}

type wireParameter struct {
	Name  string    `yaml:"name"`
	Kind  string    `yaml:"kind"`
	Value wireValue `yaml:"value"`
}

// wireValue is the on-disk shape of a Value from: {object, array,
// leaf_value, bytes_b64, reference}.
type wireValue struct {
	Object    *wireObject    `yaml:"object,omitempty"`
	Array     *[]wireValue   `yaml:"array,omitempty"`
	LeafValue *wireLeaf      `yaml:"leaf_value,omitempty"`
	BytesB64  string         `yaml:"bytes_b64,omitempty"`
	Reference *wireReference `yaml:"reference,omitempty"`
}

type wireObject struct {
	Names  []string    `yaml:"names"`
	Values []wireValue `yaml:"values"`
}

type wireLeaf struct {
	Null   *struct{} `yaml:"Null,omitempty"`
	Bool   *bool     `yaml:"Bool,omitempty"`
	Number *float64  `yaml:"Number,omitempty"`
	String *string   `yaml:"String,omitempty"`
}

type wireReference struct {
	Request       int    `yaml:"request"`
	ParameterName string `yaml:"parameter_name"`
}

func toWireValue(v Value) wireValue {
	switch v.Kind {
	case KindNull:
		return wireValue{LeafValue: &wireLeaf{Null: &struct{}{}}}
	case KindBool:
		b := v.Bool
		return wireValue{LeafValue: &wireLeaf{Bool: &b}}
	case KindNumber:
		n := v.Number
		return wireValue{LeafValue: &wireLeaf{Number: &n}}
	case KindString:
		s := v.String
		return wireValue{LeafValue: &wireLeaf{String: &s}}
	case KindBytes:
		return wireValue{BytesB64: base64.StdEncoding.EncodeToString(v.Bytes)}
	case KindObject:
		obj := &wireObject{}
		if v.Object != nil {
			obj.Names = v.Object.Names
			obj.Values = make([]wireValue, len(v.Object.Values))
			for i, vv := range v.Object.Values {
				obj.Values[i] = toWireValue(vv)
			}
		}
		return wireValue{Object: obj}
	case KindArray:
		items := make([]wireValue, len(v.Array))
		for i, vv := range v.Array {
			items[i] = toWireValue(vv)
		}
		return wireValue{Array: &items}
	case KindReference:
		return wireValue{Reference: &wireReference{
			Request:       v.Ref.RequestIndex,
			ParameterName: v.Ref.Access.String(),
		}}
	default:
		return wireValue{}
	}
}

func fromWireValue(w wireValue) (Value, error) {
	switch {
	case w.LeafValue != nil:
		l := w.LeafValue
		switch {
		case l.Null != nil:
			return Null(), nil
		case l.Bool != nil:
			return Bool(*l.Bool), nil
		case l.Number != nil:
			return Number(*l.Number), nil
		case l.String != nil:
			return String(*l.String), nil
		default:
			return Null(), nil
		}
	case w.BytesB64 != "":
		b, err := base64.StdEncoding.DecodeString(w.BytesB64)
		if err != nil {
			return Value{}, fmt.Errorf("input: decoding bytes_b64: %w", err)
		}
		return Bytes(b), nil
	case w.Object != nil:
		obj := &Object{Names: append([]string(nil), w.Object.Names...)}
		obj.Values = make([]Value, len(w.Object.Values))
		for i, wv := range w.Object.Values {
			v, err := fromWireValue(wv)
			if err != nil {
				return Value{}, err
			}
			obj.Values[i] = v
		}
		return Value{Kind: KindObject, Object: obj}, nil
	case w.Array != nil:
		items := make([]Value, len(*w.Array))
		for i, wv := range *w.Array {
			v, err := fromWireValue(wv)
			if err != nil {
				return Value{}, err
			}
			items[i] = v
		}
		return Value{Kind: KindArray, Array: items}, nil
	case w.Reference != nil:
		access, err := paramaccess.ParseAccess(w.Reference.ParameterName)
		if err != nil {
			return Value{}, fmt.Errorf("input: parsing reference parameter_name: %w", err)
		}
		return RefValue(w.Reference.Request, access), nil
	default:
		return Null(), nil
	}
}

func toWireBody(variant BodyVariant, v Value) wireBody {
	wv := toWireValue(v)
	switch variant {
	case BodyTextPlain:
		return wireBody{TextPlain: &wv}
	case BodyApplicationJSON:
		return wireBody{ApplicationJSON: &wv}
	case BodyFormURLEncoded:
		return wireBody{FormURLEncoded: &wv}
	default:
		return wireBody{Empty: &struct{}{}}
	}
}

func fromWireBody(b wireBody) (BodyVariant, Value, error) {
	switch {
	case b.TextPlain != nil:
		v, err := fromWireValue(*b.TextPlain)
		return BodyTextPlain, v, err
	case b.ApplicationJSON != nil:
		v, err := fromWireValue(*b.ApplicationJSON)
		return BodyApplicationJSON, v, err
	case b.FormURLEncoded != nil:
		v, err := fromWireValue(*b.FormURLEncoded)
		return BodyFormURLEncoded, v, err
	default:
		return BodyEmpty, Null(), nil
	}
}

func kindToWire(in openapi.In) string {
	switch in {
	case openapi.InQuery:
		return "Query"
	case openapi.InPath:
		return "Path"
	case openapi.InHeader:
		return "Header"
	case openapi.InCookie:
		return "Cookie"
	default:
		return "Query"
	}
}

func wireToKind(s string) openapi.In {
	switch s {
	case "Path":
		return openapi.InPath
	case "Header":
		return openapi.InHeader
	case "Cookie":
		return openapi.InCookie
	default:
		return openapi.InQuery
	}
}

// MarshalYAML serialises the chain into Chain YAML shape.
func (c *Chain) MarshalYAML() ([]byte, error) {
	wc := wireChain{Requests: make([]wireRequest, len(c.Requests))}
	for i, r := range c.Requests {
		wr := wireRequest{
			Method: string(r.Method),
			Path:   r.PathTemplate,
			Body:   toWireBody(r.Body, r.BodyValue),
		}
		for key, v := range r.Parameters {
			wr.Parameters = append(wr.Parameters, wireParameter{
				Name:  key.Name,
				Kind:  kindToWire(key.In),
				Value: toWireValue(v),
			})
		}
		wc.Requests[i] = wr
	}
	return yaml.Marshal(wc)
}

// UnmarshalChainYAML parses the Chain YAML shape from
func UnmarshalChainYAML(data []byte) (*Chain, error) {
	var wc wireChain
	if err := yaml.Unmarshal(data, &wc); err != nil {
		return nil, fmt.Errorf("input: parsing chain yaml: %w", err)
	}
	c := &Chain{Requests: make([]*Request, len(wc.Requests))}
	for i, wr := range wc.Requests {
		variant, bodyVal, err := fromWireBody(wr.Body)
		if err != nil {
			return nil, err
		}
		req := &Request{
			Method:       openapi.Method(wr.Method),
			PathTemplate: wr.Path,
			Body:         variant,
			BodyValue:    bodyVal,
			Parameters:   make(map[ParameterKey]Value, len(wr.Parameters)),
		}
		for _, wp := range wr.Parameters {
			v, err := fromWireValue(wp.Value)
			if err != nil {
				return nil, err
			}
			req.Parameters[ParameterKey{In: wireToKind(wp.Kind), Name: wp.Name}] = v
		}
		c.Requests[i] = req
	}
	return c, nil
}
