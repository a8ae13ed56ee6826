package openapi

import (
	"encoding/json"
	"strconv"
)

func loadSchema(loc Location, raw map[string]any) (*Schema, error) {
	if ref, ok := raw["$ref"].(string); ok {
		return &Schema{Location: loc, Ref: &Reference{Ref: ref}}, nil
	}

	s := &Schema{Location: loc}
	s.Type = loadSchemaType(raw["type"])
	s.Format, _ = raw["format"].(string)
	if enumRaw, ok := raw["enum"].([]any); ok {
		s.Enum = enumRaw
	}
	if c, ok := raw["const"]; ok {
		s.Const = &c
	}
	s.Default = raw["default"]
	s.Example = raw["example"]
	s.Nullable, _ = raw["nullable"].(bool)
	s.Pattern, _ = raw["pattern"].(string)

	s.Minimum = numPtr(raw["minimum"])
	s.Maximum = numPtr(raw["maximum"])
	s.MultipleOf = numPtr(raw["multipleOf"])
	s.MinLength = intPtr(raw["minLength"])
	s.MaxLength = intPtr(raw["maxLength"])
	s.MinItems = intPtr(raw["minItems"])
	s.MaxItems = intPtr(raw["maxItems"])

	// exclusiveMinimum/Maximum are bool in 3.0, a number in 3.1; we only
	// need the boolean "is the bound exclusive" fact, so a 3.1 numeric
	// exclusiveMinimum is treated as "exclusive, and also the minimum".
	switch v := raw["exclusiveMinimum"].(type) {
	case bool:
		s.ExclusiveMin = v
	default:
		if n := numPtr(v); n != nil {
			s.ExclusiveMin = true
			s.Minimum = n
		}
	}
	switch v := raw["exclusiveMaximum"].(type) {
	case bool:
		s.ExclusiveMax = v
	default:
		if n := numPtr(v); n != nil {
			s.ExclusiveMax = true
			s.Maximum = n
		}
	}

	if reqRaw, ok := raw["required"].([]any); ok {
		for _, r := range reqRaw {
			if name, ok := r.(string); ok {
				s.Required = append(s.Required, name)
			}
		}
	}

	if propsRaw, ok := raw["properties"].(map[string]any); ok {
		s.Properties = &OrderedMap[*Schema]{}
		for name, pRaw := range propsRaw {
			pMap, ok := pRaw.(map[string]any)
			if !ok {
				continue
			}
			child, err := loadSchema(loc.Append("properties").Append(name), pMap)
			if err != nil {
				return nil, err
			}
			s.Properties.Set(name, child)
		}
	}

	switch ap := raw["additionalProperties"].(type) {
	case map[string]any:
		child, err := loadSchema(loc.Append("additionalProperties"), ap)
		if err != nil {
			return nil, err
		}
		s.AdditionalProperties = child
	}

	if itemsRaw, ok := raw["items"].(map[string]any); ok {
		child, err := loadSchema(loc.Append("items"), itemsRaw)
		if err != nil {
			return nil, err
		}
		s.Items = child
	}

	var err error
	if s.AllOf, err = loadSchemaList(loc.Append("allOf"), raw["allOf"]); err != nil {
		return nil, err
	}
	if s.OneOf, err = loadSchemaList(loc.Append("oneOf"), raw["oneOf"]); err != nil {
		return nil, err
	}
	if s.AnyOf, err = loadSchemaList(loc.Append("anyOf"), raw["anyOf"]); err != nil {
		return nil, err
	}
	if notRaw, ok := raw["not"].(map[string]any); ok {
		child, err := loadSchema(loc.Append("not"), notRaw)
		if err != nil {
			return nil, err
		}
		s.Not = child
	}

	if discRaw, ok := raw["discriminator"].(map[string]any); ok {
		s.Discriminator = loadDiscriminator(discRaw)
	}

	return s, nil
}

func loadSchemaList(loc Location, raw any) ([]*Schema, error) {
	list, ok := raw.([]any)
	if !ok {
		return nil, nil
	}
	out := make([]*Schema, 0, len(list))
	for i, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		s, err := loadSchema(loc.Append(strconv.Itoa(i)), m)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func loadDiscriminator(raw map[string]any) *Discriminator {
	d := &Discriminator{Mapping: &OrderedMap[string]{}}
	d.PropertyName, _ = raw["propertyName"].(string)
	if mapRaw, ok := raw["mapping"].(map[string]any); ok {
		for k, v := range mapRaw {
			if ref, ok := v.(string); ok {
				d.Mapping.Set(k, ref)
			}
		}
	}
	return d
}

func loadSchemaType(raw any) []string {
	switch v := raw.(type) {
	case string:
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, t := range v {
			if s, ok := t.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func numPtr(v any) *float64 {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return nil
		}
		return &f
	case float64:
		return &n
	case int:
		f := float64(n)
		return &f
	default:
		return nil
	}
}

func intPtr(v any) *int {
	f := numPtr(v)
	if f == nil {
		return nil
	}
	i := int(*f)
	return &i
}
