package openapi

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Load parses raw into a normalised Document. It tries JSON first, then
// YAML; if both decodes fail, it returns a *LoadError enumerating both
// attempts rather than only the last one, so a caller can see why every
// strategy failed.
func Load(raw []byte) (*Document, error) {
	node, jsonErr := decodeJSON(raw)
	if jsonErr != nil {
		var yamlErr error
		node, yamlErr = decodeYAML(raw)
		if yamlErr != nil {
			return nil, &LoadError{Attempts: []error{
				fmt.Errorf("as json: %w", jsonErr),
				fmt.Errorf("as yaml: %w", yamlErr),
			}}
		}
	}
	return fromRaw(node)
}

func decodeJSON(raw []byte) (map[string]any, error) {
	var node map[string]any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&node); err != nil {
		return nil, err
	}
	return node, nil
}

func decodeYAML(raw []byte) (map[string]any, error) {
	var node map[string]any
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return nil, err
	}
	return normalizeYAMLKeys(node), nil
}

// normalizeYAMLKeys returns the map[string]interface{} produced by yaml.v3
// unchanged, converting nothing: yaml.v3 already uses string keys, unlike
// yaml.v2's map[interface{}]interface{}. It is a no-op pass-through hook so a
// future yaml.v2 fallback could reuse the same normalisation path.
func normalizeYAMLKeys(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func fromRaw(raw map[string]any) (*Document, error) {
	version, _ := raw["openapi"].(string)
	if version == "" {
		if _, ok := raw["swagger"]; ok {
			return nil, fmt.Errorf("%w: swagger 2.0 documents are not supported, convert to 3.x first", ErrMissingVersion)
		}
		return nil, ErrMissingVersion
	}

	doc := &Document{Version: version, Components: newComponents()}

	if compRaw, ok := raw["components"].(map[string]any); ok {
		if err := loadComponents(doc.Components, compRaw); err != nil {
			return nil, err
		}
	}

	pathsRaw, _ := raw["paths"].(map[string]any)
	doc.Paths = &OrderedMap[*PathItem]{}
	for pathTemplate, itemRaw := range pathsRaw {
		itemMap, ok := itemRaw.(map[string]any)
		if !ok {
			continue
		}
		item, err := loadPathItem(doc.Components, Location("#/paths/"+pathTemplate), pathTemplate, itemMap)
		if err != nil {
			return nil, err
		}
		doc.Paths.Set(pathTemplate, item)
	}
	return doc, nil
}

var httpMethods = []string{"get", "put", "post", "delete", "options", "head", "patch", "trace", "connect"}

func loadPathItem(c *Components, loc Location, pathTemplate string, raw map[string]any) (*PathItem, error) {
	item := &PathItem{Location: loc, PathTemplate: pathTemplate, Operations: &OrderedMap[*Operation]{}}

	if paramsRaw, ok := raw["parameters"].([]any); ok {
		params, err := loadParameterList(c, loc.Append("parameters"), paramsRaw)
		if err != nil {
			return nil, err
		}
		item.Parameters = params
	}

	for _, m := range httpMethods {
		opRaw, ok := raw[m].(map[string]any)
		if !ok {
			continue
		}
		op, err := loadOperation(c, loc.Append(m), pathTemplate, Method(m), opRaw, item.Parameters)
		if err != nil {
			return nil, err
		}
		item.Operations.Set(string(op.Method), op)
	}
	return item, nil
}

func loadOperation(c *Components, loc Location, pathTemplate string, method Method, raw map[string]any, pathParams []*Parameter) (*Operation, error) {
	op := &Operation{Location: loc, Method: method, PathTemplate: pathTemplate}
	op.OperationID, _ = raw["operationId"].(string)

	var ownParams []*Parameter
	if paramsRaw, ok := raw["parameters"].([]any); ok {
		params, err := loadParameterList(c, loc.Append("parameters"), paramsRaw)
		if err != nil {
			return nil, err
		}
		ownParams = params
	}
	op.Parameters = mergePathParameters(ownParams, pathParams)

	if bodyRaw, ok := raw["requestBody"].(map[string]any); ok {
		body, err := loadRequestBody(c, loc.Append("requestBody"), bodyRaw)
		if err != nil {
			return nil, err
		}
		op.RequestBody = body
	}

	op.Responses = &OrderedMap[*Response]{}
	if respRaw, ok := raw["responses"].(map[string]any); ok {
		for status, rRaw := range respRaw {
			rMap, ok := rRaw.(map[string]any)
			if !ok {
				continue
			}
			resp, err := loadResponse(c, loc.Append("responses").Append(status), rMap)
			if err != nil {
				return nil, err
			}
			op.Responses.Set(status, resp)
		}
	}
	return op, nil
}

func loadParameterList(c *Components, loc Location, raw []any) ([]*Parameter, error) {
	var params []*Parameter
	for i, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		p, err := loadParameter(c, loc.Append(fmt.Sprint(i)), m)
		if err != nil {
			return nil, err
		}
		params = append(params, p)
	}
	return params, nil
}

func loadParameter(c *Components, loc Location, raw map[string]any) (*Parameter, error) {
	if ref, ok := raw["$ref"].(string); ok {
		p, err := resolveParameter(c, ref)
		if err != nil {
			return nil, newError(err, loc)
		}
		return p, nil
	}
	p := &Parameter{Location: loc}
	p.Name, _ = raw["name"].(string)
	in, _ := raw["in"].(string)
	p.In = In(in)
	p.Required, _ = raw["required"].(bool)
	p.Style = Style(stringOr(raw["style"], ""))
	p.Explode, _ = raw["explode"].(bool)
	p.Example = raw["example"]
	if schemaRaw, ok := raw["schema"].(map[string]any); ok {
		s, err := loadSchema(loc.Append("schema"), schemaRaw)
		if err != nil {
			return nil, err
		}
		p.Schema = s
	}
	return p, nil
}

func loadRequestBody(c *Components, loc Location, raw map[string]any) (*RequestBody, error) {
	if ref, ok := raw["$ref"].(string); ok {
		b, err := resolveRequestBody(c, ref)
		if err != nil {
			return nil, newError(err, loc)
		}
		return b, nil
	}
	b := &RequestBody{Location: loc}
	b.Required, _ = raw["required"].(bool)
	content, err := loadContent(loc.Append("content"), raw["content"])
	if err != nil {
		return nil, err
	}
	b.Content = content
	return b, nil
}

func loadResponse(c *Components, loc Location, raw map[string]any) (*Response, error) {
	if ref, ok := raw["$ref"].(string); ok {
		r, err := resolveResponse(c, ref)
		if err != nil {
			return nil, newError(err, loc)
		}
		return r, nil
	}
	r := &Response{Location: loc}
	r.Description, _ = raw["description"].(string)
	content, err := loadContent(loc.Append("content"), raw["content"])
	if err != nil {
		return nil, err
	}
	r.Content = content
	return r, nil
}

func loadContent(loc Location, raw any) (*OrderedMap[*MediaType], error) {
	out := &OrderedMap[*MediaType]{}
	contentMap, ok := raw.(map[string]any)
	if !ok {
		return out, nil
	}
	for mediaTypeName, mtRaw := range contentMap {
		mtMap, ok := mtRaw.(map[string]any)
		if !ok {
			continue
		}
		mt := &MediaType{Location: loc.Append(mediaTypeName), Example: mtMap["example"]}
		if schemaRaw, ok := mtMap["schema"].(map[string]any); ok {
			s, err := loadSchema(mt.Location.Append("schema"), schemaRaw)
			if err != nil {
				return nil, err
			}
			mt.Schema = s
		}
		out.Set(mediaTypeName, mt)
	}
	return out, nil
}

func loadComponents(c *Components, raw map[string]any) error {
	if schemasRaw, ok := raw["schemas"].(map[string]any); ok {
		for name, sRaw := range schemasRaw {
			sMap, ok := sRaw.(map[string]any)
			if !ok {
				continue
			}
			s, err := loadSchema(Location("#/components/schemas/"+name), sMap)
			if err != nil {
				return err
			}
			c.Schemas.Set(name, s)
		}
	}
	if paramsRaw, ok := raw["parameters"].(map[string]any); ok {
		for name, pRaw := range paramsRaw {
			pMap, ok := pRaw.(map[string]any)
			if !ok {
				continue
			}
			p, err := loadParameter(c, Location("#/components/parameters/"+name), pMap)
			if err != nil {
				return err
			}
			c.Parameters.Set(name, p)
		}
	}
	if bodiesRaw, ok := raw["requestBodies"].(map[string]any); ok {
		for name, bRaw := range bodiesRaw {
			bMap, ok := bRaw.(map[string]any)
			if !ok {
				continue
			}
			b, err := loadRequestBody(c, Location("#/components/requestBodies/"+name), bMap)
			if err != nil {
				return err
			}
			c.RequestBodies.Set(name, b)
		}
	}
	if respRaw, ok := raw["responses"].(map[string]any); ok {
		for name, rRaw := range respRaw {
			rMap, ok := rRaw.(map[string]any)
			if !ok {
				continue
			}
			r, err := loadResponse(c, Location("#/components/responses/"+name), rMap)
			if err != nil {
				return err
			}
			c.Responses.Set(name, r)
		}
	}
	return nil
}

func stringOr(v any, def string) string {
	if s, ok := v.(string); ok {
		return s
	}
	return def
}
