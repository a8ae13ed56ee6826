package depgraph

import (
	"github.com/TNO-S3/wuppiefuzz/internal/openapi"
	"github.com/TNO-S3/wuppiefuzz/internal/paramaccess"
)

// Source distinguishes an Output's origin: a response body field, or (for
// POST) the operation's own request-body field.
type Source int

const (
	SourceResponse Source = iota
	SourceRequestBody
)

// Output is one normalised value an operation can supply to a later
// operation in the chain.
type Output struct {
	Key    string
	Source Source
	Access paramaccess.ParameterAccess
}

// Input is one normalised value an operation needs in order to run.
type Input struct {
	Key    string
	Access paramaccess.ParameterAccess
}

// Node is one operation in the dependency graph, together with its
// normalised inputs and outputs.
type Node struct {
	Index     int
	Operation *openapi.Operation
	Context   string
	Inputs    []Input
	Outputs   []Output
}

const maxBodyDepth = 3

func buildNode(index int, op *openapi.Operation, components *openapi.Components) *Node {
	context := openapi.LastPathSegment(op.PathTemplate)
	n := &Node{Index: index, Operation: op, Context: context}

	for _, p := range op.Parameters {
		if p.In == openapi.InPath || p.In == openapi.InQuery || p.In == openapi.InHeader || p.In == openapi.InCookie {
			paramContext := context
			if p.In == openapi.InPath {
				paramContext = openapi.LastPathSegmentBefore(op.PathTemplate, p.Name)
			}
			n.Inputs = append(n.Inputs, Input{
				Key:    normalizeParam(paramContext, p.Name),
				Access: paramaccess.NewNonBody(inToKind(p.In), p.Name),
			})
		}
	}

	if op.RequestBody != nil {
		for _, kv := range op.RequestBody.Content.Items {
			collectBodyFields(components, kv.Value.Schema, context, nil, 0, func(path []string, access paramaccess.ParameterAccess) {
				n.Inputs = append(n.Inputs, Input{Key: normalizeBodyPath(context, path), Access: access})
				if op.Method == openapi.MethodPost {
					n.Outputs = append(n.Outputs, Output{
						Key:    normalizeBodyPath(context, path),
						Source: SourceRequestBody,
						Access: access,
					})
				}
			})
		}
	}

	if op.Responses != nil {
		for _, kv := range op.Responses.Items {
			resp := kv.Value
			if resp == nil || resp.Content == nil {
				continue
			}
			for _, mt := range resp.Content.Items {
				collectBodyFields(components, mt.Value.Schema, context, nil, 0, func(path []string, access paramaccess.ParameterAccess) {
					n.Outputs = append(n.Outputs, Output{
						Key:    normalizeBodyPath(context, path),
						Source: SourceResponse,
						Access: access,
					})
				})
			}
		}
	}

	return n
}

func inToKind(in openapi.In) paramaccess.Kind {
	switch in {
	case openapi.InPath:
		return paramaccess.KindPath
	case openapi.InHeader:
		return paramaccess.KindHeader
	case openapi.InCookie:
		return paramaccess.KindCookie
	default:
		return paramaccess.KindQuery
	}
}

// collectBodyFields walks schema's top-level and nested object properties
// (up to maxBodyDepth) and calls visit for each leaf-ish field reached,
// with path being the chain of property names from the body root.
func collectBodyFields(
	components *openapi.Components,
	schema *openapi.Schema,
	context string,
	path []string,
	depth int,
	visit func(path []string, access paramaccess.ParameterAccess),
) {
	if schema == nil || depth >= maxBodyDepth {
		return
	}
	resolved, err := components.ResolveSchema(schema)
	if err != nil || resolved == nil {
		return
	}
	if resolved.Properties == nil {
		return
	}
	for _, kv := range resolved.Properties.Items {
		name := kv.Key
		fieldSchema := kv.Value
		fieldPath := append(append([]string(nil), path...), name)
		elements := make([]paramaccess.Element, len(fieldPath))
		for i, seg := range fieldPath {
			elements[i] = paramaccess.Name(seg)
		}
		visit(fieldPath, paramaccess.NewBody(elements...))

		if resolvedField, err := components.ResolveSchema(fieldSchema); err == nil && resolvedField != nil && resolvedField.IsObject() {
			collectBodyFields(components, resolvedField, context, fieldPath, depth+1, visit)
		}
	}
}
