package validate

import (
	"fmt"
	"strings"

	"github.com/TNO-S3/wuppiefuzz/internal/input"
	"github.com/TNO-S3/wuppiefuzz/internal/openapi"
	"github.com/TNO-S3/wuppiefuzz/internal/paramfeedback"
)

// CheckOperation looks up (method, pathTemplate) in doc, yielding
// OperationNotInSpec if the executor somehow dispatched a request to
// something the spec never declared (DifferentPath/DifferentMethod bugs, a
// crash replay against a drifted spec, ...).
func CheckOperation(doc *openapi.Document, method openapi.Method, pathTemplate string) (*openapi.Operation, *Error) {
	op, ok := doc.FindOperation(method, pathTemplate)
	if !ok {
		return nil, newError(OperationNotInSpec, "", fmt.Sprintf("%s %s is not declared in the spec", method, pathTemplate))
	}
	return op, nil
}

// CheckStatus looks up status (falling back to a "default" response) among
// op's declared responses, yielding StatusNotSpecified otherwise.
func CheckStatus(op *openapi.Operation, status string) (*openapi.Response, *Error) {
	if op.Responses != nil {
		if resp, ok := op.Responses.Get(status); ok {
			return resp, nil
		}
		if resp, ok := op.Responses.Get("default"); ok {
			return resp, nil
		}
	}
	return nil, newError(StatusNotSpecified, "", fmt.Sprintf("status %s is not declared for this operation", status))
}

// CheckBody decodes rawBody per contentType and validates it against resp's
// matching media type, producing UnexpectedContent when the response
// declares no content (or a different content type) and a body arrived
// anyway, and ResponseMalformedJSON when a JSON body fails to parse.
func CheckBody(components *openapi.Components, resp *openapi.Response, contentType string, rawBody []byte) *Error {
	if len(rawBody) == 0 {
		return nil
	}
	if resp.Content == nil {
		return newError(UnexpectedContent, "", "response declares no content but a body was received")
	}
	mt, ok := lookupMediaType(resp, contentType)
	if !ok {
		return newError(UnexpectedContent, "", fmt.Sprintf("unexpected content type %q", contentType))
	}

	body, decodeErr := decodeBody(contentType, rawBody)
	if decodeErr != nil {
		return decodeErr
	}
	return ValidateMediaType(components, mt, body)
}

func lookupMediaType(resp *openapi.Response, contentType string) (*openapi.MediaType, bool) {
	base := strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	if mt, ok := resp.Content.Get(base); ok {
		return mt, true
	}
	return nil, false
}

func decodeBody(contentType string, rawBody []byte) (input.Value, *Error) {
	base := strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	if base != "application/json" && !strings.HasSuffix(base, "+json") {
		return input.String(string(rawBody)), nil
	}
	v, err := paramfeedback.DecodeJSON(rawBody)
	if err != nil {
		return input.Value{}, newError(ResponseMalformedJSON, "", err.Error())
	}
	return v, nil
}
