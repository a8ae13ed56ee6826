package validate_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TNO-S3/wuppiefuzz/internal/openapi"
	"github.com/TNO-S3/wuppiefuzz/internal/validate"
)

func documentWithOneOperation() *openapi.Document {
	responses := &openapi.OrderedMap[*openapi.Response]{}
	content := &openapi.OrderedMap[*openapi.MediaType]{}
	content.Set("application/json", &openapi.MediaType{Schema: &openapi.Schema{Type: []string{"object"}}})
	responses.Set("200", &openapi.Response{Content: content})

	op := &openapi.Operation{Method: openapi.MethodGet, PathTemplate: "/widgets", Responses: responses}

	ops := &openapi.OrderedMap[*openapi.Operation]{}
	ops.Set(string(openapi.MethodGet), op)

	paths := &openapi.OrderedMap[*openapi.PathItem]{}
	paths.Set("/widgets", &openapi.PathItem{PathTemplate: "/widgets", Operations: ops})

	return &openapi.Document{
		Components: emptyComponents(),
		Paths:      paths,
	}
}

func TestCheckOperationMissingYieldsOperationNotInSpec(t *testing.T) {
	doc := documentWithOneOperation()
	_, err := validate.CheckOperation(doc, openapi.MethodPost, "/nonexistent")
	require.NotNil(t, err)
	require.Equal(t, validate.OperationNotInSpec, err.Kind)
}

func TestCheckStatusRejectsUndeclaredStatusWithoutDefault(t *testing.T) {
	doc := documentWithOneOperation()
	op, err := validate.CheckOperation(doc, openapi.MethodGet, "/widgets")
	require.Nil(t, err)

	_, statusErr := validate.CheckStatus(op, "404")
	require.NotNil(t, statusErr)
	require.Equal(t, validate.StatusNotSpecified, statusErr.Kind)

	resp, statusErr := validate.CheckStatus(op, "200")
	require.Nil(t, statusErr)
	require.NotNil(t, resp)
}

func TestCheckBodyUnexpectedContentType(t *testing.T) {
	doc := documentWithOneOperation()
	op, _ := validate.CheckOperation(doc, openapi.MethodGet, "/widgets")
	resp, _ := validate.CheckStatus(op, "200")

	err := validate.CheckBody(doc.Components, resp, "text/plain", []byte("hi"))
	require.NotNil(t, err)
	require.Equal(t, validate.UnexpectedContent, err.Kind)
}

func TestCheckBodyMalformedJSON(t *testing.T) {
	doc := documentWithOneOperation()
	op, _ := validate.CheckOperation(doc, openapi.MethodGet, "/widgets")
	resp, _ := validate.CheckStatus(op, "200")

	err := validate.CheckBody(doc.Components, resp, "application/json", []byte("{not json"))
	require.NotNil(t, err)
	require.Equal(t, validate.ResponseMalformedJSON, err.Kind)
}

func TestCheckBodyValid(t *testing.T) {
	doc := documentWithOneOperation()
	op, _ := validate.CheckOperation(doc, openapi.MethodGet, "/widgets")
	resp, _ := validate.CheckStatus(op, "200")

	err := validate.CheckBody(doc.Components, resp, "application/json; charset=utf-8", []byte(`{"id": 1}`))
	require.Nil(t, err)
}

func TestCheckBodyEmptyIsAlwaysFine(t *testing.T) {
	doc := documentWithOneOperation()
	op, _ := validate.CheckOperation(doc, openapi.MethodGet, "/widgets")
	resp, _ := validate.CheckStatus(op, "200")

	require.Nil(t, validate.CheckBody(doc.Components, resp, "application/json", nil))
}
