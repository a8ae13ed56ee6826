package validate_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TNO-S3/wuppiefuzz/internal/input"
	"github.com/TNO-S3/wuppiefuzz/internal/openapi"
	"github.com/TNO-S3/wuppiefuzz/internal/validate"
)

func emptyComponents() *openapi.Components {
	return &openapi.Components{
		Schemas:       &openapi.OrderedMap[*openapi.Schema]{},
		Parameters:    &openapi.OrderedMap[*openapi.Parameter]{},
		RequestBodies: &openapi.OrderedMap[*openapi.RequestBody]{},
		Responses:     &openapi.OrderedMap[*openapi.Response]{},
	}
}

func TestCheckValueAcceptsMatchingObject(t *testing.T) {
	props := &openapi.OrderedMap[*openapi.Schema]{}
	props.Set("id", &openapi.Schema{Type: []string{"integer"}})
	props.Set("name", &openapi.Schema{Type: []string{"string"}})
	schema := &openapi.Schema{Type: []string{"object"}, Properties: props, Required: []string{"id"}}

	body := input.NewObject()
	body.Object.Set("id", input.Number(1))
	body.Object.Set("name", input.String("alice"))

	err := validate.CheckValue(emptyComponents(), schema, body, "")
	require.Nil(t, err)
}

func TestCheckValueRejectsUndeclaredField(t *testing.T) {
	props := &openapi.OrderedMap[*openapi.Schema]{}
	props.Set("id", &openapi.Schema{Type: []string{"integer"}})
	schema := &openapi.Schema{Type: []string{"object"}, Properties: props}

	body := input.NewObject()
	body.Object.Set("id", input.Number(1))
	body.Object.Set("extra", input.String("surprise"))

	err := validate.CheckValue(emptyComponents(), schema, body, "")
	require.NotNil(t, err)
	require.Equal(t, validate.ResponseObjectIncorrect, err.Kind)
	require.Equal(t, "extra", err.Path)
}

func TestCheckValueRejectsMissingRequiredField(t *testing.T) {
	schema := &openapi.Schema{Type: []string{"object"}, Required: []string{"id"}}
	err := validate.CheckValue(emptyComponents(), schema, input.NewObject(), "")
	require.NotNil(t, err)
	require.Equal(t, validate.ResponseObjectIncorrect, err.Kind)
}

func TestCheckValueNestedArrayPath(t *testing.T) {
	schema := &openapi.Schema{
		Type: []string{"object"},
		Properties: func() *openapi.OrderedMap[*openapi.Schema] {
			m := &openapi.OrderedMap[*openapi.Schema]{}
			m.Set("items", &openapi.Schema{Type: []string{"array"}, Items: &openapi.Schema{Type: []string{"integer"}}})
			return m
		}(),
	}
	body := input.NewObject()
	body.Object.Set("items", input.Array(input.Number(1), input.String("x"), input.Number(3)))

	err := validate.CheckValue(emptyComponents(), schema, body, "")
	require.NotNil(t, err)
	require.Equal(t, "items/1", err.Path)
	require.Equal(t, validate.ResponseObjectIncorrect, err.Kind)
}

func TestCheckValueEnumMismatch(t *testing.T) {
	schema := &openapi.Schema{Type: []string{"string"}, Enum: []any{"a", "b"}}
	err := validate.CheckValue(emptyComponents(), schema, input.String("c"), "")
	require.NotNil(t, err)
	require.Equal(t, validate.ResponseEnumIncorrect, err.Kind)
}

func TestCheckValueOneOfExactlyOne(t *testing.T) {
	schema := &openapi.Schema{
		OneOf: []*openapi.Schema{
			{Type: []string{"string"}},
			{Type: []string{"integer"}},
		},
	}
	require.Nil(t, validate.CheckValue(emptyComponents(), schema, input.String("x"), ""))
	require.NotNil(t, validate.CheckValue(emptyComponents(), schema, input.Bool(true), ""))
}

func TestCheckValueNot(t *testing.T) {
	schema := &openapi.Schema{Not: &openapi.Schema{Type: []string{"null"}}}
	require.Nil(t, validate.CheckValue(emptyComponents(), schema, input.Number(1), ""))
	require.NotNil(t, validate.CheckValue(emptyComponents(), schema, input.Null(), ""))
}

func TestValidateMediaTypeFlagsMissingSchema(t *testing.T) {
	err := validate.ValidateMediaType(emptyComponents(), &openapi.MediaType{}, input.Null())
	require.NotNil(t, err)
	require.Equal(t, validate.MediaTypeContainsNoSchema, err.Kind)
}

func TestValidateMediaTypeFlagsAnySchema(t *testing.T) {
	err := validate.ValidateMediaType(emptyComponents(), &openapi.MediaType{Schema: &openapi.Schema{}}, input.Null())
	require.NotNil(t, err)
	require.Equal(t, validate.SchemaIsAny, err.Kind)
}
