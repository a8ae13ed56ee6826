package validate_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TNO-S3/wuppiefuzz/internal/paramfeedback"
	"github.com/TNO-S3/wuppiefuzz/internal/validate"
)

func TestValidateJSONSchemaAccepts(t *testing.T) {
	schemaDoc := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id": map[string]any{"type": "integer"},
		},
		"required": []any{"id"},
	}
	body, err := paramfeedback.DecodeJSON([]byte(`{"id": 7}`))
	require.NoError(t, err)

	require.Nil(t, validate.ValidateJSONSchema(schemaDoc, body))
}

func TestValidateJSONSchemaRejects(t *testing.T) {
	schemaDoc := map[string]any{
		"type":     "object",
		"required": []any{"id"},
	}
	body, err := paramfeedback.DecodeJSON([]byte(`{}`))
	require.NoError(t, err)

	result := validate.ValidateJSONSchema(schemaDoc, body)
	require.NotNil(t, result)
	require.Equal(t, validate.ResponseObjectIncorrect, result.Kind)
}
