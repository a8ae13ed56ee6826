package paramfeedback_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TNO-S3/wuppiefuzz/internal/input"
	"github.com/TNO-S3/wuppiefuzz/internal/paramfeedback"
)

func TestDecodeJSONScalars(t *testing.T) {
	v, err := paramfeedback.DecodeJSON([]byte(`null`))
	require.NoError(t, err)
	require.Equal(t, input.Null(), v)

	v, err = paramfeedback.DecodeJSON([]byte(`true`))
	require.NoError(t, err)
	require.Equal(t, input.Bool(true), v)

	v, err = paramfeedback.DecodeJSON([]byte(`3.5`))
	require.NoError(t, err)
	require.Equal(t, input.Number(3.5), v)

	v, err = paramfeedback.DecodeJSON([]byte(`"hi"`))
	require.NoError(t, err)
	require.Equal(t, input.String("hi"), v)
}

func TestDecodeJSONRejectsMalformedInput(t *testing.T) {
	_, err := paramfeedback.DecodeJSON([]byte(`{not json`))
	require.Error(t, err)
}

func TestDecodeJSONNestedStructure(t *testing.T) {
	v, err := paramfeedback.DecodeJSON([]byte(`{"user": {"id": 1, "roles": ["admin", "user"]}}`))
	require.NoError(t, err)
	require.Equal(t, input.KindObject, v.Kind)

	user, ok := v.Object.Get("user")
	require.True(t, ok)
	roles, ok := user.Object.Get("roles")
	require.True(t, ok)
	require.Len(t, roles.Array, 2)
	require.Equal(t, input.String("admin"), roles.Array[0])
}
