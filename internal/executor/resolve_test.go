package executor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TNO-S3/wuppiefuzz/internal/input"
	"github.com/TNO-S3/wuppiefuzz/internal/openapi"
	"github.com/TNO-S3/wuppiefuzz/internal/paramaccess"
	"github.com/TNO-S3/wuppiefuzz/internal/paramfeedback"
)

func TestResolveRequestSubstitutesReferencedValue(t *testing.T) {
	store := paramfeedback.New(2)
	store.Record(0, paramaccess.NewBody(paramaccess.Name("id")), input.Number(42))

	req := input.NewRequest(openapi.MethodGet, "/widgets/{id}")
	req.Parameters[input.ParameterKey{In: openapi.InPath, Name: "id"}] = input.RefValue(0, paramaccess.NewBody(paramaccess.Name("id")))

	resolved, err := ResolveRequest(req, store)
	require.NoError(t, err)
	require.Equal(t, input.Number(42), resolved.Parameters[input.ParameterKey{In: openapi.InPath, Name: "id"}])
}

func TestResolveRequestResolvesReferenceInsideBody(t *testing.T) {
	store := paramfeedback.New(1)
	store.Record(0, paramaccess.NewNonBody(paramaccess.KindCookie, "session"), input.String("tok"))

	obj := input.NewObject()
	obj.Object.Set("token", input.RefValue(0, paramaccess.NewNonBody(paramaccess.KindCookie, "session")))

	req := input.NewRequest(openapi.MethodPost, "/login")
	req.Body = input.BodyApplicationJSON
	req.BodyValue = obj

	resolved, err := ResolveRequest(req, store)
	require.NoError(t, err)
	v, ok := resolved.BodyValue.Object.Get("token")
	require.True(t, ok)
	require.Equal(t, input.String("tok"), v)
}

func TestResolveRequestFailsOnUnresolvedReference(t *testing.T) {
	store := paramfeedback.New(2)

	req := input.NewRequest(openapi.MethodGet, "/widgets/{id}")
	req.Parameters[input.ParameterKey{In: openapi.InPath, Name: "id"}] = input.RefValue(0, paramaccess.NewBody(paramaccess.Name("id")))

	_, err := ResolveRequest(req, store)
	require.Error(t, err)
}

func TestResolveRequestLeavesOriginalRequestUntouched(t *testing.T) {
	store := paramfeedback.New(1)
	store.Record(0, paramaccess.NewBody(paramaccess.Name("id")), input.Number(1))

	req := input.NewRequest(openapi.MethodGet, "/widgets/{id}")
	ref := input.RefValue(0, paramaccess.NewBody(paramaccess.Name("id")))
	req.Parameters[input.ParameterKey{In: openapi.InPath, Name: "id"}] = ref

	_, err := ResolveRequest(req, store)
	require.NoError(t, err)
	require.Equal(t, ref, req.Parameters[input.ParameterKey{In: openapi.InPath, Name: "id"}])
}
