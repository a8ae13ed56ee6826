package input_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TNO-S3/wuppiefuzz/internal/input"
	"github.com/TNO-S3/wuppiefuzz/internal/openapi"
	"github.com/TNO-S3/wuppiefuzz/internal/paramaccess"
)

func TestChainValidateAcceptsBackwardReference(t *testing.T) {
	create := input.NewRequest(openapi.MethodPost, "/albums")
	get := input.NewRequest(openapi.MethodGet, "/albums/{id}")
	get.Parameters[input.ParameterKey{In: openapi.InPath, Name: "id"}] =
		input.RefValue(0, paramaccess.NewBody(paramaccess.Name("id")))

	c := input.NewChain(create, get)
	require.NoError(t, c.Validate())
}

func TestChainValidateRejectsForwardReference(t *testing.T) {
	create := input.NewRequest(openapi.MethodPost, "/albums")
	create.Parameters[input.ParameterKey{In: openapi.InQuery, Name: "owner"}] =
		input.RefValue(1, paramaccess.NewNonBody(paramaccess.KindQuery, "owner"))
	get := input.NewRequest(openapi.MethodGet, "/albums/{id}")

	c := input.NewChain(create, get)
	require.Error(t, c.Validate())
}

func TestChainValidateAcceptsUniqueParameterKeys(t *testing.T) {
	r := input.NewRequest(openapi.MethodGet, "/albums/{id}")
	r.Parameters[input.ParameterKey{In: openapi.InPath, Name: "id"}] = input.String("1")

	c := input.NewChain(r)
	require.NotPanics(t, func() { c.AssertValid("no-op") })
}

func TestResolveWalksBodyPath(t *testing.T) {
	body := input.NewObject()
	body.Object.Set("id", input.Number(42))
	body.Object.Set("tags", input.Array(input.String("a"), input.String("b")))

	v, ok := input.Resolve(body, paramaccess.NewBody(paramaccess.Name("id")))
	require.True(t, ok)
	require.Equal(t, input.Number(42), v)

	v, ok = input.Resolve(body, paramaccess.NewBody(paramaccess.Name("tags"), paramaccess.Offset(1)))
	require.True(t, ok)
	require.Equal(t, input.String("b"), v)

	_, ok = input.Resolve(body, paramaccess.NewBody(paramaccess.Name("missing")))
	require.False(t, ok)
}

func TestResolveMutOverwritesInPlace(t *testing.T) {
	body := input.NewObject()
	body.Object.Set("count", input.Number(1))

	cursor, ok := input.ResolveMut(&body, paramaccess.NewBody(paramaccess.Name("count")))
	require.True(t, ok)
	require.Equal(t, input.Number(1), cursor.Get())

	cursor.Set(input.Number(2))
	v, _ := input.Resolve(body, paramaccess.NewBody(paramaccess.Name("count")))
	require.Equal(t, input.Number(2), v)
}

func TestChainYAMLRoundTrip(t *testing.T) {
	create := input.NewRequest(openapi.MethodPost, "/albums")
	create.Body = input.BodyApplicationJSON
	body := input.NewObject()
	body.Object.Set("title", input.String("Doolittle"))
	body.Object.Set("tracks", input.Array(input.String("Debaser"), input.String("Wave of Mutilation")))
	create.BodyValue = body

	get := input.NewRequest(openapi.MethodGet, "/albums/{id}")
	get.Parameters[input.ParameterKey{In: openapi.InPath, Name: "id"}] =
		input.RefValue(0, paramaccess.NewBody(paramaccess.Name("title")))
	get.Parameters[input.ParameterKey{In: openapi.InHeader, Name: "Accept"}] = input.String("application/json")

	chain := input.NewChain(create, get)
	require.NoError(t, chain.Validate())

	data, err := chain.MarshalYAML()
	require.NoError(t, err)

	decoded, err := input.UnmarshalChainYAML(data)
	require.NoError(t, err)
	require.NoError(t, decoded.Validate())
	require.Equal(t, chain.Len(), decoded.Len())

	require.Equal(t, openapi.MethodPost, decoded.Requests[0].Method)
	require.Equal(t, input.BodyApplicationJSON, decoded.Requests[0].Body)
	title, ok := decoded.Requests[0].BodyValue.Object.Get("title")
	require.True(t, ok)
	require.Equal(t, input.String("Doolittle"), title)

	idKey := input.ParameterKey{In: openapi.InPath, Name: "id"}
	ref, ok := decoded.Requests[1].Parameters[idKey]
	require.True(t, ok)
	require.Equal(t, input.KindReference, ref.Kind)
	require.Equal(t, 0, ref.Ref.RequestIndex)
	require.True(t, ref.Ref.Access.Equal(paramaccess.NewBody(paramaccess.Name("title"))))

	acceptKey := input.ParameterKey{In: openapi.InHeader, Name: "Accept"}
	require.Equal(t, input.String("application/json"), decoded.Requests[1].Parameters[acceptKey])
}

func TestChainYAMLRoundTripEmptyBody(t *testing.T) {
	r := input.NewRequest(openapi.MethodDelete, "/albums/{id}")
	r.Parameters[input.ParameterKey{In: openapi.InPath, Name: "id"}] = input.String("1")
	chain := input.NewChain(r)

	data, err := chain.MarshalYAML()
	require.NoError(t, err)

	decoded, err := input.UnmarshalChainYAML(data)
	require.NoError(t, err)
	require.Equal(t, input.BodyEmpty, decoded.Requests[0].Body)
}
