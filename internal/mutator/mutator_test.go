package mutator_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TNO-S3/wuppiefuzz/internal/input"
	"github.com/TNO-S3/wuppiefuzz/internal/mutator"
	"github.com/TNO-S3/wuppiefuzz/internal/openapi"
	"github.com/TNO-S3/wuppiefuzz/internal/paramaccess"
)

func threeRequestChain() *input.Chain {
	a := input.NewRequest(openapi.MethodPost, "/a")
	b := input.NewRequest(openapi.MethodGet, "/b")
	b.Parameters[input.ParameterKey{In: openapi.InQuery, Name: "ref"}] =
		input.RefValue(0, paramaccess.NewBody(paramaccess.Name("id")))
	c := input.NewRequest(openapi.MethodGet, "/c")
	c.Parameters[input.ParameterKey{In: openapi.InQuery, Name: "ref"}] =
		input.RefValue(1, paramaccess.NewNonBody(paramaccess.KindQuery, "ref"))
	return input.NewChain(a, b, c)
}

func TestDuplicateRequestPreservesReferenceSemantics(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	chain := threeRequestChain()

	result, err := mutator.Apply("DuplicateRequest", mutator.DuplicateRequest(), rng, chain)
	require.NoError(t, err)
	require.Equal(t, mutator.Mutated, result)
	require.Equal(t, 4, chain.Len())
	require.NoError(t, chain.Validate())
}

func TestRemoveRequestNeverLeavesDanglingReference(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 20; i++ {
		chain := threeRequestChain()
		_, err := mutator.Apply("RemoveRequest", mutator.RemoveRequest(), rng, chain)
		require.NoError(t, err)
		require.NoError(t, chain.Validate())
	}
}

func TestSwapRequestsNeverBreaksInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 20; i++ {
		chain := threeRequestChain()
		_, err := mutator.Apply("SwapRequests", mutator.SwapRequests(), rng, chain)
		require.NoError(t, err)
		require.NoError(t, chain.Validate())
	}
}

func TestBreakLinkReplacesAReferenceWithBytes(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	chain := threeRequestChain()

	result, err := mutator.Apply("BreakLink", mutator.BreakLink(), rng, chain)
	require.NoError(t, err)
	require.Equal(t, mutator.Mutated, result)
	require.NoError(t, chain.Validate())
}

func TestByteLevelNeverPanics(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 50; i++ {
		chain := threeRequestChain()
		chain.Requests[0].BodyValue = input.String("seed-value")
		require.NotPanics(t, func() {
			_, _ = mutator.Apply("ByteLevel", mutator.ByteLevel(), rng, chain)
		})
	}
}

// documentWithCreateWidget declares one operation, POST /widgets, whose 201
// JSON response has an "id" property — the field EstablishLink should be
// able to link a later request's parameter against.
func documentWithCreateWidget() *openapi.Document {
	responses := &openapi.OrderedMap[*openapi.Response]{}
	content := &openapi.OrderedMap[*openapi.MediaType]{}
	props := &openapi.OrderedMap[*openapi.Schema]{}
	props.Set("id", &openapi.Schema{Type: []string{"string"}})
	content.Set("application/json", &openapi.MediaType{Schema: &openapi.Schema{Type: []string{"object"}, Properties: props}})
	responses.Set("201", &openapi.Response{Content: content})

	op := &openapi.Operation{Method: openapi.MethodPost, PathTemplate: "/widgets", Responses: responses}

	ops := &openapi.OrderedMap[*openapi.Operation]{}
	ops.Set(string(openapi.MethodPost), op)

	paths := &openapi.OrderedMap[*openapi.PathItem]{}
	paths.Set("/widgets", &openapi.PathItem{PathTemplate: "/widgets", Operations: ops})

	return &openapi.Document{Paths: paths}
}

func TestEstablishLinkMatchesDeclaredResponseField(t *testing.T) {
	doc := documentWithCreateWidget()
	rng := rand.New(rand.NewSource(6))

	a := input.NewRequest(openapi.MethodPost, "/widgets")
	b := input.NewRequest(openapi.MethodGet, "/b")
	b.Parameters[input.ParameterKey{In: openapi.InQuery, Name: "id"}] = input.String("placeholder")
	chain := input.NewChain(a, b)

	result, err := mutator.Apply("EstablishLink", mutator.EstablishLink(doc), rng, chain)
	require.NoError(t, err)
	require.Equal(t, mutator.Mutated, result)
	require.NoError(t, chain.Validate())

	linked := chain.Requests[1].Parameters[input.ParameterKey{In: openapi.InQuery, Name: "id"}]
	require.Equal(t, input.KindReference, linked.Kind)
	require.Equal(t, 0, linked.Ref.RequestIndex)
}

func TestEstablishLinkSkipsWhenNoResponseFieldMatches(t *testing.T) {
	doc := documentWithCreateWidget()
	rng := rand.New(rand.NewSource(7))

	a := input.NewRequest(openapi.MethodPost, "/widgets")
	b := input.NewRequest(openapi.MethodGet, "/b")
	b.Parameters[input.ParameterKey{In: openapi.InQuery, Name: "unrelated"}] = input.String("placeholder")
	chain := input.NewChain(a, b)

	result, err := mutator.Apply("EstablishLink", mutator.EstablishLink(doc), rng, chain)
	require.NoError(t, err)
	require.Equal(t, mutator.Skipped, result)
}
