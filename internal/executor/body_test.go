package executor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TNO-S3/wuppiefuzz/internal/input"
)

func TestEncodeBodyEmpty(t *testing.T) {
	req := input.NewRequest("", "")
	body, contentType, err := encodeBody(req)
	require.NoError(t, err)
	require.Nil(t, body)
	require.Equal(t, "", contentType)
}

func TestEncodeBodyJSON(t *testing.T) {
	obj := input.NewObject()
	obj.Object.Set("name", input.String("drill"))
	obj.Object.Set("qty", input.Number(3))

	req := input.NewRequest("", "")
	req.Body = input.BodyApplicationJSON
	req.BodyValue = obj

	body, contentType, err := encodeBody(req)
	require.NoError(t, err)
	require.Equal(t, "application/json", contentType)
	require.JSONEq(t, `{"name":"drill","qty":3}`, string(body))
}

func TestEncodeBodyFormURLEncodedFlattensOneLevel(t *testing.T) {
	nested := input.NewObject()
	nested.Object.Set("city", input.String("Eindhoven"))

	obj := input.NewObject()
	obj.Object.Set("name", input.String("drill"))
	obj.Object.Set("tags", input.Array(input.String("a"), input.String("b")))
	obj.Object.Set("address", nested)

	req := input.NewRequest("", "")
	req.Body = input.BodyFormURLEncoded
	req.BodyValue = obj

	body, contentType, err := encodeBody(req)
	require.NoError(t, err)
	require.Equal(t, "application/x-www-form-urlencoded", contentType)
	require.Contains(t, string(body), "name=drill")
	require.Contains(t, string(body), "tags=a")
	require.Contains(t, string(body), "tags=b")
	require.Contains(t, string(body), "address.city=Eindhoven")
}

func TestEncodeBodyTextPlain(t *testing.T) {
	req := input.NewRequest("", "")
	req.Body = input.BodyTextPlain
	req.BodyValue = input.String("hello")

	body, contentType, err := encodeBody(req)
	require.NoError(t, err)
	require.Equal(t, "text/plain; charset=utf-8", contentType)
	require.Equal(t, "hello", string(body))
}
