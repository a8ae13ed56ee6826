package httpclient_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/TNO-S3/wuppiefuzz/internal/httpclient"
)

func TestNewFillsInAMissingCookieJar(t *testing.T) {
	client, err := httpclient.New(httpclient.Options{Timeout: time.Second})
	require.NoError(t, err)
	require.NotNil(t, client.Jar)
	require.Equal(t, time.Second, client.Timeout)
}

func TestNewReusesProvidedJar(t *testing.T) {
	client1, err := httpclient.New(httpclient.Options{})
	require.NoError(t, err)

	client2, err := httpclient.New(httpclient.Options{Jar: client1.Jar})
	require.NoError(t, err)
	require.Same(t, client1.Jar, client2.Jar)
}

func TestNewInsecureSkipVerifyBuildsCustomTransport(t *testing.T) {
	client, err := httpclient.New(httpclient.Options{InsecureSkipVerify: true})
	require.NoError(t, err)
	require.NotNil(t, client.Transport)
}
