// Package httpclient builds the single shared *http.Client construction
// path used by the executor and by the Coverband coverage client's HTTPS
// poller: one lazily-built *http.Client issuing plain
// http.NewRequest/Client.Do round-trips.
package httpclient

import (
	"net/http"
	"net/http/cookiejar"
	"time"
)

// Options configures the shared client.
type Options struct {
	// Timeout bounds a single round-trip; zero means no per-request timeout
	// at the http.Client layer (the executor instead applies its own
	// context.WithTimeout).
	Timeout time.Duration
	// Jar, when set, is shared across every client New builds —: "cookie jar
	// shared between authentication refresher and HTTP client".
	Jar http.CookieJar
	// InsecureSkipVerify disables TLS certificate verification, for target
	// services fronted by a self-signed certificate during local fuzzing.
	InsecureSkipVerify bool
}

// New builds an *http.Client per opts. A nil Jar is replaced with a fresh
// cookiejar.Jar so callers never have to special-case "no jar configured
// yet".
func New(opts Options) (*http.Client, error) {
	jar := opts.Jar
	if jar == nil {
		var err error
		jar, err = cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
	}

	transport := http.DefaultTransport
	if opts.InsecureSkipVerify {
		transport = insecureTransport()
	}

	return &http.Client{
		Timeout:   opts.Timeout,
		Jar:       jar,
		Transport: transport,
	}, nil
}
