// Package auth defines the thin Authentication handle the executor
// consumes. Acquiring credentials through a live basic/bearer/OAuth/cookie
// login flow is an external collaborator's job; this package only models
// the handle's shape and the trivial "none" implementation, plus a static
// variant that replays a fixed set of headers/cookies supplied by config.
package auth

import "net/http"

// Authentication supplies the per-request credentials an executor attaches
// to every outgoing HTTP request, refreshing them first if the underlying
// scheme requires it (e.g. a bearer token nearing expiry).
type Authentication interface {
	// Refresh is called once per request, before headers/cookies are read,
	// giving a scheme a chance to re-authenticate using client (whose
	// shared cookie jar it may also populate directly).
	Refresh(client *http.Client) error
	// Headers returns the headers to attach to the outgoing request.
	Headers() map[string]string
	// Cookies returns the cookies to attach to the outgoing request, beyond
	// whatever the shared cookie jar already holds.
	Cookies() []*http.Cookie
}

// None is the Authentication used when no scheme is configured: it attaches
// nothing and never fails to refresh.
type None struct{}

func (None) Refresh(*http.Client) error { return nil }
func (None) Headers() map[string]string { return nil }
func (None) Cookies() []*http.Cookie    { return nil }

// Static replays a fixed set of headers and cookies on every request,
// grounded on the `--header F` CLI flag and a pre-obtained cookie rather
// than performing a login flow itself.
type Static struct {
	HeaderValues map[string]string
	CookieValues []*http.Cookie
}

func (s Static) Refresh(*http.Client) error { return nil }
func (s Static) Headers() map[string]string { return s.HeaderValues }
func (s Static) Cookies() []*http.Cookie    { return s.CookieValues }
