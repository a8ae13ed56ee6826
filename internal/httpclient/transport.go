package httpclient

import (
	"crypto/tls"
	"net/http"
)

// insecureTransport clones the default transport with certificate
// verification disabled, rather than mutating http.DefaultTransport, so
// other callers in the process are unaffected.
func insecureTransport() *http.Transport {
	base := http.DefaultTransport.(*http.Transport).Clone()
	if base.TLSClientConfig == nil {
		base.TLSClientConfig = &tls.Config{}
	}
	base.TLSClientConfig.InsecureSkipVerify = true
	return base
}
