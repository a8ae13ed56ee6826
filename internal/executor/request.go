package executor

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/TNO-S3/wuppiefuzz/internal/auth"
	"github.com/TNO-S3/wuppiefuzz/internal/input"
	"github.com/TNO-S3/wuppiefuzz/internal/openapi"
)

// buildHTTPRequest turns a fully-resolved request into an *http.Request
// against baseURL: path placeholders are substituted, query/header/cookie
// parameters are attached, the body is serialised per its BodyVariant, and
// authn's static headers/cookies are layered on top. Cookie parameters are
// inserted into jar rather than the request directly, so the shared client
// attaches them the same way it would a cookie learned from an earlier Set-
// Cookie response.
func buildHTTPRequest(ctx context.Context, baseURL string, req *input.Request, jar http.CookieJar, authn auth.Authentication) (*http.Request, error) {
	fullURL, err := requestURL(baseURL, req)
	if err != nil {
		return nil, err
	}

	bodyBytes, contentType, err := encodeBody(req)
	if err != nil {
		return nil, err
	}
	var bodyReader *bytes.Reader
	if bodyBytes != nil {
		bodyReader = bytes.NewReader(bodyBytes)
	}

	var httpReq *http.Request
	if bodyReader != nil {
		httpReq, err = http.NewRequestWithContext(ctx, string(req.Method), fullURL.String(), bodyReader)
	} else {
		httpReq, err = http.NewRequestWithContext(ctx, string(req.Method), fullURL.String(), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("executor: building request: %w", err)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	var cookies []*http.Cookie
	for key, v := range req.Parameters {
		switch key.In {
		case openapi.InHeader:
			httpReq.Header.Set(key.Name, scalarString(v))
		case openapi.InCookie:
			cookies = append(cookies, &http.Cookie{Name: key.Name, Value: scalarString(v)})
		}
	}

	for name, value := range authn.Headers() {
		httpReq.Header.Set(name, value)
	}
	cookies = append(cookies, authn.Cookies()...)

	if len(cookies) > 0 && jar != nil {
		jar.SetCookies(httpReq.URL, cookies)
	}

	return httpReq, nil
}

// curlString renders httpReq as a curl command line, for the reporting
// database's requests.data column. It's a readable approximation, not a
// byte-exact reproduction: header order and shell quoting are not
// round-trippable back into the same request.
func curlString(httpReq *http.Request, body []byte) string {
	var b strings.Builder
	fmt.Fprintf(&b, "curl -X %s '%s'", httpReq.Method, httpReq.URL.String())
	for name, values := range httpReq.Header {
		for _, v := range values {
			fmt.Fprintf(&b, " -H '%s: %s'", name, v)
		}
	}
	if len(body) > 0 {
		fmt.Fprintf(&b, " -d '%s'", string(body))
	}
	return b.String()
}

func requestURL(baseURL string, req *input.Request) (*url.URL, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/") + substitutePath(req))
	if err != nil {
		return nil, fmt.Errorf("executor: building URL for %s: %w", req.PathTemplate, err)
	}
	query := buildQuery(req)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u, nil
}

func substitutePath(req *input.Request) string {
	path := req.PathTemplate
	for key, v := range req.Parameters {
		if key.In == openapi.InPath {
			path = strings.ReplaceAll(path, "{"+key.Name+"}", url.PathEscape(scalarString(v)))
		}
	}
	return path
}

func buildQuery(req *input.Request) url.Values {
	values := url.Values{}
	for key, v := range req.Parameters {
		if key.In != openapi.InQuery {
			continue
		}
		if v.Kind == input.KindArray {
			for _, item := range v.Array {
				values.Add(key.Name, scalarString(item))
			}
			continue
		}
		values.Add(key.Name, scalarString(v))
	}
	return values
}
