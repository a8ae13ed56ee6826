package auth

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"

	"gopkg.in/yaml.v3"
)

// mode is the --authentication file's top-level shape. Only the modes that
// don't require a live login round-trip against the target are supported
// here; bearer/custom/oauth need an HTTP handshake at startup, which this
// package's doc comment already scopes out as an external collaborator's
// job.
type mode struct {
	Mode          string         `yaml:"mode"`
	Configuration map[string]any `yaml:"configuration"`
}

// FromFile loads an Authentication from the --authentication YAML file.
// An empty path returns None.
func FromFile(path string) (Authentication, error) {
	if path == "" {
		return None{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("auth: opening %s: %w", path, err)
	}
	var m mode
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("auth: parsing %s: %w", path, err)
	}

	switch m.Mode {
	case "", "none":
		return None{}, nil
	case "raw":
		contents, _ := m.Configuration["contents"].(string)
		return Static{HeaderValues: map[string]string{"Authorization": contents}}, nil
	case "basic":
		username, _ := m.Configuration["username"].(string)
		password, _ := m.Configuration["password"].(string)
		encoded := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
		return Static{HeaderValues: map[string]string{"Authorization": "Basic " + encoded}}, nil
	case "cookie":
		raw, _ := m.Configuration["set_cookie"].(map[string]any)
		cookies := make([]*http.Cookie, 0, len(raw))
		for name, v := range raw {
			if value, ok := v.(string); ok {
				cookies = append(cookies, &http.Cookie{Name: name, Value: value})
			}
		}
		return Static{CookieValues: cookies}, nil
	case "bearer", "custom", "oauth":
		return nil, fmt.Errorf("auth: %q authentication requires a live login handshake against the target, which this build does not perform", m.Mode)
	default:
		return nil, fmt.Errorf("auth: unknown authentication mode %q", m.Mode)
	}
}

// DefaultHeaders loads the --header YAML file of extra headers to attach to
// every outgoing request. An empty path returns just the fuzzer's
// User-Agent.
func DefaultHeaders(path string) (map[string]string, error) {
	headers := map[string]string{"User-Agent": "wuppiefuzz/0.1.0"}
	if path == "" {
		return headers, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("auth: opening header file %s: %w", path, err)
	}
	var custom map[string]string
	if err := yaml.Unmarshal(data, &custom); err != nil {
		return nil, fmt.Errorf("auth: parsing header file %s: %w", path, err)
	}
	for k, v := range custom {
		headers[k] = v
	}
	return headers, nil
}

// Merge layers auth's own headers on top of extraHeaders (auth wins where
// both set the same name), returning an Authentication whose Headers()
// includes both — used to fold the --header default headers file into
// whatever --authentication produced.
func Merge(authn Authentication, extraHeaders map[string]string) Authentication {
	if len(extraHeaders) == 0 {
		return authn
	}
	merged := make(map[string]string, len(extraHeaders))
	for k, v := range extraHeaders {
		merged[k] = v
	}
	for k, v := range authn.Headers() {
		merged[k] = v
	}
	return Static{HeaderValues: merged, CookieValues: authn.Cookies()}
}
