package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/TNO-S3/wuppiefuzz/internal/auth"
	"github.com/TNO-S3/wuppiefuzz/internal/config"
	"github.com/TNO-S3/wuppiefuzz/internal/httpclient"
	"github.com/TNO-S3/wuppiefuzz/internal/openapi"
)

// newVerifyAuthCommand authenticates once, then sends a bare GET to every
// path the specification declares, reporting any 401 as an authentication
// failure.
func newVerifyAuthCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify-auth",
		Short: "Verify the current authentication settings against the target",
		RunE: func(cmd *cobra.Command, args []string) error {
			cli, err := partialFromConfigFlags(cmd)
			if err != nil {
				return err
			}
			cfg, err := loadMergedConfig(cmd, cli)
			if err != nil {
				return err
			}
			setupLogging(cfg.LogLevel)
			return runVerifyAuth(cfg)
		},
	}
	addConfigFlags(cmd.Flags())
	return cmd
}

func runVerifyAuth(cfg *config.Config) error {
	doc, err := loadSpec(cfg.OpenAPISpec)
	if err != nil {
		return err
	}
	if cfg.Target == "" {
		return fmt.Errorf("verify-auth: --target is required (the specification's declared server is not consulted)")
	}

	authn, err := buildAuthentication(cfg)
	if err != nil {
		return err
	}

	client, err := httpclient.New(httpclient.Options{})
	if err != nil {
		return err
	}
	if err := authn.Refresh(client); err != nil {
		return fmt.Errorf("verify-auth: %w", err)
	}

	fmt.Println("=============================================================================")
	fmt.Println("[*] Running authentication verification!")
	fmt.Println()
	printAuthResponse(authn)

	unauthorized := 0
	for _, pathKV := range doc.Paths.Items {
		url := strings.TrimRight(cfg.Target, "/") + pathKV.Key
		status, err := probeGet(client, authn, url)
		if err != nil {
			log.Warn().Err(err).Str("path", pathKV.Key).Msg("verify-auth: request error")
			continue
		}
		log.Info().Str("path", pathKV.Key).Int("status", status).Msg("verify-auth: probed")
		if status == http.StatusUnauthorized {
			unauthorized++
		}
	}

	if unauthorized > 0 {
		return fmt.Errorf("verify-auth: %d path(s) returned 401 Unauthorized", unauthorized)
	}
	fmt.Println("[*] No 401 Unauthorized responses observed.")
	return nil
}

func probeGet(client *http.Client, authn auth.Authentication, url string) (int, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	for name, value := range authn.Headers() {
		req.Header.Set(name, value)
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

func printAuthResponse(authn auth.Authentication) {
	fmt.Println("Response from authenticator:")
	mode := "None"
	detail := "None"
	switch a := authn.(type) {
	case auth.Static:
		mode = "Static"
		var parts []string
		for k, v := range a.HeaderValues {
			parts = append(parts, fmt.Sprintf("%s: %s", k, v))
		}
		for _, c := range a.CookieValues {
			parts = append(parts, fmt.Sprintf("cookie %s=%s", c.Name, c.Value))
		}
		detail = strings.Join(parts, ", ")
	}
	fmt.Printf("\t%-24s%s\n", "Authentication mode:", mode)
	fmt.Printf("\t%-24s%s\n", "Response:", detail)
}

func loadSpec(path string) (*openapi.Document, error) {
	if path == "" {
		return nil, fmt.Errorf("no OpenAPI specification file given")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return openapi.Load(data)
}

func buildAuthentication(cfg *config.Config) (auth.Authentication, error) {
	authn, err := auth.FromFile(cfg.Authentication)
	if err != nil {
		return nil, err
	}
	headers, err := auth.DefaultHeaders(cfg.Header)
	if err != nil {
		return nil, err
	}
	return auth.Merge(authn, headers), nil
}
