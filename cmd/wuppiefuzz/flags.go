package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/TNO-S3/wuppiefuzz/internal/config"
)

// addConfigFlags registers the --config/--openapi-spec/--target/
// --authentication/--header/--log-level flags that verify-auth and
// reproduce share; fuzz registers its own flag set instead.
func addConfigFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to a YAML configuration file")
	fs.String("openapi-spec", "", "path to the OpenAPI specification of the target")
	fs.String("target", "", "URL of the server to fuzz, overriding the specification")
	fs.String("authentication", "", "path to a YAML file describing how to authenticate")
	fs.String("header", "", "path to a YAML file of static headers to add to every request")
	fs.String("log-level", "", "log level: trace, debug, info, warn, error")
}

// partialFromConfigFlags reads the shared flags addConfigFlags registered
// into a PartialConfig, leaving every unset flag nil so Overwrite's
// None-preserving merge behaves correctly.
func partialFromConfigFlags(cmd *cobra.Command) (*config.PartialConfig, error) {
	p := &config.PartialConfig{}

	if v, _ := cmd.Flags().GetString("openapi-spec"); v != "" {
		p.OpenAPISpec = &v
	}
	if v, _ := cmd.Flags().GetString("target"); v != "" {
		p.Target = &v
	}
	if v, _ := cmd.Flags().GetString("authentication"); v != "" {
		p.Authentication = &v
	}
	if v, _ := cmd.Flags().GetString("header"); v != "" {
		p.Header = &v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		lvl, err := zerolog.ParseLevel(v)
		if err != nil {
			return nil, fmt.Errorf("--log-level: %w", err)
		}
		p.LogLevel = &lvl
	}
	return p, nil
}

// loadMergedConfig reads --config (if given), then overlays the CLI flags
// on top field-by-field: the CLI always wins over the config file, and the
// LOG_LEVEL environment variable only applies when neither set a level.
func loadMergedConfig(cmd *cobra.Command, cli *config.PartialConfig) (*config.Config, error) {
	fileConfig := &config.PartialConfig{}
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.LoadYAMLFile(path)
		if err != nil {
			return nil, err
		}
		fileConfig = loaded
	}
	fileConfig.Overwrite(cli)

	if fileConfig.LogLevel == nil {
		level := logLevelFromEnv(nil)
		fileConfig.LogLevel = &level
	}

	return config.Resolve(fileConfig)
}
