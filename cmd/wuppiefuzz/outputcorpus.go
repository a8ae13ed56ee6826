package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/TNO-S3/wuppiefuzz/internal/depgraph"
	"github.com/TNO-S3/wuppiefuzz/internal/fuzzer"
	"github.com/TNO-S3/wuppiefuzz/internal/reporting"
)

// newOutputCorpusCommand generates seed chains from the specification and
// writes them to disk as YAML, optionally alongside a dependency/corpus
// Mermaid report.
func newOutputCorpusCommand() *cobra.Command {
	var openAPISpec, reportPath, logLevel string

	cmd := &cobra.Command{
		Use:   "output-corpus <DIR>",
		Short: "Generate a starting corpus and write it to a directory, then exit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level := zerolog.InfoLevel
			if logLevel != "" {
				parsed, err := zerolog.ParseLevel(logLevel)
				if err != nil {
					return err
				}
				level = parsed
			}
			setupLogging(level)
			return runOutputCorpus(args[0], openAPISpec, reportPath)
		},
	}

	cmd.Flags().StringVar(&openAPISpec, "openapi-spec", "", "OpenAPI specification to generate corpus entries from")
	cmd.Flags().StringVar(&reportPath, "report-path", "", "directory to write dependency/corpus Mermaid graphs to")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	cmd.MarkFlagRequired("openapi-spec")

	return cmd
}

func runOutputCorpus(corpusDir, openAPISpec, reportPath string) error {
	doc, err := loadSpec(openAPISpec)
	if err != nil {
		return err
	}

	chains, err := fuzzer.BuildSeedChains(doc)
	if err != nil {
		return fmt.Errorf("output-corpus: generating seed chains: %w", err)
	}

	if err := os.MkdirAll(corpusDir, 0o755); err != nil {
		return err
	}
	for i, chain := range chains {
		data, err := chain.MarshalYAML()
		if err != nil {
			return err
		}
		name := strconv.Itoa(i) + ".yaml"
		if err := os.WriteFile(filepath.Join(corpusDir, name), data, 0o644); err != nil {
			return err
		}
	}
	fmt.Printf("Wrote %d seed chain(s) to %s\n", len(chains), corpusDir)

	if reportPath != "" {
		if err := os.MkdirAll(reportPath, 0o755); err != nil {
			return err
		}
		if err := reporting.WriteCorpusGraph(reportPath, chains); err != nil {
			return fmt.Errorf("output-corpus: writing corpus graph: %w", err)
		}
		if err := reporting.WriteDependencyGraph(reportPath, depgraph.Build(doc)); err != nil {
			return fmt.Errorf("output-corpus: writing dependency graph: %w", err)
		}
	}
	return nil
}
