package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/TNO-S3/wuppiefuzz/internal/config"
	"github.com/TNO-S3/wuppiefuzz/internal/coverage"
	"github.com/TNO-S3/wuppiefuzz/internal/depgraph"
	"github.com/TNO-S3/wuppiefuzz/internal/executor"
	"github.com/TNO-S3/wuppiefuzz/internal/fuzzer"
	"github.com/TNO-S3/wuppiefuzz/internal/httpclient"
	"github.com/TNO-S3/wuppiefuzz/internal/input"
	"github.com/TNO-S3/wuppiefuzz/internal/openapi"
	"github.com/TNO-S3/wuppiefuzz/internal/paramfeedback"
	"github.com/TNO-S3/wuppiefuzz/internal/reporting"
)

// newFuzzCommand assembles the `fuzz` subcommand. Unlike verify-auth,
// output-corpus and reproduce, its OpenAPI spec argument is purely
// positional rather than an --openapi-spec flag, so it builds its own flag
// set instead of calling addConfigFlags.
func newFuzzCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fuzz [OPENAPI_SPEC]",
		Short: "Fuzz test an OpenAPI backend",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cli, err := fuzzFlagsToPartial(cmd, args)
			if err != nil {
				return err
			}
			cfg, err := loadMergedConfig(cmd, cli)
			if err != nil {
				return err
			}
			setupLogging(cfg.LogLevel)
			return runFuzz(cfg)
		},
	}

	fs := cmd.Flags()
	fs.String("config", "", "path to a YAML configuration file")
	fs.StringP("initial-corpus", "i", "", "path to a directory of YAML seed chains")
	fs.String("target", "", "URL of the server to fuzz, overriding the specification")
	fs.String("coverage-host", "", "host:port of the coverage agent")
	fs.String("coverage-format", "", "jacoco, lcov or coverband; omit for endpoint-only coverage")
	fs.Uint64("timeout", 0, "total fuzzing time-out in seconds; 0 runs until stopped")
	fs.Uint64("request-timeout", 0, "per-request time-out in milliseconds")
	fs.String("power-schedule", "", "fast, coe, lin, quad, explore or exploit")
	fs.StringSlice("crash-criteria", nil, "which validation failures count as objectives")
	fs.Bool("report", false, "generate a coverage report after the run")
	fs.String("method-mutation-strategy", "", "follow-spec, common5 or common7")
	fs.String("jacoco-class-dir", "", "directory of compiled classes, for a Jacoco report")
	fs.String("source-dir", "", "directory of source files, for a coverage report")
	fs.String("jacoco-class-prefix", "", "only count classes whose name has this prefix")
	fs.String("output-format", "", "human-readable or json")
	fs.String("authentication", "", "path to a YAML file describing how to authenticate")
	fs.String("header", "", "path to a YAML file of static headers to add to every request")
	fs.String("log-level", "", "log level: trace, debug, info, warn, error")

	return cmd
}

func fuzzFlagsToPartial(cmd *cobra.Command, args []string) (*config.PartialConfig, error) {
	p := &config.PartialConfig{}
	fs := cmd.Flags()

	if len(args) == 1 {
		p.OpenAPISpec = &args[0]
	}
	if v, _ := fs.GetString("initial-corpus"); v != "" {
		p.InitialCorpus = &v
	}
	if v, _ := fs.GetString("target"); v != "" {
		p.Target = &v
	}
	if v, _ := fs.GetString("coverage-host"); v != "" {
		p.CoverageHost = &v
	}
	if v, _ := fs.GetString("coverage-format"); v != "" {
		f, ok := config.ParseCoverageFormat(v)
		if !ok {
			return nil, fmt.Errorf("--coverage-format: unknown format %q", v)
		}
		p.CoverageFormat = &f
	}
	if v, _ := fs.GetUint64("timeout"); v != 0 {
		p.TimeoutSeconds = &v
	}
	if v, _ := fs.GetUint64("request-timeout"); v != 0 {
		p.RequestTimeoutMillis = &v
	}
	if v, _ := fs.GetString("power-schedule"); v != "" {
		s, ok := config.ParsePowerSchedule(v)
		if !ok {
			return nil, fmt.Errorf("--power-schedule: unknown schedule %q", v)
		}
		p.PowerSchedule = &s
	}
	if v, _ := fs.GetStringSlice("crash-criteria"); len(v) > 0 {
		p.CrashCriteriaNames = v
	}
	if fs.Changed("report") {
		v, _ := fs.GetBool("report")
		p.Report = &v
	}
	if v, _ := fs.GetString("method-mutation-strategy"); v != "" {
		s, ok := config.ParseMethodMutationStrategy(v)
		if !ok {
			return nil, fmt.Errorf("--method-mutation-strategy: unknown strategy %q", v)
		}
		p.MethodMutationStrategy = &s
	}
	if v, _ := fs.GetString("jacoco-class-dir"); v != "" {
		p.JacocoClassDir = &v
	}
	if v, _ := fs.GetString("source-dir"); v != "" {
		p.SourceDir = &v
	}
	if v, _ := fs.GetString("jacoco-class-prefix"); v != "" {
		p.JacocoClassPrefix = &v
	}
	if v, _ := fs.GetString("output-format"); v != "" {
		f, ok := config.ParseOutputFormat(v)
		if !ok {
			return nil, fmt.Errorf("--output-format: unknown format %q", v)
		}
		p.OutputFormat = &f
	}
	if v, _ := fs.GetString("authentication"); v != "" {
		p.Authentication = &v
	}
	if v, _ := fs.GetString("header"); v != "" {
		p.Header = &v
	}
	if v, _ := fs.GetString("log-level"); v != "" {
		lvl, err := zerolog.ParseLevel(v)
		if err != nil {
			return nil, fmt.Errorf("--log-level: %w", err)
		}
		p.LogLevel = &lvl
	}
	return p, nil
}

func runFuzz(cfg *config.Config) error {
	doc, err := loadSpec(cfg.OpenAPISpec)
	if err != nil {
		return err
	}
	if cfg.Target == "" {
		return fmt.Errorf("fuzz: --target is required")
	}

	var reportDir string
	if cfg.Report {
		reportDir, err = reporting.GenerateReportPath()
		if err != nil {
			return err
		}
	}

	authn, err := buildAuthentication(cfg)
	if err != nil {
		return err
	}
	client, err := httpclient.New(httpclient.Options{})
	if err != nil {
		return err
	}

	endpointCov := coverage.NewEndpoint(doc)
	var codeCov coverage.Client
	if cfg.Coverage.Format != config.CoverageEndpoint {
		dumpDir := ""
		if reportDir != "" {
			dumpDir = filepath.Join(reportDir, "dumps")
		}
		codeCov, err = coverage.New(cfg, doc, client, dumpDir)
		if err != nil {
			return fmt.Errorf("fuzz: setting up coverage client: %w", err)
		}
	}

	reporter, err := buildReporter(cfg)
	if err != nil {
		return err
	}
	defer reporter.Close()

	store := paramfeedback.New(0)
	runner := &executor.Runner{
		Client:         client,
		Auth:           authn,
		Document:       doc,
		RequestTimeout: cfg.RequestTimeout,
		CrashCriteria:  executor.NewCrashCriteria(cfg.CrashCriteria),
		Coverage:       endpointCov,
		Reporter:       reporter,
	}

	scheduler := fuzzer.NewPowerScheduler(cfg.PowerSchedule)
	multiMap := buildMultiMap(endpointCov, codeCov)
	feedback := buildFeedback(multiMap, codeCov)
	calibration := &fuzzer.CalibrationStage{Runner: runner, BaseURL: cfg.Target, Store: store}
	mutational := &fuzzer.PowerMutationalStage{
		Mutators: defaultMutators(doc, cfg.MethodMutationStrategy),
		Runner:   runner,
		BaseURL:  cfg.Target,
		Store:    store,
	}

	loop := fuzzer.NewLoop(scheduler, feedback, calibration, mutational, multiMap, endpointCov, codeCov, time.Now().UnixNano())
	loop.Monitor = fuzzer.NewMonitor(func(s string) { fmt.Println(s) }, cfg.OutputFormat)
	if cfg.InitialCorpus != "" {
		loop.QueueDir = cfg.InitialCorpus
	}

	seeds, err := fuzzer.BuildSeedChains(doc)
	if err != nil {
		return fmt.Errorf("fuzz: generating seed chains: %w", err)
	}
	if err := loop.LoadQueue(seeds); err != nil {
		return err
	}

	if err := validateInstrumentation(loop, cfg); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.Timeout > 0 {
		var timeoutCancel context.CancelFunc
		ctx, timeoutCancel = context.WithTimeout(ctx, cfg.Timeout)
		defer timeoutCancel()
	}
	installSignalHandler(cancel)

	if err := loop.Run(ctx); err != nil {
		return err
	}

	loop.MinimizeQueue(func(e *fuzzer.QueueEntry) []byte { return multiMap.Snapshot() })

	if reportDir != "" {
		if err := generateCoverageReports(reportDir, doc, loop, reporter); err != nil {
			log.Error().Err(err).Msg("fuzz: failed to write coverage reports")
		}
	}
	return nil
}

// buildFeedback wires one MaxMapFeedback per coverage.Client's region of
// multiMap, plus an always-present TimeFeedback for timing statistics. Code
// is nil when only endpoint coverage is configured.
func buildFeedback(multiMap *fuzzer.MultiMap, codeCov coverage.Client) *fuzzer.CombinedFeedback {
	endpointOffset, endpointLen := multiMap.Region(0)
	fb := &fuzzer.CombinedFeedback{
		Endpoint: fuzzer.NewMaxMapFeedback("endpoint", endpointOffset, endpointLen),
		Time:     &fuzzer.TimeFeedback{},
	}
	if codeCov != nil {
		codeOffset, codeLen := multiMap.Region(1)
		fb.Code = fuzzer.NewMaxMapFeedback("code", codeOffset, codeLen)
	}
	return fb
}

// validateInstrumentation runs one coverage fetch so ValidateInstrumentation
// has a sample to check, mirroring fuzz()'s fetch-then-validate ordering
// right before the main loop starts. A no-op when only endpoint coverage is
// configured.
func validateInstrumentation(loop *fuzzer.Loop, cfg *config.Config) error {
	if cfg.Coverage.Format == config.CoverageEndpoint {
		return nil
	}
	if err := loop.CodeCov.Fetch(true); err != nil {
		return fmt.Errorf("fuzz: initial coverage fetch: %w", err)
	}
	return loop.ValidateInstrumentation()
}

func buildMultiMap(endpointCov coverage.Client, codeCov coverage.Client) *fuzzer.MultiMap {
	if codeCov != nil {
		return fuzzer.NewMultiMap(endpointCov, codeCov)
	}
	return fuzzer.NewMultiMap(endpointCov)
}

func buildReporter(cfg *config.Config) (reporting.Reporter, error) {
	if !cfg.Report {
		return reporting.NoopReporter{}, nil
	}
	if err := os.MkdirAll(filepath.Dir(reporting.DefaultDatabasePath), 0o755); err != nil {
		return nil, err
	}
	return reporting.NewSQLiteReporter(reporting.DefaultDatabasePath)
}

func installSignalHandler(cancel context.CancelFunc) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	go func() {
		<-sig
		log.Info().Msg("fuzz: received interrupt, finishing the current request before stopping")
		cancel()
	}()
}

func generateCoverageReports(reportDir string, doc *openapi.Document, loop *fuzzer.Loop, reporter reporting.Reporter) error {
	endpointDir := filepath.Join(reportDir, "endpointcoverage")
	if err := os.MkdirAll(endpointDir, 0o755); err != nil {
		return err
	}
	if err := loop.EndpointCov.WriteReport(endpointDir); err != nil {
		return err
	}

	endpointHit, endpointTotal := loop.EndpointCov.MaxRatio()
	var codeHit, codeTotal uint64
	if loop.CodeCov != nil {
		if err := loop.CodeCov.WriteReport(reportDir); err != nil {
			return err
		}
		codeHit, codeTotal = loop.CodeCov.MaxRatio()
	}
	if err := reporter.ReportCoverage(codeHit, codeTotal, endpointHit, endpointTotal); err != nil {
		log.Warn().Err(err).Msg("fuzz: failed to persist final coverage ratios")
	}

	var chains []*input.Chain
	for _, e := range loop.Scheduler.Entries() {
		chains = append(chains, e.Chain)
	}
	if err := reporting.WriteCorpusGraph(reportDir, chains); err != nil {
		return err
	}
	return reporting.WriteDependencyGraph(reportDir, depgraph.Build(doc))
}
