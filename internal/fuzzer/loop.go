package fuzzer

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/TNO-S3/wuppiefuzz/internal/coverage"
	"github.com/TNO-S3/wuppiefuzz/internal/input"
)

// defaultQueueDir and defaultSolutionsDir name the on-disk corpus
// directories used when no override is configured.
const (
	defaultQueueDir     = "queue"
	defaultSolutionsDir = "crashes"
)

// Loop drives the fetch -> schedule -> mutate -> execute -> observe cycle
// that forms one fuzzing run.
type Loop struct {
	Scheduler   Scheduler
	Feedback    *CombinedFeedback
	Calibration *CalibrationStage
	Mutational  *PowerMutationalStage

	MultiMap    *MultiMap
	EndpointCov coverage.Client
	CodeCov     coverage.Client // nil when only endpoint coverage is configured

	QueueDir     string
	SolutionsDir string

	Monitor *Monitor

	rng *rand.Rand

	executions int
	objectives int
	calibrated map[*QueueEntry]bool
}

// NewLoop builds a Loop from its constituent parts. seed is typically
// time.Now().UnixNano(); callers that need reproducibility can pass a fixed
// value instead.
func NewLoop(scheduler Scheduler, feedback *CombinedFeedback, calibration *CalibrationStage, mutational *PowerMutationalStage, multiMap *MultiMap, endpointCov, codeCov coverage.Client, seed int64) *Loop {
	return &Loop{
		Scheduler:    scheduler,
		Feedback:     feedback,
		Calibration:  calibration,
		Mutational:   mutational,
		MultiMap:     multiMap,
		EndpointCov:  endpointCov,
		CodeCov:      codeCov,
		QueueDir:     defaultQueueDir,
		SolutionsDir: defaultSolutionsDir,
		rng:          rand.New(rand.NewSource(seed)),
		calibrated:   make(map[*QueueEntry]bool),
	}
}

// stats snapshots the counters a Monitor needs to render any event.
func (l *Loop) stats() Stats {
	hit, total := l.EndpointCov.MaxRatio()
	var codeHit, codeTotal uint64
	if l.CodeCov != nil {
		codeHit, codeTotal = l.CodeCov.MaxRatio()
	}
	return Stats{
		Executions:    l.executions,
		CorpusSize:    len(l.Scheduler.Entries()),
		Objectives:    l.objectives,
		RequestCount:  l.executions,
		CoverageHit:   codeHit,
		CoverageTotal: codeTotal,
		EndpointHit:   hit,
		EndpointTotal: total,
	}
}

// LoadQueue seeds the scheduler either from a previously persisted queue
// directory (when present and non-empty) or from freshly generated chains,
// then persists whichever set was used to l.QueueDir so a later run can
// resume from it — mirroring load_starting_corpus / fill_corpus_from_api.
func (l *Loop) LoadQueue(generated []*input.Chain) error {
	loaded, err := loadChainFiles(l.QueueDir)
	if err != nil {
		return fmt.Errorf("fuzzer: loading queue from %s: %w", l.QueueDir, err)
	}

	chains := loaded
	if len(chains) == 0 {
		log.Info().Msg("fuzzer: no persisted queue found, generating one from the API")
		chains = generated
	} else {
		log.Info().Int("count", len(chains)).Str("dir", l.QueueDir).Msg("fuzzer: filled queue from disk")
	}

	for _, chain := range chains {
		l.Scheduler.Add(&QueueEntry{Chain: chain})
	}
	if l.Monitor != nil {
		l.Monitor.Display(EventTestcase, l.stats())
	}
	return persistChains(l.QueueDir, chains)
}

func loadChainFiles(dir string) ([]*input.Chain, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var chains []*input.Chain
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		chain, err := input.UnmarshalChainYAML(data)
		if err != nil {
			log.Warn().Err(err).Str("file", entry.Name()).Msg("fuzzer: skipping unreadable queue entry")
			continue
		}
		chains = append(chains, chain)
	}
	return chains, nil
}

func persistChains(dir string, chains []*input.Chain) error {
	if len(chains) == 0 {
		return nil
	}
	for i, chain := range chains {
		if err := persistChain(dir, strconv.Itoa(i)+".yaml", chain); err != nil {
			return err
		}
	}
	return nil
}

func persistChain(dir, name string, chain *input.Chain) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := chain.MarshalYAML()
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, name), data, 0o644)
}

// MinimizeQueue runs Minimize over every scheduled entry's current coverage
// snapshot, logging before/after size the way minimize_corpus does. It must
// run after at least one execution per entry, since Minimize needs a
// coverage sample to minimize against.
func (l *Loop) MinimizeQueue(coverageOf func(*QueueEntry) []byte) {
	entries := l.Scheduler.Entries()
	log.Info().Msg("fuzzer: start corpus minimization")
	log.Info().Int("size", len(entries)).Msg("fuzzer: size before")
	Minimize(entries, coverageOf)
	favored := 0
	for _, e := range entries {
		if e.Favored {
			favored++
		}
	}
	log.Info().Int("favored", favored).Msg("fuzzer: size after")
}

// ValidateInstrumentation checks that a configured code-coverage client has
// already observed a nonzero ratio before fuzzing starts, per
// validate_instrumentation: zero initial coverage almost always means the
// target wasn't restarted or instrumentation is missing. It is a no-op when
// no code-coverage client is configured.
func (l *Loop) ValidateInstrumentation() error {
	if l.CodeCov == nil {
		return nil
	}
	hit, total := l.CodeCov.MaxRatio()
	if hit == 0 {
		return fmt.Errorf("fuzzer: no initial code coverage detected; ensure the target was restarted and is properly instrumented")
	}
	pct := (hit*100 + total/2) / total
	log.Info().Uint64("hit", hit).Uint64("total", total).Uint64("percent", pct).Msg("fuzzer: initial code coverage")
	return nil
}

// Run drives the main loop until ctx is cancelled, the Go equivalent of
// fuzz()'s `loop { fuzzer.fuzz_one(...) }`. The loop checks for cancellation
// at the top of each tick. ctx is also passed down to the executor, whose
// per-request context derives from it, so cancelling ctx aborts an in-flight
// HTTP request as well.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("fuzzer: fuzzing campaign ended, thanks for using this tool")
			return nil
		default:
		}

		if err := l.fuzzOne(ctx); err != nil {
			return fmt.Errorf("fuzzer: error in the fuzz loop: %w", err)
		}

		l.executions++
		if l.Monitor != nil {
			l.Monitor.Display(EventHeartbeat, l.stats())
		}
	}
}

// fuzzOne runs one scheduling decision through calibration (if the entry is
// new) and the mutational stage, recording feedback and persisting the
// result if it turned out interesting or objective-producing.
func (l *Loop) fuzzOne(ctx context.Context) error {
	entry, ok := l.Scheduler.Next(l.rng)
	if !ok {
		return fmt.Errorf("every queue entry is disabled")
	}

	// CalibrationStage normally runs as part of every stage tuple, but only
	// performs extra work the first time it sees a given entry; tracking
	// that here once per entry gets the same effect without per-entry
	// calibration metadata on the queue entry itself.
	if !l.calibrated[entry] {
		if _, err := l.Calibration.Run(ctx, l.rng, entry); err != nil {
			return err
		}
		l.calibrated[entry] = true
	}

	result, err := l.Mutational.Run(ctx, l.rng, entry)
	if err != nil {
		return err
	}

	for _, client := range l.coverageClients() {
		if err := client.Fetch(false); err != nil {
			log.Warn().Err(err).Msg("fuzzer: coverage fetch failed")
		}
	}

	obs := Observation{Coverage: l.MultiMap.Snapshot(), Elapsed: result.Elapsed}
	interesting := l.Feedback.IsInteresting(obs)

	if len(result.Result.Objectives) > 0 {
		l.objectives++
		err := l.saveSolution(result)
		if l.Monitor != nil {
			l.Monitor.Display(EventObjective, l.stats())
		}
		return err
	}
	if interesting && result.Chain != nil {
		l.Scheduler.Add(&QueueEntry{Chain: result.Chain})
		name := strconv.Itoa(len(l.Scheduler.Entries())-1) + "-" + strconv.FormatInt(time.Now().UnixNano(), 10) + ".yaml"
		if err := persistChain(l.QueueDir, name, result.Chain); err != nil {
			log.Warn().Err(err).Msg("fuzzer: failed to persist new queue entry")
		}
		if l.Monitor != nil {
			l.Monitor.Display(EventTestcase, l.stats())
		}
	}
	return nil
}

func (l *Loop) coverageClients() []coverage.Client {
	clients := []coverage.Client{l.EndpointCov}
	if l.CodeCov != nil {
		clients = append(clients, l.CodeCov)
	}
	return clients
}

// saveSolution persists a chain that produced at least one objective to
// SolutionsDir.
func (l *Loop) saveSolution(result *StageResult) error {
	chain := result.Chain
	if chain == nil {
		return nil
	}
	if err := os.MkdirAll(l.SolutionsDir, 0o755); err != nil {
		return err
	}
	data, err := chain.MarshalYAML()
	if err != nil {
		return err
	}
	name := strconv.FormatInt(time.Now().UnixNano(), 10) + ".yaml"
	path := filepath.Join(l.SolutionsDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	for _, obj := range result.Result.Objectives {
		log.Warn().Str("reason", obj.Reason).Str("detail", obj.Detail).Int("request", obj.RequestIndex).Str("saved_to", path).Msg("fuzzer: objective found")
	}
	return nil
}
