// Package coverage defines the uniform contract every code-coverage client
// implements and the endpoint-coverage client that is always available
// regardless of target language. The Jacoco, LCOV and Coverband clients that
// talk to a language-specific coverage agent live in their own sub-packages;
// the Jacoco and LCOV clients depend on coverage/frame for the TCP wire
// protocol they share, while Coverband polls an HTTP JSON endpoint.
package coverage

// MapSize is the size, in bytes, of the bitmap every Client exposes through
// Ptr — large enough to hold a bit per endpoint or per source line for
// realistically sized targets.
const MapSize = 4 * 8192

// Client is the fuzzer-facing contract for a coverage source: fetch (and
// optionally reset) the remote agent's coverage, expose it as a flat byte
// map the feedback layer can diff between executions, report the running
// maximum hit/total ratio, and write a format-specific report to disk.
type Client interface {
	// Fetch polls the coverage agent for its current coverage and merges it
	// into the map Ptr returns. If reset is true, the agent is also told to
	// clear its own map afterwards.
	Fetch(reset bool) error
	// Ptr returns the live coverage bitmap. Callers may read it between
	// Fetch calls but must not mutate it.
	Ptr() []byte
	// Len returns the number of meaningful bytes at the front of Ptr —
	// MapSize is an upper bound, not the in-use size.
	Len() int
	// MaxRatio returns the highest (hit, total) bit counts observed across
	// every Fetch call so far.
	MaxRatio() (hit, total uint64)
	// WriteReport renders a format-specific coverage report into dir.
	WriteReport(dir string) error
}
