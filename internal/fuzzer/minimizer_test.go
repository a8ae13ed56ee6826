package fuzzer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TNO-S3/wuppiefuzz/internal/fuzzer"
	"github.com/TNO-S3/wuppiefuzz/internal/input"
	"github.com/TNO-S3/wuppiefuzz/internal/openapi"
)

func TestMinimizeFavorsASmallCoveringSet(t *testing.T) {
	wide := &fuzzer.QueueEntry{Chain: newTestChain()}          // covers bits 0 and 1
	redundant := &fuzzer.QueueEntry{Chain: newTestChain()}     // covers only bit 0, already covered by wide
	extra := &fuzzer.QueueEntry{Chain: newTestChain()}         // covers bit 2, the only source of it
	entries := []*fuzzer.QueueEntry{wide, redundant, extra}

	coverageOf := func(e *fuzzer.QueueEntry) []byte {
		switch e {
		case wide:
			return []byte{0x03}
		case redundant:
			return []byte{0x01}
		case extra:
			return []byte{0x04}
		default:
			return nil
		}
	}

	fuzzer.Minimize(entries, coverageOf)

	require.True(t, wide.Favored)
	require.True(t, extra.Favored)
	require.False(t, redundant.Favored, "redundant entry adds no new coverage once wide is selected")
}

func TestMinimizeHandlesEmptyCoverageWithoutPanicking(t *testing.T) {
	entries := []*fuzzer.QueueEntry{{Chain: newTestChain()}}
	require.NotPanics(t, func() {
		fuzzer.Minimize(entries, func(*fuzzer.QueueEntry) []byte { return nil })
	})
	require.False(t, entries[0].Favored)
}

func TestMinimizeTieBreaksOnShorterChainThenLowerTime(t *testing.T) {
	short := &fuzzer.QueueEntry{Chain: newTestChain()}
	long := &fuzzer.QueueEntry{Chain: input.NewChain(
		input.NewRequest(openapi.MethodGet, "/health"),
		input.NewRequest(openapi.MethodGet, "/health"),
	)}
	entries := []*fuzzer.QueueEntry{long, short}

	coverageOf := func(*fuzzer.QueueEntry) []byte { return []byte{0x01} }
	fuzzer.Minimize(entries, coverageOf)

	require.True(t, short.Favored)
	require.False(t, long.Favored)
}
