// Package coverband implements a coverage.Client that polls a Coverband
// HTTPS JSON endpoint, the supported way to collect coverage from Ruby
// targets. Unlike the Jacoco and LCOV agents it is not a stateful TCP
// session: every poll returns the endpoint's whole current view, so hits are
// recognised by diffing against a baseline counter per line rather than by
// an agent-side reset.
package coverband

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/TNO-S3/wuppiefuzz/internal/coverage"
)

// segment is one file's hit-count array as Coverband reports it. A nil
// element means the line is not executable and is skipped.
type segment struct {
	Filename    string   `json:"filename"`
	Coverage    []*int64 `json:"coverage"`
	NeverLoaded bool     `json:"never_loaded"`
}

// Client polls url for a JSON array of segments and accumulates newly
// observed hits into a flat coverage bitmap, one bit per executable line.
type Client struct {
	mu sync.Mutex

	httpClient *http.Client
	url        string

	covMap    []byte
	baseline  []int64
	index     map[string]int
	nextIndex int

	maxRatio [2]uint64
}

// Options configures a new Client.
type Options struct {
	URL string // the Coverband endpoint to poll
}

// New builds a Client that issues requests through httpClient, the shared
// client every polling coverage source and the executor itself is built
// from.
func New(httpClient *http.Client, opts Options) *Client {
	return &Client{
		httpClient: httpClient,
		url:        opts.URL,
		covMap:     make([]byte, coverage.MapSize),
		baseline:   make([]int64, coverage.MapSize*8),
		index:      make(map[string]int),
	}
}

// Fetch polls the Coverband endpoint and merges any newly observed hits —
// a line whose count has increased since the last poll — into the coverage
// map. Coverband has no agent-side reset to request, so reset is accepted
// for interface uniformity but otherwise ignored, matching the original
// client.
func (c *Client) Fetch(reset bool) error {
	resp, err := c.httpClient.Get(c.url)
	if err != nil {
		return fmt.Errorf("coverband: requesting coverage: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("coverband: unexpected status %d from %s", resp.StatusCode, c.url)
	}

	var segments []segment
	if err := json.NewDecoder(resp.Body).Decode(&segments); err != nil {
		return fmt.Errorf("coverband: decoding response: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.processSegments(segments)
	return nil
}

func (c *Client) processSegments(segments []segment) {
	for _, seg := range segments {
		if seg.NeverLoaded {
			continue
		}

		length := 0
		for _, hits := range seg.Coverage {
			if hits != nil {
				length++
			}
		}
		if length == 0 {
			continue
		}
		startIdx, ok := c.mapIndexFor(seg.Filename, length)
		if !ok {
			continue
		}

		pos := 0
		for _, hits := range seg.Coverage {
			if hits == nil {
				continue
			}
			idx := startIdx + pos
			pos++
			if idx >= len(c.baseline) {
				continue
			}
			if *hits > c.baseline[idx] {
				c.covMap[idx/8] |= 0b1000_0000 >> (idx % 8)
				c.baseline[idx] = *hits
			}
		}
	}
}

func (c *Client) mapIndexFor(filename string, length int) (int, bool) {
	if idx, ok := c.index[filename]; ok {
		return idx, true
	}
	idx := c.nextIndex
	if idx+length > coverage.MapSize*8 {
		return 0, false
	}
	c.nextIndex += length
	c.index[filename] = idx
	return idx, true
}

// Ptr returns the live coverage bitmap.
func (c *Client) Ptr() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.covMap
}

// Len returns the number of bits of the map currently assigned to a file.
func (c *Client) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nextIndex
}

// MaxRatio returns the highest (hit, total) bit counts observed so far.
func (c *Client) MaxRatio() (hit, total uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var ones uint64
	for _, b := range c.covMap {
		ones += uint64(popcount(b))
	}
	totalBits := uint64(c.nextIndex)

	if ones > c.maxRatio[0] {
		c.maxRatio[0] = ones
	}
	if totalBits > c.maxRatio[1] {
		c.maxRatio[1] = totalBits
	}
	return c.maxRatio[0], c.maxRatio[1]
}

func popcount(b byte) int {
	n := 0
	for b != 0 {
		n += int(b & 1)
		b >>= 1
	}
	return n
}

// WriteReport is unsupported for Coverband: the original client never
// implemented one either, since Coverband's own web UI is the report.
func (c *Client) WriteReport(dir string) error {
	return fmt.Errorf("coverband: report generation is not supported; use the Coverband web UI instead")
}
