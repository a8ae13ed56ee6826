// Package jacoco implements a coverage.Client that talks to a Jacoco TCP
// coverage agent, the supported way to collect coverage from Java targets.
package jacoco

import (
	"bytes"
	"fmt"
	"io"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/TNO-S3/wuppiefuzz/internal/coverage"
	"github.com/TNO-S3/wuppiefuzz/internal/coverage/frame"
)

var magic = [2]byte{0xc0, 0xc0}

// Client connects to a Jacoco TCP agent and accumulates the probe bytes it
// reports into a flat coverage bitmap, optionally filtering classes by a
// package-name prefix and dumping each fetch's raw .exec bytes to disk for
// later report generation.
type Client struct {
	mu sync.Mutex

	conn net.Conn

	covMap      []byte
	covMapTotal []byte
	index       map[uint64]int
	nextIndex   int

	maxRatio [2]uint64

	classPrefix string
	dumpDir     string
	dumpIndex   int

	sourceDir, classDir string
}

// Options configures a new Client.
type Options struct {
	Address     string // host:port of the Jacoco TCP agent
	ClassPrefix string // only classes whose name has this prefix count; "" means no filter
	DumpDir     string // directory raw .exec dumps are written to; "" disables dumping
	SourceDir   string // passed to jacococli.jar report --sourcefiles
	ClassDir    string // passed to jacococli.jar report --classfiles
}

// New dials the Jacoco agent at opts.Address and prepares (clearing, if it
// already exists) the dump directory used to accumulate .exec files for the
// eventual HTML report.
func New(opts Options) (*Client, error) {
	conn, err := net.Dial("tcp", opts.Address)
	if err != nil {
		return nil, fmt.Errorf("jacoco: connecting to %s: %w", opts.Address, err)
	}

	if opts.DumpDir != "" {
		if err := clearDumpDir(opts.DumpDir); err != nil {
			conn.Close()
			return nil, err
		}
	}

	return &Client{
		conn:        conn,
		covMap:      make([]byte, coverage.MapSize),
		covMapTotal: make([]byte, coverage.MapSize),
		index:       make(map[uint64]int),
		classPrefix: opts.ClassPrefix,
		dumpDir:     opts.DumpDir,
		sourceDir:   opts.SourceDir,
		classDir:    opts.ClassDir,
	}, nil
}

func clearDumpDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("jacoco: creating dump directory: %w", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("jacoco: reading dump directory: %w", err)
	}
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), "jacoco") {
			if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
				return fmt.Errorf("jacoco: clearing stale dump %s: %w", entry.Name(), err)
			}
		}
	}
	return nil
}

// Fetch requests a dump from the agent (optionally resetting its map
// afterwards), ORing every returned segment's probe bytes into the running
// coverage map.
func (c *Client) Fetch(reset bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := frame.SendDumpRequest(c.conn, reset); err != nil {
		return fmt.Errorf("jacoco: sending dump request: %w", err)
	}
	var raw bytes.Buffer
	segments, err := frame.ReadSegments(io.TeeReader(c.conn, &raw), magic)
	if err != nil {
		return fmt.Errorf("jacoco: reading coverage dump: %w", err)
	}

	if c.dumpDir != "" {
		if err := c.dumpSegments(raw.Bytes()); err != nil {
			return err
		}
	}

	for _, seg := range segments {
		if !matchesPrefix(c.classPrefix, seg.Name) {
			continue
		}
		idx := c.mapIndexFor(seg.ID, len(seg.Probes))
		if idx < 0 {
			continue
		}
		for i, b := range seg.Probes {
			c.covMap[idx+i] |= b
			c.covMapTotal[idx+i] |= b
		}
	}
	return nil
}

func matchesPrefix(prefix, name string) bool {
	return prefix == "" || strings.HasPrefix(name, prefix)
}

func (c *Client) mapIndexFor(id uint64, length int) int {
	if idx, ok := c.index[id]; ok {
		return idx
	}
	idx := c.nextIndex
	if idx+length > len(c.covMap) {
		return -1
	}
	c.nextIndex += length
	c.index[id] = idx
	return idx
}

// dumpSegments writes one .exec file per Fetch call, in the raw Jacoco
// execution-data format jacococli.jar's merge command expects: the bytes the
// agent sent for this dump, without the trailing CmdOk block.
func (c *Client) dumpSegments(raw []byte) error {
	path := filepath.Join(c.dumpDir, fmt.Sprintf("jacoco_%d.exec", c.dumpIndex))
	c.dumpIndex++

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("jacoco: creating dump file %s: %w", path, err)
	}
	defer f.Close()

	if n := len(raw); n > 0 && raw[n-1] == frame.BlockCmdOk {
		raw = raw[:n-1]
	}
	if _, err := f.Write(raw); err != nil {
		return fmt.Errorf("jacoco: writing dump: %w", err)
	}
	return nil
}

// Ptr returns the live coverage bitmap.
func (c *Client) Ptr() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.covMapTotal
}

// Len returns the number of bytes of the map currently in use.
func (c *Client) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nextIndex
}

// MaxRatio returns the highest (set bits, total bits) pair observed so far.
func (c *Client) MaxRatio() (hit, total uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var ones uint64
	for _, b := range c.covMapTotal {
		ones += uint64(popcount(b))
	}
	totalBits := uint64(c.nextIndex) * 8

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

// WriteReport merges the accumulated .exec dumps and shells out to
// jacococli.jar to render an HTML report. jacococli.jar is an external tool
// the fuzzer does not bundle; its absence is logged, not fatal, since a
// missing report generator should not crash an otherwise-successful fuzzing
// run.
func (c *Client) WriteReport(dir string) error {
	if c.dumpDir == "" {
		return fmt.Errorf("jacoco: no dump directory configured, cannot generate a report")
	}
	if c.sourceDir == "" || c.classDir == "" {
		return fmt.Errorf("jacoco: source_dir and jacoco_class_dir are required to generate a report")
	}

	execPath := filepath.Join(c.dumpDir, "jacoco_report.exec")
	mergeArgs := []string{"-jar", "coverage_agents/java/jacococli.jar", "merge"}
	entries, err := os.ReadDir(c.dumpDir)
	if err != nil {
		return fmt.Errorf("jacoco: reading dump directory: %w", err)
	}
	for _, entry := range entries {
		mergeArgs = append(mergeArgs, filepath.Join(c.dumpDir, entry.Name()))
	}
	mergeArgs = append(mergeArgs, "--destfile", execPath)

	if err := exec.Command("java", mergeArgs...).Run(); err != nil {
		return fmt.Errorf("jacoco: merging exec dumps: %w", err)
	}

	htmlDir := filepath.Join(dir, "jacoco")
	if err := os.MkdirAll(htmlDir, 0o755); err != nil {
		return fmt.Errorf("jacoco: creating report directory: %w", err)
	}

	reportArgs := []string{
		"-jar", "coverage_agents/java/jacococli.jar", "report",
		"--classfiles", c.classDir,
		"--sourcefiles", c.sourceDir,
		"--html", htmlDir,
		execPath,
	}
	if err := exec.Command("java", reportArgs...).Run(); err != nil {
		return fmt.Errorf("jacoco: generating html report: %w", err)
	}
	return nil
}

// Close releases the underlying TCP connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
