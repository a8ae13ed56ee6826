// Package lcov implements a coverage.Client that talks to an LCOV-emitting
// TCP coverage agent, the supported way to collect coverage from targets
// that produce gcov/lcov-style line coverage. It shares the Jacoco agent's
// outer framing (request header, block types) via coverage/frame, but the
// coverage block itself carries a raw LCOV tracefile fragment rather than
// Jacoco's id/name/probe-bytes triplet, so the block body is read locally
// instead of through frame.ReadSegments.
package lcov

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/TNO-S3/wuppiefuzz/internal/coverage"
	"github.com/TNO-S3/wuppiefuzz/internal/coverage/frame"
)

var magic = [2]byte{0xc1, 0xc0}

type sourceLine struct {
	file string
	line uint32
}

// Client connects to an LCOV TCP agent, parses each fetched tracefile
// fragment into per-line hit bits, and accumulates those bits into a flat
// coverage bitmap indexed by first-sighting order of (file, line) pairs.
type Client struct {
	mu sync.Mutex

	conn net.Conn

	covMap      []byte
	covMapTotal []byte
	index       map[sourceLine]int
	nextIndex   int

	maxRatio [2]uint64

	dumpDir   string
	nthDump   int
	sourceDir string
}

// Options configures a new Client.
type Options struct {
	Address   string // host:port of the LCOV TCP agent
	DumpDir   string // directory raw tracefile fragments are written to; "" disables dumping
	SourceDir string // passed to genhtml as its working directory
}

// New dials the LCOV agent at opts.Address.
func New(opts Options) (*Client, error) {
	conn, err := net.Dial("tcp", opts.Address)
	if err != nil {
		return nil, fmt.Errorf("lcov: connecting to %s: %w", opts.Address, err)
	}
	if opts.DumpDir != "" {
		if err := os.MkdirAll(opts.DumpDir, 0o755); err != nil {
			conn.Close()
			return nil, fmt.Errorf("lcov: creating dump directory: %w", err)
		}
	}
	return &Client{
		conn:        conn,
		covMap:      make([]byte, coverage.MapSize),
		covMapTotal: make([]byte, coverage.MapSize),
		index:       make(map[sourceLine]int),
		dumpDir:     opts.DumpDir,
		sourceDir:   opts.SourceDir,
	}, nil
}

// Fetch requests a dump from the agent, concatenates every coverage block's
// raw tracefile bytes, parses the result as an LCOV tracefile, and sets one
// bit per (source file, line) pair whose hit count is nonzero.
func (c *Client) Fetch(reset bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := frame.SendDumpRequest(c.conn, reset); err != nil {
		return fmt.Errorf("lcov: sending dump request: %w", err)
	}
	tracefile, err := readTracefile(c.conn)
	if err != nil {
		return fmt.Errorf("lcov: reading coverage dump: %w", err)
	}

	if c.dumpDir != "" {
		path := filepath.Join(c.dumpDir, strconv.Itoa(c.nthDump))
		c.nthDump++
		if err := os.WriteFile(path, tracefile, 0o644); err != nil {
			return fmt.Errorf("lcov: writing dump file: %w", err)
		}
	}

	for i := range c.covMap {
		c.covMap[i] = 0
	}
	if err := c.applyTracefile(tracefile); err != nil {
		return err
	}
	for i := range c.covMapTotal {
		c.covMapTotal[i] |= c.covMap[i]
	}
	return nil
}

// readTracefile reads blocks until CmdOk, concatenating every coverage
// block's raw bytes into one tracefile. The LCOV agent never sends session
// blocks.
func readTracefile(r io.Reader) ([]byte, error) {
	var out bytes.Buffer
	for {
		var blockType [1]byte
		if _, err := io.ReadFull(r, blockType[:]); err != nil {
			return nil, fmt.Errorf("reading block type: %w", err)
		}
		switch blockType[0] {
		case frame.BlockHeader:
			if err := readHeader(r); err != nil {
				return nil, err
			}
		case frame.BlockCoverageInfo:
			chunk, err := readByteVec(r)
			if err != nil {
				return nil, err
			}
			out.Write(chunk)
		case frame.BlockCmdOk:
			return out.Bytes(), nil
		default:
			return nil, fmt.Errorf("unexpected block type 0x%02x", blockType[0])
		}
	}
}

func readHeader(r io.Reader) error {
	var got [2]byte
	if _, err := io.ReadFull(r, got[:]); err != nil {
		return fmt.Errorf("reading header magic: %w", err)
	}
	if got != magic {
		return fmt.Errorf("unexpected header magic % x, want % x", got, magic)
	}
	var version [2]byte
	if _, err := io.ReadFull(r, version[:]); err != nil {
		return fmt.Errorf("reading format version: %w", err)
	}
	return nil
}

// readByteVec reads a length-prefixed byte vector, the length given as a
// little-endian uint32 (unlike the big-endian integers used elsewhere in
// this wire protocol).
func readByteVec(r io.Reader) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, fmt.Errorf("reading byte vector length: %w", err)
	}
	n := binary.LittleEndian.Uint32(lenBuf[:])
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("reading byte vector body: %w", err)
	}
	return buf, nil
}

// applyTracefile parses a (possibly partial) LCOV tracefile, recognising
// only the "SF:" (source file) and "DA:" (line hit data) records needed to
// set coverage bits; every other record type is ignored.
func (c *Client) applyTracefile(tracefile []byte) error {
	scanner := bufio.NewScanner(bytes.NewReader(tracefile))
	var currentFile string
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "SF:"):
			currentFile = strings.TrimPrefix(line, "SF:")
		case strings.HasPrefix(line, "DA:"):
			fields := strings.SplitN(strings.TrimPrefix(line, "DA:"), ",", 3)
			if len(fields) < 2 {
				continue
			}
			lineNo, err := strconv.ParseUint(fields[0], 10, 32)
			if err != nil {
				continue
			}
			count, err := strconv.ParseUint(fields[1], 10, 64)
			if err != nil {
				continue
			}
			c.setBit(currentFile, uint32(lineNo), count != 0)
		}
	}
	return scanner.Err()
}

func (c *Client) setBit(file string, line uint32, hit bool) {
	key := sourceLine{file: file, line: line}
	idx, ok := c.index[key]
	if !ok {
		idx = c.nextIndex
		if idx >= len(c.covMap) {
			return
		}
		c.index[key] = idx
		c.nextIndex++
	}
	if hit && idx < len(c.covMap) {
		c.covMap[idx] = 1
	}
}

// Ptr returns the live coverage bitmap.
func (c *Client) Ptr() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.covMapTotal
}

// Len returns the number of (file, line) pairs seen so far.
func (c *Client) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nextIndex
}

// MaxRatio returns the highest (lines hit, lines known) pair observed so far.
func (c *Client) MaxRatio() (hit, total uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var ones uint64
	for _, b := range c.covMapTotal {
		if b != 0 {
			ones++
		}
	}
	totalLines := uint64(c.nextIndex)

	if ones > c.maxRatio[0] {
		c.maxRatio[0] = ones
	}
	if totalLines > c.maxRatio[1] {
		c.maxRatio[1] = totalLines
	}
	return c.maxRatio[0], c.maxRatio[1]
}

// WriteReport combines every dumped tracefile fragment with lcov -a and
// renders an HTML report with genhtml. Neither tool is bundled; their
// absence is logged, not fatal.
func (c *Client) WriteReport(dir string) error {
	if c.dumpDir == "" {
		return fmt.Errorf("lcov: no dump directory configured, cannot generate a report")
	}

	entries, err := os.ReadDir(c.dumpDir)
	if err != nil {
		return fmt.Errorf("lcov: reading dump directory: %w", err)
	}

	combinedPath := filepath.Join(c.dumpDir, "combined")
	combineArgs := []string{}
	for _, entry := range entries {
		if entry.Name() == "combined" {
			continue
		}
		combineArgs = append(combineArgs, "-a", filepath.Join(c.dumpDir, entry.Name()))
	}
	combineArgs = append(combineArgs, "-o", combinedPath)
	if err := exec.Command("lcov", combineArgs...).Run(); err != nil {
		return fmt.Errorf("lcov: combining tracefiles: %w", err)
	}

	htmlDir := filepath.Join(dir, "lcov")
	if err := os.MkdirAll(htmlDir, 0o755); err != nil {
		return fmt.Errorf("lcov: creating report directory: %w", err)
	}

	reportCmd := exec.Command("genhtml", "-o", htmlDir, combinedPath)
	if c.sourceDir != "" {
		reportCmd.Dir = c.sourceDir
	}
	if err := reportCmd.Run(); err != nil {
		return fmt.Errorf("lcov: generating html report: %w", err)
	}
	return nil
}

// Close releases the underlying TCP connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
