// Package frame implements the binary coverage-agent wire protocol shared by
// the Jacoco and LCOV coverage clients: a dump request (a five-byte header,
// the dump command and two flag bytes), answered by a stream of typed blocks (header, session info, coverage info, end-of-
// transmission) read until the agent signals it is done.
package frame

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Block type tags, as written by the coverage agent.
const (
	BlockHeader       byte = 0x01
	BlockSessionInfo  byte = 0x10
	BlockCoverageInfo byte = 0x11
	BlockCmdOk        byte = 0x20
	BlockCmdDump      byte = 0x40
)

// RequestHeader is the fixed five-byte preamble sent before every dump
// request, shared verbatim between the Jacoco and LCOV agents.
var RequestHeader = [5]byte{0x01, 0xc0, 0xc0, 0x10, 0x07}

// formatVersion is the two-byte protocol version every agent's header block
// must report.
var formatVersion = [2]byte{0x10, 0x07}

// Segment is one coverage-agent class/file's probe data: an opaque id, its
// name, and its packed coverage bytes (already byte-granular — the agent
// packs multiple probes per byte, and clients OR whole bytes into their
// coverage map rather than unpacking individual bits).
type Segment struct {
	ID     uint64
	Name   string
	Probes []byte
}

// SendDumpRequest writes the request header, a dump command, and the
// "include session info"/"reset" flag bytes — cmd_dump requests both a dump
// and, when reset is true, a reset of the agent's own coverage map.
func SendDumpRequest(w io.Writer, reset bool) error {
	req := append(append([]byte(nil), RequestHeader[:]...), BlockCmdDump, 1, boolByte(reset))
	_, err := w.Write(req)
	return err
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// ReadSegments reads blocks from r until the agent sends BlockCmdOk,
// validating the header block's magic bytes against magic and accumulating
// every coverage segment seen along the way.
func ReadSegments(r io.Reader, magic [2]byte) ([]Segment, error) {
	var segments []Segment
	for {
		var blockType [1]byte
		if _, err := io.ReadFull(r, blockType[:]); err != nil {
			return nil, fmt.Errorf("frame: reading block type: %w", err)
		}
		switch blockType[0] {
		case BlockHeader:
			if err := readHeader(r, magic); err != nil {
				return nil, err
			}
		case BlockSessionInfo:
			if err := readSession(r); err != nil {
				return nil, err
			}
		case BlockCoverageInfo:
			seg, err := readCoverage(r)
			if err != nil {
				return nil, err
			}
			segments = append(segments, seg)
		case BlockCmdOk:
			return segments, nil
		default:
			return nil, fmt.Errorf("frame: unexpected block type 0x%02x", blockType[0])
		}
	}
}

func readHeader(r io.Reader, magic [2]byte) error {
	var got [2]byte
	if _, err := io.ReadFull(r, got[:]); err != nil {
		return fmt.Errorf("frame: reading header magic: %w", err)
	}
	if got != magic {
		return fmt.Errorf("frame: unexpected header magic % x, want % x", got, magic)
	}
	var version [2]byte
	if _, err := io.ReadFull(r, version[:]); err != nil {
		return fmt.Errorf("frame: reading format version: %w", err)
	}
	if version != formatVersion {
		return fmt.Errorf("frame: unsupported format version % x", version)
	}
	return nil
}

func readSession(r io.Reader) error {
	if _, err := readString(r); err != nil {
		return err
	}
	if _, err := readUint64BE(r); err != nil {
		return err
	}
	if _, err := readUint64BE(r); err != nil {
		return err
	}
	return nil
}

func readCoverage(r io.Reader) (Segment, error) {
	id, err := readUint64BE(r)
	if err != nil {
		return Segment{}, err
	}
	name, err := readString(r)
	if err != nil {
		return Segment{}, err
	}
	probes, err := readProbeBytes(r)
	if err != nil {
		return Segment{}, err
	}
	return Segment{ID: id, Name: name, Probes: probes}, nil
}

func readUint64BE(r io.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, fmt.Errorf("frame: reading uint64: %w", err)
	}
	return binary.BigEndian.Uint64(buf[:]), nil
}

// readString reads a Java DataOutput-style modified-UTF-8 string: a
// big-endian uint16 byte length followed by that many bytes. Class and file
// names never use codepoints outside the basic multilingual plane, where
// CESU-8 and UTF-8 agree, so the bytes are decoded as plain UTF-8.
func readString(r io.Reader) (string, error) {
	var lenBuf [2]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return "", fmt.Errorf("frame: reading string length: %w", err)
	}
	n := binary.BigEndian.Uint16(lenBuf[:])
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("frame: reading string body: %w", err)
	}
	return string(buf), nil
}

// readVarInt reads a variable-length-encoded uint32: each byte's top bit
// marks whether another byte follows, the low seven bits concatenate
// little-endian.
func readVarInt(r io.Reader) (uint32, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, fmt.Errorf("frame: reading varint: %w", err)
	}
	if b[0]&0x80 == 0 {
		return uint32(b[0]), nil
	}
	rest, err := readVarInt(r)
	if err != nil {
		return 0, err
	}
	return uint32(b[0]&0x7f) | (rest << 7), nil
}

// readProbeBytes reads a varint probe-bit count, then the packed bytes that
// hold that many bits (rounded up to a whole byte).
func readProbeBytes(r io.Reader) ([]byte, error) {
	bits, err := readVarInt(r)
	if err != nil {
		return nil, err
	}
	n := bits / 8
	if bits%8 != 0 {
		n++
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("frame: reading probe bytes: %w", err)
	}
	return buf, nil
}
