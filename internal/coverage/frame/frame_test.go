package frame_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TNO-S3/wuppiefuzz/internal/coverage/frame"
)

var jacocoMagic = [2]byte{0xc0, 0xc0}

func TestSendDumpRequestWritesFixedPreamble(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, frame.SendDumpRequest(&buf, true))
	require.Equal(t, []byte{0x01, 0xc0, 0xc0, 0x10, 0x07, 0x40, 0x01, 0x01}, buf.Bytes())
}

func TestSendDumpRequestWithoutReset(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, frame.SendDumpRequest(&buf, false))
	require.Equal(t, byte(0x00), buf.Bytes()[len(buf.Bytes())-1])
}

func writeString(buf *bytes.Buffer, s string) {
	var lenBuf [2]byte
	binary.BigEndian.PutUint16(lenBuf[:], uint16(len(s)))
	buf.Write(lenBuf[:])
	buf.WriteString(s)
}

func writeVarInt(buf *bytes.Buffer, v uint32) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			buf.WriteByte(b | 0x80)
		} else {
			buf.WriteByte(b)
			return
		}
	}
}

func TestReadSegmentsParsesHeaderSessionAndCoverageBlocks(t *testing.T) {
	var buf bytes.Buffer

	buf.WriteByte(frame.BlockHeader)
	buf.Write(jacocoMagic[:])
	buf.Write([]byte{0x10, 0x07})

	buf.WriteByte(frame.BlockSessionInfo)
	writeString(&buf, "session-1")
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], 1000)
	buf.Write(ts[:])
	buf.Write(ts[:])

	buf.WriteByte(frame.BlockCoverageInfo)
	var id [8]byte
	binary.BigEndian.PutUint64(id[:], 42)
	buf.Write(id[:])
	writeString(&buf, "com/example/Widget")
	writeVarInt(&buf, 12) // 12 probe bits -> 2 bytes
	buf.Write([]byte{0xff, 0x0f})

	buf.WriteByte(frame.BlockCmdOk)

	segments, err := frame.ReadSegments(&buf, jacocoMagic)
	require.NoError(t, err)
	require.Len(t, segments, 1)
	require.Equal(t, uint64(42), segments[0].ID)
	require.Equal(t, "com/example/Widget", segments[0].Name)
	require.Equal(t, []byte{0xff, 0x0f}, segments[0].Probes)
}

func TestReadSegmentsRejectsWrongMagic(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(frame.BlockHeader)
	buf.Write([]byte{0xc1, 0xc0}) // lcov magic, not jacoco
	buf.Write([]byte{0x10, 0x07})
	buf.WriteByte(frame.BlockCmdOk)

	_, err := frame.ReadSegments(&buf, jacocoMagic)
	require.Error(t, err)
}

func TestReadSegmentsWithNoCoverageReturnsEmpty(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(frame.BlockCmdOk)

	segments, err := frame.ReadSegments(&buf, jacocoMagic)
	require.NoError(t, err)
	require.Empty(t, segments)
}
