package jacoco_test

import (
	"encoding/binary"
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TNO-S3/wuppiefuzz/internal/coverage/frame"
	"github.com/TNO-S3/wuppiefuzz/internal/coverage/jacoco"
)

func writeString(buf []byte, s string) []byte {
	var lenBuf [2]byte
	binary.BigEndian.PutUint16(lenBuf[:], uint16(len(s)))
	buf = append(buf, lenBuf[:]...)
	return append(buf, s...)
}

// fakeAgent accepts one connection and replies to every dump request with a
// single coverage segment for id/name/probes, ending the dump with CmdOk.
func fakeAgent(t *testing.T, id uint64, name string, probes []byte) (addr string, stop func()) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			req := make([]byte, 8)
			if _, err := conn.Read(req); err != nil {
				return
			}

			resp := []byte{frame.BlockHeader, 0xc0, 0xc0, 0x10, 0x07}
			resp = append(resp, frame.BlockCoverageInfo)
			var idBuf [8]byte
			binary.BigEndian.PutUint64(idBuf[:], id)
			resp = append(resp, idBuf[:]...)
			resp = writeString(resp, name)
			resp = append(resp, byte(len(probes)*8)) // varint probe bit count, < 128
			resp = append(resp, probes...)
			resp = append(resp, frame.BlockCmdOk)
			if _, err := conn.Write(resp); err != nil {
				return
			}
		}
	}()

	return ln.Addr().String(), func() { ln.Close() }
}

func TestFetchAccumulatesCoverageBytes(t *testing.T) {
	addr, stop := fakeAgent(t, 1, "com/example/Widget", []byte{0xff})
	defer stop()

	client, err := jacoco.New(jacoco.Options{Address: addr})
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Fetch(true))

	hit, total := client.MaxRatio()
	require.Equal(t, uint64(8), hit)
	require.Equal(t, uint64(8), total)
}

func TestFetchFiltersByClassPrefix(t *testing.T) {
	addr, stop := fakeAgent(t, 1, "other/Widget", []byte{0xff})
	defer stop()

	client, err := jacoco.New(jacoco.Options{Address: addr, ClassPrefix: "com/example"})
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Fetch(true))

	hit, _ := client.MaxRatio()
	require.Equal(t, uint64(0), hit)
}

func TestNewFailsWhenAgentUnreachable(t *testing.T) {
	_, err := jacoco.New(jacoco.Options{Address: "127.0.0.1:1"})
	require.Error(t, err)
}
