package lcov_test

import (
	"encoding/binary"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TNO-S3/wuppiefuzz/internal/coverage/frame"
	"github.com/TNO-S3/wuppiefuzz/internal/coverage/lcov"
)

func writeByteVec(buf []byte, chunk []byte) []byte {
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(chunk)))
	buf = append(buf, lenBuf[:]...)
	return append(buf, chunk...)
}

// fakeAgent accepts one connection and replies to every dump request with a
// header block and a single coverage block carrying tracefile, then CmdOk.
func fakeAgent(t *testing.T, tracefile string) (addr string, stop func()) {
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

			resp := []byte{frame.BlockHeader, 0xc1, 0xc0, 0x10, 0x07}
			resp = append(resp, frame.BlockCoverageInfo)
			resp = writeByteVec(resp, []byte(tracefile))
			resp = append(resp, frame.BlockCmdOk)
			if _, err := conn.Write(resp); err != nil {
				return
			}
		}
	}()

	return ln.Addr().String(), func() { ln.Close() }
}

func TestFetchParsesLineHitsFromTracefile(t *testing.T) {
	tracefile := "SF:src/widget.go\nDA:10,1\nDA:11,0\nDA:12,3\nend_of_record\n"
	addr, stop := fakeAgent(t, tracefile)
	defer stop()

	client, err := lcov.New(lcov.Options{Address: addr})
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Fetch(true))

	hit, total := client.MaxRatio()
	require.Equal(t, uint64(2), hit, "only DA records with a nonzero hit count set a bit")
	require.Equal(t, uint64(3), total, "all three DA lines are tracked, hit or not")
}

func TestFetchIsIdempotentAcrossLineIdentity(t *testing.T) {
	tracefile := "SF:src/widget.go\nDA:10,1\nend_of_record\n"
	addr, stop := fakeAgent(t, tracefile)
	defer stop()

	client, err := lcov.New(lcov.Options{Address: addr})
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Fetch(false))
	require.NoError(t, client.Fetch(false))

	require.Equal(t, 1, client.Len(), "the same (file, line) pair is not counted twice")
}

func TestFetchDumpsTracefileToDisk(t *testing.T) {
	tracefile := "SF:src/widget.go\nDA:10,1\nend_of_record\n"
	addr, stop := fakeAgent(t, tracefile)
	defer stop()

	dir := t.TempDir()
	client, err := lcov.New(lcov.Options{Address: addr, DumpDir: dir})
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Fetch(true))

	data, err := os.ReadFile(filepath.Join(dir, "0"))
	require.NoError(t, err)
	require.Equal(t, tracefile, string(data))
}

func TestNewFailsWhenAgentUnreachable(t *testing.T) {
	_, err := lcov.New(lcov.Options{Address: "127.0.0.1:1"})
	require.Error(t, err)
}
