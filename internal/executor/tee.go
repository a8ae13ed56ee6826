package executor

import (
	"bytes"
	"fmt"
	"io"
)

// Recorder mirrors every response body byte the executor reads to Out,
// tagged by chain request index and direction, for `--debug` style
// replay inspection. A nil Recorder (or nil Out) disables tracing entirely —
// readAllTraced then falls back to a plain io.ReadAll.
type Recorder struct {
	Out io.Writer
}

func (rec *Recorder) trace(requestIndex int, direction string) io.Writer {
	if rec == nil || rec.Out == nil {
		return nil
	}
	return &prefixWriter{prefix: fmt.Sprintf("[%d %s] ", requestIndex, direction), out: rec.Out}
}

// prefixWriter writes a header once before the first chunk it forwards, so a
// streamed body appears as a single tagged block in the debug log rather
// than one tag per Read call.
type prefixWriter struct {
	prefix      string
	out         io.Writer
	wroteHeader bool
}

func (w *prefixWriter) Write(p []byte) (int, error) {
	if !w.wroteHeader {
		io.WriteString(w.out, w.prefix)
		w.wroteHeader = true
	}
	return w.out.Write(p)
}

// readAllTraced reads r fully, copying every byte read through trace as it
// goes (via io.TeeReader) when trace is non-nil, so the debug recorder never
// needs its own separate buffering pass over the body.
func readAllTraced(r io.Reader, trace io.Writer) ([]byte, error) {
	if trace == nil {
		return io.ReadAll(r)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.TeeReader(r, trace)); err != nil {
		return nil, err
	}
	io.WriteString(trace, "\n")
	return buf.Bytes(), nil
}
