package record

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zlib"
)

// decompress tries, in order, raw deflate (the format HWP actually writes
// section bodies in) and a zlib-headered stream, returning the first one
// that succeeds. The zlib attempt reads the window size from the stream's
// own header, so it also covers the auto-detect case. If every attempt fails
// the caller gets back the original bytes: HWP bodies are not always
// actually compressed even when the header's flag claims they are.
func decompress(b []byte) []byte {
	if out, ok := tryRawDeflate(b); ok {
		return out
	}
	if out, ok := tryZlib(b); ok {
		return out
	}
	return b
}

func tryRawDeflate(b []byte) ([]byte, bool) {
	r := flate.NewReader(bytes.NewReader(b))
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil && len(out) == 0 {
		return nil, false
	}
	return out, true
}

func tryZlib(b []byte) ([]byte, bool) {
	r, err := zlib.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, false
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil && len(out) == 0 {
		return nil, false
	}
	return out, true
}
