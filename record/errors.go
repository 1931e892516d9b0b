package record

import "fmt"

// errShortFileHeader reports a FileHeader stream too small to carry the
// version/flags fields this package reads.
type errShortFileHeader struct {
	got int
}

func (e *errShortFileHeader) Error() string {
	return fmt.Sprintf("record: file header too short: %d bytes", e.got)
}
