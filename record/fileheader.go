package record

import "fmt"

// FileInfo is the metadata read from the FileHeader stream: the document
// version and whether section bodies are raw-deflate compressed.
type FileInfo struct {
	Version    string
	Compressed bool
}

// ParseFileHeader reads the version and compression flag from a
// FileHeader stream's raw bytes. Version is packed at offset 32 as a u32,
// high byte first: major.minor.build.revision. The flags word at offset
// 36 is optional; its absence just means Compressed defaults to false.
func ParseFileHeader(b []byte) (FileInfo, error) {
	if len(b) < 36 {
		return FileInfo{}, &errShortFileHeader{got: len(b)}
	}
	v := le32(b[32:])
	major := byte(v >> 24)
	minor := byte(v >> 16)
	build := byte(v >> 8)
	revision := byte(v)
	info := FileInfo{
		Version: fmt.Sprintf("%d.%d.%d.%d", major, minor, build, revision),
	}
	if len(b) >= 40 {
		flags := le32(b[36:])
		info.Compressed = flags&0x1 != 0
	}
	return info, nil
}
