package hwp

import (
	"bytes"
	"encoding/binary"
	"os"
	"testing"
)

// buildTestFile constructs a minimal CFB image carrying a FileHeader
// stream (routed through the MiniFAT/MiniStream, since it's well under
// the 4096-byte cutoff) and one BodyText/Section0 stream stored in regular
// sectors (which reads back only when it is empty or at least 4096 bytes,
// since smaller streams are routed through the MiniFAT). The sector layout mirrors the cfb package's own test
// fixture: sector 0 is the FAT, sector 1 the directory, sector 2 the
// MiniFAT, sector 3 the MiniStream data, and sectors 4+ the section body.
func buildTestFile(t *testing.T, fileHeader, section []byte) []byte {
	t.Helper()

	sectors := make([][]byte, 4, 8)
	fat := make([]uint32, 4, 8)

	mini := make([]byte, 512)
	copy(mini, fileHeader)
	sectors[3] = mini

	sectionStart := uint32(len(sectors))
	remaining := section
	for {
		chunk := make([]byte, 512)
		n := copy(chunk, remaining)
		sectors = append(sectors, chunk)
		fat = append(fat, 0xFFFFFFFE) // end of chain
		if n == len(remaining) {
			break
		}
		fat[len(fat)-1] = uint32(len(sectors))
		remaining = remaining[n:]
	}

	fatSector := make([]byte, 512)
	fat[0] = 0xFFFFFFFD // this sector is itself a FAT sector
	fat[1] = 0xFFFFFFFE // directory: single sector
	fat[2] = 0xFFFFFFFE // minifat: single sector
	fat[3] = 0xFFFFFFFE // ministream: single sector
	for i, v := range fat {
		binary.LittleEndian.PutUint32(fatSector[i*4:i*4+4], v)
	}
	for i := len(fat); i*4+4 <= 512; i++ {
		binary.LittleEndian.PutUint32(fatSector[i*4:i*4+4], 0xFFFFFFFF)
	}
	sectors[0] = fatSector

	dir := make([]byte, 512)
	writeEntry(dir, 0, "Root Entry", 0x05, -1, -1, 1, 3, 64)
	writeEntry(dir, 1, "FileHeader", 0x02, -1, 2, -1, 0, uint64(len(fileHeader)))
	writeEntry(dir, 2, "BodyText", 0x01, -1, -1, 3, 0, 0)
	writeEntry(dir, 3, "Section0", 0x02, -1, -1, -1, sectionStart, uint64(len(section)))
	sectors[1] = dir

	mfat := make([]byte, 512)
	binary.LittleEndian.PutUint32(mfat[0:4], 0xFFFFFFFE)
	for i := 1; i*4+4 <= 512; i++ {
		binary.LittleEndian.PutUint32(mfat[i*4:i*4+4], 0xFFFFFFFF)
	}
	sectors[2] = mfat

	h := make([]byte, 512)
	binary.LittleEndian.PutUint64(h[0:8], 0xE11AB1A1E011CFD0)
	binary.LittleEndian.PutUint16(h[0x1E:0x20], 9)
	binary.LittleEndian.PutUint16(h[0x20:0x22], 6)
	binary.LittleEndian.PutUint32(h[0x2C:0x30], 1)
	binary.LittleEndian.PutUint32(h[0x30:0x34], 1)
	binary.LittleEndian.PutUint32(h[0x38:0x3C], 4096)
	binary.LittleEndian.PutUint32(h[0x3C:0x40], 2)
	binary.LittleEndian.PutUint32(h[0x40:0x44], 1)
	binary.LittleEndian.PutUint32(h[0x44:0x48], 0xFFFFFFFF)
	binary.LittleEndian.PutUint32(h[0x48:0x4C], 0)
	binary.LittleEndian.PutUint32(h[0x4C:0x50], 0)
	for i := 1; i < 109; i++ {
		off := 0x4C + i*4
		binary.LittleEndian.PutUint32(h[off:off+4], 0xFFFFFFFF)
	}

	var buf bytes.Buffer
	buf.Write(h)
	for _, s := range sectors {
		buf.Write(s)
	}
	return buf.Bytes()
}

func writeEntry(dir []byte, idx int, name string, objType uint8, left, right, child int32, startSector uint32, size uint64) {
	off := idx * 128
	for i, r := range name {
		binary.LittleEndian.PutUint16(dir[off+i*2:off+i*2+2], uint16(r))
	}
	binary.LittleEndian.PutUint16(dir[off+64:off+66], uint16(len(name)*2+2))
	dir[off+66] = objType
	binary.LittleEndian.PutUint32(dir[off+68:off+72], uint32(left))
	binary.LittleEndian.PutUint32(dir[off+72:off+76], uint32(right))
	binary.LittleEndian.PutUint32(dir[off+76:off+80], uint32(child))
	binary.LittleEndian.PutUint32(dir[off+116:off+120], startSector)
	binary.LittleEndian.PutUint32(dir[off+120:off+124], uint32(size))
	binary.LittleEndian.PutUint32(dir[off+124:off+128], uint32(size>>32))
}

func writeTempFile(t *testing.T, data []byte) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "hwp-test-*.hwp")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return f.Name()
}

func TestDocumentOpenEmptyBody(t *testing.T) {
	fileHeader := make([]byte, 40)
	binary.LittleEndian.PutUint32(fileHeader[32:36], 0x00020005) // version 0.2.0.5
	// flags word left zero: body not compressed.

	path := writeTempFile(t, buildTestFile(t, fileHeader, nil))
	doc, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer doc.Close()

	if doc.Info.Version != "0.2.0.5" {
		t.Errorf("Version = %q, want 0.2.0.5", doc.Info.Version)
	}
	if doc.Info.Compressed {
		t.Errorf("Compressed = true, want false")
	}

	sections, err := doc.Sections()
	if err != nil {
		t.Fatalf("Sections: %v", err)
	}
	if len(sections) != 1 {
		t.Fatalf("len(sections) = %d, want 1", len(sections))
	}
	if len(sections[0].Paragraphs) != 0 || len(sections[0].Tables) != 0 {
		t.Errorf("section 0 = %+v, want empty", sections[0])
	}
}

func TestDocumentFileHeaderViaMiniStream(t *testing.T) {
	fileHeader := make([]byte, 40)
	copy(fileHeader, bytes.Repeat([]byte{0xAB}, 40))
	binary.LittleEndian.PutUint32(fileHeader[32:36], 0x01000000)

	path := writeTempFile(t, buildTestFile(t, fileHeader, nil))
	doc, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer doc.Close()

	if doc.Info.Version != "1.0.0.0" {
		t.Errorf("Version = %q, want 1.0.0.0", doc.Info.Version)
	}
}
