// Copyright 2013 Richard Lehane. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cfb implements a read-only navigator for the OLE/Compound File
// Binary (CFB) container format (https://msdn.microsoft.com/en-us/library/dd942138.aspx),
// the legacy storage layer under HWP 5.x, MS-DOC and MS-XLS documents.
//
// Example:
//
//	store, err := cfb.Open("report.hwp")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer store.Close()
//	for _, path := range store.ListStreams() {
//		data, _ := store.ReadStream(path)
//		fmt.Println(path, len(data))
//	}
package cfb

import (
	"encoding/binary"
	"io"
	"os"
)

// Reserved sector identifiers.
const (
	freeSector  uint32 = 0xFFFFFFFF
	endOfChain  uint32 = 0xFFFFFFFE
	fatSector   uint32 = 0xFFFFFFFD
	difatSector uint32 = 0xFFFFFFFC
)

// maxHops bounds chain traversal so a cyclic or corrupted FAT cannot hang
// the reader.
const maxHops = 1_000_000

func isValidSector(sid uint32) bool {
	return sid != freeSector && sid != endOfChain && sid != fatSector && sid != difatSector
}

// Store gives read-only, by-path access to the streams of a CFB container.
// Everything is loaded eagerly at construction time: the FAT, the MiniFAT,
// the directory tree, the MiniStream payload, and the full-path lookup.
type Store struct {
	r      io.ReaderAt
	closer io.Closer // non-nil when Store owns the underlying file

	header *header
	fat    []uint32

	miniFAT    []uint32
	miniStream []byte

	entries []*Entry
	root    *Entry
	byPath  map[string]*Entry
}

// Open opens the named file as a CFB container.
func Open(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, wrapErr(KindIO, "open", err)
	}
	s, err := New(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	s.closer = f
	return s, nil
}

// New builds a Store over an already-open reader. The caller retains
// ownership of r; Close on the returned Store is then a no-op.
func New(r io.ReaderAt) (*Store, error) {
	s := &Store{r: r, byPath: make(map[string]*Entry)}

	headerBuf, err := s.readAt(0, lenHeader)
	if err != nil {
		return nil, err
	}
	h, err := parseHeader(headerBuf)
	if err != nil {
		return nil, err
	}
	s.header = h

	if err := s.loadFAT(h); err != nil {
		return nil, err
	}
	if err := s.loadDirectory(h); err != nil {
		return nil, err
	}
	if err := s.loadMiniFAT(h); err != nil {
		return nil, err
	}
	if err := s.loadMiniStream(h); err != nil {
		return nil, err
	}
	s.buildPaths()
	return s, nil
}

// Close releases the underlying file, if Store opened it itself.
func (s *Store) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

func (s *Store) readAt(offset int64, size int) ([]byte, error) {
	buf := make([]byte, size)
	n, err := s.r.ReadAt(buf, offset)
	if err != nil && !(err == io.EOF && n == size) {
		if n > 0 && err == io.EOF {
			return nil, newErr(KindTruncated, "unexpected EOF", int64(n))
		}
		return nil, wrapErr(KindIO, "read", err)
	}
	return buf, nil
}

// readSector reads one regular (non-mini) sector. Sector N lives at file
// offset 512 + N*sectorSize regardless of sectorSize.
func (s *Store) readSector(h *header, sid uint32) ([]byte, error) {
	offset := int64(lenHeader) + int64(sid)*int64(h.sectorSize)
	return s.readAt(offset, int(h.sectorSize))
}

// loadFAT concatenates the u32 entries of every FAT sector named by the
// (now-complete) DIFAT list into the in-memory FAT array.
func (s *Store) loadFAT(h *header) error {
	difat, err := s.extendDifat(h, h.difat())
	if err != nil {
		return err
	}
	entries := make([]uint32, 0, len(difat)*int(h.sectorSize)/4)
	for _, sid := range difat {
		buf, err := s.readSector(h, sid)
		if err != nil {
			return err
		}
		for i := 0; i+4 <= len(buf); i += 4 {
			entries = append(entries, binary.LittleEndian.Uint32(buf[i:i+4]))
		}
	}
	s.fat = entries
	return nil
}

// readChain follows sid through fat, concatenating sectors read by readOne
// until a reserved sid is reached or maxHops is exhausted. If size is
// negative the full chain is returned; otherwise the result is truncated
// to size bytes.
func readChain(sid uint32, fat []uint32, readOne func(uint32) ([]byte, error), size int64) ([]byte, error) {
	if !isValidSector(sid) {
		return nil, nil
	}
	var out []byte
	hops := 0
	for isValidSector(sid) && hops < maxHops {
		buf, err := readOne(sid)
		if err != nil {
			return nil, err
		}
		out = append(out, buf...)
		if int(sid) >= len(fat) {
			break // broken FAT: stop rather than fail the whole store
		}
		sid = fat[sid]
		hops++
	}
	if size >= 0 && int64(len(out)) > size {
		out = out[:size]
	}
	return out, nil
}
