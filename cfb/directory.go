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

package cfb

import (
	"encoding/binary"
	"sort"
	"unicode/utf16"
)

// EntryType is the tagged variant of a directory record.
type EntryType uint8

const (
	TypeEmpty EntryType = iota
	TypeStorage
	TypeStream
	TypeRoot
)

const (
	objStorage uint8 = 0x01
	objStream  uint8 = 0x02
	objRoot    uint8 = 0x05
)

func entryType(raw uint8) EntryType {
	switch raw {
	case objStorage:
		return TypeStorage
	case objStream:
		return TypeStream
	case objRoot:
		return TypeRoot
	default:
		return TypeEmpty
	}
}

const dirEntrySize = 128

// Entry is one directory record, with FullPath filled in once the B-tree
// has been walked.
type Entry struct {
	Name     string
	Type     EntryType
	FullPath string

	left, right, child int32
	startSector         uint32
	streamSize          uint64
}

// loadDirectory reads the directory stream (a regular FAT chain starting at
// dirFirstSector) and partitions it into 128-byte records.
func (s *Store) loadDirectory(h *header) error {
	raw, err := readChain(h.dirFirstSector, s.fat, func(sid uint32) ([]byte, error) {
		return s.readSector(h, sid)
	}, -1)
	if err != nil {
		return err
	}
	if rem := len(raw) % dirEntrySize; rem != 0 {
		raw = raw[:len(raw)-rem] // defensive truncation against a short final sector
	}

	entries := make([]*Entry, 0, len(raw)/dirEntrySize)
	for off := 0; off < len(raw); off += dirEntrySize {
		rec := raw[off : off+dirEntrySize]
		nameByteLen := int(binary.LittleEndian.Uint16(rec[64:66]))
		nameLen := nameByteLen - 2
		if nameLen < 0 {
			nameLen = 0
		}
		if nameLen > 64 {
			nameLen = 64
		}
		nameU16 := make([]uint16, nameLen/2)
		for i := range nameU16 {
			nameU16[i] = binary.LittleEndian.Uint16(rec[i*2 : i*2+2])
		}

		sizeLo := binary.LittleEndian.Uint32(rec[120:124])
		sizeHi := binary.LittleEndian.Uint32(rec[124:128])
		size := uint64(sizeLo)
		if sizeHi != 0 {
			size = uint64(sizeHi)<<32 | uint64(sizeLo)
		}

		entries = append(entries, &Entry{
			Name:        string(utf16.Decode(nameU16)),
			Type:        entryType(rec[66]),
			left:        int32(binary.LittleEndian.Uint32(rec[68:72])),
			right:       int32(binary.LittleEndian.Uint32(rec[72:76])),
			child:       int32(binary.LittleEndian.Uint32(rec[76:80])),
			startSector: binary.LittleEndian.Uint32(rec[116:120]),
			streamSize:  size,
		})
	}
	s.entries = entries
	return nil
}

// buildPaths walks the root storage's child subtree in-order (left, self,
// child, right) and materializes FullPath for every entry, registering
// streams in byPath as it goes.
func (s *Store) buildPaths() {
	var root *Entry
	for _, e := range s.entries {
		if e.Type == TypeRoot {
			root = e
			break
		}
	}
	if root == nil {
		return
	}
	s.root = root
	root.FullPath = ""

	if root.child >= 0 {
		s.walk(root.child, "")
	}
}

func (s *Store) walk(idx int32, parentPath string) {
	if idx < 0 || int(idx) >= len(s.entries) {
		return
	}
	node := s.entries[idx]

	if node.left >= 0 {
		s.walk(node.left, parentPath)
	}

	fullPath := node.Name
	if parentPath != "" {
		fullPath = parentPath + "/" + node.Name
	}
	node.FullPath = fullPath

	if node.child >= 0 {
		s.walk(node.child, fullPath)
	}
	if node.Type == TypeStream {
		s.byPath[fullPath] = node // last writer wins on a duplicate path
	}

	if node.right >= 0 {
		s.walk(node.right, parentPath)
	}
}

// ListStreams returns every addressable stream path, sorted.
func (s *Store) ListStreams() []string {
	paths := make([]string, 0, len(s.byPath))
	for p := range s.byPath {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Exists reports whether path names a stream.
func (s *Store) Exists(path string) bool {
	_, ok := s.byPath[path]
	return ok
}
