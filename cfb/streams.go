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

import "encoding/binary"

// loadMiniFAT reads the MiniFAT chain (a regular FAT chain) and interprets
// it as u32 entries.
func (s *Store) loadMiniFAT(h *header) error {
	if h.numMiniFat == 0 || !isValidSector(h.miniFatFirst) {
		return nil
	}
	raw, err := readChain(h.miniFatFirst, s.fat, func(sid uint32) ([]byte, error) {
		return s.readSector(h, sid)
	}, -1)
	if err != nil {
		return err
	}
	if rem := len(raw) % 4; rem != 0 {
		raw = raw[:len(raw)-rem]
	}
	out := make([]uint32, len(raw)/4)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(raw[i*4 : i*4+4])
	}
	s.miniFAT = out
	return nil
}

// loadMiniStream reads the root entry's stream (via the regular FAT),
// truncated to its recorded size; this blob backs every mini-sector read.
func (s *Store) loadMiniStream(h *header) error {
	var root *Entry
	for _, e := range s.entries {
		if e.Type == TypeRoot {
			root = e
			break
		}
	}
	if root == nil || !isValidSector(root.startSector) || root.streamSize == 0 {
		return nil
	}
	data, err := readChain(root.startSector, s.fat, func(sid uint32) ([]byte, error) {
		return s.readSector(h, sid)
	}, int64(root.streamSize))
	if err != nil {
		return err
	}
	s.miniStream = data
	return nil
}

// readMiniSector reads mini-sector M from byte offset M*miniSectorSize
// within the MiniStream blob.
func (s *Store) readMiniSector(h *header, sid uint32) ([]byte, error) {
	off := int64(sid) * int64(h.miniSectorSize)
	end := off + int64(h.miniSectorSize)
	if off < 0 || end > int64(len(s.miniStream)) {
		return nil, newErr(KindTruncated, "mini-sector out of range", int64(sid))
	}
	return s.miniStream[off:end], nil
}

// ReadStream returns the full contents of the stream at path, routing
// through the MiniFAT/MiniStream when its size is below the cutoff and
// through the regular FAT otherwise.
func (s *Store) ReadStream(path string) ([]byte, error) {
	entry, ok := s.byPath[path]
	if !ok {
		return nil, newErr(KindNotFound, path, -1)
	}
	if !isValidSector(entry.startSector) || entry.streamSize == 0 {
		return []byte{}, nil
	}

	useMini := entry.streamSize < uint64(s.header.miniStreamCutoff)
	if useMini {
		return readChain(entry.startSector, s.miniFAT, func(sid uint32) ([]byte, error) {
			return s.readMiniSector(s.header, sid)
		}, int64(entry.streamSize))
	}
	return readChain(entry.startSector, s.fat, func(sid uint32) ([]byte, error) {
		return s.readSector(s.header, sid)
	}, int64(entry.streamSize))
}
