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

const (
	lenHeader    = 512
	signature    = 0xE11AB1A1E011CFD0 // D0 CF 11 E0 A1 B1 1A E1 read as a little-endian uint64
	numDifatHead = 109
)

// header holds the fixed 512-byte CFB header. Only the fields the
// navigator actually needs are kept; everything else in the raw MS-CFB
// struct layout is skipped.
type header struct {
	sectorShift      uint16
	miniSectorShift  uint16
	numFatSectors    uint32
	dirFirstSector   uint32
	miniStreamCutoff uint32
	miniFatFirst     uint32
	numMiniFat       uint32
	difatFirst       uint32
	numDifat         uint32
	initialDifat     [numDifatHead]uint32

	sectorSize     uint32
	miniSectorSize uint32
}

func parseHeader(b []byte) (*header, error) {
	if len(b) < lenHeader {
		return nil, newErr(KindTruncated, "short header", int64(len(b)))
	}
	if binary.LittleEndian.Uint64(b[:8]) != signature {
		return nil, newErr(KindBadSignature, "magic mismatch", 0)
	}

	h := &header{
		sectorShift:      binary.LittleEndian.Uint16(b[0x1E:0x20]),
		miniSectorShift:  binary.LittleEndian.Uint16(b[0x20:0x22]),
		numFatSectors:    binary.LittleEndian.Uint32(b[0x2C:0x30]),
		dirFirstSector:   binary.LittleEndian.Uint32(b[0x30:0x34]),
		miniStreamCutoff: binary.LittleEndian.Uint32(b[0x38:0x3C]),
		miniFatFirst:     binary.LittleEndian.Uint32(b[0x3C:0x40]),
		numMiniFat:       binary.LittleEndian.Uint32(b[0x40:0x44]),
		difatFirst:       binary.LittleEndian.Uint32(b[0x44:0x48]),
		numDifat:         binary.LittleEndian.Uint32(b[0x48:0x4C]),
	}
	for i := 0; i < numDifatHead; i++ {
		off := 0x4C + i*4
		h.initialDifat[i] = binary.LittleEndian.Uint32(b[off : off+4])
	}
	h.sectorSize = 1 << h.sectorShift
	h.miniSectorSize = 1 << h.miniSectorShift
	return h, nil
}

// difat returns the header's initial 109 DIFAT entries with FREE_SECTOR
// markers filtered out.
func (h *header) difat() []uint32 {
	out := make([]uint32, 0, numDifatHead)
	for _, sid := range h.initialDifat {
		if sid != freeSector {
			out = append(out, sid)
		}
	}
	return out
}

// extendDifat reads any additional DIFAT sectors beyond the header's 109
// entries, chaining through the last 4 bytes of each DIFAT sector.
func (s *Store) extendDifat(h *header, difat []uint32) ([]uint32, error) {
	next := h.difatFirst
	count := h.numDifat
	entriesPerSector := h.sectorSize/4 - 1
	for count > 0 && isValidSector(next) {
		buf, err := s.readSector(h, next)
		if err != nil {
			return nil, err
		}
		for i := 0; i < int(entriesPerSector); i++ {
			sid := binary.LittleEndian.Uint32(buf[i*4 : i*4+4])
			if sid != freeSector {
				difat = append(difat, sid)
			}
		}
		next = binary.LittleEndian.Uint32(buf[len(buf)-4:])
		count--
	}
	return difat, nil
}
