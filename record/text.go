package record

import (
	"regexp"
	"strings"
	"unicode/utf16"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/unicode/norm"
)

// Mode selects which whitespace/character cleaning rules apply to a
// decoded text chunk: paragraph body text or a table cell's text.
type Mode int

const (
	ModeBody Mode = iota
	ModeTable
)

var utf16leEncoding = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// chunkText scans a PARA_TEXT payload for control sequences (a two-byte
// little-endian UTF-16 code unit with a zero high byte and a low byte in
// 0x00..0x1F) and splits the payload into the UTF-16LE byte spans between
// them. Matches must land on an even code-unit offset; a control-looking
// byte pair at an odd offset is ignored and scanning resumes one byte
// later.
func chunkText(payload []byte) [][]byte {
	var chunks [][]byte
	cursor := 0
	i := 0
	for i+1 < len(payload) {
		if i%2 == 0 && payload[i+1] == 0x00 && payload[i] <= 0x1F {
			if i > cursor {
				chunks = append(chunks, payload[cursor:i])
			}
			size := 2 * controlSizeWchars(payload[i])
			next := i + size
			if next <= i {
				next = i + 2
			}
			cursor = next
			i = next
			continue
		}
		i++
	}
	if cursor < len(payload) {
		chunks = append(chunks, payload[cursor:])
	}
	return chunks
}

// controlSizeWchars is the control-character size table, in 16-bit units.
func controlSizeWchars(code byte) int {
	switch code {
	case 0x00, 0x0A, 0x0D, 0x18, 0x1E, 0x1F:
		return 1
	}
	if code >= 0x01 && code <= 0x17 {
		return 8
	}
	return 1 // unknown control code: default to 1 wchar
}

// decodeUTF16LE decodes raw UTF-16LE bytes to a string. Malformed input
// (an odd trailing byte, or a code point x/text's decoder rejects) is
// decoded on a best-effort basis rather than discarded outright.
func decodeUTF16LE(b []byte) string {
	out, err := utf16leEncoding.NewDecoder().Bytes(b)
	if err == nil {
		return string(out)
	}
	if len(out) > 0 {
		return string(out)
	}
	return decodeUTF16LEFallback(b)
}

func decodeUTF16LEFallback(b []byte) string {
	n := len(b) / 2
	units := make([]uint16, n)
	for i := 0; i < n; i++ {
		units[i] = uint16(b[i*2]) | uint16(b[i*2+1])<<8
	}
	return string(utf16.Decode(units))
}

var (
	spaceTabRun   = regexp.MustCompile(`[ \t]+`)
	threePlusNL   = regexp.MustCompile(`\n{3,}`)
	newlineOrCR   = regexp.MustCompile(`[\n\r]`)
	anyWhitespace = regexp.MustCompile(`\s+`)
)

// cleanText applies the character remapping, zero-width-character
// removal, NFC normalization and whitespace collapsing rules for mode,
// returning the empty string when nothing survives.
func cleanText(s string, mode Mode) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		out, keep := remapRune(r, mode)
		if keep {
			b.WriteRune(out)
		}
	}
	cleaned := stripZeroWidth(b.String())
	cleaned = norm.NFC.String(cleaned)

	switch mode {
	case ModeTable:
		cleaned = newlineOrCR.ReplaceAllString(cleaned, " ")
		cleaned = anyWhitespace.ReplaceAllString(cleaned, " ")
	default:
		cleaned = spaceTabRun.ReplaceAllString(cleaned, " ")
		cleaned = threePlusNL.ReplaceAllString(cleaned, "\n\n")
	}
	return strings.TrimSpace(cleaned)
}

func remapRune(r rune, mode Mode) (out rune, keep bool) {
	if r >= 32 {
		return r, true
	}
	switch r {
	case 9:
		return r, true
	case 10, 13:
		if mode == ModeTable {
			return ' ', true
		}
		return r, true
	case 0x15:
		return '\n', true
	case 0x18:
		return '-', true
	case 0x1E, 0x1F:
		return ' ', true
	default:
		return 0, false // table anchor (0x0B), header/footer (0x10), footnote (0x11), and all other sub-32 codes are dropped
	}
}

func stripZeroWidth(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\uFEFF', '\u200B', '\u200C', '\u200D':
			return -1
		}
		return r
	}, s)
}
