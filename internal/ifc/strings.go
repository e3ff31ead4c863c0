package ifc

import (
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// decodeString resolves the ISO 10303-21 control directives (\X\, \X2\,
// \X4\, \S\, \P?\ and \\) of a string literal whose doubled apostrophes
// are already collapsed. Bytes outside the directives pass through; input
// that is not valid UTF-8 is read as ISO 8859-1.
func decodeString(raw string) string {
	if !utf8.ValidString(raw) {
		raw = latin1ToUTF8(raw)
	}
	if !strings.Contains(raw, `\`) {
		return raw
	}

	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); {
		if raw[i] != '\\' {
			b.WriteByte(raw[i])
			i++
			continue
		}
		rest := raw[i:]
		switch {
		case strings.HasPrefix(rest, `\\`):
			b.WriteByte('\\')
			i += 2
		case strings.HasPrefix(rest, `\X2\`):
			body, n, ok := directiveBody(rest[4:])
			if !ok {
				b.WriteString(rest)
				return b.String()
			}
			b.WriteString(decodeHexUnits(body, 4))
			i += 4 + n
		case strings.HasPrefix(rest, `\X4\`):
			body, n, ok := directiveBody(rest[4:])
			if !ok {
				b.WriteString(rest)
				return b.String()
			}
			b.WriteString(decodeHexUnits(body, 8))
			i += 4 + n
		case strings.HasPrefix(rest, `\X\`) && len(rest) >= 5:
			if v, err := strconv.ParseUint(rest[3:5], 16, 8); err == nil {
				b.WriteRune(rune(v))
				i += 5
				continue
			}
			b.WriteByte('\\')
			i++
		case strings.HasPrefix(rest, `\S\`) && len(rest) >= 4:
			r, size := utf8.DecodeRuneInString(rest[3:])
			if r < 0x80 {
				b.WriteRune(r + 0x80)
			} else {
				b.WriteRune(r)
			}
			i += 3 + size
		case len(rest) >= 4 && rest[1] == 'P' && rest[3] == '\\' && rest[2] >= 'A' && rest[2] <= 'I':
			i += 4
		default:
			b.WriteByte('\\')
			i++
		}
	}
	return b.String()
}

// directiveBody returns the text up to the closing \X0\ and the number of
// bytes consumed including the terminator.
func directiveBody(s string) (string, int, bool) {
	end := strings.Index(s, `\X0\`)
	if end < 0 {
		return "", 0, false
	}
	return s[:end], end + 4, true
}

func decodeHexUnits(body string, width int) string {
	if width == 4 {
		units := make([]uint16, 0, len(body)/4)
		for j := 0; j+4 <= len(body); j += 4 {
			v, err := strconv.ParseUint(body[j:j+4], 16, 16)
			if err != nil {
				continue
			}
			units = append(units, uint16(v))
		}
		return string(utf16.Decode(units))
	}
	var b strings.Builder
	for j := 0; j+8 <= len(body); j += 8 {
		v, err := strconv.ParseUint(body[j:j+8], 16, 32)
		if err != nil {
			continue
		}
		b.WriteRune(rune(v))
	}
	return b.String()
}

func latin1ToUTF8(s string) string {
	runes := make([]rune, 0, len(s))
	for i := 0; i < len(s); i++ {
		runes = append(runes, rune(s[i]))
	}
	return string(runes)
}
