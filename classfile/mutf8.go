package classfile

import (
	"unicode/utf16"
	"unicode/utf8"
)

// DecodeModifiedUTF8 decodes the class file text encoding: NUL is the two
// byte sequence C0 80 and supplementary characters are surrogate pairs of
// three byte sequences. Malformed bytes decode to U+FFFD.
func DecodeModifiedUTF8(b []byte) string {
	runes := make([]rune, 0, len(b))
	for i := 0; i < len(b); {
		r, n := decodeUnit(b[i:])
		if utf16.IsSurrogate(r) && r < 0xDC00 {
			if low, m := decodeUnit(b[i+n:]); low >= 0xDC00 && low <= 0xDFFF {
				runes = append(runes, utf16.DecodeRune(r, low))
				i += n + m
				continue
			}
		}
		if utf16.IsSurrogate(r) {
			r = utf8.RuneError
		}
		runes = append(runes, r)
		i += n
	}
	return string(runes)
}

// decodeUnit decodes one 1, 2 or 3 byte unit. It always consumes at least
// one byte.
func decodeUnit(b []byte) (rune, int) {
	if len(b) == 0 {
		return utf8.RuneError, 0
	}
	c := b[0]
	switch {
	case c&0x80 == 0:
		return rune(c), 1
	case c&0xE0 == 0xC0:
		if len(b) < 2 || b[1]&0xC0 != 0x80 {
			return utf8.RuneError, 1
		}
		return rune(c&0x1F)<<6 | rune(b[1]&0x3F), 2
	case c&0xF0 == 0xE0:
		if len(b) < 3 || b[1]&0xC0 != 0x80 || b[2]&0xC0 != 0x80 {
			return utf8.RuneError, 1
		}
		return rune(c&0x0F)<<12 | rune(b[1]&0x3F)<<6 | rune(b[2]&0x3F), 3
	}
	return utf8.RuneError, 1
}

// EncodeModifiedUTF8 is the inverse of DecodeModifiedUTF8 for valid text.
func EncodeModifiedUTF8(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		switch {
		case r == 0:
			out = append(out, 0xC0, 0x80)
		case r < 0x80:
			out = append(out, byte(r))
		case r < 0x800:
			out = append(out, 0xC0|byte(r>>6), 0x80|byte(r&0x3F))
		case r < 0x10000:
			out = appendUnit3(out, r)
		default:
			hi, lo := utf16.EncodeRune(r)
			out = appendUnit3(appendUnit3(out, hi), lo)
		}
	}
	return out
}

func appendUnit3(out []byte, r rune) []byte {
	return append(out, 0xE0|byte(r>>12), 0x80|byte((r>>6)&0x3F), 0x80|byte(r&0x3F))
}
