package helpers

import (
	"bytes"
	"unicode/utf16"
	"unicode/utf8"
)

var unicodeEscapePrefix = []byte(`\u`) // nolint:gochecknoglobals

// HasUnicodeEscapes reports whether data contains at least one \u sequence.
func HasUnicodeEscapes(data []byte) bool {
	return bytes.Contains(data, unicodeEscapePrefix)
}

// UnescapeUnicode replaces every well-formed \uXXXX sequence (and surrogate pair) with UTF-8 bytes.
// Malformed sequences and a \u following an escaped backslash are copied unchanged.
func UnescapeUnicode(data []byte) []byte {
	if !HasUnicodeEscapes(data) {
		return data
	}

	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); {
		idx := bytes.Index(data[i:], unicodeEscapePrefix)
		if idx < 0 {
			out = append(out, data[i:]...)
			break
		}
		out = append(out, data[i:i+idx]...)
		i += idx

		if precedingBackslashes(data, i)%2 == 1 {
			out = append(out, data[i])
			i++
			continue
		}
		r, consumed := decodeEscape(data[i:])
		if consumed == 0 {
			out = append(out, data[i])
			i++
			continue
		}
		out = utf8.AppendRune(out, r)
		i += consumed
	}
	return out
}

func precedingBackslashes(data []byte, pos int) int {
	count := 0
	for i := pos - 1; i >= 0 && data[i] == '\\'; i-- {
		count++
	}
	return count
}

func decodeEscape(data []byte) (rune, int) {
	first, ok := parseEscape(data)
	if !ok {
		return 0, 0
	}
	if !utf16.IsSurrogate(first) {
		return first, 6
	}

	second, ok := parseEscape(data[6:])
	if ok {
		r := utf16.DecodeRune(first, second)
		if r != utf8.RuneError {
			return r, 12
		}
	}
	return first, 6
}

func parseEscape(data []byte) (rune, bool) {
	if len(data) < 6 || data[0] != '\\' || data[1] != 'u' {
		return 0, false
	}
	value := rune(0)
	for _, c := range data[2:6] {
		digit, ok := hexDigit(c)
		if !ok {
			return 0, false
		}
		value = value<<4 | digit
	}
	return value, true
}

func hexDigit(c byte) (rune, bool) {
	switch {
	case '0' <= c && c <= '9':
		return rune(c - '0'), true
	case 'a' <= c && c <= 'f':
		return rune(c-'a') + 10, true // nolint:mnd
	case 'A' <= c && c <= 'F':
		return rune(c-'A') + 10, true // nolint:mnd
	default:
		return 0, false
	}
}
