package grip

import "unicode/utf16"

// Long string offsets and lengths count UTF-16 code units, not bytes or runes.

// UTF16Len returns the length of s in UTF-16 code units.
func UTF16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// UTF16Slice returns the code units [start, end) of s, clamped to its length.
// A surrogate pair cut in half is dropped from the result.
func UTF16Slice(s string, start, end int) string {
	units := utf16.Encode([]rune(s))
	lo := min(max(start, 0), len(units))
	hi := min(max(end, lo), len(units))
	if lo < hi && utf16.IsSurrogate(rune(units[lo])) && lo > 0 && isHighSurrogate(units[lo-1]) {
		lo++
	}
	if hi > lo && isHighSurrogate(units[hi-1]) {
		hi--
	}
	return string(utf16.Decode(units[lo:hi]))
}

func isHighSurrogate(u uint16) bool {
	return u >= 0xd800 && u < 0xdc00
}
