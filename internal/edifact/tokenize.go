package edifact

import "strings"

// rawSegment is one unparsed segment body together with the byte offset of
// its first significant character relative to the tokenized content.
type rawSegment struct {
	text       string
	offset     int
	terminated bool
}

// splitSegments cuts data into raw segments at unescaped terminator bytes.
// Line breaks and surrounding whitespace between segments are cosmetic and
// stripped. A trailing run of whitespace-only content yields no segment;
// trailing non-blank content without a terminator is returned with
// terminated=false so the caller can surface it.
func splitSegments(data string, d Delimiters) []rawSegment {
	var out []rawSegment
	start := 0
	i := 0
	for i < len(data) {
		switch {
		case data[i] == d.Release && i+1 < len(data):
			i += 2
		case data[i] == d.Terminator:
			out = appendRawSegment(out, data, start, i, true)
			i++
			start = i
		default:
			i++
		}
	}
	return appendRawSegment(out, data, start, len(data), false)
}

func appendRawSegment(out []rawSegment, data string, start, end int, terminated bool) []rawSegment {
	for start < end && isCosmetic(data[start]) {
		start++
	}
	for end > start && isCosmetic(data[end-1]) {
		end--
	}
	if start >= end {
		return out
	}
	return append(out, rawSegment{text: data[start:end], offset: start, terminated: terminated})
}

func isCosmetic(b byte) bool {
	return b == '\r' || b == '\n' || b == ' ' || b == '\t'
}

// splitElements splits a segment body at unescaped element separators.
// Escape sequences are kept intact; they are resolved one level deeper when
// components are split. A trailing separator yields a trailing empty entry.
func splitElements(body string, d Delimiters) []string {
	return splitAt(body, d.Element, d.Release)
}

// splitComponents splits one element at unescaped component separators and
// resolves escape sequences, yielding the final component values.
func splitComponents(element string, d Delimiters) []string {
	parts := splitAt(element, d.Component, d.Release)
	for i, p := range parts {
		parts[i] = unescape(p, d.Release)
	}
	return parts
}

func splitAt(s string, sep, release byte) []string {
	out := make([]string, 0, 4)
	start := 0
	i := 0
	for i < len(s) {
		switch {
		case s[i] == release && i+1 < len(s):
			i += 2
		case s[i] == sep:
			out = append(out, s[start:i])
			i++
			start = i
		default:
			i++
		}
	}
	return append(out, s[start:])
}

// unescape removes release characters from s. The common case of a value
// without escapes returns s unchanged, preserving the borrowed view into
// the input buffer.
func unescape(s string, release byte) string {
	idx := strings.IndexByte(s, release)
	if idx < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == release && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
