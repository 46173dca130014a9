// Package normalize produces the two spellings every place name is indexed and searched under:
// the literal form (trimmed, lower-cased) and the folded form (diacritics stripped and
// latin/greek letter variants mapped to a plain ascii base).
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Form tells which spelling of a query matched.
type Form int

const (
	LiteralForm Form = iota
	FoldedForm
)

func (f Form) String() string {
	if f == FoldedForm {
		return "folded"
	}
	return "literal"
}

// base letter -> letters folded into it. applied after the combining marks are removed,
// so precomposed entries here only matter for letters that NFD does not decompose.
var foldTable = [][2]string{
	{"a", "àáâãäåāăąǻά"},
	{"ae", "æ"},
	{"b", "ḃβ"},
	{"c", "çćĉċč"},
	{"d", "ďđδ"},
	{"e", "èéêëēĕėęěέε"},
	{"f", "ḟƒ"},
	{"g", "ĝğġģγ"},
	{"h", "ĥħ"},
	{"i", "ìíîïīĭįıἰ"},
	{"j", "ĵ"},
	{"k", "ķ"},
	{"l", "ĺļľŀłλ"},
	{"m", "ṁμ"},
	{"n", "ñńņňŉνη"},
	{"o", "òóôõöōŏőǿοόø"},
	{"oe", "œ"},
	{"p", "ṗφπ"},
	{"r", "ŕŗř"},
	{"s", "śŝşšșψ"},
	{"t", "ţťŧțτ"},
	{"u", "ùúûüũūŭůűųΰυ"},
	{"v", "ṽ"},
	{"w", "ŵẁẃẅω"},
	{"x", "ẋξχ"},
	{"y", "ýÿŷỳ"},
	{"z", "źżžζ"},
	{"th", "þ"},
	{"dh", "ð"},
	{"ss", "ß"},
}

var foldMap = buildFoldMap()

func buildFoldMap() map[rune]string {
	m := make(map[rune]string, 256)
	for _, entry := range foldTable {
		for _, r := range entry[1] {
			m[r] = entry[0]
		}
	}
	return m
}

// NFC at the end recomposes scripts like hangul that NFD splits into jamo.
func newStripMarks() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// Literal is the spelling used for the first trie insertion: trimmed and lower-cased.
func Literal(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Fold strips diacritics and maps letter variants to ascii, e.g. "Şişli" -> "sisli".
// scripts without a mapping (cjk, hangul, most cyrillic) pass through unchanged.
func Fold(s string) string {
	stripped, _, err := transform.String(newStripMarks(), s)
	if err != nil {
		stripped = s
	}
	stripped = strings.ToLower(strings.TrimSpace(stripped))

	var sb strings.Builder
	sb.Grow(len(stripped))
	for _, r := range stripped {
		if base, ok := foldMap[r]; ok {
			sb.WriteString(base)
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// Apply returns s normalized in the given form.
func Apply(s string, form Form) string {
	if form == FoldedForm {
		return Fold(s)
	}
	return Literal(s)
}

// IsBlank reports whether s is empty after trimming.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
