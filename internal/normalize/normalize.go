// Package normalize prepares Arabic text for display and for dictionary lookup.
//
// ForDisplay is cosmetic: it never changes which letters a reader sees.
// ForMatch folds case, drops diacritics and tatweel, and collapses letter
// variants so that every spelling of a word reaches the same lexicon key.
// ForMatch is idempotent.
//
// All functions are safe for concurrent use by multiple goroutines.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// arabicMarks lists the combining marks stripped for matching, plus tatweel.
var arabicMarks = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x0610, Hi: 0x061A, Stride: 1}, // honorifics and small letters
		{Lo: 0x0640, Hi: 0x0640, Stride: 1}, // tatweel
		{Lo: 0x064B, Hi: 0x065F, Stride: 1}, // harakat, tanwin, shadda, sukun
		{Lo: 0x0670, Hi: 0x0670, Stride: 1}, // superscript alef
		{Lo: 0x06D6, Hi: 0x06DC, Stride: 1}, // Quranic annotation
		{Lo: 0x06DF, Hi: 0x06E4, Stride: 1},
		{Lo: 0x06E7, Hi: 0x06E8, Stride: 1},
		{Lo: 0x06EA, Hi: 0x06ED, Stride: 1},
	},
}

// letterVariants maps letter forms to the canonical letter used in lexicon keys.
var letterVariants = map[rune]rune{
	'\u0622': '\u0627', // alef with madda
	'\u0623': '\u0627', // alef with hamza above
	'\u0625': '\u0627', // alef with hamza below
	'\u0671': '\u0627', // alef wasla
	'\u0649': '\u064A', // alef maksura -> ya
	'\u0629': '\u0647', // ta marbuta -> ha
}

var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// ForDisplay applies cosmetic fix-ups to raw submitted content: BOMs are
// removed, line endings become LF and the text is composed to NFC.
func ForDisplay(text string) string {
	if text == "" {
		return text
	}
	text = lineEndings.Replace(text)
	t := transform.Chain(
		runes.Remove(runes.Predicate(func(r rune) bool { return r == '\uFEFF' })),
		norm.NFC,
	)
	out, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return out
}

// ForMatch returns the lexicon key form of text.
func ForMatch(text string) string {
	if text == "" {
		return text
	}
	// Chains carry state, so one is built per call.
	t := transform.Chain(
		cases.Fold(),
		runes.Remove(runes.In(arabicMarks)),
		runes.Map(canonicalLetter),
	)
	out, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return out
}

// StripDiacritics removes Arabic diacritics and tatweel only.
func StripDiacritics(text string) string {
	return strings.Map(func(r rune) rune {
		if unicode.Is(arabicMarks, r) {
			return -1
		}
		return r
	}, text)
}

func canonicalLetter(r rune) rune {
	if c, ok := letterVariants[r]; ok {
		return c
	}
	return r
}
