package lexicon

import (
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
)

// minStemRunes is the shortest stem a candidate may have.
const minStemRunes = 2

// Clitics in match-normalized form, longest first so the greediest strip is tried first.
var (
	prefixes = []string{"وال", "بال", "كال", "فال", "لل", "ال", "و", "ف", "ب", "ك", "ل", "س"}
	suffixes = []string{"ها", "هم", "هن", "كم", "كن", "نا", "ون", "ين", "ان", "ات", "وا", "ه", "ك", "ي"}
)

// Candidates returns the approximate lookup keys for a match-normalized term:
// the term with one clitic prefix removed, with one suffix removed, and with
// both removed. The term itself is not included.
func Candidates(term string) []string {
	var out []string
	var bare []string
	for _, p := range prefixes {
		if rest, ok := strip(term, p, strings.CutPrefix); ok {
			bare = append(bare, rest)
		}
	}
	out = append(out, bare...)
	for _, s := range suffixes {
		if rest, ok := strip(term, s, strings.CutSuffix); ok {
			out = append(out, rest)
		}
	}
	for _, b := range bare {
		for _, s := range suffixes {
			if rest, ok := strip(b, s, strings.CutSuffix); ok {
				out = append(out, rest)
			}
		}
	}
	return lo.Without(lo.Uniq(out), term)
}

func strip(term, affix string, cut func(s, affix string) (string, bool)) (string, bool) {
	rest, ok := cut(term, affix)
	if !ok || utf8.RuneCountInString(rest) < minStemRunes {
		return "", false
	}
	return rest, true
}
