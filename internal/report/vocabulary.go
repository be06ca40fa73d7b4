package report

import (
	"math"
	"sort"
	"strings"

	"arabic-reader/internal/domain"
	"arabic-reader/internal/normalize"
)

// sentenceEnds are the delimiters that close a sentence.
var sentenceEnds = map[string]struct{}{
	".": {}, "!": {}, "?": {}, "؟": {}, "۔": {}, "\n": {},
}

// Build computes the report for tokens, listing up to topN unknown words and
// up to topN of the sentences with the most unknown words.
func Build(tokens []domain.AnnotatedToken, topN int) domain.Vocabulary {
	if topN <= 0 {
		topN = 10
	}
	var v domain.Vocabulary
	freq := map[string]int{}
	display := map[string]string{}
	for _, tok := range tokens {
		if tok.IsDelimiter {
			continue
		}
		v.Words++
		switch {
		case tok.Matched && tok.ExactMatch:
			v.Exact++
		case tok.Matched:
			v.Approximate++
		default:
			v.Unknown++
			key := normalize.ForMatch(tok.Text)
			if _, ok := display[key]; !ok {
				display[key] = tok.Text
			}
			freq[key]++
		}
	}
	if v.Words > 0 {
		v.Coverage = float64(v.Exact+v.Approximate) / float64(v.Words)
	}

	counts := make([]domain.WordCount, 0, len(freq))
	for k, n := range freq {
		counts = append(counts, domain.WordCount{Word: display[k], Count: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Word < counts[j].Word
	})
	if len(counts) > topN {
		counts = counts[:topN]
	}
	v.TopUnknown = counts
	v.Hardest = hardest(tokens, topN)
	return v
}

type sentence struct {
	text    string
	words   int
	unknown int
}

func split(tokens []domain.AnnotatedToken) []sentence {
	var out []sentence
	var cur sentence
	var sb strings.Builder
	flush := func() {
		cur.text = strings.TrimSpace(sb.String())
		if cur.words > 0 {
			out = append(out, cur)
		}
		cur = sentence{}
		sb.Reset()
	}
	for _, tok := range tokens {
		sb.WriteString(tok.Text)
		if tok.IsDelimiter {
			if _, ok := sentenceEnds[tok.Text]; ok {
				flush()
			}
			continue
		}
		cur.words++
		if !tok.Matched {
			cur.unknown++
		}
	}
	flush()
	return out
}

// hardest ranks sentences by unknown words, damped by sentence length, and
// returns the best maxSentences in their original order.
func hardest(tokens []domain.AnnotatedToken, maxSentences int) []string {
	sentences := split(tokens)
	type pair struct {
		idx   int
		score float64
	}
	scores := make([]pair, 0, len(sentences))
	for i, s := range sentences {
		if s.unknown == 0 {
			continue
		}
		scores = append(scores, pair{i, float64(s.unknown) / math.Sqrt(float64(s.words))})
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })
	if maxSentences > len(scores) {
		maxSentences = len(scores)
	}
	selected := make([]int, maxSentences)
	for i := 0; i < maxSentences; i++ {
		selected[i] = scores[i].idx
	}
	sort.Ints(selected)
	out := make([]string, 0, len(selected))
	for _, idx := range selected {
		out = append(out, sentences[idx].text)
	}
	return out
}
