package annotator

import (
	"context"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"arabic-reader/internal/domain"
	"arabic-reader/internal/metrics"
	"arabic-reader/internal/normalize"
	"arabic-reader/internal/tokenizer"
)

// Annotator classifies every word of a text against the lexicon.
type Annotator struct {
	matcher domain.Matcher
	logger  *zap.Logger
}

type Option func(*Annotator)

// WithLogger sets the logger used for lookup failures.
func WithLogger(l *zap.Logger) Option {
	return func(a *Annotator) { a.logger = l }
}

func New(matcher domain.Matcher, opts ...Option) *Annotator {
	a := &Annotator{matcher: matcher, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Annotate tokenizes text and looks up each word token. Delimiters are passed
// through as matched. Text should already be display-normalized; each word is
// match-normalized before the lookup while the token keeps its display form.
func (a *Annotator) Annotate(ctx context.Context, text string) ([]domain.AnnotatedToken, error) {
	tokens := tokenizer.Tokenize(text)
	out := make([]domain.AnnotatedToken, 0, len(tokens))
	for _, tok := range tokens {
		if tok.IsDelimiter {
			out = append(out, domain.DelimiterToken(tok.Text))
			metrics.AnnotatedTokens.WithLabelValues(metrics.Delimiter).Inc()
			continue
		}
		m, err := a.matcher.Match(ctx, normalize.ForMatch(tok.Text))
		if err != nil {
			a.logger.Warn("lexicon lookup failed", zap.String("token", tok.Text), zap.Int("offset", tok.Offset), zap.Error(err))
			return nil, errors.Wrapf(err, "annotate %q at %d", tok.Text, tok.Offset)
		}
		out = append(out, domain.AnnotatedToken{
			Text:       tok.Text,
			Matched:    m.Matched,
			ExactMatch: m.Exact,
			Definition: m.Entry,
		})
		metrics.AnnotatedTokens.WithLabelValues(outcome(m)).Inc()
	}
	return out, nil
}

func outcome(m domain.Match) string {
	switch {
	case m.Matched && m.Exact:
		return metrics.Exact
	case m.Matched:
		return metrics.Approximate
	default:
		return metrics.Unmatched
	}
}
