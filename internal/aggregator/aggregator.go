package aggregator

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"arabic-reader/internal/domain"
	"arabic-reader/internal/metrics"
	"arabic-reader/internal/normalize"
)

// Aggregator queries an ordered list of dictionaries and merges their results.
type Aggregator struct {
	dicts  []domain.Dictionary
	logger *zap.Logger
}

type Option func(*Aggregator)

func WithLogger(l *zap.Logger) Option {
	return func(a *Aggregator) { a.logger = l }
}

// New returns an Aggregator over dicts. Their order decides which entry is
// kept when two dictionaries return the same id.
func New(dicts []domain.Dictionary, opts ...Option) *Aggregator {
	a := &Aggregator{dicts: dicts, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Searchable reports whether query is worth sending to the dictionaries:
// longer than one character and not only whitespace.
func Searchable(query string) bool {
	return utf8.RuneCountInString(query) > 1 && strings.TrimSpace(query) != ""
}

// Search returns the merged results of every dictionary for query.
// Queries that are not Searchable return an empty list without any lookup.
func (a *Aggregator) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	if !Searchable(query) {
		metrics.LookupRequests.WithLabelValues(metrics.SearchKind, metrics.Skipped).Inc()
		return []domain.SearchResult{}, nil
	}
	key := normalize.ForMatch(strings.TrimSpace(query))
	return a.collect(metrics.SearchKind, func(d domain.Dictionary) ([]domain.SearchResult, error) {
		return d.Search(ctx, key)
	})
}

// Duplicates returns the merged duplicate reports of every dictionary.
func (a *Aggregator) Duplicates(ctx context.Context) ([]domain.SearchResult, error) {
	return a.collect(metrics.DuplicatesKind, func(d domain.Dictionary) ([]domain.SearchResult, error) {
		return d.Duplicates(ctx)
	})
}

func (a *Aggregator) collect(kind string, query func(domain.Dictionary) ([]domain.SearchResult, error)) ([]domain.SearchResult, error) {
	batches := make([][]domain.SearchResult, 0, len(a.dicts))
	for _, d := range a.dicts {
		res, err := query(d)
		if err != nil {
			metrics.LookupRequests.WithLabelValues(kind, metrics.Failure).Inc()
			a.logger.Warn("dictionary lookup failed", zap.String("kind", kind), zap.String("dictionary", d.Name()), zap.Error(err))
			return nil, errors.Wrapf(err, "%s in %s", kind, d.Name())
		}
		batches = append(batches, res)
	}
	metrics.LookupRequests.WithLabelValues(kind, metrics.Success).Inc()
	return Merge(batches...), nil
}

// Merge concatenates batches in order, keeping only the first result for each id.
func Merge(batches ...[]domain.SearchResult) []domain.SearchResult {
	return lo.UniqBy(lo.Flatten(batches), func(r domain.SearchResult) string { return r.ID })
}
