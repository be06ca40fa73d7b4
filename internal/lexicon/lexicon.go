package lexicon

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"go.uber.org/multierr"

	"arabic-reader/internal/domain"
)

var (
	ErrUnknownEntry   = errors.New("unknown lexicon entry")
	ErrDuplicateEntry = errors.New("lexicon entry already exists")
	ErrStaleEntry     = errors.New("lexicon entry terms do not match")
	ErrReadOnly       = errors.New("no writable dictionary configured")
	ErrSecondTerm     = errors.New("only verbs have a second term")
)

// CheckTerms rejects a second term on entries that are not verbs.
func CheckTerms(pos domain.PartOfSpeech, terms [2]string) error {
	if pos != domain.Verb && terms[1] != "" {
		return errors.Wrapf(ErrSecondTerm, "%s %q", pos, terms[1])
	}
	return nil
}

// Storage is a dictionary that also accepts writes.
type Storage interface {
	domain.Dictionary
	domain.LexiconWriter
}

// Set is the ordered collection of dictionaries the reader works against.
// Reads consult dictionaries in order; new entries go to the writable one.
type Set struct {
	dicts    []domain.Dictionary
	writable string
}

// NewSet returns a set over dicts. writable names the dictionary receiving
// new entries; empty means the set is read-only for additions.
func NewSet(dicts []domain.Dictionary, writable string) (*Set, error) {
	names := lo.Map(dicts, func(d domain.Dictionary, _ int) string { return d.Name() })
	if dup := lo.FindDuplicates(names); len(dup) > 0 {
		return nil, errors.Newf("duplicate dictionary names: %v", dup)
	}
	if writable != "" {
		d, ok := lo.Find(dicts, func(d domain.Dictionary) bool { return d.Name() == writable })
		if !ok {
			return nil, errors.Newf("writable dictionary %q is not configured", writable)
		}
		if _, ok := d.(domain.LexiconWriter); !ok {
			return nil, errors.Newf("dictionary %q does not accept writes", writable)
		}
	}
	return &Set{dicts: dicts, writable: writable}, nil
}

// Dictionaries returns the dictionaries in query order.
func (s *Set) Dictionaries() []domain.Dictionary { return s.dicts }

// Match returns the first exact match, else the first approximate match.
func (s *Set) Match(ctx context.Context, term string) (domain.Match, error) {
	var approx *domain.Match
	for _, d := range s.dicts {
		m, err := d.Match(ctx, term)
		if err != nil {
			return domain.Match{}, errors.Wrapf(err, "match in %s", d.Name())
		}
		if !m.Matched {
			continue
		}
		if m.Exact {
			return m, nil
		}
		if approx == nil {
			approx = &m
		}
	}
	if approx != nil {
		return *approx, nil
	}
	return domain.Match{}, nil
}

// Refresh reloads every dictionary, reporting all failures together.
func (s *Set) Refresh(ctx context.Context) error {
	var errs error
	for _, d := range s.dicts {
		if err := d.Refresh(ctx); err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "refresh %s", d.Name()))
		}
	}
	return errs
}

func (s *Set) AddWord(ctx context.Context, pos domain.PartOfSpeech, word, definition string) (string, error) {
	w, err := s.target()
	if err != nil {
		return "", err
	}
	return w.AddWord(ctx, pos, word, definition)
}

func (s *Set) AddVerb(ctx context.Context, pos domain.PartOfSpeech, past, present, definition string) (string, error) {
	w, err := s.target()
	if err != nil {
		return "", err
	}
	return w.AddVerb(ctx, pos, past, present, definition)
}

// UpdateWord updates the entry in the first writable dictionary that holds id.
func (s *Set) UpdateWord(ctx context.Context, id, term0, term1, definition string) error {
	return s.each(func(w domain.LexiconWriter) error {
		return w.UpdateWord(ctx, id, term0, term1, definition)
	}, id)
}

// DeleteWord deletes the entry from the first writable dictionary that holds id.
func (s *Set) DeleteWord(ctx context.Context, id, term0, term1 string) error {
	return s.each(func(w domain.LexiconWriter) error {
		return w.DeleteWord(ctx, id, term0, term1)
	}, id)
}

func (s *Set) target() (domain.LexiconWriter, error) {
	if s.writable == "" {
		return nil, ErrReadOnly
	}
	for _, d := range s.dicts {
		if d.Name() == s.writable {
			return d.(domain.LexiconWriter), nil
		}
	}
	return nil, ErrReadOnly
}

func (s *Set) each(fn func(domain.LexiconWriter) error, id string) error {
	for _, d := range s.dicts {
		w, ok := d.(domain.LexiconWriter)
		if !ok {
			continue
		}
		err := fn(w)
		if errors.Is(err, ErrUnknownEntry) {
			continue
		}
		if err != nil {
			return errors.Wrapf(err, "%s", d.Name())
		}
		return nil
	}
	return errors.Wrapf(ErrUnknownEntry, "id %q", id)
}
