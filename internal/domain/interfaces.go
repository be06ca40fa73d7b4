package domain

import "context"

// Matcher classifies a single match-normalized term against the lexicon.
// Unknown terms are not an error: they come back as an unmatched Match.
type Matcher interface {
	Match(ctx context.Context, term string) (Match, error)
}

// Dictionary is one read-side lexicon source. Result order is dictionary-defined.
type Dictionary interface {
	Matcher
	Name() string
	Search(ctx context.Context, query string) ([]SearchResult, error)
	Duplicates(ctx context.Context) ([]SearchResult, error)
	Refresh(ctx context.Context) error
}

// LexiconWriter persists lexicon changes. Any returned error is a write failure.
type LexiconWriter interface {
	AddWord(ctx context.Context, pos PartOfSpeech, word, definition string) (string, error)
	AddVerb(ctx context.Context, pos PartOfSpeech, past, present, definition string) (string, error)
	UpdateWord(ctx context.Context, id, term0, term1, definition string) error
	DeleteWord(ctx context.Context, id, term0, term1 string) error
}

// ContentStore keeps raw submitted text under opaque identifiers.
// Retrieve returns an error marked errs.ErrNotFound when the id is unknown.
type ContentStore interface {
	Store(ctx context.Context, text string) (string, error)
	Retrieve(ctx context.Context, id string) (string, error)
}

// Notifier reports an error to an operator channel.
type Notifier interface {
	NotifyOnError(ctx context.Context, message string, err error) error
}

// ReaderService defines the operations exposed by the application core.
type ReaderService interface {
	Submit(ctx context.Context, text string) (string, error)
	Open(ctx context.Context, id string) (Document, error)
	Annotate(ctx context.Context, text string) ([]AnnotatedToken, error)
	Search(ctx context.Context, query string) ([]SearchResult, error)
	Duplicates(ctx context.Context) ([]SearchResult, error)
	Add(ctx context.Context, form EntryForm) (Entry, error)
	Update(ctx context.Context, id, term0, term1, definition string) error
	Delete(ctx context.Context, id, term0, term1 string) error
	Refresh(ctx context.Context) error
	Summarize(tokens []AnnotatedToken) Vocabulary
}
