package writer

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"arabic-reader/internal/domain"
	"arabic-reader/internal/errs"
	"arabic-reader/internal/metrics"
)

// Messages reported to operators when the lexicon rejects a write.
const (
	AddFailed    = "Unable to add new word"
	UpdateFailed = "Unable to update word"
	DeleteFailed = "Unable to delete word"
)

// Reporter receives store failures. Report must not block.
type Reporter interface {
	Report(message string, err error)
}

// Writer forwards validated changes to the lexicon.
type Writer struct {
	store    domain.LexiconWriter
	reporter Reporter
	logger   *zap.Logger
}

type Option func(*Writer)

func WithLogger(l *zap.Logger) Option {
	return func(w *Writer) { w.logger = l }
}

func New(store domain.LexiconWriter, reporter Reporter, opts ...Option) *Writer {
	w := &Writer{store: store, reporter: reporter, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Add stores a validated entry and returns it with the id the store assigned.
func (w *Writer) Add(ctx context.Context, entry domain.Entry) (domain.Entry, error) {
	if err := entry.Check(); err != nil {
		return domain.Entry{}, errors.Wrap(err, "add entry")
	}
	var (
		id  string
		err error
	)
	switch f := entry.Form.(type) {
	case domain.Conjugated:
		id, err = w.store.AddVerb(ctx, entry.PartOfSpeech, f.PastTense, f.PresentTense, entry.Definition)
	case domain.Simple:
		id, err = w.store.AddWord(ctx, entry.PartOfSpeech, f.Word, entry.Definition)
	default:
		return domain.Entry{}, errors.Newf("add entry: unsupported word form %T", entry.Form)
	}
	if err != nil {
		return domain.Entry{}, w.fail(metrics.AddOp, AddFailed, err, "add %s %v", entry.PartOfSpeech, entry.Form.Terms())
	}
	w.succeed(metrics.AddOp, id)
	entry.ID = id
	return entry, nil
}

// Update replaces the terms and definition of entry id.
func (w *Writer) Update(ctx context.Context, id, term0, term1, definition string) error {
	id, term0, term1, definition = trim(id), trim(term0), trim(term1), trim(definition)
	if err := w.store.UpdateWord(ctx, id, term0, term1, definition); err != nil {
		return w.fail(metrics.UpdateOp, UpdateFailed, err, "update %s", id)
	}
	w.succeed(metrics.UpdateOp, id)
	return nil
}

// Delete removes entry id; term0 and term1 identify the version being removed.
func (w *Writer) Delete(ctx context.Context, id, term0, term1 string) error {
	id, term0, term1 = trim(id), trim(term0), trim(term1)
	if err := w.store.DeleteWord(ctx, id, term0, term1); err != nil {
		return w.fail(metrics.DeleteOp, DeleteFailed, err, "delete %s", id)
	}
	w.succeed(metrics.DeleteOp, id)
	return nil
}

func (w *Writer) fail(op, message string, err error, format string, args ...any) error {
	metrics.LexiconWrites.WithLabelValues(op, metrics.Failure).Inc()
	w.logger.Warn(message, zap.String("op", op), zap.Error(err))
	w.reporter.Report(message, err)
	return errs.WrapStoreWrite(err, format, args...)
}

func (w *Writer) succeed(op, id string) {
	metrics.LexiconWrites.WithLabelValues(op, metrics.Success).Inc()
	w.logger.Info("lexicon updated", zap.String("op", op), zap.String("id", id))
}

func trim(s string) string { return strings.TrimSpace(s) }
