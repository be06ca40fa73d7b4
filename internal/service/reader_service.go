package service

import (
	"context"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"arabic-reader/internal/aggregator"
	"arabic-reader/internal/annotator"
	"arabic-reader/internal/domain"
	"arabic-reader/internal/normalize"
	"arabic-reader/internal/report"
	"arabic-reader/internal/validator"
	"arabic-reader/internal/writer"
)

// Refresher reloads dictionary contents.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Deps are the collaborators a ReaderServiceImpl is assembled from.
type Deps struct {
	Content    domain.ContentStore
	Annotator  *annotator.Annotator
	Aggregator *aggregator.Aggregator
	Validator  *validator.Validator
	Writer     *writer.Writer
	Refresher  Refresher
	Logger     *zap.Logger
	TopUnknown int
}

type ReaderServiceImpl struct {
	content    domain.ContentStore
	annotator  *annotator.Annotator
	aggregator *aggregator.Aggregator
	validator  *validator.Validator
	writer     *writer.Writer
	refresher  Refresher
	logger     *zap.Logger
	topUnknown int
}

var _ domain.ReaderService = (*ReaderServiceImpl)(nil)

func NewReaderService(d Deps) *ReaderServiceImpl {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	v := d.Validator
	if v == nil {
		v = validator.New()
	}
	return &ReaderServiceImpl{
		content:    d.Content,
		annotator:  d.Annotator,
		aggregator: d.Aggregator,
		validator:  v,
		writer:     d.Writer,
		refresher:  d.Refresher,
		logger:     logger,
		topUnknown: d.TopUnknown,
	}
}

// Submit stores text and returns the id to open it by.
func (s *ReaderServiceImpl) Submit(ctx context.Context, text string) (string, error) {
	if text == "" {
		return "", errors.New("nothing to submit")
	}
	id, err := s.content.Store(ctx, text)
	if err != nil {
		return "", errors.Wrap(err, "store content")
	}
	s.logger.Info("content stored", zap.String("id", id), zap.Int("bytes", len(text)))
	return id, nil
}

// Open retrieves stored text and annotates it. Unknown ids yield errs.ErrNotFound.
func (s *ReaderServiceImpl) Open(ctx context.Context, id string) (domain.Document, error) {
	raw, err := s.content.Retrieve(ctx, id)
	if err != nil {
		return domain.Document{}, err
	}
	text := normalize.ForDisplay(raw)
	tokens, err := s.annotator.Annotate(ctx, text)
	if err != nil {
		return domain.Document{}, err
	}
	return domain.Document{ID: id, Content: text, Tokens: tokens}, nil
}

// Annotate display-normalizes text and classifies its words without storing it.
func (s *ReaderServiceImpl) Annotate(ctx context.Context, text string) ([]domain.AnnotatedToken, error) {
	return s.annotator.Annotate(ctx, normalize.ForDisplay(text))
}

func (s *ReaderServiceImpl) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	return s.aggregator.Search(ctx, query)
}

func (s *ReaderServiceImpl) Duplicates(ctx context.Context) ([]domain.SearchResult, error) {
	return s.aggregator.Duplicates(ctx)
}

// Add validates form and writes it. Invalid forms never reach the lexicon.
func (s *ReaderServiceImpl) Add(ctx context.Context, form domain.EntryForm) (domain.Entry, error) {
	entry, err := s.validator.Validate(form)
	if err != nil {
		s.logger.Debug("entry rejected", zap.Error(err))
		return domain.Entry{}, err
	}
	return s.writer.Add(ctx, entry)
}

func (s *ReaderServiceImpl) Update(ctx context.Context, id, term0, term1, definition string) error {
	return s.writer.Update(ctx, id, term0, term1, definition)
}

func (s *ReaderServiceImpl) Delete(ctx context.Context, id, term0, term1 string) error {
	return s.writer.Delete(ctx, id, term0, term1)
}

// Refresh reloads every dictionary.
func (s *ReaderServiceImpl) Refresh(ctx context.Context) error {
	if err := s.refresher.Refresh(ctx); err != nil {
		s.logger.Warn("dictionary refresh failed", zap.Error(err))
		return err
	}
	s.logger.Info("dictionaries refreshed")
	return nil
}

// Summarize reports lexicon coverage of an annotated text.
func (s *ReaderServiceImpl) Summarize(tokens []domain.AnnotatedToken) domain.Vocabulary {
	return report.Build(tokens, s.topUnknown)
}
