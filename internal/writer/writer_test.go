package writer

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/suite"

	"arabic-reader/internal/domain"
	"arabic-reader/internal/errs"
)

type call struct {
	op   string
	args []string
}

type fakeStore struct {
	calls []call
	err   error
}

func (f *fakeStore) AddWord(_ context.Context, pos domain.PartOfSpeech, word, def string) (string, error) {
	f.calls = append(f.calls, call{"AddWord", []string{string(pos), word, def}})
	return "w1", f.err
}

func (f *fakeStore) AddVerb(_ context.Context, pos domain.PartOfSpeech, past, present, def string) (string, error) {
	f.calls = append(f.calls, call{"AddVerb", []string{string(pos), past, present, def}})
	return "v1", f.err
}

func (f *fakeStore) UpdateWord(_ context.Context, id, t0, t1, def string) error {
	f.calls = append(f.calls, call{"UpdateWord", []string{id, t0, t1, def}})
	return f.err
}

func (f *fakeStore) DeleteWord(_ context.Context, id, t0, t1 string) error {
	f.calls = append(f.calls, call{"DeleteWord", []string{id, t0, t1}})
	return f.err
}

type report struct {
	message string
	err     error
}

type fakeReporter struct {
	reports []report
}

func (r *fakeReporter) Report(message string, err error) {
	r.reports = append(r.reports, report{message, err})
}

type WriterSuite struct {
	suite.Suite
	ctx      context.Context
	store    *fakeStore
	reporter *fakeReporter
	w        *Writer
}

func (s *WriterSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = &fakeStore{}
	s.reporter = &fakeReporter{}
	s.w = New(s.store, s.reporter)
}

func (s *WriterSuite) TestAddVerb() {
	entry := domain.Entry{
		PartOfSpeech: domain.Verb,
		Form:         domain.Conjugated{PastTense: "كتب", PresentTense: "يكتب"},
		Definition:   "to write",
	}
	got, err := s.w.Add(s.ctx, entry)
	s.Require().NoError(err)
	s.Equal("v1", got.ID)
	s.Equal([]call{{"AddVerb", []string{"verb", "كتب", "يكتب", "to write"}}}, s.store.calls)
	s.Empty(s.reporter.reports)
}

func (s *WriterSuite) TestAddWord() {
	entry := domain.Entry{PartOfSpeech: domain.Stop, Form: domain.Simple{Word: "في"}, Definition: "in"}
	got, err := s.w.Add(s.ctx, entry)
	s.Require().NoError(err)
	s.Equal("w1", got.ID)
	s.Equal([]call{{"AddWord", []string{"stop", "في", "in"}}}, s.store.calls)
}

func (s *WriterSuite) TestAddRejectsInconsistentEntry() {
	entry := domain.Entry{PartOfSpeech: domain.Verb, Form: domain.Simple{Word: "كتب"}, Definition: "x"}
	_, err := s.w.Add(s.ctx, entry)
	s.Error(err)
	s.Empty(s.store.calls)
}

func (s *WriterSuite) TestAddRejectsPointerForm() {
	for _, entry := range []domain.Entry{
		{PartOfSpeech: domain.Word, Form: &domain.Simple{Word: "قلم"}, Definition: "pen"},
		{PartOfSpeech: domain.Verb, Form: &domain.Conjugated{PastTense: "كتب", PresentTense: "يكتب"}, Definition: "to write"},
	} {
		got, err := s.w.Add(s.ctx, entry)
		s.Error(err)
		s.Empty(got.ID)
	}
	s.Empty(s.store.calls)
	s.Empty(s.reporter.reports)
}

func (s *WriterSuite) TestStoreFailureIsReportedAndMarked() {
	cause := errors.New("unique violation")
	s.store.err = cause

	_, err := s.w.Add(s.ctx, domain.Entry{PartOfSpeech: domain.Word, Form: domain.Simple{Word: "قلم"}, Definition: "pen"})
	s.Require().Error(err)
	s.True(errs.IsStoreWrite(err))
	s.False(errs.IsValidation(err))
	s.True(errors.Is(err, cause))
	s.Equal(errs.StoreWrite, errs.KindOf(err))

	s.Require().Error(s.w.Update(s.ctx, "1", "a", "b", "c"))
	s.Require().Error(s.w.Delete(s.ctx, "1", "a", "b"))

	s.Require().Len(s.reporter.reports, 3)
	s.Equal(AddFailed, s.reporter.reports[0].message)
	s.Equal(UpdateFailed, s.reporter.reports[1].message)
	s.Equal(DeleteFailed, s.reporter.reports[2].message)
	s.True(errors.Is(s.reporter.reports[0].err, cause))
}

func (s *WriterSuite) TestUpdateAndDeleteTrim() {
	s.Require().NoError(s.w.Update(s.ctx, " 7 ", " كتاب ", "", " book\n"))
	s.Require().NoError(s.w.Delete(s.ctx, "7\t", " كتاب", " "))
	s.Equal([]call{
		{"UpdateWord", []string{"7", "كتاب", "", "book"}},
		{"DeleteWord", []string{"7", "كتاب", ""}},
	}, s.store.calls)
}

func TestWriterSuite(t *testing.T) {
	suite.Run(t, new(WriterSuite))
}
