package memory

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"arabic-reader/internal/domain"
	"arabic-reader/internal/lexicon"
	"arabic-reader/internal/normalize"
)

// FileEntry is one entry of a dictionary file.
type FileEntry struct {
	ID         string `yaml:"id"`
	POS        string `yaml:"pos"`
	Word       string `yaml:"word,omitempty"`
	Past       string `yaml:"past,omitempty"`
	Present    string `yaml:"present,omitempty"`
	Definition string `yaml:"definition"`
}

// File is the on-disk YAML layout of a dictionary.
type File struct {
	Entries []FileEntry `yaml:"entries"`
}

type record struct {
	view domain.LexiconEntryView
	keys [2]string
}

// Storage is an in-memory dictionary optionally backed by a YAML file.
// Writes are persisted to the file when one is set.
type Storage struct {
	mu      sync.RWMutex
	name    string
	path    string
	records []record
	index   map[string][]int
}

var _ lexicon.Storage = (*Storage)(nil)

// NewStorage returns an empty dictionary with no backing file.
func NewStorage(name string) *Storage {
	return &Storage{name: name, index: map[string][]int{}}
}

// Open loads the dictionary file at path. A missing file yields an empty dictionary
// that will be created on the first write.
func Open(name, path string) (*Storage, error) {
	s := &Storage{name: name, path: path, index: map[string][]int{}}
	if err := s.Refresh(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Storage) Name() string { return s.name }

// Refresh reloads the backing file, replacing the in-memory contents.
func (s *Storage) Refresh(_ context.Context) error {
	if s.path == "" {
		return nil
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return errors.Wrapf(err, "parse %s", s.path)
	}
	records := make([]record, 0, len(f.Entries))
	for _, e := range f.Entries {
		r, err := fromFile(s.name, e)
		if err != nil {
			return errors.Wrapf(err, "%s", s.path)
		}
		records = append(records, r)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
	s.reindex()
	return nil
}

// Match looks term up exactly, then through its stem candidates.
func (s *Storage) Match(_ context.Context, term string) (domain.Match, error) {
	key := normalize.ForMatch(term)
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idxs := s.index[key]; len(idxs) > 0 {
		v := s.records[idxs[0]].view
		return domain.Match{Matched: true, Exact: true, Entry: &v}, nil
	}
	for _, c := range lexicon.Candidates(key) {
		if idxs := s.index[c]; len(idxs) > 0 {
			v := s.records[idxs[0]].view
			return domain.Match{Matched: true, Entry: &v}, nil
		}
	}
	return domain.Match{}, nil
}

// Search returns entries whose terms contain query or whose definition does.
// Entries with a term equal to query come first.
func (s *Storage) Search(_ context.Context, query string) ([]domain.SearchResult, error) {
	q := normalize.ForMatch(query)
	if q == "" {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var exact, partial []domain.SearchResult
	for _, r := range s.records {
		switch {
		case r.keys[0] == q || r.keys[1] == q:
			exact = append(exact, domain.SearchResult{LexiconEntryView: r.view})
		case strings.Contains(r.keys[0], q) || (r.keys[1] != "" && strings.Contains(r.keys[1], q)) ||
			strings.Contains(normalize.ForMatch(r.view.Definition), q):
			partial = append(partial, domain.SearchResult{LexiconEntryView: r.view})
		}
	}
	return append(exact, partial...), nil
}

// Duplicates returns entries sharing their first term, grouped in order of first appearance.
func (s *Storage) Duplicates(_ context.Context) ([]domain.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	groups := map[string][]int{}
	var order []string
	for i, r := range s.records {
		k := r.keys[0]
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], i)
	}
	var out []domain.SearchResult
	for _, k := range order {
		if len(groups[k]) < 2 {
			continue
		}
		for _, i := range groups[k] {
			out = append(out, domain.SearchResult{LexiconEntryView: s.records[i].view})
		}
	}
	return out, nil
}

func (s *Storage) AddWord(_ context.Context, pos domain.PartOfSpeech, word, definition string) (string, error) {
	return s.add(pos, [2]string{word, ""}, definition)
}

func (s *Storage) AddVerb(_ context.Context, pos domain.PartOfSpeech, past, present, definition string) (string, error) {
	return s.add(pos, [2]string{past, present}, definition)
}

// UpdateWord replaces the terms and definition of entry id.
func (s *Storage) UpdateWord(_ context.Context, id, term0, term1, definition string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.find(id)
	if !ok {
		return errors.Wrapf(lexicon.ErrUnknownEntry, "id %q", id)
	}
	if err := lexicon.CheckTerms(s.records[i].view.PartOfSpeech, [2]string{term0, term1}); err != nil {
		return errors.Wrapf(err, "id %q", id)
	}
	prev := s.records[i]
	s.records[i].view.Terms = [2]string{term0, term1}
	s.records[i].view.Definition = definition
	s.records[i].keys = keysOf(s.records[i].view.Terms)
	s.reindex()
	if err := s.persist(); err != nil {
		s.records[i] = prev
		s.reindex()
		return err
	}
	return nil
}

// DeleteWord removes entry id. term0 and term1 must equal the stored terms.
func (s *Storage) DeleteWord(_ context.Context, id, term0, term1 string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.find(id)
	if !ok {
		return errors.Wrapf(lexicon.ErrUnknownEntry, "id %q", id)
	}
	if s.records[i].view.Terms != [2]string{term0, term1} {
		return errors.Wrapf(lexicon.ErrStaleEntry, "id %q holds %v", id, s.records[i].view.Terms)
	}
	prev := s.records
	s.records = append(append([]record{}, s.records[:i]...), s.records[i+1:]...)
	s.reindex()
	if err := s.persist(); err != nil {
		s.records = prev
		s.reindex()
		return err
	}
	return nil
}

// Entries returns a snapshot of every entry in insertion order.
func (s *Storage) Entries() []domain.LexiconEntryView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.LexiconEntryView, len(s.records))
	for i, r := range s.records {
		out[i] = r.view
	}
	return out
}

func (s *Storage) add(pos domain.PartOfSpeech, terms [2]string, definition string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := keysOf(terms)
	for _, i := range s.index[keys[0]] {
		if r := s.records[i]; r.view.PartOfSpeech == pos && r.keys == keys {
			return "", errors.Wrapf(lexicon.ErrDuplicateEntry, "%s %v is %s", pos, terms, r.view.ID)
		}
	}
	id := uuid.NewString()
	s.records = append(s.records, record{
		view: domain.LexiconEntryView{ID: id, Dictionary: s.name, PartOfSpeech: pos, Terms: terms, Definition: definition},
		keys: keys,
	})
	s.reindex()
	if err := s.persist(); err != nil {
		s.records = s.records[:len(s.records)-1]
		s.reindex()
		return "", err
	}
	return id, nil
}

func (s *Storage) find(id string) (int, bool) {
	for i, r := range s.records {
		if r.view.ID == id {
			return i, true
		}
	}
	return 0, false
}

// reindex rebuilds the term index. Callers hold the write lock.
func (s *Storage) reindex() {
	s.index = make(map[string][]int, len(s.records)*2)
	for i, r := range s.records {
		for _, k := range r.keys {
			if k != "" {
				s.index[k] = append(s.index[k], i)
			}
		}
	}
}

// persist writes the dictionary file through a temp file. Callers hold the write lock.
func (s *Storage) persist() error {
	if s.path == "" {
		return nil
	}
	f := File{Entries: make([]FileEntry, len(s.records))}
	for i, r := range s.records {
		f.Entries[i] = toFile(r.view)
	}
	data, err := yaml.Marshal(&f)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func fromFile(dict string, e FileEntry) (record, error) {
	pos, err := domain.ParsePartOfSpeech(e.POS)
	if err != nil {
		return record{}, errors.Wrapf(err, "entry %q", e.ID)
	}
	if e.ID == "" {
		return record{}, errors.New("entry without id")
	}
	terms := [2]string{e.Word, ""}
	if pos == domain.Verb {
		terms = [2]string{e.Past, e.Present}
	}
	view := domain.LexiconEntryView{ID: e.ID, Dictionary: dict, PartOfSpeech: pos, Terms: terms, Definition: e.Definition}
	return record{view: view, keys: keysOf(terms)}, nil
}

func toFile(v domain.LexiconEntryView) FileEntry {
	e := FileEntry{ID: v.ID, POS: string(v.PartOfSpeech), Definition: v.Definition}
	if v.PartOfSpeech == domain.Verb {
		e.Past, e.Present = v.Terms[0], v.Terms[1]
	} else {
		e.Word = v.Terms[0]
	}
	return e
}

func keysOf(terms [2]string) [2]string {
	return [2]string{normalize.ForMatch(terms[0]), normalize.ForMatch(terms[1])}
}
