package fs

import (
	"context"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"arabic-reader/internal/content"
	"arabic-reader/internal/errs"
)

// Store keeps each text in its own file named by its content id.
type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create content dir %s", dir)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Store(_ context.Context, text string) (string, error) {
	id := content.ID(text)
	path := s.path(id)
	if _, err := os.Stat(path); err == nil {
		return id, nil
	}
	tmp, err := os.CreateTemp(s.dir, id+".*.tmp")
	if err != nil {
		return "", err
	}
	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return id, nil
}

func (s *Store) Retrieve(_ context.Context, id string) (string, error) {
	if err := content.CheckID(id); err != nil {
		return "", err
	}
	data, err := os.ReadFile(s.path(id))
	if os.IsNotExist(err) {
		return "", errs.WrapNotFound("content", id)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (s *Store) path(id string) string { return filepath.Join(s.dir, id+".txt") }
