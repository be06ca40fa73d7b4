// Package errs defines the three error classes surfaced by the reader core.
package errs

import (
	"strings"

	"github.com/cockroachdb/errors"

	"arabic-reader/internal/domain"
)

var (
	// ErrValidation is matched by every *InvalidEntryError.
	ErrValidation = errors.New("entry validation failed")
	// ErrStoreWrite marks failures of lexicon add, update and delete.
	ErrStoreWrite = errors.New("lexicon write failed")
	// ErrNotFound marks content that does not exist.
	ErrNotFound = errors.New("not found")
)

// InvalidEntryError carries every rule an entry violated.
type InvalidEntryError struct {
	Violations []domain.ValidationError
}

func (e *InvalidEntryError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.String()
	}
	return ErrValidation.Error() + ": " + strings.Join(msgs, "; ")
}

// Is lets errors.Is(err, ErrValidation) succeed.
func (e *InvalidEntryError) Is(target error) bool { return target == ErrValidation }

// WrapStoreWrite wraps a lexicon failure and marks it ErrStoreWrite.
func WrapStoreWrite(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return errors.Mark(errors.Wrapf(err, format, args...), ErrStoreWrite)
}

// WrapNotFound returns ErrNotFound annotated with the missing identifier.
func WrapNotFound(kind, id string) error {
	return errors.Wrapf(ErrNotFound, "%s %q", kind, id)
}

// IsValidation reports whether err carries validation violations.
func IsValidation(err error) bool {
	var inv *InvalidEntryError
	return errors.As(err, &inv)
}

// Violations extracts the violation list from err, nil if it has none.
func Violations(err error) []domain.ValidationError {
	var inv *InvalidEntryError
	if errors.As(err, &inv) {
		return inv.Violations
	}
	return nil
}

// IsStoreWrite reports whether err is a lexicon write failure.
func IsStoreWrite(err error) bool { return errors.Is(err, ErrStoreWrite) }

// IsNotFound reports whether err is a content lookup miss.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// Kind classifies an error for presentation.
type Kind int

const (
	Internal Kind = iota
	Validation
	StoreWrite
	NotFound
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case StoreWrite:
		return "store_write"
	case NotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// KindOf returns the class of err. Validation wins over the other classes.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return Internal
	case IsValidation(err):
		return Validation
	case IsStoreWrite(err):
		return StoreWrite
	case IsNotFound(err):
		return NotFound
	default:
		return Internal
	}
}
