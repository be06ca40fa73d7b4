// Package validator checks proposed lexicon entries before they are written.
//
// Every rule is evaluated on every call; the result lists all violations in a
// fixed order rather than stopping at the first one.
package validator

import (
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	playground "github.com/go-playground/validator/v10"
	"github.com/samber/lo"

	"arabic-reader/internal/domain"
	"arabic-reader/internal/errs"
)

// PresentPrefix is the imperfective prefix every present tense starts with.
const PresentPrefix = "ي"

// Tags reported by the rule function, one per domain.ValidationError.
var tags = map[string]domain.ValidationError{
	"pos_blank":        domain.PartOfSpeechBlank,
	"pos_invalid":      domain.PartOfSpeechInvalid,
	"past_blank":       domain.PastTenseBlank,
	"present_blank":    domain.PresentTenseBlank,
	"past_script":      domain.PastTenseScript,
	"present_script":   domain.PresentTenseScript,
	"present_prefix":   domain.PresentTensePrefix,
	"word_blank":       domain.WordBlank,
	"word_script":      domain.WordScript,
	"definition_blank": domain.DefinitionBlank,
}

// form is the trimmed, pointer-free view the rules run against.
type form struct {
	PartOfSpeech string
	Word         string
	PastTense    string
	PresentTense string
	Definition   string
}

// Validator turns EntryForms into domain entries.
type Validator struct {
	v *playground.Validate
}

// New returns a Validator. It is safe for concurrent use.
func New() *Validator {
	v := playground.New()
	v.RegisterStructValidation(rules, form{})
	return &Validator{v: v}
}

// Normalize trims every present field. Absent fields stay nil.
func Normalize(f domain.EntryForm) domain.EntryForm {
	return domain.EntryForm{
		PartOfSpeech: trim(f.PartOfSpeech),
		Word:         trim(f.Word),
		PastTense:    trim(f.PastTense),
		PresentTense: trim(f.PresentTense),
		Definition:   trim(f.Definition),
	}
}

// Validate checks f and returns the trimmed entry, or an *errs.InvalidEntryError
// listing every violated rule.
func (v *Validator) Validate(f domain.EntryForm) (domain.Entry, error) {
	n := Normalize(f)
	in := form{
		PartOfSpeech: lo.FromPtr(n.PartOfSpeech),
		Word:         lo.FromPtr(n.Word),
		PastTense:    lo.FromPtr(n.PastTense),
		PresentTense: lo.FromPtr(n.PresentTense),
		Definition:   lo.FromPtr(n.Definition),
	}
	if err := v.v.Struct(in); err != nil {
		var fieldErrs playground.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return domain.Entry{}, errors.Wrap(err, "validate entry")
		}
		violations := make([]domain.ValidationError, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			ve, ok := tags[fe.Tag()]
			if !ok {
				return domain.Entry{}, errors.Newf("unexpected validation tag %q", fe.Tag())
			}
			violations = append(violations, ve)
		}
		return domain.Entry{}, &errs.InvalidEntryError{Violations: violations}
	}

	pos := domain.PartOfSpeech(in.PartOfSpeech)
	entry := domain.Entry{PartOfSpeech: pos, Definition: in.Definition}
	if pos == domain.Verb {
		entry.Form = domain.Conjugated{PastTense: in.PastTense, PresentTense: in.PresentTense}
	} else {
		entry.Form = domain.Simple{Word: in.Word}
	}
	return entry, nil
}

// rules reports violations in the order of domain.ValidationError.
func rules(sl playground.StructLevel) {
	f := sl.Current().Interface().(form)
	report := func(value any, field, tag string) { sl.ReportError(value, field, field, tag, "") }

	pos := domain.PartOfSpeech(f.PartOfSpeech)
	switch {
	case f.PartOfSpeech == "":
		report(f.PartOfSpeech, "PartOfSpeech", "pos_blank")
	case !pos.Valid():
		report(f.PartOfSpeech, "PartOfSpeech", "pos_invalid")
	}

	if pos == domain.Verb {
		if f.PastTense == "" {
			report(f.PastTense, "PastTense", "past_blank")
		}
		if f.PresentTense == "" {
			report(f.PresentTense, "PresentTense", "present_blank")
		}
		if f.PastTense != "" && !IsArabic(f.PastTense) {
			report(f.PastTense, "PastTense", "past_script")
		}
		if f.PresentTense != "" && !IsArabic(f.PresentTense) {
			report(f.PresentTense, "PresentTense", "present_script")
		}
		if f.PresentTense != "" && !strings.HasPrefix(f.PresentTense, PresentPrefix) {
			report(f.PresentTense, "PresentTense", "present_prefix")
		}
	} else {
		if f.Word == "" {
			report(f.Word, "Word", "word_blank")
		} else if !IsArabic(f.Word) {
			report(f.Word, "Word", "word_script")
		}
	}

	if f.Definition == "" {
		report(f.Definition, "Definition", "definition_blank")
	}
}

// IsArabic reports whether s is non-empty and consists of Arabic-block runes,
// spaces, periods, commas and slashes only.
func IsArabic(s string) bool {
	if s == "" || !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 0x0600 && r <= 0x06FF:
		case r == ' ', r == '.', r == ',', r == '/', r == '\\':
		default:
			return false
		}
	}
	return true
}

func trim(s *string) *string {
	if s == nil {
		return nil
	}
	return lo.ToPtr(strings.TrimSpace(*s))
}
