package domain

import (
	"encoding/json"
	"fmt"

	"github.com/cockroachdb/errors"
)

// Token is one piece of tokenized text: a word or a single delimiter rune.
type Token struct {
	Text        string
	IsDelimiter bool
	Offset      int // byte offset in the tokenized text
}

// AnnotatedToken is a token classified against the lexicon.
type AnnotatedToken struct {
	Text        string            `json:"text"`
	Matched     bool              `json:"matched"`
	ExactMatch  bool              `json:"exact_match"`
	IsDelimiter bool              `json:"delimiter,omitempty"`
	Definition  *LexiconEntryView `json:"definition,omitempty"`
}

// DelimiterToken returns the fixed annotation for a delimiter.
func DelimiterToken(text string) AnnotatedToken {
	return AnnotatedToken{Text: text, Matched: true, ExactMatch: true, IsDelimiter: true}
}

// LexiconEntryView is the read-only projection of a stored entry.
type LexiconEntryView struct {
	ID           string       `json:"id"`
	Dictionary   string       `json:"dictionary"`
	PartOfSpeech PartOfSpeech `json:"pos"`
	Terms        [2]string    `json:"terms"`
	Definition   string       `json:"definition"`
}

// Match is a dictionary's verdict for one term.
type Match struct {
	Matched bool
	Exact   bool
	Entry   *LexiconEntryView
}

// SearchResult is one hit from a search or duplicate report. ID is its identity.
type SearchResult struct {
	LexiconEntryView
}

// WordCount is an unknown word and how often it occurs.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Vocabulary summarizes how well the lexicon covers an annotated text.
type Vocabulary struct {
	Words       int         `json:"words"`
	Exact       int         `json:"exact"`
	Approximate int         `json:"approximate"`
	Unknown     int         `json:"unknown"`
	Coverage    float64     `json:"coverage"`
	TopUnknown  []WordCount `json:"top_unknown,omitempty"`
	Hardest     []string    `json:"hardest_sentences,omitempty"`
}

// Document is a stored text together with its annotation.
type Document struct {
	ID      string
	Content string
	Tokens  []AnnotatedToken
}

// PartOfSpeech determines which entry fields are required.
type PartOfSpeech string

const (
	Stop PartOfSpeech = "stop"
	Word PartOfSpeech = "word"
	Verb PartOfSpeech = "verb"
)

// Valid reports whether p is one of the known parts of speech.
func (p PartOfSpeech) Valid() bool {
	switch p {
	case Stop, Word, Verb:
		return true
	default:
		return false
	}
}

// ParsePartOfSpeech converts s, failing for anything but stop, word and verb.
func ParsePartOfSpeech(s string) (PartOfSpeech, error) {
	p := PartOfSpeech(s)
	if !p.Valid() {
		return "", errors.Newf("unknown part of speech %q", s)
	}
	return p, nil
}

// WordForm is the surface form of an entry: Simple or Conjugated.
type WordForm interface {
	Terms() [2]string
	isWordForm()
}

// Simple is the form of words and stop words.
type Simple struct {
	Word string
}

func (s Simple) Terms() [2]string { return [2]string{s.Word, ""} }
func (Simple) isWordForm()        {}

// Conjugated is the form of verbs.
type Conjugated struct {
	PastTense    string
	PresentTense string
}

func (c Conjugated) Terms() [2]string { return [2]string{c.PastTense, c.PresentTense} }
func (Conjugated) isWordForm()        {}

// Entry is the write-side lexicon entry. ID stays empty until the store persists it.
type Entry struct {
	ID           string
	PartOfSpeech PartOfSpeech
	Form         WordForm
	Definition   string
}

// Check enforces that verbs, and only verbs, carry a Conjugated form.
func (e Entry) Check() error {
	if !e.PartOfSpeech.Valid() {
		return errors.Newf("unknown part of speech %q", e.PartOfSpeech)
	}
	var conjugated bool
	switch e.Form.(type) {
	case Simple:
	case Conjugated:
		conjugated = true
	case nil:
		return errors.New("entry has no word form")
	default:
		return errors.Newf("unsupported word form %T", e.Form)
	}
	if (e.PartOfSpeech == Verb) != conjugated {
		return errors.Newf("part of speech %q does not fit form %T", e.PartOfSpeech, e.Form)
	}
	return nil
}

// EntryForm is a proposed entry as submitted by the editor. Nil fields are absent.
type EntryForm struct {
	PartOfSpeech *string
	Word         *string
	PastTense    *string
	PresentTense *string
	Definition   *string
}

// ValidationError is one rule violation found while validating an EntryForm.
type ValidationError int

const (
	PartOfSpeechBlank ValidationError = iota
	PartOfSpeechInvalid
	PastTenseBlank
	PresentTenseBlank
	PastTenseScript
	PresentTenseScript
	PresentTensePrefix
	WordBlank
	WordScript
	DefinitionBlank
)

var validationMessages = [...]string{
	PartOfSpeechBlank:   "Part of Speech cannot be blank",
	PartOfSpeechInvalid: "Invalid part of speech",
	PastTenseBlank:      "Past tense cannot be blank",
	PresentTenseBlank:   "Present tense cannot be blank",
	PastTenseScript:     "Past tense must be in Arabic",
	PresentTenseScript:  "Present tense must be in Arabic",
	PresentTensePrefix:  "Present tense must start with ي",
	WordBlank:           "Word cannot be blank",
	WordScript:          "Word must be in Arabic",
	DefinitionBlank:     "Definition cannot be blank",
}

// String returns the message shown to the editor.
func (v ValidationError) String() string {
	if int(v) >= 0 && int(v) < len(validationMessages) {
		return validationMessages[v]
	}
	return fmt.Sprintf("ValidationError(%d)", int(v))
}

// MarshalJSON encodes the violation as its message.
func (v ValidationError) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}
