package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePartOfSpeech(t *testing.T) {
	for _, s := range []string{"stop", "word", "verb"} {
		p, err := ParsePartOfSpeech(s)
		require.NoError(t, err)
		assert.Equal(t, PartOfSpeech(s), p)
	}
	_, err := ParsePartOfSpeech("noun")
	assert.Error(t, err)
	_, err = ParsePartOfSpeech("Verb")
	assert.Error(t, err)
}

func TestEntryCheck(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
		ok    bool
	}{
		{"verb conjugated", Entry{PartOfSpeech: Verb, Form: Conjugated{"كتب", "يكتب"}}, true},
		{"word simple", Entry{PartOfSpeech: Word, Form: Simple{"كتاب"}}, true},
		{"stop simple", Entry{PartOfSpeech: Stop, Form: Simple{"في"}}, true},
		{"verb simple", Entry{PartOfSpeech: Verb, Form: Simple{"كتب"}}, false},
		{"word conjugated", Entry{PartOfSpeech: Word, Form: Conjugated{"كتب", "يكتب"}}, false},
		{"unknown pos", Entry{PartOfSpeech: "noun", Form: Simple{"كتاب"}}, false},
		{"missing form", Entry{PartOfSpeech: Word}, false},
		{"word pointer form", Entry{PartOfSpeech: Word, Form: &Simple{"قلم"}}, false},
		{"verb pointer form", Entry{PartOfSpeech: Verb, Form: &Conjugated{"كتب", "يكتب"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Check()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestTerms(t *testing.T) {
	assert.Equal(t, [2]string{"كتاب", ""}, Simple{"كتاب"}.Terms())
	assert.Equal(t, [2]string{"كتب", "يكتب"}, Conjugated{"كتب", "يكتب"}.Terms())
}

func TestValidationErrorString(t *testing.T) {
	assert.Equal(t, "Present tense must start with ي", PresentTensePrefix.String())
	assert.Equal(t, "ValidationError(99)", ValidationError(99).String())

	data, err := json.Marshal([]ValidationError{WordBlank})
	require.NoError(t, err)
	assert.JSONEq(t, `["Word cannot be blank"]`, string(data))
}

func TestDelimiterToken(t *testing.T) {
	tok := DelimiterToken("،")
	assert.True(t, tok.Matched)
	assert.True(t, tok.ExactMatch)
	assert.True(t, tok.IsDelimiter)
	assert.Nil(t, tok.Definition)
}
