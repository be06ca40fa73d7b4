package tokenizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"arabic-reader/internal/domain"
)

// verifyInvariants checks that offsets point at the token text and that the
// tokens concatenate back to the input.
func verifyInvariants(t *testing.T, input string, tokens []domain.Token) {
	t.Helper()
	var buf strings.Builder
	for i, tok := range tokens {
		if tok.Text == "" {
			t.Errorf("token %d is empty", i)
		}
		if got := input[tok.Offset : tok.Offset+len(tok.Text)]; got != tok.Text {
			t.Errorf("token %d offset broken: input[%d:]=%q, Text=%q", i, tok.Offset, got, tok.Text)
		}
		buf.WriteString(tok.Text)
	}
	if buf.String() != input {
		t.Errorf("reconstruction broken:\ngot:  %q\nwant: %q", buf.String(), input)
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []domain.Token
	}{
		{"empty", "", nil},
		{"single word", "كتاب", []domain.Token{
			{Text: "كتاب", Offset: 0},
		}},
		{"two words", "ذهب الولد", []domain.Token{
			{Text: "ذهب", Offset: 0},
			{Text: " ", IsDelimiter: true, Offset: 6},
			{Text: "الولد", Offset: 7},
		}},
		{"arabic comma and question mark", "من؟ أنا،", []domain.Token{
			{Text: "من", Offset: 0},
			{Text: "؟", IsDelimiter: true, Offset: 4},
			{Text: " ", IsDelimiter: true, Offset: 6},
			{Text: "أنا", Offset: 7},
			{Text: "،", IsDelimiter: true, Offset: 13},
		}},
		{"each delimiter rune is its own token", "a  b", []domain.Token{
			{Text: "a", Offset: 0},
			{Text: " ", IsDelimiter: true, Offset: 1},
			{Text: " ", IsDelimiter: true, Offset: 2},
			{Text: "b", Offset: 3},
		}},
		{"newline", "سطر\nسطر", []domain.Token{
			{Text: "سطر", Offset: 0},
			{Text: "\n", IsDelimiter: true, Offset: 6},
			{Text: "سطر", Offset: 7},
		}},
		{"digits are words", "2024.", []domain.Token{
			{Text: "2024", Offset: 0},
			{Text: ".", IsDelimiter: true, Offset: 4},
		}},
		{"general punctuation", "«نص»—نص", []domain.Token{
			{Text: "«نص»", Offset: 0},
			{Text: "—", IsDelimiter: true, Offset: 8},
			{Text: "نص", Offset: 11},
		}},
		{"only delimiters", "؛ .", []domain.Token{
			{Text: "؛", IsDelimiter: true, Offset: 0},
			{Text: " ", IsDelimiter: true, Offset: 2},
			{Text: ".", IsDelimiter: true, Offset: 3},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			assert.Equal(t, tt.want, got)
			verifyInvariants(t, tt.input, got)
		})
	}
}

func TestIsDelimiter(t *testing.T) {
	for _, r := range []rune{' ', '\t', '\n', '.', ',', '!', '؟', '،', '؛', '۔', '\u00A0', '\u2009', '\u200C', '\u2026', '\u3000', '\uFEFF'} {
		assert.True(t, IsDelimiter(r), "%U", r)
	}
	for _, r := range []rune{'a', 'Z', '0', '9', 'ك', 'ي', 'ـ', 'َ', 'é', '«'} {
		assert.False(t, IsDelimiter(r), "%U", r)
	}
}

func TestTokenizeInvalidUTF8(t *testing.T) {
	input := "ab\xffc d"
	tokens := Tokenize(input)
	verifyInvariants(t, input, tokens)
	assert.Equal(t, "ab\xffc", tokens[0].Text)
}

func TestWords(t *testing.T) {
	assert.Equal(t, []string{"ذهب", "الولد", "إلى", "المدرسة"}, Words("ذهب الولد إلى المدرسة."))
	assert.Nil(t, Words(" ، "))
}

func FuzzTokenize(f *testing.F) {
	f.Add("ذهب الولد إلى المدرسة.")
	f.Add("من؟ أنا،")
	f.Add("")
	f.Add("\xff\xfe")
	f.Add("a\u200Cb")

	f.Fuzz(func(t *testing.T, s string) {
		tokens := Tokenize(s)
		verifyInvariants(t, s, tokens)
		for i := 1; i < len(tokens); i++ {
			if !tokens[i].IsDelimiter && !tokens[i-1].IsDelimiter {
				t.Errorf("adjacent word tokens at %d: %q %q", i, tokens[i-1].Text, tokens[i].Text)
			}
		}
	})
}
