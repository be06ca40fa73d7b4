// Package tokenizer splits text into word and delimiter tokens.
//
// Every delimiter rune becomes a token of its own and the runs between them
// become word tokens, so concatenating all token texts reproduces the input.
// The tokenizer does not normalize; callers pass display-normalized text.
package tokenizer

import (
	"unicode"
	"unicode/utf8"

	"arabic-reader/internal/domain"
)

// Delimiters is the code point table used to split text: whitespace, ASCII
// punctuation, general punctuation and the Arabic punctuation blocks.
var Delimiters = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x0009, Hi: 0x000D, Stride: 1}, // \t \n \v \f \r
		{Lo: 0x0020, Hi: 0x002F, Stride: 1}, // space ! " # ... /
		{Lo: 0x003A, Hi: 0x0040, Stride: 1}, // : ; < = > ? @
		{Lo: 0x005B, Hi: 0x0060, Stride: 1}, // [ \ ] ^ _ `
		{Lo: 0x007B, Hi: 0x007F, Stride: 1}, // { | } ~ DEL
		{Lo: 0x0085, Hi: 0x0085, Stride: 1},
		{Lo: 0x00A0, Hi: 0x00A0, Stride: 1},
		{Lo: 0x0600, Hi: 0x061F, Stride: 1}, // Arabic comma, semicolon, question mark
		{Lo: 0x06D4, Hi: 0x06DE, Stride: 1}, // Arabic full stop, ayah marks
		{Lo: 0x1680, Hi: 0x1680, Stride: 1},
		{Lo: 0x2000, Hi: 0x20FF, Stride: 1}, // general punctuation, super/subscripts, currency
		{Lo: 0x3000, Hi: 0x3000, Stride: 1},
		{Lo: 0xFEFF, Hi: 0xFEFF, Stride: 1},
	},
	LatinOffset: 7,
}

// IsDelimiter reports whether r splits words.
func IsDelimiter(r rune) bool {
	return unicode.Is(Delimiters, r)
}

// Tokenize splits text into tokens in order. Empty tokens are never produced.
func Tokenize(text string) []domain.Token {
	if text == "" {
		return nil
	}
	tokens := make([]domain.Token, 0, len(text)/4+1)
	wordStart := -1
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		// Invalid bytes decode to RuneError with size 1 and stay inside words.
		if r != utf8.RuneError && IsDelimiter(r) {
			if wordStart >= 0 {
				tokens = append(tokens, domain.Token{Text: text[wordStart:i], Offset: wordStart})
				wordStart = -1
			}
			tokens = append(tokens, domain.Token{Text: text[i : i+size], IsDelimiter: true, Offset: i})
		} else if wordStart < 0 {
			wordStart = i
		}
		i += size
	}
	if wordStart >= 0 {
		tokens = append(tokens, domain.Token{Text: text[wordStart:], Offset: wordStart})
	}
	return tokens
}

// Words returns the texts of the word tokens only.
func Words(text string) []string {
	var words []string
	for _, t := range Tokenize(text) {
		if !t.IsDelimiter {
			words = append(words, t.Text)
		}
	}
	return words
}
