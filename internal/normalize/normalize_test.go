package normalize

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestForMatch(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain word", "كتب", "كتب"},
		{"harakat stripped", "كَتَبَ", "كتب"},
		{"shadda and tanwin", "مُدَرِّسٌ", "مدرس"},
		{"tatweel", "كـــتاب", "كتاب"},
		{"superscript alef", "هٰذا", "هذا"},
		{"hamza alef", "أكل", "اكل"},
		{"hamza below", "إسلام", "اسلام"},
		{"madda", "آمن", "امن"},
		{"alef wasla", "ٱلكتاب", "الكتاب"},
		{"alef maksura", "على", "علي"},
		{"ta marbuta", "مدرسة", "مدرسه"},
		{"latin case fold", "Hello", "hello"},
		{"latin and arabic", "Kitab كِتَابٌ", "kitab كتاب"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ForMatch(tt.input))
		})
	}
}

func TestForMatchIdempotent(t *testing.T) {
	for _, s := range []string{"", "كَتَبَ", "أإآٱ", "ـــ", "ΣΑΣ", "İstanbul", "Straße", "\uFEFB", "a\u0654\u0301"} {
		once := ForMatch(s)
		assert.Equal(t, once, ForMatch(once), "input %q", s)
	}
}

func TestForDisplay(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"crlf", "سطر\r\nسطر", "سطر\nسطر"},
		{"bare cr", "a\rb", "a\nb"},
		{"bom", "\uFEFFكتاب", "كتاب"},
		{"nfc", "e\u0301", "\u00e9"},
		{"diacritics kept", "كَتَبَ", "كَتَبَ"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ForDisplay(tt.input))
		})
	}
}

func TestStripDiacritics(t *testing.T) {
	assert.Equal(t, "كتب", StripDiacritics("كَتَبَ"))
	assert.Equal(t, "Hello", StripDiacritics("Hello"))
}

func FuzzForMatch(f *testing.F) {
	f.Add("كَتَبَ")
	f.Add("أكل على مدرسة")
	f.Add("Hello World")
	f.Add("")
	f.Add("   ")
	f.Add("ـ")
	f.Add("İ")

	f.Fuzz(func(t *testing.T, s string) {
		if !utf8.ValidString(s) {
			t.Skip()
		}
		once := ForMatch(s)
		if twice := ForMatch(once); twice != once {
			t.Errorf("not idempotent:\ninput:  %q\nfirst:  %q\nsecond: %q", s, once, twice)
		}
	})
}
