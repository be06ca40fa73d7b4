package tui

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arabic-reader/internal/domain"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line string
		want Command
	}{
		{"", Command{Kind: CmdNone}},
		{"   ", Command{Kind: CmdNone}},
		{"ذهب الولد", Command{Kind: CmdSubmit, Text: "ذهب الولد"}},
		{"/كتاب", Command{Kind: CmdSearch, Text: "كتاب"}},
		{":search to write", Command{Kind: CmdSearch, Text: "to write"}},
		{":open 0123456789abcdef", Command{Kind: CmdOpen, Text: "0123456789abcdef"}},
		{":dups", Command{Kind: CmdDuplicates}},
		{":refresh", Command{Kind: CmdRefresh}},
		{":help", Command{Kind: CmdHelp}},
		{":update 7 | كتاب |  | book", Command{Kind: CmdUpdate, Args: []string{"7", "كتاب", "", "book"}}},
		{":delete 7 | كتب | يكتب", Command{Kind: CmdDelete, Args: []string{"7", "كتب", "يكتب"}}},
		{":delete 7 | كتاب", Command{Kind: CmdDelete, Args: []string{"7", "كتاب", ""}}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := ParseCommand(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCommandErrors(t *testing.T) {
	for _, line := range []string{":open", ":update 7 | a", ":delete 7", ":frobnicate"} {
		_, err := ParseCommand(line)
		assert.Error(t, err, line)
	}
}

func TestParseAdd(t *testing.T) {
	got, err := ParseCommand(":add verb | كتب | يكتب | to write")
	require.NoError(t, err)
	assert.Equal(t, CmdAdd, got.Kind)
	assert.Equal(t, domain.EntryForm{
		PartOfSpeech: lo.ToPtr("verb"),
		PastTense:    lo.ToPtr("كتب"),
		PresentTense: lo.ToPtr("يكتب"),
		Definition:   lo.ToPtr("to write"),
	}, got.Entry)

	got, err = ParseCommand(":add word | كتاب")
	require.NoError(t, err)
	assert.Equal(t, "كتاب", *got.Entry.Word)
	assert.Nil(t, got.Entry.Definition)
	assert.Nil(t, got.Entry.PastTense)

	got, err = ParseCommand(":add")
	require.NoError(t, err)
	assert.Equal(t, domain.EntryForm{}, got.Entry)
}
