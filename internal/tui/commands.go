package tui

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"

	"arabic-reader/internal/domain"
)

// CommandKind identifies what an input line asks for.
type CommandKind int

const (
	CmdNone CommandKind = iota
	CmdSubmit
	CmdOpen
	CmdSearch
	CmdDuplicates
	CmdAdd
	CmdUpdate
	CmdDelete
	CmdRefresh
	CmdHelp
)

// Command is a parsed input line.
type Command struct {
	Kind  CommandKind
	Text  string   // submitted text, id to open or search query
	Args  []string // fields of update and delete
	Entry domain.EntryForm
}

const helpText = `text            submit and annotate
:open ID        open stored text
/QUERY          search (also :search QUERY)
:dups           duplicate entries
:add POS | WORD | DEFINITION
:add verb | PAST | PRESENT | DEFINITION
:update ID | TERM0 | TERM1 | DEFINITION
:delete ID | TERM0 | TERM1
:refresh        reload dictionaries
tab/shift+tab   select word, up/down move through results, ctrl+c quit`

// ParseCommand interprets one line typed into the input box.
func ParseCommand(line string) (Command, error) {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		return Command{Kind: CmdNone}, nil
	case strings.HasPrefix(trimmed, "/"):
		return Command{Kind: CmdSearch, Text: strings.TrimSpace(trimmed[1:])}, nil
	case !strings.HasPrefix(trimmed, ":"):
		return Command{Kind: CmdSubmit, Text: line}, nil
	}

	name, rest, _ := strings.Cut(trimmed[1:], " ")
	rest = strings.TrimSpace(rest)
	switch name {
	case "open":
		if rest == "" {
			return Command{}, errors.New("usage: :open ID")
		}
		return Command{Kind: CmdOpen, Text: rest}, nil
	case "search", "s":
		return Command{Kind: CmdSearch, Text: rest}, nil
	case "dups", "duplicates":
		return Command{Kind: CmdDuplicates}, nil
	case "refresh":
		return Command{Kind: CmdRefresh}, nil
	case "help", "h", "?":
		return Command{Kind: CmdHelp}, nil
	case "add":
		return Command{Kind: CmdAdd, Entry: parseEntry(fields(rest))}, nil
	case "update":
		f := fields(rest)
		if len(f) != 4 {
			return Command{}, errors.New("usage: :update ID | TERM0 | TERM1 | DEFINITION")
		}
		return Command{Kind: CmdUpdate, Args: f}, nil
	case "delete":
		f := fields(rest)
		if len(f) == 2 {
			f = append(f, "")
		}
		if len(f) != 3 {
			return Command{}, errors.New("usage: :delete ID | TERM0 | TERM1")
		}
		return Command{Kind: CmdDelete, Args: f}, nil
	default:
		return Command{}, errors.Newf("unknown command :%s (try :help)", name)
	}
}

func fields(s string) []string {
	if s == "" {
		return nil
	}
	return lo.Map(strings.Split(s, "|"), func(f string, _ int) string { return strings.TrimSpace(f) })
}

// parseEntry maps the fields of :add onto a form. Missing fields stay absent
// so the validator reports them.
func parseEntry(f []string) domain.EntryForm {
	at := func(i int) *string {
		if i < len(f) {
			return lo.ToPtr(f[i])
		}
		return nil
	}
	form := domain.EntryForm{PartOfSpeech: at(0)}
	if len(f) > 0 && f[0] == string(domain.Verb) {
		form.PastTense, form.PresentTense, form.Definition = at(1), at(2), at(3)
	} else {
		form.Word, form.Definition = at(1), at(2)
	}
	return form
}
