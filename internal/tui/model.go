package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"arabic-reader/internal/domain"
	"arabic-reader/internal/errs"
)

// ReaderPort is the TUI-facing subset of the reader service.
type ReaderPort interface {
	Submit(ctx context.Context, text string) (string, error)
	Open(ctx context.Context, id string) (domain.Document, error)
	Search(ctx context.Context, query string) ([]domain.SearchResult, error)
	Duplicates(ctx context.Context) ([]domain.SearchResult, error)
	Add(ctx context.Context, form domain.EntryForm) (domain.Entry, error)
	Update(ctx context.Context, id, term0, term1, definition string) error
	Delete(ctx context.Context, id, term0, term1 string) error
	Refresh(ctx context.Context) error
	Summarize(tokens []domain.AnnotatedToken) domain.Vocabulary
}

type pane int

const (
	paneDocument pane = iota
	paneResults
	paneHelp
)

// Model is the Bubble Tea model for the reader.
type Model struct {
	service  ReaderPort
	ctx      context.Context
	input    textinput.Model
	viewport viewport.Model
	pane     pane
	doc      *domain.Document
	vocab    domain.Vocabulary
	words    []int // indices of word tokens in doc.Tokens
	selected int   // index into words, -1 when nothing is selected
	results  []domain.SearchResult
	title    string
	cursor   int
	status   string
	failed   bool
	ready    bool
}

// New creates a new TUI model instance.
func New(ctx context.Context, service ReaderPort) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Paste Arabic text, /search or :help"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		service:  service,
		ctx:      ctx,
		input:    ti,
		viewport: vp,
		pane:     paneHelp,
		selected: -1,
		status:   "Ready. Type :help for commands.",
	}
}

// WithDocument returns m showing doc.
func (m Model) WithDocument(doc domain.Document) Model {
	m.show(doc)
	m.viewport.SetContent(m.render())
	return m
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, bh := bodyBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + 1 + qh + 1 // header and summary, status, spacer
		vh := msg.Height - reserved
		m.viewport.Width = max(20, msg.Width-2)
		m.viewport.Height = max(3, vh-bh)
		m.viewport.SetContent(m.render())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.Type {
		case tea.KeyEnter:
			line := m.input.Value()
			cmd, err := ParseCommand(line)
			if err != nil {
				m.setError(err.Error())
			} else {
				m = m.run(cmd)
				if cmd.Kind != CmdNone {
					m.input.SetValue("")
				}
			}
			m.viewport.SetContent(m.render())
			m.viewport.GotoTop()
			return m, nil
		case tea.KeyTab, tea.KeyShiftTab:
			if m.pane == paneDocument && len(m.words) > 0 {
				step := 1
				if msg.Type == tea.KeyShiftTab {
					step = -1
				}
				m.selected = (m.selected + step + len(m.words)) % len(m.words)
				m.viewport.SetContent(m.render())
				return m, nil
			}
		case tea.KeyDown, tea.KeyUp:
			if m.pane == paneResults && len(m.results) > 0 {
				step := 1
				if msg.Type == tea.KeyUp {
					step = -1
				}
				m.cursor = (m.cursor + step + len(m.results)) % len(m.results)
				m.viewport.SetContent(m.render())
				return m, nil
			}
		case tea.KeyPgDown, tea.KeyPgUp:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the TUI layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("Arabic Reader")
	summary := summaryStyle.Render(m.summaryLine())
	body := bodyBoxStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := okStyle.Render(m.status)
	if m.failed {
		status = errorStyle.Render(m.status)
	}
	return header + "\n" + summary + "\n" + body + "\n" + input + "\n" + status
}

func (m Model) run(c Command) Model {
	switch c.Kind {
	case CmdNone:
	case CmdHelp:
		m.pane = paneHelp
	case CmdSubmit:
		id, err := m.service.Submit(m.ctx, c.Text)
		if err != nil {
			m.setError(describe(err))
			return m
		}
		return m.open(id)
	case CmdOpen:
		return m.open(c.Text)
	case CmdSearch:
		res, err := m.service.Search(m.ctx, c.Text)
		if err != nil {
			m.setError(describe(err))
			return m
		}
		m.showResults(fmt.Sprintf("Results for %q", c.Text), res)
	case CmdDuplicates:
		res, err := m.service.Duplicates(m.ctx)
		if err != nil {
			m.setError(describe(err))
			return m
		}
		m.showResults("Duplicate entries", res)
	case CmdAdd:
		entry, err := m.service.Add(m.ctx, c.Entry)
		if err != nil {
			m.setError(describe(err))
			return m
		}
		// Show the new entry next to its namesakes.
		res, err := m.service.Search(m.ctx, entry.Definition)
		if err == nil {
			m.showResults(fmt.Sprintf("Results for %q", entry.Definition), res)
		}
		m.setStatus("New word successfully added")
	case CmdUpdate:
		if err := m.service.Update(m.ctx, c.Args[0], c.Args[1], c.Args[2], c.Args[3]); err != nil {
			m.setError(describe(err))
			return m
		}
		m.setStatus("Word updated")
	case CmdDelete:
		if err := m.service.Delete(m.ctx, c.Args[0], c.Args[1], c.Args[2]); err != nil {
			m.setError(describe(err))
			return m
		}
		m.results = lo.Reject(m.results, func(r domain.SearchResult, _ int) bool { return r.ID == c.Args[0] })
		m.cursor = 0
		m.setStatus("Word deleted")
	case CmdRefresh:
		if err := m.service.Refresh(m.ctx); err != nil {
			m.setError(describe(err))
			return m
		}
		if m.doc != nil {
			return m.open(m.doc.ID)
		}
		m.setStatus("Dictionaries reloaded")
	}
	return m
}

func (m Model) open(id string) Model {
	doc, err := m.service.Open(m.ctx, id)
	if err != nil {
		m.setError(describe(err))
		return m
	}
	m.show(doc)
	return m
}

func (m *Model) show(doc domain.Document) {
	m.doc = &doc
	m.vocab = m.service.Summarize(doc.Tokens)
	m.words = nil
	for i, t := range doc.Tokens {
		if !t.IsDelimiter {
			m.words = append(m.words, i)
		}
	}
	m.selected = -1
	m.pane = paneDocument
	m.setStatus(fmt.Sprintf("Opened %s", doc.ID))
}

func (m *Model) showResults(title string, res []domain.SearchResult) {
	m.pane = paneResults
	m.title = title
	m.results = res
	m.cursor = 0
	m.setStatus(fmt.Sprintf("%d result(s)", len(res)))
}

func (m *Model) setStatus(s string) { m.status, m.failed = s, false }
func (m *Model) setError(s string)  { m.status, m.failed = s, true }

func (m Model) summaryLine() string {
	if m.doc == nil {
		return ""
	}
	v := m.vocab
	line := fmt.Sprintf("%s  words=%d exact=%d approx=%d unknown=%d coverage=%.0f%%",
		m.doc.ID, v.Words, v.Exact, v.Approximate, v.Unknown, v.Coverage*100)
	if len(v.TopUnknown) > 0 {
		top := lo.Map(v.TopUnknown, func(w domain.WordCount, _ int) string { return fmt.Sprintf("%s×%d", w.Word, w.Count) })
		line += "  unknown: " + strings.Join(top, " ")
	}
	return line
}

func (m Model) render() string {
	switch m.pane {
	case paneDocument:
		return m.renderDocument()
	case paneResults:
		return m.renderResults()
	default:
		return helpText
	}
}

func (m Model) renderDocument() string {
	if m.doc == nil {
		return "No document open."
	}
	sel := -1
	if m.selected >= 0 && m.selected < len(m.words) {
		sel = m.words[m.selected]
	}
	var sb strings.Builder
	for i, t := range m.doc.Tokens {
		switch {
		case t.IsDelimiter:
			sb.WriteString(t.Text)
		case i == sel:
			sb.WriteString(selectedStyle.Render(t.Text))
		case !t.Matched:
			sb.WriteString(unmatchedStyle.Render(t.Text))
		case !t.ExactMatch:
			sb.WriteString(approxStyle.Render(t.Text))
		default:
			sb.WriteString(t.Text)
		}
	}
	if sel >= 0 {
		sb.WriteString("\n\n")
		sb.WriteString(renderDefinition(m.doc.Tokens[sel]))
	}
	return sb.String()
}

func renderDefinition(t domain.AnnotatedToken) string {
	if t.Definition == nil {
		return dimStyle.Render(t.Text + ": not in the lexicon")
	}
	kind := "exact"
	if !t.ExactMatch {
		kind = "approximate"
	}
	return fmt.Sprintf("%s (%s match)\n%s", t.Text, kind, renderEntry(*t.Definition))
}

func renderEntry(e domain.LexiconEntryView) string {
	terms := e.Terms[0]
	if e.Terms[1] != "" {
		terms += " / " + e.Terms[1]
	}
	return fmt.Sprintf("%s  [%s] %s\n  %s\n  %s", highlightStyle.Render(terms), e.PartOfSpeech, e.Definition,
		dimStyle.Render("id "+e.ID), dimStyle.Render("dictionary "+e.Dictionary))
}

func (m Model) renderResults() string {
	if len(m.results) == 0 {
		return m.title + "\n\nNo results."
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s  %d/%d\n\n", m.title, m.cursor+1, len(m.results)))
	for i, r := range m.results {
		marker := "  "
		if i == m.cursor {
			marker = "> "
		}
		sb.WriteString(marker + renderEntry(r.LexiconEntryView) + "\n")
	}
	return sb.String()
}

// describe turns an error into the status line shown to the editor.
func describe(err error) string {
	switch errs.KindOf(err) {
	case errs.Validation:
		msgs := lo.Map(errs.Violations(err), func(v domain.ValidationError, _ int) string { return v.String() })
		return strings.Join(msgs, "; ")
	case errs.NotFound:
		return "Not found: " + err.Error()
	case errs.StoreWrite:
		return "Lexicon write failed: " + err.Error()
	default:
		return "Error: " + err.Error()
	}
}

var (
	headerStyle    = lipgloss.NewStyle().Bold(true)
	summaryStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	bodyBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	okStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	unmatchedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	approxStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	selectedStyle  = lipgloss.NewStyle().Reverse(true)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
