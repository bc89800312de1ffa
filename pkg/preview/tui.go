package preview

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Candidate is a freshly fetched image that could replace the placeholder
type Candidate struct {
	Link     string
	Fragment string
}

// FetchFunc fetches a new candidate
type FetchFunc func(ctx context.Context) (Candidate, error)

// ApplyFunc writes a candidate into the document and reports whether it changed
type ApplyFunc func(ctx context.Context, c Candidate) (bool, error)

// Config describes the feed and document being previewed
type Config struct {
	FeedName    string
	Marker      string
	Document    string
	CurrentLine string
	LineNumber  int
	Fetch       FetchFunc
	Apply       ApplyFunc
}

// State is the current phase of the preview
type State int

// Preview states
const (
	StateLoading State = iota
	StateReady
	StateApplying
	StateApplied
	StateFailed
)

type candidateMsg struct {
	candidate Candidate
	err       error
}

type appliedMsg struct {
	replaced bool
	err      error
}

// Model represents the Bubble Tea model for the preview TUI
type Model struct {
	ctx       context.Context
	config    Config
	state     State
	candidate Candidate
	replaced  bool
	err       error
	width     int
	height    int
}

// NewModel creates a new preview model
func NewModel(ctx context.Context, config Config) Model {
	return Model{
		ctx:    ctx,
		config: config,
		state:  StateLoading,
	}
}

// State returns the current preview state
func (m Model) State() State {
	return m.state
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return m.fetch()
}

func (m Model) fetch() tea.Cmd {
	return func() tea.Msg {
		c, err := m.config.Fetch(m.ctx)
		return candidateMsg{candidate: c, err: err}
	}
}

func (m Model) apply() tea.Cmd {
	c := m.candidate
	return func() tea.Msg {
		replaced, err := m.config.Apply(m.ctx, c)
		return appliedMsg{replaced: replaced, err: err}
	}
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case candidateMsg:
		m.err = msg.err
		if msg.err != nil {
			m.state = StateFailed
			m.candidate = Candidate{}
			return m, nil
		}
		m.candidate = msg.candidate
		m.state = StateReady
		return m, nil

	case appliedMsg:
		m.err = msg.err
		if msg.err != nil {
			m.state = StateFailed
			return m, nil
		}
		m.replaced = msg.replaced
		m.state = StateApplied
		if msg.replaced {
			m.config.CurrentLine = m.candidate.Fragment
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}

	return m, nil
}

// updateKeys handles key presses
func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit

	case "r":
		if m.state == StateLoading || m.state == StateApplying {
			return m, nil
		}
		m.state = StateLoading
		m.err = nil
		return m, m.fetch()

	case "a":
		if m.state != StateReady {
			return m, nil
		}
		m.state = StateApplying
		return m, m.apply()
	}

	return m, nil
}

// View implements tea.Model
func (m Model) View() string {
	width := m.width - 2
	if width <= 0 {
		width = defaultWidth
	}

	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("Rotation Preview - %s", m.config.FeedName)))
	b.WriteString("\n\n")

	b.WriteString(formatField("Document", m.config.Document, width))
	b.WriteString(formatField("Marker", fmt.Sprintf("%s (%s)", m.config.Marker, FormatLineNumber(m.config.LineNumber)), width))
	b.WriteString(formatField("Current", m.config.CurrentLine, width))
	b.WriteString("\n")

	switch m.state {
	case StateLoading:
		b.WriteString("Fetching a new image...\n")
	case StateReady, StateApplying:
		b.WriteString(formatField("Candidate", m.candidate.Link, width))
		b.WriteString(formatField("Fragment", m.candidate.Fragment, width))
		if m.state == StateApplying {
			b.WriteString("Applying...\n")
		}
	case StateApplied:
		b.WriteString(formatField("Fragment", m.candidate.Fragment, width))
		if m.replaced {
			b.WriteString(successStyle.Render("Document updated"))
		} else {
			b.WriteString(errorStyle.Render("Marker not found, document left unchanged"))
		}
		b.WriteString("\n")
	case StateFailed:
		b.WriteString(errorStyle.Render(wrapText("Error: "+m.err.Error(), width)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(footerStyle.Render("r: fetch another • a: apply to document • q: quit"))

	return b.String()
}

// Run starts the Bubble Tea program
func Run(ctx context.Context, config Config) error {
	if config.Fetch == nil || config.Apply == nil {
		return fmt.Errorf("preview requires fetch and apply functions")
	}

	p := tea.NewProgram(NewModel(ctx, config), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
