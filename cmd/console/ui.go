package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Al1374525/Cyber-Security-Awareness-App/internal/handlers"
	"github.com/Al1374525/Cyber-Security-Awareness-App/pkg/state"
)

const Title = "HELP DESK SIMULATOR"

// writeClipboard is swapped out in tests.
var writeClipboard = clipboard.WriteAll

var titleCaser = cases.Title(language.English)

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	backend  Backend
	timeout  time.Duration
	viewport viewport.Model
	spinner  spinner.Model
	ready    bool
	width    int
	height   int

	session   handlers.SessionResponse
	started   bool
	outcome   *state.Outcome
	selected  int
	storeSize int

	busy      bool
	busyLabel string
	err       error
	status    string
}

type sessionMsg struct {
	resp handlers.SessionResponse
	err  error
}

type choiceMsg struct {
	resp handlers.ChoiceResponse
	err  error
}

type countMsg struct {
	count int
	err   error
}

type copiedMsg struct {
	err error
}

var (
	mainPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("205")).
			Bold(true)

	correctStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")). // green
			Bold(true)

	wrongStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")). // red
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

func NewConsoleUI(backend Backend, timeout time.Duration) ConsoleUI {
	vp := viewport.New(50, 20)
	vp.MouseWheelEnabled = true
	// j/k and arrows move the choice cursor, so the viewport only pages
	vp.KeyMap = viewport.KeyMap{
		PageDown: key.NewBinding(key.WithKeys("pgdown")),
		PageUp:   key.NewBinding(key.WithKeys("pgup")),
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = loadingStyle

	return ConsoleUI{
		backend:   backend,
		timeout:   timeout,
		viewport:  vp,
		spinner:   sp,
		busy:      true,
		busyLabel: "Starting session",
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.start(), m.countScenarios())
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		mainWidth, _ := m.panelWidths()
		m.viewport.Width = mainWidth - 2
		m.viewport.Height = m.height - 5
		m.ready = true
		m.refresh()
		return m, nil

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.busy {
			m.refresh()
		}
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)

	case sessionMsg:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.session = msg.resp
			m.started = true
			m.outcome = nil
			m.selected = 0
			m.err = nil
		}
		m.refresh()
		return m, m.countScenarios()

	case choiceMsg:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			out := msg.resp.Outcome
			m.outcome = &out
			m.session = msg.resp.Session
			m.selected = 0
			m.err = nil
		}
		m.refresh()
		return m, nil

	case countMsg:
		if msg.err == nil {
			m.storeSize = msg.count
		}
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.status = "Copy failed: " + msg.err.Error()
		} else {
			m.status = "Copied to clipboard"
		}
		m.refresh()
		return m, nil
	}

	return m, nil
}

func (m ConsoleUI) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if m.busy {
		return m, nil
	}
	m.status = ""

	switch msg.String() {
	case "up", "k":
		if m.choosing() && m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.choosing() && m.selected < len(m.session.Scenario.Choices)-1 {
			m.selected++
		}
	case "enter":
		switch {
		case m.outcome != nil:
			m.outcome = nil
		case m.choosing():
			return m.begin("Checking your answer", m.choose(m.session.Scenario.Choices[m.selected]))
		case m.session.State.Terminal || !m.started:
			return m.begin("Restarting", m.restart())
		}
	case "r":
		return m.begin("Restarting", m.restart())
	case "g":
		if !m.session.GenerationEnabled {
			m.status = "Scenario generation is disabled"
			break
		}
		if !m.started {
			break
		}
		return m.begin("Generating a new scenario", m.generate())
	case "y":
		if text := m.clipboardText(); text != "" {
			return m, m.copy(text)
		}
	}

	m.refresh()
	return m, nil
}

func (m ConsoleUI) begin(label string, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	m.busy = true
	m.busyLabel = label
	m.refresh()
	return m, cmd
}

// choosing reports whether a scenario is waiting for an answer.
func (m ConsoleUI) choosing() bool {
	return m.outcome == nil && m.session.Scenario != nil && len(m.session.Scenario.Choices) > 0
}

func (m ConsoleUI) callContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), m.timeout)
}

func (m ConsoleUI) start() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.callContext()
		defer cancel()
		resp, err := m.backend.Start(ctx)
		return sessionMsg{resp, err}
	}
}

func (m ConsoleUI) choose(text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.callContext()
		defer cancel()
		resp, err := m.backend.Choose(ctx, text)
		return choiceMsg{resp, err}
	}
}

func (m ConsoleUI) restart() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.callContext()
		defer cancel()
		resp, err := m.backend.Restart(ctx)
		return sessionMsg{resp, err}
	}
}

func (m ConsoleUI) generate() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.callContext()
		defer cancel()
		resp, err := m.backend.Generate(ctx)
		return sessionMsg{resp, err}
	}
}

func (m ConsoleUI) countScenarios() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.callContext()
		defer cancel()
		n, err := m.backend.ScenarioCount(ctx)
		return countMsg{n, err}
	}
}

func (m ConsoleUI) copy(text string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{writeClipboard(text)}
	}
}

// clipboardText is the feedback after an answer, otherwise the scenario.
func (m ConsoleUI) clipboardText() string {
	if m.outcome != nil {
		verdict := "Wrong"
		if m.outcome.IsCorrect {
			verdict = "Correct!"
		}
		return fmt.Sprintf("%s\n%s\n%s", m.outcome.ChosenText, verdict, m.outcome.Feedback)
	}
	if m.session.Scenario == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.session.Scenario.Description)
	for i, c := range m.session.Scenario.Choices {
		fmt.Fprintf(&b, "\n%d. %s", i+1, c)
	}
	return b.String()
}

func (m ConsoleUI) panelWidths() (int, int) {
	mainWidth := int(float64(m.width)*0.75) - 4
	return mainWidth, m.width - mainWidth - 6
}

func (m *ConsoleUI) refresh() {
	m.viewport.SetContent(m.writeContent(m.viewport.Width - 6))
}

// writeContent renders the main panel at the given text width.
func (m ConsoleUI) writeContent(width int) string {
	if width < 20 {
		width = 20
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(Title) + "\n\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", width)) + "\n\n")

	switch {
	case m.outcome != nil:
		b.WriteString("You chose: " + wordwrap.String(m.outcome.ChosenText, width-11) + "\n\n")
		if m.outcome.IsCorrect {
			b.WriteString(correctStyle.Render("Correct!") + "\n")
		} else {
			b.WriteString(wrongStyle.Render("Wrong") + "\n")
		}
		b.WriteString(wordwrap.String(m.outcome.Feedback, width) + "\n\n")
		b.WriteString(promptStyle.Render("Press Enter to continue") + "\n")

	case m.session.State.Terminal:
		b.WriteString(wordwrap.String(handlers.EndMessage, width) + "\n\n")
		b.WriteString(promptStyle.Render("Press Enter or r to restart") + "\n")

	case m.session.Scenario != nil:
		b.WriteString(wordwrap.String(m.session.Scenario.Description, width) + "\n\n")
		for i, c := range m.session.Scenario.Choices {
			line := wordwrap.String(c, width-2)
			if i == m.selected {
				b.WriteString(selectedStyle.Render("▶ "+line) + "\n")
			} else {
				b.WriteString("  " + line + "\n")
			}
		}
		b.WriteString("\n" + promptStyle.Render("Use ↑/↓ to navigate, Enter to answer") + "\n")

	case m.started:
		msg := fmt.Sprintf("Scenario %q could not be found.", m.session.State.ActiveScenarioID)
		b.WriteString(errorStyle.Render(wordwrap.String(msg, width)) + "\n\n")
		b.WriteString(promptStyle.Render("Press r to restart") + "\n")
	}

	if m.err != nil {
		b.WriteString("\n" + m.renderError(width))
	}
	if m.busy {
		b.WriteString("\n" + m.spinner.View() + " " + loadingStyle.Render(m.busyLabel+"...") + "\n")
	}
	if m.status != "" {
		b.WriteString("\n" + promptStyle.Render(m.status) + "\n")
	}
	return b.String()
}

func (m ConsoleUI) renderError(width int) string {
	kind := errorTitle(m.err)
	text := errorStyle.Render(kind+": ") + wordwrap.String(m.err.Error(), width-len(kind)-2) + "\n"
	if restartAvailable(m.err) {
		text += promptStyle.Render("Press r to restart") + "\n"
	}
	return text
}

// errorTitle turns an error kind such as "generation_error" into
// "Generation Error".
func errorTitle(err error) string {
	return titleCaser.String(strings.ReplaceAll(string(errorKind(err)), "_", " "))
}

func (m ConsoleUI) writeMetadata() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("SESSION") + "\n\n")

	if m.started {
		b.WriteString("Session ID:\n")
		b.WriteString(m.session.ID.String()[:8] + "...\n\n")
		b.WriteString("Scenario:\n")
		if m.session.State.Terminal {
			b.WriteString("finished\n\n")
		} else {
			b.WriteString(m.session.State.ActiveScenarioID + "\n\n")
		}
		b.WriteString("Score:\n")
		fmt.Fprintf(&b, "%d of %d correct\n\n", m.session.Score.Correct, m.session.Score.Answered)
		b.WriteString("Restarts:\n")
		fmt.Fprintf(&b, "%d\n\n", m.session.Restarts)
	}
	if m.storeSize > 0 {
		b.WriteString("Scenarios loaded:\n")
		fmt.Fprintf(&b, "%d\n\n", m.storeSize)
	}

	b.WriteString("Commands:\n")
	b.WriteString("• ↑/↓ j/k: Select\n")
	b.WriteString("• Enter: Answer\n")
	if m.session.GenerationEnabled {
		b.WriteString("• g: Generate\n")
	}
	b.WriteString("• r: Restart\n")
	b.WriteString("• y: Copy\n")
	b.WriteString("• q: Quit\n")
	return b.String()
}

func (m ConsoleUI) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	mainWidth, metaWidth := m.panelWidths()

	mainPanel := mainPanelStyle.Width(mainWidth).Height(m.height - 3).Render(m.viewport.View())
	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(m.writeMetadata())

	return lipgloss.JoinHorizontal(lipgloss.Top, mainPanel, metaPanel)
}
