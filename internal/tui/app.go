package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/custseg/internal/clipboard"
	"github.com/f3rmion/custseg/internal/record"
	"github.com/f3rmion/custseg/internal/segment"
	"github.com/f3rmion/custseg/internal/tui/banner"
	"github.com/google/uuid"
)

const (
	appTitle       = "🎯 Customer Segmentation Dashboard"
	sidebarTitle   = "📋 Enter Customer Information"
	reviewTitle    = "Review Entered Customer Information"
	predictLabel   = "🔎 Predict Customer Segment"
	successPrefix  = "The predicted customer segment is: "
	failureMessage = "Sorry, something went wrong during the prediction."
)

// focusButton is the focus index of the predict button, after the last control.
const focusButton = record.NumFields

// State is the form's prediction state.
type State int

const (
	StateIdle      State = iota // Controls editable, no current prediction
	StatePredicted              // A label or error is shown for the current inputs
)

// result is the outcome of the last predict action.
type result struct {
	label segment.Label
	err   error
}

type clearStatusMsg struct{}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// AppModel is the segment predictor form.
type AppModel struct {
	predictor segment.Predictor
	modelPath string
	logger    *slog.Logger
	sessionID string

	form    record.Form
	focus   int
	editing bool
	input   textinput.Model

	state      State
	last       *result
	showReview bool
	showHelp   bool
	status     string

	keys keyMap
	help help.Model

	width        int
	height       int
	sidebarWidth int
	ready        bool
}

// NewApp creates the form around a loaded model. form carries the initial
// control values; logger may be nil.
func NewApp(p segment.Predictor, form record.Form, modelPath string, logger *slog.Logger) AppModel {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	ti := textinput.New()
	ti.Prompt = "› "
	ti.CharLimit = 7
	ti.Width = 10
	ti.PromptStyle = lipgloss.NewStyle().Foreground(ColorSecondary)
	ti.TextStyle = lipgloss.NewStyle().Foreground(ColorAccent)

	sessionID := uuid.NewString()

	return AppModel{
		predictor:    p,
		modelPath:    modelPath,
		logger:       logger.With("session", sessionID),
		sessionID:    sessionID,
		form:         form,
		input:        ti,
		keys:         defaultKeyMap(),
		help:         help.New(),
		sidebarWidth: 44,
	}
}

// Init initializes the model.
func (m AppModel) Init() tea.Cmd {
	m.logger.Info("session started", "model", m.modelPath)
	return nil
}

// Form returns the current control values.
func (m AppModel) Form() record.Form {
	return m.form
}

// State returns the current prediction state.
func (m AppModel) State() State {
	return m.state
}

// Update handles messages.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width - m.sidebarWidth - 8
		m.ready = true
		return m, nil

	case clearStatusMsg:
		m.status = ""
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m AppModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.logger.Info("session ended")
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case key.Matches(msg, m.keys.Up):
		if m.focus > 0 {
			m.focus--
		}
	case key.Matches(msg, m.keys.Down):
		if m.focus < focusButton {
			m.focus++
		}
	case key.Matches(msg, m.keys.Left):
		m.step(-1)
	case key.Matches(msg, m.keys.Right):
		m.step(1)
	case key.Matches(msg, m.keys.PageDown):
		m.step(-10)
	case key.Matches(msg, m.keys.PageUp):
		m.step(10)
	case key.Matches(msg, m.keys.Min):
		m.setBound(false)
	case key.Matches(msg, m.keys.Max):
		m.setBound(true)
	case key.Matches(msg, m.keys.Review):
		m.showReview = !m.showReview
	case key.Matches(msg, m.keys.Reset):
		m.form.Reset()
		m.changed()
	case key.Matches(msg, m.keys.Predict):
		m.predict()
	case key.Matches(msg, m.keys.Copy):
		return m.copyToClipboard()
	case key.Matches(msg, m.keys.Enter):
		return m.press()
	}
	return m, nil
}

// press activates the focused element.
func (m AppModel) press() (tea.Model, tea.Cmd) {
	if m.focus == focusButton {
		m.predict()
		return m, nil
	}

	fd := record.FieldAt(m.focus)
	switch fd.Control {
	case record.ControlNumber:
		m.editing = true
		m.input.SetValue(m.form.Text(m.focus))
		m.input.CursorEnd()
		return m, m.input.Focus()
	case record.ControlSelect:
		m.step(1)
	}
	return m, nil
}

func (m AppModel) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.editing = false
		m.input.Blur()
		fd := record.FieldAt(m.focus)
		before := m.form.Raw(m.focus)
		if err := m.form.SetText(fd.Name, m.input.Value()); err != nil {
			m.status = err.Error()
			return m, clearStatusAfter(3 * time.Second)
		}
		if m.form.Raw(m.focus) != before {
			m.changed()
		}
		return m, nil
	case "esc":
		m.editing = false
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// step moves the focused control by n steps.
func (m *AppModel) step(n int) {
	if m.focus == focusButton {
		return
	}
	before := m.form.Raw(m.focus)
	m.form.Step(m.focus, n)
	if m.form.Raw(m.focus) != before {
		m.changed()
	}
}

// setBound moves the focused control to its minimum or maximum.
func (m *AppModel) setBound(upper bool) {
	if m.focus == focusButton {
		return
	}
	fd := record.FieldAt(m.focus)
	v := fd.Lower()
	if upper {
		v = fd.Upper()
	}
	before := m.form.Raw(m.focus)
	m.form.Set(m.focus, v)
	if m.form.Raw(m.focus) != before {
		m.changed()
	}
}

// changed returns the form to Idle after any control change. The previous
// result stays on screen but is no longer current.
func (m *AppModel) changed() {
	m.state = StateIdle
	m.logger.Debug("control changed", "field", record.FieldAt(min(m.focus, record.NumFields-1)).Name)
}

// predict runs the model on the current record.
func (m *AppModel) predict() {
	rec := m.form.Record()
	label, err := segment.Predict(m.predictor, rec)
	m.last = &result{label: label, err: err}
	m.state = StatePredicted

	if err != nil {
		m.logger.Warn("prediction failed", "error", err)
		return
	}
	m.logger.Info("prediction", "segment", label.String())
}

// current reports whether the shown result belongs to the current inputs.
func (m AppModel) current() bool {
	return m.state == StatePredicted && m.last != nil
}

func (m AppModel) copyToClipboard() (tea.Model, tea.Cmd) {
	text := ReviewTable(m.form.Record())
	if m.current() && m.last.err == nil {
		text += "\n\n" + successPrefix + m.last.label.String()
	}

	if err := clipboard.Write(text); err != nil {
		m.status = "Copy failed: " + err.Error()
	} else {
		m.status = "Copied to clipboard"
	}
	return m, clearStatusAfter(2 * time.Second)
}

// View renders the UI.
func (m AppModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	sidebar := m.renderSidebar()

	contentWidth := m.width - m.sidebarWidth - 4
	mainContent := ContentStyle.
		Width(contentWidth).
		Render(m.renderMain())

	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, mainContent)
}

// renderSidebar renders the ordered list of input controls.
func (m AppModel) renderSidebar() string {
	var items []string
	items = append(items, SidebarTitleStyle.Render(sidebarTitle))

	// Each control takes two lines; keep the focused one in view.
	perPage := (m.height - 8) / 2
	if perPage < 3 {
		perPage = 3
	}
	if perPage > record.NumFields {
		perPage = record.NumFields
	}
	start := min(m.focus, record.NumFields-1) - perPage/2
	if start < 0 {
		start = 0
	}
	if start > record.NumFields-perPage {
		start = record.NumFields - perPage
	}

	if start > 0 {
		items = append(items, ScrollHintStyle.Render(fmt.Sprintf("↑ %d more", start)))
	}
	for i := start; i < start+perPage; i++ {
		items = append(items, m.renderControl(i)...)
	}
	if rest := record.NumFields - start - perPage; rest > 0 {
		items = append(items, ScrollHintStyle.Render(fmt.Sprintf("↓ %d more", rest)))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, items...)

	return SidebarStyle.
		Width(m.sidebarWidth).
		Height(m.height - 2).
		Render(content)
}

func (m AppModel) renderControl(i int) []string {
	fd := record.FieldAt(i)
	focused := i == m.focus

	labelStyle, valueStyle := ControlLabelStyle, ControlValueStyle
	if focused {
		labelStyle, valueStyle = ControlLabelFocusStyle, ControlValueFocusStyle
	}

	var value string
	switch {
	case focused && m.editing:
		value = m.input.View()
	case fd.Control == record.ControlSelect:
		value = "‹ " + m.form.Text(i) + " ›"
	default:
		value = sliderBar(fd, m.form.Raw(i), 16) + " " + m.form.Text(i)
	}

	return []string{labelStyle.Render(fd.Label), valueStyle.Render(value)}
}

// sliderBar draws a track of width cells with a knob at v's position.
func sliderBar(fd record.Field, v, width int) string {
	span := fd.Max - fd.Min
	pos := 0
	if span > 0 {
		pos = (v - fd.Min) * (width - 1) / span
	}
	return strings.Repeat("━", pos) + "●" + strings.Repeat("─", width-1-pos)
}

// renderMain renders the title, review panel, predict button and result.
func (m AppModel) renderMain() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render(appTitle))
	b.WriteString("\n\n")
	b.WriteString(SubtitleStyle.Render("Use the sidebar to enter customer details; the model predicts the customer segment they belong to."))
	b.WriteString("\n\n")

	// Review panel
	if m.showReview {
		b.WriteString(ExpanderStyle.Render("▾ 🔍 " + reviewTitle))
		b.WriteString("\n")
		b.WriteString(ReviewBoxStyle.Render(ReviewTable(m.form.Record())))
	} else {
		b.WriteString(ExpanderStyle.Render("▸ 🔍 " + reviewTitle))
	}
	b.WriteString("\n\n")

	// Predict button
	button := ButtonStyle
	if m.focus == focusButton {
		button = ButtonFocusStyle
	}
	b.WriteString(button.Render(predictLabel))
	b.WriteString("\n\n")

	b.WriteString(m.renderResult())

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(StatusStyle.Render(m.status))
	}

	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

func (m AppModel) renderResult() string {
	if m.last == nil {
		return ""
	}

	var b strings.Builder
	if m.last.err != nil {
		b.WriteString(ErrorStyle.Render("❌ " + failureMessage))
		b.WriteString("\n")
		b.WriteString(ErrorDetailStyle.Render(m.last.err.Error()))
	} else {
		text := m.last.label.String()
		b.WriteString(SuccessStyle.Render("🎉 " + successPrefix + text))
		if art := banner.Render(text, 1); art != "" && len([]rune(text)) <= 6 {
			b.WriteString("\n")
			b.WriteString(BannerStyle.Render(art))
		}
	}

	if !m.current() {
		b.WriteString("\n")
		b.WriteString(StaleStyle.Render("Inputs changed since this prediction; press p to predict again."))
	}
	return b.String()
}

// renderHelp renders the help overlay
func (m AppModel) renderHelp() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorSecondary).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(ColorAccent).
		Width(12)

	descStyle := lipgloss.NewStyle().
		Foreground(ColorText)

	sections := []struct {
		title    string
		bindings []key.Binding
	}{
		{"Navigation", []key.Binding{m.keys.Up, m.keys.Down, m.keys.Enter}},
		{"Controls", []key.Binding{m.keys.Left, m.keys.Right, m.keys.PageUp, m.keys.PageDown, m.keys.Min, m.keys.Max}},
		{"Actions", []key.Binding{m.keys.Predict, m.keys.Review, m.keys.Copy, m.keys.Reset, m.keys.Quit}},
	}

	helpText := titleStyle.Render("Customer Segment Predictor") + "\n"
	for _, s := range sections {
		helpText += sectionStyle.Render(s.title) + "\n"
		for _, kb := range s.bindings {
			h := kb.Help()
			helpText += keyStyle.Render(h.Key) + descStyle.Render(h.Desc) + "\n"
		}
	}
	helpText += "\n" + HelpStyle.Render("Model: "+m.modelPath+"\nSession: "+m.sessionID+"\nPress any key to close")

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorSecondary).
		Padding(1, 2).
		Width(50)

	helpBox := boxStyle.Render(helpText)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, helpBox)
}
