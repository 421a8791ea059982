package app

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mtratsiuk/tg-charts/internal/chart"
	"github.com/mtratsiuk/tg-charts/internal/dataset"
	"github.com/mtratsiuk/tg-charts/internal/logger"
	"github.com/mtratsiuk/tg-charts/internal/storage"
)

var (
	chromeBG        = lipgloss.Color("#05090C")
	panelBorder     = lipgloss.Color("#2D6A80")
	accentPrimary   = lipgloss.Color("#50E3C2")
	accentSecondary = lipgloss.Color("#F6AE2D")
	mutedText       = lipgloss.Color("#8CA1AE")
	warningText     = lipgloss.Color("#FF6B6B")
)

var (
	headerStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Bold(true).
			Foreground(accentPrimary)

	subHeaderStyle = lipgloss.NewStyle().
			Foreground(mutedText)

	statusStyle = lipgloss.NewStyle().
			Foreground(accentSecondary).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(warningText).
			Bold(true)

	panelTitleStyle = lipgloss.NewStyle().
			Foreground(accentPrimary).
			Bold(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(panelBorder).
			Padding(0, 1)

	hiddenButtonStyle = lipgloss.NewStyle().
				Foreground(mutedText)
)

// Screen geometry. The body is padded by contentLeft columns; the chart panel
// adds a border and one column of padding on each side.
const (
	contentLeft   = 1
	panelInsetX   = 2
	headerLines   = 2
	panelTopLines = 2
	minCanvasCols = 10
	buttonGap     = 2
)

var errNoStore = errors.New("snapshot storage is not configured")

type ModelOptions struct {
	DatasetPath       string
	AnimationDuration time.Duration
	Easing            chart.Easing
	FrameInterval     time.Duration
}

type snapshotSavedMsg struct {
	summary storage.Summary
	err     error
}

type keyMap struct {
	Toggle key.Binding
	Save   key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Toggle: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "toggle series"),
		),
		Save: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save snapshot")),
		Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Save},
		{k.Help, k.Quit},
	}
}

// buttonHit is the screen span of one rendered toggle button. endX is
// exclusive.
type buttonHit struct {
	elementID string
	row       int
	startX    int
	endX      int
}

type Model struct {
	store *storage.Store
	ds    dataset.Dataset
	opts  ModelOptions

	host       *terminalHost
	controller *chart.Controller
	canvasCols int
	canvasRows int

	ready  bool
	width  int
	height int

	keys keyMap
	help help.Model

	statusText string
	errorText  string
}

func NewModel(ds dataset.Dataset, store *storage.Store, opts ModelOptions) Model {
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = defaultFrameInterval
	}
	status := "Ready"
	if path := strings.TrimSpace(opts.DatasetPath); path != "" {
		status = "Loaded " + filepath.Base(path)
	}
	return Model{
		store:      store,
		ds:         ds,
		opts:       opts,
		keys:       defaultKeyMap(),
		help:       help.New(),
		statusText: status,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func saveSnapshotCmd(store *storage.Store, frame chart.Frame, datasetPath string) tea.Cmd {
	return func() tea.Msg {
		if store == nil {
			return snapshotSavedMsg{err: errNoStore}
		}
		summary, err := store.Save(frame, datasetPath)
		return snapshotSavedMsg{summary: summary, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = maxInt(0, msg.Width-2*contentLeft)
		if !m.ready {
			m.ready = true
			m.initChart()
		}
		return m, nil

	case frameMsg:
		if m.controller == nil {
			return m, nil
		}
		msg.fire(msg.at)
		return m, m.host.drain()

	case snapshotSavedMsg:
		if msg.err != nil {
			m.errorText = "Snapshot failed: " + msg.err.Error()
			logger.Warn("snapshot failed: %v", msg.err)
			return m, nil
		}
		m.errorText = ""
		m.statusText = "Saved snapshot to " + msg.summary.Directory
		logger.Info("snapshot %s saved to %s", msg.summary.ID, msg.summary.Directory)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Save):
			if m.controller == nil {
				return m, nil
			}
			m.statusText = "Saving snapshot..."
			return m, saveSnapshotCmd(m.store, m.host.frame, m.opts.DatasetPath)
		case key.Matches(msg, m.keys.Toggle):
			n, err := strconv.Atoi(msg.String())
			if err != nil {
				return m, nil
			}
			return m, m.pressButton(n)
		}
		return m, nil

	case tea.MouseMsg:
		if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionPress {
			return m, nil
		}
		return m, m.click(m.hitTest(msg.X, msg.Y))
	}
	return m, nil
}

// initChart measures the screen once and starts the controller. Later
// resizes only move the surrounding chrome.
func (m *Model) initChart() {
	cols := maxInt(minCanvasCols, m.width-2*contentLeft-2*panelInsetX)
	host := newTerminalHost(float64(cols*2), float64(maxInt(1, m.height)*4), m.opts.FrameInterval)

	c, err := chart.Init(host, host, m.ds, chart.Options{
		AnimationDuration: m.opts.AnimationDuration,
		Easing:            m.opts.Easing,
	})
	if err != nil {
		m.errorText = "Cannot draw dataset: " + err.Error()
		logger.Error("init chart: %v", err)
		return
	}

	m.host = host
	m.controller = c
	m.canvasCols = cols
	m.canvasRows = maxInt(1, int(math.Ceil(c.State().Viewport.ChartsHeight/4)))
}

// pressButton clicks the n-th toggle button, counting from 1.
func (m Model) pressButton(n int) tea.Cmd {
	if m.controller == nil {
		return nil
	}
	buttons := m.host.frame.Buttons.Buttons
	if n < 1 || n > len(buttons) {
		return nil
	}
	return m.click(buttons[n-1].ElementID)
}

// click raises a click event on target. An empty target is still delivered;
// the controller ignores ids nothing subscribed to.
func (m Model) click(target string) tea.Cmd {
	if m.controller == nil {
		return nil
	}
	if logger.Enabled(logger.DebugLevel) {
		logger.Debug("click target=%q", target)
	}
	m.host.emit(chart.Event{Kind: chart.EventClick, TargetID: target})
	return m.host.drain()
}

func (m Model) hitTest(x, y int) string {
	for _, hit := range m.buttonHits() {
		if y == hit.row && x >= hit.startX && x < hit.endX {
			return hit.elementID
		}
	}
	return ""
}

func (m Model) buttonsTop() int {
	return headerLines + panelTopLines + m.canvasRows + 1
}

func (m Model) buttonHits() []buttonHit {
	if m.controller == nil {
		return nil
	}
	hits, _ := layoutButtons(m.host.frame.Buttons.Buttons, maxInt(1, m.width-2*contentLeft))
	top := m.buttonsTop()
	for idx := range hits {
		hits[idx].row += top
		hits[idx].startX += contentLeft
		hits[idx].endX += contentLeft
	}
	return hits
}

// layoutButtons flows button labels into lines no wider than width and
// returns the span of each label relative to the button area.
func layoutButtons(buttons []chart.Button, width int) ([]buttonHit, []string) {
	hits := make([]buttonHit, 0, len(buttons))
	var lines []string
	var current []string
	x, row := 0, 0
	for idx, b := range buttons {
		label := buttonLabel(idx, b)
		w := lipgloss.Width(label)
		if x > 0 && x+buttonGap+w > width {
			lines = append(lines, strings.Join(current, strings.Repeat(" ", buttonGap)))
			current = nil
			x = 0
			row++
		}
		if x > 0 {
			x += buttonGap
		}
		hits = append(hits, buttonHit{elementID: b.ElementID, row: row, startX: x, endX: x + w})
		current = append(current, buttonStyle(b).Render(label))
		x += w
	}
	if len(current) > 0 {
		lines = append(lines, strings.Join(current, strings.Repeat(" ", buttonGap)))
	}
	return hits, lines
}

func buttonLabel(idx int, b chart.Button) string {
	mark := "[ ]"
	if b.Checked {
		mark = "[x]"
	}
	if idx < 9 {
		return fmt.Sprintf("%s %d %s", mark, idx+1, b.Label)
	}
	return fmt.Sprintf("%s %s", mark, b.Label)
}

func buttonStyle(b chart.Button) lipgloss.Style {
	if !b.Checked {
		return hiddenButtonStyle
	}
	return seriesStyle(b.Color).Bold(true)
}

func (m Model) View() string {
	if !m.ready {
		return "Booting tg-charts..."
	}

	header := headerStyle.Render("tg-charts") + subHeaderStyle.Render(m.datasetLabel())

	statusLine := statusStyle.Render("* " + m.statusLine())
	if strings.TrimSpace(m.errorText) != "" {
		statusLine = errorStyle.Render(m.errorText)
	}

	parts := []string{header, statusLine}
	if m.controller != nil {
		frame := m.host.frame
		canvas := newBrailleCanvas(m.canvasCols, m.canvasRows)
		canvas.plot(frame.Charts)

		parts = append(parts, renderPanel(
			truncateText(m.panelTitle(), m.canvasCols),
			canvas.render(),
			m.canvasCols+2,
			m.canvasRows+1,
			m.controller.State().Animating(),
		))
		_, buttonLines := layoutButtons(frame.Buttons.Buttons, maxInt(1, m.width-2*contentLeft))
		parts = append(parts, buttonLines...)
	}
	parts = append(parts, m.help.View(m.keys))

	return lipgloss.NewStyle().
		Background(chromeBG).
		Foreground(lipgloss.Color("#E8F0F2")).
		Padding(0, contentLeft).
		Render(strings.Join(parts, "\n"))
}

func (m Model) datasetLabel() string {
	path := strings.TrimSpace(m.opts.DatasetPath)
	if path == "" {
		return ""
	}
	return " " + filepath.Base(path)
}

func (m Model) statusLine() string {
	status := strings.TrimSpace(m.statusText)
	if status == "" {
		status = "Ready"
	}
	return status
}

func (m Model) panelTitle() string {
	st := m.controller.State()
	title := fmt.Sprintf("Charts %d/%d", st.VisibleIDs.Len(), st.Charts.Len())
	if st.Animating() {
		title += fmt.Sprintf(" rescaling %d%%", int(math.Round(st.Transition.Progress*100)))
	}
	return title
}

func renderPanel(title, body string, width, height int, focused bool) string {
	borderColor := panelBorder
	if focused {
		borderColor = accentSecondary
	}
	style := panelStyle.Copy().
		BorderForeground(borderColor).
		Width(width).
		Height(height)

	titleLine := panelTitleStyle.Render(title)
	return style.Render(titleLine + "\n" + body)
}

func truncateText(raw string, maxLen int) string {
	runes := []rune(raw)
	if maxLen <= 0 || len(runes) <= maxLen {
		return raw
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func clampFloat(v, low, high float64) float64 {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}
