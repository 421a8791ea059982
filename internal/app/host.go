package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mtratsiuk/tg-charts/internal/chart"
)

const defaultFrameInterval = 16 * time.Millisecond

// frameMsg carries a scheduled frame callback back into Update so that every
// patch runs on the program's event loop.
type frameMsg struct {
	fire func(at time.Time)
	at   time.Time
}

// terminalHost adapts the Bubble Tea program to the chart controller. It
// keeps the last rendered frame for View and queues frame requests as tick
// commands until Update collects them.
type terminalHost struct {
	width    float64
	height   float64
	interval time.Duration

	frame     chart.Frame
	listeners map[chart.EventKind][]func(chart.Event)
	pending   []tea.Cmd
}

func newTerminalHost(width, height float64, interval time.Duration) *terminalHost {
	if interval <= 0 {
		interval = defaultFrameInterval
	}
	return &terminalHost{
		width:     width,
		height:    height,
		interval:  interval,
		listeners: map[chart.EventKind][]func(chart.Event){},
	}
}

func (h *terminalHost) Bounds() (float64, float64) {
	return h.width, h.height
}

func (h *terminalHost) Replace(frame chart.Frame) {
	h.frame = frame
}

func (h *terminalHost) Listen(kind chart.EventKind, handler func(chart.Event)) {
	h.listeners[kind] = append(h.listeners[kind], handler)
}

func (h *terminalHost) RequestFrame(fn func(at time.Time)) {
	h.pending = append(h.pending, tea.Tick(h.interval, func(at time.Time) tea.Msg {
		return frameMsg{fire: fn, at: at}
	}))
}

func (h *terminalHost) emit(ev chart.Event) {
	for _, handler := range h.listeners[ev.Kind] {
		handler(ev)
	}
}

// drain hands queued frame requests to the runtime.
func (h *terminalHost) drain() tea.Cmd {
	if len(h.pending) == 0 {
		return nil
	}
	cmds := h.pending
	h.pending = nil
	return tea.Batch(cmds...)
}
