package chart

import (
	"fmt"
	"time"

	"github.com/mtratsiuk/tg-charts/internal/dataset"
	"github.com/mtratsiuk/tg-charts/internal/logger"
)

// Host is the container the controller renders into. Bounds is read once at
// Init. Replace swaps the whole rendered content. Listen installs a single
// delegated handler for every event of kind raised inside the container.
type Host interface {
	Bounds() (width, height float64)
	Replace(frame Frame)
	Listen(kind EventKind, handler func(Event))
}

type Options struct {
	AnimationDuration time.Duration
	Easing            Easing
}

// Controller owns the session State and is the only code that writes it.
// Patch calls are expected to be serialized by the host event loop.
type Controller struct {
	host   Host
	frames FrameScheduler

	selectors *Selectors
	reducer   *Reducer

	state State
	frame Frame

	subs      map[EventKind]map[string]Subscription
	listening map[EventKind]bool
	patching  bool
}

// Init builds the initial state from ds, renders it into host and wires one
// delegated listener per event kind the view subscribes to.
func Init(host Host, frames FrameScheduler, ds dataset.Dataset, opts Options) (*Controller, error) {
	width, height := host.Bounds()
	st, err := BuildState(ds, MeasureViewport(width, height))
	if err != nil {
		return nil, fmt.Errorf("init chart: %w", err)
	}

	selectors := NewSelectors(opts.Easing)
	c := &Controller{
		host:      host,
		frames:    frames,
		selectors: selectors,
		reducer:   NewReducer(selectors, opts.AnimationDuration),
		state:     st,
		listening: map[EventKind]bool{},
	}
	c.render()
	logger.Info("chart initialized: %d series, %d points, viewport %.0fx%.0f",
		st.Charts.Len(), st.Timeline.Len(), st.Viewport.Width, st.Viewport.ChartsHeight)
	return c, nil
}

// State returns the current state snapshot.
func (c *Controller) State() State {
	return c.state
}

// Frame returns the most recently rendered frame.
func (c *Controller) Frame() Frame {
	return c.frame
}

// Patch applies msg: reduce, merge, re-render, then run the effect with Patch
// as its dispatcher.
func (c *Controller) Patch(msg Msg) {
	if c.patching {
		panic("chart: re-entrant patch; effects must not dispatch synchronously")
	}
	c.patching = true
	defer func() { c.patching = false }()

	update, effect := c.reducer.Reduce(c.state, msg)
	c.state = c.state.Merge(update)
	c.render()
	if logger.Enabled(logger.DebugLevel) {
		logger.Debug("patch %T: visible=%d animating=%t", msg, c.state.VisibleIDs.Len(), c.state.Animating())
	}

	if effect != nil {
		effect(c.frames, c.Patch)
	}
}

func (c *Controller) handle(ev Event) {
	sub, ok := c.subs[ev.Kind][ev.TargetID]
	if !ok {
		return
	}
	c.Patch(sub.Msg)
}

func (c *Controller) render() {
	frame, subs := View(c.selectors, c.state)

	table := make(map[EventKind]map[string]Subscription, len(c.subs))
	kinds := make([]EventKind, 0, 1)
	for _, sub := range subs {
		byID, ok := table[sub.Kind]
		if !ok {
			byID = map[string]Subscription{}
			table[sub.Kind] = byID
			kinds = append(kinds, sub.Kind)
		}
		byID[sub.ElementID] = sub
	}

	c.frame = frame
	c.subs = table
	c.host.Replace(frame)

	for _, kind := range kinds {
		if c.listening[kind] {
			continue
		}
		c.listening[kind] = true
		c.host.Listen(kind, c.handle)
	}
}
