package export

import (
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/mtratsiuk/tg-charts/internal/chart"
	"github.com/mtratsiuk/tg-charts/internal/dataset"
)

// maxSettleFrames bounds how many frames an offscreen render may take to
// finish its animations.
const maxSettleFrames = 1024

// offscreenHost runs the controller without a screen. Frame callbacks are
// queued and fired against a simulated clock.
type offscreenHost struct {
	width, height float64
	frame         chart.Frame
	listeners     map[chart.EventKind][]func(chart.Event)
	pending       []func(time.Time)
}

func (h *offscreenHost) Bounds() (float64, float64) { return h.width, h.height }

func (h *offscreenHost) Replace(frame chart.Frame) { h.frame = frame }

func (h *offscreenHost) Listen(kind chart.EventKind, handler func(chart.Event)) {
	h.listeners[kind] = append(h.listeners[kind], handler)
}

func (h *offscreenHost) RequestFrame(fn func(time.Time)) {
	h.pending = append(h.pending, fn)
}

func (h *offscreenHost) click(target string) {
	for _, handler := range h.listeners[chart.EventClick] {
		handler(chart.Event{Kind: chart.EventClick, TargetID: target})
	}
}

// settle fires queued frames, stepping the clock by step, until nothing is
// scheduled.
func (h *offscreenHost) settle(clock time.Time, step time.Duration) (time.Time, error) {
	for frames := 0; len(h.pending) > 0; frames++ {
		if frames >= maxSettleFrames {
			return clock, fmt.Errorf("animation did not finish within %d frames", maxSettleFrames)
		}
		queued := h.pending
		h.pending = nil
		for _, fn := range queued {
			fn(clock)
		}
		clock = clock.Add(step)
	}
	return clock, nil
}

// RenderFrame builds the chart for ds inside a width x height container,
// clicks the toggle of every distinct id in hide and returns the frame once
// all rescale animations have finished.
func RenderFrame(ds dataset.Dataset, width, height float64, hide []string, opts chart.Options) (chart.Frame, error) {
	hide = lo.Uniq(hide)
	for _, id := range hide {
		if _, ok := ds.Column(id); !ok || id == dataset.TimelineID {
			return chart.Frame{}, fmt.Errorf("unknown series %q", id)
		}
	}

	host := &offscreenHost{
		width:     width,
		height:    height,
		listeners: map[chart.EventKind][]func(chart.Event){},
	}
	if _, err := chart.Init(host, host, ds, opts); err != nil {
		return chart.Frame{}, err
	}

	step := opts.AnimationDuration
	if step <= 0 {
		step = chart.DefaultAnimationDuration
	}
	clock := time.Unix(0, 0)
	for _, id := range hide {
		host.click(chart.ButtonID(id))
		var err error
		if clock, err = host.settle(clock, step); err != nil {
			return chart.Frame{}, err
		}
	}
	return host.frame, nil
}
