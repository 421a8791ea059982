package chart

import (
	"fmt"
	"time"
)

// DefaultAnimationDuration is how long a value-axis rescale takes.
const DefaultAnimationDuration = 500 * time.Millisecond

// Msg is the closed set of messages Reduce accepts.
type Msg interface {
	isMsg()
}

// ToggleChart flips the visibility of one series.
type ToggleChart struct {
	ID string
}

// AnimationStep advances the transition identified by Token. Start is pinned
// to the first frame of the animation; Time is the current frame.
type AnimationStep struct {
	Start time.Time
	Time  time.Time
	Token uint64
}

func (ToggleChart) isMsg()   {}
func (AnimationStep) isMsg() {}

// Dispatch feeds a message back into the patch cycle.
type Dispatch func(Msg)

// FrameScheduler is the host primitive that runs fn once, at a later frame.
type FrameScheduler interface {
	RequestFrame(fn func(at time.Time))
}

// Effect runs after a patch has been applied. An effect registers exactly one
// frame callback and returns; it never dispatches synchronously.
type Effect func(frames FrameScheduler, dispatch Dispatch)

// onNextFrame builds the effect that dispatches build(t) at the next frame.
func onNextFrame(build func(at time.Time) Msg) Effect {
	return func(frames FrameScheduler, dispatch Dispatch) {
		frames.RequestFrame(func(at time.Time) {
			dispatch(build(at))
		})
	}
}

type Reducer struct {
	selectors *Selectors
	duration  time.Duration
}

func NewReducer(selectors *Selectors, duration time.Duration) *Reducer {
	if duration <= 0 {
		duration = DefaultAnimationDuration
	}
	return &Reducer{selectors: selectors, duration: duration}
}

// Reduce computes the partial state and optional follow-up effect for msg.
// Messages outside the closed set are programming errors and panic.
func (r *Reducer) Reduce(st State, msg Msg) (Update, Effect) {
	switch msg := msg.(type) {
	case ToggleChart:
		return r.toggleChart(st, msg)
	case AnimationStep:
		return r.animationStep(st, msg)
	default:
		panic(fmt.Sprintf("chart: unsupported message %T", msg))
	}
}

func (r *Reducer) toggleChart(st State, msg ToggleChart) (Update, Effect) {
	if !st.Charts.Has(msg.ID) {
		return Update{}, nil
	}

	nextVisible := st.VisibleIDs.Toggle(msg.ID)
	shouldAnimate := nextVisible.Len() != 0 && st.VisibleIDs.Len() != 0

	update := Update{
		VisibleIDs:        nextVisible,
		ReplaceTransition: true,
	}
	if !shouldAnimate {
		return update, nil
	}

	token := st.AnimationSeq + 1
	update.AnimationSeq = token
	update.Transition = &Transition{
		Progress:     0,
		InitialRange: r.selectors.Boundary(st),
		Token:        token,
	}
	return update, onNextFrame(func(at time.Time) Msg {
		return AnimationStep{Start: at, Time: at, Token: token}
	})
}

func (r *Reducer) animationStep(st State, msg AnimationStep) (Update, Effect) {
	current := st.Transition
	if current == nil || current.Token != msg.Token {
		return Update{}, nil
	}

	progress := clampFloat(float64(msg.Time.Sub(msg.Start))/float64(r.duration), 0, 1)
	if progress < current.Progress {
		progress = current.Progress
	}

	next := *current
	next.Progress = progress
	update := Update{Transition: &next, ReplaceTransition: true}
	if progress >= 1 {
		return update, nil
	}

	start, token := msg.Start, msg.Token
	return update, onNextFrame(func(at time.Time) Msg {
		return AnimationStep{Start: start, Time: at, Token: token}
	})
}
