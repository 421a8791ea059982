package chart

import (
	"fmt"
	"math"

	"github.com/charmbracelet/harmonica"
)

// Easing maps transition progress in [0,1] to an interpolation weight in [0,1].
// Easings must be non-decreasing and fix both endpoints.
type Easing func(progress float64) float64

func Linear(progress float64) float64 {
	return clampFloat(progress, 0, 1)
}

const springSamples = 64

// Spring returns an easing that follows a critically damped spring settling
// from 0 to 1. The curve is sampled once, normalized and forced monotone so
// the axis never overshoots its target.
func Spring(angularFrequency float64) Easing {
	spring := harmonica.NewSpring(harmonica.FPS(springSamples), angularFrequency, 1.0)

	curve := make([]float64, springSamples+1)
	pos, vel := 0.0, 0.0
	for idx := 1; idx <= springSamples; idx++ {
		pos, vel = spring.Update(pos, vel, 1.0)
		curve[idx] = math.Max(curve[idx-1], clampFloat(pos, 0, 1))
	}
	last := curve[springSamples]
	if last <= 0 {
		return Linear
	}
	for idx := range curve {
		curve[idx] /= last
	}
	curve[springSamples] = 1

	return func(progress float64) float64 {
		p := clampFloat(progress, 0, 1)
		if p == 1 {
			return 1
		}
		pos := p * springSamples
		low := int(pos)
		frac := pos - float64(low)
		return curve[low] + (curve[low+1]-curve[low])*frac
	}
}

// EasingByName resolves a configured easing name.
func EasingByName(name string) (Easing, error) {
	switch name {
	case "", "linear":
		return Linear, nil
	case "spring":
		return Spring(6.0), nil
	default:
		return nil, fmt.Errorf("unknown easing %q", name)
	}
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
