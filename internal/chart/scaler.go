package chart

import "math"

// Scaler is a linear map from a domain [InMin, InMax] onto [OutMin, OutMax].
// Both endpoints map exactly. When Floor is set, outputs below FloorValue are
// clamped to it.
type Scaler struct {
	InMin, InMax   float64
	OutMin, OutMax float64

	Floor      bool
	FloorValue float64
}

// NewScaler builds the two-point linear scaler for domain -> rng.
func NewScaler(domain, rng Range) Scaler {
	return Scaler{InMin: domain.Min, InMax: domain.Max, OutMin: rng.Min, OutMax: rng.Max}
}

// WithFloor returns a copy of s that clamps outputs below floor.
func (s Scaler) WithFloor(floor float64) Scaler {
	s.Floor = true
	s.FloorValue = floor
	return s
}

// Degenerate reports whether the domain cannot be mapped linearly: zero-width,
// unbounded (which covers EmptyRange) or NaN. A degenerate scaler maps
// everything to OutMin.
func (s Scaler) Degenerate() bool {
	return s.InMin == s.InMax ||
		math.IsInf(s.InMin, 0) || math.IsInf(s.InMax, 0) ||
		math.IsNaN(s.InMin) || math.IsNaN(s.InMax)
}

func (s Scaler) Scale(x float64) float64 {
	var out float64
	switch {
	case s.Degenerate():
		out = s.OutMin
	case x == s.InMin:
		out = s.OutMin
	case x == s.InMax:
		out = s.OutMax
	default:
		out = s.OutMin + (x-s.InMin)*(s.OutMax-s.OutMin)/(s.InMax-s.InMin)
	}
	if s.Floor && out < s.FloorValue {
		return s.FloorValue
	}
	return out
}

// Lerp interpolates component-wise from a to b by t. t <= 0 yields a and
// t >= 1 yields b exactly.
func (a Range) Lerp(b Range, t float64) Range {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	return Range{
		Min: a.Min + (b.Min-a.Min)*t,
		Max: a.Max + (b.Max-a.Max)*t,
	}
}
