package chart

// memo2 and memo3 cache the last result of a pure function. Dependencies are
// compared with ==, which is identity for the snapshot pointer types in State.
type memo2[A, B comparable, R any] struct {
	fn     func(A, B) R
	a      A
	b      B
	result R
	primed bool
	runs   int
}

func newMemo2[A, B comparable, R any](fn func(A, B) R) *memo2[A, B, R] {
	return &memo2[A, B, R]{fn: fn}
}

func (m *memo2[A, B, R]) get(a A, b B) R {
	if m.primed && m.a == a && m.b == b {
		return m.result
	}
	m.a, m.b = a, b
	m.result = m.fn(a, b)
	m.primed = true
	m.runs++
	return m.result
}

type memo3[A, B, C comparable, R any] struct {
	fn     func(A, B, C) R
	a      A
	b      B
	c      C
	result R
	primed bool
	runs   int
}

func newMemo3[A, B, C comparable, R any](fn func(A, B, C) R) *memo3[A, B, C, R] {
	return &memo3[A, B, C, R]{fn: fn}
}

func (m *memo3[A, B, C, R]) get(a A, b B, c C) R {
	if m.primed && m.a == a && m.b == b && m.c == c {
		return m.result
	}
	m.a, m.b, m.c = a, b, c
	m.result = m.fn(a, b, c)
	m.primed = true
	m.runs++
	return m.result
}

type memo1[A comparable, R any] struct {
	fn     func(A) R
	a      A
	result R
	primed bool
	runs   int
}

func newMemo1[A comparable, R any](fn func(A) R) *memo1[A, R] {
	return &memo1[A, R]{fn: fn}
}

func (m *memo1[A, R]) get(a A) R {
	if m.primed && m.a == a {
		return m.result
	}
	m.a = a
	m.result = m.fn(a)
	m.primed = true
	m.runs++
	return m.result
}
