// Package variables owns the sparse decision-variable registry
// (spec §4.1, component A) and the coarse day-window precomputation
// that keeps the model sub-linear in T × |events| × |workers|.
package variables

import "github.com/openfroyo/farmplan/pkg/domain"

// Window is an inclusive day range [Lo, Hi] within [1, horizon].
// An empty window (Lo > Hi) means the event/crop never applies.
type Window struct {
	Lo, Hi int
}

// Empty reports whether the window contains no valid day.
func (w Window) Empty() bool { return w.Lo > w.Hi }

// Contains reports whether day t falls in the window.
func (w Window) Contains(t int) bool { return !w.Empty() && t >= w.Lo && t <= w.Hi }

// Days materializes the window into a concrete day slice.
func (w Window) Days() []int {
	if w.Empty() {
		return nil
	}
	out := make([]int, 0, w.Hi-w.Lo+1)
	for t := w.Lo; t <= w.Hi; t++ {
		out = append(out, t)
	}
	return out
}

// EventWindow computes W(e) = [min(start_cond), max(end_cond)] ∩
// [1,T] (spec §4.1). An event with no explicit start/end set is
// treated as active on every day.
func EventWindow(e domain.Event, horizon int) Window {
	lo, hi := 1, horizon
	if len(e.StartDays) > 0 {
		lo = minInt(e.StartDays)
	}
	if len(e.EndDays) > 0 {
		hi = maxInt(e.EndDays)
	}
	if lo < 1 {
		lo = 1
	}
	if hi > horizon {
		hi = horizon
	}
	if lo > hi {
		return Window{Lo: 1, Hi: 0}
	}
	return Window{Lo: lo, Hi: hi}
}

// CropOccupancySpan computes OCC(c) = [min over uses_land events of
// W.lo, max over uses_land events of W.hi]; empty if c has no
// land-using events (spec §4.1).
func CropOccupancySpan(cropID string, events []domain.Event, horizon int) Window {
	span := Window{Lo: 1, Hi: 0}
	first := true
	for _, e := range events {
		if e.CropID != cropID || !e.UsesLand {
			continue
		}
		w := EventWindow(e, horizon)
		if w.Empty() {
			continue
		}
		if first {
			span = w
			first = false
			continue
		}
		if w.Lo < span.Lo {
			span.Lo = w.Lo
		}
		if w.Hi > span.Hi {
			span.Hi = w.Hi
		}
	}
	if first {
		return Window{Lo: 1, Hi: 0}
	}
	return span
}

func minInt(xs []int) int {
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

func maxInt(xs []int) int {
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}
