package jobs

import "sync/atomic"

// cancelFlag is a cooperative cancellation signal: Cancel sets it, and
// the planner's progress callback reads it at the next stage boundary
// and returns cancel=true rather than the orchestrator reaching into
// the solver's call stack (spec §5 "no control-flow unwinding").
type cancelFlag struct {
	v atomic.Bool
}

func (f *cancelFlag) set()        { f.v.Store(true) }
func (f *cancelFlag) isSet() bool { return f.v.Load() }

// progressRecorder adapts a cancelFlag plus a reporter callback into a
// planner.ProgressFunc.
type progressRecorder struct {
	flag   *cancelFlag
	report func(fraction float64, phase string)
}

func (p *progressRecorder) Func() func(fraction float64, phase string) bool {
	return func(fraction float64, phase string) bool {
		if p.report != nil {
			p.report(fraction, phase)
		}
		return p.flag.isSet()
	}
}
