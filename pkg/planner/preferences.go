package planner

import (
	"go.starlark.net/starlark"
)

// ApplyPreferenceScript runs an optional Starlark snippet that may
// adjust each stage's tolerance before the run starts (SPEC_FULL.md
// §11 "preferences"). The script sees a `stages` list of stage names
// in order and is expected to set a global `tolerances` dict mapping
// stage name to a float in [0,1]; any stage it does not mention keeps
// its existing tolerance. A script error degrades to the unmodified
// stage list rather than failing the run — preferences are advisory.
func ApplyPreferenceScript(script string, stages []Stage) []Stage {
	if script == "" {
		return stages
	}

	names := make([]starlark.Value, len(stages))
	for i, s := range stages {
		names[i] = starlark.String(s.Name)
	}

	thread := &starlark.Thread{
		Name:  "farmplan-preferences",
		Print: func(_ *starlark.Thread, _ string) {},
	}
	predeclared := starlark.StringDict{
		"stages": starlark.NewList(names),
	}

	globals, err := starlark.ExecFile(thread, "preferences.star", script, predeclared)
	if err != nil {
		return stages
	}

	tolerances, ok := globals["tolerances"].(*starlark.Dict)
	if !ok {
		return stages
	}

	out := make([]Stage, len(stages))
	copy(out, stages)
	for i, s := range out {
		val, found, err := tolerances.Get(starlark.String(s.Name))
		if err != nil || !found {
			continue
		}
		f, ok := starlark.AsFloat(val)
		if !ok {
			continue
		}
		if f < 0 {
			f = 0
		}
		if f > 1 {
			f = 1
		}
		out[i].Tolerance = f
	}
	return out
}
