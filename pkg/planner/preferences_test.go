package planner

import "testing"

func TestApplyPreferenceScriptEmptyReturnsStagesUnchanged(t *testing.T) {
	stages := DefaultStages()
	got := ApplyPreferenceScript("", stages)
	if len(got) != len(stages) {
		t.Fatalf("ApplyPreferenceScript(\"\") returned %d stages, want %d", len(got), len(stages))
	}
	for i := range stages {
		if got[i] != stages[i] {
			t.Errorf("ApplyPreferenceScript(\"\")[%d] = %+v, want unchanged %+v", i, got[i], stages[i])
		}
	}
}

func TestApplyPreferenceScriptSetsTolerance(t *testing.T) {
	script := `tolerances = {"profit": 0.1}`
	got := ApplyPreferenceScript(script, DefaultStages())

	if got[0].Name != "profit" || got[0].Tolerance != 0.1 {
		t.Errorf("ApplyPreferenceScript() stage[0] = %+v, want profit tolerance 0.1", got[0])
	}
	if got[1].Tolerance != 0 {
		t.Errorf("ApplyPreferenceScript() should leave unmentioned stages untouched, got %+v", got[1])
	}
}

func TestApplyPreferenceScriptClampsOutOfRangeTolerance(t *testing.T) {
	script := `tolerances = {"profit": 5.0, "dispersion": -2.0}`
	got := ApplyPreferenceScript(script, DefaultStages())

	if got[0].Tolerance != 1 {
		t.Errorf("ApplyPreferenceScript() clamped profit tolerance = %v, want 1", got[0].Tolerance)
	}
	if got[1].Tolerance != 0 {
		t.Errorf("ApplyPreferenceScript() clamped dispersion tolerance = %v, want 0", got[1].Tolerance)
	}
}

func TestApplyPreferenceScriptDegradesOnScriptError(t *testing.T) {
	stages := DefaultStages()
	got := ApplyPreferenceScript("this is not valid starlark (((", stages)

	if len(got) != len(stages) {
		t.Fatalf("ApplyPreferenceScript() with a broken script returned %d stages, want %d", len(got), len(stages))
	}
	for i := range stages {
		if got[i] != stages[i] {
			t.Errorf("ApplyPreferenceScript() with a broken script should fall back to unmodified stages, got %+v want %+v", got[i], stages[i])
		}
	}
}

func TestApplyPreferenceScriptIgnoresMissingTolerancesGlobal(t *testing.T) {
	stages := DefaultStages()
	got := ApplyPreferenceScript(`x = 1`, stages)
	for i := range stages {
		if got[i] != stages[i] {
			t.Errorf("ApplyPreferenceScript() without tolerances global changed stage %d to %+v", i, got[i])
		}
	}
}
