package domain

import (
	"reflect"
	"testing"
)

func TestShiftDayIndicesConvertsEveryDayField(t *testing.T) {
	p := &PlanInput{
		Lands:     []Land{{ID: "l1", BlockedDays: []int{0, 4}}},
		Events:    []Event{{ID: "e1", StartDays: []int{0}, EndDays: []int{9}}},
		Workers:   []Worker{{ID: "w1", BlockedDays: []int{2}}},
		Resources: []Resource{{ID: "r1", BlockedDays: []int{5}}},
	}

	p.ShiftDayIndices(1)

	if !reflect.DeepEqual(p.Lands[0].BlockedDays, []int{1, 5}) {
		t.Errorf("Lands[0].BlockedDays = %v, want [1 5]", p.Lands[0].BlockedDays)
	}
	if !reflect.DeepEqual(p.Events[0].StartDays, []int{1}) {
		t.Errorf("Events[0].StartDays = %v, want [1]", p.Events[0].StartDays)
	}
	if !reflect.DeepEqual(p.Events[0].EndDays, []int{10}) {
		t.Errorf("Events[0].EndDays = %v, want [10]", p.Events[0].EndDays)
	}
	if !reflect.DeepEqual(p.Workers[0].BlockedDays, []int{3}) {
		t.Errorf("Workers[0].BlockedDays = %v, want [3]", p.Workers[0].BlockedDays)
	}
	if !reflect.DeepEqual(p.Resources[0].BlockedDays, []int{6}) {
		t.Errorf("Resources[0].BlockedDays = %v, want [6]", p.Resources[0].BlockedDays)
	}
}
