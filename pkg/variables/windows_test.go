package variables

import (
	"reflect"
	"testing"

	"github.com/openfroyo/farmplan/pkg/domain"
)

func TestWindowEmptyAndContains(t *testing.T) {
	w := Window{Lo: 5, Hi: 10}
	if w.Empty() {
		t.Fatal("Window{5,10}.Empty() = true, want false")
	}
	if !w.Contains(5) || !w.Contains(10) || w.Contains(4) || w.Contains(11) {
		t.Errorf("Window{5,10}.Contains() boundary check failed")
	}

	empty := Window{Lo: 5, Hi: 4}
	if !empty.Empty() {
		t.Fatal("Window{5,4}.Empty() = false, want true")
	}
	if empty.Contains(5) {
		t.Error("empty window Contains() should always be false")
	}
}

func TestWindowDays(t *testing.T) {
	w := Window{Lo: 3, Hi: 5}
	if got := w.Days(); !reflect.DeepEqual(got, []int{3, 4, 5}) {
		t.Errorf("Window{3,5}.Days() = %v, want [3 4 5]", got)
	}
	if got := (Window{Lo: 5, Hi: 3}).Days(); got != nil {
		t.Errorf("empty Window.Days() = %v, want nil", got)
	}
}

func TestEventWindowDefaultsToFullHorizon(t *testing.T) {
	e := domain.Event{ID: "e1", CropID: "c1"}
	w := EventWindow(e, 30)
	if w.Lo != 1 || w.Hi != 30 {
		t.Errorf("EventWindow() = %+v, want {1 30}", w)
	}
}

func TestEventWindowClampsToHorizon(t *testing.T) {
	e := domain.Event{ID: "e1", CropID: "c1", StartDays: []int{-5, 2}, EndDays: []int{40, 20}}
	w := EventWindow(e, 30)
	if w.Lo != 1 || w.Hi != 30 {
		t.Errorf("EventWindow() = %+v, want {1 30} after clamping", w)
	}
}

func TestEventWindowEmptyWhenStartAfterEnd(t *testing.T) {
	e := domain.Event{ID: "e1", CropID: "c1", StartDays: []int{20}, EndDays: []int{5}}
	w := EventWindow(e, 30)
	if !w.Empty() {
		t.Errorf("EventWindow() = %+v, want an empty window", w)
	}
}

func TestCropOccupancySpanUnionsLandUsingEvents(t *testing.T) {
	events := []domain.Event{
		{ID: "sow", CropID: "c1", UsesLand: true, StartDays: []int{5}, EndDays: []int{5}},
		{ID: "harvest", CropID: "c1", UsesLand: true, StartDays: []int{20}, EndDays: []int{20}},
		{ID: "irrigate", CropID: "c1", UsesLand: false, StartDays: []int{1}, EndDays: []int{1}},
		{ID: "other-crop", CropID: "c2", UsesLand: true, StartDays: []int{1}, EndDays: []int{1}},
	}
	span := CropOccupancySpan("c1", events, 30)
	if span.Lo != 5 || span.Hi != 20 {
		t.Errorf("CropOccupancySpan() = %+v, want {5 20}", span)
	}
}

func TestCropOccupancySpanEmptyWhenNoLandUsingEvents(t *testing.T) {
	events := []domain.Event{{ID: "irrigate", CropID: "c1", UsesLand: false}}
	span := CropOccupancySpan("c1", events, 30)
	if !span.Empty() {
		t.Errorf("CropOccupancySpan() = %+v, want an empty window", span)
	}
}
