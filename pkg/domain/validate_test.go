package domain

import "testing"

func minimalValidPlan() *PlanInput {
	return &PlanInput{
		Horizon: 30,
		Lands:   []Land{{ID: "land-1", Area: 2.0}},
		Crops:   []Crop{{ID: "crop-1", Name: "Lettuce", PricePerArea: 5}},
		Events: []Event{
			{ID: "evt-sow", CropID: "crop-1", Name: "Sow", UsesLand: true},
		},
	}
}

func TestValidatePlanAcceptsMinimalPlan(t *testing.T) {
	issues, err := ValidatePlan(minimalValidPlan())
	if err != nil {
		t.Fatalf("ValidatePlan() unexpected error: %v, issues: %+v", err, issues)
	}
	if len(issues) != 0 {
		t.Fatalf("ValidatePlan() unexpected issues: %+v", issues)
	}
}

func TestValidatePlanRejectsByTagFixedAreas(t *testing.T) {
	p := minimalValidPlan()
	p.ByTagFixedAreas = []map[string]interface{}{{"tag": "greenhouse"}}

	issues, err := ValidatePlan(p)
	if err == nil {
		t.Fatal("ValidatePlan() expected error for by_tag_fixed_areas")
	}
	if !hasField(issues, "by_tag_fixed_areas") {
		t.Errorf("ValidatePlan() issues = %+v, want an issue on by_tag_fixed_areas", issues)
	}
}

func TestValidatePlanRejectsCropWithNoEvents(t *testing.T) {
	p := minimalValidPlan()
	p.Crops = append(p.Crops, Crop{ID: "crop-2", Name: "Carrot"})

	issues, err := ValidatePlan(p)
	if err == nil {
		t.Fatal("ValidatePlan() expected error for crop with no events")
	}
	if !hasField(issues, "crops.crop-2") {
		t.Errorf("ValidatePlan() issues = %+v, want an issue on crops.crop-2", issues)
	}
}

func TestValidatePlanRejectsUnknownCropReference(t *testing.T) {
	p := minimalValidPlan()
	p.Events = append(p.Events, Event{ID: "evt-2", CropID: "missing-crop", Name: "Harvest"})

	issues, err := ValidatePlan(p)
	if err == nil {
		t.Fatal("ValidatePlan() expected error for unknown crop reference")
	}
	if !hasField(issues, "events.evt-2.crop_id") {
		t.Errorf("ValidatePlan() issues = %+v, want an issue on events.evt-2.crop_id", issues)
	}
}

func TestValidatePlanRejectsBlockedDayOutOfRange(t *testing.T) {
	p := minimalValidPlan()
	p.Lands[0].BlockedDays = []int{0, 31}

	issues, err := ValidatePlan(p)
	if err == nil {
		t.Fatal("ValidatePlan() expected error for out-of-range blocked day")
	}
	if count := countField(issues, "lands.land-1.blocked_days"); count != 2 {
		t.Errorf("ValidatePlan() reported %d blocked_days issues, want 2", count)
	}
}

func TestValidatePlanRejectsMutuallyExclusiveAreaUnits(t *testing.T) {
	p := minimalValidPlan()
	p.Lands[0].Area10 = 20

	issues, err := ValidatePlan(p)
	if err == nil {
		t.Fatal("ValidatePlan() expected error for area/area_10 both set")
	}
	if !hasField(issues, "lands.land-1") {
		t.Errorf("ValidatePlan() issues = %+v, want an issue on lands.land-1", issues)
	}
}

func TestValidatePlanRejectsPredecessorFromDifferentCrop(t *testing.T) {
	p := minimalValidPlan()
	p.Crops = append(p.Crops, Crop{ID: "crop-2", Name: "Carrot"})
	p.Events = append(p.Events,
		Event{ID: "evt-other", CropID: "crop-2", Name: "Sow other"},
		Event{ID: "evt-dependent", CropID: "crop-1", Name: "Harvest", PredecessorEvent: "evt-other"},
	)

	issues, err := ValidatePlan(p)
	if err == nil {
		t.Fatal("ValidatePlan() expected error for cross-crop predecessor")
	}
	if !hasField(issues, "events.evt-dependent.predecessor_event") {
		t.Errorf("ValidatePlan() issues = %+v, want an issue on events.evt-dependent.predecessor_event", issues)
	}
}

func TestNormalizeUnitsPrefersArea10(t *testing.T) {
	p := minimalValidPlan()
	p.Lands[0].Area = 0
	p.Lands[0].Area10 = 50 // 5.0 area units in area_10 form

	NormalizeUnits(p)

	if p.Lands[0].AreaScaled != ScaleArea(5.0) {
		t.Errorf("NormalizeUnits() AreaScaled = %d, want %d", p.Lands[0].AreaScaled, ScaleArea(5.0))
	}
}

func TestNormalizeUnitsFallsBackToArea(t *testing.T) {
	p := minimalValidPlan()

	NormalizeUnits(p)

	if p.Lands[0].AreaScaled != ScaleArea(2.0) {
		t.Errorf("NormalizeUnits() AreaScaled = %d, want %d", p.Lands[0].AreaScaled, ScaleArea(2.0))
	}
}

func hasField(issues []ValidationIssue, field string) bool {
	return countField(issues, field) > 0
}

func countField(issues []ValidationIssue, field string) int {
	n := 0
	for _, i := range issues {
		if i.Field == field {
			n++
		}
	}
	return n
}
