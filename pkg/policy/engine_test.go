package policy

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/openfroyo/farmplan/pkg/domain"
)

func testLogger() zerolog.Logger {
	return zerolog.New(nil).Level(zerolog.Disabled)
}

func TestNewEngineLoadsBuiltins(t *testing.T) {
	eng, err := NewEngine(testLogger())
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}

	expected := []string{"horizon-ceiling", "crop-category-allowlist", "fixed-area-capacity"}
	policies := eng.ListPolicies()
	for _, name := range expected {
		found := false
		for _, p := range policies {
			if p.Name == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected built-in policy %s not found", name)
		}
	}
}

func validPlan() *domain.PlanInput {
	return &domain.PlanInput{
		Horizon: 90,
		Lands:   []domain.Land{{ID: "land-1", Area: 10}},
		Crops:   []domain.Crop{{ID: "crop-1", Name: "Tomato", Category: "vegetable"}},
		Events:  []domain.Event{{ID: "evt-1", CropID: "crop-1", Name: "plant"}},
	}
}

func TestHorizonCeilingPolicy(t *testing.T) {
	eng, err := NewEngine(testLogger())
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}

	plan := validPlan()
	plan.Horizon = 10000

	result, err := eng.Evaluate(context.Background(), plan)
	if err != nil {
		t.Fatalf("evaluation failed: %v", err)
	}
	if result.Allowed {
		t.Error("expected plan with excessive horizon to be rejected")
	}
	if !hasPolicyViolation(result.Violations, "horizon-ceiling") {
		t.Errorf("expected horizon-ceiling violation, got %+v", result.Violations)
	}
}

func TestCropCategoryAllowlistPolicy(t *testing.T) {
	eng, err := NewEngine(testLogger())
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}

	plan := validPlan()
	plan.Crops[0].Category = "narcotic"

	result, err := eng.Evaluate(context.Background(), plan)
	if err != nil {
		t.Fatalf("evaluation failed: %v", err)
	}
	if result.Allowed {
		t.Error("expected plan with disallowed crop category to be rejected")
	}
	if !hasPolicyViolation(result.Violations, "crop-category-allowlist") {
		t.Errorf("expected crop-category-allowlist violation, got %+v", result.Violations)
	}
}

func TestFixedAreaCapacityPolicy(t *testing.T) {
	eng, err := NewEngine(testLogger())
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}

	plan := validPlan()
	plan.FixedAreas = []domain.FixedArea{{LandID: "land-1", CropID: "crop-1", Area: 50}}

	result, err := eng.Evaluate(context.Background(), plan)
	if err != nil {
		t.Fatalf("evaluation failed: %v", err)
	}

	if !hasPolicyViolation(append(result.Violations, result.Warnings...), "fixed-area-capacity") {
		t.Errorf("expected fixed-area-capacity warning, got violations=%+v warnings=%+v", result.Violations, result.Warnings)
	}
}

func TestByTagFixedAreaRejected(t *testing.T) {
	eng, err := NewEngine(testLogger())
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}

	plan := validPlan()
	plan.ByTagFixedAreas = []map[string]interface{}{{"tag": "greenhouse", "area": 5.0}}

	result, err := eng.Evaluate(context.Background(), plan)
	if err != nil {
		t.Fatalf("evaluation failed: %v", err)
	}
	if result.Allowed {
		t.Error("expected plan with by-tag fixed areas to be rejected")
	}
}

func TestValidPlanAllowed(t *testing.T) {
	eng, err := NewEngine(testLogger())
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}

	result, err := eng.Evaluate(context.Background(), validPlan())
	if err != nil {
		t.Fatalf("evaluation failed: %v", err)
	}
	if !result.Allowed {
		t.Errorf("expected a conforming plan to be allowed, got violations=%+v", result.Violations)
	}
}

func TestEnableDisablePolicy(t *testing.T) {
	eng, err := NewEngine(testLogger())
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}

	if err := eng.DisablePolicy("horizon-ceiling"); err != nil {
		t.Fatalf("failed to disable policy: %v", err)
	}

	plan := validPlan()
	plan.Horizon = 10000
	result, err := eng.Evaluate(context.Background(), plan)
	if err != nil {
		t.Fatalf("evaluation failed: %v", err)
	}
	if hasPolicyViolation(result.Violations, "horizon-ceiling") {
		t.Error("disabled policy should not generate violations")
	}

	if err := eng.EnablePolicy("horizon-ceiling"); err != nil {
		t.Fatalf("failed to enable policy: %v", err)
	}
	result, err = eng.Evaluate(context.Background(), plan)
	if err != nil {
		t.Fatalf("evaluation failed: %v", err)
	}
	if !hasPolicyViolation(result.Violations, "horizon-ceiling") {
		t.Error("re-enabled policy should generate violations again")
	}
}

func hasPolicyViolation(violations []Violation, name string) bool {
	for _, v := range violations {
		if v.Policy == name {
			return true
		}
	}
	return false
}
