package domain

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validatorImpl *validator.Validate
)

func sharedValidator() *validator.Validate {
	validateOnce.Do(func() { validatorImpl = validator.New() })
	return validatorImpl
}

// ValidationIssue is one structured validation error (spec §7 "errors[]").
type ValidationIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidatePlan validates structural tags via go-playground/validator,
// then the semantic cross-referential invariants of spec §3. It never
// mutates the input; callers should call NormalizeUnits separately.
func ValidatePlan(p *PlanInput) ([]ValidationIssue, error) {
	var issues []ValidationIssue

	if err := sharedValidator().Struct(p); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return nil, NewValidationError("malformed plan input", err).WithCode(ErrCodeValidation)
		}
		for _, fe := range verrs {
			issues = append(issues, ValidationIssue{
				Field:   fe.Namespace(),
				Message: fmt.Sprintf("failed on %q", fe.Tag()),
			})
		}
	}

	issues = append(issues, semanticIssues(p)...)

	if len(issues) > 0 {
		return issues, NewValidationError("plan input failed validation", nil).WithCode(ErrCodeValidation)
	}
	return nil, nil
}

func semanticIssues(p *PlanInput) []ValidationIssue {
	var issues []ValidationIssue
	add := func(field, format string, args ...interface{}) {
		issues = append(issues, ValidationIssue{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if len(p.ByTagFixedAreas) > 0 {
		add("by_tag_fixed_areas", "by-tag aggregate fixed-area form is not supported; use the per-land fixed_areas triple form")
	}

	cropByID := map[string]Crop{}
	for _, c := range p.Crops {
		cropByID[c.ID] = c
	}
	landByID := map[string]Land{}
	for _, l := range p.Lands {
		landByID[l.ID] = l
		for _, d := range l.BlockedDays {
			if d < 1 || d > p.Horizon {
				add("lands."+l.ID+".blocked_days", "blocked day %d out of range [1,%d]", d, p.Horizon)
			}
		}
		if l.Area > 0 && l.Area10 > 0 {
			add("lands."+l.ID, "area and area_10 are mutually exclusive")
		}
		if l.Area <= 0 && l.Area10 <= 0 {
			add("lands."+l.ID, "exactly one of area or area_10 must be set")
		}
	}

	eventByID := map[string]Event{}
	cropHasEvent := map[string]bool{}
	for _, e := range p.Events {
		eventByID[e.ID] = e
		cropHasEvent[e.CropID] = true
		if _, ok := cropByID[e.CropID]; !ok {
			add("events."+e.ID+".crop_id", "references unknown crop %q", e.CropID)
		}
		if e.LagMin > 0 && e.LagMax > 0 && e.LagMin > e.LagMax {
			add("events."+e.ID, "lag_min (%d) exceeds lag_max (%d)", e.LagMin, e.LagMax)
		}
	}
	for _, e := range p.Events {
		if e.HasPredecessor() {
			pred, ok := eventByID[e.PredecessorEvent]
			if !ok {
				add("events."+e.ID+".predecessor_event", "references unknown event %q", e.PredecessorEvent)
			} else if pred.CropID != e.CropID {
				add("events."+e.ID+".predecessor_event", "predecessor %q belongs to a different crop", e.PredecessorEvent)
			}
		}
	}
	for _, c := range p.Crops {
		if !cropHasEvent[c.ID] {
			add("crops."+c.ID, "crop has no events")
		}
		if c.PricePerArea > 0 && c.Price10PerArea > 0 {
			add("crops."+c.ID, "price_per_area and price_10_per_area are mutually exclusive")
		}
	}

	for _, w := range p.Workers {
		for _, d := range w.BlockedDays {
			if d < 1 || d > p.Horizon {
				add("workers."+w.ID+".blocked_days", "blocked day %d out of range [1,%d]", d, p.Horizon)
			}
		}
	}
	for _, r := range p.Resources {
		for _, d := range r.BlockedDays {
			if d < 1 || d > p.Horizon {
				add("resources."+r.ID+".blocked_days", "blocked day %d out of range [1,%d]", d, p.Horizon)
			}
		}
	}

	for _, fa := range p.FixedAreas {
		if _, ok := landByID[fa.LandID]; !ok {
			add("fixed_areas", "references unknown land %q", fa.LandID)
		}
		if _, ok := cropByID[fa.CropID]; !ok {
			add("fixed_areas", "references unknown crop %q", fa.CropID)
		}
		if fa.Area > 0 && fa.Area10 > 0 {
			add("fixed_areas", "area and area_10 are mutually exclusive for land %q crop %q", fa.LandID, fa.CropID)
		}
	}

	for _, b := range p.CropAreaBounds {
		if _, ok := cropByID[b.CropID]; !ok {
			add("crop_area_bounds", "references unknown crop %q", b.CropID)
		}
		if b.Min != nil && b.Max != nil && *b.Min > *b.Max {
			add("crop_area_bounds", "min exceeds max for crop %q", b.CropID)
		}
	}

	return issues
}

// NormalizeUnits resolves the area/price dual-unit-system inputs
// (spec §6) into the single scaled-integer representation used
// internally, mutating p in place. Call only after ValidatePlan
// has confirmed exclusivity.
func NormalizeUnits(p *PlanInput) {
	for i := range p.Lands {
		l := &p.Lands[i]
		if l.Area10 > 0 {
			l.AreaScaled = ScaleArea(l.Area10 / AreaScale)
		} else {
			l.AreaScaled = ScaleArea(l.Area)
		}
	}
	for i := range p.Crops {
		c := &p.Crops[i]
		if c.Price10PerArea > 0 {
			c.PriceScaled = int64(c.Price10PerArea/AreaScale + 0.5)
		} else {
			c.PriceScaled = int64(c.PricePerArea + 0.5)
		}
	}
	for i := range p.FixedAreas {
		fa := &p.FixedAreas[i]
		if fa.Area10 > 0 {
			fa.Area = fa.Area10 / AreaScale
		}
	}
	for i := range p.Resources {
		if p.Resources[i].Unit == "" {
			p.Resources[i].Unit = "hours"
		}
	}
}
