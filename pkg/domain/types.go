package domain

// Horizon is the number of days in the planning window. Internal day
// indices run 1..Horizon; the API boundary converts from the 0-based
// indices of spec §6.
type Horizon int

// ShiftDayIndices adds delta to every day-index field on the plan:
// land/worker/resource blocked_days and event start_days/end_days.
// The API boundary calls this with delta=+1 on ingest, translating
// the 0-based wire representation (spec §6) into the 1-based
// representation every other package in this module assumes.
func (p *PlanInput) ShiftDayIndices(delta int) {
	for i := range p.Lands {
		shiftDays(p.Lands[i].BlockedDays, delta)
	}
	for i := range p.Events {
		shiftDays(p.Events[i].StartDays, delta)
		shiftDays(p.Events[i].EndDays, delta)
	}
	for i := range p.Workers {
		shiftDays(p.Workers[i].BlockedDays, delta)
	}
	for i := range p.Resources {
		shiftDays(p.Resources[i].BlockedDays, delta)
	}
}

func shiftDays(days []int, delta int) {
	for i := range days {
		days[i] += delta
	}
}

// Crop is a plantable crop definition.
type Crop struct {
	ID            string  `json:"id" validate:"required"`
	Name          string  `json:"name" validate:"required"`
	Category      string  `json:"category,omitempty"`
	PriceScaled   int64   `json:"-"`
	PricePerArea  float64 `json:"price_per_area,omitempty" validate:"omitempty,gte=0"`
	Price10PerArea float64 `json:"price_10_per_area,omitempty" validate:"omitempty,gte=0"`
}

// Land is a physical plot with a continuous area and optional blocked
// days.
type Land struct {
	ID          string   `json:"id" validate:"required"`
	Area        float64  `json:"area,omitempty" validate:"omitempty,gt=0"`
	Area10      float64  `json:"area_10,omitempty" validate:"omitempty,gt=0"`
	AreaScaled  int64    `json:"-"`
	Tags        []string `json:"tags,omitempty"`
	BlockedDays []int    `json:"blocked_days,omitempty"`
}

// IsBlocked reports whether day t (1-based) is blocked for this land.
func (l Land) IsBlocked(t int) bool { return contains(l.BlockedDays, t) }

// Event is a cultivation event belonging to a crop.
type Event struct {
	ID                string   `json:"id" validate:"required"`
	CropID            string   `json:"crop_id" validate:"required"`
	Name              string   `json:"name" validate:"required"`
	Category          string   `json:"category,omitempty"`
	StartDays         []int    `json:"start_days,omitempty"`
	EndDays           []int    `json:"end_days,omitempty"`
	FrequencyDays     int      `json:"frequency_days,omitempty" validate:"omitempty,gt=0"`
	PredecessorEvent  string   `json:"predecessor_event,omitempty"`
	LagMin            int      `json:"lag_min,omitempty"`
	LagMax            int      `json:"lag_max,omitempty"`
	LaborHoursPerArea float64  `json:"labor_hours_per_area,omitempty" validate:"omitempty,gte=0"`
	LaborDailyCapHrs  float64  `json:"labor_daily_cap_hours,omitempty" validate:"omitempty,gte=0"`
	Headcount         int      `json:"headcount,omitempty" validate:"omitempty,gte=0"`
	RequiredRoles     []string `json:"required_roles,omitempty"`
	RequiredResources []string `json:"required_resources,omitempty"`
	UsesLand          bool     `json:"uses_land"`
}

// HasPredecessor reports whether this event is lag-gated on another.
func (e Event) HasPredecessor() bool { return e.PredecessorEvent != "" }

// Worker is a laborer with a role set and daily capacity.
type Worker struct {
	ID           string   `json:"id" validate:"required"`
	Name         string   `json:"name" validate:"required"`
	Roles        []string `json:"roles,omitempty"`
	DailyCapHrs  float64  `json:"daily_capacity_hours" validate:"gte=0"`
	BlockedDays  []int    `json:"blocked_days,omitempty"`
}

// IsBlocked reports whether day t is blocked for this worker.
func (w Worker) IsBlocked(t int) bool { return contains(w.BlockedDays, t) }

// HasRole reports whether the worker carries the given role.
func (w Worker) HasRole(role string) bool { return containsStr(w.Roles, role) }

// Resource is a pooled, non-labor resource (equipment, water, etc.).
type Resource struct {
	ID          string   `json:"id" validate:"required"`
	Name        string   `json:"name" validate:"required"`
	Category    string   `json:"category,omitempty"`
	DailyCapHrs *float64 `json:"daily_capacity_hours,omitempty"`
	Unit        string   `json:"unit,omitempty"`
	BlockedDays []int    `json:"blocked_days,omitempty"`
}

// IsBlocked reports whether day t is blocked for this resource.
func (r Resource) IsBlocked(t int) bool { return contains(r.BlockedDays, t) }

// FixedArea is a committed lower bound on planted area for a
// (land, crop) pair over the horizon. Per the Open Question
// resolution (spec §9, DESIGN.md), this per-land triple is the only
// canonical form; a by-tag aggregate form is rejected at validation.
type FixedArea struct {
	LandID string  `json:"land_id" validate:"required"`
	CropID string  `json:"crop_id" validate:"required"`
	Area   float64 `json:"area" validate:"gt=0"`
	Area10 float64 `json:"area_10,omitempty"`
}

// CropAreaBound bounds the total planted area of a crop, per day.
type CropAreaBound struct {
	CropID string   `json:"crop_id" validate:"required"`
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
}

// PlanInput is the full declarative farm description submitted to the
// engine (spec §3 Data model, §6 request body).
type PlanInput struct {
	Horizon        int             `json:"horizon" validate:"required,gt=0"`
	Lands          []Land          `json:"lands" validate:"required,dive"`
	Crops          []Crop          `json:"crops" validate:"required,dive"`
	Events         []Event         `json:"events" validate:"required,dive"`
	Workers        []Worker        `json:"workers" validate:"dive"`
	Resources      []Resource      `json:"resources" validate:"dive"`
	FixedAreas     []FixedArea     `json:"fixed_areas,omitempty" validate:"dive"`
	CropAreaBounds []CropAreaBound `json:"crop_area_bounds,omitempty" validate:"dive"`
	// ByTagFixedAreas is the non-canonical aggregate form of fixed
	// area (spec §9 Open Question); its presence alone is a
	// validation error regardless of content.
	ByTagFixedAreas []map[string]interface{} `json:"by_tag_fixed_areas,omitempty"`
	// PreferenceScript is an optional Starlark snippet adjusting
	// stage tolerances (spec §1 "preferences", SPEC_FULL.md §11).
	PreferenceScript string `json:"preference_script,omitempty"`
}

func contains(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

func containsStr(xs []string, v string) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}
