package variables

import (
	"fmt"

	"github.com/openfroyo/farmplan/pkg/domain"
	"github.com/openfroyo/farmplan/pkg/solver"
)

// Tuple keys for the nine variable families of spec §3, plus the
// per-(land, crop) area envelope x̄ (XBarKey). Flat,
// comparable structs — lookup by key, no pointer graphs (spec §9
// "Cyclic variable references").
type (
	XKey    struct{ Land, Crop string; Day int }
	XBarKey struct{ Land, Crop string }
	ZKey    struct{ Land, Crop string }
	RKey    struct{ Event string; Day int }
	HKey    struct{ Worker, Event string; Day int }
	AKey    struct{ Worker, Event string; Day int }
	UKey    struct{ Resource, Event string; Day int }
	OccKey  struct{ Crop string; Day int }
	OccLKey struct{ Land, Crop string; Day int }
	UseKey  struct{ Crop string }
)

// Registry owns every decision variable for one stage's model. It is
// created fresh per stage (spec §9 "no shared mutable state between
// stages") and creates variables lazily, guided by the precomputed
// event/crop windows (spec §4.1).
type Registry struct {
	Model   *solver.Model
	Horizon int

	Lands     map[string]domain.Land
	Crops     map[string]domain.Crop
	Events    map[string]domain.Event
	Workers   map[string]domain.Worker
	Resources map[string]domain.Resource

	eventWindows map[string]Window
	cropSpans    map[string]Window

	x    map[XKey]solver.VarID
	xbar map[XBarKey]solver.VarID
	z    map[ZKey]solver.VarID
	r    map[RKey]solver.VarID
	h    map[HKey]solver.VarID
	a    map[AKey]solver.VarID
	u    map[UKey]solver.VarID
	occ  map[OccKey]solver.VarID
	occL map[OccLKey]solver.VarID
	use  map[UseKey]solver.VarID
}

// New builds a registry for plan p, precomputing W(e) and OCC(c).
// p must already be normalized (domain.NormalizeUnits).
func New(p *domain.PlanInput) *Registry {
	reg := &Registry{
		Model:        solver.NewModel(),
		Horizon:      p.Horizon,
		Lands:        indexLands(p.Lands),
		Crops:        indexCrops(p.Crops),
		Events:       indexEvents(p.Events),
		Workers:      indexWorkers(p.Workers),
		Resources:    indexResources(p.Resources),
		eventWindows: make(map[string]Window),
		cropSpans:    make(map[string]Window),
		x:            make(map[XKey]solver.VarID),
		xbar:         make(map[XBarKey]solver.VarID),
		z:            make(map[ZKey]solver.VarID),
		r:            make(map[RKey]solver.VarID),
		h:            make(map[HKey]solver.VarID),
		a:            make(map[AKey]solver.VarID),
		u:            make(map[UKey]solver.VarID),
		occ:          make(map[OccKey]solver.VarID),
		occL:         make(map[OccLKey]solver.VarID),
		use:          make(map[UseKey]solver.VarID),
	}
	for _, e := range p.Events {
		reg.eventWindows[e.ID] = EventWindow(e, p.Horizon)
	}
	for _, c := range p.Crops {
		reg.cropSpans[c.ID] = CropOccupancySpan(c.ID, p.Events, p.Horizon)
	}
	return reg
}

func indexLands(xs []domain.Land) map[string]domain.Land {
	m := make(map[string]domain.Land, len(xs))
	for _, x := range xs {
		m[x.ID] = x
	}
	return m
}

func indexCrops(xs []domain.Crop) map[string]domain.Crop {
	m := make(map[string]domain.Crop, len(xs))
	for _, x := range xs {
		m[x.ID] = x
	}
	return m
}

func indexEvents(xs []domain.Event) map[string]domain.Event {
	m := make(map[string]domain.Event, len(xs))
	for _, x := range xs {
		m[x.ID] = x
	}
	return m
}

func indexWorkers(xs []domain.Worker) map[string]domain.Worker {
	m := make(map[string]domain.Worker, len(xs))
	for _, x := range xs {
		m[x.ID] = x
	}
	return m
}

func indexResources(xs []domain.Resource) map[string]domain.Resource {
	m := make(map[string]domain.Resource, len(xs))
	for _, x := range xs {
		m[x.ID] = x
	}
	return m
}

// EventWindow returns the precomputed W(e) for event id.
func (reg *Registry) EventWindow(eventID string) Window { return reg.eventWindows[eventID] }

// CropSpan returns the precomputed OCC(c) for crop id.
func (reg *Registry) CropSpan(cropID string) Window { return reg.cropSpans[cropID] }

// xDayAllowed reports whether day t is within crop c's occupancy
// span, or any day if the crop has no land-using events at all (spec
// §4.1: "or all days if c has no uses_land events and another
// constraint demands coverage").
func (reg *Registry) xDayAllowed(cropID string, t int) bool {
	span := reg.cropSpans[cropID]
	if span.Empty() {
		return t >= 1 && t <= reg.Horizon
	}
	return span.Contains(t)
}

// X returns (creating if needed) x[l,c,t]. ok is false if t falls
// outside crop c's occupancy span.
func (reg *Registry) X(land, crop string, day int) (solver.VarID, bool) {
	if !reg.xDayAllowed(crop, day) {
		return 0, false
	}
	key := XKey{Land: land, Crop: crop, Day: day}
	if id, ok := reg.x[key]; ok {
		return id, true
	}
	hi := reg.Lands[land].AreaScaled
	id := reg.Model.NewIntVar(fmt.Sprintf("x[%s,%s,%d]", land, crop, day), 0, hi)
	reg.x[key] = id
	return id, true
}

// LookupX returns an existing x[l,c,t] without creating one.
func (reg *Registry) LookupX(land, crop string, day int) (solver.VarID, bool) {
	id, ok := reg.x[XKey{Land: land, Crop: crop, Day: day}]
	return id, ok
}

// XBar returns (creating if needed) the base-envelope variable
// x̄[l,c] used by the area–use link and labor constraints (spec §4.2).
func (reg *Registry) XBar(land, crop string) solver.VarID {
	key := XBarKey{Land: land, Crop: crop}
	if id, ok := reg.xbar[key]; ok {
		return id
	}
	hi := reg.Lands[land].AreaScaled
	id := reg.Model.NewIntVar(fmt.Sprintf("xbar[%s,%s]", land, crop), 0, hi)
	reg.xbar[key] = id
	return id
}

// Z returns (creating if needed) z[l,c].
func (reg *Registry) Z(land, crop string) solver.VarID {
	key := ZKey{Land: land, Crop: crop}
	if id, ok := reg.z[key]; ok {
		return id
	}
	id := reg.Model.NewBoolVar(fmt.Sprintf("z[%s,%s]", land, crop))
	reg.z[key] = id
	return id
}

// R returns (creating if needed) r[e,t]. ok is false outside W(e).
func (reg *Registry) R(event string, day int) (solver.VarID, bool) {
	if !reg.eventWindows[event].Contains(day) {
		return 0, false
	}
	key := RKey{Event: event, Day: day}
	if id, ok := reg.r[key]; ok {
		return id, true
	}
	id := reg.Model.NewBoolVar(fmt.Sprintf("r[%s,%d]", event, day))
	reg.r[key] = id
	return id, true
}

// H returns (creating if needed) h[w,e,t]. ok is false outside W(e)
// or on a day the worker is blocked.
func (reg *Registry) H(worker, event string, day int) (solver.VarID, bool) {
	if !reg.eventWindows[event].Contains(day) {
		return 0, false
	}
	w, exists := reg.Workers[worker]
	if !exists || w.IsBlocked(day) {
		return 0, false
	}
	key := HKey{Worker: worker, Event: event, Day: day}
	if id, ok := reg.h[key]; ok {
		return id, true
	}
	hi := int64(w.DailyCapHrs*domain.TimeScale + 0.5)
	id := reg.Model.NewIntVar(fmt.Sprintf("h[%s,%s,%d]", worker, event, day), 0, hi)
	reg.h[key] = id
	return id, true
}

// A returns (creating if needed) a[w,e,t], gated identically to H.
func (reg *Registry) A(worker, event string, day int) (solver.VarID, bool) {
	if !reg.eventWindows[event].Contains(day) {
		return 0, false
	}
	w, exists := reg.Workers[worker]
	if !exists || w.IsBlocked(day) {
		return 0, false
	}
	key := AKey{Worker: worker, Event: event, Day: day}
	if id, ok := reg.a[key]; ok {
		return id, true
	}
	id := reg.Model.NewBoolVar(fmt.Sprintf("a[%s,%s,%d]", worker, event, day))
	reg.a[key] = id
	return id, true
}

// U returns (creating if needed) u[res,e,t], gated by W(e) and the
// resource's blocked days.
func (reg *Registry) U(resource, event string, day int) (solver.VarID, bool) {
	if !reg.eventWindows[event].Contains(day) {
		return 0, false
	}
	res, exists := reg.Resources[resource]
	if !exists || res.IsBlocked(day) {
		return 0, false
	}
	key := UKey{Resource: resource, Event: event, Day: day}
	if id, ok := reg.u[key]; ok {
		return id, true
	}
	var hi int64 = 1 << 30
	if res.DailyCapHrs != nil {
		hi = int64(*res.DailyCapHrs*domain.TimeScale + 0.5)
	}
	id := reg.Model.NewIntVar(fmt.Sprintf("u[%s,%s,%d]", resource, event, day), 0, hi)
	reg.u[key] = id
	return id, true
}

// Occ returns (creating if needed) occ[c,t].
func (reg *Registry) Occ(crop string, day int) solver.VarID {
	key := OccKey{Crop: crop, Day: day}
	if id, ok := reg.occ[key]; ok {
		return id
	}
	id := reg.Model.NewBoolVar(fmt.Sprintf("occ[%s,%d]", crop, day))
	reg.occ[key] = id
	return id
}

// OccL returns (creating if needed) occL[l,c,t]. ok is false outside
// crop c's occupancy span.
func (reg *Registry) OccL(land, crop string, day int) (solver.VarID, bool) {
	if !reg.xDayAllowed(crop, day) {
		return 0, false
	}
	key := OccLKey{Land: land, Crop: crop, Day: day}
	if id, ok := reg.occL[key]; ok {
		return id, true
	}
	id := reg.Model.NewBoolVar(fmt.Sprintf("occL[%s,%s,%d]", land, crop, day))
	reg.occL[key] = id
	return id, true
}

// Use returns (creating if needed) use[c].
func (reg *Registry) Use(crop string) solver.VarID {
	key := UseKey{Crop: crop}
	if id, ok := reg.use[key]; ok {
		return id
	}
	id := reg.Model.NewBoolVar(fmt.Sprintf("use[%s]", crop))
	reg.use[key] = id
	return id
}

// AllX returns every created x[l,c,t] key/var pair, for extraction.
func (reg *Registry) AllX() map[XKey]solver.VarID { return reg.x }

// AllXBar returns every created x̄[l,c] key/var pair.
func (reg *Registry) AllXBar() map[XBarKey]solver.VarID { return reg.xbar }

// AllZ returns every created z[l,c] key/var pair.
func (reg *Registry) AllZ() map[ZKey]solver.VarID { return reg.z }

// AllR returns every created r[e,t] key/var pair.
func (reg *Registry) AllR() map[RKey]solver.VarID { return reg.r }

// AllH returns every created h[w,e,t] key/var pair.
func (reg *Registry) AllH() map[HKey]solver.VarID { return reg.h }

// AllA returns every created a[w,e,t] key/var pair.
func (reg *Registry) AllA() map[AKey]solver.VarID { return reg.a }

// AllU returns every created u[res,e,t] key/var pair.
func (reg *Registry) AllU() map[UKey]solver.VarID { return reg.u }

// AllUse returns every created use[c] key/var pair.
func (reg *Registry) AllUse() map[UseKey]solver.VarID { return reg.use }
