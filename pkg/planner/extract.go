package planner

import (
	"sort"

	"github.com/openfroyo/farmplan/pkg/domain"
	"github.com/openfroyo/farmplan/pkg/variables"
)

// Extract converts a solved stage's variable values into the
// day-indexed Timeline of spec §4.5 "Plan extraction": per-land
// per-day crop areas compressed into runs, and per-firing event
// attributions.
func Extract(reg *variables.Registry, plan *domain.PlanInput, values []int64) Timeline {
	return Timeline{
		LandSpans:    extractLandSpans(reg, values),
		EventFirings: extractEventFirings(reg, plan, values),
	}
}

func extractLandSpans(reg *variables.Registry, values []int64) []LandSpan {
	type dayArea struct {
		day  int
		area int64
	}
	areasByPair := make(map[[2]string][]dayArea)

	for key, v := range reg.AllX() {
		area := values[v]
		pairKey := [2]string{key.Land, key.Crop}
		areasByPair[pairKey] = append(areasByPair[pairKey], dayArea{day: key.Day, area: area})
	}

	var spans []LandSpan
	for pair, days := range areasByPair {
		sort.Slice(days, func(a, b int) bool { return days[a].day < days[b].day })

		var runStart int
		var runArea int64
		haveRun := false
		flush := func(endDay int) {
			if haveRun && runArea > 0 {
				spans = append(spans, LandSpan{
					LandID:   pair[0],
					CropID:   pair[1],
					StartDay: runStart,
					EndDay:   endDay,
					Area:     domain.UnscaleArea(runArea),
				})
			}
			haveRun = false
		}

		prevDay := 0
		for _, d := range days {
			if haveRun && d.area == runArea && d.day == prevDay+1 {
				prevDay = d.day
				continue
			}
			flush(prevDay)
			runStart = d.day
			runArea = d.area
			prevDay = d.day
			haveRun = true
		}
		flush(prevDay)
	}

	sort.Slice(spans, func(i, j int) bool {
		if spans[i].LandID != spans[j].LandID {
			return spans[i].LandID < spans[j].LandID
		}
		if spans[i].CropID != spans[j].CropID {
			return spans[i].CropID < spans[j].CropID
		}
		return spans[i].StartDay < spans[j].StartDay
	})
	return spans
}

func extractEventFirings(reg *variables.Registry, plan *domain.PlanInput, values []int64) []EventFiring {
	cropByEvent := make(map[string]string, len(plan.Events))
	for _, e := range plan.Events {
		cropByEvent[e.ID] = e.CropID
	}
	unitByResource := make(map[string]string, len(plan.Resources))
	for _, r := range plan.Resources {
		unitByResource[r.ID] = r.Unit
	}

	var firings []EventFiring
	for key, v := range reg.AllR() {
		if values[v] == 0 {
			continue
		}
		f := EventFiring{EventID: key.Event, CropID: cropByEvent[key.Event], Day: key.Day}

		for hkey, hv := range reg.AllH() {
			if hkey.Event != key.Event || hkey.Day != key.Day {
				continue
			}
			hours := values[hv]
			if hours == 0 {
				continue
			}
			f.Workers = append(f.Workers, WorkerUsage{WorkerID: hkey.Worker, Hours: float64(hours) / domain.TimeScale})
		}
		for ukey, uv := range reg.AllU() {
			if ukey.Event != key.Event || ukey.Day != key.Day {
				continue
			}
			hours := values[uv]
			if hours == 0 {
				continue
			}
			f.Resources = append(f.Resources, ResourceUsage{
				ResourceID: ukey.Resource,
				Hours:      float64(hours) / domain.TimeScale,
				Unit:       unitByResource[ukey.Resource],
			})
		}

		var areaScaled int64
		for xkey, xv := range reg.AllX() {
			if xkey.Crop != f.CropID || xkey.Day != key.Day {
				continue
			}
			areaScaled += values[xv]
		}
		f.Area = domain.UnscaleArea(areaScaled)

		sort.Slice(f.Workers, func(i, j int) bool { return f.Workers[i].WorkerID < f.Workers[j].WorkerID })
		sort.Slice(f.Resources, func(i, j int) bool { return f.Resources[i].ResourceID < f.Resources[j].ResourceID })
		firings = append(firings, f)
	}

	sort.Slice(firings, func(i, j int) bool {
		if firings[i].Day != firings[j].Day {
			return firings[i].Day < firings[j].Day
		}
		return firings[i].EventID < firings[j].EventID
	})
	return firings
}
