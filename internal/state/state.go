// Package state models the dashboard's application state as an immutable
// snapshot plus a closed set of actions applied through a pure transition
// function. The presentation layer owns persistence; this package only
// accepts the persisted JSON shape read-only at startup.
package state

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nikhilpurwar/weather-dashboard/internal/geo"
	"github.com/nikhilpurwar/weather-dashboard/internal/rules"
	"github.com/nikhilpurwar/weather-dashboard/internal/weather"
)

// AppState is one immutable snapshot of the dashboard.
type AppState struct {
	Polygons           []geo.Polygon                `json:"polygons"`
	SelectedTime       weather.TimeRange            `json:"selectedTime"`
	ColorRules         map[string][]rules.ColorRule `json:"colorRules"`
	DataSources        []weather.DataSource         `json:"dataSources"`
	SelectedDataSource string                       `json:"selectedDataSource"`
	AnimationsEnabled  bool                         `json:"animationsEnabled"`
}

// Action is one variant of the closed transition set.
type Action interface {
	isAction()
}

type AddPolygon struct{ Polygon geo.Polygon }

type DeletePolygon struct{ ID string }

// UpdatePolygon renames a polygon and/or rebinds its data source. Nil fields
// are left untouched.
type UpdatePolygon struct {
	ID         string
	Label      *string
	DataSource *string
}

type SetTimeRange struct{ Range weather.TimeRange }

// SetColorRules replaces the rule list for one data source.
type SetColorRules struct {
	SourceID string
	Rules    []rules.ColorRule
}

type SetDataSource struct{ ID string }

type AddDataSource struct{ Source weather.DataSource }

// MarkPolygonUpdated stamps a polygon after a weather refresh.
type MarkPolygonUpdated struct {
	ID string
	At time.Time
}

type ToggleAnimations struct{}

func (AddPolygon) isAction()         {}
func (DeletePolygon) isAction()      {}
func (UpdatePolygon) isAction()      {}
func (SetTimeRange) isAction()       {}
func (SetColorRules) isAction()      {}
func (SetDataSource) isAction()      {}
func (AddDataSource) isAction()      {}
func (MarkPolygonUpdated) isAction() {}
func (ToggleAnimations) isAction()   {}

// Apply returns the snapshot that results from applying the action. The
// input snapshot is never mutated; unknown actions return it unchanged.
func Apply(s AppState, a Action) AppState {
	switch act := a.(type) {
	case AddPolygon:
		next := clone(s)
		next.Polygons = append(next.Polygons, act.Polygon)
		return next

	case DeletePolygon:
		next := clone(s)
		kept := next.Polygons[:0]
		for _, p := range next.Polygons {
			if p.ID != act.ID {
				kept = append(kept, p)
			}
		}
		next.Polygons = kept
		return next

	case UpdatePolygon:
		next := clone(s)
		for i, p := range next.Polygons {
			if p.ID != act.ID {
				continue
			}
			if act.Label != nil {
				p.Label = *act.Label
			}
			if act.DataSource != nil {
				p.DataSource = *act.DataSource
			}
			next.Polygons[i] = p
		}
		return next

	case SetTimeRange:
		next := clone(s)
		next.SelectedTime = act.Range
		return next

	case SetColorRules:
		next := clone(s)
		ruleCopy := make([]rules.ColorRule, len(act.Rules))
		copy(ruleCopy, act.Rules)
		next.ColorRules[act.SourceID] = ruleCopy
		return next

	case SetDataSource:
		next := clone(s)
		next.SelectedDataSource = act.ID
		return next

	case AddDataSource:
		next := clone(s)
		next.DataSources = append(next.DataSources, act.Source)
		return next

	case MarkPolygonUpdated:
		next := clone(s)
		for i, p := range next.Polygons {
			if p.ID == act.ID {
				at := act.At
				p.LastUpdated = &at
				next.Polygons[i] = p
			}
		}
		return next

	case ToggleAnimations:
		next := clone(s)
		next.AnimationsEnabled = !next.AnimationsEnabled
		return next

	default:
		return s
	}
}

func clone(s AppState) AppState {
	next := s

	next.Polygons = make([]geo.Polygon, len(s.Polygons))
	copy(next.Polygons, s.Polygons)

	next.ColorRules = make(map[string][]rules.ColorRule, len(s.ColorRules))
	for k, v := range s.ColorRules {
		ruleCopy := make([]rules.ColorRule, len(v))
		copy(ruleCopy, v)
		next.ColorRules[k] = ruleCopy
	}

	next.DataSources = make([]weather.DataSource, len(s.DataSources))
	copy(next.DataSources, s.DataSources)

	return next
}

// FindSource looks up a data source descriptor by id.
func (s AppState) FindSource(id string) (weather.DataSource, bool) {
	for _, src := range s.DataSources {
		if src.ID == id {
			return src, true
		}
	}
	return weather.DataSource{}, false
}

// FindPolygon looks up a polygon by id.
func (s AppState) FindPolygon(id string) (geo.Polygon, bool) {
	for _, p := range s.Polygons {
		if p.ID == id {
			return p, true
		}
	}
	return geo.Polygon{}, false
}

// RulesFor returns the ordered rule list for a source id. When none exist
// and the parameter is temperature, the canned danger scale applies so the
// map still renders meaningful colors.
func (s AppState) RulesFor(sourceID, parameter string) []rules.ColorRule {
	if list, ok := s.ColorRules[sourceID]; ok && len(list) > 0 {
		return list
	}
	if parameter == weather.ParamTemperature {
		return rules.TemperatureDangerScale()
	}
	return nil
}

// persistedState is the JSON blob the presentation layer stores: polygon
// list, rule sets keyed by data-source id, selected source, animation flag.
type persistedState struct {
	Polygons           []geo.Polygon                `json:"polygons"`
	ColorRules         map[string][]rules.ColorRule `json:"colorRules"`
	SelectedDataSource string                       `json:"selectedDataSource"`
	AnimationsEnabled  *bool                        `json:"animationsEnabled"`
}

// Load parses a persisted snapshot and merges it over the defaults.
func Load(data []byte) (AppState, error) {
	var saved persistedState
	if err := json.Unmarshal(data, &saved); err != nil {
		return AppState{}, fmt.Errorf("parse persisted state: %w", err)
	}

	s := Default()
	if saved.Polygons != nil {
		s.Polygons = saved.Polygons
	}
	for id, list := range saved.ColorRules {
		s.ColorRules[id] = list
	}
	if saved.SelectedDataSource != "" {
		s.SelectedDataSource = saved.SelectedDataSource
	}
	if saved.AnimationsEnabled != nil {
		s.AnimationsEnabled = *saved.AnimationsEnabled
	}
	return s, nil
}

// Default returns the initial snapshot: the built-in data sources, their
// starter rule sets, and no polygons.
func Default() AppState {
	return AppState{
		Polygons: nil,
		ColorRules: map[string][]rules.ColorRule{
			"open-meteo": {
				{Operator: rules.OpLess, Value: 10, Color: "#3b82f6", Label: "Cold"},
				{Operator: rules.OpGreaterEqual, Value: 10, Color: "#10b981", Label: "Mild"},
				{Operator: rules.OpGreaterEqual, Value: 25, Color: "#f59e0b", Label: "Warm"},
				{Operator: rules.OpGreaterEqual, Value: 35, Color: "#ef4444", Label: "Hot"},
			},
			"mock-tropical": {
				{Operator: rules.OpLess, Value: 25, Color: "#10b981", Label: "Comfortable"},
				{Operator: rules.OpGreaterEqual, Value: 32, Color: "#ef4444", Label: "Very Hot"},
				{Operator: rules.OpGreaterEqual, Value: 25, Color: "#f59e0b", Label: "Warm"},
			},
			"mock-temperate": {
				{Operator: rules.OpLess, Value: 5, Color: "#3b82f6", Label: "Cold"},
				{Operator: rules.OpGreaterEqual, Value: 20, Color: "#f59e0b", Label: "Warm"},
				{Operator: rules.OpGreaterEqual, Value: 5, Color: "#10b981", Label: "Cool"},
			},
		},
		DataSources: []weather.DataSource{
			{
				ID:          "open-meteo",
				Name:        "Open-Meteo",
				Description: "Free weather API with global coverage",
				APIURL:      "https://api.open-meteo.com/v1/forecast",
				IsLive:      true,
				Parameters:  []string{"temperature_2m", "relative_humidity_2m", "wind_speed_10m", "surface_pressure", "precipitation"},
			},
			{
				ID:          "mock-tropical",
				Name:        "Mock - Tropical Climate",
				Description: "Simulated tropical weather patterns",
				IsLive:      false,
				Parameters:  []string{"temperature", "humidity", "wind_speed", "precipitation"},
			},
			{
				ID:          "mock-temperate",
				Name:        "Mock - Temperate Climate",
				Description: "Simulated temperate weather patterns",
				IsLive:      false,
				Parameters:  []string{"temperature", "humidity", "wind_speed", "precipitation"},
			},
		},
		SelectedDataSource: "open-meteo",
		AnimationsEnabled:  true,
	}
}
