package weather

import (
	"math"
	"time"
)

// Parameter names for the logical weather channels the dashboard can color by.
const (
	ParamTemperature   = "temperature"
	ParamHumidity      = "humidity"
	ParamWindSpeed     = "wind_speed"
	ParamPressure      = "pressure"
	ParamPrecipitation = "precipitation"
)

// DataSource describes a weather provider or a simulation style selectable
// per polygon. Mock sources never touch the network.
type DataSource struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	APIURL      string   `json:"apiUrl,omitempty"`
	IsLive      bool     `json:"isLive"`
	Parameters  []string `json:"parameters"`
}

// PrimaryParameter returns the source's first declared parameter, normalized
// to a logical channel name. Sources without parameters default to temperature.
func (d DataSource) PrimaryParameter() string {
	if len(d.Parameters) == 0 {
		return ParamTemperature
	}
	return NormalizeParameter(d.Parameters[0])
}

// TimeRange is an optional [start, end] window. Both ends nil means
// "no window selected".
type TimeRange struct {
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
}

// IsZero reports whether no window is selected.
func (r TimeRange) IsZero() bool {
	return r.Start == nil && r.End == nil
}

// HourlySeries is a parallel-array view over a chronological time axis with
// one entry per hour. A channel missing upstream stays empty rather than
// padded; NaN marks an absent value within an otherwise present channel.
type HourlySeries struct {
	Time          []time.Time `json:"time"`
	Temperature   []float64   `json:"temperature"`
	Humidity      []float64   `json:"humidity"`
	WindSpeed     []float64   `json:"windSpeed"`
	Pressure      []float64   `json:"pressure"`
	Precipitation []float64   `json:"precipitation"`
}

// Len returns the number of hourly samples on the time axis.
func (s HourlySeries) Len() int {
	return len(s.Time)
}

// Channel maps a logical parameter name to its value array. Unknown names
// default to the temperature channel.
func (s HourlySeries) Channel(parameter string) []float64 {
	switch NormalizeParameter(parameter) {
	case ParamHumidity:
		return s.Humidity
	case ParamWindSpeed:
		return s.WindSpeed
	case ParamPressure:
		return s.Pressure
	case ParamPrecipitation:
		return s.Precipitation
	default:
		return s.Temperature
	}
}

// Value returns the channel value at index i, or NaN when the channel is
// shorter than the time axis (upstream omission).
func (s HourlySeries) Value(parameter string, i int) float64 {
	values := s.Channel(parameter)
	if i < 0 || i >= len(values) {
		return math.NaN()
	}
	return values[i]
}

// NormalizeParameter folds provider field aliases onto the logical channel
// names. Unknown inputs map to temperature.
func NormalizeParameter(name string) string {
	switch name {
	case ParamTemperature, "temperature_2m":
		return ParamTemperature
	case ParamHumidity, "relative_humidity_2m":
		return ParamHumidity
	case ParamWindSpeed, "windSpeed", "wind_speed_10m":
		return ParamWindSpeed
	case ParamPressure, "surface_pressure":
		return ParamPressure
	case ParamPrecipitation:
		return ParamPrecipitation
	default:
		return ParamTemperature
	}
}
