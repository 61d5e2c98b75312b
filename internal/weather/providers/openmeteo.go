package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/nikhilpurwar/weather-dashboard/internal/geo"
	"github.com/nikhilpurwar/weather-dashboard/internal/weather"
)

const defaultOpenMeteoURL = "https://api.open-meteo.com/v1/forecast"

// hourlyFields are the channels requested from the forecast endpoint.
var hourlyFields = []string{
	"temperature_2m",
	"relative_humidity_2m",
	"wind_speed_10m",
	"surface_pressure",
	"precipitation",
}

// defaultSpanDays bounds the date span requested when the caller selects no
// window: 15 days back, 15 days forward.
const defaultSpanDays = 15

// OpenMeteoProvider implements weather.Provider against the Open-Meteo
// forecast API. No API key required.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
	now     func() time.Time
}

// NewOpenMeteoProvider creates the provider. An empty baseURL selects the
// public endpoint; tests point it at a local server.
func NewOpenMeteoProvider(client *http.Client, baseURL string) *OpenMeteoProvider {
	if baseURL == "" {
		baseURL = defaultOpenMeteoURL
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openmeteo",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &OpenMeteoProvider{
		name:    "open-meteo",
		baseURL: baseURL,
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: defaultBackoff(),
		},
		circuit: cb,
		now:     time.Now,
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

// FetchHourly requests the hourly channels for the coordinate across the
// window's date span and normalizes the response into an HourlySeries.
func (p *OpenMeteoProvider) FetchHourly(ctx context.Context, coord geo.Coordinate, window weather.TimeRange) (weather.HourlySeries, error) {
	start, end := p.dateSpan(window)

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%.4f", coord.Lat))
		values.Set("longitude", fmt.Sprintf("%.4f", coord.Lon))
		values.Set("start_date", start.Format("2006-01-02"))
		values.Set("end_date", end.Format("2006-01-02"))
		values.Set("hourly", strings.Join(hourlyFields, ","))
		values.Set("timezone", "auto")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.HourlySeries{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Hourly struct {
			Time            []string   `json:"time"`
			Temperature2m   []*float64 `json:"temperature_2m"`
			RelHumidity2m   []*float64 `json:"relative_humidity_2m"`
			WindSpeed10m    []*float64 `json:"wind_speed_10m"`
			SurfacePressure []*float64 `json:"surface_pressure"`
			Precipitation   []*float64 `json:"precipitation"`
		} `json:"hourly"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.HourlySeries{}, fmt.Errorf("decode open-meteo response: %w", err)
	}

	return normalizeHourly(
		payload.Hourly.Time,
		payload.Hourly.Temperature2m,
		payload.Hourly.RelHumidity2m,
		payload.Hourly.WindSpeed10m,
		payload.Hourly.SurfacePressure,
		payload.Hourly.Precipitation,
	), nil
}

func (p *OpenMeteoProvider) dateSpan(window weather.TimeRange) (time.Time, time.Time) {
	now := p.now().UTC()
	start := now.AddDate(0, 0, -defaultSpanDays)
	end := now.AddDate(0, 0, defaultSpanDays)
	if window.Start != nil {
		start = window.Start.UTC()
	}
	if window.End != nil {
		end = window.End.UTC()
	}
	return start, end
}

// normalizeHourly maps the provider's parallel arrays into the internal
// series shape with per-field defaulting. A channel the provider omitted
// entirely degrades to an empty array; a null inside a present channel
// becomes NaN so the aggregator skips it.
func normalizeHourly(times []string, temp, hum, wind, press, precip []*float64) weather.HourlySeries {
	s := weather.HourlySeries{Time: make([]time.Time, 0, len(times))}

	for i, raw := range times {
		ts, err := parseHourlyTime(raw)
		if err != nil {
			continue
		}
		s.Time = append(s.Time, ts)

		if temp != nil {
			s.Temperature = append(s.Temperature, deref(temp, i))
		}
		if hum != nil {
			s.Humidity = append(s.Humidity, deref(hum, i))
		}
		if wind != nil {
			s.WindSpeed = append(s.WindSpeed, deref(wind, i))
		}
		if press != nil {
			s.Pressure = append(s.Pressure, deref(press, i))
		}
		if precip != nil {
			s.Precipitation = append(s.Precipitation, deref(precip, i))
		}
	}

	return s
}

// parseHourlyTime accepts both the minute-resolution local timestamps
// Open-Meteo emits ("2006-01-02T15:04") and full RFC3339 instants.
func parseHourlyTime(raw string) (time.Time, error) {
	if ts, err := time.Parse("2006-01-02T15:04", raw); err == nil {
		return ts.UTC(), nil
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	return ts.UTC(), nil
}

func deref(values []*float64, i int) float64 {
	if i >= len(values) || values[i] == nil {
		return math.NaN()
	}
	return *values[i]
}
