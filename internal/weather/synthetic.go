package weather

import (
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/nikhilpurwar/weather-dashboard/internal/geo"
)

// DefaultStyle is used when a style id is not recognized.
const DefaultStyle = "temperate"

// style holds the baselines and swing amplitudes for one simulated climate.
type style struct {
	baseTemp     float64
	tempSwing    float64 // diurnal amplitude
	tempNoise    float64
	baseHumidity float64
	humSwing     float64
	humPeriod    float64 // hours per humidity cycle
	humNoise     float64
	baseWind     float64
	windNoise    float64
	basePressure float64
	pressNoise   float64
	rainChance   float64 // probability of rain in a given hour
	rainMax      float64
}

var styles = map[string]style{
	"tropical": {
		baseTemp: 28, tempSwing: 5, tempNoise: 4,
		baseHumidity: 75, humSwing: 15, humPeriod: 16, humNoise: 10,
		baseWind: 8, windNoise: 4,
		basePressure: 1010, pressNoise: 6,
		rainChance: 0.3, rainMax: 5,
	},
	"temperate": {
		baseTemp: 15, tempSwing: 8, tempNoise: 6,
		baseHumidity: 55, humSwing: 20, humPeriod: 12, humNoise: 15,
		baseWind: 6, windNoise: 5,
		basePressure: 1013, pressNoise: 10,
		rainChance: 0.2, rainMax: 3,
	},
}

// Generator produces plausible hourly weather series used both as a
// first-class mock data source and as the fetch client's resilience
// fallback. The random source is injected so tests can fix the seed;
// the shape invariants (length, chronological order, clamped ranges)
// hold regardless of seed.
type Generator struct {
	rnd *rand.Rand
	now func() time.Time
}

// NewGenerator creates a Generator over the given random source.
func NewGenerator(rnd *rand.Rand) *Generator {
	return &Generator{rnd: rnd, now: time.Now}
}

// NewSeededGenerator creates a Generator with a fixed seed for
// reproducible tests.
func NewSeededGenerator(seed int64) *Generator {
	return NewGenerator(rand.New(rand.NewSource(seed)))
}

// StyleFromSourceID maps a mock data-source id to a generation style.
// "mock-tropical" selects tropical; anything unrecognized degrades to the
// default temperate style.
func StyleFromSourceID(sourceID string) string {
	s := strings.TrimPrefix(sourceID, "mock-")
	if _, ok := styles[s]; ok {
		return s
	}
	return DefaultStyle
}

// Generate produces hours hourly samples ending at now, oldest first. Each
// channel is a style baseline plus a sinusoidal diurnal term, bounded noise,
// and a small deterministic offset derived from the coordinate so nearby
// polygons under the same style stay distinguishable.
func (g *Generator) Generate(styleID string, coord geo.Coordinate, hours int) HourlySeries {
	st, ok := styles[styleID]
	if !ok {
		st = styles[DefaultStyle]
	}
	if hours <= 0 {
		hours = 24
	}

	// Location offsets, carried over from the dashboard's original mock.
	latOffset := (coord.Lat - 20) * 0.5
	lonOffset := 2 * math.Sin(coord.Lon*math.Pi/180)

	end := g.now().UTC().Truncate(time.Hour)
	start := end.Add(-time.Duration(hours-1) * time.Hour)

	s := HourlySeries{
		Time:          make([]time.Time, hours),
		Temperature:   make([]float64, hours),
		Humidity:      make([]float64, hours),
		WindSpeed:     make([]float64, hours),
		Pressure:      make([]float64, hours),
		Precipitation: make([]float64, hours),
	}

	for i := 0; i < hours; i++ {
		s.Time[i] = start.Add(time.Duration(i) * time.Hour)
		h := float64(i)

		temp := st.baseTemp +
			st.tempSwing*math.Sin(h*math.Pi/12) +
			(g.rnd.Float64()-0.5)*st.tempNoise +
			latOffset + lonOffset
		s.Temperature[i] = math.Round(temp*10) / 10

		hum := st.baseHumidity +
			st.humSwing*math.Sin(h*2*math.Pi/st.humPeriod) +
			(g.rnd.Float64()-0.5)*st.humNoise
		s.Humidity[i] = clamp(math.Round(hum), 0, 100)

		wind := st.baseWind + g.rnd.Float64()*st.windNoise
		s.WindSpeed[i] = math.Max(0, math.Round(wind*10)/10)

		press := st.basePressure + (g.rnd.Float64()-0.5)*2*st.pressNoise
		s.Pressure[i] = math.Round(press*10) / 10

		var rain float64
		if g.rnd.Float64() < st.rainChance {
			rain = g.rnd.Float64() * st.rainMax
		}
		s.Precipitation[i] = math.Max(0, math.Round(rain*10)/10)
	}

	return s
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
