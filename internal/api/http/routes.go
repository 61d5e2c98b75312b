package httpapi

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/nikhilpurwar/weather-dashboard/internal/cache"
	"github.com/nikhilpurwar/weather-dashboard/internal/dashboard"
	"github.com/nikhilpurwar/weather-dashboard/internal/geo"
	"github.com/nikhilpurwar/weather-dashboard/internal/rules"
	"github.com/nikhilpurwar/weather-dashboard/internal/state"
	"github.com/nikhilpurwar/weather-dashboard/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *dashboard.Service, store *state.Store, respCache *cache.Cache) {
	v1 := app.Group("/api/v1")

	v1.Get("/sources", func(c *fiber.Ctx) error {
		return c.JSON(store.Snapshot().DataSources)
	})

	v1.Get("/polygons", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"polygons": store.Snapshot().Polygons})
	})

	v1.Post("/polygons", func(c *fiber.Ctx) error {
		var req createPolygonRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		polygon, err := geo.NewPolygon(req.coordinates(), req.DataSource, req.Label)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		store.Dispatch(state.AddPolygon{Polygon: polygon})
		return c.Status(fiber.StatusCreated).JSON(polygon)
	})

	v1.Patch("/polygons/:id", func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, ok := store.Snapshot().FindPolygon(id); !ok {
			return fiber.NewError(fiber.StatusNotFound, "polygon not found")
		}

		var req updatePolygonRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		snap := store.Dispatch(state.UpdatePolygon{ID: id, Label: req.Label, DataSource: req.DataSource})
		polygon, _ := snap.FindPolygon(id)
		return c.JSON(polygon)
	})

	v1.Delete("/polygons/:id", func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, ok := store.Snapshot().FindPolygon(id); !ok {
			return fiber.NewError(fiber.StatusNotFound, "polygon not found")
		}
		store.Dispatch(state.DeletePolygon{ID: id})
		return c.SendStatus(fiber.StatusNoContent)
	})

	v1.Put("/rules/:source", func(c *fiber.Ctx) error {
		var ruleList []rules.ColorRule
		if err := c.BodyParser(&ruleList); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		for i, r := range ruleList {
			if err := validate.Struct(r); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "rule "+strconv.Itoa(i)+": "+err.Error())
			}
		}

		sourceID := c.Params("source")
		store.Dispatch(state.SetColorRules{SourceID: sourceID, Rules: ruleList})
		return c.JSON(fiber.Map{"source": sourceID, "rules": ruleList})
	})

	v1.Put("/time", func(c *fiber.Ctx) error {
		window, err := parseWindowBody(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		store.Dispatch(state.SetTimeRange{Range: window})
		return c.JSON(window)
	})

	v1.Get("/polygons/:id/color", func(c *fiber.Ctx) error {
		snap := store.Snapshot()
		window, err := parseWindowQuery(c, snap)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		status, err := service.Status(c.Context(), snap, c.Params("id"), window)
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return c.JSON(status)
	})

	v1.Get("/colors", func(c *fiber.Ctx) error {
		snap := store.Snapshot()
		window, err := parseWindowQuery(c, snap)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		statuses := service.RefreshAll(c.Context(), snap, window)
		return c.JSON(fiber.Map{"statuses": statuses})
	})

	v1.Get("/cache/stats", func(c *fiber.Ctx) error {
		return c.JSON(respCache.Stats())
	})
}

// createPolygonRequest carries a drawn polygon from the map UI.
type createPolygonRequest struct {
	Coordinates []coordinatePayload `json:"coordinates" validate:"required,min=3,max=12,dive"`
	DataSource  string              `json:"dataSource" validate:"required"`
	Label       string              `json:"label" validate:"required"`
}

type coordinatePayload struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lon float64 `json:"lon" validate:"min=-180,max=180"`
}

func (r createPolygonRequest) coordinates() []geo.Coordinate {
	coords := make([]geo.Coordinate, len(r.Coordinates))
	for i, c := range r.Coordinates {
		coords[i] = geo.Coordinate{Lat: c.Lat, Lon: c.Lon}
	}
	return coords
}

type updatePolygonRequest struct {
	Label      *string `json:"label"`
	DataSource *string `json:"dataSource"`
}

type timeRangePayload struct {
	Start *string `json:"start"`
	End   *string `json:"end"`
}

func parseWindowBody(c *fiber.Ctx) (weather.TimeRange, error) {
	var req timeRangePayload
	if err := c.BodyParser(&req); err != nil {
		return weather.TimeRange{}, errors.New("invalid request body")
	}

	var window weather.TimeRange
	if req.Start != nil {
		ts, err := parseTime(*req.Start)
		if err != nil {
			return weather.TimeRange{}, err
		}
		window.Start = &ts
	}
	if req.End != nil {
		ts, err := parseTime(*req.End)
		if err != nil {
			return weather.TimeRange{}, err
		}
		window.End = &ts
	}
	// A window is either fully set or fully cleared; a one-sided range would
	// silently aggregate as if no window were selected.
	if (window.Start == nil) != (window.End == nil) {
		return weather.TimeRange{}, errors.New("start and end must be provided together")
	}
	if err := validateWindow(window); err != nil {
		return weather.TimeRange{}, err
	}
	return window, nil
}

// parseWindowQuery reads an optional from/to pair. With neither present the
// snapshot's selected time range applies.
func parseWindowQuery(c *fiber.Ctx, snap state.AppState) (weather.TimeRange, error) {
	fromStr := c.Query("from")
	toStr := c.Query("to")

	if fromStr == "" && toStr == "" {
		return snap.SelectedTime, nil
	}
	if fromStr == "" || toStr == "" {
		return weather.TimeRange{}, errors.New("from and to must be provided together")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return weather.TimeRange{}, err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return weather.TimeRange{}, err
	}

	window := weather.TimeRange{Start: &from, End: &to}
	if err := validateWindow(window); err != nil {
		return weather.TimeRange{}, err
	}
	return window, nil
}

func validateWindow(w weather.TimeRange) error {
	if w.Start != nil && w.End != nil && w.End.Before(*w.Start) {
		return errors.New("time range end precedes start")
	}
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts.UTC(), nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
