package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/nikhilpurwar/weather-dashboard/internal/api/http"
	"github.com/nikhilpurwar/weather-dashboard/internal/cache"
	"github.com/nikhilpurwar/weather-dashboard/internal/config"
	"github.com/nikhilpurwar/weather-dashboard/internal/dashboard"
	"github.com/nikhilpurwar/weather-dashboard/internal/scheduler"
	"github.com/nikhilpurwar/weather-dashboard/internal/state"
	"github.com/nikhilpurwar/weather-dashboard/internal/weather"
	"github.com/nikhilpurwar/weather-dashboard/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initial state: persisted snapshot if configured, defaults otherwise.
	store := state.NewStore(loadInitialState(cfg.StateFile))

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Response cache with the configured TTL.
	respCache := cache.New(cfg.CacheTTL)

	// Synthetic generator seeded from real entropy; tests inject fixed seeds.
	generator := weather.NewGenerator(rand.New(rand.NewSource(time.Now().UnixNano())))

	// Fetch client over the live providers, cache, and synthetic fallback.
	provs := []weather.Provider{
		providers.NewOpenMeteoProvider(httpClient, cfg.OpenMeteoBaseURL),
	}
	client := weather.NewClient(respCache, provs, generator, cfg.SyntheticHours)

	// Core service computing polygon colors.
	service := dashboard.New(client, cfg.EmptyWindowPolicy)

	// Background refresh + cache eviction.
	sched := scheduler.New(service, store, respCache, cfg.RefreshInterval)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "weather-dashboard",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-dashboard",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service, store, respCache)

	// Start server with graceful shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}

// loadInitialState reads the persisted dashboard snapshot when one is
// configured. A missing file is not an error; a malformed one is fatal so a
// corrupt snapshot never silently drops the user's polygons.
func loadInitialState(path string) state.AppState {
	if path == "" {
		return state.Default()
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("INFO: state file %s not found; starting with defaults", path)
		return state.Default()
	}
	if err != nil {
		log.Fatalf("failed to read state file %s: %v", path, err)
	}

	snap, err := state.Load(data)
	if err != nil {
		log.Fatalf("failed to parse state file %s: %v", path, err)
	}
	log.Printf("INFO: loaded %d polygons from %s", len(snap.Polygons), path)
	return snap
}
