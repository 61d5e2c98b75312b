package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/nikhilpurwar/weather-dashboard/internal/cache"
	"github.com/nikhilpurwar/weather-dashboard/internal/dashboard"
	"github.com/nikhilpurwar/weather-dashboard/internal/state"
)

// Scheduler periodically recomputes polygon colors (keeping cache entries
// warm) and prunes expired cache entries. The cache itself never evicts;
// eviction timing lives here.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *dashboard.Service
	store     *state.Store
	cache     *cache.Cache
	interval  time.Duration
}

// New creates a Scheduler.
func New(service *dashboard.Service, store *state.Store, c *cache.Cache, interval time.Duration) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		store:     store,
		cache:     c,
		interval:  interval,
	}
}

// Start schedules the periodic refresh job and starts the underlying
// scheduler.
func (s *Scheduler) Start() error {
	interval := s.interval
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	_, err := s.scheduler.Every(interval).Do(func() {
		snap := s.store.Snapshot()
		if len(snap.Polygons) == 0 {
			if pruned := s.cache.PruneExpired(); pruned > 0 {
				log.Printf("scheduler: pruned %d expired cache entries", pruned)
			}
			return
		}

		log.Printf("scheduler: refreshing %d polygons", len(snap.Polygons))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		statuses := s.service.RefreshAll(ctx, snap, snap.SelectedTime)
		now := time.Now().UTC()
		for _, status := range statuses {
			s.store.Dispatch(state.MarkPolygonUpdated{ID: status.PolygonID, At: now})
		}

		if pruned := s.cache.PruneExpired(); pruned > 0 {
			log.Printf("scheduler: pruned %d expired cache entries", pruned)
		}
		log.Printf("scheduler: refresh complete (%d/%d succeeded)", len(statuses), len(snap.Polygons))
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
