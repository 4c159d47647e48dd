package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// DefaultCatalogWatchSchedule polls the catalog version every 30 seconds.
const DefaultCatalogWatchSchedule = "*/30 * * * * *"

// CatalogWatcher periodically refreshes the catalog so that versions bumped
// by other writers invalidate cached solutions without waiting for a request.
type CatalogWatcher struct {
	catalog  *CatalogService
	cron     *cron.Cron
	schedule string
	timeout  time.Duration
}

// NewCatalogWatcher creates a watcher. schedule uses the six-field cron format.
func NewCatalogWatcher(catalog *CatalogService, schedule string) *CatalogWatcher {
	if schedule == "" {
		schedule = DefaultCatalogWatchSchedule
	}
	return &CatalogWatcher{
		catalog:  catalog,
		cron:     cron.New(cron.WithSeconds()),
		schedule: schedule,
		timeout:  5 * time.Second,
	}
}

// Start schedules the refresh job.
func (w *CatalogWatcher) Start() error {
	if _, err := w.cron.AddFunc(w.schedule, w.poll); err != nil {
		return err
	}
	w.cron.Start()
	log.Info().Str("schedule", w.schedule).Msg("Catalog watcher started")
	return nil
}

// Every runs fn at a fixed interval alongside the refresh job. Jobs added
// before Start run once the watcher starts.
func (w *CatalogWatcher) Every(interval time.Duration, fn func()) {
	w.cron.Schedule(cron.Every(interval), cron.FuncJob(fn))
}

// Stop halts scheduling and waits for a running refresh to finish.
func (w *CatalogWatcher) Stop() {
	<-w.cron.Stop().Done()
	log.Info().Msg("Catalog watcher stopped")
}

func (w *CatalogWatcher) poll() {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	if err := w.catalog.Refresh(ctx); err != nil {
		log.Warn().Err(err).Msg("Catalog refresh failed")
	}
}
