package ingest

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/lmarsden/galewatch/internal/impact"
	"github.com/lmarsden/galewatch/internal/metrics"
	"github.com/lmarsden/galewatch/internal/models"
	"github.com/lmarsden/galewatch/internal/store"
	"github.com/lmarsden/galewatch/internal/synoptic"
)

const forecastHorizonHours = 48

type Scheduler struct {
	store         *store.Store
	client        *Client
	thresholds    impact.Thresholds
	params        synoptic.Params
	bounds        models.GridBounds
	gridSize      int
	siteInterval  time.Duration
	gridInterval  time.Duration
	marineEnabled bool
}

func NewScheduler(st *store.Store, client *Client, bounds models.GridBounds, gridSize int) *Scheduler {
	return &Scheduler{
		store:        st,
		client:       client,
		thresholds:   impact.DefaultThresholds(),
		params:       synoptic.DefaultParams(),
		bounds:       bounds,
		gridSize:     gridSize,
		siteInterval: 10 * time.Minute,
		gridInterval: 1 * time.Hour,
	}
}

// SetIntervals overrides the default polling cadence.
func (s *Scheduler) SetIntervals(site, grid time.Duration) {
	if site > 0 {
		s.siteInterval = site
	}
	if grid > 0 {
		s.gridInterval = grid
	}
}

// SetMarineEnabled controls whether marine (wave) conditions are fetched
// alongside atmospheric samples for each farm.
func (s *Scheduler) SetMarineEnabled(enabled bool) {
	s.marineEnabled = enabled
}

func (s *Scheduler) Run(ctx context.Context) {
	s.ingestSites(ctx)
	s.scanSynoptic(ctx)

	siteTicker := time.NewTicker(s.siteInterval)
	gridTicker := time.NewTicker(s.gridInterval)
	pruneTicker := time.NewTicker(6 * time.Hour)
	defer siteTicker.Stop()
	defer gridTicker.Stop()
	defer pruneTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("scheduler: shutting down")
			return
		case <-siteTicker.C:
			s.ingestSites(ctx)
		case <-gridTicker.C:
			s.scanSynoptic(ctx)
		case <-pruneTicker.C:
			s.pruneSnapshots()
		}
	}
}

// IngestOnce runs a single ingest and analysis pass over all farms plus one
// synoptic scan, then returns.
func (s *Scheduler) IngestOnce(ctx context.Context) error {
	s.ingestSites(ctx)
	s.scanSynoptic(ctx)
	return nil
}

func (s *Scheduler) ingestSites(ctx context.Context) {
	farms, err := s.store.GetActiveFarms()
	if err != nil {
		log.Printf("scheduler: get farms: %v", err)
		return
	}
	if len(farms) == 0 {
		log.Println("scheduler: no active farms configured")
		return
	}

	log.Printf("scheduler: ingesting %d farms", len(farms))
	for _, farm := range farms {
		if ctx.Err() != nil {
			return
		}
		s.ingestFarm(ctx, farm)
	}
}

func (s *Scheduler) ingestFarm(ctx context.Context, farm models.WindFarm) {
	fetchCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	current := s.fetchCurrent(fetchCtx, farm)
	forecast := s.fetchForecast(fetchCtx, farm)

	if s.marineEnabled {
		s.fetchMarine(fetchCtx, farm)
	}

	if current == nil {
		return
	}

	status := impact.Classify(*current, s.thresholds)
	events := impact.ExtractEvents(forecast, time.Now().UTC(), s.thresholds)
	overall := impact.Aggregate(status, events, s.thresholds)

	if err := s.store.UpsertSiteStatus(farm.Name, time.Now().UTC(), overall); err != nil {
		log.Printf("scheduler: store status %s: %v", farm.Name, err)
		return
	}

	metrics.AnalysesRun.WithLabelValues(farm.Name, string(overall.PriorityColor)).Inc()
	log.Printf("scheduler: %s: %s (%s), %d upcoming events",
		farm.Name, status.Status, overall.PriorityColor, len(overall.UpcomingEvents))
}

func (s *Scheduler) fetchCurrent(ctx context.Context, farm models.WindFarm) *models.WeatherSample {
	run, _ := s.store.StartIngestRun("open-meteo", "forecast/current", &farm.Name)

	sample, rawJSON, err := s.client.FetchCurrent(ctx, farm.Latitude, farm.Longitude)
	s.finishRun(run, err, boolToCount(sample != nil))

	if err != nil {
		log.Printf("scheduler: fetch current %s: %v", farm.Name, err)
		return nil
	}
	s.storePayload(run, "open-meteo", "forecast/current", farm.Name, rawJSON)

	if err := impact.ValidateSample(*sample); err != nil {
		log.Printf("scheduler: invalid current sample %s: %v", farm.Name, err)
		return nil
	}

	if err := s.store.InsertSample(farm.Name, "current", *sample, time.Now().UTC()); err != nil {
		log.Printf("scheduler: insert current %s: %v", farm.Name, err)
	} else {
		metrics.SamplesIngested.WithLabelValues(farm.Name, "current").Inc()
	}
	return sample
}

func (s *Scheduler) fetchForecast(ctx context.Context, farm models.WindFarm) []models.WeatherSample {
	run, _ := s.store.StartIngestRun("open-meteo", "forecast/hourly", &farm.Name)

	forecast, rawJSON, err := s.client.FetchHourly(ctx, farm.Latitude, farm.Longitude, forecastHorizonHours)
	s.finishRun(run, err, len(forecast))

	if err != nil {
		log.Printf("scheduler: fetch forecast %s: %v", farm.Name, err)
		return nil
	}
	s.storePayload(run, "open-meteo", "forecast/hourly", farm.Name, rawJSON)

	if err := impact.ValidateForecast(forecast); err != nil {
		log.Printf("scheduler: invalid forecast %s: %v", farm.Name, err)
		return nil
	}

	inserted := 0
	for _, sample := range forecast {
		if err := s.store.InsertSample(farm.Name, "forecast", sample, time.Now().UTC()); err != nil {
			log.Printf("scheduler: insert forecast %s: %v", farm.Name, err)
			continue
		}
		inserted++
	}
	if inserted > 0 {
		metrics.SamplesIngested.WithLabelValues(farm.Name, "forecast").Add(float64(inserted))
	}
	return forecast
}

func (s *Scheduler) fetchMarine(ctx context.Context, farm models.WindFarm) {
	run, _ := s.store.StartIngestRun("open-meteo-marine", "marine/hourly", &farm.Name)

	waves, err := s.client.FetchMarine(ctx, farm.Latitude, farm.Longitude, forecastHorizonHours)
	s.finishRun(run, err, len(waves))

	if err != nil {
		log.Printf("scheduler: fetch marine %s: %v", farm.Name, err)
		return
	}
	if len(waves) > 0 {
		metrics.SamplesIngested.WithLabelValues(farm.Name, "marine").Add(float64(len(waves)))
		log.Printf("scheduler: %s: wave height %.1fm", farm.Name, waves[0].WaveHeightM)
	}
}

func (s *Scheduler) scanSynoptic(ctx context.Context) {
	fetchCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	log.Printf("scheduler: scanning synoptic grid %dx%d", s.gridSize, s.gridSize)
	run, _ := s.store.StartIngestRun("open-meteo", "grid", nil)

	grid, err := s.client.FetchGrid(fetchCtx, s.bounds, s.gridSize)
	s.finishRun(run, err, len(grid))

	if err != nil {
		log.Printf("scheduler: fetch grid: %v", err)
		return
	}

	snap := synoptic.Analyze(grid, s.params, time.Now().UTC())
	if err := s.store.InsertSynopticSnapshot(snap); err != nil {
		log.Printf("scheduler: store snapshot: %v", err)
		return
	}

	metrics.SynopticScans.Inc()
	metrics.SynopticFeatures.WithLabelValues("system").Set(float64(len(snap.Systems)))
	metrics.SynopticFeatures.WithLabelValues("front").Set(float64(len(snap.Fronts)))
	log.Printf("scheduler: synoptic scan: %d points, %d systems, %d fronts",
		len(snap.Grid), len(snap.Systems), len(snap.Fronts))
}

// storePayload archives a raw API response once per fetch.
func (s *Scheduler) storePayload(run *store.IngestRun, source, endpoint, farmName, payload string) {
	var runID *int64
	if run != nil {
		runID = &run.ID
	}
	if _, err := s.store.StoreRawPayload(runID, source, endpoint, &farmName, []byte(payload)); err != nil {
		log.Printf("scheduler: store payload %s %s: %v", farmName, endpoint, err)
	}
}

func (s *Scheduler) pruneSnapshots() {
	cutoff := time.Now().UTC().Add(-7 * 24 * time.Hour)
	deleted, err := s.store.PruneSynopticSnapshots(cutoff)
	if err != nil {
		log.Printf("scheduler: prune snapshots: %v", err)
	} else if deleted > 0 {
		log.Printf("scheduler: pruned %d synoptic snapshots", deleted)
	}

	purged, err := s.store.PruneRawPayloads(cutoff)
	if err != nil {
		log.Printf("scheduler: prune payloads: %v", err)
	} else if purged > 0 {
		log.Printf("scheduler: pruned %d raw payloads", purged)
	}
}

func (s *Scheduler) finishRun(run *store.IngestRun, err error, records int) {
	if run == nil {
		return
	}
	run.Success = err == nil
	if err != nil {
		run.ErrorMessage = sql.NullString{String: err.Error(), Valid: true}
	} else {
		run.RecordsStored = sql.NullInt64{Int64: int64(records), Valid: true}
	}
	if cerr := s.store.CompleteIngestRun(run); cerr != nil {
		log.Printf("scheduler: complete ingest run %d: %v", run.ID, cerr)
	}
}

func boolToCount(ok bool) int {
	if ok {
		return 1
	}
	return 0
}
