package store

import (
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lmarsden/galewatch/internal/impact"
	"github.com/lmarsden/galewatch/internal/models"
	"github.com/lmarsden/galewatch/internal/synoptic"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store := New(db)
	if err := store.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store
}

func TestUpsertAndGetFarm(t *testing.T) {
	store := setupTestStore(t)

	farm := models.WindFarm{
		Name:       "Hornsea One",
		Latitude:   53.88,
		Longitude:  1.79,
		CapacityMW: 1218,
		Active:     true,
	}

	if err := store.UpsertFarm(farm); err != nil {
		t.Fatalf("UpsertFarm: %v", err)
	}

	farms, err := store.GetActiveFarms()
	if err != nil {
		t.Fatalf("GetActiveFarms: %v", err)
	}
	if len(farms) != 1 {
		t.Fatalf("len(farms) = %d, want 1", len(farms))
	}
	if farms[0].Name != "Hornsea One" {
		t.Errorf("Name = %q, want 'Hornsea One'", farms[0].Name)
	}
	if farms[0].CapacityMW != 1218 {
		t.Errorf("CapacityMW = %v, want 1218", farms[0].CapacityMW)
	}

	got, err := store.GetFarm("Hornsea One")
	if err != nil {
		t.Fatalf("GetFarm: %v", err)
	}
	if got == nil {
		t.Fatal("GetFarm returned nil")
	}
	if got.Latitude != 53.88 {
		t.Errorf("Latitude = %v, want 53.88", got.Latitude)
	}
}

func TestUpsertFarm_Update(t *testing.T) {
	store := setupTestStore(t)

	farm := models.WindFarm{Name: "Moray East", Latitude: 58.2, Longitude: -2.7, CapacityMW: 950, Active: true}
	if err := store.UpsertFarm(farm); err != nil {
		t.Fatalf("UpsertFarm: %v", err)
	}

	farm.CapacityMW = 1000
	farm.Active = false
	if err := store.UpsertFarm(farm); err != nil {
		t.Fatalf("UpsertFarm (update): %v", err)
	}

	farms, err := store.GetActiveFarms()
	if err != nil {
		t.Fatalf("GetActiveFarms: %v", err)
	}
	if len(farms) != 0 {
		t.Errorf("len(farms) = %d, want 0 after deactivation", len(farms))
	}

	got, err := store.GetFarm("Moray East")
	if err != nil {
		t.Fatalf("GetFarm: %v", err)
	}
	if got == nil {
		t.Fatal("GetFarm returned nil")
	}
	if got.CapacityMW != 1000 {
		t.Errorf("CapacityMW = %v, want 1000", got.CapacityMW)
	}
}

func TestGetFarm_NotFound(t *testing.T) {
	store := setupTestStore(t)

	got, err := store.GetFarm("nowhere")
	if err != nil {
		t.Fatalf("GetFarm: %v", err)
	}
	if got != nil {
		t.Errorf("GetFarm = %+v, want nil", got)
	}
}

func TestInsertAndGetSamples(t *testing.T) {
	store := setupTestStore(t)

	base := time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)
	fetched := base.Add(time.Minute)

	for i := 0; i < 3; i++ {
		sample := models.WeatherSample{
			Timestamp:    base.Add(time.Duration(i) * time.Hour),
			WindSpeedMS:  8.0 + float64(i),
			WindGustMS:   11.0 + float64(i),
			WindDirDeg:   270,
			TemperatureC: 9.5,
			HumidityPct:  72,
		}
		if err := store.InsertSample("Hornsea One", "current", sample, fetched); err != nil {
			t.Fatalf("InsertSample: %v", err)
		}
	}

	latest, err := store.GetLatestSample("Hornsea One", "current")
	if err != nil {
		t.Fatalf("GetLatestSample: %v", err)
	}
	if latest == nil {
		t.Fatal("GetLatestSample returned nil")
	}
	if latest.WindSpeedMS != 10.0 {
		t.Errorf("WindSpeedMS = %v, want 10.0", latest.WindSpeedMS)
	}
	if !latest.Timestamp.Equal(base.Add(2 * time.Hour)) {
		t.Errorf("Timestamp = %v, want %v", latest.Timestamp, base.Add(2*time.Hour))
	}

	samples, err := store.GetSamples("Hornsea One", "current", base, base.Add(time.Hour))
	if err != nil {
		t.Fatalf("GetSamples: %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("len(samples) = %d, want 2", len(samples))
	}
	if samples[0].WindSpeedMS != 8.0 {
		t.Errorf("first WindSpeedMS = %v, want 8.0", samples[0].WindSpeedMS)
	}
}

func TestInsertSample_DuplicateIgnored(t *testing.T) {
	store := setupTestStore(t)

	ts := time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)
	sample := models.WeatherSample{Timestamp: ts, WindSpeedMS: 8.0}

	if err := store.InsertSample("Hornsea One", "current", sample, ts); err != nil {
		t.Fatalf("InsertSample: %v", err)
	}
	sample.WindSpeedMS = 99.0
	if err := store.InsertSample("Hornsea One", "current", sample, ts); err != nil {
		t.Fatalf("InsertSample (dup): %v", err)
	}

	latest, err := store.GetLatestSample("Hornsea One", "current")
	if err != nil {
		t.Fatalf("GetLatestSample: %v", err)
	}
	if latest.WindSpeedMS != 8.0 {
		t.Errorf("WindSpeedMS = %v, want first-write 8.0", latest.WindSpeedMS)
	}
}

func TestGetLatestSample_Empty(t *testing.T) {
	store := setupTestStore(t)

	latest, err := store.GetLatestSample("Hornsea One", "current")
	if err != nil {
		t.Fatalf("GetLatestSample: %v", err)
	}
	if latest != nil {
		t.Errorf("GetLatestSample = %+v, want nil", latest)
	}
}

func TestRawPayloadRoundTrip(t *testing.T) {
	store := setupTestStore(t)

	farm := "Hornsea One"
	body := []byte(`{"hourly": {"time": ["2026-03-10T06:00"]}}`)

	id, err := store.StoreRawPayload(nil, "open-meteo", "forecast/hourly", &farm, body)
	if err != nil {
		t.Fatalf("StoreRawPayload: %v", err)
	}
	if id == 0 {
		t.Fatal("StoreRawPayload returned id 0")
	}

	got, err := store.GetRawPayload(id)
	if err != nil {
		t.Fatalf("GetRawPayload: %v", err)
	}
	if string(got) != string(body) {
		t.Errorf("payload = %q, want %q", got, body)
	}
}

func TestPruneRawPayloads(t *testing.T) {
	store := setupTestStore(t)

	farm := "Hornsea One"
	if _, err := store.StoreRawPayload(nil, "open-meteo", "forecast/current", &farm, []byte(`{}`)); err != nil {
		t.Fatalf("StoreRawPayload: %v", err)
	}

	// A cutoff in the past keeps the fresh payload.
	kept, err := store.PruneRawPayloads(time.Now().UTC().Add(-time.Hour))
	if err != nil {
		t.Fatalf("PruneRawPayloads: %v", err)
	}
	if kept != 0 {
		t.Errorf("deleted = %d, want 0", kept)
	}

	deleted, err := store.PruneRawPayloads(time.Now().UTC().Add(time.Hour))
	if err != nil {
		t.Fatalf("PruneRawPayloads: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}
}

func TestSiteStatusRoundTrip(t *testing.T) {
	store := setupTestStore(t)

	now := time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)
	status := impact.OverallStatus{
		Current: impact.OperationalStatus{
			Status:         impact.StatusNormal,
			Color:          impact.ColorGreen,
			CapacityFactor: 1.0,
		},
		PriorityColor: impact.ColorOrange,
	}

	if err := store.UpsertSiteStatus("Hornsea One", now, status); err != nil {
		t.Fatalf("UpsertSiteStatus: %v", err)
	}

	got, err := store.GetSiteStatus("Hornsea One")
	if err != nil {
		t.Fatalf("GetSiteStatus: %v", err)
	}
	if got == nil {
		t.Fatal("GetSiteStatus returned nil")
	}
	if got.Status.PriorityColor != impact.ColorOrange {
		t.Errorf("PriorityColor = %q, want orange", got.Status.PriorityColor)
	}
	if got.Status.Current.Status != impact.StatusNormal {
		t.Errorf("Current.Status = %q, want normal", got.Status.Current.Status)
	}

	// Upsert replaces the previous row.
	status.PriorityColor = impact.ColorRed
	if err := store.UpsertSiteStatus("Hornsea One", now.Add(time.Hour), status); err != nil {
		t.Fatalf("UpsertSiteStatus (update): %v", err)
	}

	all, err := store.GetSiteStatuses()
	if err != nil {
		t.Fatalf("GetSiteStatuses: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("len(statuses) = %d, want 1", len(all))
	}
	if all[0].Status.PriorityColor != impact.ColorRed {
		t.Errorf("PriorityColor = %q, want red", all[0].Status.PriorityColor)
	}
	if !all[0].ComputedAt.Equal(now.Add(time.Hour)) {
		t.Errorf("ComputedAt = %v, want %v", all[0].ComputedAt, now.Add(time.Hour))
	}
}

func TestSynopticSnapshotRoundTrip(t *testing.T) {
	store := setupTestStore(t)

	older := synoptic.Snapshot{
		ScannedAt: time.Date(2026, 3, 10, 5, 0, 0, 0, time.UTC),
		Grid:      []models.GridPoint{{Latitude: 55, Longitude: 3, PressureHPa: 1012}},
	}
	newer := synoptic.Snapshot{
		ScannedAt: time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC),
		Grid:      []models.GridPoint{{Latitude: 55, Longitude: 3, PressureHPa: 1018}},
		Systems:   []synoptic.PressureSystem{{Type: synoptic.SystemHigh, Latitude: 55, Longitude: 3, PressureHPa: 1018, Symbol: "H"}},
	}

	if err := store.InsertSynopticSnapshot(older); err != nil {
		t.Fatalf("InsertSynopticSnapshot: %v", err)
	}
	if err := store.InsertSynopticSnapshot(newer); err != nil {
		t.Fatalf("InsertSynopticSnapshot: %v", err)
	}

	got, err := store.GetLatestSynopticSnapshot()
	if err != nil {
		t.Fatalf("GetLatestSynopticSnapshot: %v", err)
	}
	if got == nil {
		t.Fatal("GetLatestSynopticSnapshot returned nil")
	}
	if !got.ScannedAt.Equal(newer.ScannedAt) {
		t.Errorf("ScannedAt = %v, want %v", got.ScannedAt, newer.ScannedAt)
	}
	if len(got.Systems) != 1 || got.Systems[0].Symbol != "H" {
		t.Errorf("Systems = %+v, want one high", got.Systems)
	}
}

func TestGetLatestSynopticSnapshot_Empty(t *testing.T) {
	store := setupTestStore(t)

	got, err := store.GetLatestSynopticSnapshot()
	if err != nil {
		t.Fatalf("GetLatestSynopticSnapshot: %v", err)
	}
	if got != nil {
		t.Errorf("GetLatestSynopticSnapshot = %+v, want nil", got)
	}
}

func TestPruneSynopticSnapshots_KeepsLatest(t *testing.T) {
	store := setupTestStore(t)

	for i := 0; i < 3; i++ {
		snap := synoptic.Snapshot{ScannedAt: time.Date(2026, 3, 1+i, 0, 0, 0, 0, time.UTC)}
		if err := store.InsertSynopticSnapshot(snap); err != nil {
			t.Fatalf("InsertSynopticSnapshot: %v", err)
		}
	}

	// Cutoff beyond all rows: the most recent survives anyway.
	deleted, err := store.PruneSynopticSnapshots(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("PruneSynopticSnapshots: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}

	got, err := store.GetLatestSynopticSnapshot()
	if err != nil {
		t.Fatalf("GetLatestSynopticSnapshot: %v", err)
	}
	if got == nil {
		t.Fatal("latest snapshot was pruned")
	}
	if !got.ScannedAt.Equal(time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("ScannedAt = %v, want 2026-03-03", got.ScannedAt)
	}
}

func TestIngestRunLifecycle(t *testing.T) {
	store := setupTestStore(t)

	farm := "Hornsea One"
	run, err := store.StartIngestRun("open-meteo", "forecast/current", &farm)
	if err != nil {
		t.Fatalf("StartIngestRun: %v", err)
	}
	if run.ID == 0 {
		t.Error("run.ID = 0, want assigned id")
	}

	run.Success = true
	run.HTTPStatus = sql.NullInt64{Int64: 200, Valid: true}
	run.RecordsStored = sql.NullInt64{Int64: 1, Valid: true}
	if err := store.CompleteIngestRun(run); err != nil {
		t.Fatalf("CompleteIngestRun: %v", err)
	}

	health, err := store.GetIngestHealth(7)
	if err != nil {
		t.Fatalf("GetIngestHealth: %v", err)
	}
	if len(health) != 1 {
		t.Fatalf("len(health) = %d, want 1", len(health))
	}
	if health[0].SuccessRuns != 1 || health[0].FailedRuns != 0 {
		t.Errorf("health = %+v, want 1 success, 0 failed", health[0])
	}
	if health[0].TotalRecords != 1 {
		t.Errorf("TotalRecords = %d, want 1", health[0].TotalRecords)
	}
}

func TestCompleteIngestRun_Nil(t *testing.T) {
	store := setupTestStore(t)

	if err := store.CompleteIngestRun(nil); err != nil {
		t.Errorf("CompleteIngestRun(nil) = %v, want nil", err)
	}
}
