package store

import (
	"database/sql"
	"time"

	"github.com/lmarsden/galewatch/internal/models"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) UpsertFarm(f models.WindFarm) error {
	_, err := s.db.Exec(`
		INSERT INTO farms (name, latitude, longitude, capacity_mw, active)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			capacity_mw = excluded.capacity_mw,
			active = excluded.active
	`, f.Name, f.Latitude, f.Longitude, f.CapacityMW, f.Active)
	return err
}

func (s *Store) GetActiveFarms() ([]models.WindFarm, error) {
	rows, err := s.db.Query(`SELECT name, latitude, longitude, capacity_mw, active FROM farms WHERE active = TRUE ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var farms []models.WindFarm
	for rows.Next() {
		var f models.WindFarm
		if err := rows.Scan(&f.Name, &f.Latitude, &f.Longitude, &f.CapacityMW, &f.Active); err != nil {
			return nil, err
		}
		farms = append(farms, f)
	}
	return farms, rows.Err()
}

func (s *Store) GetFarm(name string) (*models.WindFarm, error) {
	row := s.db.QueryRow(`SELECT name, latitude, longitude, capacity_mw, active FROM farms WHERE name = ?`, name)

	var f models.WindFarm
	err := row.Scan(&f.Name, &f.Latitude, &f.Longitude, &f.CapacityMW, &f.Active)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *Store) InsertSample(farmName, kind string, sample models.WeatherSample, fetchedAt time.Time) error {
	_, err := s.db.Exec(`
		INSERT INTO samples (farm_name, kind, sampled_at, wind_speed, wind_gust, wind_dir, temperature, humidity, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(farm_name, kind, sampled_at) DO NOTHING
	`, farmName, kind, sample.Timestamp, sample.WindSpeedMS, sample.WindGustMS, sample.WindDirDeg,
		sample.TemperatureC, sample.HumidityPct, fetchedAt)
	return err
}

func (s *Store) GetLatestSample(farmName, kind string) (*models.WeatherSample, error) {
	row := s.db.QueryRow(`
		SELECT sampled_at, wind_speed, wind_gust, wind_dir, temperature, humidity
		FROM samples
		WHERE farm_name = ? AND kind = ?
		ORDER BY sampled_at DESC
		LIMIT 1
	`, farmName, kind)

	var sm models.WeatherSample
	err := row.Scan(&sm.Timestamp, &sm.WindSpeedMS, &sm.WindGustMS, &sm.WindDirDeg, &sm.TemperatureC, &sm.HumidityPct)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sm, nil
}

func (s *Store) GetSamples(farmName, kind string, start, end time.Time) ([]models.WeatherSample, error) {
	rows, err := s.db.Query(`
		SELECT sampled_at, wind_speed, wind_gust, wind_dir, temperature, humidity
		FROM samples
		WHERE farm_name = ? AND kind = ? AND sampled_at >= ? AND sampled_at <= ?
		ORDER BY sampled_at ASC
	`, farmName, kind, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []models.WeatherSample
	for rows.Next() {
		var sm models.WeatherSample
		if err := rows.Scan(&sm.Timestamp, &sm.WindSpeedMS, &sm.WindGustMS, &sm.WindDirDeg, &sm.TemperatureC, &sm.HumidityPct); err != nil {
			return nil, err
		}
		samples = append(samples, sm)
	}
	return samples, rows.Err()
}
