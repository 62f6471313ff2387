package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lmarsden/galewatch/internal/impact"
	"github.com/lmarsden/galewatch/internal/synoptic"
)

// SiteStatus is a stored analysis result for one farm.
type SiteStatus struct {
	FarmName   string               `json:"farm_name"`
	ComputedAt time.Time            `json:"computed_at"`
	Status     impact.OverallStatus `json:"status"`
}

func (s *Store) UpsertSiteStatus(farmName string, computedAt time.Time, status impact.OverallStatus) error {
	blob, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("marshal status for %s: %w", farmName, err)
	}

	_, err = s.db.Exec(`
		INSERT INTO site_status (farm_name, computed_at, priority_color, status_json)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(farm_name) DO UPDATE SET
			computed_at = excluded.computed_at,
			priority_color = excluded.priority_color,
			status_json = excluded.status_json
	`, farmName, computedAt, string(status.PriorityColor), string(blob))
	return err
}

func (s *Store) GetSiteStatus(farmName string) (*SiteStatus, error) {
	row := s.db.QueryRow(`SELECT farm_name, computed_at, status_json FROM site_status WHERE farm_name = ?`, farmName)

	var ss SiteStatus
	var blob string
	err := row.Scan(&ss.FarmName, &ss.ComputedAt, &blob)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(blob), &ss.Status); err != nil {
		return nil, fmt.Errorf("unmarshal status for %s: %w", farmName, err)
	}
	return &ss, nil
}

func (s *Store) GetSiteStatuses() ([]SiteStatus, error) {
	rows, err := s.db.Query(`SELECT farm_name, computed_at, status_json FROM site_status ORDER BY farm_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var statuses []SiteStatus
	for rows.Next() {
		var ss SiteStatus
		var blob string
		if err := rows.Scan(&ss.FarmName, &ss.ComputedAt, &blob); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(blob), &ss.Status); err != nil {
			return nil, fmt.Errorf("unmarshal status for %s: %w", ss.FarmName, err)
		}
		statuses = append(statuses, ss)
	}
	return statuses, rows.Err()
}

func (s *Store) InsertSynopticSnapshot(snap synoptic.Snapshot) error {
	blob, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO synoptic_snapshots (scanned_at, grid_points, systems, fronts, snapshot_json)
		VALUES (?, ?, ?, ?, ?)
	`, snap.ScannedAt, len(snap.Grid), len(snap.Systems), len(snap.Fronts), string(blob))
	return err
}

func (s *Store) GetLatestSynopticSnapshot() (*synoptic.Snapshot, error) {
	row := s.db.QueryRow(`SELECT snapshot_json FROM synoptic_snapshots ORDER BY scanned_at DESC, id DESC LIMIT 1`)

	var blob string
	err := row.Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var snap synoptic.Snapshot
	if err := json.Unmarshal([]byte(blob), &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

// PruneSynopticSnapshots deletes snapshots older than the cutoff, keeping at
// least the most recent one.
func (s *Store) PruneSynopticSnapshots(cutoff time.Time) (int64, error) {
	res, err := s.db.Exec(`
		DELETE FROM synoptic_snapshots
		WHERE scanned_at < ?
		AND id != (SELECT id FROM synoptic_snapshots ORDER BY scanned_at DESC, id DESC LIMIT 1)
	`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
