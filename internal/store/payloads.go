package store

import (
	"bytes"
	"compress/gzip"
	"database/sql"
	"fmt"
	"io"
	"time"
)

// StoreRawPayload gzips and stores an API response body for auditing,
// returning its ID. Payloads are kept once per fetch rather than alongside
// every sample row derived from them.
func (s *Store) StoreRawPayload(runID *int64, source, endpoint string, farmName *string, payload []byte) (int64, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(payload); err != nil {
		return 0, fmt.Errorf("compress payload: %w", err)
	}
	if err := gz.Close(); err != nil {
		return 0, fmt.Errorf("close gzip: %w", err)
	}

	var ingestRunID sql.NullInt64
	if runID != nil {
		ingestRunID = sql.NullInt64{Int64: *runID, Valid: true}
	}
	var farmNameNull sql.NullString
	if farmName != nil {
		farmNameNull = sql.NullString{String: *farmName, Valid: true}
	}

	result, err := s.db.Exec(`
		INSERT INTO raw_payloads (ingest_run_id, fetched_at, source, endpoint, farm_name, payload_compressed)
		VALUES (?, ?, ?, ?, ?, ?)
	`, ingestRunID, time.Now().UTC(), source, endpoint, farmNameNull, buf.Bytes())
	if err != nil {
		return 0, fmt.Errorf("insert raw payload: %w", err)
	}
	return result.LastInsertId()
}

// GetRawPayload retrieves and decompresses a stored payload by ID.
func (s *Store) GetRawPayload(id int64) ([]byte, error) {
	var compressed []byte
	err := s.db.QueryRow(`SELECT payload_compressed FROM raw_payloads WHERE id = ?`, id).
		Scan(&compressed)
	if err != nil {
		return nil, err
	}

	gz, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("create gzip reader: %w", err)
	}
	defer gz.Close()

	return io.ReadAll(gz)
}

// PruneRawPayloads deletes payloads fetched before the cutoff and returns
// the number of rows removed.
func (s *Store) PruneRawPayloads(cutoff time.Time) (int64, error) {
	result, err := s.db.Exec(`DELETE FROM raw_payloads WHERE fetched_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
