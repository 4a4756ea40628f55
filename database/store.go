// Package database - SQLite persistence for simulated segment histories
package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hydrosense/phealth-backend/model"
)

// ErrNotFound is returned when no record exists for the requested key.
var ErrNotFound = errors.New("record not found")

const schema = `
CREATE TABLE IF NOT EXISTS sensor_data (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	segment_id     TEXT NOT NULL,
	day            INTEGER NOT NULL,
	date           TEXT NOT NULL,
	pressure_a     REAL NOT NULL,
	flow_a         REAL NOT NULL,
	corrosion_a    REAL NOT NULL,
	acoustic_a     REAL NOT NULL,
	temperature_a  REAL NOT NULL,
	pressure_b     REAL NOT NULL,
	flow_b         REAL NOT NULL,
	corrosion_b    REAL NOT NULL,
	acoustic_b     REAL NOT NULL,
	temperature_b  REAL NOT NULL,
	wall_thickness REAL NOT NULL,
	corrosion_rate REAL NOT NULL,
	rul            REAL NOT NULL,
	UNIQUE(segment_id, day)
);

CREATE INDEX IF NOT EXISTS idx_sensor_data_segment_day
ON sensor_data(segment_id, day);
`

// Store persists per-day segment records in SQLite. Safe for concurrent use;
// database/sql serializes access to the single writer.
type Store struct {
	db *sql.DB
}

// Open opens the database at path and runs migrations. WAL keeps readers
// unblocked while the simulation loop writes.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// UpsertDay writes one record, replacing any existing row for the same
// (segment, day).
func (s *Store) UpsertDay(segmentID string, rec model.DailyRecord) error {
	_, err := s.db.Exec(upsertSQL, upsertArgs(segmentID, rec)...)
	if err != nil {
		return fmt.Errorf("upsert %s day %d: %w", segmentID, rec.Day, err)
	}
	return nil
}

const upsertSQL = `
INSERT INTO sensor_data
(segment_id, day, date,
 pressure_a, flow_a, corrosion_a, acoustic_a, temperature_a,
 pressure_b, flow_b, corrosion_b, acoustic_b, temperature_b,
 wall_thickness, corrosion_rate, rul)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(segment_id, day) DO UPDATE SET
 date = excluded.date,
 pressure_a = excluded.pressure_a, flow_a = excluded.flow_a,
 corrosion_a = excluded.corrosion_a, acoustic_a = excluded.acoustic_a,
 temperature_a = excluded.temperature_a,
 pressure_b = excluded.pressure_b, flow_b = excluded.flow_b,
 corrosion_b = excluded.corrosion_b, acoustic_b = excluded.acoustic_b,
 temperature_b = excluded.temperature_b,
 wall_thickness = excluded.wall_thickness,
 corrosion_rate = excluded.corrosion_rate,
 rul = excluded.rul`

func upsertArgs(segmentID string, rec model.DailyRecord) []any {
	return []any{
		segmentID, rec.Day, rec.Date.UTC().Format(time.RFC3339),
		rec.Upstream.Pressure, rec.Upstream.Flow, rec.Upstream.Corrosion,
		rec.Upstream.Acoustic, rec.Upstream.Temperature,
		rec.Downstream.Pressure, rec.Downstream.Flow, rec.Downstream.Corrosion,
		rec.Downstream.Acoustic, rec.Downstream.Temperature,
		rec.WallThickness, rec.CorrosionRate, rec.RUL,
	}
}

// ReplaceSegment atomically swaps a segment's entire history.
func (s *Store) ReplaceSegment(segmentID string, records []model.DailyRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM sensor_data WHERE segment_id = ?`, segmentID); err != nil {
		return fmt.Errorf("clear segment %s: %w", segmentID, err)
	}

	stmt, err := tx.Prepare(upsertSQL)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.Exec(upsertArgs(segmentID, rec)...); err != nil {
			return fmt.Errorf("insert %s day %d: %w", segmentID, rec.Day, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit segment %s: %w", segmentID, err)
	}
	return nil
}

const selectColumns = `
day, date,
pressure_a, flow_a, corrosion_a, acoustic_a, temperature_a,
pressure_b, flow_b, corrosion_b, acoustic_b, temperature_b,
wall_thickness, corrosion_rate, rul`

func scanRecord(row interface{ Scan(...any) error }) (model.DailyRecord, error) {
	var rec model.DailyRecord
	var date string
	err := row.Scan(
		&rec.Day, &date,
		&rec.Upstream.Pressure, &rec.Upstream.Flow, &rec.Upstream.Corrosion,
		&rec.Upstream.Acoustic, &rec.Upstream.Temperature,
		&rec.Downstream.Pressure, &rec.Downstream.Flow, &rec.Downstream.Corrosion,
		&rec.Downstream.Acoustic, &rec.Downstream.Temperature,
		&rec.WallThickness, &rec.CorrosionRate, &rec.RUL,
	)
	if err != nil {
		return model.DailyRecord{}, err
	}
	if rec.Date, err = time.Parse(time.RFC3339, date); err != nil {
		return model.DailyRecord{}, fmt.Errorf("parse date %q: %w", date, err)
	}
	return rec, nil
}

// GetDay fetches one record, or ErrNotFound.
func (s *Store) GetDay(segmentID string, day int) (model.DailyRecord, error) {
	row := s.db.QueryRow(
		`SELECT `+selectColumns+` FROM sensor_data WHERE segment_id = ? AND day = ?`,
		segmentID, day)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.DailyRecord{}, fmt.Errorf("%s day %d: %w", segmentID, day, ErrNotFound)
	}
	if err != nil {
		return model.DailyRecord{}, fmt.Errorf("get %s day %d: %w", segmentID, day, err)
	}
	return rec, nil
}

// LatestDay returns the highest stored day for a segment, or ErrNotFound for
// an unknown segment.
func (s *Store) LatestDay(segmentID string) (int, error) {
	var day sql.NullInt64
	err := s.db.QueryRow(
		`SELECT MAX(day) FROM sensor_data WHERE segment_id = ?`, segmentID).Scan(&day)
	if err != nil {
		return 0, fmt.Errorf("latest day %s: %w", segmentID, err)
	}
	if !day.Valid {
		return 0, fmt.Errorf("segment %s: %w", segmentID, ErrNotFound)
	}
	return int(day.Int64), nil
}

// History returns a segment's records through upToDay, oldest first. A
// non-positive upToDay returns the full history.
func (s *Store) History(segmentID string, upToDay int) ([]model.DailyRecord, error) {
	query := `SELECT ` + selectColumns + ` FROM sensor_data WHERE segment_id = ?`
	args := []any{segmentID}
	if upToDay > 0 {
		query += ` AND day <= ?`
		args = append(args, upToDay)
	}
	query += ` ORDER BY day ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("history %s: %w", segmentID, err)
	}
	defer rows.Close()

	var records []model.DailyRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("history %s: %w", segmentID, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history %s: %w", segmentID, err)
	}
	return records, nil
}

// SegmentIDs lists the distinct segments present in the store.
func (s *Store) SegmentIDs() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT segment_id FROM sensor_data ORDER BY segment_id`)
	if err != nil {
		return nil, fmt.Errorf("list segments: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("list segments: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
