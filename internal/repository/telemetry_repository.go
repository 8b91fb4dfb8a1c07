package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/jengzang/polar-backend-go/internal/database"
	"github.com/jengzang/polar-backend-go/internal/models"
)

// TelemetryRepository handles database operations for telemetry samples
type TelemetryRepository struct {
	db *sql.DB
}

// NewTelemetryRepository creates a new telemetry repository
func NewTelemetryRepository(db *sql.DB) *TelemetryRepository {
	return &TelemetryRepository{db: db}
}

// InsertBatch stores samples in a single transaction
func (r *TelemetryRepository) InsertBatch(points []models.TelemetryPoint) error {
	return database.Transaction(r.db, func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`INSERT INTO telemetry_points
			(session_id, recorded_at, tws, twa, bsp, latitude, longitude)
			VALUES (?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for i, p := range points {
			_, err := stmt.Exec(p.SessionID, p.RecordedAt, p.TWS, p.TWA, p.BSP, p.Latitude, p.Longitude)
			if err != nil {
				return fmt.Errorf("failed to insert telemetry point %d: %w", i, err)
			}
		}
		return nil
	})
}

// Query retrieves samples matching the filter in chronological order.
// The TWS range is half-open: MinTWS <= tws < MaxTWS.
func (r *TelemetryRepository) Query(filter models.TelemetryFilter) ([]models.TelemetryPoint, error) {
	filter.Normalize()

	query := `SELECT id, session_id, recorded_at, tws, twa, bsp, latitude, longitude
		FROM telemetry_points`

	var conditions []string
	var args []interface{}

	if filter.StartTime > 0 {
		conditions = append(conditions, "recorded_at >= ?")
		args = append(args, filter.StartTime)
	}
	if filter.EndTime > 0 {
		conditions = append(conditions, "recorded_at <= ?")
		args = append(args, filter.EndTime)
	}
	if filter.SessionID != "" {
		conditions = append(conditions, "session_id = ?")
		args = append(args, filter.SessionID)
	}
	if filter.MinTWS > 0 {
		conditions = append(conditions, "tws >= ?")
		args = append(args, filter.MinTWS)
	}
	if filter.HasMaxTWS() {
		conditions = append(conditions, "tws < ?")
		args = append(args, filter.MaxTWS)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY recorded_at ASC, id ASC LIMIT ?"
	args = append(args, filter.Limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query telemetry: %w", err)
	}
	defer rows.Close()

	points := []models.TelemetryPoint{}
	for rows.Next() {
		var p models.TelemetryPoint
		var lat, lon sql.NullFloat64
		if err := rows.Scan(&p.ID, &p.SessionID, &p.RecordedAt, &p.TWS, &p.TWA, &p.BSP, &lat, &lon); err != nil {
			return nil, fmt.Errorf("failed to scan telemetry point: %w", err)
		}
		if lat.Valid && lon.Valid {
			p.Latitude = &lat.Float64
			p.Longitude = &lon.Float64
		}
		points = append(points, p)
	}

	return points, rows.Err()
}
