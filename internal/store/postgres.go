package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oceandata/floatchat/internal/models"
)

// PostgresSource reads measurements from an argo.measurements table.
type PostgresSource struct {
	pool *pgxpool.Pool
}

// NewPostgresSource connects a source backed by a pgx pool.
func NewPostgresSource(ctx context.Context, databaseURL string) (*PostgresSource, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	return &PostgresSource{pool: pool}, nil
}

// Close releases the pool resources.
func (p *PostgresSource) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

const measurementsSQL = `
    SELECT profile_id, latitude, longitude, ts, depth_m, pressure_dbar, temperature_c, salinity_psu
    FROM argo.measurements
    ORDER BY profile_id, ts, depth_m
`

// Fetch reads every measurement row. Columns are fixed by the query, so the
// schema check always passes; null cells surface as missing values.
func (p *PostgresSource) Fetch(ctx context.Context) (models.RawTable, error) {
	rows, err := p.pool.Query(ctx, measurementsSQL)
	if err != nil {
		return models.RawTable{}, fmt.Errorf("query measurements: %w", err)
	}
	defer rows.Close()

	table := models.RawTable{
		Columns: []string{
			"profile_id", "latitude", "longitude", "timestamp",
			"depth_m", "pressure_dbar", "temperature_c", "salinity_psu",
		},
	}

	for rows.Next() {
		var raw models.RawRow
		if err := rows.Scan(
			&raw.ProfileID,
			&raw.Latitude,
			&raw.Longitude,
			&raw.Timestamp,
			&raw.DepthM,
			&raw.PressureDbar,
			&raw.TemperatureC,
			&raw.SalinityPSU,
		); err != nil {
			return models.RawTable{}, err
		}
		table.Rows = append(table.Rows, raw)
	}

	return table, rows.Err()
}
