package store

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/oceandata/floatchat/internal/models"
)

// SampleSource generates synthetic Argo-like profiles for development and
// demos: surface temperature varies with latitude and decays with depth,
// salinity rises slowly with depth.
type SampleSource struct {
	Profiles int
	Depths   int
	Seed     int64
}

// DefaultSampleSource returns a deterministic source of moderate size.
func DefaultSampleSource() SampleSource {
	return SampleSource{Profiles: 200, Depths: 50, Seed: 42}
}

// Fetch builds the synthetic table. Generation is deterministic for a given
// seed.
func (s SampleSource) Fetch(ctx context.Context) (models.RawTable, error) {
	rng := rand.New(rand.NewSource(s.Seed))
	now := time.Now().UTC().Truncate(24 * time.Hour)

	table := models.RawTable{
		Columns: []string{
			"profile_id", "latitude", "longitude", "timestamp",
			"depth_m", "pressure_dbar", "temperature_c", "salinity_psu",
		},
		Rows: make([]models.RawRow, 0, s.Profiles*s.Depths),
	}

	maxDepth := 2000.0
	step := maxDepth / float64(s.Depths-1)

	for p := 0; p < s.Profiles; p++ {
		if err := ctx.Err(); err != nil {
			return models.RawTable{}, err
		}

		lat := rng.Float64()*140 - 70
		lon := rng.Float64()*360 - 180
		// Deployment date within the last five years.
		ts := now.AddDate(0, 0, -rng.Intn(5*365))

		surfaceTemp := 15 + 10*math.Cos(lat*math.Pi/180)
		surfaceSal := 35 + rng.NormFloat64()

		for d := 0; d < s.Depths; d++ {
			depth := float64(d) * step
			temp := surfaceTemp*math.Exp(-depth/1000) + rng.NormFloat64()*0.5
			sal := surfaceSal + 0.5*(depth/1000) + rng.NormFloat64()*0.1
			pressure := depth * 1.025

			profile := p
			latV, lonV, tsV := lat, lon, ts
			depthV, pressV, tempV, salV := depth, pressure, temp, sal
			table.Rows = append(table.Rows, models.RawRow{
				ProfileID:    &profile,
				Latitude:     &latV,
				Longitude:    &lonV,
				Timestamp:    &tsV,
				DepthM:       &depthV,
				PressureDbar: &pressV,
				TemperatureC: &tempV,
				SalinityPSU:  &salV,
			})
		}
	}

	return table, nil
}
