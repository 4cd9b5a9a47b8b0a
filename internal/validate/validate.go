package validate

import (
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/oceandata/floatchat/internal/models"
)

// RequiredColumns lists the columns every data source must provide.
var RequiredColumns = []string{
	"profile_id", "latitude", "longitude", "timestamp",
	"depth_m", "pressure_dbar", "temperature_c", "salinity_psu",
}

// Physical bounds for a well-formed measurement.
const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
	MinDepthM    = 0.0
	MaxDepthM    = 6000.0
	MinTempC     = -2.0
	MaxTempC     = 40.0
	MinSalinity  = 20.0
	MaxSalinity  = 45.0
)

// pressureFactor approximates dbar per meter of depth in seawater.
const pressureFactor = 1.025

// SchemaError reports required columns missing from a source. It fails the
// whole load.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return "missing required columns: " + strings.Join(e.Missing, ", ")
}

// DataQualityError reports a rejection ratio above the configured threshold.
type DataQualityError struct {
	Rejected  int
	Total     int
	Threshold float64
}

func (e *DataQualityError) Error() string {
	return fmt.Sprintf("rejected %d of %d rows (threshold %.1f%%)",
		e.Rejected, e.Total, e.Threshold*100)
}

// Report summarizes a validation pass.
type Report struct {
	Accepted       int
	Rejected       int
	SoftViolations int
}

// Validator checks raw rows against the measurement invariants.
type Validator struct {
	logger *zap.Logger
}

// New creates a validator.
func New(logger *zap.Logger) *Validator {
	return &Validator{logger: logger}
}

// Run validates a raw table and returns the surviving measurements plus a
// report. A missing required column is fatal; bad rows are dropped; a
// pressure-depth inconsistency is flagged but kept.
func (v *Validator) Run(table models.RawTable) ([]models.Measurement, Report, error) {
	if err := checkColumns(table.Columns); err != nil {
		return nil, Report{}, err
	}

	var report Report
	seen := make(map[rowKey]struct{}, len(table.Rows))
	out := make([]models.Measurement, 0, len(table.Rows))

	for i, raw := range table.Rows {
		m, ok := complete(raw)
		if !ok {
			report.Rejected++
			continue
		}

		if !inRange(m) {
			report.Rejected++
			continue
		}

		key := rowKey{profile: m.ProfileID, depth: m.DepthM, ts: m.Timestamp.UnixNano()}
		if _, dup := seen[key]; dup {
			// First occurrence wins.
			report.Rejected++
			continue
		}
		seen[key] = struct{}{}

		if !pressureConsistent(m.DepthM, m.PressureDbar) {
			report.SoftViolations++
			v.logger.Debug("pressure-depth inconsistency",
				zap.Int("row", i),
				zap.Float64("depth_m", m.DepthM),
				zap.Float64("pressure_dbar", m.PressureDbar))
		}

		out = append(out, m)
		report.Accepted++
	}

	return out, report, nil
}

// CheckQuality returns a DataQualityError when the rejection ratio exceeds
// the threshold. A table with no rows at all is handled by the caller.
func CheckQuality(report Report, threshold float64) error {
	total := report.Accepted + report.Rejected
	if total == 0 {
		return nil
	}
	if float64(report.Rejected)/float64(total) > threshold {
		return &DataQualityError{Rejected: report.Rejected, Total: total, Threshold: threshold}
	}
	return nil
}

type rowKey struct {
	profile int
	depth   float64
	ts      int64
}

func checkColumns(columns []string) error {
	present := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		present[strings.ToLower(strings.TrimSpace(c))] = struct{}{}
	}

	var missing []string
	for _, want := range RequiredColumns {
		if _, ok := present[want]; !ok {
			missing = append(missing, want)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}
	return nil
}

// complete materializes a raw row, rejecting nil or NaN fields.
func complete(raw models.RawRow) (models.Measurement, bool) {
	if raw.ProfileID == nil || raw.Timestamp == nil {
		return models.Measurement{}, false
	}
	fields := []*float64{
		raw.Latitude, raw.Longitude, raw.DepthM,
		raw.PressureDbar, raw.TemperatureC, raw.SalinityPSU,
	}
	for _, f := range fields {
		if f == nil || math.IsNaN(*f) || math.IsInf(*f, 0) {
			return models.Measurement{}, false
		}
	}

	return models.Measurement{
		ProfileID:    *raw.ProfileID,
		Latitude:     *raw.Latitude,
		Longitude:    *raw.Longitude,
		Timestamp:    (*raw.Timestamp).UTC(),
		DepthM:       *raw.DepthM,
		PressureDbar: *raw.PressureDbar,
		TemperatureC: *raw.TemperatureC,
		SalinityPSU:  *raw.SalinityPSU,
	}, true
}

func inRange(m models.Measurement) bool {
	return m.Latitude >= MinLatitude && m.Latitude <= MaxLatitude &&
		m.Longitude >= MinLongitude && m.Longitude <= MaxLongitude &&
		m.DepthM >= MinDepthM && m.DepthM <= MaxDepthM &&
		m.TemperatureC >= MinTempC && m.TemperatureC <= MaxTempC &&
		m.SalinityPSU >= MinSalinity && m.SalinityPSU <= MaxSalinity
}

// pressureConsistent checks pressure against the depth-derived expectation.
// Tolerance widens with depth so surface rows are not over-flagged.
func pressureConsistent(depthM, pressureDbar float64) bool {
	expected := depthM * pressureFactor
	tolerance := math.Max(25, expected*0.05)
	return math.Abs(pressureDbar-expected) <= tolerance
}
