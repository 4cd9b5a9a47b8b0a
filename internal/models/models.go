package models

import "time"

// NoData is the sentinel used for statistics computed over an empty result
// set. It is well outside every physical range, so callers can distinguish
// "no rows matched" from a computed zero.
const NoData = -999.0

// Measurement is a single validated float observation at one depth.
type Measurement struct {
	ProfileID    int       `json:"profile_id"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	Timestamp    time.Time `json:"timestamp"`
	DepthM       float64   `json:"depth_m"`
	PressureDbar float64   `json:"pressure_dbar"`
	TemperatureC float64   `json:"temperature_c"`
	SalinityPSU  float64   `json:"salinity_psu"`
}

// RawRow is an unvalidated row as delivered by a data source. Fields are
// pointers so sources can report missing values.
type RawRow struct {
	ProfileID    *int
	Latitude     *float64
	Longitude    *float64
	Timestamp    *time.Time
	DepthM       *float64
	PressureDbar *float64
	TemperatureC *float64
	SalinityPSU  *float64
}

// RawTable is the payload a data source hands to the validator: the column
// names it actually saw plus the parsed rows.
type RawTable struct {
	Columns []string
	Rows    []RawRow
}

// Dataset is an immutable ordered collection of validated measurements.
// It is created once per load and never mutated; reloads build a new one.
type Dataset struct {
	Rows     []Measurement
	LoadedAt time.Time
}

// Len returns the number of measurements in the dataset.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

// Variable names accepted in a FilterSpec variable-of-interest.
const (
	VariableTemperature = "temperature"
	VariableSalinity    = "salinity"
)

// FilterSpec holds optional query constraints. A nil bound imposes no
// constraint; filtering is conjunctive across set bounds.
type FilterSpec struct {
	MinDepth  *float64   `json:"min_depth,omitempty"`
	MaxDepth  *float64   `json:"max_depth,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	MinLat    *float64   `json:"min_lat,omitempty"`
	MaxLat    *float64   `json:"max_lat,omitempty"`
	MinLon    *float64   `json:"min_lon,omitempty"`
	MaxLon    *float64   `json:"max_lon,omitempty"`
	Region    string     `json:"region,omitempty"`
	Variable  string     `json:"variable,omitempty"`
}

// IsEmpty reports whether the filter imposes no data constraints. The variable
// of interest only selects what to plot, so it does not count as a constraint.
func (f FilterSpec) IsEmpty() bool {
	return f.MinDepth == nil && f.MaxDepth == nil &&
		f.StartDate == nil && f.EndDate == nil &&
		f.MinLat == nil && f.MaxLat == nil &&
		f.MinLon == nil && f.MaxLon == nil
}

// HasGeoBound reports whether any lat/lon bound is set.
func (f FilterSpec) HasGeoBound() bool {
	return f.MinLat != nil || f.MaxLat != nil || f.MinLon != nil || f.MaxLon != nil
}

// QueryType is the classified purpose of a query.
type QueryType string

const (
	QueryTypeData        QueryType = "data_query"
	QueryTypeExplanation QueryType = "explanation"
	QueryTypeGreeting    QueryType = "greeting"
	QueryTypeGeneral     QueryType = "general"
)

// QueryIntent pairs a query type with the filter parameters extracted from
// the query text. Filter is only populated for data queries.
type QueryIntent struct {
	Type   QueryType  `json:"type"`
	Filter FilterSpec `json:"filter"`
}

// VarStats holds min/mean/max for one numeric variable.
type VarStats struct {
	Min  float64 `json:"min"`
	Mean float64 `json:"mean"`
	Max  float64 `json:"max"`
}

// SummaryStatistics is the per-query aggregate over a filtered result set.
// When Count is zero every numeric field carries NoData and the time fields
// are zero values.
type SummaryStatistics struct {
	Count       int       `json:"count"`
	Profiles    int       `json:"profiles"`
	Temperature VarStats  `json:"temperature_c"`
	Salinity    VarStats  `json:"salinity_psu"`
	Depth       VarStats  `json:"depth_m"`
	Pressure    VarStats  `json:"pressure_dbar"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	MinLat      float64   `json:"min_lat"`
	MaxLat      float64   `json:"max_lat"`
	MinLon      float64   `json:"min_lon"`
	MaxLon      float64   `json:"max_lon"`
}

// PlotType selects the visualization shape for a data query.
type PlotType string

const (
	PlotProfile    PlotType = "profile"
	PlotMap        PlotType = "map"
	PlotScatter    PlotType = "scatter"
	PlotTimeSeries PlotType = "time_series"
	PlotHistogram  PlotType = "histogram"
)

// PlotArtifact is a self-contained visualization payload. HTML embeds the
// full document including the chart, so the boundary layer can inline or
// serve it without further fetches.
type PlotArtifact struct {
	ID               string    `json:"id"`
	Type             PlotType  `json:"type"`
	ContentType      string    `json:"content_type"`
	HTML             string    `json:"html"`
	GeneratedAt      time.Time `json:"generated_at"`
	InsufficientData bool      `json:"insufficient_data,omitempty"`
}

// QueryResult is the assembled answer for one query.
type QueryResult struct {
	TextResponse string             `json:"text_response"`
	Plot         *PlotArtifact      `json:"plot,omitempty"`
	Statistics   *SummaryStatistics `json:"summary_statistics,omitempty"`
	QueryType    QueryType          `json:"query_type"`
	Timestamp    time.Time          `json:"timestamp"`
}
