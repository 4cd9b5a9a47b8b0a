package engine

import (
	"time"

	"github.com/oceandata/floatchat/internal/models"
)

// Apply filters a dataset and computes summary statistics in a single pass.
// Bounds combine conjunctively; an unset bound never constrains. An empty
// spec therefore returns the whole dataset. Zero matching rows yield stats
// carrying the NoData sentinel rather than NaN.
func Apply(ds *models.Dataset, spec models.FilterSpec) ([]models.Measurement, models.SummaryStatistics) {
	var acc accumulator
	matched := make([]models.Measurement, 0)

	if ds != nil {
		for _, m := range ds.Rows {
			if !matches(m, spec) {
				continue
			}
			matched = append(matched, m)
			acc.add(m)
		}
	}

	return matched, acc.stats()
}

func matches(m models.Measurement, spec models.FilterSpec) bool {
	if spec.MinDepth != nil && m.DepthM < *spec.MinDepth {
		return false
	}
	if spec.MaxDepth != nil && m.DepthM > *spec.MaxDepth {
		return false
	}
	if spec.StartDate != nil && m.Timestamp.Before(*spec.StartDate) {
		return false
	}
	if spec.EndDate != nil && m.Timestamp.After(*spec.EndDate) {
		return false
	}
	if spec.MinLat != nil && m.Latitude < *spec.MinLat {
		return false
	}
	if spec.MaxLat != nil && m.Latitude > *spec.MaxLat {
		return false
	}
	if !lonMatches(m.Longitude, spec.MinLon, spec.MaxLon) {
		return false
	}
	return true
}

// lonMatches handles basins that cross the antimeridian: when min > max the
// band wraps, so a longitude matches on either side of the seam.
func lonMatches(lon float64, min, max *float64) bool {
	switch {
	case min == nil && max == nil:
		return true
	case min == nil:
		return lon <= *max
	case max == nil:
		return lon >= *min
	case *min <= *max:
		return lon >= *min && lon <= *max
	default:
		return lon >= *min || lon <= *max
	}
}

type varAcc struct {
	min, max, sum float64
}

func (v *varAcc) add(x float64, first bool) {
	if first {
		v.min, v.max = x, x
	} else {
		if x < v.min {
			v.min = x
		}
		if x > v.max {
			v.max = x
		}
	}
	v.sum += x
}

func (v varAcc) stats(count int) models.VarStats {
	if count == 0 {
		return models.VarStats{Min: models.NoData, Mean: models.NoData, Max: models.NoData}
	}
	return models.VarStats{Min: v.min, Mean: v.sum / float64(count), Max: v.max}
}

type accumulator struct {
	count       int
	profiles    map[int]struct{}
	temperature varAcc
	salinity    varAcc
	depth       varAcc
	pressure    varAcc
	start, end  time.Time
	minLat      float64
	maxLat      float64
	minLon      float64
	maxLon      float64
}

func (a *accumulator) add(m models.Measurement) {
	first := a.count == 0
	if first {
		a.profiles = make(map[int]struct{})
		a.start, a.end = m.Timestamp, m.Timestamp
		a.minLat, a.maxLat = m.Latitude, m.Latitude
		a.minLon, a.maxLon = m.Longitude, m.Longitude
	} else {
		if m.Timestamp.Before(a.start) {
			a.start = m.Timestamp
		}
		if m.Timestamp.After(a.end) {
			a.end = m.Timestamp
		}
		if m.Latitude < a.minLat {
			a.minLat = m.Latitude
		}
		if m.Latitude > a.maxLat {
			a.maxLat = m.Latitude
		}
		if m.Longitude < a.minLon {
			a.minLon = m.Longitude
		}
		if m.Longitude > a.maxLon {
			a.maxLon = m.Longitude
		}
	}

	a.temperature.add(m.TemperatureC, first)
	a.salinity.add(m.SalinityPSU, first)
	a.depth.add(m.DepthM, first)
	a.pressure.add(m.PressureDbar, first)
	a.profiles[m.ProfileID] = struct{}{}
	a.count++
}

func (a accumulator) stats() models.SummaryStatistics {
	s := models.SummaryStatistics{
		Count:       a.count,
		Temperature: a.temperature.stats(a.count),
		Salinity:    a.salinity.stats(a.count),
		Depth:       a.depth.stats(a.count),
		Pressure:    a.pressure.stats(a.count),
	}

	if a.count == 0 {
		s.MinLat, s.MaxLat = models.NoData, models.NoData
		s.MinLon, s.MaxLon = models.NoData, models.NoData
		return s
	}

	s.Profiles = len(a.profiles)
	s.StartDate, s.EndDate = a.start, a.end
	s.MinLat, s.MaxLat = a.minLat, a.maxLat
	s.MinLon, s.MaxLon = a.minLon, a.maxLon
	return s
}
