package viz

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/oceandata/floatchat/internal/models"
)

const (
	chartWidth  = 640
	chartHeight = 420
	chartMargin = 50
)

// profilePalette colors individual float profiles.
var profilePalette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

type scale struct {
	min, max float64
	lo, hi   float64
}

func newScale(min, max, lo, hi float64) scale {
	if max == min {
		// Degenerate domain: park everything mid-range.
		max = min + 1
	}
	return scale{min: min, max: max, lo: lo, hi: hi}
}

func (s scale) at(v float64) float64 {
	return s.lo + (v-s.min)/(s.max-s.min)*(s.hi-s.lo)
}

// heatColor interpolates blue to red for a fraction in [0,1].
func heatColor(t float64) string {
	t = math.Max(0, math.Min(1, t))
	r := int(33 + t*(178-33))
	g := int(102 + t*(24-102))
	b := int(172 + t*(43-172))
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func value(m models.Measurement, variable string) float64 {
	if variable == models.VariableSalinity {
		return m.SalinityPSU
	}
	return m.TemperatureC
}

func openSVG(b *strings.Builder) {
	fmt.Fprintf(b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		chartWidth, chartHeight, chartWidth, chartHeight)
	b.WriteString("\n")
}

// axes draws the plot frame with min/max labels on both axes.
func axes(b *strings.Builder, xLabel, yLabel string, xs, ys scale) {
	left, right := chartMargin, chartWidth-chartMargin
	top, bottom := chartMargin/2, chartHeight-chartMargin

	fmt.Fprintf(b, `<rect x="%d" y="%d" width="%d" height="%d" fill="none" stroke="#999"/>`,
		left, top, right-left, bottom-top)
	fmt.Fprintf(b, `<text x="%d" y="%d" font-size="11" text-anchor="middle">%s</text>`,
		(left+right)/2, chartHeight-8, xLabel)
	fmt.Fprintf(b, `<text x="14" y="%d" font-size="11" text-anchor="middle" transform="rotate(-90 14 %d)">%s</text>`,
		(top+bottom)/2, (top+bottom)/2, yLabel)
	fmt.Fprintf(b, `<text x="%d" y="%d" font-size="10">%.1f</text>`, left, bottom+14, xs.min)
	fmt.Fprintf(b, `<text x="%d" y="%d" font-size="10" text-anchor="end">%.1f</text>`, right, bottom+14, xs.max)
	fmt.Fprintf(b, `<text x="%d" y="%d" font-size="10" text-anchor="end">%.1f</text>`, left-4, int(ys.at(ys.min))+4, ys.min)
	fmt.Fprintf(b, `<text x="%d" y="%d" font-size="10" text-anchor="end">%.1f</text>`, left-4, int(ys.at(ys.max))+4, ys.max)
	b.WriteString("\n")
}

// profileSVG draws per-profile variable-vs-depth lines with depth increasing
// downward, the oceanographic convention.
func profileSVG(rows []models.Measurement, variable string) string {
	byProfile := make(map[int][]models.Measurement)
	var order []int
	for _, m := range rows {
		if _, ok := byProfile[m.ProfileID]; !ok {
			order = append(order, m.ProfileID)
		}
		byProfile[m.ProfileID] = append(byProfile[m.ProfileID], m)
	}
	if len(order) > maxProfiles {
		order = order[:maxProfiles]
	}

	vMin, vMax := math.Inf(1), math.Inf(-1)
	dMin, dMax := math.Inf(1), math.Inf(-1)
	for _, id := range order {
		for _, m := range byProfile[id] {
			v := value(m, variable)
			vMin, vMax = math.Min(vMin, v), math.Max(vMax, v)
			dMin, dMax = math.Min(dMin, m.DepthM), math.Max(dMax, m.DepthM)
		}
	}

	xs := newScale(vMin, vMax, chartMargin, chartWidth-chartMargin)
	ys := newScale(dMin, dMax, float64(chartMargin/2), float64(chartHeight-chartMargin))

	var b strings.Builder
	openSVG(&b)
	axes(&b, variableLabel(variable), "Depth (m)", xs, ys)

	for i, id := range order {
		points := append([]models.Measurement(nil), byProfile[id]...)
		sort.Slice(points, func(a, c int) bool { return points[a].DepthM < points[c].DepthM })

		var coords []string
		for _, m := range points {
			coords = append(coords, fmt.Sprintf("%.1f,%.1f", xs.at(value(m, variable)), ys.at(m.DepthM)))
		}
		color := profilePalette[i%len(profilePalette)]
		fmt.Fprintf(&b, `<polyline points="%s" fill="none" stroke="%s" stroke-width="1.5"><title>Profile %d</title></polyline>`,
			strings.Join(coords, " "), color, id)
		b.WriteString("\n")
	}

	b.WriteString("</svg>")
	return b.String()
}

// scatterSVG draws the T-S diagram colored by depth.
func scatterSVG(rows []models.Measurement) string {
	rows = sampled(rows, 2000)

	sMin, sMax := math.Inf(1), math.Inf(-1)
	tMin, tMax := math.Inf(1), math.Inf(-1)
	dMax := 0.0
	for _, m := range rows {
		sMin, sMax = math.Min(sMin, m.SalinityPSU), math.Max(sMax, m.SalinityPSU)
		tMin, tMax = math.Min(tMin, m.TemperatureC), math.Max(tMax, m.TemperatureC)
		dMax = math.Max(dMax, m.DepthM)
	}
	if dMax == 0 {
		dMax = 1
	}

	xs := newScale(sMin, sMax, chartMargin, chartWidth-chartMargin)
	ys := newScale(tMin, tMax, float64(chartHeight-chartMargin), float64(chartMargin/2))

	var b strings.Builder
	openSVG(&b)
	axes(&b, "Salinity (PSU)", "Temperature (°C)", xs, ys)
	for _, m := range rows {
		fmt.Fprintf(&b, `<circle cx="%.1f" cy="%.1f" r="2.5" fill="%s" fill-opacity="0.7"><title>%.2f PSU, %.2f °C at %.0f m</title></circle>`,
			xs.at(m.SalinityPSU), ys.at(m.TemperatureC), heatColor(m.DepthM/dMax),
			m.SalinityPSU, m.TemperatureC, m.DepthM)
		b.WriteString("\n")
	}
	b.WriteString("</svg>")
	return b.String()
}

// mapSVG draws surface measurements on a fixed plate-carree grid.
func mapSVG(rows []models.Measurement, variable string) string {
	surface := surfaceRows(rows)
	surface = sampled(surface, 1000)

	vMin, vMax := math.Inf(1), math.Inf(-1)
	for _, m := range surface {
		v := value(m, variable)
		vMin, vMax = math.Min(vMin, v), math.Max(vMax, v)
	}
	span := vMax - vMin
	if span == 0 {
		span = 1
	}

	xs := newScale(-180, 180, chartMargin, chartWidth-chartMargin)
	ys := newScale(-90, 90, float64(chartHeight-chartMargin), float64(chartMargin/2))

	var b strings.Builder
	openSVG(&b)
	axes(&b, "Longitude", "Latitude", xs, ys)
	// Equator and prime meridian reference lines.
	fmt.Fprintf(&b, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#ccc" stroke-dasharray="4 3"/>`,
		xs.at(-180), ys.at(0), xs.at(180), ys.at(0))
	fmt.Fprintf(&b, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#ccc" stroke-dasharray="4 3"/>`,
		xs.at(0), ys.at(-90), xs.at(0), ys.at(90))

	for _, m := range surface {
		v := value(m, variable)
		fmt.Fprintf(&b, `<circle cx="%.1f" cy="%.1f" r="3" fill="%s" fill-opacity="0.8"><title>%.2f°, %.2f°: %.2f</title></circle>`,
			xs.at(m.Longitude), ys.at(m.Latitude), heatColor((v-vMin)/span),
			m.Latitude, m.Longitude, v)
		b.WriteString("\n")
	}
	b.WriteString("</svg>")
	return b.String()
}

// timeSeriesSVG draws daily means of the variable.
func timeSeriesSVG(rows []models.Measurement, variable string) string {
	type bucket struct {
		sum float64
		n   int
	}
	daily := make(map[time.Time]*bucket)
	for _, m := range rows {
		day := m.Timestamp.Truncate(24 * time.Hour)
		if daily[day] == nil {
			daily[day] = &bucket{}
		}
		daily[day].sum += value(m, variable)
		daily[day].n++
	}

	days := make([]time.Time, 0, len(daily))
	for day := range daily {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	vMin, vMax := math.Inf(1), math.Inf(-1)
	for _, day := range days {
		mean := daily[day].sum / float64(daily[day].n)
		vMin, vMax = math.Min(vMin, mean), math.Max(vMax, mean)
	}

	first, last := days[0], days[len(days)-1]
	xs := newScale(0, math.Max(1, last.Sub(first).Hours()), chartMargin, chartWidth-chartMargin)
	ys := newScale(vMin, vMax, float64(chartHeight-chartMargin), float64(chartMargin/2))

	var b strings.Builder
	openSVG(&b)
	axes(&b, fmt.Sprintf("Date (%s to %s)", first.Format("2006-01-02"), last.Format("2006-01-02")),
		variableLabel(variable), xs, ys)

	var coords []string
	for _, day := range days {
		mean := daily[day].sum / float64(daily[day].n)
		x, y := xs.at(day.Sub(first).Hours()), ys.at(mean)
		coords = append(coords, fmt.Sprintf("%.1f,%.1f", x, y))
		fmt.Fprintf(&b, `<circle cx="%.1f" cy="%.1f" r="2.5" fill="#1f77b4"><title>%s: %.2f</title></circle>`,
			x, y, day.Format("2006-01-02"), mean)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, `<polyline points="%s" fill="none" stroke="#1f77b4" stroke-width="1.5"/>`,
		strings.Join(coords, " "))
	b.WriteString("</svg>")
	return b.String()
}

// histogramSVG draws the depth distribution of the result set.
func histogramSVG(rows []models.Measurement) string {
	const bins = 30

	dMin, dMax := math.Inf(1), math.Inf(-1)
	for _, m := range rows {
		dMin, dMax = math.Min(dMin, m.DepthM), math.Max(dMax, m.DepthM)
	}
	width := (dMax - dMin) / bins
	if width == 0 {
		width = 1
	}

	counts := make([]int, bins)
	peak := 0
	for _, m := range rows {
		i := int((m.DepthM - dMin) / width)
		if i >= bins {
			i = bins - 1
		}
		counts[i]++
		if counts[i] > peak {
			peak = counts[i]
		}
	}

	xs := newScale(dMin, dMax, chartMargin, chartWidth-chartMargin)
	ys := newScale(0, float64(peak), float64(chartHeight-chartMargin), float64(chartMargin/2))

	var b strings.Builder
	openSVG(&b)
	axes(&b, "Depth (m)", "Measurements", xs, ys)
	for i, n := range counts {
		if n == 0 {
			continue
		}
		x0 := xs.at(dMin + float64(i)*width)
		x1 := xs.at(dMin + float64(i+1)*width)
		y := ys.at(float64(n))
		fmt.Fprintf(&b, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="#1f77b4" fill-opacity="0.8"><title>%.0f-%.0f m: %d</title></rect>`,
			x0, y, x1-x0-1, float64(chartHeight-chartMargin)-y,
			dMin+float64(i)*width, dMin+float64(i+1)*width, n)
		b.WriteString("\n")
	}
	b.WriteString("</svg>")
	return b.String()
}

// surfaceRows keeps one near-surface row per profile, falling back to the
// first row seen when a profile has no shallow measurement.
func surfaceRows(rows []models.Measurement) []models.Measurement {
	best := make(map[int]models.Measurement)
	var order []int
	for _, m := range rows {
		cur, ok := best[m.ProfileID]
		if !ok {
			order = append(order, m.ProfileID)
			best[m.ProfileID] = m
			continue
		}
		if m.DepthM < cur.DepthM {
			best[m.ProfileID] = m
		}
	}

	out := make([]models.Measurement, 0, len(order))
	for _, id := range order {
		out = append(out, best[id])
	}
	return out
}

// sampled strides over rows to cap the point count.
func sampled(rows []models.Measurement, limit int) []models.Measurement {
	if len(rows) <= limit {
		return rows
	}
	step := len(rows) / limit
	out := make([]models.Measurement, 0, limit)
	for i := 0; i < len(rows) && len(out) < limit; i += step {
		out = append(out, rows[i])
	}
	return out
}
