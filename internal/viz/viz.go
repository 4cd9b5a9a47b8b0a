package viz

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oceandata/floatchat/internal/models"
)

// contentType is carried on every artifact so the boundary layer can serve
// or inline it.
const contentType = "text/html; charset=utf-8"

// maxProfiles caps how many individual profiles a profile plot draws.
const maxProfiles = 10

// Generator builds self-contained plot artifacts from filtered measurements.
type Generator struct {
	logger *zap.Logger
}

// New creates a generator.
func New(logger *zap.Logger) *Generator {
	return &Generator{logger: logger}
}

// ChooseType picks a plot shape from the query text. Geographic words win
// a map, comparison words a scatter, temporal words a time series; the
// depth profile is the oceanographic default.
func ChooseType(query string) models.PlotType {
	q := strings.ToLower(query)

	switch {
	case strings.Contains(q, "map") || strings.Contains(q, "geographic") || strings.Contains(q, "location"):
		return models.PlotMap
	case strings.Contains(q, "relationship") || strings.Contains(q, "compare") ||
		strings.Contains(q, "t-s") || strings.Contains(q, "versus") || strings.Contains(q, " vs "):
		return models.PlotScatter
	case strings.Contains(q, "trend") || strings.Contains(q, "over time") ||
		strings.Contains(q, "time series") || strings.Contains(q, "temporal"):
		return models.PlotTimeSeries
	case strings.Contains(q, "distribution") || strings.Contains(q, "histogram"):
		return models.PlotHistogram
	default:
		return models.PlotProfile
	}
}

// Generate renders rows into an artifact of the given type. Scatter and
// time-series plots need at least two points; with fewer the artifact is
// tagged rather than failing, and the caller decides whether to surface it.
func (g *Generator) Generate(rows []models.Measurement, ptype models.PlotType, variable, title string) *models.PlotArtifact {
	if variable == "" {
		variable = models.VariableTemperature
	}
	if title == "" {
		title = defaultTitle(ptype, variable)
	}

	art := &models.PlotArtifact{
		ID:          uuid.NewString(),
		Type:        ptype,
		ContentType: contentType,
		GeneratedAt: time.Now().UTC(),
	}

	if needsTwoPoints(ptype) && len(rows) < 2 {
		art.InsufficientData = true
		art.HTML = wrapDocument(title, fmt.Sprintf(
			"<p>Not enough data for a %s plot (%d points).</p>",
			html.EscapeString(string(ptype)), len(rows)))
		return art
	}
	if len(rows) == 0 {
		art.InsufficientData = true
		art.HTML = wrapDocument(title, "<p>No measurements matched the query.</p>")
		return art
	}

	var svg string
	switch ptype {
	case models.PlotMap:
		svg = mapSVG(rows, variable)
	case models.PlotScatter:
		svg = scatterSVG(rows)
	case models.PlotTimeSeries:
		svg = timeSeriesSVG(rows, variable)
	case models.PlotHistogram:
		svg = histogramSVG(rows)
	default:
		svg = profileSVG(rows, variable)
	}

	art.HTML = wrapDocument(title, svg)
	g.logger.Debug("generated plot",
		zap.String("type", string(ptype)),
		zap.String("variable", variable),
		zap.Int("points", len(rows)))
	return art
}

func needsTwoPoints(ptype models.PlotType) bool {
	return ptype == models.PlotScatter || ptype == models.PlotTimeSeries
}

func defaultTitle(ptype models.PlotType, variable string) string {
	label := variableLabel(variable)
	switch ptype {
	case models.PlotMap:
		return "Geographic Distribution of " + label
	case models.PlotScatter:
		return "Temperature vs Salinity"
	case models.PlotTimeSeries:
		return "Time Series of " + label
	case models.PlotHistogram:
		return "Depth Distribution of Measurements"
	default:
		return label + " vs Depth Profile"
	}
}

func variableLabel(variable string) string {
	if variable == models.VariableSalinity {
		return "Salinity (PSU)"
	}
	return "Temperature (°C)"
}

// wrapDocument embeds the chart body in a complete HTML document with no
// external references, so the artifact renders anywhere it is inlined.
func wrapDocument(title, body string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: sans-serif; margin: 1rem; }
h2 { font-size: 1rem; font-weight: 600; }
svg { background: #fafafa; border: 1px solid #ddd; }
</style>
</head>
<body>
<h2>%s</h2>
%s
</body>
</html>
`, html.EscapeString(title), html.EscapeString(title), body)
}
