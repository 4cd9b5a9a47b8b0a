package viz

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/oceandata/floatchat/internal/models"
)

func sampleRows(profiles, depths int) []models.Measurement {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var rows []models.Measurement
	for p := 0; p < profiles; p++ {
		for d := 0; d < depths; d++ {
			depth := float64(d) * 100
			rows = append(rows, models.Measurement{
				ProfileID:    p,
				Latitude:     float64(p*5 - 30),
				Longitude:    float64(p*10 - 60),
				Timestamp:    base.AddDate(0, 0, p),
				DepthM:       depth,
				PressureDbar: depth * 1.025,
				TemperatureC: 20 - depth/150,
				SalinityPSU:  34 + depth/2000,
			})
		}
	}
	return rows
}

func TestChooseType(t *testing.T) {
	cases := []struct {
		query string
		want  models.PlotType
	}{
		{"show me temperature profiles from the atlantic", models.PlotProfile},
		{"map of salinity measurements", models.PlotMap},
		{"geographic distribution of temperature", models.PlotMap},
		{"relationship between temperature and salinity", models.PlotScatter},
		{"compare temperature and salinity", models.PlotScatter},
		{"temperature trend over time", models.PlotTimeSeries},
		{"distribution of measurement depths", models.PlotHistogram},
		{"salinity please", models.PlotProfile},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, ChooseType(tc.query), "query %q", tc.query)
	}
}

func TestGenerate_ProfilePlot(t *testing.T) {
	g := New(zap.NewNop())

	art := g.Generate(sampleRows(3, 10), models.PlotProfile, models.VariableTemperature, "")

	require.NotNil(t, art)
	assert.False(t, art.InsufficientData)
	assert.NotEmpty(t, art.ID)
	assert.Equal(t, models.PlotProfile, art.Type)
	assert.Equal(t, "text/html; charset=utf-8", art.ContentType)
	assert.Contains(t, art.HTML, "<svg")
	assert.Contains(t, art.HTML, "polyline")
	assert.Contains(t, art.HTML, "Depth (m)")
}

func TestGenerate_SelfContained(t *testing.T) {
	g := New(zap.NewNop())

	for _, ptype := range []models.PlotType{
		models.PlotProfile, models.PlotMap, models.PlotScatter,
		models.PlotTimeSeries, models.PlotHistogram,
	} {
		art := g.Generate(sampleRows(4, 12), ptype, models.VariableSalinity, "")
		require.NotNil(t, art, "type %s", ptype)

		assert.True(t, strings.HasPrefix(art.HTML, "<!DOCTYPE html>"), "type %s", ptype)
		// No external fetches: no scripts, stylesheets, or images.
		assert.NotContains(t, art.HTML, "<script", "type %s", ptype)
		assert.NotContains(t, art.HTML, "<link", "type %s", ptype)
		assert.NotContains(t, art.HTML, "<img", "type %s", ptype)
	}
}

func TestGenerate_InsufficientData(t *testing.T) {
	g := New(zap.NewNop())
	one := sampleRows(1, 1)

	t.Run("scatter needs two points", func(t *testing.T) {
		art := g.Generate(one, models.PlotScatter, "", "")
		require.NotNil(t, art)
		assert.True(t, art.InsufficientData)
		assert.NotEmpty(t, art.HTML)
	})

	t.Run("time series needs two points", func(t *testing.T) {
		art := g.Generate(one, models.PlotTimeSeries, "", "")
		assert.True(t, art.InsufficientData)
	})

	t.Run("profile renders a single point", func(t *testing.T) {
		art := g.Generate(one, models.PlotProfile, "", "")
		assert.False(t, art.InsufficientData)
	})

	t.Run("no rows at all", func(t *testing.T) {
		art := g.Generate(nil, models.PlotProfile, "", "")
		assert.True(t, art.InsufficientData)
	})
}

func TestGenerate_ProfileLimit(t *testing.T) {
	g := New(zap.NewNop())

	art := g.Generate(sampleRows(25, 5), models.PlotProfile, models.VariableTemperature, "")

	// Profile plots cap the number of lines for readability.
	assert.Equal(t, maxProfiles, strings.Count(art.HTML, "<polyline"))
}

func TestGenerate_TitleEscaping(t *testing.T) {
	g := New(zap.NewNop())

	art := g.Generate(sampleRows(2, 5), models.PlotProfile, "", `<script>alert("x")</script>`)

	assert.NotContains(t, art.HTML, "<script>")
	assert.Contains(t, art.HTML, "&lt;script&gt;")
}
