package classify

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/oceandata/floatchat/internal/models"
)

func newTestClassifier(t *testing.T) *Classifier {
	t.Helper()
	c := New(nil, zap.NewNop())
	c.now = func() time.Time {
		return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	}
	return c
}

func TestClassify_DataQueryWithRegionAndVariable(t *testing.T) {
	c := newTestClassifier(t)

	intent := c.Classify("Show me temperature profiles from the Atlantic Ocean")

	assert.Equal(t, models.QueryTypeData, intent.Type)
	assert.Equal(t, models.VariableTemperature, intent.Filter.Variable)
	assert.Equal(t, "atlantic", intent.Filter.Region)
	require.True(t, intent.Filter.HasGeoBound())
	assert.Equal(t, -60.0, *intent.Filter.MinLat)
	assert.Equal(t, 70.0, *intent.Filter.MaxLat)
}

func TestClassify_Explanation(t *testing.T) {
	c := newTestClassifier(t)

	intent := c.Classify("Explain how Argo floats work")

	assert.Equal(t, models.QueryTypeExplanation, intent.Type)
	assert.True(t, intent.Filter.IsEmpty())
}

func TestClassify_DataKeywordsBeatExplanationKeywords(t *testing.T) {
	c := newTestClassifier(t)

	// "what is" alone reads as explanation, but the statistical keyword
	// means the user wants numbers.
	intent := c.Classify("What is the average salinity in the Pacific?")

	assert.Equal(t, models.QueryTypeData, intent.Type)
	assert.Equal(t, models.VariableSalinity, intent.Filter.Variable)
	assert.Equal(t, "pacific", intent.Filter.Region)
}

func TestClassify_Greetings(t *testing.T) {
	c := newTestClassifier(t)

	for _, q := range []string{"hi", "Hello!", "hey", "Good morning"} {
		intent := c.Classify(q)
		assert.Equal(t, models.QueryTypeGreeting, intent.Type, "query %q", q)
	}

	// Greetings only match exactly: a real question is never a greeting.
	intent := c.Classify("hello, show me salinity data")
	assert.Equal(t, models.QueryTypeData, intent.Type)
}

func TestClassify_UnrecognizedDefaultsToGeneral(t *testing.T) {
	c := newTestClassifier(t)

	for _, q := range []string{"", "qwerty asdf", "tell me a joke"} {
		intent := c.Classify(q)
		assert.Equal(t, models.QueryTypeGeneral, intent.Type, "query %q", q)
		assert.True(t, intent.Filter.IsEmpty())
	}
}

func TestClassify_DepthExtraction(t *testing.T) {
	c := newTestClassifier(t)

	t.Run("explicit range", func(t *testing.T) {
		intent := c.Classify("show me temperature between 500 and 1500 meters")
		require.NotNil(t, intent.Filter.MinDepth)
		require.NotNil(t, intent.Filter.MaxDepth)
		assert.Equal(t, 500.0, *intent.Filter.MinDepth)
		assert.Equal(t, 1500.0, *intent.Filter.MaxDepth)
	})

	t.Run("reversed range is normalized", func(t *testing.T) {
		intent := c.Classify("temperature data from 1500 to 500 m")
		assert.Equal(t, 500.0, *intent.Filter.MinDepth)
		assert.Equal(t, 1500.0, *intent.Filter.MaxDepth)
	})

	t.Run("deeper than", func(t *testing.T) {
		intent := c.Classify("salinity deeper than 1000 m")
		require.NotNil(t, intent.Filter.MinDepth)
		assert.Equal(t, 1000.0, *intent.Filter.MinDepth)
		assert.Nil(t, intent.Filter.MaxDepth)
	})

	t.Run("qualitative words", func(t *testing.T) {
		surface := c.Classify("show me surface temperature")
		require.NotNil(t, surface.Filter.MaxDepth)
		assert.Equal(t, 50.0, *surface.Filter.MaxDepth)

		deep := c.Classify("deep ocean salinity data")
		require.NotNil(t, deep.Filter.MinDepth)
		assert.Equal(t, 1000.0, *deep.Filter.MinDepth)
	})
}

func TestClassify_DateExtraction(t *testing.T) {
	c := newTestClassifier(t)

	t.Run("relative span", func(t *testing.T) {
		intent := c.Classify("temperature trend over the last 2 years")
		require.NotNil(t, intent.Filter.StartDate)
		assert.Equal(t, time.Date(2023, 6, 15, 12, 0, 0, 0, time.UTC), *intent.Filter.StartDate)
		assert.Nil(t, intent.Filter.EndDate)
	})

	t.Run("explicit year", func(t *testing.T) {
		intent := c.Classify("show salinity data in 2023")
		require.NotNil(t, intent.Filter.StartDate)
		require.NotNil(t, intent.Filter.EndDate)
		assert.Equal(t, 2023, intent.Filter.StartDate.Year())
		assert.Equal(t, 2023, intent.Filter.EndDate.Year())
	})
}

func TestLoadRegions(t *testing.T) {
	t.Run("reads overrides", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "regions.yaml")
		content := "mediterranean:\n  min_lat: 30\n  max_lat: 46\n  min_lon: -6\n  max_lon: 36\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		regions, err := LoadRegions(path)

		require.NoError(t, err)
		require.Contains(t, regions, "mediterranean")
		assert.Equal(t, 46.0, regions["mediterranean"].MaxLat)
	})

	t.Run("missing file fails", func(t *testing.T) {
		_, err := LoadRegions(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("custom regions drive classification", func(t *testing.T) {
		c := New(map[string]Region{"baltic": {MinLat: 53, MaxLat: 66, MinLon: 10, MaxLon: 30}}, zap.NewNop())

		intent := c.Classify("show me temperature in the baltic")

		assert.Equal(t, "baltic", intent.Filter.Region)
		assert.Equal(t, 53.0, *intent.Filter.MinLat)
	})
}
