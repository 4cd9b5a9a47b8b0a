package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/oceandata/floatchat/internal/models"
	"github.com/oceandata/floatchat/internal/validate"
)

type stubSource struct {
	table models.RawTable
	err   error
}

func (s stubSource) Fetch(context.Context) (models.RawTable, error) {
	return s.table, s.err
}

func validTable(n int) models.RawTable {
	ts := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	table := models.RawTable{Columns: validate.RequiredColumns}
	for i := 0; i < n; i++ {
		profile := i
		lat, lon := 10.0, 20.0
		depth := float64(i)
		pressure := depth * 1.025
		temp, sal := 15.0, 35.0
		when := ts
		table.Rows = append(table.Rows, models.RawRow{
			ProfileID:    &profile,
			Latitude:     &lat,
			Longitude:    &lon,
			Timestamp:    &when,
			DepthM:       &depth,
			PressureDbar: &pressure,
			TemperatureC: &temp,
			SalinityPSU:  &sal,
		})
	}
	return table
}

func TestStore_LoadAndSnapshot(t *testing.T) {
	st := New(zap.NewNop(), 0.05)
	require.Nil(t, st.Snapshot())

	report, err := st.Load(context.Background(), stubSource{table: validTable(10)})

	require.NoError(t, err)
	assert.Equal(t, 10, report.Accepted)
	require.NotNil(t, st.Snapshot())
	assert.Equal(t, 10, st.Snapshot().Len())
}

func TestStore_FailedLoadKeepsPriorSnapshot(t *testing.T) {
	st := New(zap.NewNop(), 0.05)
	_, err := st.Load(context.Background(), stubSource{table: validTable(10)})
	require.NoError(t, err)
	before := st.Snapshot()

	t.Run("source error", func(t *testing.T) {
		_, err := st.Load(context.Background(), stubSource{err: errors.New("connection refused")})
		require.ErrorIs(t, err, ErrLoad)
		assert.Same(t, before, st.Snapshot())
	})

	t.Run("zero rows", func(t *testing.T) {
		_, err := st.Load(context.Background(), stubSource{table: models.RawTable{Columns: validate.RequiredColumns}})
		require.ErrorIs(t, err, ErrLoad)
		assert.Same(t, before, st.Snapshot())
	})

	t.Run("schema error", func(t *testing.T) {
		bad := validTable(5)
		bad.Columns = []string{"profile_id"}
		_, err := st.Load(context.Background(), stubSource{table: bad})
		var schemaErr *validate.SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Same(t, before, st.Snapshot())
	})

	t.Run("quality error", func(t *testing.T) {
		bad := validTable(10)
		for i := range bad.Rows[:5] {
			bad.Rows[i].TemperatureC = nil
		}
		_, err := st.Load(context.Background(), stubSource{table: bad})
		var qualityErr *validate.DataQualityError
		require.ErrorAs(t, err, &qualityErr)
		assert.Same(t, before, st.Snapshot())
	})
}

func TestStore_ReloadSwapsSnapshot(t *testing.T) {
	st := New(zap.NewNop(), 0.05)
	_, err := st.Load(context.Background(), stubSource{table: validTable(10)})
	require.NoError(t, err)
	old := st.Snapshot()

	_, err = st.Load(context.Background(), stubSource{table: validTable(20)})
	require.NoError(t, err)

	assert.Equal(t, 20, st.Snapshot().Len())
	// The old snapshot is untouched for readers still holding it.
	assert.Equal(t, 10, old.Len())
}

func TestSampleSource(t *testing.T) {
	src := DefaultSampleSource()

	table, err := src.Fetch(context.Background())

	require.NoError(t, err)
	assert.Len(t, table.Rows, src.Profiles*src.Depths)
	assert.Equal(t, validate.RequiredColumns, table.Columns)

	t.Run("deterministic for a seed", func(t *testing.T) {
		again, err := src.Fetch(context.Background())
		require.NoError(t, err)
		assert.Equal(t, *table.Rows[0].Latitude, *again.Rows[0].Latitude)
		assert.Equal(t, *table.Rows[100].TemperatureC, *again.Rows[100].TemperatureC)
	})

	t.Run("loads cleanly", func(t *testing.T) {
		st := New(zap.NewNop(), 0.05)
		report, err := st.Load(context.Background(), src)
		require.NoError(t, err)
		assert.Equal(t, src.Profiles*src.Depths, report.Accepted+report.Rejected)
	})
}

func TestCSVSource(t *testing.T) {
	t.Run("parses file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "argo.csv")
		content := "profile_id,latitude,longitude,timestamp,depth_m,pressure_dbar,temperature_c,salinity_psu\n" +
			"1,10.5,-30.2,2024-05-01T00:00:00Z,100,102.5,15.2,35.1\n" +
			"1,10.5,-30.2,2024-05-01T00:00:00Z,200,205.0,14.1,35.2\n" +
			"2,11.0,-31.0,2024-05-02,50,51.25,16.0,\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		table, err := CSVSource{Path: path}.Fetch(context.Background())

		require.NoError(t, err)
		require.Len(t, table.Rows, 3)
		assert.Equal(t, 1, *table.Rows[0].ProfileID)
		assert.Equal(t, 100.0, *table.Rows[0].DepthM)
		assert.Equal(t, 15.2, *table.Rows[0].TemperatureC)
		// Date-only timestamps parse too.
		assert.Equal(t, time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), *table.Rows[2].Timestamp)
		// Empty cells surface as missing values for the validator.
		assert.Nil(t, table.Rows[2].SalinityPSU)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := CSVSource{Path: filepath.Join(t.TempDir(), "nope.csv")}.Fetch(context.Background())
		assert.Error(t, err)
	})
}
