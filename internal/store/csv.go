package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/oceandata/floatchat/internal/models"
)

// CSVSource reads measurements from a comma-separated file. The header row
// names the columns; unparseable cells become missing values for the
// validator to drop.
type CSVSource struct {
	Path string
}

// Fetch reads and parses the whole file.
func (c CSVSource) Fetch(ctx context.Context) (models.RawTable, error) {
	f, err := os.Open(c.Path)
	if err != nil {
		return models.RawTable{}, fmt.Errorf("open %s: %w", c.Path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return models.RawTable{}, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	columns := make([]string, 0, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		index[name] = i
		columns = append(columns, name)
	}

	table := models.RawTable{Columns: columns}
	for {
		if err := ctx.Err(); err != nil {
			return models.RawTable{}, err
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return models.RawTable{}, fmt.Errorf("read row: %w", err)
		}
		table.Rows = append(table.Rows, parseRecord(record, index))
	}

	return table, nil
}

func parseRecord(record []string, index map[string]int) models.RawRow {
	cell := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	return models.RawRow{
		ProfileID:    parseInt(cell("profile_id")),
		Latitude:     parseFloat(cell("latitude")),
		Longitude:    parseFloat(cell("longitude")),
		Timestamp:    parseTime(cell("timestamp")),
		DepthM:       parseFloat(cell("depth_m")),
		PressureDbar: parseFloat(cell("pressure_dbar")),
		TemperatureC: parseFloat(cell("temperature_c")),
		SalinityPSU:  parseFloat(cell("salinity_psu")),
	}
}

func parseInt(s string) *int {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

func parseFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			tt := t.UTC()
			return &tt
		}
	}
	return nil
}
