package pipeline

import (
	"fmt"
	"strings"

	"github.com/oceandata/floatchat/internal/models"
)

// formatStats renders summary statistics into the narration prompt context.
// Only aggregates go into the prompt, never raw rows.
func formatStats(s models.SummaryStatistics) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Result set contains %d measurements from %d profiles.\n", s.Count, s.Profiles)
	fmt.Fprintf(&b, "Data spans %s to %s.\n", s.StartDate.Format("2006-01-02"), s.EndDate.Format("2006-01-02"))
	fmt.Fprintf(&b, "Depth range: %.1fm to %.1fm\n", s.Depth.Min, s.Depth.Max)
	fmt.Fprintf(&b, "Temperature: %.2f°C to %.2f°C (mean %.2f°C)\n", s.Temperature.Min, s.Temperature.Max, s.Temperature.Mean)
	fmt.Fprintf(&b, "Salinity: %.2f to %.2f PSU (mean %.2f PSU)\n", s.Salinity.Min, s.Salinity.Max, s.Salinity.Mean)
	fmt.Fprintf(&b, "Geographic coverage: %.1f° to %.1f° latitude, %.1f° to %.1f° longitude",
		s.MinLat, s.MaxLat, s.MinLon, s.MaxLon)
	return b.String()
}

// fallbackText builds the templated answer used when the narration service
// is unavailable. It must always be non-empty.
func fallbackText(t models.QueryType, stats *models.SummaryStatistics) string {
	switch t {
	case models.QueryTypeData:
		if stats != nil && stats.Count > 0 {
			return "Here is a summary of the matching float data:\n\n" + formatStats(*stats) +
				"\n\nThe narration service is temporarily unavailable, so this is a direct statistical summary."
		}
		return "Your data query was processed, but the narration service is temporarily unavailable. " +
			"Please try again in a moment."
	case models.QueryTypeGreeting:
		return "Hi! I'm FloatChat, your assistant for exploring Argo ocean data. " +
			"I can analyze temperature and salinity patterns, create visualizations, " +
			"and answer oceanography questions. What would you like to explore?"
	default:
		return "I'm unable to reach the narration service right now, but I can still help with " +
			"Argo float data: temperature, salinity, and depth measurements across the world ocean. " +
			"Please try your question again in a moment."
	}
}
