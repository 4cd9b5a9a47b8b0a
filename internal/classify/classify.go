package classify

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/oceandata/floatchat/internal/models"
)

// greetings are matched exactly against the normalized query.
var greetings = map[string]struct{}{
	"hi": {}, "hello": {}, "hey": {}, "greetings": {},
	"good morning": {}, "good afternoon": {}, "good evening": {},
}

// dataKeywords indicate the user wants measurements, not prose. Geographic
// and statistical terms sit here so mixed queries like "show me temperature
// in the Atlantic" classify as data queries.
var dataKeywords = []string{
	"temperature", "salinity", "depth", "profile", "data", "show me",
	"plot", "graph", "visualization", "chart", "analyze", "trend",
	"pattern", "distribution", "map", "compare", "relationship",
	"atlantic", "pacific", "indian", "arctic", "southern ocean",
	"ocean", "latitude", "longitude", "region", "average", "mean",
	"minimum", "maximum",
}

var explanationKeywords = []string{
	"what is", "what are", "how does", "how do", "explain", "why",
	"definition", "concept", "argo float", "oceanography",
	"marine science", "help me understand",
}

var (
	depthRangeRe  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:m\b|meters?|metres?)?\s*(?:to|-|and)\s*(\d+(?:\.\d+)?)\s*(?:m\b|meter|metre)`)
	depthSingleRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:m\b|meter|metre)`)
	yearRe        = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)
	lastSpanRe    = regexp.MustCompile(`(?:last|past)\s+(\d+)?\s*(year|month|day)s?`)
)

// Depth bands for qualitative depth words.
const (
	surfaceMaxDepth = 50.0
	shallowMaxDepth = 200.0
	deepMinDepth    = 1000.0
)

// Classifier maps free-text queries to intents. Classification never fails;
// unrecognized input degrades to the general intent.
type Classifier struct {
	regions map[string]Region
	logger  *zap.Logger
	now     func() time.Time
}

// New creates a classifier with the given region mapping. A nil mapping
// falls back to the built-in defaults.
func New(regions map[string]Region, logger *zap.Logger) *Classifier {
	if regions == nil {
		regions = DefaultRegions()
	}
	return &Classifier{regions: regions, logger: logger, now: time.Now}
}

// Classify runs the ordered intent rules over the query text. Rules fire in
// a fixed sequence: greeting, data query, explanation, then general.
func (c *Classifier) Classify(text string) models.QueryIntent {
	normalized := normalize(text)

	rules := []struct {
		intent models.QueryType
		match  func(string) bool
	}{
		{models.QueryTypeGreeting, isGreeting},
		{models.QueryTypeData, containsAny(dataKeywords)},
		{models.QueryTypeExplanation, containsAny(explanationKeywords)},
	}

	for _, rule := range rules {
		if !rule.match(normalized) {
			continue
		}
		intent := models.QueryIntent{Type: rule.intent}
		if rule.intent == models.QueryTypeData {
			intent.Filter = c.extractFilter(normalized)
		}
		c.logger.Debug("classified query",
			zap.String("intent", string(rule.intent)),
			zap.Bool("has_filter", !intent.Filter.IsEmpty()))
		return intent
	}

	return models.QueryIntent{Type: models.QueryTypeGeneral}
}

func normalize(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	return strings.TrimRight(s, "!?. ")
}

func isGreeting(s string) bool {
	_, ok := greetings[s]
	return ok
}

func containsAny(keywords []string) func(string) bool {
	return func(s string) bool {
		for _, kw := range keywords {
			if strings.Contains(s, kw) {
				return true
			}
		}
		return false
	}
}

// extractFilter pulls filter parameters out of a normalized data query.
func (c *Classifier) extractFilter(s string) models.FilterSpec {
	var spec models.FilterSpec

	switch {
	case strings.Contains(s, "temperature"):
		spec.Variable = models.VariableTemperature
	case strings.Contains(s, "salinity"):
		spec.Variable = models.VariableSalinity
	}

	for _, name := range sortedNames(c.regions) {
		if strings.Contains(s, name) {
			region := c.regions[name]
			spec.Region = name
			spec.MinLat = ptr(region.MinLat)
			spec.MaxLat = ptr(region.MaxLat)
			spec.MinLon = ptr(region.MinLon)
			spec.MaxLon = ptr(region.MaxLon)
			break
		}
	}

	c.extractDepth(s, &spec)
	c.extractDates(s, &spec)

	return spec
}

func (c *Classifier) extractDepth(s string, spec *models.FilterSpec) {
	if m := depthRangeRe.FindStringSubmatch(s); m != nil {
		lo, _ := strconv.ParseFloat(m[1], 64)
		hi, _ := strconv.ParseFloat(m[2], 64)
		if lo > hi {
			lo, hi = hi, lo
		}
		spec.MinDepth = ptr(lo)
		spec.MaxDepth = ptr(hi)
		return
	}

	if m := depthSingleRe.FindStringSubmatch(s); m != nil {
		v, _ := strconv.ParseFloat(m[1], 64)
		switch {
		case strings.Contains(s, "deeper than") || strings.Contains(s, "below"):
			spec.MinDepth = ptr(v)
		case strings.Contains(s, "shallower than") || strings.Contains(s, "above"):
			spec.MaxDepth = ptr(v)
		default:
			spec.MinDepth = ptr(v)
		}
		return
	}

	// Qualitative depth words only apply without an explicit range.
	switch {
	case strings.Contains(s, "surface"):
		spec.MaxDepth = ptr(surfaceMaxDepth)
	case strings.Contains(s, "shallow"):
		spec.MaxDepth = ptr(shallowMaxDepth)
	case strings.Contains(s, "deep"):
		spec.MinDepth = ptr(deepMinDepth)
	}
}

func (c *Classifier) extractDates(s string, spec *models.FilterSpec) {
	if m := lastSpanRe.FindStringSubmatch(s); m != nil {
		n := 1
		if m[1] != "" {
			n, _ = strconv.Atoi(m[1])
		}
		start := c.now().UTC()
		switch m[2] {
		case "year":
			start = start.AddDate(-n, 0, 0)
		case "month":
			start = start.AddDate(0, -n, 0)
		case "day":
			start = start.AddDate(0, 0, -n)
		}
		spec.StartDate = &start
		return
	}

	if m := yearRe.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[1])
		start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)
		spec.StartDate = &start
		spec.EndDate = &end
	}
}

func sortedNames(regions map[string]Region) []string {
	names := make([]string, 0, len(regions))
	for name := range regions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func ptr(v float64) *float64 {
	return &v
}
