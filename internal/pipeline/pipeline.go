package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/oceandata/floatchat/internal/classify"
	"github.com/oceandata/floatchat/internal/engine"
	"github.com/oceandata/floatchat/internal/metrics"
	"github.com/oceandata/floatchat/internal/models"
	"github.com/oceandata/floatchat/internal/narrate"
	"github.com/oceandata/floatchat/internal/store"
	"github.com/oceandata/floatchat/internal/viz"
)

// Options control per-query behavior.
type Options struct {
	IncludeVisualization bool
}

// Pipeline drives a query through classification, filtering, visualization,
// and narration. Every call returns a QueryResult; narration failures
// degrade to a templated summary and never fail the request.
type Pipeline struct {
	store         *store.Store
	classifier    *classify.Classifier
	viz           *viz.Generator
	narrator      narrate.Narrator
	logger        *zap.Logger
	narrationWait time.Duration
	retryBackoff  time.Duration
}

// New wires a pipeline from its collaborators.
func New(st *store.Store, cl *classify.Classifier, vz *viz.Generator, nr narrate.Narrator,
	logger *zap.Logger, narrationWait, retryBackoff time.Duration) *Pipeline {
	return &Pipeline{
		store:         st,
		classifier:    cl,
		viz:           vz,
		narrator:      nr,
		logger:        logger,
		narrationWait: narrationWait,
		retryBackoff:  retryBackoff,
	}
}

// ProcessQuery answers a single free-text query. Any string is well-formed
// input; the pipeline never returns an error for a query.
func (p *Pipeline) ProcessQuery(ctx context.Context, text string, opts Options) models.QueryResult {
	started := time.Now()
	defer func() {
		metrics.QueryDuration.Observe(time.Since(started).Seconds())
	}()

	intent := p.classifier.Classify(text)
	metrics.QueriesTotal.WithLabelValues(string(intent.Type)).Inc()

	result := models.QueryResult{
		QueryType: intent.Type,
		Timestamp: time.Now().UTC(),
	}

	var (
		filtered    []models.Measurement
		dataContext string
	)

	if intent.Type == models.QueryTypeData {
		snapshot := p.store.Snapshot()
		if snapshot.Len() == 0 {
			result.TextResponse = "I'm currently unable to access the float dataset. Please try again later."
			return result
		}

		var stats models.SummaryStatistics
		filtered, stats = engine.Apply(snapshot, intent.Filter)
		result.Statistics = &stats

		p.logger.Info("query filtered",
			zap.Int("matched", stats.Count),
			zap.Int("dataset", snapshot.Len()),
			zap.String("region", intent.Filter.Region))

		if stats.Count == 0 {
			result.TextResponse = "No measurements matched your criteria. Try widening the depth, date, or region bounds."
			return result
		}

		dataContext = formatStats(stats)
	}

	result.TextResponse = p.narrate(ctx, text, intent, dataContext, result.Statistics)

	if opts.IncludeVisualization && intent.Type == models.QueryTypeData && len(filtered) > 0 {
		ptype := viz.ChooseType(text)
		artifact := p.viz.Generate(filtered, ptype, intent.Filter.Variable, "")
		if artifact.InsufficientData {
			p.logger.Warn("plot skipped", zap.String("type", string(ptype)), zap.Int("points", len(filtered)))
		} else {
			result.Plot = artifact
			result.TextResponse += "\n\nI've included a " + plotName(ptype) + " to illustrate the data."
		}
	}

	return result
}

// narrate calls the external collaborator with a bounded timeout, retrying
// once with backoff before degrading to the templated summary.
func (p *Pipeline) narrate(ctx context.Context, text string, intent models.QueryIntent,
	dataContext string, stats *models.SummaryStatistics) string {

	req := narrate.Request{
		Query:       text,
		Type:        responseType(intent.Type),
		DataContext: dataContext,
	}

	answer, err := p.tryNarrate(ctx, req)
	if err != nil {
		p.logger.Warn("narration attempt failed", zap.Error(err))
		select {
		case <-time.After(p.retryBackoff):
			answer, err = p.tryNarrate(ctx, req)
		case <-ctx.Done():
		}
	}
	if err == nil {
		return answer
	}

	p.logger.Warn("narration unavailable, using templated summary", zap.Error(err))
	metrics.NarrationFallbacks.Inc()
	return fallbackText(intent.Type, stats)
}

func (p *Pipeline) tryNarrate(ctx context.Context, req narrate.Request) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, p.narrationWait)
	defer cancel()
	return p.narrator.Generate(callCtx, req)
}

func responseType(t models.QueryType) narrate.ResponseType {
	switch t {
	case models.QueryTypeData:
		return narrate.ResponseDataAnalysis
	case models.QueryTypeGreeting:
		return narrate.ResponseGreeting
	default:
		return narrate.ResponseExplanation
	}
}

func plotName(t models.PlotType) string {
	switch t {
	case models.PlotMap:
		return "geographic map"
	case models.PlotScatter:
		return "temperature-salinity diagram"
	case models.PlotTimeSeries:
		return "time-series plot"
	case models.PlotHistogram:
		return "depth histogram"
	default:
		return "depth profile plot"
	}
}
