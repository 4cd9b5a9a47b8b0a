package store

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/oceandata/floatchat/internal/metrics"
	"github.com/oceandata/floatchat/internal/models"
	"github.com/oceandata/floatchat/internal/validate"
)

// ErrLoad marks a failed dataset load. The previous snapshot, if any, stays
// in place.
var ErrLoad = errors.New("dataset load failed")

// Source delivers raw measurement rows from some backing location.
type Source interface {
	Fetch(ctx context.Context) (models.RawTable, error)
}

// Store owns the current dataset snapshot. Reads are lock-free; Load swaps
// the snapshot pointer atomically so in-flight queries keep the dataset they
// started with.
type Store struct {
	snapshot  atomic.Pointer[models.Dataset]
	validator *validate.Validator
	threshold float64
	logger    *zap.Logger
}

// New creates an empty store. threshold is the fatal rejection ratio for
// loads.
func New(logger *zap.Logger, threshold float64) *Store {
	return &Store{
		validator: validate.New(logger),
		threshold: threshold,
		logger:    logger,
	}
}

// Load fetches, validates, and installs a new dataset. On any error the
// prior snapshot is left untouched.
func (s *Store) Load(ctx context.Context, src Source) (validate.Report, error) {
	table, err := src.Fetch(ctx)
	if err != nil {
		return validate.Report{}, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	if len(table.Rows) == 0 {
		return validate.Report{}, fmt.Errorf("%w: source yielded zero rows", ErrLoad)
	}

	rows, report, err := s.validator.Run(table)
	if err != nil {
		return report, err
	}
	if err := validate.CheckQuality(report, s.threshold); err != nil {
		return report, err
	}
	if len(rows) == 0 {
		return report, fmt.Errorf("%w: no rows survived validation", ErrLoad)
	}

	dataset := &models.Dataset{Rows: rows, LoadedAt: time.Now().UTC()}
	s.snapshot.Store(dataset)

	metrics.DatasetRows.Set(float64(len(rows)))
	metrics.RejectedRows.Add(float64(report.Rejected))

	s.logger.Info("dataset loaded",
		zap.Int("accepted", report.Accepted),
		zap.Int("rejected", report.Rejected),
		zap.Int("soft_violations", report.SoftViolations))

	return report, nil
}

// Snapshot returns the current immutable dataset, or nil when nothing has
// been loaded yet. Callers must not mutate the returned rows.
func (s *Store) Snapshot() *models.Dataset {
	return s.snapshot.Load()
}
