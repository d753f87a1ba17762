package chart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/llehouerou/starchart/internal/guard"
	"github.com/llehouerou/starchart/internal/logging"
	"github.com/llehouerou/starchart/internal/metrics"
	"github.com/llehouerou/starchart/internal/state"
)

// Fetcher collects a listener's inputs. Transient upstream failures must
// degrade to empty lists; an error means nothing usable could be fetched.
type Fetcher interface {
	Fetch(ctx context.Context, listener string) (Inputs, error)
}

// Store persists finished charts.
type Store interface {
	SaveChart(rec state.ChartRecord) error
}

// Service fetches, computes and stores charts.
type Service struct {
	fetcher  Fetcher
	pipeline *Pipeline
	store    Store
}

// NewService creates a Service.
func NewService(f Fetcher, p *Pipeline, s Store) *Service {
	return &Service{fetcher: f, pipeline: p, store: s}
}

// Refresh computes the listener's chart and stores it. The store is called
// exactly once per successful computation and never for a failed one.
func (s *Service) Refresh(ctx context.Context, listener string) (*Chart, error) {
	ctx = logging.ContextWithRun(ctx, listener, logging.NewRunID())
	log := logging.Ctx(ctx)
	start := time.Now()

	in, err := s.fetcher.Fetch(ctx, listener)
	if err != nil {
		metrics.RecordChart(metrics.OutcomeError, "", 0, 0, time.Since(start))
		return nil, fmt.Errorf("fetch %s: %w", listener, err)
	}
	if in.Listener == "" {
		in.Listener = listener
	}

	c, err := s.pipeline.Compute(ctx, in)
	if err != nil {
		var gerr *guard.Error
		if errors.As(err, &gerr) {
			log.Info().
				Str("stage", gerr.Stage.String()).
				Int("artists", gerr.Artists).
				Int("tracks", gerr.Tracks).
				Int("genres", gerr.Genres).
				Msg("insufficient listening data")
			metrics.RecordChart(metrics.OutcomeInsufficient, gerr.Stage.String(), 0, 0, time.Since(start))
		} else {
			metrics.RecordChart(metrics.OutcomeError, "", 0, 0, time.Since(start))
		}
		return nil, err
	}

	rec, err := c.Record()
	if err != nil {
		metrics.RecordChart(metrics.OutcomeError, "", 0, 0, time.Since(start))
		return nil, err
	}
	if err := s.store.SaveChart(rec); err != nil {
		metrics.RecordChart(metrics.OutcomeError, "", 0, 0, time.Since(start))
		return nil, fmt.Errorf("save chart %s: %w", listener, err)
	}

	metrics.RecordChart(metrics.OutcomeOK, "", c.Filled(), c.Backfilled(), time.Since(start))
	log.Info().
		Int("filled", c.Filled()).
		Str("sign", string(c.Profile.Sign)).
		Dur("took", time.Since(start)).
		Msg("chart refreshed")
	return c, nil
}

// Result is the outcome of one listener in a batch refresh.
type Result struct {
	Listener string
	Chart    *Chart
	Err      error
}

// RefreshAll refreshes listeners with at most workers concurrent runs.
// Results are in input order. A failing listener does not stop the others;
// listeners not started before ctx is done report ctx's error.
func (s *Service) RefreshAll(ctx context.Context, listeners []string, workers int) []Result {
	if workers <= 0 {
		workers = 1
	}

	results := make([]Result, len(listeners))
	var g errgroup.Group
	g.SetLimit(workers)

	for i, listener := range listeners {
		results[i].Listener = listener
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Chart, results[i].Err = s.Refresh(ctx, listener)
			return nil
		})
	}
	_ = g.Wait() // errors are recorded per listener

	return results
}
