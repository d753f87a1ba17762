package chart

import (
	"context"
	"time"

	"github.com/llehouerou/starchart/internal/aggregate"
	"github.com/llehouerou/starchart/internal/assign"
	"github.com/llehouerou/starchart/internal/classify"
	"github.com/llehouerou/starchart/internal/group"
	"github.com/llehouerou/starchart/internal/guard"
	"github.com/llehouerou/starchart/internal/logging"
	"github.com/llehouerou/starchart/internal/music"
	"github.com/llehouerou/starchart/internal/position"
	"github.com/llehouerou/starchart/internal/profile"
	"github.com/llehouerou/starchart/internal/taxonomy"
)

// Options tune the pipeline.
type Options struct {
	Thresholds guard.Thresholds
	Weights    assign.Weights

	// BlendWeight is the probability of keeping the recent sign when the
	// recent and historical signs disagree.
	BlendWeight float64

	// Rand drives sign blending; nil uses math/rand.
	Rand profile.Rand
}

// DefaultOptions returns the standard thresholds, weights and blend weight.
func DefaultOptions() Options {
	return Options{
		Thresholds:  guard.DefaultThresholds(),
		Weights:     assign.DefaultWeights(),
		BlendWeight: 0.7,
	}
}

// Pipeline computes charts. It holds only read-only configuration and may be
// shared between goroutines.
type Pipeline struct {
	tax         *taxonomy.Taxonomy
	classifiers map[classify.Source]classify.Classifier
	engine      *assign.Engine
	guard       *guard.Guard
	summarizer  *profile.Summarizer
	blendWeight float64
	now         func() time.Time
}

// NewPipeline builds a pipeline over validated taxonomy and position tables.
func NewPipeline(tax *taxonomy.Taxonomy, positions position.Table, opts Options) *Pipeline {
	if opts.Thresholds == (guard.Thresholds{}) {
		opts.Thresholds = guard.DefaultThresholds()
	}
	return &Pipeline{
		tax: tax,
		classifiers: map[classify.Source]classify.Classifier{
			classify.SourceTags:   classify.ForSource(classify.SourceTags, tax),
			classify.SourceGenres: classify.ForSource(classify.SourceGenres, tax),
		},
		engine:      assign.New(positions, tax, opts.Weights.WithDefaults()),
		guard:       guard.New(opts.Thresholds),
		summarizer:  profile.New(tax, opts.Rand),
		blendWeight: opts.BlendWeight,
		now:         time.Now,
	}
}

// Compute turns one listener's inputs into a chart, or returns a *guard.Error
// when a checkpoint fails. It performs no I/O.
func (p *Pipeline) Compute(ctx context.Context, in Inputs) (*Chart, error) {
	log := logging.Ctx(ctx)
	tracks := len(in.Tracks)

	if err := p.guard.CheckRaw(len(in.Primary)+len(in.Secondary), tracks); err != nil {
		return nil, err
	}

	kind := in.Kind
	if kind == "" {
		kind = classify.SourceTags
	}
	key := aggregate.ByName
	if kind == classify.SourceGenres {
		key = aggregate.ByID
	}

	secondary := aggregate.Concat(key, in.Secondary, music.ArtistsFromTracks(in.Tracks))
	pool := aggregate.Merge(in.Primary, secondary, key)
	log.Debug().
		Int("primary", len(in.Primary)).
		Int("secondary", len(secondary)).
		Int("pooled", len(pool)).
		Msg("artists pooled")
	if err := p.guard.CheckPool(len(pool), tracks); err != nil {
		return nil, err
	}

	classifier, ok := p.classifiers[kind]
	if !ok {
		classifier = p.classifiers[classify.SourceTags]
	}
	buckets := group.Group(pool, classifier)
	log.Debug().Int("genres", len(buckets)).Str("kind", string(kind)).Msg("artists grouped")
	if err := p.guard.CheckGenres(len(pool), tracks, len(buckets)); err != nil {
		return nil, err
	}

	assigned := p.engine.Assign(buckets)
	log.Debug().Int("filled", assigned.Filled()).Msg("positions assigned")
	if err := p.guard.CheckChart(assigned.Filled(), len(pool), tracks, len(buckets)); err != nil {
		return nil, err
	}

	summary := p.summarizer.Summarize(aggregate.Artists(pool))
	runID := logging.RunIDFromContext(ctx)
	if runID == "" {
		runID = logging.NewRunID()
	}

	return &Chart{
		Listener:   in.Listener,
		RunID:      runID,
		Kind:       kind,
		ComputedAt: p.now(),
		Positions:  assigned.InOrder(),
		Profile: Profile{
			Sign:       p.summarizer.Blend(in.Primary, secondary, p.blendWeight),
			Diversity:  summary.Diversity,
			Popularity: summary.Popularity,
		},
		Counts: Counts{Artists: len(pool), Tracks: tracks, Genres: len(buckets)},
	}, nil
}
