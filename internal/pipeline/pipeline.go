// Package pipeline runs the resumable reverse-geocode and classify batch.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/poi-parking/internal/checkpoint"
	"github.com/sells-group/poi-parking/internal/classify"
	"github.com/sells-group/poi-parking/internal/model"
	"github.com/sells-group/poi-parking/internal/resilience"
	"github.com/sells-group/poi-parking/pkg/nominatim"
)

// Config tunes a Pipeline.
type Config struct {
	Retry resilience.RetryConfig
	// Interval is the minimum wait between two consecutive lookups.
	Interval time.Duration
	// CheckpointEvery saves the snapshot after every N records.
	CheckpointEvery int
}

// DefaultConfig returns the settings the public Nominatim usage policy allows.
func DefaultConfig() Config {
	return Config{
		Retry:           resilience.DefaultRetryConfig(),
		Interval:        1500 * time.Millisecond,
		CheckpointEvery: 10,
	}
}

// Pipeline geocodes and classifies an ordered POI list, one POI at a time.
type Pipeline struct {
	cfg        Config
	geocoder   nominatim.Client
	classifier *classify.Classifier
	store      checkpoint.Store
	sleep      func(ctx context.Context, d time.Duration) error
	runID      string
}

// New creates a Pipeline. A zero CheckpointEvery falls back to 10.
func New(cfg Config, gc nominatim.Client, cl *classify.Classifier, st checkpoint.Store) *Pipeline {
	if cfg.CheckpointEvery <= 0 {
		cfg.CheckpointEvery = 10
	}
	if cfg.Interval < 0 {
		cfg.Interval = 0
	}
	return &Pipeline{
		cfg:        cfg,
		geocoder:   gc,
		classifier: cl,
		store:      st,
		sleep:      resilience.Sleep,
		runID:      uuid.New().String(),
	}
}

// SetSleep replaces the pacing wait between lookups.
func (p *Pipeline) SetSleep(fn func(ctx context.Context, d time.Duration) error) {
	p.sleep = fn
}

// RunID identifies this pipeline's run in logs.
func (p *Pipeline) RunID() string {
	return p.runID
}

// Resume returns the saved prefix and the index to continue from. A snapshot
// that cannot be read, is longer than pois, or whose ids differ from the ids
// of the matching pois prefix is discarded and the run starts over.
func (p *Pipeline) Resume(ctx context.Context, pois []model.POI) ([]model.Record, int) {
	log := zap.L().With(zap.String("run_id", p.runID))

	snapshot, err := p.store.Load(ctx)
	if err != nil {
		log.Warn("pipeline: discarding unreadable checkpoint", zap.Error(err))
		return nil, 0
	}
	if len(snapshot) == 0 {
		return nil, 0
	}
	if len(snapshot) > len(pois) {
		log.Warn("pipeline: discarding checkpoint longer than input",
			zap.Int("checkpoint", len(snapshot)),
			zap.Int("input", len(pois)),
		)
		return nil, 0
	}
	for i, r := range snapshot {
		if r.RowID != pois[i].ID {
			log.Warn("pipeline: discarding checkpoint for a different input",
				zap.Int("index", i),
				zap.Int("checkpoint_rowid", r.RowID),
				zap.Int("input_rowid", pois[i].ID),
			)
			return nil, 0
		}
	}

	log.Info("pipeline: resuming from checkpoint", zap.Int("offset", len(snapshot)))
	return snapshot, len(snapshot)
}

// ClassifyAndMerge builds the output record for poi from its lookup result.
func (p *Pipeline) ClassifyAndMerge(poi model.POI, res model.GeocodeResult) model.Record {
	if res.Failed() {
		return model.NewRecord(poi, res, model.Unclassified)
	}
	return model.NewRecord(poi, res, p.classifier.Classify(poi.Name, res))
}

// Run produces one record per POI in input order, resuming from the
// checkpoint store. The snapshot is saved every CheckpointEvery records and
// cleared once every POI is covered. On cancellation the records so far are
// returned with the context error and the snapshot is left in place.
func (p *Pipeline) Run(ctx context.Context, pois []model.POI) ([]model.Record, error) {
	log := zap.L().With(zap.String("run_id", p.runID))

	records, offset := p.Resume(ctx, pois)
	out := make([]model.Record, 0, len(pois))
	out = append(out, records...)

	log.Info("pipeline: starting",
		zap.Int("pois", len(pois)),
		zap.Int("offset", offset),
	)
	start := time.Now()

	for i := offset; i < len(pois); i++ {
		if i > offset {
			if err := p.sleep(ctx, p.cfg.Interval); err != nil {
				return out, eris.Wrap(err, "pipeline: interrupted")
			}
		}

		poi := pois[i]
		res := p.Lookup(ctx, poi)
		if err := ctx.Err(); err != nil {
			return out, eris.Wrap(err, "pipeline: interrupted")
		}

		rec := p.ClassifyAndMerge(poi, res)
		out = append(out, rec)
		log.Info("pipeline: processed poi",
			zap.Int("position", i+1),
			zap.Int("total", len(pois)),
			zap.Int("rowid", poi.ID),
			zap.String("poi", poi.Name),
			zap.String("confidence", string(rec.Confidence)),
		)

		if (i+1)%p.cfg.CheckpointEvery == 0 {
			if err := p.store.Save(ctx, out); err != nil {
				return out, eris.Wrap(err, "pipeline: save checkpoint")
			}
			log.Info("pipeline: checkpoint saved", zap.Int("records", len(out)))
		}
	}

	if err := p.store.Clear(ctx); err != nil {
		return out, eris.Wrap(err, "pipeline: clear checkpoint")
	}

	log.Info("pipeline: complete",
		zap.Int("records", len(out)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return out, nil
}
