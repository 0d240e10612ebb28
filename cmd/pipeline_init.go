package main

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/sells-group/poi-parking/internal/checkpoint"
	"github.com/sells-group/poi-parking/internal/classify"
	"github.com/sells-group/poi-parking/internal/config"
	"github.com/sells-group/poi-parking/internal/pipeline"
	"github.com/sells-group/poi-parking/internal/resilience"
	"github.com/sells-group/poi-parking/pkg/nominatim"
)

// profileFlags are the per-invocation overrides of a profile.
type profileFlags struct {
	name   string
	input  string
	output string
	limit  int
	region string
}

// register adds the profile flags to fs.
func (pf *profileFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&pf.name, "profile", "citywide", "analysis profile (see `profiles`)")
	fs.StringVar(&pf.input, "input", "", "GeoJSON feature collection (overrides the profile)")
	fs.StringVar(&pf.output, "output", "", "analysis CSV path (overrides the profile)")
	fs.IntVar(&pf.limit, "limit", 0, "keep only the first N features, 0 for all (overrides the profile)")
	fs.StringVar(&pf.region, "region", "", "keep only features whose geog equals this (overrides the profile)")
}

// resolve returns the selected profile with every flag the user set applied.
func (pf *profileFlags) resolve(c *config.Config, fs *pflag.FlagSet) (config.Profile, error) {
	p, err := c.Profile(pf.name)
	if err != nil {
		return config.Profile{}, err
	}
	if fs.Changed("input") {
		p.Input = pf.input
	}
	if fs.Changed("output") {
		p.Output = pf.output
	}
	if fs.Changed("limit") {
		p.Limit = pf.limit
	}
	if fs.Changed("region") {
		p.Region = pf.region
	}
	return p, nil
}

// runEnv holds the initialized geocoder, checkpoint store and pipeline needed
// by the run command.
type runEnv struct {
	Profile    config.Profile
	Store      checkpoint.Store
	Classifier *classify.Classifier
	Pipeline   *pipeline.Pipeline
}

// Close releases resources held by the run environment.
func (e *runEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// newClassifier builds the classifier from the configured keyword file.
func newClassifier(c *config.Config) (*classify.Classifier, error) {
	kw, err := classify.LoadKeywords(c.Classify.KeywordsFile)
	if err != nil {
		return nil, eris.Wrap(err, "load keywords")
	}
	return classify.New(kw), nil
}

// newGeocoder builds the Nominatim client for a profile, wrapped in a lookup
// cache when one is configured.
func newGeocoder(c *config.Config, p config.Profile) nominatim.Client {
	ua := c.Nominatim.UserAgent
	if p.UserAgent != "" {
		ua = p.UserAgent
	}
	gc := nominatim.NewClient(
		nominatim.WithBaseURL(c.Nominatim.BaseURL),
		nominatim.WithUserAgent(ua),
		nominatim.WithTimeout(time.Duration(c.Nominatim.TimeoutSecs)*time.Second),
		nominatim.WithZoom(c.Nominatim.Zoom),
		nominatim.WithExtraTags(c.Nominatim.ExtraTags),
		nominatim.WithRateLimit(c.Nominatim.RatePerSec),
	)
	if c.Nominatim.CacheTTLMins > 0 {
		return nominatim.NewCachedClient(gc, time.Duration(c.Nominatim.CacheTTLMins)*time.Minute)
	}
	return gc
}

// pipelineConfig maps the retry and pipeline sections onto pipeline.Config.
func pipelineConfig(c *config.Config) pipeline.Config {
	return pipeline.Config{
		Retry:           resilience.FromRetryConfig(c.Retry.MaxAttempts, c.Retry.BackoffMs, c.Retry.TransientOnly),
		Interval:        time.Duration(c.Pipeline.IntervalMs) * time.Millisecond,
		CheckpointEvery: c.Pipeline.CheckpointEvery,
	}
}

// initRun validates the configuration and wires the pipeline for profile p.
// Callers should defer env.Close().
func initRun(ctx context.Context, c *config.Config, name string, p config.Profile) (*runEnv, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, eris.Wrapf(err, "profile %s", name)
	}

	if p.Checkpoint == "" {
		p.Checkpoint = strings.TrimSuffix(p.Output, filepath.Ext(p.Output)) + "_progress.json"
	}

	cl, err := newClassifier(c)
	if err != nil {
		return nil, err
	}

	st, err := checkpoint.Open(ctx, checkpoint.Config{
		Driver: checkpoint.Driver(c.Checkpoint.Driver),
		Path:   p.Checkpoint,
		DSN:    c.Checkpoint.DSN,
		Name:   name,
	})
	if err != nil {
		return nil, eris.Wrap(err, "open checkpoint store")
	}

	pl := pipeline.New(pipelineConfig(c), newGeocoder(c, p), cl, st)
	zap.L().Debug("run environment ready",
		zap.String("profile", name),
		zap.String("checkpoint_driver", c.Checkpoint.Driver),
		zap.String("run_id", pl.RunID()),
	)

	return &runEnv{Profile: p, Store: st, Classifier: cl, Pipeline: pl}, nil
}
